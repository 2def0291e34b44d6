package web

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appLog "studycal/internal/log"
	"studycal/internal/model"
	"studycal/internal/payload"
	"studycal/internal/validation"
)

// kindAuto asks the server to detect the payload kind.
const kindAuto = "auto"

func (s *Server) readPayload(c *gin.Context, kind string) (payload.Payload, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize))
	if err != nil {
		writeError(c, http.StatusRequestEntityTooLarge, "body too large")
		return nil, false
	}

	var p payload.Payload
	if kind == "" || kind == kindAuto {
		p, err = payload.ParseAny(raw)
	} else {
		p, err = payload.Parse(payload.Kind(kind), raw)
	}
	if err != nil {
		var perr *payload.Error
		if errors.As(err, &perr) {
			appLog.Warn("payload rejected", "kind", string(perr.Kind), "field", perr.Field, "reason", perr.Reason)
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"error":  perr.Error(),
				"kind":   perr.Kind,
				"field":  perr.Field,
				"reason": perr.Reason,
			})
			return nil, false
		}
		writeError(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return p, true
}

type browseQuery struct {
	Search string `form:"search" json:"search" validate:"max=200"`
	Type   string `form:"type" json:"type" validate:"max=100"`
	Order  string `form:"order" json:"order" validate:"omitempty,oneof=asc desc"`
}

// POST /api/payloads/:kind[?search=&type=&order=asc|desc] validates a
// generated payload; kind may be "auto". Sessions are filtered by topic and
// sorted by day, questions filtered by type and text and sorted by text.
func (s *Server) handleValidatePayload(c *gin.Context) {
	var q browseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "invalid query")
		return
	}
	if err := validation.Struct(q); err != nil {
		writeValidationError(c, "invalid query", err)
		return
	}

	p, ok := s.readPayload(c, c.Param("kind"))
	if !ok {
		return
	}
	desc := q.Order == "desc"
	c.JSON(http.StatusOK, gin.H{
		"kind":      p.Kind(),
		"sessions":  payload.FilterSessions(payload.Sessions(p), q.Search, desc),
		"questions": payload.FilterQuestions(payload.Questions(p), q.Type, q.Search, desc),
		"payload":   p,
	})
}

func writeValidationError(c *gin.Context, msg string, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg, "fields": verr.Fields})
		return
	}
	writeError(c, http.StatusBadRequest, err.Error())
}

type scheduleQuery struct {
	Start  string `form:"start" json:"start" validate:"omitempty,datetime=2006-01-02"`
	Time   string `form:"time" json:"time" validate:"omitempty,datetime=15:04"`
	Color  string `form:"color" json:"color" validate:"omitempty,hexcolor,len=7"`
	Course string `form:"course" json:"course" validate:"max=200"`
	Kind   string `form:"kind" json:"kind"`
	ID     string `form:"id" json:"id" validate:"omitempty,max=64"`
}

// POST /api/plans/schedule places the daily sessions of a payload on the
// calendar, session N on start + N-1. Start defaults to today.
func (s *Server) handleSchedulePlan(c *gin.Context) {
	var q scheduleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "invalid query")
		return
	}
	if err := validation.Struct(q); err != nil {
		writeValidationError(c, "invalid query", err)
		return
	}

	start := time.Now().In(s.loc)
	if q.Start != "" {
		start, _ = time.ParseInLocation(model.DateLayout, q.Start, s.loc)
	}
	color := q.Color
	if color == "" {
		color = s.cfg.DefaultColor
	}

	p, ok := s.readPayload(c, q.Kind)
	if !ok {
		return
	}

	events := payload.ScheduleEvents(payload.Sessions(p), start, payload.ScheduleOptions{
		Time:     q.Time,
		Color:    color,
		Course:   q.Course,
		IDPrefix: q.ID,
	})
	out := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		s.store.AddOrUpdate(ev)
		out = append(out, toDTO(ev))
	}

	appLog.Info("plan scheduled", "kind", string(p.Kind()), "event_count", len(events), "start", model.FormatDate(start))
	c.JSON(http.StatusOK, gin.H{"events": out})
}
