package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"studycal/internal/dialog"
	"studycal/internal/grid"
	appLog "studycal/internal/log"
	"studycal/internal/model"
	"studycal/internal/validation"
)

func (s *Server) newDialog() *dialog.Dialog {
	return dialog.New(s.store, dialog.WithDefaultColor(s.cfg.DefaultColor))
}

// GET /api/events[?date=YYYY-MM-DD[&hour=H]]
func (s *Server) handleListEvents(c *gin.Context) {
	date := c.Query("date")
	hourParam := c.Query("hour")

	switch {
	case date == "" && hourParam != "":
		writeError(c, http.StatusBadRequest, "hour requires date")
	case date == "":
		out := make([]eventDTO, 0, s.store.Len())
		for _, ev := range s.store.All() {
			out = append(out, toDTO(ev))
		}
		c.JSON(http.StatusOK, gin.H{"events": out})
	case hourParam == "":
		c.JSON(http.StatusOK, gin.H{"events": toDTOs(s.store.FilterByDate(date))})
	default:
		hour, err := strconv.Atoi(hourParam)
		if err != nil || hour < 0 || hour >= grid.HoursPerDay {
			writeError(c, http.StatusBadRequest, "hour must be 0-23")
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": toDTOs(s.store.FilterByDateAndHour(date, hour))})
	}
}

func (s *Server) handleGetEvent(c *gin.Context) {
	ev, ok := s.store.Get(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "event not found")
		return
	}
	c.JSON(http.StatusOK, toDTO(ev))
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	id := c.Param("id")
	if !s.store.Remove(id) {
		writeError(c, http.StatusNotFound, "event not found")
		return
	}
	appLog.Info("event deleted", "event_id", id)
	c.Status(http.StatusNoContent)
}

// eventRequest is a submitted dialog form. A non-empty ID edits that event.
type eventRequest struct {
	ID string `json:"id"`
	dialog.Fields
}

// POST /api/events
func (s *Server) handleSubmitEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}

	d := s.newDialog()
	if req.ID != "" {
		ev, ok := s.store.Get(req.ID)
		if !ok {
			writeError(c, http.StatusNotFound, "event not found")
			return
		}
		d.OpenForEvent(ev)
	} else {
		d.OpenForSlot(grid.Slot{Hour: grid.NoHour})
	}
	d.Fields = withDefaults(req.Fields, d.Fields)

	ev, saved, err := d.Submit()
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid event", "fields": verr.Fields})
			return
		}
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !saved {
		c.JSON(http.StatusOK, gin.H{"saved": false})
		return
	}

	appLog.Info("event saved", "event_id", ev.ID, "date", ev.Date, "edit", req.ID != "")
	c.JSON(http.StatusOK, gin.H{"saved": true, "event": toDTO(ev)})
}

// withDefaults fills fields the client left out from the dialog's prefill.
func withDefaults(f, prefill dialog.Fields) dialog.Fields {
	if f.Color == "" {
		f.Color = prefill.Color
	}
	if r, err := model.ParseRepeatRule(string(f.Repeat)); err == nil {
		f.Repeat = r
	}
	if f.Time == "" && !f.AllDay {
		f.Time = prefill.Time
	}
	return f
}

// dialogOpenRequest is a click on the grid. Hour is omitted for month cells.
type dialogOpenRequest struct {
	Date           string `json:"date"`
	Hour           *int   `json:"hour"`
	InCurrentMonth bool   `json:"inCurrentMonth"`
	EventID        string `json:"eventId"`
}

type dialogState struct {
	Open    bool          `json:"open"`
	Editing string        `json:"editing,omitempty"`
	Fields  dialog.Fields `json:"fields"`
}

// POST /api/dialog/open returns the form a click would open.
func (s *Server) handleDialogOpen(c *gin.Context) {
	var req dialogOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}

	click := dialog.Click{EventID: req.EventID, InCurrentMonth: req.InCurrentMonth}
	if req.EventID == "" {
		date, err := time.ParseInLocation(model.DateLayout, req.Date, s.loc)
		if err != nil {
			writeError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		click.Slot = grid.Slot{Date: date, Hour: grid.NoHour}
		if req.Hour != nil {
			if *req.Hour < 0 || *req.Hour >= grid.HoursPerDay {
				writeError(c, http.StatusBadRequest, "hour must be 0-23")
				return
			}
			click.Slot.Hour = *req.Hour
		}
	}

	d := s.newDialog()
	if !d.HandleClick(click) {
		c.JSON(http.StatusOK, dialogState{Open: false, Fields: d.Fields})
		return
	}
	editing, _ := d.Editing()
	c.JSON(http.StatusOK, dialogState{Open: true, Editing: editing, Fields: d.Fields})
}
