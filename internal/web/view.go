package web

import (
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"studycal/internal/grid"
	"studycal/internal/model"
	"studycal/internal/palette"
	"studycal/internal/view"
)

// eventDTO is an event plus the text color its chip is drawn with.
type eventDTO struct {
	model.Event
	TextColor string `json:"textColor"`
}

func toDTO(ev model.Event) eventDTO {
	return eventDTO{Event: ev, TextColor: palette.TextColor(ev.Color)}
}

func toDTOs(seq iter.Seq[model.Event]) []eventDTO {
	out := make([]eventDTO, 0)
	for ev := range seq {
		out = append(out, toDTO(ev))
	}
	return out
}

type slotDTO struct {
	Hour   int        `json:"hour"`
	Label  string     `json:"label"`
	Events []eventDTO `json:"events"`
}

type dayDTO struct {
	Date           string `json:"date"`
	Day            int    `json:"day"`
	Weekday        string `json:"weekday"`
	InCurrentMonth bool   `json:"inCurrentMonth"`
	Today          bool   `json:"today"`
	// Events lists every event of the day in month view.
	Events []eventDTO `json:"events,omitempty"`
	// AllDay and Slots are filled in week and day views.
	AllDay []eventDTO `json:"allDay,omitempty"`
	Slots  []slotDTO  `json:"slots,omitempty"`
}

type viewResponse struct {
	Mode      model.ViewMode `json:"mode"`
	Reference string         `json:"reference"`
	WeekStart string         `json:"weekStart"`
	Title     string         `json:"title"`
	Hours     []int          `json:"hours,omitempty"`
	Days      []dayDTO       `json:"days"`
}

// buildView joins a grid with the store's events.
func (s *Server) buildView(st view.State, g grid.Grid) viewResponse {
	today := model.FormatDate(time.Now().In(s.loc))
	resp := viewResponse{
		Mode:      st.Mode,
		Reference: model.FormatDate(st.Reference),
		WeekStart: strings.ToLower(st.WeekStart.String()),
		Title:     st.Title(),
		Hours:     g.Hours,
		Days:      make([]dayDTO, 0, len(g.Days)),
	}

	for _, cell := range g.Days {
		date := model.FormatDate(cell.Date)
		day := dayDTO{
			Date:           date,
			Day:            cell.Day,
			Weekday:        cell.Date.Weekday().String()[:3],
			InCurrentMonth: cell.InCurrentMonth,
			Today:          date == today,
		}

		if len(g.Hours) == 0 {
			day.Events = toDTOs(s.store.FilterByDate(date))
			resp.Days = append(resp.Days, day)
			continue
		}

		day.AllDay = make([]eventDTO, 0)
		for ev := range s.store.FilterByDate(date) {
			if _, ok := ev.Hour(); !ok {
				day.AllDay = append(day.AllDay, toDTO(ev))
			}
		}
		day.Slots = make([]slotDTO, 0, len(g.Hours))
		for _, h := range g.Hours {
			day.Slots = append(day.Slots, slotDTO{
				Hour:   h,
				Label:  model.FormatHour(h),
				Events: toDTOs(s.store.FilterByDateAndHour(date, h)),
			})
		}
		resp.Days = append(resp.Days, day)
	}
	return resp
}

func (s *Server) currentView() viewResponse {
	st := s.view.State()
	return s.buildView(st, s.grids.Build(st.Reference, st.Mode, st.WeekStart))
}

func (s *Server) handleView(c *gin.Context) {
	c.JSON(http.StatusOK, s.currentView())
}

type modeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleSetMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	mode, err := model.ParseViewMode(req.Mode)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	s.view.SetMode(mode)
	c.JSON(http.StatusOK, s.currentView())
}

func (s *Server) handleNavigate(step func()) gin.HandlerFunc {
	return func(c *gin.Context) {
		step()
		c.JSON(http.StatusOK, s.currentView())
	}
}

type gotoRequest struct {
	Date string `json:"date"`
}

func (s *Server) handleGoTo(c *gin.Context) {
	var req gotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	t, err := time.ParseInLocation(model.DateLayout, req.Date, s.loc)
	if err != nil {
		writeError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	s.view.GoTo(t)
	c.JSON(http.StatusOK, s.currentView())
}
