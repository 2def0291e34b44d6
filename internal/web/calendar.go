package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studycal/internal/dialog"
	"studycal/internal/grid"
	"studycal/internal/model"
	"studycal/internal/palette"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	// css lets a validated hex color through the html/template CSS filter.
	"css": func(color string) template.CSS {
		if palette.Valid(color) {
			return template.CSS(color)
		}
		return template.CSS(dialog.DefaultColor)
	},
}

type hourRow struct {
	Label string
	Cells [][]eventDTO
}

type calendarPage struct {
	View     viewResponse
	Weekdays []string
	// Weeks chunks month cells into rows of seven.
	Weeks [][]dayDTO
	// Rows is the hour table of week and day views.
	Rows []hourRow
}

// GET /calendar[?mode=week&date=YYYY-MM-DD] renders the current view, or the
// one named by the query, without changing the controller state.
func (s *Server) handleCalendar(c *gin.Context) {
	st := s.view.State()
	if m := c.Query("mode"); m != "" {
		mode, err := model.ParseViewMode(m)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		st.Mode = mode
	}
	if d := c.Query("date"); d != "" {
		ref, err := time.ParseInLocation(model.DateLayout, d, s.loc)
		if err != nil {
			c.String(http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		st.Reference = ref
	}

	v := s.buildView(st, s.grids.Build(st.Reference, st.Mode, st.WeekStart))
	c.HTML(http.StatusOK, "calendar.html", newCalendarPage(v))
}

func newCalendarPage(v viewResponse) calendarPage {
	page := calendarPage{View: v}
	for i, d := range v.Days {
		if i == grid.DaysPerWeek {
			break
		}
		page.Weekdays = append(page.Weekdays, d.Weekday)
	}

	if len(v.Hours) == 0 {
		for i := 0; i < len(v.Days); i += grid.DaysPerWeek {
			page.Weeks = append(page.Weeks, v.Days[i:min(i+grid.DaysPerWeek, len(v.Days))])
		}
		return page
	}

	for hi, h := range v.Hours {
		row := hourRow{Label: model.FormatHour(h)}
		for _, d := range v.Days {
			row.Cells = append(row.Cells, d.Slots[hi].Events)
		}
		page.Rows = append(page.Rows, row)
	}
	return page
}
