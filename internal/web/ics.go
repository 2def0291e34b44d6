package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"studycal/internal/ics"
	appLog "studycal/internal/log"
)

const maxUploadSize = 10 << 20

func (s *Server) handleExport(c *gin.Context) {
	body := ics.Export(s.store.All())
	c.Header("Content-Disposition", `attachment; filename="studycal.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// POST /api/import takes a raw ICS body. Imported events keep their UIDs as
// IDs, so importing an export again updates instead of duplicating.
func (s *Server) handleImport(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize))
	if err != nil {
		writeError(c, http.StatusRequestEntityTooLarge, "body too large")
		return
	}

	events, err := ics.ParseICS(ics.Source{DefaultColor: s.cfg.DefaultColor}, body, s.loc)
	if err != nil {
		if errors.Is(err, ics.ErrEmpty) {
			writeError(c, http.StatusBadRequest, "empty ICS body")
			return
		}
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	for _, ev := range events {
		s.store.AddOrUpdate(ev)
	}
	appLog.Info("ics imported", "event_count", len(events))
	c.JSON(http.StatusOK, gin.H{"imported": len(events)})
}

func (s *Server) handleRefresh(c *gin.Context) {
	if s.refresh == nil {
		writeError(c, http.StatusServiceUnavailable, "no ICS subscriptions configured")
		return
	}
	report, err := s.refresh.Sync(c.Request.Context())
	resp := gin.H{"report": report}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}
