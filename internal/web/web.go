// Package web serves the calendar's JSON API and the server-rendered
// /calendar page.
package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studycal/internal/config"
	"studycal/internal/grid"
	"studycal/internal/ics"
	appLog "studycal/internal/log"
	"studycal/internal/store"
	"studycal/internal/view"
)

// Refresher re-imports ICS subscriptions.
type Refresher interface {
	Sync(ctx context.Context) (ics.SyncReport, error)
}

// Deps are the collaborators a Server is built from. Grids and Refresher are
// optional.
type Deps struct {
	Config    *config.Config
	Store     *store.Store
	View      *view.Controller
	Grids     *grid.Cache
	Location  *time.Location
	Refresher Refresher
}

// Server provides the HTTP API over the event store and view controller.
type Server struct {
	cfg     *config.Config
	store   *store.Store
	view    *view.Controller
	grids   *grid.Cache
	loc     *time.Location
	refresh Refresher

	engine  *gin.Engine
	limiter *rateLimiter
	http    *http.Server
}

// NewServer wires routes and middleware. The gin mode is left to the caller.
func NewServer(d Deps) (*Server, error) {
	if d.Config == nil {
		return nil, errors.New("web: config is required")
	}
	if d.Store == nil || d.View == nil {
		return nil, errors.New("web: store and view controller are required")
	}
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}

	s := &Server{
		cfg:     d.Config,
		store:   d.Store,
		view:    d.View,
		grids:   d.Grids,
		loc:     loc,
		refresh: d.Refresher,
		engine:  gin.New(),
		limiter: newRateLimiter(d.Config.RateLimitPerMin),
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s.engine.SetHTMLTemplate(tmpl)

	s.engine.Use(gin.Recovery(), requestLogger())
	s.registerRoutes()

	s.http = &http.Server{
		Addr:              d.Config.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)

	authed := s.engine.Group("/")
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled")
		authed.Use(s.basicAuth())
	}
	authed.GET("/calendar", s.handleCalendar)

	api := authed.Group("/api", s.rateLimit())
	{
		api.GET("/view", s.handleView)
		api.POST("/view/mode", s.handleSetMode)
		api.POST("/view/prev", s.handleNavigate(s.view.Prev))
		api.POST("/view/next", s.handleNavigate(s.view.Next))
		api.POST("/view/today", s.handleNavigate(s.view.Today))
		api.POST("/view/goto", s.handleGoTo)

		api.POST("/dialog/open", s.handleDialogOpen)

		api.GET("/events", s.handleListEvents)
		api.POST("/events", s.handleSubmitEvent)
		api.GET("/events/:id", s.handleGetEvent)
		api.DELETE("/events/:id", s.handleDeleteEvent)

		api.GET("/export.ics", s.handleExport)
		api.POST("/import", s.handleImport)
		api.POST("/subscriptions/refresh", s.handleRefresh)

		api.POST("/payloads/:kind", s.handleValidatePayload)
		api.POST("/plans/schedule", s.handleSchedulePlan)
	}
}

// ListenAndServe serves on the configured address until Shutdown.
func (s *Server) ListenAndServe() error {
	appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured. Empty
// username or password disables it.
func (s *Server) basicAuthEnabled() bool {
	ba := s.cfg.BasicAuth
	return ba != nil && ba.Username != "" && ba.Password != ""
}

func (s *Server) basicAuth() gin.HandlerFunc {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return func(c *gin.Context) {
		u, p, ok := c.Request.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			c.Header("WWW-Authenticate", `Basic realm="studycal", charset="UTF-8"`)
			writeError(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		c.Next()
	}
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		appLog.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start).String(),
			"client", c.ClientIP(),
		)
	}
}

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
