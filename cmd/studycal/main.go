package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"studycal/internal/capture"
	"studycal/internal/config"
	"studycal/internal/grid"
	"studycal/internal/ics"
	appLog "studycal/internal/log"
	"studycal/internal/scheduler"
	"studycal/internal/store"
	"studycal/internal/view"
	"studycal/internal/web"
)

const version = "0.1.0"

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath  string
	listen      string
	debug       bool
	capturePath string
}

func main() {
	flags := parseFlags()
	if err := run(flags); err != nil {
		appLog.Error("studycal failed", err)
		appLog.Sync()
		os.Exit(1)
	}
	appLog.Sync()
}

func run(flags flagConfig) error {
	conf, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.debug {
		conf.Log.Level = "debug"
	}
	appLog.Init(appLog.Options{Level: conf.Log.Level, Encoding: conf.Log.Encoding})
	appLog.Info("studycal starting", "version", version)

	loc := resolveLocationOrUTC(conf.Timezone)
	weekStart := time.Sunday
	if conf.WeekStart == "monday" {
		weekStart = time.Monday
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", loc.String(),
		"week_start", conf.WeekStart,
		"store_path", conf.StorePath,
		"autosave", conf.AutosaveCron,
		"refresh", conf.RefreshCron,
		"ics_count", len(conf.ICS),
		"capture", flags.capturePath,
	)

	events := store.New()
	if err := events.LoadSnapshot(conf.StorePath); err != nil {
		return err
	}
	appLog.Info("events loaded", "count", events.Len(), "path", conf.StorePath)

	grids, err := grid.NewCache(conf.GridCacheSize)
	if err != nil {
		return err
	}
	controller := view.New(loc, weekStart, view.WithGridCache(grids))

	var syncer *ics.Syncer
	if sources := icsSources(conf); len(sources) > 0 {
		cacheDir := filepath.Join(filepath.Dir(conf.StorePath), "ics-cache")
		syncer = ics.NewSyncer(ics.NewFetcher(cacheDir), events, sources, loc)
	}

	if flags.debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	deps := web.Deps{
		Config:   conf,
		Store:    events,
		View:     controller,
		Grids:    grids,
		Location: loc,
	}
	if syncer != nil {
		deps.Refresher = syncer
	}
	srv, err := web.NewServer(deps)
	if err != nil {
		return err
	}

	sched := scheduler.New(loc)
	if err := sched.Add(scheduler.AutosaveJob(conf.AutosaveCron, events, conf.StorePath)); err != nil {
		return err
	}
	if syncer != nil {
		if err := sched.Add(scheduler.RefreshJob(conf.RefreshCron, syncer)); err != nil {
			return err
		}
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.ListenAndServe() }()

	if flags.capturePath != "" {
		// Subscriptions are imported before the page is captured.
		if syncer != nil {
			if err := sched.RunNow(ctx, scheduler.JobRefresh); err != nil {
				appLog.Error("initial ics refresh failed", err)
			}
		}
		err := captureOnce(ctx, conf, flags.capturePath)
		shutdown(srv, nil, events, conf.StorePath)
		return err
	}

	if syncer != nil {
		go func() {
			if err := sched.RunNow(ctx, scheduler.JobRefresh); err != nil {
				appLog.Error("initial ics refresh failed", err)
			}
		}()
	}

	sched.Start()

	select {
	case <-ctx.Done():
		appLog.Info("signal received, shutting down")
	case err := <-serveErr:
		if err != nil {
			shutdown(srv, sched, events, conf.StorePath)
			return err
		}
	}

	shutdown(srv, sched, events, conf.StorePath)
	appLog.Info("studycal exiting")
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/studycal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.debug, "debug", false, "Debug logging and gin debug mode")
	flag.StringVar(&cfg.capturePath, "capture", "", "Capture the /calendar page to this PNG path and exit")

	flag.Parse()

	return cfg
}

// shutdown drains HTTP, stops scheduled jobs and writes a final snapshot.
func shutdown(srv *web.Server, sched *scheduler.Scheduler, events *store.Store, storePath string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("http shutdown failed", err)
	}
	if sched != nil {
		if err := sched.Stop(ctx); err != nil {
			appLog.Error("scheduler stop failed", err)
		}
	}
	if err := events.SaveSnapshot(storePath); err != nil {
		appLog.Error("final snapshot failed", err, "path", storePath)
		return
	}
	appLog.Info("final snapshot saved", "path", storePath, "count", events.Len())
}

func captureOnce(ctx context.Context, conf *config.Config, out string) error {
	base := "http://" + localAddr(conf.Listen)
	opts := capture.Options{
		URL:        base + "/calendar",
		OutputPath: out,
	}
	if ba := conf.BasicAuth; ba != nil {
		opts.Username, opts.Password = ba.Username, ba.Password
	}
	if err := waitHealthy(ctx, base+"/health"); err != nil {
		return err
	}
	return capture.CalendarPNG(ctx, opts)
}

// localAddr turns a wildcard listen address into one a browser can dial.
func localAddr(listen string) string {
	if strings.HasPrefix(listen, ":") {
		return "127.0.0.1" + listen
	}
	if rest, ok := strings.CutPrefix(listen, "0.0.0.0"); ok {
		return "127.0.0.1" + rest
	}
	return listen
}

func icsSources(conf *config.Config) []ics.Source {
	sources := make([]ics.Source, 0, len(conf.ICS))
	for _, csrc := range conf.ICS {
		if csrc.URL == "" {
			continue
		}
		id := csrc.ID
		if id == "" {
			if csrc.Name != "" {
				id = csrc.Name
			} else {
				id = csrc.URL
			}
		}
		sources = append(sources, ics.Source{
			ID:           id,
			URL:          csrc.URL,
			Course:       csrc.Course,
			Color:        csrc.Color,
			DefaultColor: conf.DefaultColor,
		})
	}
	return sources
}

func resolveLocationOrUTC(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to UTC", err, "name", name)
		return time.UTC
	}
	return loc
}
