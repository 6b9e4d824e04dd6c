package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sees9730/CubeSatMissionPlanner/internal/api"
	"github.com/sees9730/CubeSatMissionPlanner/internal/auth"
	"github.com/sees9730/CubeSatMissionPlanner/internal/config"
	"github.com/sees9730/CubeSatMissionPlanner/internal/elements"
	"github.com/sees9730/CubeSatMissionPlanner/internal/metrics"
	"github.com/sees9730/CubeSatMissionPlanner/internal/propagate"
	"github.com/sees9730/CubeSatMissionPlanner/internal/shadow"
	"github.com/sees9730/CubeSatMissionPlanner/internal/timeline"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	addr := os.Getenv("CUBESAT_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	configPath := os.Getenv("CUBESAT_CONFIG_FILE")
	if configPath == "" {
		configPath = "mission.toml"
	}

	authCfg, err := loadAuthConfig(logger)
	if err != nil {
		logger.Error("invalid auth configuration", "error", err)
		os.Exit(1)
	}

	trustProxy := false
	if v := os.Getenv("CUBESAT_TRUST_PROXY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid CUBESAT_TRUST_PROXY value, defaulting to false", "value", v)
		} else {
			trustProxy = b
		}
	}

	mission, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load mission config", "path", configPath, "error", err)
		os.Exit(1)
	}
	logger.Info("mission config loaded",
		"satellite", mission.SatelliteName,
		"start", mission.Start.Format(time.RFC3339),
		"end", mission.End.Format(time.RFC3339),
		"step_seconds", mission.StepSeconds,
		"max_age_hours", mission.MaxAge.Hours(),
	)

	srv := api.NewServer(addr, logger, authCfg, trustProxy)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	set, err := loadElements(ctx, mission, logger)
	if err != nil {
		logger.Error("failed to load orbital elements", "satellite", mission.SatelliteName, "error", err)
		os.Exit(1)
	}

	plan, err := buildPlan(mission, set, logger)
	if err != nil {
		logger.Error("failed to build mission plan", "error", err)
		os.Exit(1)
	}
	srv.SetPlan(plan)
	logger.Info("mission plan ready",
		"satellite", plan.Satellite,
		"samples", plan.Track.Len(),
		"eclipse_windows", len(plan.Eclipses),
	)

	// Background goroutine to keep the element set age gauge current.
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SetElementSetAge(set.Age(time.Now()))
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("starting server", "addr", addr, "auth_enabled", authCfg.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func loadElements(ctx context.Context, mission *config.Mission, logger *slog.Logger) (*elements.Set, error) {
	store := elements.NewStore(mission.SourceURL, mission.CachePath, logger)

	set, err := store.Get(ctx, mission.SatelliteName, mission.MaxAge)
	if err != nil {
		metrics.CountElementFetch("error")
		return nil, err
	}
	metrics.CountElementFetch("success")
	metrics.SetElementSetAge(set.Age(time.Now()))

	logger.Info("orbital elements loaded",
		"satellite", set.Name,
		"norad_id", set.NORADID,
		"epoch", set.Epoch.Format(time.RFC3339),
		"source", set.Source,
	)
	return set, nil
}

func buildPlan(mission *config.Mission, set *elements.Set, logger *slog.Logger) (*api.Plan, error) {
	prop := propagate.NewPropagator(logger)
	track, err := prop.GroundTrack(set, mission.Start, mission.End, mission.StepSeconds)
	if err != nil {
		return nil, err
	}

	sched, err := timeline.FromGrid(track.Grid, mission.StatusEnum, mission.DefaultStatus)
	if err != nil {
		return nil, err
	}

	windows, err := shadow.Windows(track.Grid, track.States)
	if err != nil {
		return nil, err
	}

	// Mark shadowed slots when the mission configures an eclipse status.
	if mission.EclipseStatus >= 0 {
		for _, win := range windows {
			if err := sched.SetStatusRange(win.Start, win.End, mission.EclipseStatus); err != nil {
				return nil, err
			}
		}
	} else if len(windows) > 0 {
		logger.Warn("plan.eclipse_status not configured, leaving shadowed slots at default",
			"eclipse_windows", len(windows))
	}

	return &api.Plan{
		Satellite: mission.SatelliteName,
		Elements:  set,
		Track:     track,
		Schedule:  sched,
		Eclipses:  windows,
	}, nil
}

func loadAuthConfig(logger *slog.Logger) (auth.Config, error) {
	cfg := auth.Config{}

	enabledStr := os.Getenv("CUBESAT_AUTH_ENABLED")
	if enabledStr != "" {
		enabled, err := strconv.ParseBool(enabledStr)
		if err != nil {
			return cfg, errors.New("CUBESAT_AUTH_ENABLED must be a boolean value (true/false/1/0)")
		}
		cfg.Enabled = enabled
	}

	if cfg.Enabled {
		cfg.Token = os.Getenv("CUBESAT_AUTH_TOKEN")
		if cfg.Token == "" {
			return cfg, errors.New("CUBESAT_AUTH_TOKEN is required when auth is enabled")
		}
		logger.Info("auth enabled")
	}

	return cfg, nil
}
