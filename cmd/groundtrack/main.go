// Command groundtrack computes a satellite ground track from a mission
// configuration file and writes it as CSV for plotting tools.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/sees9730/CubeSatMissionPlanner/internal/config"
	"github.com/sees9730/CubeSatMissionPlanner/internal/elements"
	"github.com/sees9730/CubeSatMissionPlanner/internal/propagate"
)

func main() {
	configPath := flag.String("config", "mission.toml", "mission configuration file")
	outPath := flag.String("out", "groundtrack.csv", "output CSV file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if err := run(*configPath, *outPath, logger); err != nil {
		logger.Error("groundtrack failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outPath string, logger *slog.Logger) error {
	mission, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store := elements.NewStore(mission.SourceURL, mission.CachePath, logger)
	set, err := store.Get(ctx, mission.SatelliteName, mission.MaxAge)
	if err != nil {
		return err
	}
	logger.Info("orbital elements loaded",
		"satellite", set.Name,
		"epoch", set.Epoch.Format(time.RFC3339),
		"source", set.Source,
	)

	track, err := propagate.NewPropagator(logger).GroundTrack(set, mission.Start, mission.End, mission.StepSeconds)
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time_utc", "lat_deg", "lon_deg", "alt_km"}); err != nil {
		return err
	}

	bar := progressbar.Default(int64(track.Len()), "writing samples")
	for _, s := range track.Samples {
		record := []string{
			s.Time.UTC().Format(time.RFC3339),
			strconv.FormatFloat(s.LatDeg, 'f', 6, 64),
			strconv.FormatFloat(s.LonDeg, 'f', 6, 64),
			strconv.FormatFloat(s.AltKm, 'f', 3, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
		bar.Add(1)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.Info("ground track written", "path", outPath, "samples", track.Len())
	return nil
}
