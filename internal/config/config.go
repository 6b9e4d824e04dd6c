// Package config loads the mission configuration file: which satellite to
// plan for, where its elements come from, the simulation window, and the
// timeline status table. The file is TOML; sheet-style spreadsheet input
// from older tooling is deliberately not supported.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Mission is the validated planning configuration.
type Mission struct {
	SatelliteName string
	SourceURL     string
	CachePath     string
	MaxAge        time.Duration

	Start       time.Time
	End         time.Time
	StepSeconds float64

	StatusEnum    map[int]string
	DefaultStatus int

	// EclipseStatus is the status code written into shadowed timeline
	// slots. Negative disables eclipse marking.
	EclipseStatus int
}

const defaultMaxAgeDays = 10

// Load reads and validates a mission configuration file.
//
// Expected shape:
//
//	[plan]
//	satellite_name = "CUTE"
//	element_source_url = "https://..."
//	cache_file = "data/cute_elements.txt"
//	max_age_days = 10
//	start_time = "2024-01-01T00:00:00Z"
//	end_time = "2024-01-01T01:00:00Z"
//	time_step_sec = 60.0
//	default_status = 0
//	eclipse_status = 1
//
//	[statuses]
//	0 = "idle"
//	1 = "eclipse"
//
// eclipse_status is optional; when omitted, shadowed slots keep the
// default status.
func Load(path string) (*Mission, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("plan.max_age_days", defaultMaxAgeDays)
	v.SetDefault("plan.eclipse_status", -1)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading mission config %s: %w", path, err)
	}

	m := &Mission{
		SatelliteName: v.GetString("plan.satellite_name"),
		SourceURL:     v.GetString("plan.element_source_url"),
		CachePath:     v.GetString("plan.cache_file"),
		StepSeconds:   v.GetFloat64("plan.time_step_sec"),
		DefaultStatus: v.GetInt("plan.default_status"),
		EclipseStatus: v.GetInt("plan.eclipse_status"),
	}

	if m.SatelliteName == "" {
		return nil, fmt.Errorf("mission config %s: plan.satellite_name is required", path)
	}
	if m.SourceURL == "" {
		return nil, fmt.Errorf("mission config %s: plan.element_source_url is required", path)
	}
	if m.CachePath == "" {
		return nil, fmt.Errorf("mission config %s: plan.cache_file is required", path)
	}

	maxAgeDays := v.GetFloat64("plan.max_age_days")
	if maxAgeDays <= 0 {
		return nil, fmt.Errorf("mission config %s: plan.max_age_days must be positive", path)
	}
	m.MaxAge = time.Duration(maxAgeDays * 24 * float64(time.Hour))

	var err error
	if m.Start, err = parseUTC(v.GetString("plan.start_time")); err != nil {
		return nil, fmt.Errorf("mission config %s: plan.start_time: %w", path, err)
	}
	if m.End, err = parseUTC(v.GetString("plan.end_time")); err != nil {
		return nil, fmt.Errorf("mission config %s: plan.end_time: %w", path, err)
	}

	if m.StatusEnum, err = parseStatuses(v.GetStringMapString("statuses")); err != nil {
		return nil, fmt.Errorf("mission config %s: %w", path, err)
	}
	if _, ok := m.StatusEnum[m.DefaultStatus]; !ok {
		return nil, fmt.Errorf("mission config %s: plan.default_status %d is not in [statuses]",
			path, m.DefaultStatus)
	}
	if m.EclipseStatus >= 0 {
		if _, ok := m.StatusEnum[m.EclipseStatus]; !ok {
			return nil, fmt.Errorf("mission config %s: plan.eclipse_status %d is not in [statuses]",
				path, m.EclipseStatus)
		}
	}

	return m, nil
}

func parseUTC(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("value is required")
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %q as RFC 3339: %w", s, err)
	}
	return t.UTC(), nil
}

func parseStatuses(raw map[string]string) (map[int]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("[statuses] table is required and must not be empty")
	}
	enum := make(map[int]string, len(raw))
	for key, name := range raw {
		code, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("status key %q is not an integer code", key)
		}
		if name == "" {
			return nil, fmt.Errorf("status %d has an empty name", code)
		}
		enum[code] = name
	}
	return enum, nil
}
