package elements

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Parse reads 3-line NORAD element format from r: a name line followed by
// the two element lines, repeated per object. Malformed records are skipped
// with a warning log rather than failing the whole payload.
func Parse(r io.Reader, logger *slog.Logger) ([]Set, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading element data: %w", err)
	}

	var sets []Set
	for i := 0; i+2 < len(lines); {
		name := lines[i]
		line1 := lines[i+1]
		line2 := lines[i+2]

		if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
			// Resynchronize on the next plausible name line.
			logger.Warn("skipping malformed element record", "line_index", i, "name", name)
			i++
			continue
		}

		if len(line1) < 32 {
			logger.Warn("skipping element record with short line1", "name", name)
			i += 3
			continue
		}

		// NORAD catalog number: line1 columns 3-7.
		noradID, err := strconv.Atoi(strings.TrimSpace(line1[2:7]))
		if err != nil {
			logger.Warn("skipping element record with invalid catalog number", "name", name)
			i += 3
			continue
		}

		// Epoch: line1 columns 19-32, YYDDD.DDDDDDDD.
		epoch, err := parseEpoch(strings.TrimSpace(line1[18:32]))
		if err != nil {
			logger.Warn("skipping element record with invalid epoch", "name", name, "error", err)
			i += 3
			continue
		}

		sets = append(sets, Set{
			Name:    strings.TrimSpace(name),
			NORADID: noradID,
			Line1:   line1,
			Line2:   line2,
			Epoch:   epoch,
		})
		i += 3
	}

	return sets, nil
}

// Find returns the record whose name line matches name exactly.
func Find(sets []Set, name string) (*Set, bool) {
	for i := range sets {
		if sets[i].Name == name {
			return &sets[i], true
		}
	}
	return nil, false
}

// parseEpoch converts a TLE epoch string in YYDDD.DDDDDDDD form to a UTC
// time. Years 00-56 map to the 2000s, 57-99 to the 1900s.
func parseEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch string too short: %q", s)
	}

	year, err := strconv.Atoi(s[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch year %q: %w", s[:2], err)
	}
	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	dayOfYear, err := strconv.ParseFloat(s[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch day %q: %w", s[2:], err)
	}

	// Day of year is 1-based: day 1.0 is Jan 1 00:00.
	t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return t.Add(time.Duration((dayOfYear - 1) * float64(24*time.Hour))), nil
}
