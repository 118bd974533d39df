// Package timeutil parses sleep durations and waits on them.
package timeutil

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	errEmptyDuration = errors.New("empty duration")
	errBadUnit       = errors.New("invalid time unit")
)

var units = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': 24 * time.Hour,
}

// DurationSpec is a parsed duration with the number and unit it was
// written as.
type DurationSpec struct {
	Duration time.Duration
	Unit     string
	Value    float64
}

// ParseDuration parses NUMBER[s|m|h|d]. A bare number is seconds.
func ParseDuration(value string) (DurationSpec, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DurationSpec{}, errEmptyDuration
	}
	unit := byte('s')
	if last := value[len(value)-1]; last < '0' || last > '9' {
		unit, value = last, value[:len(value)-1]
	}
	scale, ok := units[unit]
	if !ok {
		return DurationSpec{}, errBadUnit
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return DurationSpec{}, err
	}
	return DurationSpec{Duration: time.Duration(n * float64(scale)), Unit: string(unit), Value: n}, nil
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
