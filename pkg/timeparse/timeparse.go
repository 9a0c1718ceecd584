package timeparse

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The inspection machines have written creation timestamps in several shapes
// over the years: BSON datetimes, epoch-seconds wrapper documents, ISO8601
// strings and bare epoch numbers. Instant normalizes all of them to a single
// UTC time.Time at the fetch boundary. Values that match none of the shapes
// are an error; callers decide whether to skip or surface the record.

// Numbers at or above this threshold are treated as epoch milliseconds,
// anything below as epoch seconds.
const epochMillisThreshold = 1e12

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Instant normalizes a loosely typed timestamp value into a UTC instant.
func Instant(value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("timestamp is missing")
	case time.Time:
		return v.UTC(), nil
	case primitive.DateTime:
		return v.Time().UTC(), nil
	case string:
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable timestamp string %q", v)
	case int:
		return fromEpoch(float64(v)), nil
	case int32:
		return fromEpoch(float64(v)), nil
	case int64:
		return fromEpoch(float64(v)), nil
	case float64:
		return fromEpoch(v), nil
	case primitive.M:
		return fromWrapper(map[string]any(v))
	case primitive.D:
		// The driver decodes untyped subdocuments as primitive.D.
		return fromWrapper(v.Map())
	case map[string]any:
		return fromWrapper(v)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", value)
	}
}

// fromWrapper handles the epoch-seconds wrapper documents written by the
// original ingestion path, e.g. {"seconds": 1700000000, "nanoseconds": 0}.
func fromWrapper(m map[string]any) (time.Time, error) {
	for _, key := range []string{"seconds", "_seconds"} {
		raw, ok := m[key]
		if !ok {
			continue
		}
		secs, err := asFloat(raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("wrapper field %q: %w", key, err)
		}
		var nanos float64
		for _, nk := range []string{"nanoseconds", "_nanoseconds", "nanos"} {
			if nraw, ok := m[nk]; ok {
				if n, err := asFloat(nraw); err == nil {
					nanos = n
				}
				break
			}
		}
		return time.Unix(int64(secs), int64(nanos)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("timestamp wrapper has no seconds field")
}

func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}

func fromEpoch(v float64) time.Time {
	if v >= epochMillisThreshold {
		return time.UnixMilli(int64(v)).UTC()
	}
	return time.Unix(int64(v), 0).UTC()
}

// Window is a half-open reporting interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Day returns the window covering the calendar day of t in loc.
func Day(t time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// Contains reports whether t falls inside the half-open interval.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Hours returns the window span in hours, never less than 1. Used as the
// denominator for rate-per-hour so short windows do not divide by zero.
func (w Window) Hours() float64 {
	h := w.End.Sub(w.Start).Hours()
	if h < 1 {
		return 1
	}
	return h
}

// Previous returns the window of equal length immediately preceding w,
// the baseline for period-over-period trend.
func (w Window) Previous() Window {
	span := w.End.Sub(w.Start)
	return Window{Start: w.Start.Add(-span), End: w.Start}
}
