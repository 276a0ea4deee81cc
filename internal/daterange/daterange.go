// Package daterange classifies a task's optional start/end pair into a coarse
// range tag. The comparison is done on calendar components (year, month, day),
// not on the duration between the two instants: two timestamps 23 hours apart
// that cross midnight belong to different days.
package daterange

import (
	"errors"
	"time"
)

// Tag is the derived classification of a date span.
type Tag string

const (
	TagUnset       Tag = "unset"
	TagNoStartTime Tag = "nostarttime"
	TagNoEndTime   Tag = "noendtime"
	TagDay         Tag = "day"
	TagMonth       Tag = "month"
	TagYear        Tag = "year"
)

// ErrEndBeforeStart is returned when the end instant precedes the start.
// Callers must surface it as a validation failure, not drop the update.
var ErrEndBeforeStart = errors.New("end date is before start date")

// Span is an optional pair of instants bounding a task.
type Span struct {
	StartAt *time.Time `json:"startAt,omitempty"`
	EndAt   *time.Time `json:"endAt,omitempty"`
}

// Classify maps a span to its Tag.
//
// nil span -> unset; missing start -> nostarttime; missing end -> noendtime;
// end < start -> ErrEndBeforeStart; otherwise same year/month/day -> day,
// same year/month -> month, anything else -> year.
func Classify(s *Span) (Tag, error) {
	if s == nil {
		return TagUnset, nil
	}
	if s.StartAt == nil {
		return TagNoStartTime, nil
	}
	if s.EndAt == nil {
		return TagNoEndTime, nil
	}
	if s.EndAt.Before(*s.StartAt) {
		return "", ErrEndBeforeStart
	}

	sy, sm, sd := s.StartAt.Date()
	ey, em, ed := s.EndAt.Date()

	switch {
	case sy == ey && sm == em && sd == ed:
		return TagDay, nil
	case sy == ey && sm == em:
		return TagMonth, nil
	default:
		return TagYear, nil
	}
}
