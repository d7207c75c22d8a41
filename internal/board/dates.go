package board

import (
	"errors"
	"strings"
	"time"
)

// StorageLayout is the zone-less timestamp format the backend stores.
const StorageLayout = "2006-01-02 15:04:05"

// HeaderLayout formats date-section headers, e.g. "10/03/24 - Sunday".
const HeaderLayout = "02/01/06 - Monday"

// AnnotationLayout formats the inline "added on" / "completed on" dates.
const AnnotationLayout = "02/01/2006"

// ErrInvalidSchedule is returned for schedule input that is not a date and time.
var ErrInvalidSchedule = errors.New("schedule must look like 2024-03-10 09:00")

var zonelessLayouts = []string{
	StorageLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses a server timestamp. Zone-less values are read in loc,
// values with an offset are converted to loc. It reports false for empty or
// unparsable input instead of returning a zero time.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc), true
		}
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parsePtr is ParseDate for optional fields.
func parsePtr(s *string, loc *time.Location) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	return ParseDate(*s, loc)
}

// DayLabel is the header label of the calendar day t falls on.
func DayLabel(t time.Time) string {
	return t.Format(HeaderLayout)
}

// FormatStorage renders t in loc using StorageLayout.
func FormatStorage(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(StorageLayout)
}

// NormalizeSchedule turns user input such as "2024-03-10 09:00" or
// "2024-03-10T09:00" into StorageLayout.
func NormalizeSchedule(input string, loc *time.Location) (string, error) {
	input = strings.TrimSpace(input)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{StorageLayout, "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t.Format(StorageLayout), nil
		}
	}
	return "", ErrInvalidSchedule
}
