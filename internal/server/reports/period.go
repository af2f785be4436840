// Package reports aggregates sale lines into period reports. It does no I/O
// beyond rendering; callers fetch the lines for a period and pass them in.
package reports

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
)

// Granularity is the calendar unit a report is cut by.
type Granularity string

const (
	Day   Granularity = "day"
	Month Granularity = "month"
	Year  Granularity = "year"
)

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case Day, Month, Year:
		return g, nil
	default:
		return "", fmt.Errorf("%w: unknown granularity %q", common.ErrorInvalidInput, s)
	}
}

func (g Granularity) layout() string {
	switch g {
	case Month:
		return "2006-01"
	case Year:
		return "2006"
	default:
		return "2006-01-02"
	}
}

// PeriodBounds returns the half-open interval [start, end) of the calendar
// period containing t, as seen in loc.
func PeriodBounds(g Granularity, t time.Time, loc *time.Location) (start, end time.Time) {
	t = t.In(loc)
	switch g {
	case Year:
		start = time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(1, 0, 0)
	case Month:
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)
	default:
		start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 1)
	}
	return start, end
}

// PeriodKey formats the period containing t: 2006-01-02, 2006-01 or 2006.
func PeriodKey(g Granularity, t time.Time, loc *time.Location) string {
	return t.In(loc).Format(g.layout())
}
