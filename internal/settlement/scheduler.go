package settlement

import (
	"time"

	settlementerrors "go-salon/internal/settlement/errors"
)

// PeriodWindow is one generated settlement window. Windows are
// contiguous and non-overlapping; the last window of a year may run
// past December 31 so every day of the year belongs to a window.
type PeriodWindow struct {
	Number    int
	StartDate time.Time
	EndDate   time.Time
	PayDate   time.Time
}

// BuildYearWindows produces the ordered period windows for a year.
// Weekly windows span 7 days, biweekly 14, monthly one calendar month
// and quarterly three. PayDate is EndDate plus the configured offset.
func BuildYearWindows(year int, periodType string, payDayOffset int) ([]PeriodWindow, error) {
	if !isValidPeriodType(periodType) {
		return nil, settlementerrors.ErrInvalidPeriodType
	}
	if year < 2000 || year > 2200 {
		return nil, settlementerrors.ErrInvalidYear
	}
	if payDayOffset < 0 {
		payDayOffset = 0
	}

	var windows []PeriodWindow
	current := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	number := 1

	for current.Year() == year {
		end := windowEnd(current, periodType)
		windows = append(windows, PeriodWindow{
			Number:    number,
			StartDate: current,
			EndDate:   end,
			PayDate:   end.AddDate(0, 0, payDayOffset),
		})
		current = end.AddDate(0, 0, 1)
		number++
	}
	return windows, nil
}

func windowEnd(start time.Time, periodType string) time.Time {
	switch periodType {
	case PeriodWeekly:
		return start.AddDate(0, 0, 6)
	case PeriodBiweekly:
		return start.AddDate(0, 0, 13)
	case PeriodMonthly:
		// Day zero of the next month is the last day of this one.
		return time.Date(start.Year(), start.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	default: // PeriodQuarterly
		return time.Date(start.Year(), start.Month()+3, 0, 0, 0, 0, 0, time.UTC)
	}
}
