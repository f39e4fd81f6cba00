package settlement

import (
	"testing"
	"time"

	settlementerrors "go-salon/internal/settlement/errors"

	"github.com/stretchr/testify/assert"
)

func TestBuildYearWindows_Monthly(t *testing.T) {
	windows, err := BuildYearWindows(2024, PeriodMonthly, 5)

	assert.NoError(t, err)
	assert.Len(t, windows, 12)

	for i, w := range windows {
		assert.Equal(t, i+1, w.Number)
		assert.Equal(t, 1, w.StartDate.Day(), "window %d must start on the 1st", w.Number)
		assert.Equal(t, w.EndDate.AddDate(0, 0, 5), w.PayDate)
	}

	// Leap year February.
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), windows[1].EndDate)
	assert.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), windows[11].EndDate)
}

func TestBuildYearWindows_Quarterly(t *testing.T) {
	windows, err := BuildYearWindows(2025, PeriodQuarterly, 0)

	assert.NoError(t, err)
	assert.Len(t, windows, 4)

	ends := []time.Time{
		time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	for i, w := range windows {
		assert.Equal(t, ends[i], w.EndDate)
		assert.Equal(t, w.EndDate, w.PayDate)
	}
}

func TestBuildYearWindows_WeeklyCoversEveryDay(t *testing.T) {
	windows, err := BuildYearWindows(2025, PeriodWeekly, 3)

	assert.NoError(t, err)
	assert.NotEmpty(t, windows)

	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), windows[0].StartDate)
	for i, w := range windows {
		assert.Equal(t, w.StartDate.AddDate(0, 0, 6), w.EndDate)
		if i > 0 {
			assert.Equal(t, windows[i-1].EndDate.AddDate(0, 0, 1), w.StartDate, "windows must be contiguous")
		}
	}

	// The last window may overflow into January so December 31 is covered.
	last := windows[len(windows)-1]
	assert.False(t, last.EndDate.Before(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2025, last.StartDate.Year())
}

func TestBuildYearWindows_Biweekly(t *testing.T) {
	windows, err := BuildYearWindows(2025, PeriodBiweekly, 0)

	assert.NoError(t, err)
	for _, w := range windows {
		assert.Equal(t, w.StartDate.AddDate(0, 0, 13), w.EndDate)
	}
}

func TestBuildYearWindows_Validation(t *testing.T) {
	t.Run("unknown period type", func(t *testing.T) {
		_, err := BuildYearWindows(2025, "DAILY", 0)
		assert.ErrorIs(t, err, settlementerrors.ErrInvalidPeriodType)
	})

	t.Run("year out of range", func(t *testing.T) {
		_, err := BuildYearWindows(1999, PeriodMonthly, 0)
		assert.ErrorIs(t, err, settlementerrors.ErrInvalidYear)
	})

	t.Run("negative offset floors to zero", func(t *testing.T) {
		windows, err := BuildYearWindows(2025, PeriodMonthly, -7)
		assert.NoError(t, err)
		assert.Equal(t, windows[0].EndDate, windows[0].PayDate)
	})
}
