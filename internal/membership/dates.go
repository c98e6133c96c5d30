package membership

import (
	"math"
	"time"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/models"
)

// AddCalendarMonths adds whole calendar months, clamping the day-of-month to
// the last day of the target month when the source day does not exist there
// (Jan 31 + 1 month = Feb 28/29, never Mar 2). Time-of-day is dropped.
func AddCalendarMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, t.Location())
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// DayWindow returns the [midnight, 23:59:59.999] window containing t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	return StartOfDay(t), EndOfDay(t)
}

// CalculateEndDate computes a membership end date: start plus the plan's
// duration in calendar months, normalized to the end of that day.
func CalculateEndDate(start time.Time, plan models.PlanType) time.Time {
	return EndOfDay(AddCalendarMonths(start, models.PlanDurationMonths[plan]))
}

// RemainingDaysAt counts whole days from now's midnight to end's midnight,
// ceiling-rounded (short DST days still count as one) and floored at zero.
func RemainingDaysAt(end, now time.Time) int {
	days := int(math.Ceil(StartOfDay(end).Sub(StartOfDay(now)).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

func CalculateRemainingDays(end time.Time) int {
	return RemainingDaysAt(end, time.Now())
}
