package membership

import (
	"math"
	"time"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/models"
)

type AttendanceStats struct {
	UniqueCheckinDays int `json:"unique_checkin_days"`
	MissedDays        int `json:"missed_days"`
	CheckinRate       int `json:"checkin_rate"`
}

const dayKeyFormat = "2006-01-02"

// ComputeAttendanceStats derives attendance figures for one membership from
// its check-in events. Days are counted from the start date through the
// earlier of today and the end date; days still in the future are never
// counted as missed. Multiple check-ins on one calendar day count once.
func ComputeAttendanceStats(m *models.Membership, events []models.CheckinEvent, now time.Time) AttendanceStats {
	checkedDays := make(map[string]bool, len(events))
	for _, ev := range events {
		checkedDays[ev.Timestamp.Format(dayKeyFormat)] = true
	}

	limit := StartOfDay(now)
	if end := StartOfDay(m.EndDate); end.Before(limit) {
		limit = end
	}

	var total, missed int
	for d := StartOfDay(m.StartDate); !d.After(limit); d = d.AddDate(0, 0, 1) {
		total++
		if !checkedDays[d.Format(dayKeyFormat)] {
			missed++
		}
	}

	stats := AttendanceStats{
		UniqueCheckinDays: len(checkedDays),
		MissedDays:        missed,
	}
	if total > 0 {
		stats.CheckinRate = int(math.Round(100 * float64(total-missed) / float64(total)))
	}
	return stats
}
