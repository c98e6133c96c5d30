package membership

import (
	"time"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/models"
)

// ResolveStatus derives the effective status of a membership at the given
// instant. It never trusts a stored Active flag past the end date, so a
// record the expiry sweep has not reached yet still resolves as Expired.
// Read-only; safe to call on every request.
func ResolveStatus(m *models.Membership, now time.Time) models.StatusInfo {
	if m == nil {
		return models.StatusInfo{Status: models.StatusNone}
	}

	switch m.Status {
	case models.StatusPending:
		return models.StatusInfo{
			Status:        models.StatusPending,
			IsPending:     true,
			RemainingDays: RemainingDaysAt(m.EndDate, now),
		}
	case models.StatusActive:
		if now.After(m.EndDate) {
			return models.StatusInfo{Status: models.StatusExpired, IsExpired: true}
		}
		return models.StatusInfo{
			Status:        models.StatusActive,
			IsActive:      true,
			RemainingDays: RemainingDaysAt(m.EndDate, now),
		}
	case models.StatusExpired:
		return models.StatusInfo{Status: models.StatusExpired, IsExpired: true}
	default:
		// Declined and any unknown stored status pass through literally.
		return models.StatusInfo{Status: m.Status}
	}
}
