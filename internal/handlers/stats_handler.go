package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/membership"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/models"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/utils"
)

type StatsHandler struct {
	MemberCol     *mongo.Collection
	MembershipCol *mongo.Collection
	CheckinCol    *mongo.Collection
}

// GET /memberships/{id}/stats
func (h *StatsHandler) GetAttendanceStats(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	membershipID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		utils.JSONError(w, "Invalid membership ID", http.StatusBadRequest)
		return
	}

	var m models.Membership
	if err := h.MembershipCol.FindOne(r.Context(), bson.M{"_id": membershipID}).Decode(&m); err != nil {
		utils.JSONError(w, "Membership not found", http.StatusNotFound)
		return
	}

	cursor, err := h.CheckinCol.Find(r.Context(), bson.M{"membership_id": membershipID})
	if err != nil {
		utils.JSONError(w, "Failed to fetch check-ins", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	var events []models.CheckinEvent
	if err = cursor.All(r.Context(), &events); err != nil {
		utils.JSONError(w, "Error decoding check-ins", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(membership.ComputeAttendanceStats(&m, events, time.Now()))
}

// GET /admin/metrics
func (h *StatsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	now := time.Now()
	todayStart := membership.StartOfDay(now)

	totalMembers, _ := h.MemberCol.CountDocuments(ctx, bson.M{"active": true})

	activeMemberships, _ := h.MembershipCol.CountDocuments(ctx, bson.M{
		"status":   models.StatusActive,
		"end_date": bson.M{"$gte": now},
	})

	pendingApplications, _ := h.MembershipCol.CountDocuments(ctx, bson.M{
		"status": models.StatusPending,
	})

	checkinsToday, _ := h.CheckinCol.CountDocuments(ctx, bson.M{
		"timestamp": bson.M{"$gte": todayStart},
	})

	expiringSoon, _ := h.MembershipCol.CountDocuments(ctx, bson.M{
		"status":   models.StatusActive,
		"end_date": bson.M{"$gte": now, "$lt": now.AddDate(0, 0, 7)},
	})

	json.NewEncoder(w).Encode(map[string]interface{}{
		"total_members":        totalMembers,
		"active_memberships":   activeMemberships,
		"pending_applications": pendingApplications,
		"checkins_today":       checkinsToday,
		"expiring_soon":        expiringSoon,
	})
}
