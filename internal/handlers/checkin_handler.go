package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/constants"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/membership"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/middleware"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/models"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/utils"
)

type CheckinHandler struct {
	MembershipCol *mongo.Collection
	CheckinCol    *mongo.Collection
	AuditLogger   utils.Logger
}

type ResolveRequest struct {
	Code string `json:"code" validate:"required"`
}

// POST /checkin/resolve
//
// Dry-run lookup: maps a scanned or typed code to the membership that is
// valid right now, without writing anything, so staff can review the member
// before committing the check-in.
func (h *CheckinHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.JSONError(w, "Code is required", http.StatusBadRequest)
		return
	}

	scanned := models.ParseScannedCode(req.Code)

	cursor, err := h.MembershipCol.Find(r.Context(), bson.M{"checkin_code": scanned.Code},
		options.Find().SetSort(bson.D{{Key: "applied_at", Value: -1}}))
	if err != nil {
		utils.JSONError(w, "Failed to fetch memberships", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	var memberships []models.Membership
	if err = cursor.All(r.Context(), &memberships); err != nil {
		utils.JSONError(w, "Error decoding memberships", http.StatusInternalServerError)
		return
	}
	if len(memberships) == 0 {
		utils.JSONError(w, "No membership found for this code", http.StatusNotFound)
		return
	}

	// A member accumulates records over time; the newest one flagged
	// Active wins.
	var active *models.Membership
	for i := range memberships {
		if memberships[i].Status == models.StatusActive {
			active = &memberships[i]
			break
		}
	}
	if active == nil {
		newest := memberships[0]
		utils.JSONError(w, fmt.Sprintf("No active membership; most recent membership status: %s, applied on %s",
			newest.Status, newest.AppliedAt.Format(dateFormat)), http.StatusConflict)
		return
	}

	// The Active flag can lag the sweep; the end date is authoritative.
	if time.Now().After(active.EndDate) {
		utils.JSONError(w, fmt.Sprintf("Membership expired on %s", active.EndDate.Format(dateFormat)), http.StatusConflict)
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"membership": active,
		"structured": scanned.Structured,
	})
}

type RecordRequest struct {
	Code         string `json:"code" validate:"required"`
	MembershipID string `json:"membership_id" validate:"required"`
	Timestamp    string `json:"timestamp"` // RFC3339, defaults to now
	ManualEntry  bool   `json:"manual_entry"`
}

// POST /checkin/record
//
// Persists the check-in resolved earlier. The daily-uniqueness query is the
// duplicate guard: even if two resolves raced, the second record is
// rejected here with a clear message, never double-counted.
func (h *CheckinHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.JSONError(w, "Invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	membershipID, err := primitive.ObjectIDFromHex(req.MembershipID)
	if err != nil {
		utils.JSONError(w, "Invalid membership ID", http.StatusBadRequest)
		return
	}

	timestamp := time.Now()
	if req.Timestamp != "" {
		timestamp, err = time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			utils.JSONError(w, "Invalid timestamp", http.StatusBadRequest)
			return
		}
	}

	scanned := models.ParseScannedCode(req.Code)

	var m models.Membership
	if err := h.MembershipCol.FindOne(r.Context(), bson.M{"_id": membershipID}).Decode(&m); err != nil {
		utils.JSONError(w, "Membership not found", http.StatusNotFound)
		return
	}
	if m.CheckinCode != scanned.Code {
		utils.JSONError(w, "Code does not match this membership", http.StatusBadRequest)
		return
	}

	dayStart, dayEnd := membership.DayWindow(timestamp)
	count, err := h.CheckinCol.CountDocuments(r.Context(), bson.M{
		"checkin_code": scanned.Code,
		"timestamp":    bson.M{"$gte": dayStart, "$lte": dayEnd},
	})
	if err != nil {
		utils.JSONError(w, "Failed to check existing check-ins", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		utils.JSONError(w, "Already checked in today", http.StatusConflict)
		return
	}

	event := models.CheckinEvent{
		ID:           primitive.NewObjectID(),
		CheckinCode:  scanned.Code,
		MembershipID: m.ID,
		MemberID:     m.MemberID,
		Timestamp:    timestamp,
		ManualEntry:  req.ManualEntry,
		RecordedBy:   middleware.UserIDFromContext(r.Context()),
		Plan:         m.Plan,
		MemberName:   m.MemberName,
		MemberEmail:  m.MemberEmail,
		MemberPhone:  m.MemberPhone,
		PeriodStart:  m.StartDate,
		PeriodEnd:    m.EndDate,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := h.CheckinCol.InsertOne(ctx, event); err != nil {
		utils.JSONError(w, "Failed to record check-in", http.StatusInternalServerError)
		return
	}

	h.AuditLogger.Log(ctx, models.CheckinEntity, constants.Checkin, event.RecordedBy, event)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"checkin_id": event.ID,
		"timestamp":  event.Timestamp,
	})
}
