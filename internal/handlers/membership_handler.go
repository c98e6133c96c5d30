package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
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

const dateFormat = "2006-01-02"

type MembershipHandler struct {
	MembershipCol *mongo.Collection
	MemberCol     *mongo.Collection
	AuditLogger   utils.Logger
	Notifier      *utils.Notifier
}

type ApplyRequest struct {
	MemberID      string `json:"member_id" validate:"required"`
	Plan          string `json:"plan" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// POST /memberships/apply
func (h *MembershipHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.JSONError(w, "Invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !models.IsValidPlanType(req.Plan) {
		utils.JSONError(w, "Invalid plan type: "+req.Plan, http.StatusBadRequest)
		return
	}

	memberID, err := primitive.ObjectIDFromHex(req.MemberID)
	if err != nil {
		utils.JSONError(w, "Invalid member ID", http.StatusBadRequest)
		return
	}

	var member models.Member
	if err := h.MemberCol.FindOne(r.Context(), bson.M{"_id": memberID}).Decode(&member); err != nil {
		utils.JSONError(w, "Member not found", http.StatusNotFound)
		return
	}
	if member.CheckinCode == "" {
		utils.JSONError(w, "Member has no check-in code assigned", http.StatusConflict)
		return
	}

	// At most one Pending and one Active membership per member. The newest
	// conflicting record is named in the error so the member knows what is
	// blocking the application.
	var existing models.Membership
	err = h.MembershipCol.FindOne(r.Context(), bson.M{
		"member_id": memberID,
		"status":    bson.M{"$in": []models.MembershipStatus{models.StatusPending, models.StatusActive}},
	}, options.FindOne().SetSort(bson.D{{Key: "applied_at", Value: -1}})).Decode(&existing)
	if err == nil {
		var msg string
		if existing.Status == models.StatusPending {
			msg = fmt.Sprintf("A %s membership application is already pending (applied %s)",
				existing.Plan, existing.AppliedAt.Format(dateFormat))
		} else {
			msg = fmt.Sprintf("An active %s membership already exists (valid until %s)",
				existing.Plan, existing.EndDate.Format(dateFormat))
		}
		utils.JSONError(w, msg, http.StatusConflict)
		return
	}

	now := time.Now()
	plan := models.PlanType(req.Plan)
	startDate := membership.StartOfDay(now)

	m := models.Membership{
		ID:            primitive.NewObjectID(),
		MemberID:      member.ID,
		CheckinCode:   member.CheckinCode,
		Plan:          plan,
		Amount:        models.PlanPrices[plan],
		PaymentMethod: req.PaymentMethod,
		Status:        models.StatusPending,
		StartDate:     startDate,
		EndDate:       membership.CalculateEndDate(startDate, plan),
		AppliedAt:     now,
		MemberName:    member.Name,
		MemberEmail:   member.Email,
		MemberPhone:   member.Phone,
		MemberAvatar:  member.Avatar,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := h.MembershipCol.InsertOne(ctx, m); err != nil {
		utils.JSONError(w, "Insert failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.Notifier.Notify(ctx, member.ID, "Membership application submitted",
		fmt.Sprintf("Your %s membership application has been submitted and is awaiting approval.", plan),
		"membership")
	h.AuditLogger.Log(ctx, models.MembershipEntity, constants.Apply, middleware.UserIDFromContext(r.Context()), m)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"membership_id": m.ID,
		"status":        m.Status,
		"start_date":    m.StartDate,
		"end_date":      m.EndDate,
	})
}

// POST /memberships/{id}/approve
func (h *MembershipHandler) Approve(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMembership(w, r)
	if !ok {
		return
	}
	if m.Status != models.StatusPending {
		utils.JSONError(w, fmt.Sprintf("Membership is %s; only pending applications can be approved", m.Status), http.StatusConflict)
		return
	}

	// Dates run from approval time, not application time.
	now := time.Now()
	startDate := membership.StartOfDay(now)
	endDate := membership.CalculateEndDate(startDate, m.Plan)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := h.MembershipCol.UpdateByID(ctx, m.ID, bson.M{"$set": bson.M{
		"status":      models.StatusActive,
		"start_date":  startDate,
		"end_date":    endDate,
		"approved_at": now,
	}})
	if err != nil {
		utils.JSONError(w, "Approve failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.JSONError(w, "Membership not found", http.StatusNotFound)
		return
	}

	h.Notifier.Notify(ctx, m.MemberID, "Membership approved",
		fmt.Sprintf("Your %s membership has been approved and is valid until %s.", m.Plan, endDate.Format(dateFormat)),
		"membership")
	h.AuditLogger.Log(ctx, models.MembershipEntity, constants.Approve, middleware.UserIDFromContext(r.Context()), bson.M{
		"membership_id": m.ID,
		"old":           bson.M{"status": m.Status, "start_date": m.StartDate, "end_date": m.EndDate},
		"new":           bson.M{"status": models.StatusActive, "start_date": startDate, "end_date": endDate},
	})

	json.NewEncoder(w).Encode(map[string]any{
		"message":    "Membership approved",
		"start_date": startDate,
		"end_date":   endDate,
	})
}

type DeclineRequest struct {
	Reason string `json:"reason"`
}

// POST /memberships/{id}/decline
func (h *MembershipHandler) Decline(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMembership(w, r)
	if !ok {
		return
	}
	if m.Status != models.StatusPending {
		utils.JSONError(w, fmt.Sprintf("Membership is %s; only pending applications can be declined", m.Status), http.StatusConflict)
		return
	}

	var req DeclineRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req) // reason is optional
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := h.MembershipCol.UpdateByID(ctx, m.ID, bson.M{"$set": bson.M{
		"status":         models.StatusDeclined,
		"decline_reason": req.Reason,
	}})
	if err != nil {
		utils.JSONError(w, "Decline failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	message := fmt.Sprintf("Your %s membership application has been declined.", m.Plan)
	if req.Reason != "" {
		message = fmt.Sprintf("Your %s membership application has been declined. Reason: %s", m.Plan, req.Reason)
	}
	h.Notifier.Notify(ctx, m.MemberID, "Membership declined", message, "membership")
	h.AuditLogger.Log(ctx, models.MembershipEntity, constants.Decline, middleware.UserIDFromContext(r.Context()), bson.M{
		"membership_id": m.ID,
		"old":           bson.M{"status": m.Status},
		"new":           bson.M{"status": models.StatusDeclined, "decline_reason": req.Reason},
	})

	json.NewEncoder(w).Encode(map[string]string{"message": "Membership declined"})
}

type ExtendRequest struct {
	Months int `json:"months" validate:"required,gt=0"`
}

// POST /memberships/{id}/extend
func (h *MembershipHandler) Extend(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMembership(w, r)
	if !ok {
		return
	}

	var req ExtendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.JSONError(w, "Months must be a positive number", http.StatusBadRequest)
		return
	}

	// Goodwill extension: months are added to the current end date, not
	// recomputed from the plan.
	newEnd := membership.EndOfDay(membership.AddCalendarMonths(m.EndDate, req.Months))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := h.MembershipCol.UpdateByID(ctx, m.ID, bson.M{"$set": bson.M{"end_date": newEnd}})
	if err != nil {
		utils.JSONError(w, "Extend failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.Notifier.Notify(ctx, m.MemberID, "Membership extended",
		fmt.Sprintf("Your %s membership has been extended until %s.", m.Plan, newEnd.Format(dateFormat)),
		"membership")
	h.AuditLogger.Log(ctx, models.MembershipEntity, constants.Extend, middleware.UserIDFromContext(r.Context()), bson.M{
		"membership_id": m.ID,
		"old":           bson.M{"end_date": m.EndDate},
		"new":           bson.M{"end_date": newEnd, "months_added": req.Months},
	})

	json.NewEncoder(w).Encode(map[string]any{
		"message":  "Membership extended",
		"end_date": newEnd,
	})
}

type ChangePlanRequest struct {
	Plan string `json:"plan" validate:"required"`
}

// POST /memberships/{id}/change-plan
func (h *MembershipHandler) ChangePlan(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMembership(w, r)
	if !ok {
		return
	}

	var req ChangePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if !models.IsValidPlanType(req.Plan) {
		utils.JSONError(w, "Invalid plan type: "+req.Plan, http.StatusBadRequest)
		return
	}

	// Changing the plan restarts the period from today.
	plan := models.PlanType(req.Plan)
	startDate := membership.StartOfDay(time.Now())
	endDate := membership.CalculateEndDate(startDate, plan)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := h.MembershipCol.UpdateByID(ctx, m.ID, bson.M{"$set": bson.M{
		"plan":       plan,
		"amount":     models.PlanPrices[plan],
		"start_date": startDate,
		"end_date":   endDate,
	}})
	if err != nil {
		utils.JSONError(w, "Plan change failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.Notifier.Notify(ctx, m.MemberID, "Membership plan changed",
		fmt.Sprintf("Your membership plan is now %s, valid until %s.", plan, endDate.Format(dateFormat)),
		"membership")
	h.AuditLogger.Log(ctx, models.MembershipEntity, constants.ChangePlan, middleware.UserIDFromContext(r.Context()), bson.M{
		"membership_id": m.ID,
		"old":           bson.M{"plan": m.Plan, "start_date": m.StartDate, "end_date": m.EndDate},
		"new":           bson.M{"plan": plan, "start_date": startDate, "end_date": endDate},
	})

	json.NewEncoder(w).Encode(map[string]any{
		"message":    "Plan changed",
		"plan":       plan,
		"start_date": startDate,
		"end_date":   endDate,
	})
}

// POST /memberships/{id}/withdraw
func (h *MembershipHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMembership(w, r)
	if !ok {
		return
	}

	now := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := h.MembershipCol.UpdateByID(ctx, m.ID, bson.M{"$set": bson.M{
		"status":   models.StatusExpired,
		"end_date": now,
	}})
	if err != nil {
		utils.JSONError(w, "Withdraw failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.Notifier.Notify(ctx, m.MemberID, "Membership withdrawn",
		fmt.Sprintf("Your %s membership has been withdrawn and is no longer active.", m.Plan),
		"membership")
	h.AuditLogger.Log(ctx, models.MembershipEntity, constants.Withdraw, middleware.UserIDFromContext(r.Context()), bson.M{
		"membership_id": m.ID,
		"old":           bson.M{"status": m.Status, "end_date": m.EndDate},
		"new":           bson.M{"status": models.StatusExpired, "end_date": now},
	})

	json.NewEncoder(w).Encode(map[string]string{"message": "Membership withdrawn"})
}

// POST /memberships/sweep
func (h *MembershipHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := SweepExpired(ctx, h.MembershipCol)
	if err != nil {
		utils.JSONError(w, "Sweep failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if count > 0 {
		h.AuditLogger.Log(ctx, models.MembershipEntity, constants.Sweep, middleware.UserIDFromContext(r.Context()), bson.M{
			"expired_count": count,
		})
	}

	json.NewEncoder(w).Encode(map[string]any{"updated_count": count})
}

// SweepExpired bulk-transitions Active records past their end date to
// Expired. Idempotent: a second run matches nothing. Shared by the admin
// endpoint and the background sweeper.
func SweepExpired(ctx context.Context, membershipCol *mongo.Collection) (int64, error) {
	res, err := membershipCol.UpdateMany(ctx,
		bson.M{"status": models.StatusActive, "end_date": bson.M{"$lt": time.Now()}},
		bson.M{"$set": bson.M{"status": models.StatusExpired}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// GET /memberships/member/{memberId}
func (h *MembershipHandler) GetMemberHistory(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["memberId"]
	memberID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		utils.JSONError(w, "Invalid member ID", http.StatusBadRequest)
		return
	}

	cursor, err := h.MembershipCol.Find(r.Context(), bson.M{"member_id": memberID},
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

	var newest *models.Membership
	if len(memberships) > 0 {
		newest = &memberships[0]
	}

	json.NewEncoder(w).Encode(map[string]any{
		"memberships": memberships,
		"current":     membership.ResolveStatus(newest, time.Now()),
	})
}

// loadMembership fetches the record addressed by the {id} path variable and
// writes the error response itself when the id is malformed or unknown.
func (h *MembershipHandler) loadMembership(w http.ResponseWriter, r *http.Request) (*models.Membership, bool) {
	idStr := mux.Vars(r)["id"]
	membershipID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		utils.JSONError(w, "Invalid membership ID", http.StatusBadRequest)
		return nil, false
	}

	var m models.Membership
	if err := h.MembershipCol.FindOne(r.Context(), bson.M{"_id": membershipID}).Decode(&m); err != nil {
		utils.JSONError(w, "Membership not found", http.StatusNotFound)
		return nil, false
	}
	return &m, true
}
