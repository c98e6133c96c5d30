package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/constants"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/middleware"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/models"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/utils"
)

type MemberHandler struct {
	Collection      *mongo.Collection
	NotificationCol *mongo.Collection
	AuditLogger     utils.Logger
}

func NewMemberHandler(coll, notificationColl *mongo.Collection, logger utils.Logger) *MemberHandler {
	return &MemberHandler{Collection: coll, NotificationCol: notificationColl, AuditLogger: logger}
}

type RegisterMemberRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone" validate:"required"`
	Avatar string `json:"avatar"`
}

// POST /members
func (h *MemberHandler) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var req RegisterMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.JSONError(w, "Invalid payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := h.Collection.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		utils.JSONError(w, "Lookup failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if count > 0 {
		utils.JSONError(w, "A member with this email already exists", http.StatusConflict)
		return
	}

	member := models.Member{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Avatar:      req.Avatar,
		CheckinCode: uuid.NewString(), // stable across all of this member's memberships
		Active:      true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	_, err = h.Collection.InsertOne(ctx, member)
	if err != nil {
		utils.JSONError(w, "Insert failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.AuditLogger.Log(ctx, models.MemberEntity, constants.Create, middleware.UserIDFromContext(r.Context()), member)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(member)
}

// PUT /members/{id}
func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	memberID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		utils.JSONError(w, "Invalid member ID", http.StatusBadRequest)
		return
	}

	var updateData bson.M
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		utils.JSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	// The check-in code is assigned once at registration and never edited.
	delete(updateData, "checkin_code")
	delete(updateData, "_id")

	updateData["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := h.Collection.UpdateByID(ctx, memberID, bson.M{"$set": updateData})
	if err != nil {
		utils.JSONError(w, "Update failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.JSONError(w, "Member not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	h.AuditLogger.Log(ctx, models.MemberEntity, constants.Update, middleware.UserIDFromContext(r.Context()), updateData)
	json.NewEncoder(w).Encode(map[string]string{"message": "Member updated"})
}

// PATCH /members/{id}/deactivate
func (h *MemberHandler) DeactivateMember(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	memberID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		utils.JSONError(w, "Invalid member ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := h.Collection.UpdateByID(ctx, memberID, bson.M{"$set": bson.M{
		"active":     false,
		"updated_at": time.Now(),
	}})
	if err != nil {
		utils.JSONError(w, "Deactivate failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.JSONError(w, "Member not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	h.AuditLogger.Log(ctx, models.MemberEntity, constants.Deactivate, middleware.UserIDFromContext(r.Context()), idStr)
	json.NewEncoder(w).Encode(map[string]string{"message": "Member deactivated"})
}

// GET /members/{id}/notifications
func (h *MemberHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	memberID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		utils.JSONError(w, "Invalid member ID", http.StatusBadRequest)
		return
	}

	cursor, err := h.NotificationCol.Find(r.Context(), bson.M{"member_id": memberID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.JSONError(w, "Failed to fetch notifications", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	var notifications []models.Notification
	if err = cursor.All(r.Context(), &notifications); err != nil {
		utils.JSONError(w, "Error decoding notifications", http.StatusInternalServerError)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	json.NewEncoder(w).Encode(notifications)
}
