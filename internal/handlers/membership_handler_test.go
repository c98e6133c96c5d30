package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/handlers"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/models"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/utils"
)

func auditLogger(mtt *mtest.T) utils.Logger {
	return utils.Logger{Collection: mtt.Coll}
}

func memberDoc(id primitive.ObjectID, checkinCode string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Jane Doe"},
		{Key: "email", Value: "jane@example.com"},
		{Key: "phone", Value: "555-0100"},
		{Key: "checkin_code", Value: checkinCode},
		{Key: "active", Value: true},
	}
}

func newMembershipRouter(mtt *mtest.T) *mux.Router {
	handler := &handlers.MembershipHandler{
		MembershipCol: mtt.Coll,
		MemberCol:     mtt.Coll,
		AuditLogger:   auditLogger(mtt),
		Notifier:      &utils.Notifier{Collection: mtt.Coll},
	}
	router := mux.NewRouter()
	router.HandleFunc("/memberships/apply", handler.Apply).Methods("POST")
	router.HandleFunc("/memberships/sweep", handler.Sweep).Methods("POST")
	router.HandleFunc("/memberships/{id}/approve", handler.Approve).Methods("POST")
	router.HandleFunc("/memberships/{id}/decline", handler.Decline).Methods("POST")
	router.HandleFunc("/memberships/{id}/extend", handler.Extend).Methods("POST")
	router.HandleFunc("/memberships/{id}/withdraw", handler.Withdraw).Methods("POST")
	return router
}

func TestMembershipHandler_Apply(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("invalid plan rejected before any read", func(mt *mtest.T) {
		w := postJSON(newMembershipRouter(mt), "/memberships/apply", handlers.ApplyRequest{
			MemberID:      primitive.NewObjectID().Hex(),
			Plan:          "Gold",
			PaymentMethod: "cash",
		})

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", w.Code)
		}
	})

	mt.Run("member not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.members", mtest.FirstBatch))

		w := postJSON(newMembershipRouter(mt), "/memberships/apply", handlers.ApplyRequest{
			MemberID:      primitive.NewObjectID().Hex(),
			Plan:          string(models.PlanBasic),
			PaymentMethod: "cash",
		})

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status NotFound, got %v", w.Code)
		}
	})

	mt.Run("existing pending application blocks a second one", func(mt *mtest.T) {
		memberID := primitive.NewObjectID()
		appliedAt := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.members", mtest.FirstBatch, memberDoc(memberID, "qr-code-1")),
			mtest.CreateCursorResponse(0, "test.memberships", mtest.FirstBatch,
				membershipDoc(primitive.NewObjectID(), "qr-code-1", models.StatusPending, appliedAt, appliedAt.AddDate(0, 3, 0))),
		)

		w := postJSON(newMembershipRouter(mt), "/memberships/apply", handlers.ApplyRequest{
			MemberID:      memberID.Hex(),
			Plan:          string(models.PlanBasic),
			PaymentMethod: "cash",
		})

		if w.Code != http.StatusConflict {
			t.Fatalf("expected status Conflict, got %v: %s", w.Code, w.Body.String())
		}
		body := w.Body.String()
		if !strings.Contains(body, "Premium") || !strings.Contains(body, "2024-05-01") {
			t.Errorf("expected message naming the existing plan and date, got %s", body)
		}
	})

	mt.Run("successful application computes the plan period", func(mt *mtest.T) {
		memberID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.members", mtest.FirstBatch, memberDoc(memberID, "qr-code-1")),
			mtest.CreateCursorResponse(0, "test.memberships", mtest.FirstBatch), // no conflicting record
			mtest.CreateSuccessResponse(), // membership insert
			mtest.CreateSuccessResponse(), // notification insert
			mtest.CreateSuccessResponse(), // audit insert
		)

		w := postJSON(newMembershipRouter(mt), "/memberships/apply", handlers.ApplyRequest{
			MemberID:      memberID.Hex(),
			Plan:          string(models.PlanPremium),
			PaymentMethod: "card",
		})

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status Created, got %v: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Status    models.MembershipStatus `json:"status"`
			StartDate time.Time               `json:"start_date"`
			EndDate   time.Time               `json:"end_date"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Status != models.StatusPending {
			t.Errorf("expected Pending, got %s", resp.Status)
		}
		if !resp.EndDate.After(resp.StartDate) {
			t.Errorf("expected end date after start date, got %v / %v", resp.StartDate, resp.EndDate)
		}
	})

	mt.Run("member without check-in code rejected", func(mt *mtest.T) {
		memberID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.members", mtest.FirstBatch, memberDoc(memberID, "")),
		)

		w := postJSON(newMembershipRouter(mt), "/memberships/apply", handlers.ApplyRequest{
			MemberID:      memberID.Hex(),
			Plan:          string(models.PlanBasic),
			PaymentMethod: "cash",
		})

		if w.Code != http.StatusConflict {
			t.Fatalf("expected status Conflict, got %v: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "check-in code") {
			t.Errorf("expected check-in code message, got %s", w.Body.String())
		}
	})
}

func TestMembershipHandler_Approve(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	now := time.Now()

	mt.Run("only pending applications can be approved", func(mt *mtest.T) {
		membershipID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.memberships", mtest.FirstBatch,
				membershipDoc(membershipID, "qr-code-1", models.StatusActive, now.AddDate(0, -1, 0), now.AddDate(0, 2, 0))),
		)

		w := postJSON(newMembershipRouter(mt), "/memberships/"+membershipID.Hex()+"/approve", nil)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected status Conflict, got %v: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "Active") {
			t.Errorf("expected message naming the current status, got %s", w.Body.String())
		}
	})

	mt.Run("approval recomputes the period from approval time", func(mt *mtest.T) {
		membershipID := primitive.NewObjectID()
		appliedAt := now.AddDate(0, 0, -14) // long-pending application

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.memberships", mtest.FirstBatch,
				membershipDoc(membershipID, "qr-code-1", models.StatusPending, appliedAt, appliedAt.AddDate(0, 3, 0))),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(), // notification insert
			mtest.CreateSuccessResponse(), // audit insert
		)

		w := postJSON(newMembershipRouter(mt), "/memberships/"+membershipID.Hex()+"/approve", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status OK, got %v: %s", w.Code, w.Body.String())
		}

		var resp struct {
			StartDate time.Time `json:"start_date"`
			EndDate   time.Time `json:"end_date"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.StartDate.Before(appliedAt.AddDate(0, 0, 1)) {
			t.Errorf("expected start date recomputed from approval time, got %v", resp.StartDate)
		}
	})

	mt.Run("unknown membership", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.memberships", mtest.FirstBatch))

		w := postJSON(newMembershipRouter(mt), "/memberships/"+primitive.NewObjectID().Hex()+"/approve", nil)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status NotFound, got %v", w.Code)
		}
	})
}

func TestMembershipHandler_Decline(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	now := time.Now()

	mt.Run("only pending applications can be declined", func(mt *mtest.T) {
		membershipID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.memberships", mtest.FirstBatch,
				membershipDoc(membershipID, "qr-code-1", models.StatusExpired, now.AddDate(0, -7, 0), now.AddDate(0, -6, 0))),
		)

		w := postJSON(newMembershipRouter(mt), "/memberships/"+membershipID.Hex()+"/decline",
			handlers.DeclineRequest{Reason: "unpaid"})

		if w.Code != http.StatusConflict {
			t.Fatalf("expected status Conflict, got %v: %s", w.Code, w.Body.String())
		}
	})

	mt.Run("pending application declined with reason", func(mt *mtest.T) {
		membershipID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.memberships", mtest.FirstBatch,
				membershipDoc(membershipID, "qr-code-1", models.StatusPending, now, now.AddDate(0, 3, 0))),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(), // notification insert
			mtest.CreateSuccessResponse(), // audit insert
		)

		w := postJSON(newMembershipRouter(mt), "/memberships/"+membershipID.Hex()+"/decline",
			handlers.DeclineRequest{Reason: "incomplete application"})

		if w.Code != http.StatusOK {
			t.Fatalf("expected status OK, got %v: %s", w.Code, w.Body.String())
		}
	})
}

func TestMembershipHandler_Sweep(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("sweep reports the number of expired records", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}, bson.E{Key: "nModified", Value: 3}),
			mtest.CreateSuccessResponse(), // audit insert
		)

		w := postJSON(newMembershipRouter(mt), "/memberships/sweep", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status OK, got %v: %s", w.Code, w.Body.String())
		}

		var resp struct {
			UpdatedCount int `json:"updated_count"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.UpdatedCount != 3 {
			t.Errorf("expected 3 updated records, got %d", resp.UpdatedCount)
		}
	})

	mt.Run("second sweep has nothing left to update", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		w := postJSON(newMembershipRouter(mt), "/memberships/sweep", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status OK, got %v: %s", w.Code, w.Body.String())
		}

		var resp struct {
			UpdatedCount int `json:"updated_count"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.UpdatedCount != 0 {
			t.Errorf("expected 0 updated records, got %d", resp.UpdatedCount)
		}
	})
}
