package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/handlers"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/models"
)

func TestMemberHandler_RegisterMember(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	newRouter := func(mtt *mtest.T) *mux.Router {
		handler := handlers.NewMemberHandler(mtt.Coll, mtt.Coll, auditLogger(mtt))
		router := mux.NewRouter()
		router.HandleFunc("/members", handler.RegisterMember).Methods("POST")
		return router
	}

	mt.Run("registration mints a check-in code", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.members", mtest.FirstBatch), // no duplicate email
			mtest.CreateSuccessResponse(), // member insert
			mtest.CreateSuccessResponse(), // audit insert
		)

		w := postJSON(newRouter(mt), "/members", handlers.RegisterMemberRequest{
			Name:  "Jane Doe",
			Email: "jane@example.com",
			Phone: "555-0100",
		})

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status Created, got %v: %s", w.Code, w.Body.String())
		}

		var member models.Member
		if err := json.Unmarshal(w.Body.Bytes(), &member); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if member.CheckinCode == "" {
			t.Error("expected a check-in code to be assigned at registration")
		}
	})

	mt.Run("duplicate email rejected", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.members", mtest.FirstBatch,
				bson.D{{Key: "n", Value: 1}}),
		)

		w := postJSON(newRouter(mt), "/members", handlers.RegisterMemberRequest{
			Name:  "Jane Doe",
			Email: "jane@example.com",
			Phone: "555-0100",
		})

		if w.Code != http.StatusConflict {
			t.Fatalf("expected status Conflict, got %v: %s", w.Code, w.Body.String())
		}
	})

	mt.Run("missing email rejected before any read", func(mt *mtest.T) {
		w := postJSON(newRouter(mt), "/members", handlers.RegisterMemberRequest{
			Name:  "Jane Doe",
			Phone: "555-0100",
		})

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", w.Code)
		}
	})
}
