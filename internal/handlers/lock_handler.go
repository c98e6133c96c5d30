package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/middleware"
	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/utils"
)

// LockHandler backs the member-edit screen's concurrent-edit warning. Locks
// are per-process and TTL-bounded; losing one is harmless.
type LockHandler struct {
	Locks *utils.EditLockManager
}

// POST /admin/members/{id}/lock
func (h *LockHandler) Acquire(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)["id"]
	owner := middleware.UserIDFromContext(r.Context())

	ok, holder := h.Locks.Acquire(memberID, owner)
	if !ok {
		utils.JSONError(w, fmt.Sprintf("Record is currently being edited by %s", holder), http.StatusConflict)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Lock acquired"})
}

// DELETE /admin/members/{id}/lock
func (h *LockHandler) Release(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)["id"]
	owner := middleware.UserIDFromContext(r.Context())

	if !h.Locks.Release(memberID, owner) {
		utils.JSONError(w, "No lock held on this record", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Lock released"})
}
