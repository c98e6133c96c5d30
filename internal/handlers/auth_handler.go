package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/JamesCortejo/Tough-Athletics-Gym-sub000/internal/utils"
)

type AuthHandler struct {
	ConfigCreds struct {
		AdminId       string
		AdminName     string
		AdminPassword string
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	expectedPassword := a.ConfigCreds.AdminPassword
	expectedUsername := a.ConfigCreds.AdminName
	if expectedPassword != req.Password || expectedUsername != req.Username {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, _ := utils.GenerateJWT(a.ConfigCreds.AdminId)

	json.NewEncoder(w).Encode(LoginResponse{Token: token})
}
