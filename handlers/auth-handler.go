package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/priyen27/taskflow360-backend/errs"
	"github.com/priyen27/taskflow360-backend/models"
)

// UserRegistry is the slice of UserService the auth endpoints need.
type UserRegistry interface {
	Register(ctx context.Context, name, email, password string, role models.PlatformRole) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

type AuthHandler struct {
	Users UserRegistry
}

func NewAuthHandler(users UserRegistry) *AuthHandler {
	return &AuthHandler{Users: users}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errs.Validation("invalid request payload"))
		return
	}

	// The platform role is never taken from the request body; every signup
	// starts as a member and admins are provisioned out of band.
	user, err := h.Users.Register(r.Context(), req.Name, req.Email, req.Password, models.PlatformMember)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errs.Validation("invalid request payload"))
		return
	}

	token, user, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}
