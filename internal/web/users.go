package web

import (
	"context"
	"net/http"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/server"
	"github.com/desertthunder/songbook/internal/services"
)

// UserService is the account use-case surface the handlers depend on.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in services.LoginInput) (*models.User, error)
	GetProfile(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, in services.UserUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, id int64, in services.PasswordChange) error
	Delete(ctx context.Context, id int64) error
}

// UserHandler serves /api/users. Login returns the profile only; no session or token is issued.
type UserHandler struct {
	users UserService
	resp  *Responder
}

// NewUserHandler creates a [UserHandler]
func NewUserHandler(users UserService, resp *Responder) *UserHandler {
	return &UserHandler{users: users, resp: resp}
}

// Routes implements [server.Handler].
func (h *UserHandler) Routes() []server.Route {
	return []server.Route{
		{Method: http.MethodPost, Path: "/api/users/register", Handler: h.register},
		{Method: http.MethodPost, Path: "/api/users/login", Handler: h.login},
		{Method: http.MethodGet, Path: "/api/users/{id}", Handler: h.profile},
		{Method: http.MethodPut, Path: "/api/users/{id}/password", Handler: h.changePassword},
		{Method: http.MethodPut, Path: "/api/users/{id}", Handler: h.update},
		{Method: http.MethodDelete, Path: "/api/users/{id}", Handler: h.delete},
	}
}

func (h *UserHandler) register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := h.resp.DecodeJSON(w, r, &in); err != nil {
		h.resp.Error(w, r, err, "Registration failed")
		return
	}

	user, err := h.users.Register(r.Context(), in)
	if err != nil {
		h.resp.Error(w, r, err, "Registration failed")
		return
	}
	h.resp.JSON(w, http.StatusCreated, envelope{"message": "User registered successfully", "user": user})
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := h.resp.DecodeJSON(w, r, &in); err != nil {
		h.resp.Error(w, r, err, "Login failed")
		return
	}

	user, err := h.users.Login(r.Context(), in)
	if err != nil {
		h.resp.Error(w, r, err, "Login failed")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"message": "Login successful", "user": user})
}

func (h *UserHandler) profile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		h.resp.Error(w, r, err, "Failed to fetch profile")
		return
	}

	user, err := h.users.GetProfile(r.Context(), id)
	if err != nil {
		h.resp.Error(w, r, err, "Failed to fetch profile")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"user": user})
}

func (h *UserHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		h.resp.Error(w, r, err, "Failed to change password")
		return
	}

	var in services.PasswordChange
	if err := h.resp.DecodeJSON(w, r, &in); err != nil {
		h.resp.Error(w, r, err, "Failed to change password")
		return
	}

	if err := h.users.ChangePassword(r.Context(), id, in); err != nil {
		h.resp.Error(w, r, err, "Failed to change password")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"message": "Password changed successfully"})
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		h.resp.Error(w, r, err, "Failed to update profile")
		return
	}

	var in services.UserUpdate
	if err := h.resp.DecodeJSON(w, r, &in); err != nil {
		h.resp.Error(w, r, err, "Failed to update profile")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), id, in)
	if err != nil {
		h.resp.Error(w, r, err, "Failed to update profile")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"message": "Profile updated successfully", "user": user})
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		h.resp.Error(w, r, err, "Failed to delete account")
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		h.resp.Error(w, r, err, "Failed to delete account")
		return
	}
	h.resp.JSON(w, http.StatusOK, envelope{"message": "Account deleted successfully"})
}
