package handler

import (
	"context"
	"net/http"

	"github.com/ideahub/api/internal/model"
	"github.com/ideahub/api/internal/service"
)

// AuthService is the account API used by AuthHandler
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Me(ctx context.Context, userID string) (*model.User, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error)
	Logout(ctx context.Context, userID string) error
}

// AuthHandler handles /api/auth
type AuthHandler struct {
	auth AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, routes, err, "register")
		return
	}
	if err := validateRequest(&req); err != nil {
		fail(w, r, routes, err, "register")
		return
	}

	result, err := h.auth.Register(r.Context(), req)
	if err != nil {
		fail(w, r, routes, err, "register")
		return
	}

	routes.Success(w, Created(result))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, routes, err, "login")
		return
	}
	if err := validateRequest(&req); err != nil {
		fail(w, r, routes, err, "login")
		return
	}

	result, err := h.auth.Login(r.Context(), req)
	if err != nil {
		fail(w, r, routes, err, "login")
		return
	}

	routes.Success(w, OK(result))
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, routes, err, "refresh")
		return
	}
	if err := validateRequest(&req); err != nil {
		fail(w, r, routes, err, "refresh")
		return
	}

	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		fail(w, r, routes, err, "refresh")
		return
	}

	routes.Success(w, OK(pair))
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), callerID(r)); err != nil {
		fail(w, r, routes, err, "logout")
		return
	}
	routes.Success(w, OK(map[string]string{"status": "signed out"}))
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)
	if userID == "" {
		fail(w, r, routes, service.ErrUnauthorized, "me")
		return
	}

	user, err := h.auth.Me(r.Context(), userID)
	if err != nil {
		fail(w, r, routes, err, "me")
		return
	}

	routes.Success(w, OK(user))
}

// SignOut handles the auth-signout function. It revokes the caller's
// refresh tokens when a caller resolves and succeeds either way.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, functions, http.MethodPost) {
		return
	}

	if userID := callerID(r); userID != "" {
		if err := h.auth.Logout(r.Context(), userID); err != nil {
			fail(w, r, functions, err, "auth-signout")
			return
		}
	}

	functions.Success(w, Response{Status: http.StatusOK}.With("success", true))
}
