package transport

import (
	"net/http"

	"boutique-pos/internal/domain"
	"boutique-pos/internal/middleware"
	"boutique-pos/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest represents the account creation payload
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin staff"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        UserProfile `json:"user"`
}

// UserProfile represents user profile data
type UserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func profileOf(user *domain.User) UserProfile {
	return UserProfile{ID: user.ID, Username: user.Username, Role: user.Role}
}

// AuthHandler handles login and account management
type AuthHandler struct {
	store  store.Store
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s store.Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{store: s, logger: logger}
}

// RegisterRoutes registers the auth routes. loginLimiter may be nil.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware, loginLimiter func(http.Handler) http.Handler) {
	if loginLimiter == nil {
		loginLimiter = passthrough
	}

	r.With(loginLimiter).Post("/api/auth/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/api/auth/me", h.Me)
		r.With(middleware.RequireAdmin(h.logger)).Post("/api/users", h.CreateUser)
	})
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	accessToken, user, err := h.store.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.String("username", req.Username), zap.Error(err))
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	h.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		AccessToken: accessToken,
		User:        profileOf(user),
	})
}

// Me returns the caller's identity from the token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, UserProfile{
		ID:       principal.UserID,
		Username: principal.Username,
		Role:     principal.Role,
	})
}

// CreateUser adds a register account. Admin only.
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		middleware.RespondWithDomainError(w, err, h.logger)
		return
	}

	h.logger.Info("User created", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	middleware.RespondWithJSON(w, http.StatusCreated, profileOf(user))
}
