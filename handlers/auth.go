package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"heroes-service/auth"
	"heroes-service/models"
	"heroes-service/repository"

	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

// AuthHandler handles login and user administration
type AuthHandler struct {
	users  *repository.UserRepo
	tokens *auth.TokenIssuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *repository.UserRepo, tokens *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
	}
}

// Login handles POST /login - exchanges a form-encoded username/password
// pair for a bearer token. Unknown username and wrong password return
// the same 401 so the response never reveals which part was wrong.
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Login request")

	if err := r.ParseForm(); err != nil {
		logRequest(ctx, "error", "Invalid login form", zap.Error(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid form body"))
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		logRequest(ctx, "error", "Missing login credentials")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("username and password are required"))
		return
	}

	user, err := h.users.GetByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		logRequest(ctx, "info", "Login failed", zap.String("username", username))
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errs.NewAuthenticationError("Incorrect username or password"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to query user", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Server error"))
		return
	}

	if !auth.CheckPasswordHash(password, user.HashPassword) {
		logRequest(ctx, "info", "Login failed", zap.String("username", username))
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(errs.NewAuthenticationError("Incorrect username or password"))
		return
	}

	token, err := h.tokens.Issue(user.Username)
	if err != nil {
		logRequest(ctx, "error", "Token issuance failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Failed to issue token"))
		return
	}

	logRequest(ctx, "info", "Login successful", zap.Int64("user_id", user.UserID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// CreateUser handles POST /admin - creates a user account. The response
// carries only the public projection, never the hash.
func (h *AuthHandler) CreateUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := decodeStrict(r, &req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid user body"))
		return
	}

	if req.Username == "" || req.Password == "" {
		logRequest(ctx, "error", "Missing required fields", zap.String("username", req.Username))
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(errs.NewValidationError("username and password are required"))
		return
	}

	logRequest(ctx, "info", "Creating user", zap.String("username", req.Username))

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		logRequest(ctx, "error", "Password hashing failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Failed to process password"))
		return
	}

	user, err := h.users.Create(req.Username, hashedPassword)
	if errors.Is(err, repository.ErrConflict) {
		logRequest(ctx, "info", "Username already exists", zap.String("username", req.Username))
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errs.NewValidationError("The username already exists"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to create user", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Failed to create user"))
		return
	}

	logRequest(ctx, "info", "User created successfully", zap.Int64("user_id", user.UserID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.UserPublic{
		Username: user.Username,
		UserID:   user.UserID,
	})
}
