package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/hongminglow/finance-tracker/internal/auth"
	"github.com/hongminglow/finance-tracker/internal/http/respond"
	"github.com/hongminglow/finance-tracker/internal/models"
	"github.com/hongminglow/finance-tracker/internal/models/dto"
	"github.com/hongminglow/finance-tracker/internal/storage"
)

const minPasswordLength = 6

// AuthHandler owns register/login/validate endpoints.
type AuthHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

// Register attaches the public auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
}

// RegisterProtected attaches routes that need an authenticated session.
func (h *AuthHandler) RegisterProtected(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/auth/validate", h.handleValidate)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if err := validateRegistration(name, email, req.Password); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.ErrorContext(r.Context(), "hash password", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	created, err := h.store.CreateUser(r.Context(), models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.Error(w, http.StatusConflict, "email already registered")
		default:
			slog.ErrorContext(r.Context(), "create user", "error", err)
			respond.Error(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	token, err := h.tokens.Generate(created)
	if err != nil {
		slog.ErrorContext(r.Context(), "generate token", "user_id", created.ID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusCreated, "user registered", dto.LoginResponse{Token: token, User: created})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}
	user, err := h.store.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		slog.ErrorContext(r.Context(), "login: fetch user", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := h.tokens.Generate(user)
	if err != nil {
		slog.ErrorContext(r.Context(), "generate token", "user_id", user.ID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{Token: token, User: user})
}

func (h *AuthHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	user, err := h.store.FindByID(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusForbidden, "invalid token")
			return
		}
		slog.ErrorContext(r.Context(), "validate: fetch user", "user_id", session.UserID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	respond.JSON(w, http.StatusOK, "token valid", dto.ValidateResponse{Valid: true, User: user, ExpiresAt: session.ExpiresAt})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(name, email, password string) error {
	if name == "" || email == "" {
		return errors.New("name and email are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email is not valid")
	}
	if utf8.RuneCountInString(password) < minPasswordLength || !utf8.ValidString(password) {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

// sessionOrAbort fetches the caller's session. Routes are wrapped by
// middleware.RequireAuth, so a miss means the handler was mounted without it.
func sessionOrAbort(w http.ResponseWriter, r *http.Request) (auth.Session, bool) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "token not provided")
	}
	return session, ok
}
