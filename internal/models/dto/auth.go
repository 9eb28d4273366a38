package dto

import (
	"time"

	"github.com/hongminglow/finance-tracker/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type ValidateResponse struct {
	Valid     bool        `json:"valid"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}
