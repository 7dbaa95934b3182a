package auth

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is the domain representation of an account holder.
// It mirrors the usuarios table and carries no JSON annotations so it can be
// reused by different presentation layers.
type Usuario struct {
	ID        uuid.UUID
	Nome      string
	Email     string
	SenhaHash string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RegisterRequest contains account registration data supplied by callers.
type RegisterRequest struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}
