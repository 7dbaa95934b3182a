package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials signals wrong email or password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrWeakPassword signals the password doesn't meet requirements.
	ErrWeakPassword = errors.New("auth: password must be at least 6 characters")
	// ErrInvalidToken signals a malformed or expired session token.
	ErrInvalidToken = errors.New("auth: invalid token")
)

const tokenTTL = time.Hour

// Service handles account and session business logic.
type Service struct {
	repo      Repository
	jwtSecret []byte
}

// LoginResult bundles the token and domain user returned after a successful login.
type LoginResult struct {
	Token   string
	Usuario Usuario
}

// NewService creates a new authentication service.
func NewService(repo Repository, jwtSecret string) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
	}
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Usuario, error) {
	if len(req.Senha) < 6 {
		return nil, ErrWeakPassword
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Nome = strings.TrimSpace(req.Nome)
	if req.Email == "" || req.Nome == "" {
		return nil, fmt.Errorf("auth: nome and email are required")
	}
	if !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("auth: invalid email %q", req.Email)
	}

	senhaHash, err := bcrypt.GenerateFromPassword([]byte(req.Senha), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	usuario, err := s.repo.CreateUsuario(ctx, CreateUsuarioParams{
		Nome:      req.Nome,
		Email:     req.Email,
		SenhaHash: string(senhaHash),
	})
	if err != nil {
		return nil, err
	}

	return &usuario, nil
}

// Login authenticates a user and returns a signed JWT token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	usuario, err := s.repo.GetUsuarioByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUsuarioNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.SenhaHash), []byte(req.Senha)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.generateToken(usuario)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: generate token: %w", err)
	}

	return LoginResult{
		Token:   token,
		Usuario: usuario,
	}, nil
}

// ListUsuarios returns every registered account.
func (s *Service) ListUsuarios(ctx context.Context) ([]Usuario, error) {
	return s.repo.ListUsuarios(ctx)
}

// GetUsuarioByID retrieves account information by ID.
func (s *Service) GetUsuarioByID(ctx context.Context, id uuid.UUID) (*Usuario, error) {
	usuario, err := s.repo.GetUsuarioByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &usuario, nil
}

// VerifyToken validates a JWT token and returns the user ID it was issued for.
func (s *Service) VerifyToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	rawID, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed user_id claim", ErrInvalidToken)
	}

	return userID, nil
}

// generateToken creates a short-lived JWT for the user.
func (s *Service) generateToken(usuario Usuario) (string, error) {
	claims := jwt.MapClaims{
		"user_id": usuario.ID.String(),
		"email":   usuario.Email,
		"exp":     time.Now().Add(tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
