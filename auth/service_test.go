package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestService_RegisterAndLogin(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")

	req := RegisterRequest{
		Nome:  "Ana Advogada",
		Email: "ana@example.com",
		Senha: "supersafe",
	}

	ctx := context.Background()
	usuario, err := svc.Register(ctx, req)
	if err != nil {
		t.Fatalf("register: unexpected error: %v", err)
	}

	if usuario.Email != req.Email {
		t.Fatalf("expected email %q got %q", req.Email, usuario.Email)
	}
	if usuario.ID == uuid.Nil {
		t.Fatal("register: expected generated id")
	}
	if usuario.SenhaHash == req.Senha {
		t.Fatal("register: password stored in plain text")
	}

	resp, err := svc.Login(ctx, LoginRequest{Email: req.Email, Senha: req.Senha})
	if err != nil {
		t.Fatalf("login: unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login: expected token, got empty string")
	}
	if resp.Usuario.ID != usuario.ID {
		t.Fatalf("login: expected user id %q got %q", usuario.ID, resp.Usuario.ID)
	}

	tokenUserID, err := svc.VerifyToken(resp.Token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if tokenUserID != usuario.ID {
		t.Fatalf("verify token: expected %q got %q", usuario.ID, tokenUserID)
	}
}

func TestService_RegisterValidation(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Nome:  "Ana Advogada",
		Email: "ana@example.com",
		Senha: "short",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Nome:  "",
		Email: "",
		Senha: "strongpassword",
	}); err == nil {
		t.Fatal("expected validation error for missing fields")
	}

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Nome:  "Ana",
		Email: "not-an-email",
		Senha: "strongpassword",
	}); err == nil {
		t.Fatal("expected validation error for malformed email")
	}
}

func TestService_DuplicateEmail(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")

	req := RegisterRequest{
		Nome:  "Ana Advogada",
		Email: "ana@example.com",
		Senha: "strongpassword",
	}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestService_LoginInvalidCredentials(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret")

	_, err := svc.Login(context.Background(), LoginRequest{
		Email: "unknown@example.com",
		Senha: "irrelevant",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestService_VerifyTokenRejectsGarbage(t *testing.T) {
	svc := NewService(newFakeRepository(), "test-secret")

	if _, err := svc.VerifyToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

type fakeRepository struct {
	byEmail map[string]Usuario
	byID    map[uuid.UUID]Usuario
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byEmail: make(map[string]Usuario),
		byID:    make(map[uuid.UUID]Usuario),
	}
}

func (f *fakeRepository) CreateUsuario(ctx context.Context, params CreateUsuarioParams) (Usuario, error) {
	if _, exists := f.byEmail[strings.ToLower(params.Email)]; exists {
		return Usuario{}, ErrDuplicateEmail
	}

	usuario := Usuario{
		ID:        uuid.New(),
		Nome:      params.Nome,
		Email:     params.Email,
		SenhaHash: params.SenhaHash,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	f.byEmail[strings.ToLower(usuario.Email)] = usuario
	f.byID[usuario.ID] = usuario

	return usuario, nil
}

func (f *fakeRepository) GetUsuarioByEmail(ctx context.Context, email string) (Usuario, error) {
	usuario, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return Usuario{}, ErrUsuarioNotFound
	}
	return usuario, nil
}

func (f *fakeRepository) GetUsuarioByID(ctx context.Context, id uuid.UUID) (Usuario, error) {
	usuario, ok := f.byID[id]
	if !ok {
		return Usuario{}, ErrUsuarioNotFound
	}
	return usuario, nil
}

func (f *fakeRepository) ListUsuarios(ctx context.Context) ([]Usuario, error) {
	usuarios := make([]Usuario, 0, len(f.byID))
	for _, u := range f.byID {
		usuarios = append(usuarios, u)
	}
	return usuarios, nil
}
