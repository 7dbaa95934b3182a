// Package httpapi exposes the service over HTTP. It is plumbing around the
// domain services: routing, decoding, auth middleware, and status mapping.
package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"prazoflow/auth"
	"prazoflow/logger"
	"prazoflow/movimentacao"
	"prazoflow/processo"
	"prazoflow/recent"
)

// AuthService is the account surface consumed by the API layer.
type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.Usuario, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResult, error)
	ListUsuarios(ctx context.Context) ([]auth.Usuario, error)
	VerifyToken(tokenString string) (uuid.UUID, error)
}

// ProcessoService is the case surface consumed by the API layer.
type ProcessoService interface {
	Create(ctx context.Context, params processo.CreateParams) (processo.Processo, error)
	GetByNumero(ctx context.Context, numero int64) (processo.Processo, error)
	List(ctx context.Context) ([]processo.Processo, error)
}

// MovimentacaoService is the event surface consumed by the API layer.
type MovimentacaoService interface {
	Create(ctx context.Context, params movimentacao.CreateParams) (movimentacao.Movimentacao, error)
	UpdateTipo(ctx context.Context, id int64, tipo string) (movimentacao.Movimentacao, error)
	ListByProcesso(ctx context.Context, numero int64) ([]movimentacao.Movimentacao, error)
}

// RecentService is the recency surface consumed by the API layer.
type RecentService interface {
	RecordView(ctx context.Context, usuarioID uuid.UUID, numero int64) (recent.View, error)
	ListRecent(ctx context.Context, usuarioID uuid.UUID) ([]processo.Processo, error)
}

// Server wires the domain services behind HTTP handlers.
type Server struct {
	auth      AuthService
	processos ProcessoService
	movs      MovimentacaoService
	recents   RecentService
	log       *logger.Logger
}

// NewServer builds a Server over the given services.
func NewServer(authSvc AuthService, processos ProcessoService, movs MovimentacaoService, recents RecentService, log *logger.Logger) *Server {
	return &Server{
		auth:      authSvc,
		processos: processos,
		movs:      movs,
		recents:   recents,
		log:       log,
	}
}

// Routes assembles the service mux. /login and /usuario are public, as in the
// original API; everything else requires a bearer token.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /usuario", s.handleRegister)
	mux.HandleFunc("GET /usuario", s.handleListUsuarios)

	mux.Handle("GET /processo", s.authenticate(http.HandlerFunc(s.handleListProcessos)))
	mux.Handle("POST /processo", s.authenticate(http.HandlerFunc(s.handleCreateProcesso)))
	mux.Handle("GET /processo/{numero}", s.authenticate(http.HandlerFunc(s.handleGetProcesso)))
	mux.Handle("GET /processo/{numero}/movimentacao", s.authenticate(http.HandlerFunc(s.handleListMovimentacoes)))
	mux.Handle("GET /me/processo", s.authenticate(http.HandlerFunc(s.handleListRecent)))
	mux.Handle("POST /movimentacao", s.authenticate(http.HandlerFunc(s.handleCreateMovimentacao)))
	mux.Handle("PUT /movimentacao/{id}", s.authenticate(http.HandlerFunc(s.handleUpdateMovimentacao)))

	return mux
}
