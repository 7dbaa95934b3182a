package movimentacao

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// TxBeginner abstracts pgxpool.Pool for testability.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Service records case events and keeps the owning case's statute-of-
// limitations deadline in sync.
type Service struct {
	pool TxBeginner
	repo Repository
}

// NewService builds a Service over the given transaction source and repository.
func NewService(pool TxBeginner, repo Repository) *Service {
	return &Service{
		pool: pool,
		repo: repo,
	}
}

// Create appends a new event and, when the event is a penhora, recomputes the
// owning case's deadline as six years after the event date. Both writes commit
// together: if the case lookup fails the whole creation is rejected, so an
// event is never persisted with its side effect dropped.
func (s *Service) Create(ctx context.Context, params CreateParams) (Movimentacao, error) {
	if params.ProcessoNumero <= 0 {
		return Movimentacao{}, fmt.Errorf("movimentacao: processo numero required")
	}
	if strings.TrimSpace(params.Tipo) == "" {
		return Movimentacao{}, fmt.Errorf("movimentacao: tipo required")
	}
	if params.Data.IsZero() {
		return Movimentacao{}, fmt.Errorf("movimentacao: data required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Movimentacao{}, fmt.Errorf("movimentacao: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	m, err := s.repo.Insert(ctx, tx, params)
	if err != nil {
		return Movimentacao{}, err
	}

	if strings.EqualFold(m.Tipo, TipoPenhora) {
		deadline := prescriptionDeadline(m.Data)
		if err := s.repo.SetProcessoDeadline(ctx, tx, m.ProcessoNumero, deadline); err != nil {
			return Movimentacao{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Movimentacao{}, fmt.Errorf("movimentacao: commit tx: %w", err)
	}

	return m, nil
}

// UpdateTipo rewrites the kind of an existing event without recalculating any
// deadline.
func (s *Service) UpdateTipo(ctx context.Context, id int64, tipo string) (Movimentacao, error) {
	if strings.TrimSpace(tipo) == "" {
		return Movimentacao{}, fmt.Errorf("movimentacao: tipo required")
	}
	return s.repo.UpdateTipo(ctx, id, tipo)
}

// ListByProcesso returns the events recorded against a case.
func (s *Service) ListByProcesso(ctx context.Context, numero int64) ([]Movimentacao, error) {
	return s.repo.ListByProcesso(ctx, numero)
}
