package processo

import (
	"context"
	"fmt"
)

// Service exposes business-level case operations.
type Service struct {
	repo Repository
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new case.
func (s *Service) Create(ctx context.Context, params CreateParams) (Processo, error) {
	if params.Numero <= 0 {
		return Processo{}, fmt.Errorf("processo: numero must be positive")
	}
	return s.repo.Create(ctx, params)
}

// GetByNumero returns the case with the given number.
func (s *Service) GetByNumero(ctx context.Context, numero int64) (Processo, error) {
	return s.repo.GetByNumero(ctx, numero)
}

// List returns all cases ordered by deadline, soonest first.
func (s *Service) List(ctx context.Context) ([]Processo, error) {
	return s.repo.List(ctx)
}
