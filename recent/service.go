package recent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"prazoflow/processo"
)

// TxBeginner abstracts pgxpool.Pool for testability.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ProcessoReader resolves cases for the recency list.
type ProcessoReader interface {
	GetByNumero(ctx context.Context, numero int64) (processo.Processo, error)
}

// Service maintains the bounded most-recently-viewed case list per user.
type Service struct {
	pool      TxBeginner
	repo      Repository
	processos ProcessoReader
	now       func() time.Time
}

// NewService builds a Service over the given transaction source, repository
// and case reader.
func NewService(pool TxBeginner, repo Repository, processos ProcessoReader) *Service {
	return &Service{
		pool:      pool,
		repo:      repo,
		processos: processos,
		now:       time.Now,
	}
}

// RecordView refreshes the (usuario, processo) view timestamp and trims the
// user's history to the MaxRecent most recent entries. Upsert and eviction
// commit together; a reader never observes more than MaxRecent records nor a
// state where the just-viewed case is missing. On a serialization conflict the
// whole sequence is retried once.
func (s *Service) RecordView(ctx context.Context, usuarioID uuid.UUID, numero int64) (View, error) {
	if usuarioID == uuid.Nil {
		return View{}, fmt.Errorf("recent: usuario id required")
	}
	if numero <= 0 {
		return View{}, fmt.Errorf("recent: processo numero required")
	}

	view, err := s.recordViewTx(ctx, usuarioID, numero)
	if errors.Is(err, ErrConcurrentModification) {
		view, err = s.recordViewTx(ctx, usuarioID, numero)
	}
	return view, err
}

func (s *Service) recordViewTx(ctx context.Context, usuarioID uuid.UUID, numero int64) (View, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return View{}, fmt.Errorf("recent: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize upsert+evict per user so no reader sees the list above its
	// bound while two views race.
	if err := s.repo.LockUser(ctx, tx, usuarioID); err != nil {
		return View{}, err
	}

	view, err := s.repo.Upsert(ctx, tx, usuarioID, numero, s.now().UTC())
	if err != nil {
		return View{}, err
	}

	// Rank the post-upsert state so the just-viewed case is part of the kept
	// set and can never be the one evicted by its own call.
	overflow, err := s.repo.OverflowIDs(ctx, tx, usuarioID)
	if err != nil {
		return View{}, err
	}
	if err := s.repo.Delete(ctx, tx, overflow); err != nil {
		return View{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return View{}, fmt.Errorf("recent: commit tx: %w", err)
	}

	return view, nil
}

// ListRecent returns up to MaxRecent cases the user viewed, most recent first.
// View records pointing at a case deleted in the meantime are omitted rather
// than failing the listing.
func (s *Service) ListRecent(ctx context.Context, usuarioID uuid.UUID) ([]processo.Processo, error) {
	views, err := s.repo.ListTop(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	resolved := make([]*processo.Processo, len(views))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range views {
		g.Go(func() error {
			p, err := s.processos.GetByNumero(gctx, v.ProcessoNumero)
			if err != nil {
				if errors.Is(err, processo.ErrNotFound) {
					return nil
				}
				return err
			}
			resolved[i] = &p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	processos := make([]processo.Processo, 0, len(resolved))
	for _, p := range resolved {
		if p != nil {
			processos = append(processos, *p)
		}
	}
	return processos, nil
}
