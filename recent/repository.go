package recent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrReferenceNotFound signals the user or case being recorded does not exist.
	ErrReferenceNotFound = errors.New("recent: usuario or processo not found")
	// ErrConcurrentModification signals the transaction lost a serialization or
	// deadlock race and may be retried.
	ErrConcurrentModification = errors.New("recent: concurrent modification")
)

// Repository defines the data access required by the tracker. The write-path
// methods take an explicit pgx.Tx so that upsert and eviction commit together.
type Repository interface {
	LockUser(ctx context.Context, tx pgx.Tx, usuarioID uuid.UUID) error
	Upsert(ctx context.Context, tx pgx.Tx, usuarioID uuid.UUID, numero int64, viewedAt time.Time) (View, error)
	OverflowIDs(ctx context.Context, tx pgx.Tx, usuarioID uuid.UUID) ([]int64, error)
	Delete(ctx context.Context, tx pgx.Tx, ids []int64) error
	ListTop(ctx context.Context, usuarioID uuid.UUID) ([]View, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed view-record repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// LockUser takes a transaction-scoped advisory lock on the user key, so
// concurrent upsert+evict sequences for the same user serialize and no reader
// can observe more than MaxRecent records.
func (r *PGRepository) LockUser(ctx context.Context, tx pgx.Tx, usuarioID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, usuarioID); err != nil {
		return mapWriteError("lock user", err)
	}
	return nil
}

// Upsert refreshes the view timestamp for the pair, inserting the record on
// first view. Exactly one record per pair exists afterwards.
func (r *PGRepository) Upsert(ctx context.Context, tx pgx.Tx, usuarioID uuid.UUID, numero int64, viewedAt time.Time) (View, error) {
	const upsertSQL = `
		INSERT INTO usuario_processos (usuario_id, processo_numero, viewed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (usuario_id, processo_numero)
		DO UPDATE SET viewed_at = EXCLUDED.viewed_at
		RETURNING id, usuario_id, processo_numero, viewed_at
	`

	var v View
	err := tx.QueryRow(ctx, upsertSQL, usuarioID, numero, viewedAt).Scan(
		&v.ID,
		&v.UsuarioID,
		&v.ProcessoNumero,
		&v.ViewedAt,
	)
	if err != nil {
		return View{}, mapWriteError("upsert view", err)
	}

	return v, nil
}

// OverflowIDs returns the ids of the user's view records ranked below the
// retention limit: ordered by viewed_at descending with id descending as the
// tiebreak, everything past the first MaxRecent rows.
func (r *PGRepository) OverflowIDs(ctx context.Context, tx pgx.Tx, usuarioID uuid.UUID) ([]int64, error) {
	const query = `
		SELECT id
		FROM usuario_processos
		WHERE usuario_id = $1
		ORDER BY viewed_at DESC, id DESC
		OFFSET $2
	`

	rows, err := tx.Query(ctx, query, usuarioID, MaxRecent)
	if err != nil {
		return nil, fmt.Errorf("recent: list overflow: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 4)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("recent: scan overflow id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent: iterate overflow ids: %w", err)
	}
	return ids, nil
}

// Delete removes the view records with the given ids.
func (r *PGRepository) Delete(ctx context.Context, tx pgx.Tx, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM usuario_processos WHERE id = ANY($1)`, ids); err != nil {
		return mapWriteError("delete views", err)
	}
	return nil
}

// ListTop returns the user's kept view records, most recent first.
func (r *PGRepository) ListTop(ctx context.Context, usuarioID uuid.UUID) ([]View, error) {
	const query = `
		SELECT id, usuario_id, processo_numero, viewed_at
		FROM usuario_processos
		WHERE usuario_id = $1
		ORDER BY viewed_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, usuarioID, MaxRecent)
	if err != nil {
		return nil, fmt.Errorf("recent: list top: %w", err)
	}
	defer rows.Close()

	views := make([]View, 0, MaxRecent)
	for rows.Next() {
		var v View
		if err := rows.Scan(&v.ID, &v.UsuarioID, &v.ProcessoNumero, &v.ViewedAt); err != nil {
			return nil, fmt.Errorf("recent: scan view: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent: iterate views: %w", err)
	}
	return views, nil
}

// mapWriteError translates driver-level failures into the tracker's error
// kinds: foreign-key rejections mean a missing user or case, serialization
// failures and deadlocks mean a retriable race.
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return ErrReferenceNotFound
		case "40001", "40P01":
			return ErrConcurrentModification
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrReferenceNotFound
	}
	return fmt.Errorf("recent: %s: %w", op, err)
}
