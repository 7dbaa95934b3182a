package processo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals the requested case does not exist.
	ErrNotFound = errors.New("processo: not found")
	// ErrDuplicateNumero signals the case number is already registered.
	ErrDuplicateNumero = errors.New("processo: numero already exists")
)

// Repository provides data access for case records.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Processo, error)
	GetByNumero(ctx context.Context, numero int64) (Processo, error)
	List(ctx context.Context) ([]Processo, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed case repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create registers a new case record.
func (r *PGRepository) Create(ctx context.Context, params CreateParams) (Processo, error) {
	if params.Status == "" {
		params.Status = StatusAtivo
	}

	const insertSQL = `
		INSERT INTO processos (numero, descricao, status)
		VALUES ($1, $2, $3)
		RETURNING numero, descricao, status, data_prescricao, created_at, updated_at
	`

	p, err := scanProcesso(r.pool.QueryRow(ctx, insertSQL, params.Numero, params.Descricao, params.Status))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Processo{}, ErrDuplicateNumero
		}
		return Processo{}, fmt.Errorf("processo: create: %w", err)
	}

	return p, nil
}

// GetByNumero fetches a case by its number.
func (r *PGRepository) GetByNumero(ctx context.Context, numero int64) (Processo, error) {
	const selectSQL = `
		SELECT numero, descricao, status, data_prescricao, created_at, updated_at
		FROM processos
		WHERE numero = $1
	`

	p, err := scanProcesso(r.pool.QueryRow(ctx, selectSQL, numero))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Processo{}, ErrNotFound
		}
		return Processo{}, fmt.Errorf("processo: get by numero: %w", err)
	}

	return p, nil
}

// List returns all cases ordered by deadline, soonest first. Cases without a
// deadline sort last.
func (r *PGRepository) List(ctx context.Context) ([]Processo, error) {
	const query = `
		SELECT numero, descricao, status, data_prescricao, created_at, updated_at
		FROM processos
		ORDER BY data_prescricao ASC NULLS LAST, numero ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("processo: list: %w", err)
	}
	defer rows.Close()

	processos := make([]Processo, 0, 16)
	for rows.Next() {
		p, err := scanProcesso(rows)
		if err != nil {
			return nil, fmt.Errorf("processo: scan: %w", err)
		}
		processos = append(processos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("processo: iterate: %w", err)
	}
	return processos, nil
}

func scanProcesso(row pgx.Row) (Processo, error) {
	var p Processo
	err := row.Scan(
		&p.Numero,
		&p.Descricao,
		&p.Status,
		&p.DataPrescricao,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return Processo{}, err
	}
	return p, nil
}
