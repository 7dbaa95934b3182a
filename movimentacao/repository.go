package movimentacao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals the requested event does not exist.
	ErrNotFound = errors.New("movimentacao: not found")
	// ErrProcessoNotFound signals the referenced case does not exist.
	ErrProcessoNotFound = errors.New("movimentacao: processo not found")
)

// Repository defines the data access required by the service. Writes that
// participate in the event-creation transaction take an explicit pgx.Tx.
type Repository interface {
	Insert(ctx context.Context, tx pgx.Tx, params CreateParams) (Movimentacao, error)
	SetProcessoDeadline(ctx context.Context, tx pgx.Tx, numero int64, deadline time.Time) error
	UpdateTipo(ctx context.Context, id int64, tipo string) (Movimentacao, error)
	ListByProcesso(ctx context.Context, numero int64) ([]Movimentacao, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed event repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Insert appends a new event inside the active transaction.
func (r *PGRepository) Insert(ctx context.Context, tx pgx.Tx, params CreateParams) (Movimentacao, error) {
	const insertSQL = `
		INSERT INTO movimentacoes (processo_numero, tipo, data)
		VALUES ($1, $2, $3)
		RETURNING id, processo_numero, tipo, data, created_at
	`

	m, err := scanMovimentacao(tx.QueryRow(ctx, insertSQL, params.ProcessoNumero, params.Tipo, params.Data))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Movimentacao{}, ErrProcessoNotFound
		}
		return Movimentacao{}, fmt.Errorf("movimentacao: insert: %w", err)
	}

	return m, nil
}

// SetProcessoDeadline overwrites the case deadline inside the active
// transaction. The previous value, earlier or later, is discarded.
func (r *PGRepository) SetProcessoDeadline(ctx context.Context, tx pgx.Tx, numero int64, deadline time.Time) error {
	const updateSQL = `
		UPDATE processos
		SET data_prescricao = $2, updated_at = now()
		WHERE numero = $1
	`

	tag, err := tx.Exec(ctx, updateSQL, numero, deadline)
	if err != nil {
		return fmt.Errorf("movimentacao: set deadline: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProcessoNotFound
	}
	return nil
}

// UpdateTipo rewrites the kind of an existing event. The deadline interceptor
// fires only on creation, so no recalculation happens here.
func (r *PGRepository) UpdateTipo(ctx context.Context, id int64, tipo string) (Movimentacao, error) {
	const updateSQL = `
		UPDATE movimentacoes
		SET tipo = $2
		WHERE id = $1
		RETURNING id, processo_numero, tipo, data, created_at
	`

	m, err := scanMovimentacao(r.pool.QueryRow(ctx, updateSQL, id, tipo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Movimentacao{}, ErrNotFound
		}
		return Movimentacao{}, fmt.Errorf("movimentacao: update tipo: %w", err)
	}

	return m, nil
}

// ListByProcesso returns the events of a case, newest occurrence first.
func (r *PGRepository) ListByProcesso(ctx context.Context, numero int64) ([]Movimentacao, error) {
	const query = `
		SELECT id, processo_numero, tipo, data, created_at
		FROM movimentacoes
		WHERE processo_numero = $1
		ORDER BY data DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, numero)
	if err != nil {
		return nil, fmt.Errorf("movimentacao: list: %w", err)
	}
	defer rows.Close()

	movs := make([]Movimentacao, 0, 8)
	for rows.Next() {
		m, err := scanMovimentacao(rows)
		if err != nil {
			return nil, fmt.Errorf("movimentacao: scan: %w", err)
		}
		movs = append(movs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("movimentacao: iterate: %w", err)
	}
	return movs, nil
}

func scanMovimentacao(row pgx.Row) (Movimentacao, error) {
	var m Movimentacao
	err := row.Scan(
		&m.ID,
		&m.ProcessoNumero,
		&m.Tipo,
		&m.Data,
		&m.CreatedAt,
	)
	if err != nil {
		return Movimentacao{}, err
	}
	return m, nil
}
