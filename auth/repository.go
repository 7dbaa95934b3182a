package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrUsuarioNotFound signals that the user does not exist.
	ErrUsuarioNotFound = errors.New("auth: usuario not found")
	// ErrDuplicateEmail signals that the email is already registered.
	ErrDuplicateEmail = errors.New("auth: email already exists")
)

// Repository handles data access for accounts.
type Repository interface {
	CreateUsuario(ctx context.Context, params CreateUsuarioParams) (Usuario, error)
	GetUsuarioByEmail(ctx context.Context, email string) (Usuario, error)
	GetUsuarioByID(ctx context.Context, id uuid.UUID) (Usuario, error)
	ListUsuarios(ctx context.Context) ([]Usuario, error)
}

// CreateUsuarioParams contains write parameters for creating accounts.
type CreateUsuarioParams struct {
	Nome      string
	Email     string
	SenhaHash string
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed account repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// CreateUsuario inserts a new account with hashed password.
func (r *PGRepository) CreateUsuario(ctx context.Context, params CreateUsuarioParams) (Usuario, error) {
	const insertSQL = `
		INSERT INTO usuarios (nome, email, senha_hash)
		VALUES ($1, $2, $3)
		RETURNING id, nome, email, senha_hash, created_at, updated_at
	`

	usuario, err := scanUsuario(r.pool.QueryRow(ctx, insertSQL, params.Nome, params.Email, params.SenhaHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Usuario{}, ErrDuplicateEmail
		}
		return Usuario{}, fmt.Errorf("auth: create usuario: %w", err)
	}

	return usuario, nil
}

// GetUsuarioByEmail retrieves an account by email address.
func (r *PGRepository) GetUsuarioByEmail(ctx context.Context, email string) (Usuario, error) {
	const selectSQL = `
		SELECT id, nome, email, senha_hash, created_at, updated_at
		FROM usuarios
		WHERE lower(email) = lower($1)
	`

	usuario, err := scanUsuario(r.pool.QueryRow(ctx, selectSQL, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Usuario{}, ErrUsuarioNotFound
		}
		return Usuario{}, fmt.Errorf("auth: get usuario by email: %w", err)
	}

	return usuario, nil
}

// GetUsuarioByID retrieves an account by ID.
func (r *PGRepository) GetUsuarioByID(ctx context.Context, id uuid.UUID) (Usuario, error) {
	const selectSQL = `
		SELECT id, nome, email, senha_hash, created_at, updated_at
		FROM usuarios
		WHERE id = $1
	`

	usuario, err := scanUsuario(r.pool.QueryRow(ctx, selectSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Usuario{}, ErrUsuarioNotFound
		}
		return Usuario{}, fmt.Errorf("auth: get usuario by id: %w", err)
	}

	return usuario, nil
}

// ListUsuarios returns all accounts ordered by registration time.
func (r *PGRepository) ListUsuarios(ctx context.Context) ([]Usuario, error) {
	const query = `
		SELECT id, nome, email, senha_hash, created_at, updated_at
		FROM usuarios
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("auth: list usuarios: %w", err)
	}
	defer rows.Close()

	usuarios := make([]Usuario, 0, 16)
	for rows.Next() {
		usuario, err := scanUsuario(rows)
		if err != nil {
			return nil, fmt.Errorf("auth: scan usuario: %w", err)
		}
		usuarios = append(usuarios, usuario)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("auth: iterate usuarios: %w", err)
	}
	return usuarios, nil
}

func scanUsuario(row pgx.Row) (Usuario, error) {
	var usuario Usuario
	err := row.Scan(
		&usuario.ID,
		&usuario.Nome,
		&usuario.Email,
		&usuario.SenhaHash,
		&usuario.CreatedAt,
		&usuario.UpdatedAt,
	)
	if err != nil {
		return Usuario{}, err
	}
	return usuario, nil
}
