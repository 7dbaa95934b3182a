package recent

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"prazoflow/processo"
)

// TestRecencyTracker_Integration connects to a real PostgreSQL via DATABASE_URL
// and verifies upsert, eviction and listing against the actual schema.
func TestRecencyTracker_Integration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL is empty; set it to a live PostgreSQL to run integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect pool: %v", err)
	}
	defer pool.Close()

	if !tableExists(ctx, t, pool, "usuarios") || !tableExists(ctx, t, pool, "usuario_processos") {
		t.Skip("database schema missing; apply migrations first")
	}

	var userID uuid.UUID
	if err := pool.QueryRow(ctx,
		`INSERT INTO usuarios (nome, email, senha_hash) VALUES ('Recency Tester', $1, 'x') RETURNING id`,
		fmt.Sprintf("recency+%d@example.com", time.Now().UnixNano()),
	).Scan(&userID); err != nil {
		t.Fatalf("seed usuario: %v", err)
	}

	base := rand.Int63n(1_000_000_000) + 1_000_000
	numeros := make([]int64, 0, 12)
	for i := int64(0); i < 12; i++ {
		numero := base + i
		if _, err := pool.Exec(ctx, `INSERT INTO processos (numero, descricao) VALUES ($1, 'recency case')`, numero); err != nil {
			t.Fatalf("seed processo: %v", err)
		}
		numeros = append(numeros, numero)
	}

	t.Cleanup(func() {
		ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel2()
		_, _ = pool.Exec(ctx2, `DELETE FROM usuarios WHERE id = $1`, userID)
		_, _ = pool.Exec(ctx2, `DELETE FROM processos WHERE numero >= $1 AND numero <= $2`, base, base+11)
	})

	processoService := processo.NewService(processo.NewRepository(pool))
	svc := NewService(pool, NewRepository(pool), processoService)

	// view 11 distinct cases: the first one must be evicted
	for _, numero := range numeros[:11] {
		if _, err := svc.RecordView(ctx, userID, numero); err != nil {
			t.Fatalf("record view %d: %v", numero, err)
		}
	}

	list, err := svc.ListRecent(ctx, userID)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(list) != MaxRecent {
		t.Fatalf("expected %d cases, got %d", MaxRecent, len(list))
	}
	for i := 0; i < MaxRecent; i++ {
		want := numeros[10-i]
		if list[i].Numero != want {
			t.Fatalf("rank %d: expected processo %d got %d", i, want, list[i].Numero)
		}
	}

	// repeat view promotes without growing the list
	if _, err := svc.RecordView(ctx, userID, numeros[5]); err != nil {
		t.Fatalf("repeat view: %v", err)
	}
	list, err = svc.ListRecent(ctx, userID)
	if err != nil {
		t.Fatalf("list recent after repeat: %v", err)
	}
	if len(list) != MaxRecent {
		t.Fatalf("expected %d cases after repeat view, got %d", MaxRecent, len(list))
	}
	if list[0].Numero != numeros[5] {
		t.Fatalf("expected promoted processo %d at rank 1, got %d", numeros[5], list[0].Numero)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM usuario_processos WHERE usuario_id = $1`, userID).Scan(&count); err != nil {
		t.Fatalf("count views: %v", err)
	}
	if count != MaxRecent {
		t.Fatalf("expected %d stored view records, got %d", MaxRecent, count)
	}

	// a view of a now-deleted case is omitted from the listing
	if _, err := pool.Exec(ctx, `DELETE FROM processos WHERE numero = $1`, numeros[5]); err != nil {
		t.Fatalf("delete processo: %v", err)
	}
	list, err = svc.ListRecent(ctx, userID)
	if err != nil {
		t.Fatalf("list recent after delete: %v", err)
	}
	for _, p := range list {
		if p.Numero == numeros[5] {
			t.Fatal("deleted case must be omitted from the recency list")
		}
	}

	// unknown user is a reference failure
	if _, err := svc.RecordView(ctx, uuid.New(), numeros[1]); !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
}

func tableExists(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string) bool {
	t.Helper()
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = '%s')", name)
	if err := pool.QueryRow(ctx, query).Scan(&exists); err != nil {
		t.Fatalf("check table %s: %v", name, err)
	}
	return exists
}
