package test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"prazoflow/movimentacao"
	"prazoflow/processo"
	"prazoflow/recent"
	"prazoflow/test/actors"
	"prazoflow/test/infra"
	"prazoflow/test/oracles"
)

var (
	flDuration    = flag.Duration("duration", 30*time.Second, "how long to run stress")
	flConcurrency = flag.Int("concurrency", 8, "number of concurrent viewers per user")
	flSeed        = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flDSN         = flag.String("dsn", "", "existing Postgres DSN to reuse (avoids Docker)")
)

// TestRecencyAndDeadlineConcurrency hammers the recency tracker and the
// deadline recalculator from many goroutines and checks the invariants with
// SQL oracles while the actors run.
func TestRecencyAndDeadlineConcurrency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}
	flag.Parse()
	seed := *flSeed
	rand.Seed(seed)

	var (
		pgC *infra.PGContainer
		dsn string
		err error
	)
	ctx, cancel := context.WithTimeout(context.Background(), *flDuration+60*time.Second)
	defer cancel()

	switch {
	case *flDSN != "":
		dsn = *flDSN
		pgC = &infra.PGContainer{}
	case os.Getenv("PRAZOFLOW_TEST_PG_DSN") != "":
		dsn = os.Getenv("PRAZOFLOW_TEST_PG_DSN")
		pgC = &infra.PGContainer{}
	default:
		if dockerAvailable(ctx) {
			pgC, dsn, err = infra.StartPostgres16(ctx, "")
			if err != nil {
				t.Fatalf("start postgres: %v", err)
			}
		} else {
			dsn, err = infra.InitLocalDatabase(ctx)
			if err != nil {
				t.Fatalf("init local database: %v", err)
			}
			pgC = &infra.PGContainer{}
		}
	}
	defer pgC.Terminate(context.Background())

	pool, err := infra.SetupPool(ctx, dsn)
	if err != nil {
		t.Fatalf("setup pool: %v", err)
	}
	defer pool.Close()

	userIDs, numeros := mustSeed(t, ctx, pool)

	processoService := processo.NewService(processo.NewRepository(pool))
	movService := movimentacao.NewService(pool, movimentacao.NewRepository(pool))
	recentService := recent.NewService(pool, recent.NewRepository(pool), processoService)

	g, ctx2 := errgroup.WithContext(ctx)
	stop := make(chan struct{})

	// several viewers race over each user's bounded list
	for _, userID := range userIDs {
		for i := 0; i < *flConcurrency; i++ {
			g.Go(func() error {
				return actors.Viewer(ctx2, recentService, userID, numeros, stop)
			})
		}
	}
	// event writers race deadline recalculation against the viewers
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			return actors.Escrivao(ctx2, movService, numeros, stop)
		})
	}

	deadline := time.Now().Add(*flDuration)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	var failed bool
loop:
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			name, row, err := oracles.Run(ctx2, pool)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					break loop
				}
				t.Fatalf("oracle error: %v", err)
			}
			if name != "" {
				failed = true
				t.Fatalf("Oracle %s failed. First row: %s (seed=%d)", name, row, seed)
			}
		}
	}

	close(stop)
	if err := g.Wait(); err != nil && !failed {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("actors errored: %v", err)
		}
	}

	// final check after everything settled
	if name, row, err := oracles.Run(context.Background(), pool); err != nil {
		t.Fatalf("final oracle error: %v", err)
	} else if name != "" {
		t.Fatalf("final oracle %s failed: %s (seed=%d)", name, row, seed)
	}
}

func dockerAvailable(ctx context.Context) bool {
	if _, err := exec.LookPath("docker"); err != nil {
		return false
	}
	c := exec.CommandContext(ctx, "docker", "info")
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return c.Run() == nil
}

func mustSeed(t *testing.T, ctx context.Context, pool *pgxpool.Pool) ([]uuid.UUID, []int64) {
	t.Helper()

	userIDs := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		var id uuid.UUID
		if err := pool.QueryRow(ctx,
			`INSERT INTO usuarios (nome, email, senha_hash) VALUES ($1, $2, 'x') RETURNING id`,
			fmt.Sprintf("Stress User %d", i),
			fmt.Sprintf("stress%d-%d@example.com", i, rand.Int63()),
		).Scan(&id); err != nil {
			t.Fatalf("seed usuario: %v", err)
		}
		userIDs = append(userIDs, id)
	}

	numeros := make([]int64, 0, 30)
	base := rand.Int63n(1_000_000) * 1000
	for i := int64(1); i <= 30; i++ {
		numero := base + i
		if _, err := pool.Exec(ctx,
			`INSERT INTO processos (numero, descricao) VALUES ($1, $2)`,
			numero, fmt.Sprintf("stress processo %d", numero),
		); err != nil {
			t.Fatalf("seed processo: %v", err)
		}
		numeros = append(numeros, numero)
	}

	return userIDs, numeros
}
