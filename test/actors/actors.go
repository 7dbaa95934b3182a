package actors

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"prazoflow/movimentacao"
	"prazoflow/recent"
)

var tipos = []string{"penhora", "Penhora", "julgamento", "citacao", "sentenca"}

// Viewer repeatedly views random cases through the recency tracker, racing
// other viewers of the same user over the bounded list.
func Viewer(ctx context.Context, recents *recent.Service, userID uuid.UUID, numeros []int64, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		numero := numeros[rand.Intn(len(numeros))]
		if _, err := recents.RecordView(ctx, userID, numero); err != nil {
			// The tracker retries a serialization loss once; under sustained
			// contention the second loss surfaces and the next view re-establishes
			// the invariant.
			if errors.Is(err, recent.ErrConcurrentModification) {
				continue
			}
			return fmt.Errorf("viewer: %w", err)
		}
		time.Sleep(time.Duration(1+rand.Intn(5)) * time.Millisecond)
	}
}

// Escrivao appends events against random cases, a share of them penhoras, so
// deadline recalculation races the viewers.
func Escrivao(ctx context.Context, movs *movimentacao.Service, numeros []int64, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}

		numero := numeros[rand.Intn(len(numeros))]
		data := time.Date(2015+rand.Intn(10), time.Month(1+rand.Intn(12)), 1+rand.Intn(28), 0, 0, 0, 0, time.UTC)
		if _, err := movs.Create(ctx, movimentacao.CreateParams{
			ProcessoNumero: numero,
			Tipo:           tipos[rand.Intn(len(tipos))],
			Data:           data,
		}); err != nil {
			return fmt.Errorf("escrivao: %w", err)
		}
		time.Sleep(time.Duration(5+rand.Intn(15)) * time.Millisecond)
	}
}
