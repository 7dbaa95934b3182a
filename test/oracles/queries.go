package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_recency_bound",
			SQL: `SELECT usuario_id, COUNT(*) FROM usuario_processos
                  GROUP BY usuario_id HAVING COUNT(*) > 10`,
		},
		{
			Name: "O2_deadline_from_penhora",
			SQL: `SELECT p.numero, p.data_prescricao FROM processos p
                  WHERE p.data_prescricao IS NOT NULL
                    AND NOT EXISTS (
                        SELECT 1 FROM movimentacoes m
                        WHERE m.processo_numero = p.numero
                          AND lower(m.tipo) = 'penhora'
                          AND p.data_prescricao = (m.data + interval '6 years')::date)`,
		},
		{
			Name: "O3_penhora_implies_deadline",
			SQL: `SELECT p.numero FROM processos p
                  WHERE p.data_prescricao IS NULL
                    AND EXISTS (
                        SELECT 1 FROM movimentacoes m
                        WHERE m.processo_numero = p.numero
                          AND lower(m.tipo) = 'penhora')`,
		},
		{
			Name: "O4_view_pair_unique_guard",
			SQL: `SELECT 'missing_unique_pair_constraint' AS detail
                  WHERE NOT EXISTS (
                      SELECT 1 FROM pg_constraint
                      WHERE conname = 'usuario_processos_usuario_id_processo_numero_key')`,
		},
	}
}

// Run executes all oracles and returns the first failure (name and sample row text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
	}
	return "", "", nil
}
