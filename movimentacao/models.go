package movimentacao

import "time"

// TipoPenhora is the event kind that triggers deadline recalculation.
// Matching is case-insensitive.
const TipoPenhora = "penhora"

// Movimentacao is a timestamped occurrence recorded against a case.
type Movimentacao struct {
	ID             int64
	ProcessoNumero int64
	Tipo           string
	Data           time.Time
	CreatedAt      time.Time
}

// CreateParams enumerates the fields required to record a new event.
type CreateParams struct {
	ProcessoNumero int64
	Tipo           string
	Data           time.Time
}
