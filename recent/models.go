package recent

import (
	"time"

	"github.com/google/uuid"
)

// MaxRecent is the retention limit: a user keeps at most this many view
// records, the most recently viewed ones.
const MaxRecent = 10

// View marks the last time a user looked at a case. At most one record exists
// per (usuario, processo) pair; ID grows with insertion order and breaks
// ranking ties between equal timestamps.
type View struct {
	ID             int64
	UsuarioID      uuid.UUID
	ProcessoNumero int64
	ViewedAt       time.Time
}
