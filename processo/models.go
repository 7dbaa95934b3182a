package processo

import "time"

// Status represents the lifecycle of a case record.
type Status string

const (
	StatusAtivo     Status = "ativo"
	StatusArquivado Status = "arquivado"
)

// Processo mirrors the processos table. DataPrescricao is the statute-of-
// limitations date; it is nil until a penhora event sets it and is only ever
// written through the deadline recalculation rule.
type Processo struct {
	Numero         int64
	Descricao      string
	Status         Status
	DataPrescricao *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateParams enumerates the fields required to register a new case.
type CreateParams struct {
	Numero    int64
	Descricao string
	Status    Status
}
