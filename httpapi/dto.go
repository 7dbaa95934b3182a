package httpapi

import (
	"time"

	"prazoflow/auth"
	"prazoflow/movimentacao"
	"prazoflow/processo"
)

const dateLayout = "2006-01-02"

type usuarioDTO struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUsuarioDTO(u auth.Usuario) usuarioDTO {
	return usuarioDTO{
		ID:        u.ID.String(),
		Nome:      u.Nome,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

type processoDTO struct {
	Numero         int64     `json:"numero"`
	Descricao      string    `json:"descricao"`
	Status         string    `json:"status"`
	DataPrescricao *string   `json:"dataPrescricao"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toProcessoDTO(p processo.Processo) processoDTO {
	dto := processoDTO{
		Numero:    p.Numero,
		Descricao: p.Descricao,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
	if p.DataPrescricao != nil {
		d := p.DataPrescricao.Format(dateLayout)
		dto.DataPrescricao = &d
	}
	return dto
}

func toProcessoDTOs(processos []processo.Processo) []processoDTO {
	out := make([]processoDTO, 0, len(processos))
	for _, p := range processos {
		out = append(out, toProcessoDTO(p))
	}
	return out
}

type movimentacaoDTO struct {
	ID             int64  `json:"id"`
	ProcessoNumero int64  `json:"processoId"`
	Tipo           string `json:"tipo"`
	Data           string `json:"data"`
}

func toMovimentacaoDTO(m movimentacao.Movimentacao) movimentacaoDTO {
	return movimentacaoDTO{
		ID:             m.ID,
		ProcessoNumero: m.ProcessoNumero,
		Tipo:           m.Tipo,
		Data:           m.Data.Format(dateLayout),
	}
}
