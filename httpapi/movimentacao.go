package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"prazoflow/movimentacao"
)

// handleCreateMovimentacao handles POST /movimentacao. Creating a penhora
// event recomputes the owning case's deadline in the same transaction.
func (s *Server) handleCreateMovimentacao(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProcessoNumero int64  `json:"processoId"`
		Tipo           string `json:"tipo"`
		Data           string `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	data, err := time.Parse(dateLayout, req.Data)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "data must be formatted as YYYY-MM-DD")
		return
	}

	m, err := s.movs.Create(r.Context(), movimentacao.CreateParams{
		ProcessoNumero: req.ProcessoNumero,
		Tipo:           req.Tipo,
		Data:           data,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"movimentacao": toMovimentacaoDTO(m)})
}

// handleUpdateMovimentacao handles PUT /movimentacao/{id}. Only tipo may
// change; the deadline interceptor does not fire on updates.
func (s *Server) handleUpdateMovimentacao(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	var req struct {
		Tipo string `json:"tipo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	m, err := s.movs.UpdateTipo(r.Context(), id, req.Tipo)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"movimentacao": toMovimentacaoDTO(m)})
}

// handleListMovimentacoes handles GET /processo/{numero}/movimentacao.
func (s *Server) handleListMovimentacoes(w http.ResponseWriter, r *http.Request) {
	numero, err := strconv.ParseInt(r.PathValue("numero"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "numero must be an integer")
		return
	}

	movs, err := s.movs.ListByProcesso(r.Context(), numero)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	dtos := make([]movimentacaoDTO, 0, len(movs))
	for _, m := range movs {
		dtos = append(dtos, toMovimentacaoDTO(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"movimentacoes": dtos})
}
