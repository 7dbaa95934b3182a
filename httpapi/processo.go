package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"prazoflow/processo"
)

// handleListProcessos handles GET /processo. Cases are returned ordered by
// deadline, soonest first.
func (s *Server) handleListProcessos(w http.ResponseWriter, r *http.Request) {
	processos, err := s.processos.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"processos": toProcessoDTOs(processos)})
}

// handleCreateProcesso handles POST /processo.
func (s *Server) handleCreateProcesso(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Numero    int64  `json:"numero"`
		Descricao string `json:"descricao"`
		Status    string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Numero <= 0 {
		writeMessage(w, http.StatusBadRequest, "numero must be positive")
		return
	}

	p, err := s.processos.Create(r.Context(), processo.CreateParams{
		Numero:    req.Numero,
		Descricao: req.Descricao,
		Status:    processo.Status(req.Status),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"processo": toProcessoDTO(p)})
}

// handleGetProcesso handles GET /processo/{numero}. A successful retrieval
// records the view and re-establishes the bounded recency list before the
// response is written.
func (s *Server) handleGetProcesso(w http.ResponseWriter, r *http.Request) {
	numero, err := strconv.ParseInt(r.PathValue("numero"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "numero must be an integer")
		return
	}

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	p, err := s.processos.GetByNumero(r.Context(), numero)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	if _, err := s.recents.RecordView(r.Context(), userID, numero); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"processo": toProcessoDTO(p)})
}

// handleListRecent handles GET /me/processo.
func (s *Server) handleListRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	processos, err := s.recents.ListRecent(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"processos": toProcessoDTOs(processos)})
}
