package httpapi

import (
	"encoding/json"
	"net/http"

	"prazoflow/auth"
)

// handleRegister handles POST /usuario.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := s.auth.Register(r.Context(), req); err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// handleListUsuarios handles GET /usuario.
func (s *Server) handleListUsuarios(w http.ResponseWriter, r *http.Request) {
	usuarios, err := s.auth.ListUsuarios(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	dtos := make([]usuarioDTO, 0, len(usuarios))
	for _, u := range usuarios {
		dtos = append(dtos, toUsuarioDTO(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{"usuarios": dtos})
}

// handleLogin handles POST /login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.auth.Login(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": result.Token})
}
