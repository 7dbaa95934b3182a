package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"prazoflow/auth"
	"prazoflow/movimentacao"
	"prazoflow/processo"
	"prazoflow/recent"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeDomainError maps domain sentinels onto HTTP statuses. Anything
// unrecognized is a 500 and gets logged by the caller.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrDuplicateEmail):
		writeMessage(w, http.StatusConflict, "User already exists")
	case errors.Is(err, auth.ErrWeakPassword):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, processo.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Process not found")
	case errors.Is(err, processo.ErrDuplicateNumero):
		writeMessage(w, http.StatusConflict, "Process already exists")
	case errors.Is(err, movimentacao.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, movimentacao.ErrProcessoNotFound):
		writeMessage(w, http.StatusNotFound, "Process not found")
	case errors.Is(err, recent.ErrReferenceNotFound):
		// covers a missing case or a missing user, keep the message neutral
		writeMessage(w, http.StatusNotFound, "Reference not found")
	case errors.Is(err, auth.ErrUsuarioNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	default:
		s.log.Error("internal error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
