package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/connect4-backend/internal/repository"
)

type statsResponse struct {
	ActiveSessions int `json:"active_sessions"`
}

// getGame - live snapshot of an active session.
func (that *Server) getGame(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	log := that.logger.With("method", "getGame", "gameID", id)

	game, err := that.games.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrGameNotFound) {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to get game", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, game)
}

func (that *Server) getStats(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, statsResponse{ActiveSessions: that.sessions.ActiveSessions()})
}

func (that *Server) writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
