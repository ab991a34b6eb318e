package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
)

type errorResponse struct {
	Error string `json:"error"`
}

type gamesResponse struct {
	Games []string `json:"games"`
}

func (that *Server) listGames(w http.ResponseWriter, r *http.Request) {
	that.writeJSON(w, http.StatusOK, gamesResponse{
		Games: that.gameService.ListOpenSessions(r.Context()),
	})
}

func (that *Server) getGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	snapshot, err := that.gameService.GetSession(r.Context(), id)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}

	if err != nil {
		that.logger.Error("failed to get game", "sessionID", id, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Server) listResults(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	results, err := that.gameService.ListResults(r.Context(), id)
	if err != nil {
		that.logger.Error("failed to list results", "sessionID", id, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	that.writeJSON(w, http.StatusOK, results)
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
