package handlers

import (
	"errors"
	"net/http"

	"github.com/Stieges/hallenfussball-server/services"
	"github.com/go-chi/chi/v5"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// UpdateScoreHandler handles PUT /tournaments/{tournamentID}/matches/{matchID}/score.
// Sending both scores records a result, sending neither clears it. When the
// score completes the group phase, dependent bracket matches are resolved in
// the same request.
func (h *MatchHandler) UpdateScoreHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID := chi.URLParam(r, "matchID")
	if matchID == "" {
		badRequestResponse(w, r, errors.New("missing matchID URL parameter"))
		return
	}

	var input services.UpdateScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, result, err := h.matchService.UpdateScore(r.Context(), tournamentID, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	payload := jsonResponse{"tournament": tournament}
	if result != nil {
		payload["resolution"] = result
	}
	if err := writeJSON(w, http.StatusOK, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
