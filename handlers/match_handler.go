package handlers

import (
	"context"
	"net/http"

	"github.com/matchdayhq/fixture-engine/models"
	"github.com/matchdayhq/fixture-engine/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) GetMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Get(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) StartMatchHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleAction(w, r, h.matchService.Start)
}

func (h *MatchHandler) PauseMatchHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleAction(w, r, h.matchService.Pause)
}

func (h *MatchHandler) ResumeMatchHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleAction(w, r, h.matchService.Resume)
}

func (h *MatchHandler) EndPeriodHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleAction(w, r, h.matchService.EndPeriod)
}

func (h *MatchHandler) GoldenPointHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleAction(w, r, h.matchService.EnableGoldenPoint)
}

func (h *MatchHandler) FinishMatchHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleAction(w, r, h.matchService.Finish)
}

func (h *MatchHandler) CancelMatchHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleAction(w, r, h.matchService.Cancel)
}

func (h *MatchHandler) RecordGoalHandler(w http.ResponseWriter, r *http.Request) {
	h.statAction(w, r, h.matchService.RecordGoal)
}

func (h *MatchHandler) RecordFoulHandler(w http.ResponseWriter, r *http.Request) {
	h.statAction(w, r, h.matchService.RecordFoul)
}

func (h *MatchHandler) lifecycleAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, matchID int) (*models.Match, error),
) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := action(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) statAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, matchID, teamID int) (*models.Match, error),
) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TeamID int `json:"team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := action(r.Context(), matchID, input.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
