package handlers

import (
	"net/http"

	"github.com/matchdayhq/fixture-engine/services"
)

type FixtureHandler struct {
	fixtureService     services.FixtureService
	advancementService services.AdvancementService
	groupResolver      services.GroupResolver
}

func NewFixtureHandler(
	fixtureService services.FixtureService,
	advancementService services.AdvancementService,
	groupResolver services.GroupResolver,
) *FixtureHandler {
	return &FixtureHandler{
		fixtureService:     fixtureService,
		advancementService: advancementService,
		groupResolver:      groupResolver,
	}
}

// RegenerateFixtureHandler rebuilds the complete match schedule for a
// tournament. Destructive: every existing match of the tournament is
// replaced.
func (h *FixtureHandler) RegenerateFixtureHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.fixtureService.Regenerate(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FixtureHandler) ListFixtureHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.fixtureService.ListFixture(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FixtureHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.advancementService.Standings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FixtureHandler) SeedPlayoffsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	seeded, err := h.advancementService.SeedPlayoffs(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"seeded": seeded}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FixtureHandler) PropagateWinnersHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	filled, err := h.advancementService.PropagateWinners(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"slots_filled": filled}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReconcileGroupsHandler runs the legacy-label repair on demand, outside
// fixture generation.
func (h *FixtureHandler) ReconcileGroupsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	repaired, err := h.groupResolver.ReconcileLegacyLabels(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams_repaired": repaired}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
