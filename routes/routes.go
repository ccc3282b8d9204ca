package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/matchdayhq/fixture-engine/handlers"
)

func SetupRoutes(
	router *chi.Mux,
	fixtureHandler *handlers.FixtureHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/tournaments/{tournamentID}", func(r chi.Router) {
		r.Get("/fixture", fixtureHandler.ListFixtureHandler)
		r.Post("/fixture", fixtureHandler.RegenerateFixtureHandler)
		r.Get("/standings", fixtureHandler.StandingsHandler)
		r.Post("/groups/reconcile", fixtureHandler.ReconcileGroupsHandler)
		r.Post("/playoffs/seed", fixtureHandler.SeedPlayoffsHandler)
		r.Post("/playoffs/propagate", fixtureHandler.PropagateWinnersHandler)
	})

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Get("/", matchHandler.GetMatchHandler)
		r.Post("/start", matchHandler.StartMatchHandler)
		r.Post("/pause", matchHandler.PauseMatchHandler)
		r.Post("/resume", matchHandler.ResumeMatchHandler)
		r.Post("/end-period", matchHandler.EndPeriodHandler)
		r.Post("/golden-point", matchHandler.GoldenPointHandler)
		r.Post("/finish", matchHandler.FinishMatchHandler)
		r.Post("/cancel", matchHandler.CancelMatchHandler)
		r.Post("/goals", matchHandler.RecordGoalHandler)
		r.Post("/fouls", matchHandler.RecordFoulHandler)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
