package routes

import (
	"github.com/Stieges/hallenfussball-server/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/tournaments", func(r chi.Router) {
		r.Post("/", tournamentHandler.CreateHandler)
		r.Get("/", tournamentHandler.ListHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetByIDHandler)
			r.Delete("/", tournamentHandler.DeleteHandler)
			r.Get("/schedule", tournamentHandler.GetScheduleHandler)
			r.Get("/standings", tournamentHandler.GetStandingsHandler)
			r.Post("/resolve", tournamentHandler.ResolveHandler)

			r.Put("/matches/{matchID}/score", matchHandler.UpdateScoreHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
