package api

import (
	"net/http"

	"github.com/dom/draft-queue/internal/api/handlers"
	"github.com/dom/draft-queue/internal/api/middleware"
	"github.com/dom/draft-queue/internal/domain"
	"github.com/dom/draft-queue/internal/service"
	"github.com/dom/draft-queue/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *websocket.Hub) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	sessionHandler := handlers.NewSessionHandler(services.Draft)
	statsHandler := handlers.NewStatsHandler(services.Stats)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Stats are public
		r.Route("/stats", func(r chi.Router) {
			r.Get("/leaderboard", statsHandler.Leaderboard)
			r.Get("/players/{id}", statsHandler.Player)
			r.Get("/sessions/{id}", statsHandler.Session)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessionHandler.List)
				r.Post("/", sessionHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", sessionHandler.Get)

					// Queue
					r.Post("/join", sessionHandler.Command(domain.CmdJoin))
					r.Post("/leave", sessionHandler.Command(domain.CmdLeave))
					r.Post("/reping", sessionHandler.Command(domain.CmdReping))
					r.Post("/start-early", sessionHandler.Command(domain.CmdStartEarly))

					// Subs
					r.Post("/sub-out", sessionHandler.Command(domain.CmdSubOut))
					r.Post("/sub-in", sessionHandler.Command(domain.CmdSubIn))
					r.Post("/force-sub", sessionHandler.Command(domain.CmdForceSub))

					// Team selection
					r.Post("/captains", sessionHandler.Command(domain.CmdAssignCaptains))
					r.Post("/reassign-captain", sessionHandler.Command(domain.CmdReassignCaptain))
					r.Post("/teams/{team}/players", sessionHandler.Command(domain.CmdAddToTeam))
					r.Post("/reset-teams", sessionHandler.Command(domain.CmdResetTeams))
					r.Post("/start", sessionHandler.Command(domain.CmdStartMatch))

					// Match play
					r.Post("/teams/{team}/score", sessionHandler.Command(domain.CmdAdjustScore))
					r.Post("/end", sessionHandler.Command(domain.CmdRequestEnd))
					r.Post("/force-end", sessionHandler.Command(domain.CmdForceEnd))
				})
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
