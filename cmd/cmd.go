package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"table-for-two-backend/internal/config"
	"table-for-two-backend/internal/handlers"
	"table-for-two-backend/internal/middleware"
	"table-for-two-backend/internal/repository"
	"table-for-two-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	if err := repository.CreateSchema(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to create schema")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	pairRepo := repository.NewPairRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Initialize services
	eventService := services.NewEventService(eventRepo)
	userService := services.NewUserService(userRepo, cfg.JWT.Secret)
	pairService := services.NewPairService(pairRepo, userRepo, eventService)
	restaurantService := services.NewRestaurantService(restaurantRepo, pairRepo, eventService)
	voteService := services.NewVoteService(voteRepo, restaurantRepo, pairRepo, eventService)
	summaryService := services.NewSummaryService(pairRepo, restaurantRepo, voteRepo, userService, eventService)
	wsHub := services.NewWSHub()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	pairHandler := handlers.NewPairHandler(pairService, wsHub)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, pairService, wsHub)
	voteHandler := handlers.NewVoteHandler(voteService, wsHub)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, userService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.CreateUser)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))
			r.Post("/pairs", pairHandler.CreatePair)
			r.Post("/pairs/join", pairHandler.JoinPair)
			r.Post("/pairs/leave", pairHandler.LeavePair)
			r.Delete("/pairs", pairHandler.DissolvePair)
			r.Get("/pairs/{pair_id}/summary", summaryHandler.GetPairSummary)
			r.Post("/pairs/{pair_id}/decide", summaryHandler.Decide)
			r.Post("/restaurants", restaurantHandler.AddRestaurant)
			r.Post("/votes", voteHandler.CastVote)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
