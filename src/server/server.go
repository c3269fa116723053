package server

import (
	"context"
	"io"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lost-woods/cards/src/api"
	"github.com/lost-woods/cards/src/config"
	"github.com/lost-woods/cards/src/rng"
	"github.com/lost-woods/cards/src/store"
)

type Server struct {
	port   string
	router *gin.Engine
	cancel context.CancelFunc
}

func New(cfg *config.Config, r io.Reader, h *rng.Health, log *zap.SugaredLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// Background health monitoring (best-effort)
	ctx, cancel := context.WithCancel(context.Background())
	go rng.PeriodicHealthCheck(ctx, r, h, cfg.HealthInterval)

	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowHeaders:     []string{"X-API-KEY", "Accept", "Content-Type"},
		AllowAllOrigins:  true,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(api.CheckHeader("X-API-KEY", cfg.APIKey))

	decks := store.New(cfg.MaxDecks, api.NewDeckID(r))
	Routes(router, api.NewHandlers(r, h, decks, log))

	return &Server{port: cfg.Port, router: router, cancel: cancel}
}

// Routes registers every endpoint on router.
func Routes(router gin.IRouter, handlers *api.Handlers) {
	router.GET("/cards", handlers.RandomCards)
	router.POST("/cards", handlers.CreateCard)
	router.GET("/cards/parse", handlers.ParseCard)

	router.GET("/decks", handlers.ListDecks)
	router.POST("/decks", handlers.CreateDeck)
	router.GET("/decks/:id", handlers.GetDeck)
	router.DELETE("/decks/:id", handlers.DeleteDeck)
	router.POST("/decks/:id/draw", handlers.DrawCards)
	router.POST("/decks/:id/restart", handlers.RestartDeck)
	router.POST("/decks/:id/shuffle", handlers.ShuffleDeck)
	router.POST("/decks/:id/sort", handlers.SortDeck)
	router.POST("/decks/:id/cards", handlers.AddCards)

	router.GET("/health", handlers.Health)
}

func (s *Server) RunOrDie() {
	defer s.cancel()
	if err := s.router.Run(":" + s.port); err != nil {
		panic(err)
	}
}
