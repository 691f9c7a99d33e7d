package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/incvoting/voting-api/internal/config"
	"github.com/incvoting/voting-api/internal/handlers"
	"github.com/incvoting/voting-api/internal/live"
	"github.com/incvoting/voting-api/internal/logger"
	"github.com/incvoting/voting-api/internal/media"
	"github.com/incvoting/voting-api/internal/middleware"
	"github.com/incvoting/voting-api/internal/qr"
	"github.com/incvoting/voting-api/internal/services"
	"github.com/incvoting/voting-api/internal/storage/postgres"
)

// Server wires repositories, services, handlers and the live hub behind one
// HTTP listener.
type Server struct {
	httpServer *http.Server
	config     *config.Config
	repos      postgres.RepositoryContainer
	hub        *live.Hub
}

// New creates a server over an already connected repository container.
func New(cfg *config.Config, repos postgres.RepositoryContainer) *Server {
	return &Server{
		config: cfg,
		repos:  repos,
		hub:    live.NewHub(),
	}
}

// Start builds the router, starts the hub, and serves until Stop is called.
func (s *Server) Start() error {
	router, err := s.setupRouter()
	if err != nil {
		return err
	}

	go s.hub.Run()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures middleware, builds the service graph, and mounts
// every route.
func (s *Server) setupRouter() (*gin.Engine, error) {
	if s.config.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(s.config.CORS.AllowOrigins, ",")
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Media stores
	candidateStore, err := media.NewCandidateStore(s.config)
	if err != nil {
		return nil, fmt.Errorf("failed to create candidate media store: %w", err)
	}
	qrStore, err := media.NewQRCodeStore(s.config)
	if err != nil {
		return nil, fmt.Errorf("failed to create qr media store: %w", err)
	}
	qrGen := qr.NewGenerator(s.config.Frontend.URL, qrStore)

	// Services
	authService, err := services.NewAuthService(s.config)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}
	votingService := services.NewVotingService(s.repos.Delegates(), s.repos.Candidates(), s.repos.Votes(), s.hub)
	electionService := services.NewElectionService(s.repos.Positions(), s.repos.Candidates(), candidateStore)
	tallyService := services.NewTallyService(s.repos.Votes())
	delegateService := services.NewDelegateService(s.repos.Delegates(), qrGen)

	// Handlers
	votingHandler := handlers.NewVotingHandler(votingService, electionService, tallyService)
	delegateHandler := handlers.NewDelegateHandler(delegateService)
	candidateHandler := handlers.NewCandidateHandler(electionService, s.config)
	positionHandler := handlers.NewPositionHandler(electionService)
	var optimizer *postgres.QueryOptimizer
	if container, ok := s.repos.(*postgres.Container); ok {
		optimizer = postgres.NewQueryOptimizer(container.DB())
	}
	adminHandler := handlers.NewAdminHandler(authService, votingService, tallyService, optimizer)

	router.GET("/health", func(c *gin.Context) {
		if err := s.repos.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"observers": s.hub.ClientCount(),
		})
	})

	// Locally stored media is served statically; MinIO serves its own URLs.
	if fsStore, ok := candidateStore.(*media.FilesystemStore); ok {
		router.Static("/candidates", fsStore.BaseDir())
	}
	if fsStore, ok := qrStore.(*media.FilesystemStore); ok {
		router.Static("/qr-codes", fsStore.BaseDir())
	}

	router.GET("/ws", s.hub.HandleWebSocket)

	s.setupAPIRoutes(router, authService, votingHandler, delegateHandler, candidateHandler, positionHandler, adminHandler)

	return router, nil
}

// setupAPIRoutes mounts the public voting surface and the authenticated admin
// surface.
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	authService *services.AuthService,
	votingHandler *handlers.VotingHandler,
	delegateHandler *handlers.DelegateHandler,
	candidateHandler *handlers.CandidateHandler,
	positionHandler *handlers.PositionHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := router.Group("/api")
	{
		// Public delegate-facing routes
		api.POST("/verify-delegate", votingHandler.VerifyDelegate)
		api.POST("/submit-votes", votingHandler.SubmitVotes)
		api.GET("/positions", votingHandler.GetBallot)
		api.GET("/results", votingHandler.GetResults)
		api.GET("/statistics", votingHandler.GetStatistics)

		admin := api.Group("/admin")
		{
			admin.POST("/login", adminHandler.Login)

			authed := admin.Group("")
			authed.Use(middleware.RequireAdmin(authService))
			{
				authed.POST("/logout", adminHandler.Logout)
				authed.GET("/auth-status", adminHandler.AuthStatus)
				authed.GET("/stats", adminHandler.Stats)
				authed.GET("/db-performance", adminHandler.DbPerformance)
				authed.POST("/reset-votes", adminHandler.ResetVotes)

				delegates := authed.Group("/delegates")
				{
					delegates.GET("", delegateHandler.List)
					delegates.POST("", delegateHandler.Create)
					delegates.POST("/import", delegateHandler.ImportCSV)
					delegates.GET("/:id", delegateHandler.Get)
					delegates.PUT("/:id", delegateHandler.Update)
					delegates.DELETE("/:id", delegateHandler.Delete)
					delegates.GET("/:id/qr", delegateHandler.QRCode)
				}

				authed.POST("/qr-codes/generate", delegateHandler.QRCodeAll)

				candidates := authed.Group("/candidates")
				{
					candidates.GET("", candidateHandler.List)
					candidates.POST("", candidateHandler.Create)
					candidates.GET("/:id", candidateHandler.Get)
					candidates.PUT("/:id", candidateHandler.Update)
					candidates.DELETE("/:id", candidateHandler.Delete)
				}

				positions := authed.Group("/positions")
				{
					positions.GET("", positionHandler.List)
					positions.POST("", positionHandler.Create)
				}
			}
		}
	}
}
