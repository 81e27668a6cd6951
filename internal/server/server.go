package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emberle/threadboard-backend/internal/config"
	"github.com/emberle/threadboard-backend/internal/database"
	"github.com/emberle/threadboard-backend/internal/handlers"
	"github.com/emberle/threadboard-backend/internal/middleware"
	"github.com/emberle/threadboard-backend/internal/realtime"
)

type Server struct {
	cfg     config.Config
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	cfg := config.Load()
	db := database.New(cfg)
	hub := realtime.NewHub()
	handler := handlers.NewHandler(db.GetDB(), []byte(cfg.JWTSecret), hub)

	newServer := &Server{
		cfg:     cfg,
		db:      db,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{s.cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	secret := []byte(s.cfg.JWTSecret)

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Public reads resolve the actor when a token is present so
		// visibility gating can personalize.
		public := api.Group("")
		public.Use(middleware.OptionalAuth(secret))
		{
			public.GET("/feed", s.handler.Feed.GetFeed)
			public.GET("/topics/:id", s.handler.Topic.GetTopic)
			public.POST("/topics/:id/view", s.handler.Topic.RecordView)
			public.GET("/topics/:id/comments", s.handler.Comment.GetComments)
			public.GET("/comments/:commentId/replies", s.handler.Comment.GetReplies)
			public.GET("/reactions/state", s.handler.Reaction.GetReactionState)
			public.GET("/users/:id", s.handler.User.GetUserProfile)
			public.GET("/users/:id/followers", s.handler.User.GetFollowers)
			public.GET("/users/:id/following", s.handler.User.GetFollowing)
			public.GET("/communities/:id", s.handler.Community.GetCommunity)
			public.GET("/reviews", s.handler.Review.GetReviews)
		}

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(secret))
		{
			protected.GET("/me", s.handler.Auth.GetMe)
			protected.PUT("/me/settings", s.handler.Auth.UpdateSettings)
			protected.GET("/ws", s.handler.WS.Connect)

			protected.POST("/topics", s.handler.Topic.CreateTopic)
			protected.POST("/topics/:id/moderate", s.handler.Topic.Moderate)
			protected.POST("/topics/:id/follow", s.handler.Topic.ToggleFollow)
			protected.GET("/me/watched", s.handler.Topic.Watched)

			protected.POST("/topics/:id/comments", s.handler.Comment.CreateComment)

			protected.POST("/reactions", s.handler.Reaction.SetReaction)

			protected.POST("/users/:id/follow", s.handler.User.ToggleFollow)
			protected.PUT("/users/:id/notify", s.handler.User.SetNotify)

			protected.POST("/communities", s.handler.Community.CreateCommunity)
			protected.POST("/communities/:id/join", s.handler.Community.Join)
			protected.POST("/communities/:id/members/:userId", s.handler.Community.ModerateMembership)

			protected.POST("/reviews", s.handler.Review.CreateReview)

			protected.GET("/notifications", s.handler.Notification.List)
			protected.POST("/notifications/:id/read", s.handler.Notification.MarkRead)
			protected.POST("/notifications/read-all", s.handler.Notification.MarkAllRead)
		}
	}

	return r
}
