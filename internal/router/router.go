package router

import (
	"github.com/anonto42/vidtube/backend/internal/auth"
	"github.com/anonto42/vidtube/backend/internal/cache"
	"github.com/anonto42/vidtube/backend/internal/handlers"
	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/services"
	"github.com/anonto42/vidtube/backend/internal/uploads"
	"github.com/anonto42/vidtube/backend/pkg/config"
	"github.com/anonto42/vidtube/backend/pkg/media"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	Config     *config.Config
	Database   *mongo.Database
	Media      media.Store
	StatsCache cache.StatsCache
	Stager     *uploads.Stager
	Logger     *zap.Logger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	cfg, logger := deps.Config, deps.Logger

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(deps.Database)
	videoRepo := repositories.NewMongoVideoRepository(deps.Database)
	commentRepo := repositories.NewMongoCommentRepository(deps.Database)
	likeRepo := repositories.NewMongoLikeRepository(deps.Database)
	subscriptionRepo := repositories.NewMongoSubscriptionRepository(deps.Database)
	tweetRepo := repositories.NewMongoTweetRepository(deps.Database)
	playlistRepo := repositories.NewMongoPlaylistRepository(deps.Database)

	// --- Initialize Services ---
	tokens := auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		AccessTTL:     cfg.AccessTokenExpiry,
		RefreshSecret: cfg.RefreshTokenSecret,
		RefreshTTL:    cfg.RefreshTokenExpiry,
	})
	sessions := auth.NewManager(userRepo, tokens, logger)
	userService := services.NewUserService(userRepo, deps.Media, logger)
	videoService := services.NewVideoService(videoRepo, userRepo, deps.Media, logger)
	commentService := services.NewCommentService(commentRepo, videoRepo, logger)
	likeService := services.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo, logger)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, userRepo, logger)
	tweetService := services.NewTweetService(tweetRepo, logger)
	playlistService := services.NewPlaylistService(playlistRepo, videoRepo, logger)
	dashboardService := services.NewDashboardService(videoRepo, subscriptionRepo, likeRepo, deps.StatsCache, logger)

	requireAuth := middleware.JWTAuth(sessions)
	optionalAuth := middleware.OptionalJWTAuth(sessions)
	limit := middleware.RateLimit(middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.AuthRateBurst, 0))

	api := e.Group("/api/v1")
	api.GET("/healthcheck", handlers.HealthCheck)

	users := api.Group("/users")
	handlers.NewAuthHandler(sessions, cfg.IsProduction()).RegisterAuthRoutes(users, requireAuth, limit)
	handlers.NewUserHandler(userService, deps.Stager).RegisterUserRoutes(users, requireAuth, limit)

	handlers.NewVideoHandler(videoService, deps.Stager).RegisterVideoRoutes(api.Group("/videos"), requireAuth, optionalAuth)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(api.Group("/comments"), requireAuth)
	handlers.NewLikeHandler(likeService).RegisterLikeRoutes(api.Group("/likes", requireAuth))
	handlers.NewSubscriptionHandler(subscriptionService).RegisterSubscriptionRoutes(api.Group("/subscriptions"), requireAuth)
	handlers.NewTweetHandler(tweetService).RegisterTweetRoutes(api.Group("/tweets"), requireAuth)
	handlers.NewPlaylistHandler(playlistService).RegisterPlaylistRoutes(api.Group("/playlist"), requireAuth)
	handlers.NewDashboardHandler(dashboardService).RegisterDashboardRoutes(api.Group("/dashboard", requireAuth))

	logger.Info("All routes configured", zap.Int("routes", len(e.Routes())))
}
