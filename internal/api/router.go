package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seungwoo7050/codex-pong-video/internal/api/handlers"
	"github.com/seungwoo7050/codex-pong-video/internal/api/middleware"
	"github.com/seungwoo7050/codex-pong-video/internal/config"
	"github.com/seungwoo7050/codex-pong-video/internal/game"
	"github.com/seungwoo7050/codex-pong-video/internal/repository"
	"github.com/seungwoo7050/codex-pong-video/internal/service"
	"github.com/seungwoo7050/codex-pong-video/pkg/database"
	"github.com/seungwoo7050/codex-pong-video/pkg/ratelimit"
)

// SetupRouter API 라우터 설정
func SetupRouter(cfg *config.Config, db *database.DB) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 전역 미들웨어
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Repository 초기화
	userRepo := repository.NewUserRepository(db)
	resultRepo := repository.NewResultRepository(db)

	// Service 초기화
	userService := service.NewUserService(userRepo)
	rankingService := service.NewRankingService(userRepo)
	resultService := service.NewResultService(resultRepo, rankingService)

	// 게임 레지스트리 초기화 (방 생성, 틱 루프, 스냅샷 브로드캐스트)
	registry := game.NewRegistry(resultService, cfg.TickInterval)

	matchmakingService := service.NewMatchmakingService(registry)

	// Rate Limiter 초기화: Redis 주소가 있으면 분산 버킷, 없으면 인메모리 버킷으로 폴백
	authLimit := middleware.AuthRateLimit()
	matchmakingLimit := middleware.MatchmakingRateLimit()
	if cfg.RedisAddr != "" {
		redisLimiter := ratelimit.NewRedisRateLimiter(ratelimit.RedisRateLimiterConfig{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         0,
			DefaultTTL: time.Minute,
		})
		authLimit = middleware.RedisAuthRateLimit(redisLimiter)
		matchmakingLimit = middleware.RedisMatchmakingRateLimit(redisLimiter)
	}

	// Handler 초기화
	authHandler := handlers.NewAuthHandler(userService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	matchmakingHandler := handlers.NewMatchmakingHandler(matchmakingService, userService)
	leaderboardHandler := handlers.NewLeaderboardHandler(userService)
	resultHandler := handlers.NewResultHandler(resultService)
	wsHandler := handlers.NewWebSocketHandler(registry, userService)

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// API v1
	v1 := router.Group("/api/v1")
	v1.Use(middleware.GeneralAPIRateLimit())
	{
		// Auth routes
		auth := v1.Group("/auth")
		auth.Use(authLimit)
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
		}

		// Matchmaking routes
		match := v1.Group("/match")
		match.Use(middleware.Auth(cfg), matchmakingLimit)
		{
			match.POST("/quick", matchmakingHandler.EnqueueQuick)
			match.GET("/quick/:ticketId", matchmakingHandler.GetQuickTicket)
			match.DELETE("/quick/:ticketId", matchmakingHandler.CancelQuickTicket)
			match.POST("/ranked", matchmakingHandler.EnqueueRanked)
			match.GET("/ranked/:ticketId", matchmakingHandler.GetRankedTicket)
			match.DELETE("/ranked/:ticketId", matchmakingHandler.CancelRankedTicket)
		}

		// Rank routes
		rank := v1.Group("/rank")
		{
			rank.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		}

		// Result routes
		results := v1.Group("/results")
		{
			results.GET("/recent", resultHandler.GetRecentResults)
			results.GET("/me", middleware.Auth(cfg), resultHandler.GetMyResults)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.Auth(cfg))
		{
			users.GET("/me", userHandler.GetCurrentUser)
			users.PUT("/me", userHandler.UpdateCurrentUser)
		}

		// Game WebSocket route
		v1.GET("/game/ws", middleware.Auth(cfg), wsHandler.HandleGameWebSocket)
	}

	return router
}
