// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"resellerpro-service/internal/config"
	"resellerpro-service/internal/db"
	entHandler "resellerpro-service/internal/handlers/entitlement"
	otpHandler "resellerpro-service/internal/handlers/otp"
	"resellerpro-service/internal/middleware"
	"resellerpro-service/internal/pkg/jwt"
	"resellerpro-service/internal/pkg/ratelimit"
	"resellerpro-service/internal/repository/postgres"
	"resellerpro-service/internal/service/email"
	entUsecase "resellerpro-service/internal/service/entitlement"
	otpUsecase "resellerpro-service/internal/service/otp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] ✅ Connected successfully")

	// ----- Logger -----
	var logger *zap.Logger
	if s.cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Rate Limiter -----
	limiter := ratelimit.NewLimiter(redisClient)

	// ----- Email -----
	emailSender := email.NewEmailSender(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPass,
		s.cfg.SMTPFromName,
		s.cfg.SMTPSecure,
	)
	otpMailer := email.NewOtpMailer(emailSender)

	// ----- Repositories -----
	codeRepo := postgres.NewOneTimeCodeRepository(pool)
	subRepo := postgres.NewSubscriptionRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	usageRepo := postgres.NewUsageRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	// ----- Services -----
	otpService := otpUsecase.NewService(codeRepo, otpMailer, s.cfg.IsProduction(), logger)
	entService := entUsecase.NewService(subRepo, planRepo, usageRepo, logger)

	// ----- Handlers -----
	tokenTTL := int(s.cfg.JWT.TTL.Seconds())
	handlers := &Handlers{
		OtpHandler:         otpHandler.NewOtpHandler(otpService, userRepo, limiter, jwtManager.Generator, tokenTTL, logger),
		EntitlementHandler: entHandler.NewEntitlementHandler(entService, logger),
		AuthMiddleware:     middleware.NewAuthMiddleware(jwtManager.Verifier),
	}

	// ----- Middleware & Routes -----
	s.engine.Use(middleware.RecoveryMiddleware(logger))
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(logger))
	s.engine.Use(middleware.CORSMiddleware())

	SetupRouter(s.engine, handlers)

	logger.Info("server starting",
		zap.String("addr", s.cfg.HTTPAddr),
		zap.String("env", s.cfg.Env),
	)

	return s.engine.Run(s.cfg.HTTPAddr)
}
