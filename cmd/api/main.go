package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	_ "github.com/lib/pq"

	"github.com/Juniorkpabitey/virtra/internal/assistant"
	"github.com/Juniorkpabitey/virtra/internal/config"
	"github.com/Juniorkpabitey/virtra/internal/email"
	appointmentHandler "github.com/Juniorkpabitey/virtra/internal/handler/appointment"
	authHandler "github.com/Juniorkpabitey/virtra/internal/handler/auth"
	chatHandler "github.com/Juniorkpabitey/virtra/internal/handler/chat"
	doctorHandler "github.com/Juniorkpabitey/virtra/internal/handler/doctor"
	healthHandler "github.com/Juniorkpabitey/virtra/internal/handler/health"
	profileHandler "github.com/Juniorkpabitey/virtra/internal/handler/profile"
	"github.com/Juniorkpabitey/virtra/internal/middleware"
	"github.com/Juniorkpabitey/virtra/internal/repository/postgres"
	"github.com/Juniorkpabitey/virtra/internal/router"
	appointmentService "github.com/Juniorkpabitey/virtra/internal/service/appointment"
	authService "github.com/Juniorkpabitey/virtra/internal/service/auth"
	chatService "github.com/Juniorkpabitey/virtra/internal/service/chat"
	doctorService "github.com/Juniorkpabitey/virtra/internal/service/doctor"
	profileService "github.com/Juniorkpabitey/virtra/internal/service/profile"
	"github.com/Juniorkpabitey/virtra/internal/storage"
	"github.com/Juniorkpabitey/virtra/pkg/auth"
	"github.com/Juniorkpabitey/virtra/pkg/metrics"
	"github.com/Juniorkpabitey/virtra/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	store, err := storage.NewLocalStore(cfg.Storage.Dir, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize blob store")
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	chatRepo := postgres.NewChatRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	emailSvc := email.NewService(email.Config{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	})
	completer := assistant.NewClient(assistant.Config{
		BaseURL: cfg.Assistant.BaseURL,
		APIKey:  cfg.Assistant.APIKey,
		Model:   cfg.Assistant.Model,
		Timeout: cfg.Assistant.Timeout,
	})

	authSvc := authService.NewService(userRepo, profileRepo, tokenRepo, jwtSvc, hasher, emailSvc, cfg.JWT.Expiry)
	profileSvc := profileService.NewService(profileRepo, store)
	doctorSvc := doctorService.NewService(doctorRepo, appointmentRepo, profileRepo, store)
	appointmentSvc := appointmentService.NewService(appointmentRepo, doctorRepo, profileRepo, outboxRepo, emailSvc)
	chatSvc := chatService.NewService(chatRepo, completer, cfg.Assistant.SystemPrompt, cfg.Assistant.DoctorSystemPrompt, metrics.NewMetrics("virtra_api"))

	// Handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	authH := authHandler.NewHandler(authSvc)
	profileH := profileHandler.NewHandler(profileSvc)
	doctorH := doctorHandler.NewHandler(doctorSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc, doctorSvc)
	chatH := chatHandler.NewHandler(chatSvc)
	healthH := healthHandler.NewHandler(db)

	r := router.NewRouter(
		authMiddleware,
		authH,
		profileH,
		doctorH,
		appointmentH,
		chatH,
		healthH,
		router.Config{
			RateLimit:  rate.Limit(cfg.Server.RateLimitRPS),
			RateBurst:  cfg.Server.RateLimitBurst,
			CORSConfig: middleware.DefaultCORSConfig(),
			StaticDir:  store.Dir(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
