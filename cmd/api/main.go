package main

import (
	"strings"
	"time"

	"github.com/pmarkota/dreamlog-backend/cmd/api/config"
	"github.com/pmarkota/dreamlog-backend/internal/api"
	"github.com/pmarkota/dreamlog-backend/internal/auth"
	"github.com/pmarkota/dreamlog-backend/internal/database"
	"github.com/pmarkota/dreamlog-backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	db, err := database.New(database.Config{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	aiClient := openai.NewClient(cfg.OpenAIAPIKey)

	var emailSender services.EmailSender = services.DisabledEmailSender{}
	if cfg.SendGridAPIKey != "" {
		emailSender = services.NewSendGridEmailSender(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName)
	}

	usageStore := services.NewUsageStore(db)
	usageService := services.NewAIUsageService(usageStore, cfg.FreeWeeklyAnalyses, cfg.QuotaWindow)
	dreamService := services.NewDreamService(db)
	analysisService := services.NewAnalysisService(
		aiClient,
		cfg.OpenAIModel,
		dreamService,
		services.NewAnalysisStore(db),
		services.NewPromptStore(db),
		usageService,
	)
	insightsService := services.NewInsightsService(db)
	userService := services.NewUserService(db)
	waitlistService := services.NewWaitlistService(db, emailSender)
	billingService := services.NewBillingService(
		cfg.StripeSecretKey,
		cfg.StripeWebhookSecret,
		cfg.CheckoutSuccessURL,
		cfg.CheckoutCancelURL,
		userService,
	)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	auth.SetupRoutes(r, userService, cfg.JWTSecret)
	api.SetupRoutes(r, api.Services{
		Dreams:   dreamService,
		Analysis: analysisService,
		Usage:    usageService,
		Insights: insightsService,
		Users:    userService,
		Waitlist: waitlistService,
		Billing:  billingService,
	}, cfg.JWTSecret)

	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
