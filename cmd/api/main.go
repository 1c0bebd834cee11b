package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"deployhub/internal/config"
	"deployhub/internal/database"
	"deployhub/internal/middleware"
	"deployhub/internal/modules/analytics"
	"deployhub/internal/modules/auth"
	"deployhub/internal/modules/upload"
	jwtsvc "deployhub/internal/pkg/jwt"
	"deployhub/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading config from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	eventHub := auth.NewEventHub()
	defer eventHub.Close()

	authService := auth.NewService(userRepo, j, eventHub)
	authHandler := auth.NewHandler(authService, eventHub)

	relay := upload.NewWebhookRelay(cfg.WebhookURL, cfg.WebhookTimeout)
	uploadService := upload.NewService(uploadRepo, userRepo, relay)
	uploadHandler := upload.NewHandler(uploadService)

	analyticsService := analytics.NewService(uploadRepo)
	analyticsHandler := analytics.NewHandler(analyticsService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			uploadHandler.RegisterRoutes(protected)
			analyticsHandler.RegisterRoutes(protected)
		}
	}

	log.Printf("Deployment hub API listening on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatal(err)
	}
}
