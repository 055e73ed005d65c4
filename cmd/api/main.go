package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/api/routes"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/config"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/handlers"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/services"
	"github.com/joho/godotenv"

	mongorepo "github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/repositories/mongodb"
	mongodb "github.com/codemonkey0612/instantwin-cp-generator-main-sub001/pkg/mongodb"
)

func main() {
	// A local .env is optional; viper falls back to real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT secret is not configured")
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	campaignRepo := mongorepo.NewCampaignRepository(db)
	outcomeRepo := mongorepo.NewOutcomeRepository(db)
	tokenRepo := mongorepo.NewTokenRepository(db)
	adminUserRepo := mongorepo.NewAdminUserRepository(db)
	txnRunner := mongorepo.NewTxnRunner(mongoClient.Raw())

	// Services
	lotteryService := services.NewLotteryService(campaignRepo, outcomeRepo, txnRunner)
	tokenService := services.NewTokenService(tokenRepo,
		cfg.Lottery.ConsumeMaxAttempts,
		time.Duration(cfg.Lottery.ConsumeBackoffBaseMS)*time.Millisecond)
	sessionService := services.NewDrawSessionService(tokenService, lotteryService)
	campaignService := services.NewCampaignService(campaignRepo)
	authService := services.NewAuthService(adminUserRepo, cfg)

	// Handlers
	deps := routes.HandlerDependencies{
		AuthHandler:     handlers.NewAuthHandler(authService),
		CampaignHandler: handlers.NewCampaignHandler(campaignService),
		TokenHandler:    handlers.NewTokenHandler(tokenService),
		DrawHandler:     handlers.NewDrawHandler(lotteryService, sessionService),
	}

	router := routes.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
