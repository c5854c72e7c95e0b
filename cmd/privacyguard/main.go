package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/NeuralTrust/PrivacyGuard/docs"
	"github.com/NeuralTrust/PrivacyGuard/pkg/common"
	"github.com/NeuralTrust/PrivacyGuard/pkg/config"
	"github.com/NeuralTrust/PrivacyGuard/pkg/dependency_container"
	infraLogger "github.com/NeuralTrust/PrivacyGuard/pkg/infra/logger"
	"github.com/NeuralTrust/PrivacyGuard/pkg/server"
	"github.com/NeuralTrust/PrivacyGuard/pkg/server/router"
	"github.com/joho/godotenv"
)

// @title PrivacyGuard API
// @version 0.1.0
// @description Anonymizes PII in free text with reversible placeholders and restores it afterwards.
// @BasePath /
func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger(common.ServiceName)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config"
	}
	if err := config.Load(configPath); err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
	})
	if err != nil {
		logger.Fatalf("failed to initialize container: %v", err)
	}

	srv := server.NewAPIServer(server.APIServerDI{
		Config: cfg,
		Logger: logger,
		Routers: []router.ServerRouter{
			router.NewAPIRouter(container.MiddlewareTransport, container.HandlerTransport, cfg),
		},
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
	}
	if err := container.Close(); err != nil {
		logger.WithError(err).Error("error closing resources")
	}
	logger.Info("server gracefully stopped")
	if err := infraLogger.Close(logger); err != nil {
		log.Println("error closing log writer:", err)
	}
}
