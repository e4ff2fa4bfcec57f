package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mmelodev/GestaoEscolarCompleta-sub000/config"
	"github.com/mmelodev/GestaoEscolarCompleta-sub000/internal/billing"
	"github.com/mmelodev/GestaoEscolarCompleta-sub000/internal/handlers"
	"github.com/mmelodev/GestaoEscolarCompleta-sub000/internal/routes"
	"github.com/mmelodev/GestaoEscolarCompleta-sub000/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, relying on environment")
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	config.ConnectDB()
	config.ConnectRedis()
	config.LoadJWTKey()

	if err := config.DB.AutoMigrate(
		&models.Student{},
		&models.Class{},
		&models.ContractTemplate{},
		&models.User{},
		&models.Contract{},
		&models.Installment{},
		&models.Receivable{},
		&models.Payment{},
		&models.AccountingEntry{},
	); err != nil {
		slog.Error("auto-migration failed", "error", err)
		os.Exit(1)
	}

	service := billing.NewService(config.DB)
	handlers.Init(service)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	service.StartOverdueSweep(ctx, 24*time.Hour)

	r := gin.Default()
	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
