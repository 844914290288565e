package main

import (
	"log"

	"go-itstock/internal/config"
	"go-itstock/internal/repository"
	"go-itstock/pkg/database"
	"go-itstock/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Resets ADMIN_USERNAME's password to ADMIN_PASSWORD and ends its sessions.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.LoadEnv()
	zlog := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	defer zlog.Sync()

	db, err := database.ConnectDB(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("failed to connect database", zap.Error(err))
	}
	userRepo := repository.NewUserRepo(db)

	username := cfg.Seed.AdminUsername
	user, err := userRepo.FindByUsername(username)
	if err != nil {
		zlog.Fatal("user not found", zap.String("username", username), zap.Error(err))
	}

	if err := user.SetPassword(cfg.Seed.AdminPassword); err != nil {
		zlog.Fatal("failed to hash password", zap.Error(err))
	}
	if err := userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		zlog.Fatal("failed to update password", zap.Error(err))
	}
	if err := userRepo.UpdateTokenVersion(user.ID, uuid.New().String()); err != nil {
		zlog.Fatal("failed to end sessions", zap.Error(err))
	}

	zlog.Info("password reset", zap.String("username", username))
}
