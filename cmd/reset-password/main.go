package main

import (
	"flag"
	"os"

	"agriconnect-api/internal/config"
	"agriconnect-api/internal/model"
	"agriconnect-api/pkg/database"
	"agriconnect-api/pkg/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	username := flag.String("username", "", "account to reset")
	password := flag.String("password", "", "new password (at least 6 characters)")
	flag.Parse()

	// 1. Load Env
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, os.Stderr)

	if *username == "" || len(*password) < 6 {
		flag.Usage()
		os.Exit(2)
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// 3. Find user
	var user model.User
	if err := db.Where("username = ?", *username).First(&user).Error; err != nil {
		log.Fatal().Err(err).Str("username", *username).Msg("user not found")
	}

	// 4. Hash new password
	if err := user.SetPassword(*password); err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	// 5. Update
	if err := db.Model(&user).Updates(map[string]any{"password": user.Password, "updated_by": "reset-password"}).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to update password")
	}

	log.Info().Str("username", *username).Msg("password has been reset")
}
