package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	config "snow-board.com/snow-board/internal/configs"
)

// bootstrap loads configuration, builds the logger and opens the database.
func bootstrap() (config.Config, *zap.Logger, *gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	logger := config.NewLogger(cfg)

	db, err := config.NewDatabaseClient(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return config.Config{}, nil, nil, err
	}

	return cfg, logger, db, nil
}
