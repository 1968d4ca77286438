package config

import (
	"os"

	"foodbridge-api/logger"
	"foodbridge-api/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "foodbridge_super_secret_2024"))

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitDB() {
	dsn := getEnv("DB_PATH", "foodbridge.db")

	var err error
	DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Auto-migrate all models
	err = DB.AutoMigrate(
		&models.User{},
		&models.FoodRequest{},
	)
	if err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	logger.Info("database connected and migrated", zap.String("dsn", dsn))
}
