package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/condomarket/backend/internal/models"
)

type Config struct {
	PORT string

	// "postgres" or "file"
	DB_BACKEND  string
	DB_FILE     string
	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	JWT_SECRET string

	// "local" or "s3"
	STORAGE_BACKEND string
	UPLOAD_DIR      string
	S3_ENDPOINT     string
	S3_ACCESS_KEY   string
	S3_SECRET_KEY   string
	S3_BUCKET       string
	S3_PUBLIC_URL   string
	S3_USE_SSL      string

	KAFKA_ADDRESS string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	LOG_LEVEL string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT:            envOr("PORT", "3000"),
		DB_BACKEND:      envOr("DB_BACKEND", "file"),
		DB_FILE:         envOr("DB_FILE", "db.json"),
		DB_HOST:         os.Getenv("DB_HOST"),
		DB_PORT:         os.Getenv("DB_PORT"),
		DB_USER:         os.Getenv("DB_USER"),
		DB_PASSWORD:     os.Getenv("DB_PASSWORD"),
		DB_NAME:         os.Getenv("DB_NAME"),
		JWT_SECRET:      os.Getenv("JWT_SECRET"),
		STORAGE_BACKEND: envOr("STORAGE_BACKEND", "local"),
		UPLOAD_DIR:      envOr("UPLOAD_DIR", "public/images"),
		S3_ENDPOINT:     os.Getenv("S3_ENDPOINT"),
		S3_ACCESS_KEY:   os.Getenv("S3_ACCESS_KEY"),
		S3_SECRET_KEY:   os.Getenv("S3_SECRET_KEY"),
		S3_BUCKET:       os.Getenv("S3_BUCKET"),
		S3_PUBLIC_URL:   os.Getenv("S3_PUBLIC_URL"),
		S3_USE_SSL:      os.Getenv("S3_USE_SSL"),
		KAFKA_ADDRESS:   os.Getenv("KAFKA_ADDRESS"),
		ES_URL:          os.Getenv("ES_URL"),
		ES_USER:         os.Getenv("ES_USER"),
		ES_PASSWORD:     os.Getenv("ES_PASSWORD"),
		LOG_LEVEL:       envOr("LOG_LEVEL", "info"),
	}

	if config.JWT_SECRET == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.Category{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}
