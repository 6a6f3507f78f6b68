package main

import (
	"context"
	"log"
	"os"

	"github.com/ryanuo/aug-calc/src/config"
	"github.com/ryanuo/aug-calc/src/database"
	aws_handler "github.com/ryanuo/aug-calc/src/utils/aws"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		log.Fatalf("Error loading config for environment: %v", err)
	}
	if cfg.Databases.SQL.Driver != config.DriverPostgres {
		log.Fatalf("SQL migrations target postgres, driver is %q", cfg.Databases.SQL.Driver)
	}

	var secrets database.SecretReader
	if cfg.Databases.SQL.PasswordSecretID != "" {
		handler, err := aws_handler.NewAWSHandler(cfg.AWS.Region)
		if err != nil {
			log.Fatalf("Failed to create AWS session: %v", err)
		}
		secrets = handler.SecretManager
	}
	password, err := database.ResolvePassword(context.Background(), cfg.Databases.SQL, secrets)
	if err != nil {
		log.Fatalf("Failed to resolve database password: %v", err)
	}

	db, err := gorm.Open(postgres.Open(database.PostgresDSN(cfg.Databases.SQL, password)), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB from GORM DB: %v", err)
	}
	defer sqlDB.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set goose dialect: %v", err)
	}
	if err := goose.Up(sqlDB, "./migrations"); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Println("Database migration completed successfully")
}
