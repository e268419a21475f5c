package main

import (
	"log"

	"warehouse-scan-be/internal/config"
	"warehouse-scan-be/internal/model"
	"warehouse-scan-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running AutoMigrate for submission audit tables...")
	if err := db.AutoMigrate(&model.SubmissionAudit{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}
	log.Println("Migration complete")
}
