package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"warehouse-scan-be/internal/bootstrap"
	"warehouse-scan-be/internal/config"
	"warehouse-scan-be/internal/model"
	"warehouse-scan-be/internal/server"
	"warehouse-scan-be/internal/tracer"
	"warehouse-scan-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	// 2. Tracer
	shutdownTracer := tracer.InitTracer(cfg.Otel.Enabled, cfg.Otel.Endpoint)
	defer shutdownTracer(context.Background())

	// 3. Optional audit database
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		if err := db.AutoMigrate(&model.SubmissionAudit{}); err != nil {
			log.Panicf("Unable to migrate submission audit table: %v", err)
		}
		gormDB = db
	} else {
		log.Println("DB_CONNECTION_STRING not set, submission audit trail disabled")
	}

	// 4. Bootstrap dependencies
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Background services
	go container.WebSocketHub.Run()

	if err := container.AuditService.Start(ctx); err != nil {
		log.Printf("Background: audit service not started: %v", err)
	}
	if err := container.AlertConsumer.Consume(ctx); err != nil {
		log.Printf("Background: alert consumer not started: %v", err)
	}

	// 6. Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
