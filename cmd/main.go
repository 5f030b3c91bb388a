package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "fuelmap/docs"
	"fuelmap/internal/api"
	"fuelmap/internal/auth"
	"fuelmap/internal/config"
	"fuelmap/internal/ingest"
	"fuelmap/internal/manager"
	"fuelmap/internal/messaging"
	"fuelmap/internal/metrics"
	"fuelmap/internal/raster"
	"fuelmap/internal/reconciler"
	"fuelmap/internal/storage"
)

// @title Fuel Map Geospatial API
// @version 1.0
// @description Multi-tenant fuel map service with taxonomy reconciliation and priority overlay resolution
// @host localhost:8080
// @BasePath /
// @schemes http

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	// Init Metrics
	metrics.Init()

	// Load Configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded")

	// Setup JWT Secret
	auth.SetSecret(cfg.Auth.JWTSecret)

	// Init PostgreSQL
	db, err := storage.NewPostgres(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.DB.Close()
	if err := db.EnsureSchema(); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	log.Println("PostgreSQL connected")

	// Init RabbitMQ
	rabbitClient, err := messaging.NewRabbitClient(cfg.RabbitMQ.URL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitClient.Close()
	log.Println("RabbitMQ connected")

	// Init reconciler and ingest pipeline
	rec := reconciler.New(cfg.ReviewThreshold)
	processor := raster.NewSimulated()
	pipeline := ingest.NewPipeline(db, processor, rec)

	// Init TenantManager
	rabbitConn := rabbitClient.GetConnection()
	tm := manager.NewTenantManager(rabbitConn, rabbitClient, db, pipeline)

	// Seed the shared global baseline when configured
	if cfg.SeedGlobalBaseline {
		if _, err := ingest.SeedGlobalBaseline(pipeline, db, "global_baseline.tif"); err != nil {
			log.Fatalf("Failed to seed global baseline: %v", err)
		}
	}

	// Start background loop for updating queue depth metrics
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			for _, tenantID := range tm.ListTenantIDs() {
				rabbitClient.UpdateQueueDepth(tenantID)
			}
		}
	}()

	// Recover Existing Tenants
	tenants, err := db.ListTenants()
	if err != nil {
		log.Fatalf("Failed to load tenants: %v", err)
	}
	for _, tenant := range tenants {
		if err := tm.RecoverTenant(tenant.ID); err != nil {
			log.Printf("Failed to recover tenant %s: %v", tenant.ID, err)
			continue
		}
		log.Printf("Recovered tenant %s", tenant.ID)
	}

	// Init API
	apiHandler := api.NewAPI(db, tm, rec, processor, cfg)
	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: apiHandler.Router(),
	}

	// Graceful Shutdown Setup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting API server on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done() // Wait for interrupt signal
	log.Println("Shutdown initiated...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stop HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	// Stop all tenant consumers
	tm.ShutdownAll()

	log.Println("Graceful shutdown complete")
}
