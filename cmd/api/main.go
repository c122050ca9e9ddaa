package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortiva/propflow/internal/config"
	"github.com/fortiva/propflow/internal/database"
	"github.com/fortiva/propflow/internal/handlers"
	"github.com/fortiva/propflow/internal/models"
	"github.com/fortiva/propflow/internal/services/documents"
	"github.com/fortiva/propflow/internal/services/signing"
	"github.com/fortiva/propflow/internal/storage"
	"github.com/fortiva/propflow/internal/utils"
	"github.com/fortiva/propflow/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (detects embedded vs external automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 3. Synchronize schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.User{},
		&models.Template{},
		&models.Document{},
		&models.AuditLog{},
		&models.Transaction{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Wire services
	store := storage.NewGormStore(db.DB)

	hub := websocket.NewHub()
	go hub.Run()

	gateway := signing.NewClient(cfg.N8N.BaseURL)
	docs := documents.NewService(store, gateway, hub)
	router := handlers.NewRouter(cfg, store, docs, gateway, hub)

	// 5. Seed the admin account on first start
	if err := seedAdmin(store); err != nil {
		log.Printf("⚠️ Seed warning: %v", err)
	}

	// 6. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("⚠️  Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}

// seedAdmin creates the default admin account when no user owns its
// email yet. Demo templates and documents are seeded separately via
// cmd/seed_demo.
func seedAdmin(store storage.Store) error {
	ctx := context.Background()
	const adminEmail = "admin@example.com"

	_, err := store.GetUserByEmail(ctx, adminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	hashed, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}
	if err := store.CreateUser(ctx, &models.User{
		Email:    adminEmail,
		Password: hashed,
		Name:     "Admin User",
	}); err != nil {
		return err
	}
	log.Println("🌱 Seeded admin user")
	return nil
}
