package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/routes"
)

func main() {
	// Load .env first so the logger picks up LOG_DIR
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.GetConfig()

	if err := config.SetupLogger(cfg.LogDir); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := autoMigrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	config.Info("Starting %s flight tracker on port %s", cfg.AirportCode, cfg.ServerPort)

	r, services := routes.SetupRouter(db, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server exited: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	config.Info("Shutting down: %s", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		config.Error("Server shutdown failed: %v", err)
	}

	// Drain queued archive writes before exit
	services.GetArchiveService().Close()
}

// initDB opens the SQLite database
func initDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// SQLite serializes writes; one connection avoids SQLITE_BUSY
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// autoMigrate creates and updates tables to match the models
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Flight{},
		&models.WeatherSnapshot{},
	)
}
