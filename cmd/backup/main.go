// Command backup runs the scheduled backup and retention loop as a
// standalone process, separate from the API server.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.GetConfig()

	if err := config.SetupLogger(cfg.LogDir); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	ops, err := services.NewOperationsService(cfg)
	if err != nil {
		log.Fatalf("failed to initialize operations log: %v", err)
	}
	backups, err := services.NewBackupService(db, cfg, ops)
	if err != nil {
		log.Fatalf("failed to initialize backup manager: %v", err)
	}
	history := services.NewHistoryService(db, cfg)
	archive, err := services.NewArchiveService(cfg)
	if err != nil {
		log.Fatalf("failed to initialize archive: %v", err)
	}
	defer archive.Close()

	interval := time.Duration(cfg.BackupIntervalMinutes) * time.Minute
	config.Info("Backup runner started, interval %s", interval)
	ops.LogSystem("Backup runner started", "info", "interval "+interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	runCycle(backups, history, archive, ops, cfg)

	for {
		select {
		case <-ticker.C:
			runCycle(backups, history, archive, ops, cfg)
		case sig := <-stop:
			config.Info("Backup runner stopping: %s", sig)
			ops.LogSystem("Backup runner stopped", "info", sig.String())
			return
		}
	}
}

// runCycle takes one snapshot at every tier that is due, then enforces
// retention across backups, history rows and archive files
func runCycle(backups services.InterfaceBackupService, history services.InterfaceHistoryService, archive services.InterfaceArchiveService, ops services.InterfaceOperationsService, cfg *config.Config) {
	now := time.Now()

	for _, tier := range dueTiers(now) {
		if _, err := backups.RunBackup(tier); err != nil {
			config.Error("%s backup failed: %v", tier, err)
		}
		if tier == services.BackupTierDaily {
			if _, err := backups.BackupArchive(tier); err != nil {
				config.Error("archive backup failed: %v", err)
			}
		}
	}

	if _, err := backups.CompressOldBackups(); err != nil {
		config.Warning("compression pass failed: %v", err)
	}
	if _, err := backups.Prune(); err != nil {
		config.Warning("prune pass failed: %v", err)
	}

	// Retention runs on the first cycle after midnight
	if now.Hour() == 0 {
		if removed, err := history.CleanupOldRecords(cfg.HistoryRetentionDays); err != nil {
			config.Warning("history cleanup failed: %v", err)
		} else if removed > 0 {
			config.Info("History cleanup removed %d rows", removed)
		}
		if removed, err := archive.CleanupOldData(cfg.ArchiveRetentionDays); err != nil {
			config.Warning("archive cleanup failed: %v", err)
		} else if removed > 0 {
			config.Info("Archive cleanup removed %d day directories", removed)
		}
		if removed, err := ops.CleanupOldEntries(30); err != nil {
			config.Warning("operations log cleanup failed: %v", err)
		} else if removed > 0 {
			config.Info("Operations log cleanup removed %d entries", removed)
		}
	}
}

// dueTiers reports which backup tiers are due at the given time. Hourly
// runs every cycle; daily at midnight; weekly on Sunday midnight;
// monthly on the first of the month at midnight.
func dueTiers(now time.Time) []string {
	tiers := []string{services.BackupTierHourly}
	if now.Hour() == 0 {
		tiers = append(tiers, services.BackupTierDaily)
		if now.Weekday() == time.Sunday {
			tiers = append(tiers, services.BackupTierWeekly)
		}
		if now.Day() == 1 {
			tiers = append(tiers, services.BackupTierMonthly)
		}
	}
	return tiers
}
