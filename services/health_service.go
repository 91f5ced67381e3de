package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gorm.io/gorm"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
)

// Health statuses, ordered by severity
const (
	HealthStatusHealthy  = "healthy"
	HealthStatusWarning  = "warning"
	HealthStatusDegraded = "degraded"
	HealthStatusCritical = "critical"
)

// HealthCheck is the result of one subsystem probe
type HealthCheck struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthReport is the rollup of all subsystem probes
type HealthReport struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
}

// InterfaceHealthService defines the health monitor operations
type InterfaceHealthService interface {
	CheckAll() *HealthReport
	LastReport() (*HealthReport, error)
}

// HealthService probes the database, archive, backups, cache and Go
// runtime, and persists the latest report for the dashboard
type HealthService struct {
	DB      *gorm.DB
	Redis   InterfaceRedisService
	Backups InterfaceBackupService
	ops     InterfaceOperationsService

	archiveRoot string
	statusPath  string
	// a backup older than twice the schedule interval flags a warning
	backupMaxAge time.Duration
}

// NewHealthService creates a new health monitor
func NewHealthService(db *gorm.DB, redis InterfaceRedisService, backups InterfaceBackupService, ops InterfaceOperationsService, cfg *config.Config) *HealthService {
	return &HealthService{
		DB:           db,
		Redis:        redis,
		Backups:      backups,
		ops:          ops,
		archiveRoot:  cfg.ArchivePath,
		statusPath:   filepath.Join(cfg.LogDir, "health_status.json"),
		backupMaxAge: 2 * time.Duration(cfg.BackupIntervalMinutes) * time.Minute,
	}
}

// CheckAll runs every probe, persists the report and returns it
func (s *HealthService) CheckAll() *HealthReport {
	report := &HealthReport{
		Timestamp: time.Now().Format(time.RFC3339),
		Checks: map[string]HealthCheck{
			"database": s.checkDatabase(),
			"archive":  s.checkArchive(),
			"backups":  s.checkBackups(),
			"cache":    s.checkCache(),
			"runtime":  s.checkRuntime(),
		},
	}
	report.Status = rollupStatus(report.Checks)

	if data, err := json.MarshalIndent(report, "", "  "); err == nil {
		if err := os.WriteFile(s.statusPath, data, 0o644); err != nil {
			config.Warning("Failed to persist health report: %v", err)
		}
	}

	if s.ops != nil {
		status := models.OpStatusInfo
		if report.Status == HealthStatusCritical || report.Status == HealthStatusDegraded {
			status = models.OpStatusError
		} else if report.Status == HealthStatusWarning {
			status = models.OpStatusWarning
		}
		s.ops.LogMonitoring("Health check", status, fmt.Sprintf("overall: %s", report.Status))
	}

	return report
}

// LastReport loads the most recently persisted report
func (s *HealthService) LastReport() (*HealthReport, error) {
	data, err := os.ReadFile(s.statusPath)
	if err != nil {
		return nil, err
	}
	var report HealthReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *HealthService) checkDatabase() HealthCheck {
	sqlDB, err := s.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		return HealthCheck{
			Status:  HealthStatusCritical,
			Message: fmt.Sprintf("database unreachable: %v", err),
		}
	}

	var total, today int64
	s.DB.Model(&models.Flight{}).Count(&total)
	s.DB.Model(&models.Flight{}).Where("first_seen >= ?", startOfToday()).Count(&today)

	check := HealthCheck{
		Status:  HealthStatusHealthy,
		Message: "database reachable",
		Details: map[string]interface{}{
			"total_flights": total,
			"flights_today": today,
		},
	}
	if today == 0 {
		check.Status = HealthStatusWarning
		check.Message = "no flights recorded today"
	}
	return check
}

func (s *HealthService) checkArchive() HealthCheck {
	fi, err := os.Stat(s.archiveRoot)
	if err != nil || !fi.IsDir() {
		return HealthCheck{
			Status:  HealthStatusWarning,
			Message: "archive directory missing",
		}
	}

	// Verify the tree is writable
	probe := filepath.Join(s.archiveRoot, ".health_probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return HealthCheck{
			Status:  HealthStatusCritical,
			Message: fmt.Sprintf("archive not writable: %v", err),
		}
	}
	os.Remove(probe)

	return HealthCheck{Status: HealthStatusHealthy, Message: "archive writable"}
}

func (s *HealthService) checkBackups() HealthCheck {
	if s.Backups == nil {
		return HealthCheck{Status: HealthStatusWarning, Message: "backup manager not configured"}
	}
	backups, err := s.Backups.ListBackups()
	if err != nil {
		return HealthCheck{
			Status:  HealthStatusWarning,
			Message: fmt.Sprintf("cannot list backups: %v", err),
		}
	}
	if len(backups) == 0 {
		return HealthCheck{Status: HealthStatusWarning, Message: "no backups on disk"}
	}

	newest := backups[0]
	age := time.Since(newest.CreatedAt)
	check := HealthCheck{
		Status:  HealthStatusHealthy,
		Message: "backups current",
		Details: map[string]interface{}{
			"total":       len(backups),
			"newest":      newest.Name,
			"age_minutes": int(age.Minutes()),
		},
	}
	if age > s.backupMaxAge {
		check.Status = HealthStatusWarning
		check.Message = fmt.Sprintf("newest backup is %s old", age.Round(time.Minute))
	}
	return check
}

func (s *HealthService) checkCache() HealthCheck {
	if s.Redis == nil {
		return HealthCheck{Status: HealthStatusWarning, Message: "cache not configured"}
	}
	if err := s.Redis.Ping(); err != nil {
		// Cache loss degrades latency, not correctness
		return HealthCheck{
			Status:  HealthStatusWarning,
			Message: fmt.Sprintf("cache unreachable: %v", err),
		}
	}
	return HealthCheck{Status: HealthStatusHealthy, Message: "cache reachable"}
}

func (s *HealthService) checkRuntime() HealthCheck {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	heapMB := float64(mem.HeapAlloc) / (1024 * 1024)

	check := HealthCheck{
		Status:  HealthStatusHealthy,
		Message: "runtime nominal",
		Details: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"heap_mb":    roundTo(heapMB, 1),
			"gc_cycles":  mem.NumGC,
			"go_version": runtime.Version(),
		},
	}
	if heapMB > 512 {
		check.Status = HealthStatusWarning
		check.Message = fmt.Sprintf("heap usage high (%.0f MB)", heapMB)
	}
	return check
}

// rollupStatus folds subsystem statuses into one overall status: any
// critical probe is critical, two or more warnings is degraded, one
// warning is warning
func rollupStatus(checks map[string]HealthCheck) string {
	warnings := 0
	for _, c := range checks {
		switch c.Status {
		case HealthStatusCritical:
			return HealthStatusCritical
		case HealthStatusWarning:
			warnings++
		}
	}
	switch {
	case warnings >= 2:
		return HealthStatusDegraded
	case warnings == 1:
		return HealthStatusWarning
	default:
		return HealthStatusHealthy
	}
}
