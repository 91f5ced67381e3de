package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
)

// Cap on retained entries; oldest entries roll off first
const operationsLogCap = 500

// InterfaceOperationsService defines the operations log
type InterfaceOperationsService interface {
	Log(category, operation, status, details string) *models.OperationEntry
	LogBackup(operation, status, details string) *models.OperationEntry
	LogDataFetch(operation, status, details string) *models.OperationEntry
	LogSystem(operation, status, details string) *models.OperationEntry
	LogMonitoring(operation, status, details string) *models.OperationEntry
	GetOperations(date string, limit int) ([]models.OperationEntry, error)
	GetRecent(hours int) ([]models.OperationEntry, error)
	GetSummary(date string) (*models.OperationsSummary, error)
	CleanupOldEntries(days int) (int, error)
}

// OperationsService keeps a rolling JSON log of system operations
// (backups, feed fetches, health checks) for the dashboard timeline
type OperationsService struct {
	path string
	mu   sync.Mutex
}

// NewOperationsService creates a new operations log service
func NewOperationsService(cfg *config.Config) (*OperationsService, error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &OperationsService{
		path: filepath.Join(cfg.LogDir, "daily_operations.json"),
	}, nil
}

// Log appends an operation entry and persists the log
func (s *OperationsService) Log(category, operation, status, details string) *models.OperationEntry {
	now := time.Now()
	entry := models.OperationEntry{
		ID:        uuid.New().String(),
		Timestamp: now.Format(time.RFC3339),
		Date:      now.Format("2006-01-02"),
		Time:      now.Format("15:04:05"),
		Category:  category,
		Operation: operation,
		Status:    status,
		Details:   details,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		config.Warning("Operations log unreadable, starting fresh: %v", err)
		entries = nil
	}
	entries = append(entries, entry)
	if len(entries) > operationsLogCap {
		entries = entries[len(entries)-operationsLogCap:]
	}
	if err := s.save(entries); err != nil {
		config.Error("Failed to persist operations log: %v", err)
	}

	return &entry
}

// LogBackup records a backup operation
func (s *OperationsService) LogBackup(operation, status, details string) *models.OperationEntry {
	return s.Log(models.OpCategoryBackup, operation, status, details)
}

// LogDataFetch records a feed fetch operation
func (s *OperationsService) LogDataFetch(operation, status, details string) *models.OperationEntry {
	return s.Log(models.OpCategoryDataFetch, operation, status, details)
}

// LogSystem records a system lifecycle operation
func (s *OperationsService) LogSystem(operation, status, details string) *models.OperationEntry {
	return s.Log(models.OpCategorySystem, operation, status, details)
}

// LogMonitoring records a health monitoring operation
func (s *OperationsService) LogMonitoring(operation, status, details string) *models.OperationEntry {
	return s.Log(models.OpCategoryMonitoring, operation, status, details)
}

// GetOperations returns entries for a date (empty date means today),
// newest first, up to limit (0 means no limit)
func (s *OperationsService) GetOperations(date string, limit int) ([]models.OperationEntry, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	s.mu.Lock()
	entries, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	matched := make([]models.OperationEntry, 0)
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Date != date {
			continue
		}
		matched = append(matched, entries[i])
		if limit > 0 && len(matched) >= limit {
			break
		}
	}
	return matched, nil
}

// GetRecent returns entries from the last N hours, newest first
func (s *OperationsService) GetRecent(hours int) ([]models.OperationEntry, error) {
	if hours <= 0 {
		hours = 24
	}
	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)

	s.mu.Lock()
	entries, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	matched := make([]models.OperationEntry, 0)
	for i := len(entries) - 1; i >= 0; i-- {
		ts, err := time.Parse(time.RFC3339, entries[i].Timestamp)
		if err != nil || ts.Before(cutoff) {
			continue
		}
		matched = append(matched, entries[i])
	}
	return matched, nil
}

// GetSummary aggregates one day of entries by category and status
func (s *OperationsService) GetSummary(date string) (*models.OperationsSummary, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	entries, err := s.GetOperations(date, 0)
	if err != nil {
		return nil, err
	}

	summary := &models.OperationsSummary{
		Date:       date,
		ByCategory: make(map[string]int),
		ByStatus:   make(map[string]int),
		Timeline:   make([]models.TimelineEvent, 0, len(entries)),
	}
	for _, e := range entries {
		summary.TotalOperations++
		summary.ByCategory[e.Category]++
		summary.ByStatus[e.Status]++
		summary.Timeline = append(summary.Timeline, models.TimelineEvent{
			Time:      e.Time,
			Category:  e.Category,
			Operation: e.Operation,
			Status:    e.Status,
		})
	}
	return summary, nil
}

// CleanupOldEntries drops entries older than the given number of days
// and rewrites the log. Returns how many entries were removed.
func (s *OperationsService) CleanupOldEntries(days int) (int, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return 0, err
	}

	kept := make([]models.OperationEntry, 0, len(entries))
	for _, e := range entries {
		if e.Date >= cutoff {
			kept = append(kept, e)
		}
	}

	removed := len(entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *OperationsService) load() ([]models.OperationEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []models.OperationEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *OperationsService) save(entries []models.OperationEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
