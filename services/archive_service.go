package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/utils"
)

// Archive group names, one directory per flight type
const (
	ArchiveGroupArrivals   = "arrivals"
	ArchiveGroupDepartures = "departures"
)

// InterfaceArchiveService defines the hierarchical archive operations
type InterfaceArchiveService interface {
	AddFlight(flight models.Flight, async bool) error
	GetFlights(group string, days int) ([]ArchiveDocument, error)
	GetFlightHistory(flightNumber, group, date string) (*ArchiveDocument, error)
	CleanupOldData(days int) (int, error)
	GetStatistics() (*ArchiveStats, error)
	Flush()
	Close()
}

// StatusEntry is one observed status change of a flight
type StatusEntry struct {
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Gate      string `json:"gate,omitempty"`
	Terminal  string `json:"terminal,omitempty"`
}

// ArchiveDocument is the per-flight-per-day archive record
type ArchiveDocument struct {
	Flight        models.Flight `json:"flight"`
	Date          string        `json:"date"`
	LastUpdated   string        `json:"last_updated"`
	StatusHistory []StatusEntry `json:"status_history"`
}

// ArchiveStats summarizes the archive contents
type ArchiveStats struct {
	TotalArrivals   int     `json:"total_arrivals"`
	TotalDepartures int     `json:"total_departures"`
	DateRangeStart  string  `json:"date_range_start,omitempty"`
	DateRangeEnd    string  `json:"date_range_end,omitempty"`
	SizeMB          float64 `json:"size_mb"`
}

// ArchiveService keeps a hierarchical file archive of flight observations:
// <root>/{arrivals|departures}/YYYY-MM-DD/<flight>.json, each document
// accumulating a status history across repeated observations.
type ArchiveService struct {
	root    string
	writeCh chan models.Flight
	pending sync.WaitGroup
	done    chan struct{}
	once    sync.Once
}

// NewArchiveService creates the archive directories and starts the async writer
func NewArchiveService(cfg *config.Config) (*ArchiveService, error) {
	s := &ArchiveService{
		root:    cfg.ArchivePath,
		writeCh: make(chan models.Flight, 256),
		done:    make(chan struct{}),
	}

	for _, group := range []string{ArchiveGroupArrivals, ArchiveGroupDepartures} {
		if err := os.MkdirAll(filepath.Join(s.root, group), 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	go s.writerLoop()
	config.Info("archive initialized at %s", s.root)
	return s, nil
}

// writerLoop drains the async write queue
func (s *ArchiveService) writerLoop() {
	defer close(s.done)
	for flight := range s.writeCh {
		if err := s.writeFlight(flight); err != nil {
			config.Error("archive write failed for %s: %v", flight.FlightNumber, err)
		}
		s.pending.Done()
	}
}

// AddFlight stores a flight observation. With async=true the write is queued;
// Flush waits for queued writes to land.
func (s *ArchiveService) AddFlight(flight models.Flight, async bool) error {
	if async {
		s.pending.Add(1)
		s.writeCh <- flight
		return nil
	}
	return s.writeFlight(flight)
}

// Flush waits until all queued writes have completed
func (s *ArchiveService) Flush() {
	s.pending.Wait()
}

// Close flushes the queue and stops the writer
func (s *ArchiveService) Close() {
	s.once.Do(func() {
		s.Flush()
		close(s.writeCh)
		<-s.done
	})
}

func (s *ArchiveService) writeFlight(flight models.Flight) error {
	group := ArchiveGroupDepartures
	if flight.FlightType == models.FlightTypeArrival {
		group = ArchiveGroupArrivals
	}

	// Partition by the scheduled date; observations without a parseable
	// scheduled time land under today
	date := time.Now()
	if t, ok := utils.ParseScheduledTime(flight.ScheduledTime); ok {
		date = t
	}
	dateKey := date.Format("2006-01-02")

	dir := filepath.Join(s.root, group, dateKey)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create date directory: %w", err)
	}

	path := filepath.Join(dir, utils.SanitizeFileName(flight.FlightNumber)+".json")

	doc := ArchiveDocument{
		Flight: flight,
		Date:   dateKey,
	}
	if data, err := os.ReadFile(path); err == nil {
		var existing ArchiveDocument
		if err := json.Unmarshal(data, &existing); err == nil {
			doc.StatusHistory = existing.StatusHistory
		}
	}

	doc.LastUpdated = time.Now().Format(time.RFC3339)
	doc.StatusHistory = append(doc.StatusHistory, StatusEntry{
		Timestamp: doc.LastUpdated,
		Status:    flight.Status,
	})

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal archive document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write archive document: %w", err)
	}
	return nil
}

// GetFlights returns archived documents of a group from the last N days
func (s *ArchiveService) GetFlights(group string, days int) ([]ArchiveDocument, error) {
	groupDir := filepath.Join(s.root, group)
	entries, err := os.ReadDir(groupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ArchiveDocument{}, nil
		}
		return nil, fmt.Errorf("failed to read archive group: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	docs := []ArchiveDocument{}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		date, err := time.ParseInLocation("2006-01-02", entry.Name(), time.Local)
		if err != nil || date.Before(cutoff) {
			continue
		}

		files, err := os.ReadDir(filepath.Join(groupDir, entry.Name()))
		if err != nil {
			continue
		}
		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
				continue
			}
			doc, err := s.readDocument(filepath.Join(groupDir, entry.Name(), file.Name()))
			if err != nil {
				config.Warning("skipping unreadable archive document %s: %v", file.Name(), err)
				continue
			}
			docs = append(docs, *doc)
		}
	}

	return docs, nil
}

// GetFlightHistory returns the full archived document for one flight on one date
func (s *ArchiveService) GetFlightHistory(flightNumber, group, date string) (*ArchiveDocument, error) {
	path := filepath.Join(s.root, group, date, utils.SanitizeFileName(flightNumber)+".json")
	doc, err := s.readDocument(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

func (s *ArchiveService) readDocument(path string) (*ArchiveDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc ArchiveDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode archive document: %w", err)
	}
	return &doc, nil
}

// CleanupOldData removes date directories older than the given number of days
func (s *ArchiveService) CleanupOldData(days int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	removed := 0

	for _, group := range []string{ArchiveGroupArrivals, ArchiveGroupDepartures} {
		groupDir := filepath.Join(s.root, group)
		entries, err := os.ReadDir(groupDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			date, err := time.ParseInLocation("2006-01-02", entry.Name(), time.Local)
			if err != nil || !date.Before(cutoff) {
				continue
			}
			if err := os.RemoveAll(filepath.Join(groupDir, entry.Name())); err != nil {
				return removed, fmt.Errorf("failed to remove archive directory %s: %w", entry.Name(), err)
			}
			removed++
		}
	}

	config.Info("cleaned up %d archive date groups older than %d days", removed, days)
	return removed, nil
}

// GetStatistics reports totals, covered date range and size on disk
func (s *ArchiveService) GetStatistics() (*ArchiveStats, error) {
	stats := &ArchiveStats{}
	var dates []string
	var sizeBytes int64

	for _, group := range []string{ArchiveGroupArrivals, ArchiveGroupDepartures} {
		groupDir := filepath.Join(s.root, group)
		entries, err := os.ReadDir(groupDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dates = append(dates, entry.Name())

			files, err := os.ReadDir(filepath.Join(groupDir, entry.Name()))
			if err != nil {
				continue
			}
			count := 0
			for _, file := range files {
				if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
					continue
				}
				count++
				if info, err := file.Info(); err == nil {
					sizeBytes += info.Size()
				}
			}
			if group == ArchiveGroupArrivals {
				stats.TotalArrivals += count
			} else {
				stats.TotalDepartures += count
			}
		}
	}

	if len(dates) > 0 {
		min, max := dates[0], dates[0]
		for _, d := range dates[1:] {
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
		}
		stats.DateRangeStart = min
		stats.DateRangeEnd = max
	}
	stats.SizeMB = roundTo(float64(sizeBytes)/(1024*1024), 2)

	return stats, nil
}
