package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
)

// InterfaceHistoryService defines the flight history store operations
type InterfaceHistoryService interface {
	SaveFlight(flight *models.Flight) error
	SaveFlightsBatch(flights []models.Flight) error
	SaveWeatherSnapshots(snapshots map[string]*models.WeatherSnapshot) error
	GetTodaysFlights() (arrivals []models.Flight, departures []models.Flight, err error)
	GetFlightStats() (*models.HistoryStats, error)
	GetFlightsByDateRange(startDate, endDate string) ([]models.Flight, error)
	GetDateRangeStats(startDate, endDate string) (*models.RangeStats, error)
	CleanupOldRecords(daysToKeep int) (int64, error)
}

// HistoryService stores observed flights and weather snapshots in SQLite
type HistoryService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewHistoryService creates a new history service
func NewHistoryService(db *gorm.DB, cfg *config.Config) *HistoryService {
	return &HistoryService{
		DB:     db,
		Config: cfg,
	}
}

// SaveFlight inserts a flight observation, or refreshes the mutable fields
// of the existing row for the same (flight_number, scheduled_time, flight_type)
func (s *HistoryService) SaveFlight(flight *models.Flight) error {
	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "flight_number"},
			{Name: "scheduled_time"},
			{Name: "flight_type"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":       flight.Status,
			"actual_time":  flight.ActualTime,
			"altitude":     flight.Altitude,
			"ground_speed": flight.GroundSpeed,
			"last_updated": time.Now(),
		}),
	}).Create(flight).Error

	if err != nil {
		return fmt.Errorf("failed to save flight %s: %w", flight.FlightNumber, err)
	}
	return nil
}

// SaveFlightsBatch saves multiple flight observations
func (s *HistoryService) SaveFlightsBatch(flights []models.Flight) error {
	var firstErr error
	saved := 0
	for i := range flights {
		if err := s.SaveFlight(&flights[i]); err != nil {
			config.Warning("%v", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		saved++
	}
	config.Info("saved %d flights to history database", saved)
	return firstErr
}

// SaveWeatherSnapshots appends the fetched weather observations
func (s *HistoryService) SaveWeatherSnapshots(snapshots map[string]*models.WeatherSnapshot) error {
	for _, snapshot := range snapshots {
		record := *snapshot
		record.ID = 0
		if err := s.DB.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to save weather snapshot for %s: %w", record.AirportCode, err)
		}
	}
	return nil
}

// GetTodaysFlights returns all flights first seen today, split by type
func (s *HistoryService) GetTodaysFlights() ([]models.Flight, []models.Flight, error) {
	var flights []models.Flight
	err := s.DB.
		Where("first_seen >= ?", startOfToday()).
		Order("first_seen DESC").
		Find(&flights).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve today's flights: %w", err)
	}

	arrivals := []models.Flight{}
	departures := []models.Flight{}
	for _, flight := range flights {
		if flight.FlightType == models.FlightTypeArrival {
			arrivals = append(arrivals, flight)
		} else {
			departures = append(departures, flight)
		}
	}
	return arrivals, departures, nil
}

// GetFlightStats returns counters for today's observed flights
func (s *HistoryService) GetFlightStats() (*models.HistoryStats, error) {
	stats := &models.HistoryStats{}
	today := startOfToday()

	queries := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalToday, s.DB.Model(&models.Flight{}).Where("first_seen >= ?", today)},
		{&stats.ArrivalsToday, s.DB.Model(&models.Flight{}).Where("first_seen >= ? AND flight_type = ?", today, models.FlightTypeArrival)},
		{&stats.DeparturesToday, s.DB.Model(&models.Flight{}).Where("first_seen >= ? AND flight_type = ?", today, models.FlightTypeDeparture)},
		{&stats.Landed, s.DB.Model(&models.Flight{}).Where("first_seen >= ? AND status LIKE ?", today, "%Landed%")},
	}

	for _, q := range queries {
		if err := q.query.Count(q.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to get flight stats: %w", err)
		}
	}
	return stats, nil
}

// GetFlightsByDateRange returns flights first seen within [startDate, endDate],
// dates in YYYY-MM-DD; endDate defaults to today
func (s *HistoryService) GetFlightsByDateRange(startDate, endDate string) ([]models.Flight, error) {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	var flights []models.Flight
	err = s.DB.
		Where("first_seen >= ? AND first_seen < ?", start, end).
		Order("first_seen DESC").
		Find(&flights).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get flights by date range: %w", err)
	}
	return flights, nil
}

// GetDateRangeStats returns counters for a date range
func (s *HistoryService) GetDateRangeStats(startDate, endDate string) (*models.RangeStats, error) {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	stats := &models.RangeStats{
		StartDate: startDate,
		EndDate:   end.AddDate(0, 0, -1).Format("2006-01-02"),
	}

	base := func() *gorm.DB {
		return s.DB.Model(&models.Flight{}).Where("first_seen >= ? AND first_seen < ?", start, end)
	}

	queries := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalFlights, base()},
		{&stats.Arrivals, base().Where("flight_type = ?", models.FlightTypeArrival)},
		{&stats.Departures, base().Where("flight_type = ?", models.FlightTypeDeparture)},
		{&stats.Landed, base().Where("status LIKE ?", "%Landed%")},
		{&stats.Delayed, base().Where("status LIKE ?", "%Delayed%")},
	}

	for _, q := range queries {
		if err := q.query.Count(q.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to get date range stats: %w", err)
		}
	}
	return stats, nil
}

// CleanupOldRecords removes flights first seen more than daysToKeep days ago
func (s *HistoryService) CleanupOldRecords(daysToKeep int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -daysToKeep)

	result := s.DB.Where("first_seen < ?", cutoff).Delete(&models.Flight{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup old records: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		config.Info("cleaned up %d old flight records", result.RowsAffected)
	}
	return result.RowsAffected, nil
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}

	if endDate == "" {
		endDate = time.Now().Format("2006-01-02")
	}
	end, err := time.ParseInLocation("2006-01-02", endDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}

	// Extend the end by one day so the range covers the full last day
	return start, end.AddDate(0, 0, 1), nil
}
