package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/utils"
)

// Runway describes one runway at the subject airport
type Runway struct {
	Name       string `json:"name"`
	LengthFeet int    `json:"length_feet"`
	Surface    string `json:"surface"`
}

// AirportInfo is the static facility record for the subject airport
type AirportInfo struct {
	Code          string   `json:"code"`
	ICAO          string   `json:"icao"`
	Name          string   `json:"name"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	ElevationFeet int      `json:"elevation_feet"`
	Timezone      string   `json:"timezone"`
	Runways       []Runway `json:"runways"`
	Airlines      []string `json:"airlines"`
	Destinations  []string `json:"destinations"`
}

// AirportStatistics summarizes today's observed traffic
type AirportStatistics struct {
	Date         string         `json:"date"`
	TotalFlights int64          `json:"total_flights"`
	Arrivals     int64          `json:"arrivals"`
	Departures   int64          `json:"departures"`
	ByAirline    map[string]int `json:"by_airline"`
	ByStatus     map[string]int `json:"by_status"`
	BusiestHour  string         `json:"busiest_hour,omitempty"`
}

// InterfaceAirportService defines airport info operations
type InterfaceAirportService interface {
	GetAirportInfo() *AirportInfo
	GetNASStatus() (map[string]interface{}, error)
	GetStatistics() (*AirportStatistics, error)
}

// AirportService serves the facility record, the FAA national airspace
// status and traffic statistics for the subject airport
type AirportService struct {
	DB     *gorm.DB
	Config *config.Config
	Client *http.Client
}

// NewAirportService creates a new airport service
func NewAirportService(db *gorm.DB, cfg *config.Config) *AirportService {
	return &AirportService{
		DB:     db,
		Config: cfg,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetAirportInfo returns the facility record for Wichita Eisenhower National
func (s *AirportService) GetAirportInfo() *AirportInfo {
	return &AirportInfo{
		Code:          "ICT",
		ICAO:          "KICT",
		Name:          "Wichita Dwight D. Eisenhower National Airport",
		City:          "Wichita",
		State:         "Kansas",
		Latitude:      37.6499,
		Longitude:     -97.4331,
		ElevationFeet: 1333,
		Timezone:      "America/Chicago",
		Runways: []Runway{
			{Name: "1L/19R", LengthFeet: 10301, Surface: "Concrete"},
			{Name: "1R/19L", LengthFeet: 7301, Surface: "Concrete"},
			{Name: "14/32", LengthFeet: 6301, Surface: "Concrete"},
		},
		Airlines: []string{
			"American Airlines", "Delta Air Lines", "United Airlines",
			"Southwest Airlines", "Allegiant Air",
		},
		Destinations: []string{
			"ATL", "ORD", "DFW", "DEN", "LAS", "PHX", "IAH", "MSP", "STL",
		},
	}
}

// GetNASStatus proxies the FAA national airspace system status feed
func (s *AirportService) GetNASStatus() (map[string]interface{}, error) {
	resp, err := s.Client.Get(s.Config.NASStatusURL)
	if err != nil {
		return nil, fmt.Errorf("fetch NAS status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NAS status feed returned %d", resp.StatusCode)
	}

	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode NAS status: %w", err)
	}
	return status, nil
}

// GetStatistics aggregates today's flights by airline, status and hour
func (s *AirportService) GetStatistics() (*AirportStatistics, error) {
	var flights []models.Flight
	if err := s.DB.Where("first_seen >= ?", startOfToday()).Find(&flights).Error; err != nil {
		return nil, fmt.Errorf("query today's flights: %w", err)
	}

	stats := &AirportStatistics{
		Date:      time.Now().Format("2006-01-02"),
		ByAirline: make(map[string]int),
		ByStatus:  make(map[string]int),
	}
	byHour := make(map[int]int)

	for _, f := range flights {
		stats.TotalFlights++
		switch f.FlightType {
		case models.FlightTypeArrival:
			stats.Arrivals++
		case models.FlightTypeDeparture:
			stats.Departures++
		}
		if f.Airline != "" {
			stats.ByAirline[f.Airline]++
		}
		if f.Status != "" {
			stats.ByStatus[f.Status]++
		}
		if t, ok := parseFlightHour(f.ScheduledTime); ok {
			byHour[t]++
		}
	}

	bestHour, bestCount := -1, 0
	for hour, count := range byHour {
		if count > bestCount || (count == bestCount && hour < bestHour) {
			bestHour, bestCount = hour, count
		}
	}
	if bestHour >= 0 {
		stats.BusiestHour = fmt.Sprintf("%02d:00-%02d:00", bestHour, bestHour+1)
	}

	return stats, nil
}

func parseFlightHour(scheduled string) (int, bool) {
	t, ok := utils.ParseScheduledTime(scheduled)
	if !ok {
		return 0, false
	}
	return t.Hour(), true
}
