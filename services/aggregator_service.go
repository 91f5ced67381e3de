package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
)

// FeedSnapshot is one merged view of all upstream feeds
type FeedSnapshot struct {
	Arrivals   []models.Flight         `json:"arrivals"`
	Departures []models.Flight         `json:"departures"`
	Live       []models.Flight         `json:"live"`
	Weather    *models.WeatherSnapshot `json:"weather,omitempty"`
	Sources    []string                `json:"sources"`
	FetchedAt  time.Time               `json:"fetched_at"`
}

// InterfaceAggregatorService defines the feed aggregation operations
type InterfaceAggregatorService interface {
	GetSnapshot() (*FeedSnapshot, error)
	Refresh() (*FeedSnapshot, error)
	GetArrivals() ([]models.Flight, error)
	GetDepartures() ([]models.Flight, error)
	GetLiveFlights() ([]models.Flight, error)
}

// AggregatorService merges the radar, board and weather feeds into one
// snapshot, persists the observed flights, and keeps the snapshot fresh
// behind a short in-memory window plus the Redis cache
type AggregatorService struct {
	Radar   InterfaceRadarService
	OpenSky InterfaceOpenSkyService
	Board   InterfaceBoardService
	Weather InterfaceWeatherService
	History InterfaceHistoryService
	Archive InterfaceArchiveService
	Redis   InterfaceRedisService
	ops     InterfaceOperationsService

	airportCode string
	window      time.Duration

	mu   sync.Mutex
	last *FeedSnapshot
}

// NewAggregatorService creates a new aggregator service
func NewAggregatorService(
	radar InterfaceRadarService,
	openSky InterfaceOpenSkyService,
	board InterfaceBoardService,
	weather InterfaceWeatherService,
	history InterfaceHistoryService,
	archive InterfaceArchiveService,
	redis InterfaceRedisService,
	ops InterfaceOperationsService,
	cfg *config.Config,
) *AggregatorService {
	return &AggregatorService{
		Radar:       radar,
		OpenSky:     openSky,
		Board:       board,
		Weather:     weather,
		History:     history,
		Archive:     archive,
		Redis:       redis,
		ops:         ops,
		airportCode: cfg.AirportCode,
		window:      time.Duration(cfg.FeedCacheTTLSeconds) * time.Second,
	}
}

// GetSnapshot returns the freshest available snapshot. A snapshot newer
// than the freshness window is served from memory, then from Redis,
// before the upstream feeds are hit again.
func (s *AggregatorService) GetSnapshot() (*FeedSnapshot, error) {
	s.mu.Lock()
	if s.last != nil && time.Since(s.last.FetchedAt) < s.window {
		snap := s.last
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	if s.Redis != nil {
		var cached FeedSnapshot
		if err := s.Redis.GetFlights("snapshot", &cached); err == nil &&
			time.Since(cached.FetchedAt) < s.window {
			s.mu.Lock()
			s.last = &cached
			s.mu.Unlock()
			return &cached, nil
		}
	}

	return s.Refresh()
}

// Refresh fetches all upstream feeds, merges them, persists the result
// and updates the caches
func (s *AggregatorService) Refresh() (*FeedSnapshot, error) {
	var (
		wg      sync.WaitGroup
		radar   []models.Flight
		board   *Board
		weather *models.WeatherSnapshot

		radarSource string
		radarErr    error
		boardErr    error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		radar, radarSource, radarErr = s.fetchRadar()
	}()
	go func() {
		defer wg.Done()
		board, boardErr = s.Board.FetchBoard()
	}()
	go func() {
		defer wg.Done()
		var err error
		weather, err = s.fetchSubjectWeather()
		if err != nil {
			config.Warning("Weather fetch failed: %v", err)
		}
	}()
	wg.Wait()

	if radarErr != nil && boardErr != nil {
		if s.ops != nil {
			s.ops.LogDataFetch("Feed refresh", models.OpStatusError,
				fmt.Sprintf("all feeds failed: radar: %v; board: %v", radarErr, boardErr))
		}
		return nil, fmt.Errorf("all flight feeds failed: radar: %v; board: %v", radarErr, boardErr)
	}
	if radarErr != nil {
		config.Warning("Radar feeds unavailable: %v", radarErr)
	}
	if boardErr != nil {
		config.Warning("Board feed unavailable: %v", boardErr)
		board = &Board{}
	}

	snap := s.merge(radar, board, weather)
	if radarSource != "" {
		snap.Sources = append(snap.Sources, radarSource)
	}
	if boardErr == nil {
		snap.Sources = append(snap.Sources, "Airportia")
	}
	if weather != nil {
		snap.Sources = append(snap.Sources, "Open-Meteo")
	}

	s.persist(snap)

	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()
	if s.Redis != nil {
		// redis.Nil here just means the cache is disabled
		if err := s.Redis.CacheFlights("snapshot", snap); err != nil && !errors.Is(err, redis.Nil) {
			config.Warning("Failed to cache feed snapshot: %v", err)
		}
	}

	if s.ops != nil {
		s.ops.LogDataFetch("Feed refresh", models.OpStatusSuccess,
			fmt.Sprintf("%d arrivals, %d departures, %d live",
				len(snap.Arrivals), len(snap.Departures), len(snap.Live)))
	}
	return snap, nil
}

// GetArrivals returns the merged arrival list
func (s *AggregatorService) GetArrivals() ([]models.Flight, error) {
	snap, err := s.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return snap.Arrivals, nil
}

// GetDepartures returns the merged departure list
func (s *AggregatorService) GetDepartures() ([]models.Flight, error) {
	snap, err := s.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return snap.Departures, nil
}

// GetLiveFlights returns the airborne radar contacts
func (s *AggregatorService) GetLiveFlights() ([]models.Flight, error) {
	snap, err := s.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return snap.Live, nil
}

// fetchRadar tries Flightradar24 first and falls back to OpenSky
func (s *AggregatorService) fetchRadar() ([]models.Flight, string, error) {
	flights, err := s.Radar.FetchFlights()
	if err == nil {
		return flights, "Flightradar24", nil
	}
	config.Warning("Flightradar24 fetch failed, falling back to OpenSky: %v", err)

	flights, skyErr := s.OpenSky.FetchFlights()
	if skyErr != nil {
		return nil, "", fmt.Errorf("flightradar24: %v; opensky: %v", err, skyErr)
	}
	return flights, "OpenSky", nil
}

func (s *AggregatorService) fetchSubjectWeather() (*models.WeatherSnapshot, error) {
	for _, airport := range TrackedAirports {
		if airport.Code == s.airportCode {
			return s.Weather.FetchAirportWeather(airport)
		}
	}
	return nil, fmt.Errorf("airport %s not tracked", s.airportCode)
}

// merge combines board rows (authoritative for schedule and status) with
// radar contacts (telemetry), deduplicating by flight number first-wins
func (s *AggregatorService) merge(radar []models.Flight, board *Board, weather *models.WeatherSnapshot) *FeedSnapshot {
	byNumber := make(map[string]models.Flight, len(radar))
	for _, f := range radar {
		key := normalizeFlightNumber(f.FlightNumber)
		if _, seen := byNumber[key]; !seen {
			byNumber[key] = f
		}
	}

	arrivals := mergeGroup(board.Arrivals, byNumber)
	departures := mergeGroup(board.Departures, byNumber)

	// Radar contacts the board never listed
	for _, f := range radar {
		key := normalizeFlightNumber(f.FlightNumber)
		if contact, ok := byNumber[key]; ok {
			if f.FlightType == models.FlightTypeArrival {
				arrivals = append(arrivals, contact)
			} else {
				departures = append(departures, contact)
			}
			delete(byNumber, key)
		}
	}

	for i := range arrivals {
		arrivals[i].AttachWeather(weather)
	}
	for i := range departures {
		departures[i].AttachWeather(weather)
	}

	return &FeedSnapshot{
		Arrivals:   arrivals,
		Departures: departures,
		Live:       radar,
		Weather:    weather,
		FetchedAt:  time.Now(),
	}
}

// mergeGroup enriches board rows with matching radar telemetry and keeps
// the first row seen per flight number. A board match consumes the radar
// contact even when the feeds disagree on direction, so a flight number
// never lands in both groups.
func mergeGroup(boardRows []models.Flight, radarByNumber map[string]models.Flight) []models.Flight {
	merged := make([]models.Flight, 0, len(boardRows))
	seen := make(map[string]bool, len(boardRows))

	for _, row := range boardRows {
		key := normalizeFlightNumber(row.FlightNumber)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		if contact, ok := radarByNumber[key]; ok {
			row.Altitude = contact.Altitude
			row.GroundSpeed = contact.GroundSpeed
			row.Latitude = contact.Latitude
			row.Longitude = contact.Longitude
			row.Heading = contact.Heading
			if row.AircraftType == "" {
				row.AircraftType = contact.AircraftType
			}
			if row.AircraftRegistration == "" {
				row.AircraftRegistration = contact.AircraftRegistration
			}
			delete(radarByNumber, key)
		}
		merged = append(merged, row)
	}
	return merged
}

func (s *AggregatorService) persist(snap *FeedSnapshot) {
	all := make([]models.Flight, 0, len(snap.Arrivals)+len(snap.Departures))
	all = append(all, snap.Arrivals...)
	all = append(all, snap.Departures...)
	if len(all) == 0 {
		return
	}

	if s.History != nil {
		if err := s.History.SaveFlightsBatch(all); err != nil {
			config.Error("Failed to persist flights: %v", err)
		}
		if snap.Weather != nil {
			snapshots := map[string]*models.WeatherSnapshot{s.airportCode: snap.Weather}
			if err := s.History.SaveWeatherSnapshots(snapshots); err != nil {
				config.Error("Failed to persist weather snapshot: %v", err)
			}
		}
	}
	if s.Archive != nil {
		for _, f := range all {
			if err := s.Archive.AddFlight(f, true); err != nil {
				config.Warning("Failed to queue archive write for %s: %v", f.FlightNumber, err)
			}
		}
	}
}

func normalizeFlightNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}
