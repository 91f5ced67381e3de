package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
)

// Wide search area (~400 mile radius) so inbound flights are captured while
// still in the air, not just overhead.
const (
	radarLatMin = 34.0
	radarLatMax = 41.0
	radarLonMin = -102.0
	radarLonMax = -92.0
)

// InterfaceRadarService defines the radar feed operations
type InterfaceRadarService interface {
	FetchFlights() ([]models.Flight, error)
}

// RadarService fetches the Flightradar24 zone feed and filters it to flights
// arriving at or departing from the subject airport
type RadarService struct {
	Config *config.Config
	Client *http.Client
}

// NewRadarService creates a new radar service
func NewRadarService(cfg *config.Config) *RadarService {
	return &RadarService{
		Config: cfg,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchFlights fetches live flights bound to or from the subject airport
func (s *RadarService) FetchFlights() ([]models.Flight, error) {
	params := url.Values{}
	params.Set("bounds", fmt.Sprintf("%.1f,%.1f,%.1f,%.1f", radarLatMax, radarLatMin, radarLonMax, radarLonMin))
	params.Set("faa", "1")
	params.Set("satellite", "1")
	params.Set("mlat", "1")
	params.Set("flarm", "1")
	params.Set("adsb", "1")
	params.Set("gnd", "0")
	params.Set("air", "1")
	params.Set("vehicles", "0")
	params.Set("estimated", "1")
	params.Set("maxage", "14400")
	params.Set("gliders", "0")
	params.Set("stats", "1")

	req, err := http.NewRequest(http.MethodGet, s.Config.RadarAPIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error building radar request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching radar feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("radar feed returned status code %d", resp.StatusCode)
	}

	// The feed is a JSON object whose flight entries are arrays keyed by hex
	// code, mixed with scalar bookkeeping fields (full_count, version).
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("error decoding radar feed: %w", err)
	}

	airport := s.Config.AirportCode
	var flights []models.Flight
	for key, value := range raw {
		var row []interface{}
		if err := json.Unmarshal(value, &row); err != nil {
			continue
		}
		if len(row) < 13 {
			continue
		}

		origin := stateString(row, 11)
		destination := stateString(row, 12)
		if origin != airport && destination != airport {
			continue
		}

		flight := s.parseRow(key, row, origin, destination)
		flights = append(flights, flight)
	}

	config.Info("fetched %d %s-bound flights from radar feed", len(flights), airport)
	return flights, nil
}

// parseRow converts one feed array into a Flight.
// Index layout: 1 lat, 2 lon, 3 heading, 4 altitude, 5 ground speed,
// 8 aircraft type, 9 registration, 11 origin, 12 destination, 13 callsign,
// 18 airline.
func (s *RadarService) parseRow(key string, row []interface{}, origin, destination string) models.Flight {
	isArrival := destination == s.Config.AirportCode

	flightNumber := stateString(row, 13)
	if flightNumber == "" {
		flightNumber = key
	}

	airline := stateString(row, 18)
	if airline == "" {
		airline = "Unknown"
	}

	aircraftType := stateString(row, 8)
	if aircraftType == "" {
		aircraftType = "Unknown"
	}

	registration := stateString(row, 9)
	if registration == "" {
		registration = "N/A"
	}

	flightType := models.FlightTypeDeparture
	status := "Departing"
	if isArrival {
		flightType = models.FlightTypeArrival
		status = "Arriving"
	}

	flight := models.Flight{
		FlightNumber:         flightNumber,
		Airline:              airline,
		Origin:               origin,
		Destination:          destination,
		FlightType:           flightType,
		ScheduledTime:        "N/A",
		ActualTime:           "N/A",
		Status:               status,
		AircraftType:         aircraftType,
		AircraftRegistration: registration,
		Source:               "Flightradar24",
	}

	if lat := stateFloat(row, 1); lat != nil {
		flight.Latitude = lat
	}
	if lon := stateFloat(row, 2); lon != nil {
		flight.Longitude = lon
	}
	if hdg := stateFloat(row, 3); hdg != nil {
		flight.Heading = hdg
	}
	if alt := stateFloat(row, 4); alt != nil {
		flight.Altitude = int(*alt)
	}
	if spd := stateFloat(row, 5); spd != nil {
		flight.GroundSpeed = int(*spd)
	}

	return flight
}
