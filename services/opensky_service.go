package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
)

// Wichita area bounding box
const (
	openSkyLatMin = 37.45
	openSkyLonMin = -97.57
	openSkyLatMax = 38.05
	openSkyLonMax = -97.17
)

// InterfaceOpenSkyService defines the OpenSky feed operations
type InterfaceOpenSkyService interface {
	FetchFlights() ([]models.Flight, error)
}

// OpenSkyService fetches live state vectors from the OpenSky Network
type OpenSkyService struct {
	Config *config.Config
	Client *http.Client
}

// openSkyResponse is the /states/all payload; each state is a mixed-type array
type openSkyResponse struct {
	Time   int64           `json:"time"`
	States [][]interface{} `json:"states"`
}

// NewOpenSkyService creates a new OpenSky service
func NewOpenSkyService(cfg *config.Config) *OpenSkyService {
	return &OpenSkyService{
		Config: cfg,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchFlights fetches live flights in the airport area
func (s *OpenSkyService) FetchFlights() ([]models.Flight, error) {
	params := url.Values{}
	params.Set("lamin", fmt.Sprintf("%.2f", openSkyLatMin))
	params.Set("lomin", fmt.Sprintf("%.2f", openSkyLonMin))
	params.Set("lamax", fmt.Sprintf("%.2f", openSkyLatMax))
	params.Set("lomax", fmt.Sprintf("%.2f", openSkyLonMax))

	resp, err := s.Client.Get(s.Config.OpenSkyAPIURL + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("error fetching OpenSky states: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenSky API returned status code %d", resp.StatusCode)
	}

	var apiResp openSkyResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("error decoding OpenSky response: %w", err)
	}

	flights := make([]models.Flight, 0, len(apiResp.States))
	for _, state := range apiResp.States {
		flight, ok := s.parseState(state)
		if !ok {
			continue
		}
		flights = append(flights, flight)
	}

	config.Info("fetched %d live flights from OpenSky for %s area", len(flights), s.Config.AirportCode)
	return flights, nil
}

// parseState converts one OpenSky state vector into a Flight.
// Index layout: 1 callsign, 2 origin country, 5 lon, 6 lat, 7 baro altitude,
// 9 velocity, 10 true track, 14 on ground.
func (s *OpenSkyService) parseState(state []interface{}) (models.Flight, bool) {
	if len(state) < 15 {
		return models.Flight{}, false
	}

	callsign := stateString(state, 1)
	if callsign == "" {
		callsign = "N/A"
	}

	flightType := models.FlightTypeDeparture
	if onGround, ok := state[14].(bool); ok && onGround {
		flightType = models.FlightTypeArrival
	}

	flight := models.Flight{
		FlightNumber:  strings.TrimSpace(callsign),
		Airline:       "OpenSky Flight",
		Origin:        stateString(state, 2),
		Destination:   s.Config.AirportCode,
		FlightType:    flightType,
		ScheduledTime: "N/A",
		ActualTime:    "N/A",
		Status:        "In Flight",
		AircraftType:  "Aircraft",
		Source:        "OpenSky",
	}

	if lon := stateFloat(state, 5); lon != nil {
		flight.Longitude = lon
	}
	if lat := stateFloat(state, 6); lat != nil {
		flight.Latitude = lat
	}
	if alt := stateFloat(state, 7); alt != nil {
		flight.Altitude = int(*alt)
	}
	if vel := stateFloat(state, 9); vel != nil {
		flight.GroundSpeed = int(*vel)
	}
	if trk := stateFloat(state, 10); trk != nil {
		flight.Heading = trk
	}

	return flight, true
}

func stateString(state []interface{}, idx int) string {
	if idx >= len(state) {
		return ""
	}
	if s, ok := state[idx].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func stateFloat(state []interface{}, idx int) *float64 {
	if idx >= len(state) {
		return nil
	}
	if f, ok := state[idx].(float64); ok {
		return &f
	}
	return nil
}
