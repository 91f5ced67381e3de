package services

import (
	"bytes"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
)

type fakeRadar struct {
	flights []models.Flight
	err     error
	calls   atomic.Int64
}

func (f *fakeRadar) FetchFlights() ([]models.Flight, error) {
	f.calls.Add(1)
	return f.flights, f.err
}

type fakeOpenSky struct {
	flights []models.Flight
	err     error
	calls   atomic.Int64
}

func (f *fakeOpenSky) FetchFlights() ([]models.Flight, error) {
	f.calls.Add(1)
	return f.flights, f.err
}

type fakeBoard struct {
	board *Board
	err   error
}

func (f *fakeBoard) FetchBoard() (*Board, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.board, nil
}

type fakeWeather struct {
	snapshot *models.WeatherSnapshot
	err      error
}

func (f *fakeWeather) FetchAirportWeather(airport Airport) (*models.WeatherSnapshot, error) {
	return f.snapshot, f.err
}

func (f *fakeWeather) FetchAllAirports() (map[string]*models.WeatherSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return map[string]*models.WeatherSnapshot{"ICT": f.snapshot}, nil
}

func aggregatorConfig() *config.Config {
	return &config.Config{AirportCode: "ICT", FeedCacheTTLSeconds: 15}
}

func radarContact(number string) models.Flight {
	lat, lon := 37.1, -96.8
	return models.Flight{
		FlightNumber: number,
		FlightType:   models.FlightTypeArrival,
		Status:       "Arriving",
		Source:       "Flightradar24",
		Altitude:     21000,
		GroundSpeed:  380,
		Latitude:     &lat,
		Longitude:    &lon,
		AircraftType: "E75L",
	}
}

func boardArrival(number string) models.Flight {
	return models.Flight{
		FlightNumber:  number,
		Airline:       "American Airlines",
		Origin:        "DFW",
		Destination:   "ICT",
		FlightType:    models.FlightTypeArrival,
		ScheduledTime: "10:15",
		ActualTime:    "10:15",
		Status:        "En Route",
		Source:        "Airportia",
	}
}

func TestRefreshMergesBoardAndRadar(t *testing.T) {
	radar := &fakeRadar{flights: []models.Flight{radarContact("AA3521"), radarContact("WN999")}}
	board := &fakeBoard{board: &Board{Arrivals: []models.Flight{boardArrival("AA3521")}}}
	weather := &fakeWeather{snapshot: &models.WeatherSnapshot{
		AirportCode: "ICT", Temperature: 71.0, Condition: "Clear", WindSpeed: 9.0,
		Visibility: 10.0, Humidity: 40,
	}}

	s := NewAggregatorService(radar, &fakeOpenSky{}, board, weather,
		nil, nil, nil, nil, aggregatorConfig())

	snap, err := s.Refresh()
	require.NoError(t, err)
	// Board row enriched with telemetry plus the radar-only contact
	require.Len(t, snap.Arrivals, 2)

	merged := snap.Arrivals[0]
	assert.Equal(t, "AA3521", merged.FlightNumber)
	assert.Equal(t, "En Route", merged.Status)
	assert.Equal(t, "10:15", merged.ScheduledTime)
	assert.Equal(t, 21000, merged.Altitude)
	assert.Equal(t, 380, merged.GroundSpeed)
	assert.Equal(t, "E75L", merged.AircraftType)
	require.NotNil(t, merged.Latitude)

	extra := snap.Arrivals[1]
	assert.Equal(t, "WN999", extra.FlightNumber)
	assert.Equal(t, "Arriving", extra.Status)

	assert.ElementsMatch(t, []string{"Flightradar24", "Airportia", "Open-Meteo"}, snap.Sources)
	assert.Len(t, snap.Live, 2)

	// Weather is attached to every merged flight
	require.NotNil(t, merged.Temperature)
	assert.Equal(t, 71.0, *merged.Temperature)
	assert.Equal(t, "Clear", merged.WeatherCondition)
}

func TestRefreshDeduplicatesBoardRows(t *testing.T) {
	board := &fakeBoard{board: &Board{Arrivals: []models.Flight{
		boardArrival("AA3521"),
		boardArrival("AA3521"),
	}}}
	s := NewAggregatorService(&fakeRadar{}, &fakeOpenSky{}, board, &fakeWeather{},
		nil, nil, nil, nil, aggregatorConfig())

	snap, err := s.Refresh()
	require.NoError(t, err)
	assert.Len(t, snap.Arrivals, 1)
}

func TestRefreshConsumesRadarContactAcrossDirections(t *testing.T) {
	// Radar direction inference can disagree with the board; the board
	// row wins and the contact must not surface a second time
	contact := radarContact("AA3521")
	contact.FlightType = models.FlightTypeDeparture
	radar := &fakeRadar{flights: []models.Flight{contact}}
	board := &fakeBoard{board: &Board{Arrivals: []models.Flight{boardArrival("AA3521")}}}

	s := NewAggregatorService(radar, &fakeOpenSky{}, board, &fakeWeather{},
		nil, nil, nil, nil, aggregatorConfig())

	snap, err := s.Refresh()
	require.NoError(t, err)
	require.Len(t, snap.Arrivals, 1)
	assert.Empty(t, snap.Departures)

	merged := snap.Arrivals[0]
	assert.Equal(t, "En Route", merged.Status)
	assert.Equal(t, 21000, merged.Altitude)
	assert.Equal(t, 380, merged.GroundSpeed)
}

func TestRefreshWithDisabledCacheStaysQuiet(t *testing.T) {
	var buf bytes.Buffer
	prev := config.SetLoggerOutput(&buf)
	defer config.SetLoggerOutput(prev)

	radar := &fakeRadar{flights: []models.Flight{radarContact("AA3521")}}
	board := &fakeBoard{board: &Board{}}

	s := NewAggregatorService(radar, &fakeOpenSky{}, board, &fakeWeather{},
		nil, nil, newDisabledRedis(), nil, aggregatorConfig())

	_, err := s.Refresh()
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Failed to cache feed snapshot")
}

func TestRefreshFallsBackToOpenSky(t *testing.T) {
	radar := &fakeRadar{err: errors.New("rate limited")}
	openSky := &fakeOpenSky{flights: []models.Flight{{
		FlightNumber: "SWA1880",
		FlightType:   models.FlightTypeDeparture,
		Status:       "In Flight",
		Source:       "OpenSky",
	}}}
	board := &fakeBoard{board: &Board{}}

	s := NewAggregatorService(radar, openSky, board, &fakeWeather{},
		nil, nil, nil, nil, aggregatorConfig())

	snap, err := s.Refresh()
	require.NoError(t, err)
	assert.Equal(t, int64(1), openSky.calls.Load())
	assert.Contains(t, snap.Sources, "OpenSky")
	assert.NotContains(t, snap.Sources, "Flightradar24")
	assert.Len(t, snap.Departures, 1)
}

func TestRefreshSurvivesRadarOutage(t *testing.T) {
	radar := &fakeRadar{err: errors.New("down")}
	openSky := &fakeOpenSky{err: errors.New("down too")}
	board := &fakeBoard{board: &Board{Arrivals: []models.Flight{boardArrival("AA3521")}}}

	s := NewAggregatorService(radar, openSky, board, &fakeWeather{},
		nil, nil, nil, nil, aggregatorConfig())

	snap, err := s.Refresh()
	require.NoError(t, err)
	assert.Len(t, snap.Arrivals, 1)
	assert.Equal(t, []string{"Airportia"}, snap.Sources)
}

func TestRefreshFailsWhenAllFeedsDown(t *testing.T) {
	s := NewAggregatorService(
		&fakeRadar{err: errors.New("radar down")},
		&fakeOpenSky{err: errors.New("opensky down")},
		&fakeBoard{err: errors.New("board down")},
		&fakeWeather{err: errors.New("no weather")},
		nil, nil, nil, nil, aggregatorConfig())

	_, err := s.Refresh()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all flight feeds failed")
}

func TestGetSnapshotServesFromMemoryWindow(t *testing.T) {
	radar := &fakeRadar{flights: []models.Flight{radarContact("AA3521")}}
	board := &fakeBoard{board: &Board{}}

	s := NewAggregatorService(radar, &fakeOpenSky{}, board, &fakeWeather{},
		nil, nil, nil, nil, aggregatorConfig())

	first, err := s.GetSnapshot()
	require.NoError(t, err)
	second, err := s.GetSnapshot()
	require.NoError(t, err)

	assert.Equal(t, int64(1), radar.calls.Load())
	assert.Equal(t, first.FetchedAt, second.FetchedAt)
}

func TestRefreshPersistsObservations(t *testing.T) {
	db := newTestDB(t)
	history := NewHistoryService(db, aggregatorConfig())
	radar := &fakeRadar{}
	board := &fakeBoard{board: &Board{Arrivals: []models.Flight{boardArrival("AA3521")}}}

	s := NewAggregatorService(radar, &fakeOpenSky{}, board, &fakeWeather{},
		history, nil, nil, nil, aggregatorConfig())

	_, err := s.Refresh()
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Flight{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
