package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
)

// Index layout: 0 hex, 1 lat, 2 lon, 3 heading, 4 altitude, 5 speed,
// 8 type, 9 registration, 11 origin, 12 destination, 13 callsign, 18 airline
const radarFeedPayload = `{
	"full_count": 12345,
	"version": 4,
	"ab12cd": ["AB12CD", 36.5, -96.2, 180.0, 28000.0, 420.0, "7700", "adsb", "E75L", "N123AA", 1724930000, "DFW", "ICT", "AA3521", 0, 0, "AAL3521", 0, "AAL"],
	"ef34gh": ["EF34GH", 37.8, -97.3, 10.0, 4500.0, 210.0, "7700", "adsb", "B738", "N456WN", 1724930000, "ICT", "DEN", "WN1880", 0, 0, "SWA1880", 0, "SWA"],
	"ij56kl": ["IJ56KL", 39.9, -95.0, 270.0, 36000.0, 460.0, "7700", "adsb", "A320", "N789DL", 1724930000, "ATL", "LAX", "DL100", 0, 0, "DAL100", 0, "DAL"]
}`

func newTestRadar(payload string) (*RadarService, *httptest.Server) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}))
	cfg := &config.Config{AirportCode: "ICT", RadarAPIURL: srv.URL}
	return NewRadarService(cfg), srv
}

func TestFetchFlightsFiltersToSubjectAirport(t *testing.T) {
	s, srv := newTestRadar(radarFeedPayload)
	defer srv.Close()

	flights, err := s.FetchFlights()
	require.NoError(t, err)
	// DL100 flies ATL-LAX and must be filtered out
	require.Len(t, flights, 2)

	byNumber := make(map[string]models.Flight)
	for _, f := range flights {
		byNumber[f.FlightNumber] = f
	}

	arrival, ok := byNumber["AA3521"]
	require.True(t, ok)
	assert.Equal(t, models.FlightTypeArrival, arrival.FlightType)
	assert.Equal(t, "Arriving", arrival.Status)
	assert.Equal(t, "DFW", arrival.Origin)
	assert.Equal(t, "ICT", arrival.Destination)
	assert.Equal(t, "E75L", arrival.AircraftType)
	assert.Equal(t, "N123AA", arrival.AircraftRegistration)
	assert.Equal(t, "AAL", arrival.Airline)
	assert.Equal(t, "Flightradar24", arrival.Source)
	require.NotNil(t, arrival.Latitude)
	assert.Equal(t, 36.5, *arrival.Latitude)
	assert.Equal(t, 28000, arrival.Altitude)
	assert.Equal(t, 420, arrival.GroundSpeed)

	departure, ok := byNumber["WN1880"]
	require.True(t, ok)
	assert.Equal(t, models.FlightTypeDeparture, departure.FlightType)
	assert.Equal(t, "Departing", departure.Status)
}

func TestFetchFlightsFallsBackToHexKey(t *testing.T) {
	payload := `{
		"full_count": 1,
		"zz99yy": ["ZZ99YY", 36.5, -96.2, 180.0, 28000.0, 420.0, "", "adsb", "", "", 1724930000, "DFW", "ICT", "", 0, 0, "", 0, ""]
	}`
	s, srv := newTestRadar(payload)
	defer srv.Close()

	flights, err := s.FetchFlights()
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "zz99yy", flights[0].FlightNumber)
	assert.Equal(t, "Unknown", flights[0].Airline)
	assert.Equal(t, "Unknown", flights[0].AircraftType)
	assert.Equal(t, "N/A", flights[0].AircraftRegistration)
	assert.Equal(t, "N/A", flights[0].ScheduledTime)
}

func TestFetchFlightsSkipsShortRows(t *testing.T) {
	payload := `{
		"full_count": 1,
		"short1": ["SHORT1", 36.5, -96.2]
	}`
	s, srv := newTestRadar(payload)
	defer srv.Close()

	flights, err := s.FetchFlights()
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestFetchFlightsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewRadarService(&config.Config{AirportCode: "ICT", RadarAPIURL: srv.URL})
	_, err := s.FetchFlights()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status code 403")
}
