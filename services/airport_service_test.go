package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
)

func TestGetAirportInfo(t *testing.T) {
	s := NewAirportService(newTestDB(t), &config.Config{AirportCode: "ICT"})

	info := s.GetAirportInfo()
	assert.Equal(t, "ICT", info.Code)
	assert.Equal(t, "KICT", info.ICAO)
	assert.Contains(t, info.Name, "Eisenhower")
	assert.Equal(t, "America/Chicago", info.Timezone)
	assert.Len(t, info.Runways, 3)
	assert.Equal(t, 10301, info.Runways[0].LengthFeet)
}

func TestGetNASStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"delay": false, "name": "Wichita Eisenhower National"}`)
	}))
	defer srv.Close()

	s := NewAirportService(newTestDB(t), &config.Config{NASStatusURL: srv.URL})
	status, err := s.GetNASStatus()
	require.NoError(t, err)
	assert.Equal(t, false, status["delay"])
}

func TestGetNASStatusUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewAirportService(newTestDB(t), &config.Config{NASStatusURL: srv.URL})
	_, err := s.GetNASStatus()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned 502")
}

func TestGetStatisticsAggregatesToday(t *testing.T) {
	db := newTestDB(t)
	today := time.Now().Format("2006-01-02")

	seed := []models.Flight{
		{FlightNumber: "AA1", Airline: "American Airlines", FlightType: models.FlightTypeArrival,
			ScheduledTime: today + "T09:15:00", Status: "Landed"},
		{FlightNumber: "AA2", Airline: "American Airlines", FlightType: models.FlightTypeArrival,
			ScheduledTime: today + "T09:45:00", Status: "En Route"},
		{FlightNumber: "DL3", Airline: "Delta Air Lines", FlightType: models.FlightTypeDeparture,
			ScheduledTime: today + "T14:05:00", Status: "Scheduled"},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	s := NewAirportService(db, &config.Config{AirportCode: "ICT"})
	stats, err := s.GetStatistics()
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalFlights)
	assert.Equal(t, int64(2), stats.Arrivals)
	assert.Equal(t, int64(1), stats.Departures)
	assert.Equal(t, 2, stats.ByAirline["American Airlines"])
	assert.Equal(t, 1, stats.ByStatus["Landed"])
	assert.Equal(t, "09:00-10:00", stats.BusiestHour)
}

func TestGetStatisticsEmptyDay(t *testing.T) {
	s := NewAirportService(newTestDB(t), &config.Config{AirportCode: "ICT"})

	stats, err := s.GetStatistics()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalFlights)
	assert.Empty(t, stats.BusiestHour)
}
