package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/config"
)

func openMeteoPayload(code int, precip, wind, visibilityMeters float64) string {
	return fmt.Sprintf(`{"current":{
		"temperature_2m": 72.5,
		"relative_humidity_2m": 48,
		"weathercode": %d,
		"windspeed_10m": %.1f,
		"visibility": %.0f,
		"precipitation": %.2f,
		"precipitation_probability": 20
	}}`, code, wind, visibilityMeters, precip)
}

func TestFetchAirportWeatherParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "37.75", r.URL.Query().Get("latitude"))
		assert.Equal(t, "fahrenheit", r.URL.Query().Get("temperature_unit"))
		fmt.Fprint(w, openMeteoPayload(95, 0.25, 18.4, 16093))
	}))
	defer srv.Close()

	s := NewWeatherService(&config.Config{WeatherAPIURL: srv.URL})
	snapshot, err := s.FetchAirportWeather(TrackedAirports[0])
	require.NoError(t, err)

	assert.Equal(t, "ICT", snapshot.AirportCode)
	assert.Equal(t, "Wichita", snapshot.City)
	assert.Equal(t, 72.5, snapshot.Temperature)
	assert.Equal(t, "Thunderstorm", snapshot.Condition)
	assert.Equal(t, 18.4, snapshot.WindSpeed)
	assert.Equal(t, 48, snapshot.Humidity)
	assert.Equal(t, 0.25, snapshot.Precipitation)
	// 16093 meters is about ten miles
	assert.Equal(t, 10.0, snapshot.Visibility)
	assert.False(t, snapshot.ObservedAt.IsZero())
}

func TestFetchAirportWeatherUnknownCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, openMeteoPayload(99, 0, 5, 40000))
	}))
	defer srv.Close()

	s := NewWeatherService(&config.Config{WeatherAPIURL: srv.URL})
	snapshot, err := s.FetchAirportWeather(TrackedAirports[0])
	require.NoError(t, err)
	assert.Equal(t, "Unknown", snapshot.Condition)
}

func TestFetchAirportWeatherBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewWeatherService(&config.Config{WeatherAPIURL: srv.URL})
	_, err := s.FetchAirportWeather(TrackedAirports[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status code 429")
}

func TestFetchAllAirportsSkipsFailures(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Fail every other request
		if calls.Add(1)%2 == 0 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, openMeteoPayload(0, 0, 8, 40000))
	}))
	defer srv.Close()

	s := NewWeatherService(&config.Config{WeatherAPIURL: srv.URL})
	result, err := s.FetchAllAirports()
	require.NoError(t, err)
	assert.Len(t, result, len(TrackedAirports)/2)
}

func TestFetchAllAirportsAllFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewWeatherService(&config.Config{WeatherAPIURL: srv.URL})
	result, err := s.FetchAllAirports()
	require.Error(t, err)
	assert.Empty(t, result)
}
