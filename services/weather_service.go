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

// Airport holds the coordinates used for weather lookups
type Airport struct {
	Code string
	Name string
	Lat  float64
	Lon  float64
}

// TrackedAirports is the subject airport plus the major hubs feeding it
var TrackedAirports = []Airport{
	{Code: "ICT", Name: "Wichita", Lat: 37.75, Lon: -97.37},
	{Code: "DFW", Name: "Dallas", Lat: 32.90, Lon: -97.04},
	{Code: "DEN", Name: "Denver", Lat: 39.86, Lon: -104.67},
	{Code: "ATL", Name: "Atlanta", Lat: 33.64, Lon: -84.43},
	{Code: "PHX", Name: "Phoenix", Lat: 33.43, Lon: -112.01},
	{Code: "ORD", Name: "Chicago", Lat: 41.98, Lon: -87.90},
	{Code: "IAH", Name: "Houston", Lat: 29.98, Lon: -95.34},
	{Code: "MSP", Name: "Minneapolis", Lat: 44.88, Lon: -93.22},
}

// WMO weather codes reported by Open-Meteo
var weatherConditions = map[int]string{
	0: "Clear", 1: "Mainly Clear", 2: "Partly Cloudy", 3: "Overcast",
	45: "Foggy", 48: "Foggy", 51: "Light Drizzle", 53: "Drizzle", 55: "Heavy Drizzle",
	61: "Light Rain", 63: "Rain", 65: "Heavy Rain", 71: "Light Snow", 73: "Snow", 75: "Heavy Snow",
	80: "Light Showers", 81: "Showers", 82: "Heavy Showers", 95: "Thunderstorm",
}

// InterfaceWeatherService defines the weather service operations
type InterfaceWeatherService interface {
	FetchAirportWeather(airport Airport) (*models.WeatherSnapshot, error)
	FetchAllAirports() (map[string]*models.WeatherSnapshot, error)
}

// WeatherService fetches current conditions from Open-Meteo
type WeatherService struct {
	Config *config.Config
	Client *http.Client
}

// openMeteoResponse is the subset of the Open-Meteo forecast payload we use
type openMeteoResponse struct {
	Current struct {
		Temperature              float64 `json:"temperature_2m"`
		RelativeHumidity         int     `json:"relative_humidity_2m"`
		WeatherCode              int     `json:"weathercode"`
		WindSpeed                float64 `json:"windspeed_10m"`
		Visibility               float64 `json:"visibility"`
		Precipitation            float64 `json:"precipitation"`
		PrecipitationProbability int     `json:"precipitation_probability"`
	} `json:"current"`
}

// NewWeatherService creates a new weather service
func NewWeatherService(cfg *config.Config) *WeatherService {
	return &WeatherService{
		Config: cfg,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchAirportWeather fetches current conditions for one airport
func (s *WeatherService) FetchAirportWeather(airport Airport) (*models.WeatherSnapshot, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.2f", airport.Lat))
	params.Set("longitude", fmt.Sprintf("%.2f", airport.Lon))
	params.Set("current", "temperature_2m,relative_humidity_2m,weathercode,windspeed_10m,visibility,precipitation,precipitation_probability")
	params.Set("temperature_unit", "fahrenheit")
	params.Set("windspeed_unit", "mph")
	params.Set("precipitation_unit", "inch")
	params.Set("timezone", "auto")

	resp, err := s.Client.Get(s.Config.WeatherAPIURL + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("error fetching weather data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status code %d", resp.StatusCode)
	}

	var apiResp openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("error decoding weather response: %w", err)
	}

	current := apiResp.Current

	condition, ok := weatherConditions[current.WeatherCode]
	if !ok {
		condition = "Unknown"
	}

	// Open-Meteo reports visibility in meters
	visibilityMiles := roundTo(current.Visibility*0.000621371, 1)

	return &models.WeatherSnapshot{
		AirportCode:              airport.Code,
		City:                     airport.Name,
		Temperature:              current.Temperature,
		Condition:                condition,
		WindSpeed:                current.WindSpeed,
		Visibility:               visibilityMiles,
		Humidity:                 current.RelativeHumidity,
		Precipitation:            roundTo(current.Precipitation, 2),
		PrecipitationProbability: current.PrecipitationProbability,
		WeatherCode:              current.WeatherCode,
		ObservedAt:               time.Now(),
	}, nil
}

// FetchAllAirports fetches current conditions for every tracked airport.
// A failed airport is skipped; the error of the last failure is returned
// together with whatever succeeded.
func (s *WeatherService) FetchAllAirports() (map[string]*models.WeatherSnapshot, error) {
	result := make(map[string]*models.WeatherSnapshot)
	var lastErr error

	for _, airport := range TrackedAirports {
		snapshot, err := s.FetchAirportWeather(airport)
		if err != nil {
			config.Warning("could not fetch weather for %s: %v", airport.Code, err)
			lastErr = err
			continue
		}
		result[airport.Code] = snapshot
	}

	if len(result) == 0 && lastErr != nil {
		return result, lastErr
	}
	return result, nil
}

func roundTo(v float64, places int) float64 {
	factor := 1.0
	for i := 0; i < places; i++ {
		factor *= 10
	}
	if v >= 0 {
		return float64(int64(v*factor+0.5)) / factor
	}
	return float64(int64(v*factor-0.5)) / factor
}
