package models

import (
	"time"
)

// WeatherSnapshot represents observed weather at an airport.
// Snapshots are append-only; one row per fetch per airport.
type WeatherSnapshot struct {
	ID                       uint      `gorm:"primaryKey" json:"id"`
	AirportCode              string    `gorm:"type:varchar(8);index" json:"airport_code"`
	City                     string    `gorm:"type:varchar(32)" json:"city"`
	Temperature              float64   `json:"temperature_f"`
	Condition                string    `gorm:"type:varchar(32)" json:"condition"`
	WindSpeed                float64   `json:"wind_speed_mph"`
	Visibility               float64   `json:"visibility_miles"`
	Humidity                 int       `json:"humidity_percent"`
	Precipitation            float64   `json:"precipitation_inches"`
	PrecipitationProbability int       `json:"precipitation_probability"`
	WeatherCode              int       `json:"weather_code"`
	ObservedAt               time.Time `gorm:"autoCreateTime" json:"observed_at"`
}

// TableName specifies the table name for the WeatherSnapshot model
func (WeatherSnapshot) TableName() string {
	return "weather_snapshots"
}
