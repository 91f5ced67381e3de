package models

import (
	"time"
)

// Flight type tags
const (
	FlightTypeArrival   = "Arrival"
	FlightTypeDeparture = "Departure"
)

// Flight represents one observed flight at the subject airport.
// A row is unique per (flight_number, scheduled_time, flight_type); repeated
// observations only refresh status, actual time, telemetry and last_updated.
type Flight struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	FlightNumber string `gorm:"type:varchar(16);not null;uniqueIndex:idx_flight_lookup" json:"flight_number"`
	Airline      string `gorm:"type:varchar(64)" json:"airline"`
	Origin       string `gorm:"type:varchar(64)" json:"origin"`
	Destination  string `gorm:"type:varchar(64)" json:"destination"`
	FlightType   string `gorm:"type:varchar(16);uniqueIndex:idx_flight_lookup" json:"flight_type"`

	// Times come from upstream as strings (ISO 8601, "15:04" or "N/A")
	ScheduledTime string `gorm:"type:varchar(32);uniqueIndex:idx_flight_lookup" json:"scheduled_time"`
	ActualTime    string `gorm:"type:varchar(32)" json:"actual_time"`

	Status               string `gorm:"type:varchar(32);index" json:"status"`
	AircraftType         string `gorm:"type:varchar(32)" json:"aircraft_type,omitempty"`
	AircraftRegistration string `gorm:"type:varchar(16)" json:"aircraft_registration,omitempty"`

	// Telemetry (radar sources only)
	Altitude    int      `json:"altitude,omitempty"`
	GroundSpeed int      `json:"ground_speed,omitempty"`
	Latitude    *float64 `gorm:"-" json:"latitude,omitempty"`
	Longitude   *float64 `gorm:"-" json:"longitude,omitempty"`
	Heading     *float64 `gorm:"-" json:"heading,omitempty"`

	Source string `gorm:"type:varchar(32)" json:"source"`

	// Weather snapshot at the subject airport when the flight was observed
	Temperature      *float64 `json:"temperature,omitempty"`
	WindSpeed        *float64 `json:"wind_speed,omitempty"`
	Visibility       *float64 `json:"visibility,omitempty"`
	Precipitation    *float64 `json:"precipitation,omitempty"`
	Humidity         *int     `json:"humidity,omitempty"`
	WeatherCondition string   `gorm:"type:varchar(32)" json:"weather_condition,omitempty"`

	// Inbound leg, for cascading delay scoring
	InboundFlightNumber string `gorm:"type:varchar(16)" json:"inbound_flight_number,omitempty"`
	InboundDelayMinutes int    `json:"inbound_delay_minutes,omitempty"`

	FirstSeen   time.Time `gorm:"autoCreateTime;index:idx_first_seen,sort:desc" json:"first_seen"`
	LastUpdated time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

// TableName specifies the table name for the Flight model
func (Flight) TableName() string {
	return "flights"
}

// AttachWeather copies a weather snapshot onto the flight record
func (f *Flight) AttachWeather(w *WeatherSnapshot) {
	if w == nil {
		return
	}
	t := w.Temperature
	ws := w.WindSpeed
	vis := w.Visibility
	p := w.Precipitation
	h := w.Humidity
	f.Temperature = &t
	f.WindSpeed = &ws
	f.Visibility = &vis
	f.Precipitation = &p
	f.Humidity = &h
	f.WeatherCondition = w.Condition
}

// HistoryStats summarizes one day of observed flights
type HistoryStats struct {
	TotalToday      int64 `json:"total_today"`
	ArrivalsToday   int64 `json:"arrivals_today"`
	DeparturesToday int64 `json:"departures_today"`
	Landed          int64 `json:"landed"`
}

// RangeStats summarizes observed flights over a date range
type RangeStats struct {
	TotalFlights int64  `json:"total_flights"`
	Arrivals     int64  `json:"arrivals"`
	Departures   int64  `json:"departures"`
	Landed       int64  `json:"landed"`
	Delayed      int64  `json:"delayed"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}
