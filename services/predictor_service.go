package services

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/models"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/utils"
)

// Historical delay rate per carrier code, percent (industry averages)
var airlineDelayRates = map[string]int{
	"AA": 18, // American
	"DL": 12, // Delta
	"UA": 16, // United
	"WN": 22, // Southwest
	"AS": 11, // Alaska
	"B6": 15, // JetBlue
	"NK": 28, // Spirit
	"F9": 25, // Frontier
	"G4": 30, // Allegiant
}

// Major hub airports whose inbound flights carry extra delay risk
var majorHubs = map[string]bool{
	"ATL": true, "ORD": true, "DFW": true, "DEN": true,
	"LAX": true, "JFK": true, "EWR": true,
}

// High-traffic rush hour periods, local time [start, end)
var rushHours = [][2]int{
	{6, 9},   // morning
	{16, 19}, // evening
}

// Risk tier thresholds over the clamped 0-100 score
const (
	riskThresholdMedium = 35
	riskThresholdHigh   = 60
)

// InterfacePredictorService defines the delay predictor operations
type InterfacePredictorService interface {
	Predict(flight *models.Flight, weather *models.WeatherSnapshot) *models.Prediction
	PredictBatch(flights []models.Flight, weather *models.WeatherSnapshot) []models.Prediction
	GetStats() *models.PredictorStats
}

// PredictorService scores delay risk with a weighted rule heuristic.
// The score is a linear accumulation over independent rule buckets
// (weather 40%, time-of-day 20%, carrier 20%, hub origin 10%, inbound
// cascade 10%), clamped to [0,100] and bucketed into three risk tiers.
type PredictorService struct {
	predictionCount atomic.Int64
}

// NewPredictorService creates a new predictor service
func NewPredictorService() *PredictorService {
	return &PredictorService{}
}

// Predict scores one flight. weather may be nil; missing inputs lower the
// reported confidence instead of failing.
func (s *PredictorService) Predict(flight *models.Flight, weather *models.WeatherSnapshot) *models.Prediction {
	score := 0
	factors := []string{}

	if weather != nil {
		ws, wf := evaluateWeather(weather)
		score += ws
		factors = append(factors, wf...)
	}

	ts, tf := evaluateTime(flight)
	score += ts
	factors = append(factors, tf...)

	as, af := evaluateAirline(flight)
	score += as
	factors = append(factors, af...)

	hs, hf := evaluateHubOrigin(flight)
	score += hs
	factors = append(factors, hf...)

	cs, cf := evaluateCascade(flight)
	score += cs
	factors = append(factors, cf...)

	score = clampScore(score)

	var level, recommendation string
	switch {
	case score >= riskThresholdHigh:
		level = models.RiskLevelHigh
		recommendation = "Consider alternate flights or allow extra time"
	case score >= riskThresholdMedium:
		level = models.RiskLevelMedium
		recommendation = "Monitor flight status closely"
	default:
		level = models.RiskLevelLow
		recommendation = "Flight expected on time"
	}

	s.predictionCount.Add(1)

	return &models.Prediction{
		FlightNumber:   flight.FlightNumber,
		RiskLevel:      level,
		RiskScore:      score,
		Confidence:     calculateConfidence(flight, weather),
		Factors:        factors,
		Recommendation: recommendation,
		ModelType:      "rule-based",
		ModelVersion:   "1.0",
	}
}

// PredictBatch scores a list of flights against one weather snapshot
func (s *PredictorService) PredictBatch(flights []models.Flight, weather *models.WeatherSnapshot) []models.Prediction {
	predictions := make([]models.Prediction, 0, len(flights))
	for i := range flights {
		predictions = append(predictions, *s.Predict(&flights[i], weather))
	}
	return predictions
}

// GetStats describes the model and its usage
func (s *PredictorService) GetStats() *models.PredictorStats {
	return &models.PredictorStats{
		PredictionsMade:  s.predictionCount.Load(),
		ModelType:        "rule-based",
		ModelVersion:     "1.0",
		ExpectedAccuracy: "65-70%",
		FeaturesUsed: []string{
			"weather (40%)",
			"time-of-day (20%)",
			"airline reliability (20%)",
			"flight type (10%)",
			"cascading delays (10%)",
		},
	}
}

func evaluateWeather(weather *models.WeatherSnapshot) (int, []string) {
	score := 0
	var factors []string

	if weather.Precipitation > 0.5 {
		score += 25
		factors = append(factors, fmt.Sprintf("Heavy precipitation (%.2f\" rain/snow)", weather.Precipitation))
	} else if weather.Precipitation > 0.1 {
		score += 15
		factors = append(factors, fmt.Sprintf("Light precipitation (%.2f\" rain/snow)", weather.Precipitation))
	}

	if weather.WindSpeed > 35 {
		score += 20
		factors = append(factors, fmt.Sprintf("High winds (%.0f mph)", weather.WindSpeed))
	} else if weather.WindSpeed > 25 {
		score += 10
		factors = append(factors, fmt.Sprintf("Moderate winds (%.0f mph)", weather.WindSpeed))
	}

	if weather.Visibility < 1 {
		score += 25
		factors = append(factors, fmt.Sprintf("Very low visibility (%.1f miles)", weather.Visibility))
	} else if weather.Visibility < 3 {
		score += 15
		factors = append(factors, fmt.Sprintf("Low visibility (%.1f miles)", weather.Visibility))
	}

	condition := strings.ToLower(weather.Condition)
	if containsAny(condition, "thunderstorm", "heavy snow", "blizzard") {
		score += 30
		factors = append(factors, fmt.Sprintf("Severe weather (%s)", weather.Condition))
	} else if containsAny(condition, "rain", "snow", "fog") {
		score += 10
		factors = append(factors, fmt.Sprintf("Adverse weather (%s)", weather.Condition))
	}

	return score, factors
}

func evaluateTime(flight *models.Flight) (int, []string) {
	score := 0
	var factors []string

	scheduled, ok := utils.ParseScheduledTime(flight.ScheduledTime)
	if !ok {
		return 0, nil
	}

	hour := scheduled.Hour()
	for _, window := range rushHours {
		if hour >= window[0] && hour < window[1] {
			score += 15
			if window[0] == 6 {
				factors = append(factors, "Morning rush hour (6-9 AM)")
			} else {
				factors = append(factors, "Evening rush hour (4-7 PM)")
			}
			break
		}
	}

	// Late night and early morning flights tend to be more reliable
	if hour < 6 || hour >= 22 {
		score -= 5
		factors = append(factors, "Off-peak hours (reliable)")
	}

	return score, factors
}

func evaluateAirline(flight *models.Flight) (int, []string) {
	// Carrier code is the two-letter flight number prefix ("AA1234" -> "AA")
	if len(flight.FlightNumber) < 2 {
		return 0, nil
	}
	code := strings.ToUpper(flight.FlightNumber[:2])

	rate, ok := airlineDelayRates[code]
	if !ok {
		return 0, nil
	}

	// Scale the historical delay rate into the 0-20 bucket
	score := rate * 20 / 30

	var factors []string
	if rate > 25 {
		factors = append(factors, fmt.Sprintf("%s has higher delay rate", code))
	} else if rate < 15 {
		factors = append(factors, fmt.Sprintf("%s has good on-time performance", code))
	}

	return score, factors
}

func evaluateHubOrigin(flight *models.Flight) (int, []string) {
	if flight.FlightType != models.FlightTypeArrival {
		return 0, nil
	}
	if !majorHubs[flight.Origin] {
		return 0, nil
	}
	return 10, []string{fmt.Sprintf("Arriving from major hub (%s)", flight.Origin)}
}

func evaluateCascade(flight *models.Flight) (int, []string) {
	delay := flight.InboundDelayMinutes
	if delay > 60 {
		return 15, []string{fmt.Sprintf("Inbound flight delayed %d min", delay)}
	}
	if delay > 30 {
		return 10, []string{fmt.Sprintf("Inbound flight delayed %d min", delay)}
	}
	return 0, nil
}

func calculateConfidence(flight *models.Flight, weather *models.WeatherSnapshot) int {
	confidence := 100

	if weather == nil {
		confidence -= 20
	}
	if flight.ScheduledTime == "" || flight.ScheduledTime == "N/A" {
		confidence -= 15
	}
	if flight.Airline == "" {
		confidence -= 10
	}
	if flight.Origin == "" && flight.Destination == "" {
		confidence -= 10
	}

	if confidence < 30 {
		confidence = 30
	}
	return confidence
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
