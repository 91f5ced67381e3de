package models

// Risk tiers derived from the numeric delay-risk score
const (
	RiskLevelLow    = "Low"
	RiskLevelMedium = "Medium"
	RiskLevelHigh   = "High"
)

// Prediction holds the delay risk assessment for one flight
type Prediction struct {
	FlightNumber   string   `json:"flight_number"`
	RiskLevel      string   `json:"risk_level"`
	RiskScore      int      `json:"risk_score"`
	Confidence     int      `json:"confidence"`
	Factors        []string `json:"factors"`
	Recommendation string   `json:"recommendation"`
	ModelType      string   `json:"model_type"`
	ModelVersion   string   `json:"model_version"`
}

// PredictorStats describes the predictor model and its usage counters
type PredictorStats struct {
	PredictionsMade  int64    `json:"predictions_made"`
	ModelType        string   `json:"model_type"`
	ModelVersion     string   `json:"model_version"`
	ExpectedAccuracy string   `json:"expected_accuracy"`
	FeaturesUsed     []string `json:"features_used"`
}
