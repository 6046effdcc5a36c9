package models

import "time"

// FeatureVector is the fixed-order numeric model input.
type FeatureVector []float64

// At returns the value at i, or 0 when i is out of range.
func (v FeatureVector) At(i int) float64 {
	if i < 0 || i >= len(v) {
		return 0
	}
	return v[i]
}

// SeasonLine is a player's raw, unsmoothed season rates.
type SeasonLine struct {
	PA        int     `json:"pa"`
	Hit       float64 `json:"hit_rate"`
	Strikeout float64 `json:"k_rate"`
	Walk      float64 `json:"walk_rate"`
}

// Facts are display values derived alongside a feature vector. They never
// feed back into the vector.
type Facts struct {
	Lines          []string
	Batter         SeasonLine
	Pitcher        SeasonLine
	BatterProfile  *PlayerProfile
	PitcherProfile *PlayerProfile
}

// Probabilities are independent outcome probabilities; they need not sum to 1.
type Probabilities struct {
	Hit       float64 `json:"hit_prob"`
	Strikeout float64 `json:"k_prob"`
	Walk      float64 `json:"walk_prob"`
}

// Of returns the probability for o.
func (p Probabilities) Of(o Outcome) float64 {
	switch o {
	case OutcomeHit:
		return p.Hit
	case OutcomeStrikeout:
		return p.Strikeout
	case OutcomeWalk:
		return p.Walk
	default:
		return 0
	}
}

// Variant identifies the predictor selected at startup.
type Variant string

const (
	VariantModel Variant = "model"
	VariantMock  Variant = "mock"
)

const (
	MarkerModel = "Model-based prediction"
	MarkerMock  = "Mock heuristic prediction (no trained model loaded)"
)

// Marker is the explanation line that tells callers which variant answered.
func (v Variant) Marker() string {
	if v == VariantModel {
		return MarkerModel
	}
	return MarkerMock
}

// PredictionResponse is the body returned for a matchup prediction.
type PredictionResponse struct {
	HitProb        float64           `json:"hit_prob"`
	KProb          float64           `json:"k_prob"`
	WalkProb       float64           `json:"walk_prob"`
	Explanation    []string          `json:"explanation"`
	BatterStrategy map[string]string `json:"batter_strategy"`
	PitcherHabits  map[string]string `json:"pitcher_habits"`
}

// PredictionEvent is published for every served prediction.
type PredictionEvent struct {
	EventID   string    `json:"event_id"`
	GameID    string    `json:"game_id"`
	BatterID  string    `json:"batter_id"`
	PitcherID string    `json:"pitcher_id"`
	Inning    int       `json:"inning"`
	Outs      int       `json:"outs"`
	Bases     [3]int    `json:"bases"`
	HitProb   float64   `json:"hit_prob"`
	KProb     float64   `json:"k_prob"`
	WalkProb  float64   `json:"walk_prob"`
	Variant   Variant   `json:"variant"`
	Cached    bool      `json:"cached"`
	Timestamp time.Time `json:"ts"`
}
