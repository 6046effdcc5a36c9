package models

// Requests and responses for the HTTP surface besides the matchup body.

type PlayerRequest struct {
	ID   string `param:"id" json:"id" validate:"required"`
	Role string `query:"role" json:"role" default:"batter" validate:"oneof=batter pitcher"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Variant string `json:"variant,omitempty"`
}

// WindowRates pairs raw and smoothed rates for one window.
type WindowRates struct {
	Window     Window  `json:"window"`
	PA         int     `json:"pa"`
	Hit        float64 `json:"hit_rate"`
	Strikeout  float64 `json:"k_rate"`
	Walk       float64 `json:"walk_rate"`
	HitSmooth  float64 `json:"hit_rate_smooth"`
	KSmooth    float64 `json:"k_rate_smooth"`
	WalkSmooth float64 `json:"walk_rate_smooth"`
}

type PlayerRatesResponse struct {
	PlayerID string         `json:"player"`
	Role     Role           `json:"role"`
	Known    bool           `json:"known"`
	Windows  []WindowRates  `json:"windows"`
	Profile  *PlayerProfile `json:"profile,omitempty"`
}
