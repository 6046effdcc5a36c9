package service

import "BaseballMVP/internal/domain/models"

// Predictor turns a feature vector into outcome probabilities. One
// implementation is chosen at startup and shared by all requests.
type Predictor interface {
	Predict(vec models.FeatureVector, facts models.Facts) models.Probabilities
	Variant() models.Variant
}
