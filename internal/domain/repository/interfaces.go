package repository

import (
	"context"

	"BaseballMVP/internal/domain/models"
)

// AggregateStore is read-only reference data loaded once at startup.
type AggregateStore interface {
	// Aggregate returns the counts for a player/role/window; ok is false when
	// the player has no history for it.
	Aggregate(playerID string, role models.Role, window models.Window) (models.RoleAggregate, bool)
	// League returns summed counts across all players for role/window.
	League(role models.Role, window models.Window) models.RoleAggregate
	Profile(playerID string) (models.PlayerProfile, bool)
	Players(role models.Role) int
}

type PredictionPublisher interface {
	Publish(ctx context.Context, ev *models.PredictionEvent) error
	Close() error
}

type Metrics interface {
	RecordPrediction(variant string, cached bool)
	RecordValidationFailure(field string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	SetActiveVariant(variant string)
	SetPlayersLoaded(role string, n int)
	RecordModelLoadFailure()
	RecordCacheLookup(hit bool)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) RecordPrediction(string, bool)  {}
func (NopMetrics) RecordValidationFailure(string) {}
func (NopMetrics) RecordError(string)             {}
func (NopMetrics) RecordLatency(string, float64)  {}
func (NopMetrics) SetActiveVariant(string)        {}
func (NopMetrics) SetPlayersLoaded(string, int)   {}
func (NopMetrics) RecordModelLoadFailure()        {}
func (NopMetrics) RecordCacheLookup(bool)         {}
