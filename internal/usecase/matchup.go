package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"BaseballMVP/internal/domain/models"
	domrepo "BaseballMVP/internal/domain/repository"
	domsvc "BaseballMVP/internal/domain/service"
	"BaseballMVP/internal/service/cache"
	"BaseballMVP/internal/services/features"
	"BaseballMVP/internal/services/insight"
	"BaseballMVP/internal/services/validation"
	applogger "BaseballMVP/pkg/logger"
	xutil "BaseballMVP/pkg/util"

	"github.com/google/uuid"
)

// ErrPlayerNotFound is returned by Player for ids with no history and no profile.
var ErrPlayerNotFound = errors.New("player not found")

// MatchupPipeline runs validate, resolve, predict and compose for one request.
// Everything it holds is built once at startup and read-only afterwards.
type MatchupPipeline struct {
	validator *validation.Validator
	resolver  *features.Resolver
	predictor domsvc.Predictor
	composer  *insight.Composer

	cache     cache.BytesCache
	cacheTTL  time.Duration
	cacheNS   string
	publisher domrepo.PredictionPublisher
	metrics   domrepo.Metrics
	l         *applogger.Logger

	publishTimeout time.Duration
	inflight       sync.WaitGroup
	now            func() time.Time
}

type PipelineOption func(*MatchupPipeline)

func WithCache(c cache.BytesCache, ttl time.Duration) PipelineOption {
	return func(p *MatchupPipeline) { p.cache, p.cacheTTL = c, ttl }
}

func WithPublisher(pub domrepo.PredictionPublisher) PipelineOption {
	return func(p *MatchupPipeline) { p.publisher = pub }
}

func WithMetrics(m domrepo.Metrics) PipelineOption {
	return func(p *MatchupPipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

func WithLogger(l *applogger.Logger) PipelineOption {
	return func(p *MatchupPipeline) {
		if l != nil {
			p.l = l
		}
	}
}

func NewMatchupPipeline(v *validation.Validator, r *features.Resolver, pred domsvc.Predictor, c *insight.Composer, opts ...PipelineOption) *MatchupPipeline {
	p := &MatchupPipeline{
		validator:      v,
		resolver:       r,
		predictor:      pred,
		composer:       c,
		metrics:        domrepo.NopMetrics{},
		l:              applogger.Nop(),
		publishTimeout: 5 * time.Second,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cacheNS = cacheNamespace(r, pred)
	return p
}

// Variant reports the predictor chosen at startup.
func (p *MatchupPipeline) Variant() models.Variant { return p.predictor.Variant() }

// Predict serves one matchup. Validation failures come back as
// *validation.Error; resolver failures wrap models.ErrDataUnavailable.
func (p *MatchupPipeline) Predict(ctx context.Context, payload models.MatchupPayload) (*models.PredictionResponse, error) {
	start := p.now()
	defer func() { p.metrics.RecordLatency("predict", p.now().Sub(start).Seconds()) }()

	req, err := p.validator.Validate(payload)
	if err != nil {
		if ve, ok := validation.AsError(err); ok {
			for _, v := range ve.Violations {
				p.metrics.RecordValidationFailure(rootField(v.Field))
			}
		}
		p.l.Debug("matchup request rejected", applogger.Error(err))
		return nil, err
	}

	variant := p.predictor.Variant()
	key := cacheKey(p.cacheNS, req)
	if resp, ok := p.cached(ctx, key); ok {
		p.metrics.RecordPrediction(string(variant), true)
		p.publish(req, resp, variant, true)
		return resp, nil
	}

	vec, facts, err := p.resolver.Resolve(req.BatterID, req.PitcherID, req.State)
	if err != nil {
		p.metrics.RecordError("resolve")
		return nil, fmt.Errorf("resolve matchup: %w", err)
	}
	probs := p.predictor.Predict(vec, facts)
	resp := p.composer.Compose(req, facts, probs, variant)

	p.store(ctx, key, &resp)
	p.metrics.RecordPrediction(string(variant), false)
	p.publish(req, &resp, variant, false)
	return &resp, nil
}

// Player reports raw and smoothed rates for one player.
func (p *MatchupPipeline) Player(_ context.Context, rawID string, role models.Role) (*models.PlayerRatesResponse, error) {
	id, ok := xutil.CanonicalID(rawID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	rates, err := p.resolver.PlayerRates(id, role)
	if err != nil {
		return nil, fmt.Errorf("player rates: %w", err)
	}
	// Profiles are not role-specific, so only aggregates prove the player
	// appears in the requested role.
	if !rates.Known {
		return nil, ErrPlayerNotFound
	}
	return &rates, nil
}

func (p *MatchupPipeline) cached(ctx context.Context, key string) (*models.PredictionResponse, bool) {
	if p.cache == nil {
		return nil, false
	}
	b, ok, err := p.cache.GetBytes(ctx, key)
	if err != nil {
		p.l.Warn("prediction cache read failed", applogger.Error(err))
		p.metrics.RecordError("cache")
		return nil, false
	}
	if !ok {
		p.metrics.RecordCacheLookup(false)
		return nil, false
	}
	var resp models.PredictionResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		p.l.Warn("prediction cache entry corrupt", applogger.String("key", key), applogger.Error(err))
		p.metrics.RecordCacheLookup(false)
		return nil, false
	}
	p.metrics.RecordCacheLookup(true)
	return &resp, true
}

func (p *MatchupPipeline) store(ctx context.Context, key string, resp *models.PredictionResponse) {
	if p.cache == nil {
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := p.cache.SetBytes(ctx, key, b, p.cacheTTL); err != nil {
		p.l.Warn("prediction cache write failed", applogger.Error(err))
		p.metrics.RecordError("cache")
	}
}

// publish emits the prediction event in the background; failures are logged
// and counted, never returned.
func (p *MatchupPipeline) publish(req models.MatchupRequest, resp *models.PredictionResponse, variant models.Variant, cached bool) {
	if p.publisher == nil {
		return
	}
	ev := &models.PredictionEvent{
		EventID:   uuid.NewString(),
		GameID:    req.State.GameID,
		BatterID:  req.BatterID,
		PitcherID: req.PitcherID,
		Inning:    req.State.Inning,
		Outs:      req.State.Outs,
		Bases:     req.State.Bases,
		HitProb:   resp.HitProb,
		KProb:     resp.KProb,
		WalkProb:  resp.WalkProb,
		Variant:   variant,
		Cached:    cached,
		Timestamp: p.now().UTC(),
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), p.publishTimeout)
		defer cancel()
		if err := p.publisher.Publish(ctx, ev); err != nil {
			p.metrics.RecordError("publish")
			p.l.Warn("prediction event publish failed",
				applogger.String("event_id", ev.EventID),
				applogger.Error(err),
			)
		}
	}()
}

// Close waits for in-flight event publishes.
func (p *MatchupPipeline) Close() {
	p.inflight.Wait()
}

// cacheNamespace pins cached responses to the predictor variant, the model
// and the reference data, so a shared cache never serves answers computed by
// a process that loaded something else.
func cacheNamespace(r *features.Resolver, pred domsvc.Predictor) string {
	parts := []string{"matchup", string(pred.Variant()), r.Fingerprint()}
	if fp, ok := pred.(interface{ Fingerprint() string }); ok {
		parts = append(parts, fp.Fingerprint())
	}
	return strings.Join(parts, ":")
}

// cacheKey covers every request field that shapes the response; game_id
// does not.
func cacheKey(ns string, req models.MatchupRequest) string {
	req.State.GameID = ""
	b, _ := json.Marshal(req)
	sum := sha256.Sum256(b)
	return ns + ":" + hex.EncodeToString(sum[:16])
}

func rootField(field string) string {
	if i := strings.IndexAny(field, "[."); i >= 0 {
		return field[:i]
	}
	return field
}
