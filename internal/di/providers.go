package di

import (
	"context"
	"fmt"
	"time"

	"BaseballMVP/internal/domain/models"
	"BaseballMVP/internal/domain/repository"
	domsvc "BaseballMVP/internal/domain/service"
	"BaseballMVP/internal/handler/api"
	internalrepo "BaseballMVP/internal/repository"
	"BaseballMVP/internal/service/cache"
	"BaseballMVP/internal/service/ratelimit"
	"BaseballMVP/internal/services/features"
	"BaseballMVP/internal/services/insight"
	"BaseballMVP/internal/services/predictor"
	"BaseballMVP/internal/services/validation"
	"BaseballMVP/internal/usecase"
	pkgch "BaseballMVP/pkg/clickhouse"
	"BaseballMVP/pkg/config"
	xhttp "BaseballMVP/pkg/http"
	pkgkafka "BaseballMVP/pkg/kafka"
	applogger "BaseballMVP/pkg/logger"
	"BaseballMVP/pkg/metrics"
	"BaseballMVP/pkg/server"
)

const startupTimeout = 15 * time.Second

// ProvideLogger creates the process logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cfg.Logging.Output,
		Service: "baseball_mvp",
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

func noop() {}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is
// disabled. When the log collector is enabled it ships aggregated errors
// through the same producer. The cleanup flushes the collector before
// closing the writer.
func ProvideKafkaProducer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, noop, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}

	if cfg.Logging.Collector.Enabled {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Logging.Collector.TimeInterval,
			CountThreshold: cfg.Logging.Collector.CountThreshold,
			Topic:          cfg.Logging.Collector.Topic,
			Publisher:      internalrepo.NewKafkaLogPublisher(producer),
		})
	}
	l.Info("kafka producer ready",
		applogger.Strings("brokers", cfg.Kafka.Brokers),
		applogger.String("topic", cfg.Kafka.Topic),
	)
	cleanup := func() {
		l.RemoveCollector()
		if err := producer.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	return producer, cleanup, nil
}

// ProvideClickHouseClient connects only when ClickHouse is the reference source.
func ProvideClickHouseClient(cfg *config.Config, l *applogger.Logger) (*pkgch.Client, func(), error) {
	if cfg.Reference.Source != "clickhouse" {
		return nil, noop, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithPool(4, 2),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout, cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: clickhouse client: %v", models.ErrDataUnavailable, err)
	}

	if err := client.InitSchema(ctx, internalrepo.ReferenceSchema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	return client, cleanup, nil
}

// ProvideAggregateStore loads the reference snapshot. Failure is fatal.
func ProvideAggregateStore(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger, m repository.Metrics) (repository.AggregateStore, error) {
	var (
		snap *internalrepo.Snapshot
		err  error
	)
	switch cfg.Reference.Source {
	case "clickhouse":
		if ch == nil {
			return nil, fmt.Errorf("%w: clickhouse source without client", models.ErrDataUnavailable)
		}
		loader := internalrepo.NewCHSnapshotLoader(ch.DB(), cfg.ClickHouse.Database)
		loader.SetLogger(l)
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		snap, err = loader.Load(ctx)
	default:
		snap, err = internalrepo.LoadFileSnapshot(cfg.Reference.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("reference data: %w", err)
	}

	for _, role := range models.Roles {
		m.SetPlayersLoaded(string(role), snap.Players(role))
	}
	l.Info("reference data loaded",
		applogger.String("source", cfg.Reference.Source),
		applogger.Int("batters", snap.Players(models.RoleBatter)),
		applogger.Int("pitchers", snap.Players(models.RolePitcher)),
	)
	return snap, nil
}

// ProvideResolver builds the feature resolver over the loaded snapshot.
func ProvideResolver(store repository.AggregateStore, cfg *config.Config, l *applogger.Logger) *features.Resolver {
	r := features.NewResolver(store, cfg.Smoothing)
	r.SetLogger(l)
	return r
}

// ProvidePredictor picks the predictor variant once for the process lifetime.
func ProvidePredictor(cfg *config.Config, l *applogger.Logger, m repository.Metrics) domsvc.Predictor {
	return predictor.Select(predictor.Options{
		Enabled: cfg.Model.Enabled,
		Path:    cfg.Model.Path,
		Columns: features.Columns(),
	}, l, m)
}

// ProvideCache returns Redis when enabled and reachable, else an in-memory cache.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.BytesCache, func()) {
	if cfg.Cache.Redis.Enabled {
		rc, err := cache.DialRedis(context.Background(), cache.RedisConfig{
			Addr:       cfg.Cache.Redis.Addr,
			Password:   cfg.Cache.Redis.Password,
			DB:         cfg.Cache.Redis.DB,
			Prefix:     "baseball:",
			DefaultTTL: cfg.Cache.TTL,
		})
		if err == nil {
			l.Info("prediction cache: redis", applogger.String("addr", cfg.Cache.Redis.Addr))
			return rc, func() {
				if err := rc.Close(); err != nil {
					l.Warn("redis close error", applogger.Error(err))
				}
			}
		}
		l.Warn("redis unreachable, using in-memory cache", applogger.Error(err))
	}
	return cache.NewTTLCache(cfg.Cache.TTL), noop
}

// ProvidePredictionPublisher returns nil when Kafka is disabled.
func ProvidePredictionPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.PredictionPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPredictionPublisher(producer, cfg.Kafka.Topic)
}

// ProvideMatchupPipeline assembles the request pipeline.
func ProvideMatchupPipeline(
	r *features.Resolver,
	p domsvc.Predictor,
	c cache.BytesCache,
	pub repository.PredictionPublisher,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.MatchupPipeline {
	opts := []usecase.PipelineOption{
		usecase.WithCache(c, cfg.Cache.TTL),
		usecase.WithMetrics(m),
		usecase.WithLogger(l),
	}
	if pub != nil {
		opts = append(opts, usecase.WithPublisher(pub))
	}
	return usecase.NewMatchupPipeline(validation.New(), r, p, insight.NewComposer(), opts...)
}

// ProvideRateLimiter returns nil when rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.Server.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.Refill)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(l *applogger.Logger, p *usecase.MatchupPipeline, lim *ratelimit.Limiter) xhttp.Handler {
	return api.NewMatchupHandler(l, p, lim)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path, cfg.Server.SlowThreshold),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server. Clients are released by the
// injector cleanup once Run returns, after the pipeline has drained its
// in-flight events.
func ProvideApp(l *applogger.Logger, srv *xhttp.Server, pipeline *usecase.MatchupPipeline) *server.App {
	return server.New(l, srv,
		server.WithCloser("pipeline", server.CloserFunc(func() error { pipeline.Close(); return nil })),
	)
}
