package main

import (
	"flag"
	"log"
	"os"

	"BaseballMVP/internal/di"
	"BaseballMVP/internal/domain/models"
	"BaseballMVP/internal/services/features"
	"BaseballMVP/internal/services/training"
	"BaseballMVP/pkg/config"
	applogger "BaseballMVP/pkg/logger"

	"github.com/creasty/defaults"
)

func main() {
	var params training.Params
	if err := defaults.Set(&params); err != nil {
		log.Fatalf("training defaults: %v", err)
	}

	configPath := flag.String("config", "config/config.yaml", "config file path")
	matchupsPath := flag.String("matchups", "data/matchups.json", "batter vs pitcher outcome table")
	out := flag.String("out", "", "artifact output path (defaults to model.path)")
	flag.IntVar(&params.Rounds, "rounds", params.Rounds, "boosting rounds per outcome")
	flag.Float64Var(&params.LearningRate, "lr", params.LearningRate, "learning rate")
	flag.Float64Var(&params.L2, "l2", params.L2, "leaf L2 regularization")
	flag.Float64Var(&params.MinLeafWeight, "min-leaf", params.MinLeafWeight, "minimum plate appearances per leaf")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *out == "" {
		*out = cfg.Model.Path
	}

	l, err := di.ProvideLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ch, closeCH, err := di.ProvideClickHouseClient(cfg, l)
	if err != nil {
		l.Error("clickhouse connect failed", applogger.Error(err))
		os.Exit(1)
	}
	store, err := di.ProvideAggregateStore(cfg, ch, l, di.ProvideMetrics())
	closeCH()
	if err != nil {
		l.Error("reference data load failed", applogger.Error(err))
		os.Exit(1)
	}

	rows, err := training.LoadMatchups(*matchupsPath)
	if err != nil {
		l.Error("matchups load failed", applogger.Error(err))
		os.Exit(1)
	}

	resolver := features.NewResolver(store, cfg.Smoothing)
	art, rep, err := training.Train(resolver, rows, params)
	if err != nil {
		l.Error("training failed", applogger.Error(err))
		os.Exit(1)
	}
	art.Meta["matchups"] = *matchupsPath

	for _, o := range models.Outcomes {
		l.Info("head trained",
			applogger.String("outcome", string(o)),
			applogger.Int("trees", rep.Trees[o]),
			applogger.Float64("logloss", rep.LogLoss[o]),
		)
	}
	if err := art.Save(*out); err != nil {
		l.Error("artifact write failed", applogger.Error(err))
		os.Exit(1)
	}
	l.Info("model artifact written",
		applogger.String("path", *out),
		applogger.Int("rows", rep.Rows),
		applogger.Int("skipped", rep.Skipped),
	)
}
