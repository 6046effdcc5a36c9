package predictor

import (
	"errors"
	"os"

	domrepo "BaseballMVP/internal/domain/repository"
	domsvc "BaseballMVP/internal/domain/service"
	applogger "BaseballMVP/pkg/logger"
)

// Options controls startup selection.
type Options struct {
	Enabled bool
	Path    string
	Columns []string
}

// Select loads the trained artifact when enabled and present, and otherwise
// returns the heuristic predictor. It runs once at startup; load failures
// are logged and counted but never returned.
func Select(opts Options, l *applogger.Logger, m domrepo.Metrics) domsvc.Predictor {
	if l == nil {
		l = applogger.Nop()
	}
	if m == nil {
		m = domrepo.NopMetrics{}
	}

	var p domsvc.Predictor = NewHeuristicPredictor()
	switch {
	case !opts.Enabled:
		l.Info("trained model disabled by config")
	case opts.Path == "":
		l.Info("no model path configured")
	default:
		a, err := LoadArtifact(opts.Path, opts.Columns)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				l.Info("no trained model artifact found", applogger.String("path", opts.Path))
			} else {
				l.Warn("trained model unusable, falling back to heuristic",
					applogger.String("path", opts.Path),
					applogger.Error(err),
				)
			}
			m.RecordModelLoadFailure()
			break
		}
		p = NewModelPredictor(a)
	}

	m.SetActiveVariant(string(p.Variant()))
	l.Info("predictor selected", applogger.String("variant", string(p.Variant())))
	return p
}
