package cv

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Method names a cross-validation harness.
type Method string

const (
	MethodLOO       Method = "loo"
	MethodKFold     Method = "kfold"
	MethodBootstrap Method = "bootstrap"
)

// ParseMethod accepts "loo", "kfold" or "bootstrap" (case-insensitive).
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodLOO, MethodKFold, MethodBootstrap:
		return m, nil
	}

	return "", fmt.Errorf("method %q: %w", s, ErrBadOptions)
}

// Options configures the harnesses.
//   - K: folds for KFold (2 ≤ K ≤ controls).
//   - B: resamples for Bootstrap (≥ 1).
//   - Seed: root of every random stream.
//   - Workers: ParallelMap limit; ≤ 0 means GOMAXPROCS.
//   - Logger: progress at Debug, selection at Info; nil discards.
type Options struct {
	K       int
	B       int
	Seed    uint64
	Workers int
	Logger  *slog.Logger
}

// DefaultOptions returns K=5, B=100, Seed=1011.
func DefaultOptions() Options {
	return Options{K: 5, B: 100, Seed: 1011}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return o.Logger
}
