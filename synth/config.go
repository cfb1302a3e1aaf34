package synth

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/katalvlaran/synthbal/balance"
	"github.com/katalvlaran/synthbal/lowrank"
)

// Method selects how the synthetic path is built.
type Method int

const (
	// MethodBalance uses balancing weights from the dual program.
	MethodBalance Method = iota
	// MethodSynth uses simplex least-squares weights.
	MethodSynth
	// MethodCompletion imputes the path by low-rank matrix completion.
	MethodCompletion
)

// String returns the configuration name of the method.
func (m Method) String() string {
	switch m {
	case MethodBalance:
		return "balance"
	case MethodSynth:
		return "synth"
	case MethodCompletion:
		return "completion"
	}

	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps "balance", "synth" or "completion" to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "balance", "":
		return MethodBalance, nil
	case "synth":
		return MethodSynth, nil
	case "completion", "mc":
		return MethodCompletion, nil
	}

	return 0, fmt.Errorf("%q: %w", s, ErrUnknownMethod)
}

// Calibration searches the tolerance grid Start..End by By before fitting.
// GroupSize 0 runs one scalar binary search; a positive GroupSize runs a
// lexical search over chunks of that many constraints, latest first.
type Calibration struct {
	Start     float64
	End       float64
	By        float64
	GroupSize int
}

// Config configures the pipeline.
//   - Balance: optimizer options (Lambda is the tolerance when uncalibrated).
//   - Reduce: optional SVD reduction of the pre-period design.
//   - Calibrate: optional tolerance search.
//   - Synth, Completion: options of the alternative methods.
//   - Workers: parallelism of FitOutcomes (≤ 0 means GOMAXPROCS).
//   - Logger: nil discards.
type Config struct {
	Method     Method
	Balance    balance.Options
	Reduce     *lowrank.SVDOptions
	Calibrate  *Calibration
	Synth      lowrank.SynthOptions
	Completion lowrank.CompletionOptions
	Workers    int
	Logger     *slog.Logger
}

// DefaultConfig returns an uncalibrated balance fit with default options.
func DefaultConfig() Config {
	return Config{
		Method:     MethodBalance,
		Balance:    balance.DefaultOptions(),
		Synth:      lowrank.DefaultSynthOptions(),
		Completion: lowrank.DefaultCompletionOptions(),
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return c.Logger
}
