package config

// Config is the full configuration tree.
type Config struct {
	Logging    Logging    `yaml:"logging" envconfig:"LOGGING"`
	Simulation Simulation `yaml:"simulation" envconfig:"SIMULATION"`
	Fit        Fit        `yaml:"fit" envconfig:"FIT"`
	CV         CV         `yaml:"cv" envconfig:"CV"`
}

// Logging configures the slog handler.
type Logging struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

// Simulation configures the factor-model panel generator.
type Simulation struct {
	Controls int     `yaml:"controls" envconfig:"CONTROLS" validate:"min=1"`
	Treated  int     `yaml:"treated" envconfig:"TREATED" validate:"min=1"`
	Pre      int     `yaml:"pre" envconfig:"PRE" validate:"min=1"`
	Post     int     `yaml:"post" envconfig:"POST" validate:"min=1"`
	Factors  int     `yaml:"factors" envconfig:"FACTORS" validate:"min=1"`
	Noise    float64 `yaml:"noise" envconfig:"NOISE" validate:"gte=0"`
	Effect   float64 `yaml:"effect" envconfig:"EFFECT"`
	Seed     uint64  `yaml:"seed" envconfig:"SEED"`
	Outcome  string  `yaml:"outcome" envconfig:"OUTCOME"`
}

// Fit configures one pipeline fit.
//   - Lambda is the scalar tolerance; Eps, when set, is per constraint and
//     requires the l1 regularizer.
//   - Rank > 0 reduces the pre-period design to that many SVD components.
type Fit struct {
	Method      string     `yaml:"method" envconfig:"METHOD" validate:"oneof=balance synth completion"`
	Link        string     `yaml:"link" envconfig:"LINK" validate:"oneof=logit linear pos-linear"`
	Regularizer string     `yaml:"regularizer" envconfig:"REGULARIZER" validate:"oneof=l1 l2 linf ridge none"`
	Solver      string     `yaml:"solver" envconfig:"SOLVER" validate:"oneof=apg lbfgs"`
	Normalized  bool       `yaml:"normalized" envconfig:"NORMALIZED"`
	Lambda      float64    `yaml:"lambda" envconfig:"LAMBDA" validate:"gte=0"`
	Eps         []float64  `yaml:"eps" envconfig:"EPS" validate:"omitempty,dive,gte=0"`
	MaxIters    int        `yaml:"max_iters" envconfig:"MAX_ITERS" validate:"min=1"`
	EpsConv     float64    `yaml:"eps_conv" envconfig:"EPS_CONV" validate:"gt=0"`
	FeasTol     float64    `yaml:"feas_tol" envconfig:"FEAS_TOL" validate:"gte=0"`
	Rank        int        `yaml:"rank" envconfig:"RANK" validate:"gte=0"`
	Workers     int        `yaml:"workers" envconfig:"WORKERS" validate:"gte=0"`
	Calibrate   Calibrate  `yaml:"calibrate" envconfig:"CALIBRATE"`
	Completion  Completion `yaml:"completion" envconfig:"COMPLETION"`
}

// Calibrate configures the tolerance search. GroupSize > 0 selects the
// lexical search.
type Calibrate struct {
	Enabled   bool    `yaml:"enabled" envconfig:"ENABLED"`
	Start     float64 `yaml:"start" envconfig:"START" validate:"gte=0"`
	End       float64 `yaml:"end" envconfig:"END" validate:"gtefield=Start"`
	By        float64 `yaml:"by" envconfig:"BY" validate:"gt=0"`
	GroupSize int     `yaml:"group_size" envconfig:"GROUP_SIZE" validate:"gte=0"`
}

// Completion configures the matrix-completion method.
type Completion struct {
	Algorithm string  `yaml:"algorithm" envconfig:"ALGORITHM" validate:"oneof=soft-impute als"`
	Lambda    float64 `yaml:"lambda" envconfig:"LAMBDA" validate:"gte=0"`
	MaxRank   int     `yaml:"max_rank" envconfig:"MAX_RANK" validate:"min=1"`
	Seed      uint64  `yaml:"seed" envconfig:"SEED"`
}

// CV configures hyperparameter selection.
type CV struct {
	Method  string    `yaml:"method" envconfig:"METHOD" validate:"oneof=loo kfold bootstrap"`
	K       int       `yaml:"k" envconfig:"K" validate:"min=2"`
	B       int       `yaml:"b" envconfig:"B" validate:"min=1"`
	Seed    uint64    `yaml:"seed" envconfig:"SEED"`
	Workers int       `yaml:"workers" envconfig:"WORKERS" validate:"gte=0"`
	Grid    []float64 `yaml:"grid" envconfig:"GRID" validate:"min=1,dive,gte=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: Logging{Level: "info", Format: "json"},
		Simulation: Simulation{
			Controls: 50, Treated: 1, Pre: 50, Post: 40, Factors: 10,
			Noise: 0.5, Seed: 1011, Outcome: "y",
		},
		Fit: Fit{
			Method:      "balance",
			Link:        "logit",
			Regularizer: "l1",
			Solver:      "apg",
			Normalized:  true,
			MaxIters:    10000,
			EpsConv:     1e-7,
			FeasTol:     1e-4,
			Calibrate:   Calibrate{Start: 0, End: 10, By: 0.1},
			Completion:  Completion{Algorithm: "soft-impute", Lambda: 0.1, MaxRank: 10, Seed: 1},
		},
		CV: CV{
			Method: "kfold",
			K:      5,
			B:      100,
			Seed:   1011,
			Grid:   []float64{0.1, 0.25, 0.5, 1, 2, 5},
		},
	}
}
