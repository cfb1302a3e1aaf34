package panel

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Random stream ids derived from SimOptions.Seed. Each concern owns a stream
// so changing one size does not reshuffle the others.
const (
	streamFactors uint64 = iota + 1
	streamLoadings
	streamNoise
)

// SimOptions configures Simulate.
//
// Fields:
//   - Controls, Treated: unit counts (both ≥ 1).
//   - Pre, Post: period counts (both ≥ 1; treatment needs a post-period).
//   - Factors: number of latent factors (≥ 1).
//   - Noise: idiosyncratic noise standard deviation (≥ 0).
//   - Effect: additive treatment effect in post-periods.
//   - Seed: root seed for the PCG streams.
//   - Outcome: outcome-type id stamped on every observation.
type SimOptions struct {
	Controls int
	Treated  int
	Pre      int
	Post     int
	Factors  int
	Noise    float64
	Effect   float64
	Seed     uint64
	Outcome  string
}

// DefaultSimOptions returns a 50-control, 50-pre, 40-post, 10-factor panel
// with one treated unit.
func DefaultSimOptions() SimOptions {
	return SimOptions{
		Controls: 50,
		Treated:  1,
		Pre:      50,
		Post:     40,
		Factors:  10,
		Noise:    0.5,
		Effect:   0,
		Seed:     1011,
		Outcome:  "y",
	}
}

// Simulate draws a factor-model panel
//
//	Y_it = Σ_k λ_ik f_tk / √K + σ ε_it  (+ Effect for treated units, t ≥ TInt)
//
// with standard normal factors, loadings and noise. Times run 1..Pre+Post and
// TInt = Pre+1. Output is deterministic for a given SimOptions.
func Simulate(opts SimOptions) ([]Observation, error) {
	if opts.Controls < 1 || opts.Treated < 1 || opts.Pre < 1 || opts.Post < 1 || opts.Factors < 1 || opts.Noise < 0 {
		return nil, fmt.Errorf("%+v: %w", opts, ErrBadSimulation)
	}
	T := opts.Pre + opts.Post
	N := opts.Treated + opts.Controls
	K := opts.Factors
	tInt := opts.Pre + 1

	factors := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(opts.Seed, streamFactors)}
	loadings := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(opts.Seed, streamLoadings)}
	noise := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(opts.Seed, streamNoise)}

	f := make([][]float64, T)
	for t := range f {
		f[t] = make([]float64, K)
		for k := range f[t] {
			f[t][k] = factors.Rand()
		}
	}
	scale := 1 / math.Sqrt(float64(K))

	obs := make([]Observation, 0, N*T)
	for i := 0; i < N; i++ {
		isTrt := i < opts.Treated
		unit := fmt.Sprintf("c%03d", i-opts.Treated+1)
		if isTrt {
			unit = fmt.Sprintf("t%03d", i+1)
		}
		lambda := make([]float64, K)
		for k := range lambda {
			lambda[k] = loadings.Rand()
		}
		for t := 0; t < T; t++ {
			var y float64
			for k := 0; k < K; k++ {
				y += lambda[k] * f[t][k]
			}
			y = y*scale + opts.Noise*noise.Rand()
			time := t + 1
			post := time >= tInt
			if isTrt && post {
				y += opts.Effect
			}
			obs = append(obs, Observation{
				Unit:    unit,
				Time:    time,
				Value:   y,
				Treated: isTrt && post,
				Outcome: opts.Outcome,
			})
		}
	}

	return obs, nil
}
