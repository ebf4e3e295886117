// Package evolver tunes the heuristic weights offline with a simple genetic algorithm.
//
// Each genome is a linear.Weights. Its fitness is the sum of the heuristic scores, for one player, over
// a fixed set of reference boards. At each generation the best half of the population is kept as
// parents, and the next population is bred by uniform crossover of two distinct parents plus an
// occasional mutation of one weight.
//
// The tuned weights can be saved with linear.Scorer.Save, and used with "grid:weights=<file>".
package evolver

import (
	"cmp"
	"context"
	"math/rand/v2"
	"runtime"
	"slices"

	"github.com/janpfeifer/connect4go/internal/ai"
	"github.com/janpfeifer/connect4go/internal/ai/linear"
	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Config of the Evolver.
type Config struct {
	Generations    int
	PopulationSize int

	// MutationRate is the probability of a child being mutated.
	MutationRate float64

	// MutationStep is the maximum absolute change of a mutated weight.
	MutationStep float64

	// MaxWeight: weights are sampled in [0, MaxWeight] and clamped to it after mutations.
	MaxWeight float64

	// Player for which the reference boards are scored.
	Player PlayerNum

	// Seed for the random number generator. If 0 a random seed is used.
	Seed uint64

	// Parallelism of the fitness evaluation. If <= 0 runtime.GOMAXPROCS(0) is used.
	Parallelism int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Generations:    30,
		PopulationSize: 10,
		MutationRate:   0.1,
		MutationStep:   0.5,
		MaxWeight:      3,
		Player:         PlayerFirst,
	}
}

// Validate the configuration.
func (c Config) Validate() error {
	switch {
	case c.Generations <= 0:
		return errors.Errorf("evolver requires Generations > 0, got %d", c.Generations)
	case c.PopulationSize < 4:
		return errors.Errorf("evolver requires PopulationSize >= 4 (2 distinct parents), got %d", c.PopulationSize)
	case c.MutationRate < 0 || c.MutationRate > 1:
		return errors.Errorf("evolver MutationRate must be in [0, 1], got %g", c.MutationRate)
	case !(c.MaxWeight > 0):
		return errors.Errorf("evolver MaxWeight must be > 0, got %g", c.MaxWeight)
	case c.MutationStep < 0:
		return errors.Errorf("evolver MutationStep must be >= 0, got %g", c.MutationStep)
	case c.Player != PlayerFirst && c.Player != PlayerSecond:
		return errors.Errorf("evolver Player must be a valid player, got %s", c.Player)
	}
	return nil
}

// Evolver holds the configuration, the reference boards and the random number generator.
type Evolver struct {
	config Config
	boards []*Board
	rng    *rand.Rand
}

// New creates an Evolver that scores genomes over the given reference boards. The boards are not modified.
func New(config Config, referenceBoards []*Board) (*Evolver, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(referenceBoards) == 0 {
		return nil, errors.New("evolver requires at least one reference board")
	}
	seed := config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Evolver{
		config: config,
		boards: referenceBoards,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Fitness of the scorer: the sum of its scores over the reference boards, for the configured player.
func (e *Evolver) Fitness(scorer ai.ValueScorer) (sum float64) {
	for _, b := range e.boards {
		sum += scorer.Score(b, e.config.Player)
	}
	return
}

// Scored is a genome with its fitness.
type Scored struct {
	Weights linear.Weights
	Fitness float64
}

// Result of a Run.
type Result struct {
	// Best genome of the final population, and its fitness.
	Best Scored

	// History holds the best fitness of each generation.
	History []float64
}

// RandomGenome with each weight uniformly sampled in [0, MaxWeight].
func (e *Evolver) RandomGenome() linear.Weights {
	return linear.Weights{
		PieceCount:    e.rng.Float64() * e.config.MaxWeight,
		WinningMoves:  e.rng.Float64() * e.config.MaxWeight,
		CenterControl: e.rng.Float64() * e.config.MaxWeight,
	}
}

// Crossover takes each weight from either parent with equal probability.
func (e *Evolver) Crossover(p1, p2 linear.Weights) linear.Weights {
	pick := func(a, b float64) float64 {
		if e.rng.IntN(2) == 0 {
			return a
		}
		return b
	}
	return linear.Weights{
		PieceCount:    pick(p1.PieceCount, p2.PieceCount),
		WinningMoves:  pick(p1.WinningMoves, p2.WinningMoves),
		CenterControl: pick(p1.CenterControl, p2.CenterControl),
	}
}

// Mutate one randomly chosen weight by a uniform step in [-MutationStep, MutationStep], clamped
// to [0, MaxWeight].
func (e *Evolver) Mutate(w linear.Weights) linear.Weights {
	delta := (2*e.rng.Float64() - 1) * e.config.MutationStep
	clamp := func(v float64) float64 { return min(max(v+delta, 0), e.config.MaxWeight) }
	switch e.rng.IntN(3) {
	case 0:
		w.PieceCount = clamp(w.PieceCount)
	case 1:
		w.WinningMoves = clamp(w.WinningMoves)
	default:
		w.CenterControl = clamp(w.CenterControl)
	}
	return w
}

// score the population in parallel, and return it sorted by decreasing fitness. Ties keep the
// population order.
func (e *Evolver) score(ctx context.Context, population []linear.Weights) ([]Scored, error) {
	scored := make([]Scored, len(population))
	parallelism := e.config.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for ii, w := range population {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			scored[ii] = Scored{Weights: w, Fitness: e.Fitness(linear.NewWithWeights(w))}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortStableFunc(scored, func(a, b Scored) int { return cmp.Compare(b.Fitness, a.Fitness) })
	return scored, nil
}

// Run the evolution for the configured number of generations. onGeneration, if not nil, is called
// after each generation is scored, with the best genome of the generation.
//
// If ctx is cancelled it returns the context error.
func (e *Evolver) Run(ctx context.Context, onGeneration func(generation int, best Scored)) (*Result, error) {
	cfg := e.config
	population := make([]linear.Weights, cfg.PopulationSize)
	for ii := range population {
		population[ii] = e.RandomGenome()
	}
	result := &Result{History: make([]float64, 0, cfg.Generations)}

	for gen := range cfg.Generations {
		scored, err := e.score(ctx, population)
		if err != nil {
			return nil, errors.WithMessagef(err, "evolver interrupted at generation %d", gen)
		}
		result.History = append(result.History, scored[0].Fitness)
		klog.V(1).Infof("Generation %d: best fitness %.2f with weights %s", gen, scored[0].Fitness, scored[0].Weights)
		if onGeneration != nil {
			onGeneration(gen, scored[0])
		}

		parents := make([]linear.Weights, len(scored)/2)
		for ii := range parents {
			parents[ii] = scored[ii].Weights
		}
		next := make([]linear.Weights, 0, cfg.PopulationSize)
		for len(next) < cfg.PopulationSize {
			i1 := e.rng.IntN(len(parents))
			i2 := e.rng.IntN(len(parents) - 1)
			if i2 >= i1 {
				i2++
			}
			child := e.Crossover(parents[i1], parents[i2])
			if e.rng.Float64() < cfg.MutationRate {
				child = e.Mutate(child)
			}
			next = append(next, child)
		}
		population = next
	}

	scored, err := e.score(ctx, population)
	if err != nil {
		return nil, errors.WithMessage(err, "evolver interrupted scoring the final population")
	}
	result.Best = scored[0]
	return result, nil
}
