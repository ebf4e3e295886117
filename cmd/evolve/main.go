// evolve tunes the weights of the linear heuristic with a genetic algorithm, and saves the best
// weights found to a file that can be used with "grid:weights=<file>".
package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/janpfeifer/connect4go/internal/ai/linear"
	"github.com/janpfeifer/connect4go/internal/evolver"
	"github.com/janpfeifer/connect4go/internal/profilers"
	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/janpfeifer/connect4go/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	defaults = evolver.DefaultConfig()

	flagGenerations  = flag.Int("generations", defaults.Generations, "Number of generations to evolve.")
	flagPopulation   = flag.Int("population", defaults.PopulationSize, "Population size, at least 4.")
	flagMutationRate = flag.Float64("mutation_rate", defaults.MutationRate, "Probability of mutating a child.")
	flagMutationStep = flag.Float64("mutation_step", defaults.MutationStep, "Maximum change of a mutated weight.")
	flagMaxWeight    = flag.Float64("max_weight", defaults.MaxWeight, "Weights are kept in [0, max_weight].")
	flagSeed         = flag.Uint64("seed", 0, "Random seed. If 0, a random seed is used.")
	flagParallelism  = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and score "+
		"these many genomes simultaneously.")
	flagReferenceMatches = flag.Int("reference_matches", 20, "Number of matches played to generate "+
		"the reference boards used to score the genomes.")
	flagReferenceSeed = flag.Uint64("reference_seed", 1, "Seed of the matches that generate the reference boards.")
	flagOutput        = flag.String("output", "", "File where to save the best weights. Required.")
	flagPlayer        PlayerNum
)

func init() {
	flag.TextVar(&flagPlayer, "player", defaults.Player, "Player (First or Second) for which the boards are scored.")
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagOutput == "" {
		klog.Exit("Please set -output with the file where to save the evolved weights.")
	}

	// Capture Control+C
	ctx, cancel := context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 5*time.Second)
	defer cancel()

	must.M(profilers.Setup(ctx))
	defer profilers.OnQuit()

	must.M(evolve(ctx))
}

func evolve(ctx context.Context) error {
	config := evolver.Config{
		Generations:    *flagGenerations,
		PopulationSize: *flagPopulation,
		MutationRate:   *flagMutationRate,
		MutationStep:   *flagMutationStep,
		MaxWeight:      *flagMaxWeight,
		Player:         flagPlayer,
		Seed:           *flagSeed,
		Parallelism:    *flagParallelism,
	}
	if err := config.Validate(); err != nil {
		return err
	}

	fmt.Printf("Playing %d reference matches ", *flagReferenceMatches)
	s := spinning.New(ctx)
	boards, err := evolver.ReferenceBoards(ctx, *flagReferenceMatches, *flagReferenceSeed)
	s.Done()
	if err != nil {
		return err
	}
	fmt.Printf(" %d reference boards\n", len(boards))

	e, err := evolver.New(config, boards)
	if err != nil {
		return err
	}
	for _, preset := range linear.Presets {
		fmt.Printf("  Preset %-30s fitness %.2f\n", preset, e.Fitness(preset))
	}
	start := time.Now()
	result, err := e.Run(ctx, func(generation int, best evolver.Scored) {
		fmt.Printf("  Generation %3d: best fitness %.2f, weights %s\n", generation, best.Fitness, best.Weights)
	})
	if err != nil {
		return err
	}
	fmt.Printf("Best weights %s with fitness %.2f, evolved in %s\n",
		result.Best.Weights, result.Best.Fitness, time.Since(start).Round(time.Millisecond))
	fmt.Printf("Best fitness per generation: %s\n", formatHistory(result.History))

	scorer := linear.NewWithWeights(result.Best.Weights).WithName(filepath.Base(*flagOutput))
	scorer.FileName = *flagOutput
	if err := scorer.Save(); err != nil {
		return err
	}
	fmt.Printf("Saved to %s, use it with -ai=grid:weights=%s\n", *flagOutput, *flagOutput)
	return nil
}

// formatHistory lists the best fitness of each generation, and how many generations improved on the previous one.
func formatHistory(history []float64) string {
	if len(history) == 0 {
		return "[]"
	}
	parts := make([]string, len(history))
	improved := 0
	for ii, fitness := range history {
		parts[ii] = strconv.FormatFloat(fitness, 'f', 1, 64)
		if ii > 0 && fitness > history[ii-1] {
			improved++
		}
	}
	return fmt.Sprintf("[%s] (%d of %d generations improved)", strings.Join(parts, " "), improved, len(history)-1)
}
