package evolver

import (
	"context"
	"testing"

	"github.com/janpfeifer/connect4go/internal/ai/linear"
	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/janpfeifer/connect4go/internal/state/statetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBoards() []*Board {
	return []*Board{
		statetest.BuildBoard(
			".......",
			".......",
			".......",
			"X......",
			"X......",
			"X.OO...",
		),
		statetest.BuildBoard(
			".......",
			".......",
			".......",
			"...O...",
			"...X...",
			"XX.XO..",
		),
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	for _, modify := range []func(c *Config){
		func(c *Config) { c.Generations = 0 },
		func(c *Config) { c.PopulationSize = 3 },
		func(c *Config) { c.MutationRate = 1.5 },
		func(c *Config) { c.MaxWeight = 0 },
		func(c *Config) { c.MutationStep = -1 },
		func(c *Config) { c.Player = PlayerInvalid },
	} {
		c := DefaultConfig()
		modify(&c)
		assert.Error(t, c.Validate())
	}
	_, err := New(DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestFitness(t *testing.T) {
	e, err := New(DefaultConfig(), testBoards())
	require.NoError(t, err)
	// Features of First: {2, 1, 0} on the first board and {3, 1, 2} on the second.
	assert.Equal(t, 3.0+6.0, e.Fitness(linear.NewWithWeights(linear.Weights{PieceCount: 1, WinningMoves: 1, CenterControl: 1})))
	assert.Equal(t, 0.0, e.Fitness(linear.NewWithWeights(linear.Weights{})))
}

func TestGeneticOperators(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 11
	e, err := New(cfg, testBoards())
	require.NoError(t, err)

	p1 := linear.Weights{PieceCount: 0, WinningMoves: 0, CenterControl: 0}
	p2 := linear.Weights{PieceCount: 3, WinningMoves: 3, CenterControl: 3}
	for range 100 {
		w := e.RandomGenome()
		for _, v := range w.Vector() {
			assert.True(t, v >= 0 && v <= cfg.MaxWeight)
		}

		child := e.Crossover(p1, p2)
		for _, v := range child.Vector() {
			assert.True(t, v == 0 || v == 3)
		}

		mutated := e.Mutate(w)
		numChanged := 0
		for ii, v := range mutated.Vector() {
			assert.True(t, v >= 0 && v <= cfg.MaxWeight)
			if v != w.Vector()[ii] {
				numChanged++
				assert.InDelta(t, w.Vector()[ii], v, cfg.MutationStep)
			}
		}
		assert.LessOrEqual(t, numChanged, 1)
	}
}

func TestRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generations = 8
	cfg.PopulationSize = 6
	cfg.MutationRate = 0.5
	cfg.Seed = 42
	cfg.Parallelism = 3

	run := func() *Result {
		e, err := New(cfg, testBoards())
		require.NoError(t, err)
		var generations []int
		result, err := e.Run(context.Background(), func(generation int, best Scored) {
			generations = append(generations, generation)
		})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, generations)
		assert.Equal(t, result.Best.Fitness, e.Fitness(linear.NewWithWeights(result.Best.Weights)))
		return result
	}
	r1 := run()
	r2 := run()
	assert.Len(t, r1.History, cfg.Generations)
	assert.Equal(t, r1, r2, "same seed must give the same evolution")
	require.NoError(t, r1.Best.Weights.Validate())
	for _, v := range r1.Best.Weights.Vector() {
		assert.LessOrEqual(t, v, cfg.MaxWeight)
	}
}

func TestRunCancelled(t *testing.T) {
	e, err := New(DefaultConfig(), testBoards())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Run(ctx, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestReferenceBoards(t *testing.T) {
	boards, err := ReferenceBoards(context.Background(), 3, 7)
	require.NoError(t, err)
	require.NotEmpty(t, boards)
	again, err := ReferenceBoards(context.Background(), 3, 7)
	require.NoError(t, err)
	require.Len(t, again, len(boards))
	for ii := range boards {
		assert.True(t, boards[ii].Equal(again[ii]))
	}
	// First board of each match has one disc.
	assert.Equal(t, 1, boards[0].NumPieces())
}
