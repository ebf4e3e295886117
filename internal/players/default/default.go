// Package _default registers the default players that can be included in any front-end:
//
//   - "grid": the grid search selector (see package gridsearch), configured with
//     piece_count=, winning_moves=, center_control= ("/" separated lists of weights values),
//     or weights=<preset or file> for a single tuned set of weights; parallelism=<n>;
//     randomness=<x> and max_move_randomness=<n> to add softmax exploration; seed=<n>.
//   - "priority": the rule based selector (see package priority), configured with
//     block (also check the opponent's immediate wins); center=3/2/4; seed=<n>.
//
// Seeds are offset by the match id and the player, so different matches don't play the same.
package _default

import (
	"fmt"
	"math/rand/v2"

	"github.com/janpfeifer/connect4go/internal/ai/linear"
	"github.com/janpfeifer/connect4go/internal/generics"
	"github.com/janpfeifer/connect4go/internal/parameters"
	"github.com/janpfeifer/connect4go/internal/players"
	"github.com/janpfeifer/connect4go/internal/searchers"
	"github.com/janpfeifer/connect4go/internal/searchers/gridsearch"
	"github.com/janpfeifer/connect4go/internal/searchers/priority"
	"github.com/janpfeifer/connect4go/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

func init() {
	players.RegisterModule("grid", &Grid{})
	players.RegisterModule("priority", &Priority{})
}

// matchSeed derives the seed for one player in one match. It returns 0 if seed is 0 (not set).
func matchSeed(seed, matchId uint64, playerNum state.PlayerNum) uint64 {
	if seed == 0 {
		return 0
	}
	return seed + 2*matchId + uint64(playerNum)
}

// newRNG returns a PCG generator for the seed, or a randomly seeded one if seed is 0.
func newRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// Grid builds players using the grid search selector.
type Grid struct{}

// Assert Grid implements Module.
var _ players.Module = (*Grid)(nil)

// NewPlayer implements players.Module.
func (g *Grid) NewPlayer(matchId uint64, matchName string, playerNum state.PlayerNum, params parameters.Params) (players.Player, error) {
	grid, name, err := weightGridFromParams(params)
	if err != nil {
		return nil, err
	}
	parallelism, err := parameters.PopParamOr(params, "parallelism", 1)
	if err != nil {
		return nil, err
	}
	randomness, err := parameters.PopParamOr(params, "randomness", 0.0)
	if err != nil {
		return nil, err
	}
	maxMoveRandomness, err := parameters.PopParamOr(params, "max_move_randomness", state.DefaultRows*state.DefaultCols)
	if err != nil {
		return nil, err
	}
	seed, err := parameters.PopParamOr(params, "seed", uint64(0))
	if err != nil {
		return nil, err
	}
	if randomness < 0 {
		return nil, errors.Errorf("randomness=%g must be non-negative", randomness)
	}
	if randomness > 0 {
		name = fmt.Sprintf("%s, randomness=%g", name, randomness)
	}

	var searcher searchers.Searcher = gridsearch.New(grid).WithParallelism(parallelism)
	searcher = searchers.NewRandomizedSearcher(searcher, randomness, maxMoveRandomness,
		newRNG(matchSeed(seed, matchId, playerNum)))
	klog.V(1).Infof("%s: player %s using %s", matchName, playerNum, name)
	return players.NewSearcherPlayer(name, matchName, searcher), nil
}

// weightGridFromParams pops the weights configuration, and returns the grid and the name of the player.
func weightGridFromParams(params parameters.Params) (grid gridsearch.WeightGrid, name string, err error) {
	if _, found := params["weights"]; found {
		for _, key := range []string{"piece_count", "winning_moves", "center_control"} {
			if _, listed := params[key]; listed {
				return grid, "", errors.Errorf("grid parameters \"weights\" and %q are exclusive", key)
			}
		}
		var modelName string
		modelName, err = parameters.PopParamOr(params, "weights", "best")
		if err != nil {
			return
		}
		if modelName == "" {
			modelName = "best"
		}
		var scorer *linear.Scorer
		scorer, err = linear.NewFromName(modelName)
		if err != nil {
			return
		}
		if err = scorer.Weights.Validate(); err != nil {
			err = errors.WithMessagef(err, "weights=%s", modelName)
			return
		}
		return gridsearch.SingletonGrid(scorer.Weights), fmt.Sprintf("grid(%s)", scorer), nil
	}

	defaults := gridsearch.DefaultValues
	if grid.PieceCount, err = parameters.PopListOr(params, "piece_count", defaults); err != nil {
		return
	}
	if grid.WinningMoves, err = parameters.PopListOr(params, "winning_moves", defaults); err != nil {
		return
	}
	if grid.CenterControl, err = parameters.PopListOr(params, "center_control", defaults); err != nil {
		return
	}
	if err = grid.Validate(); err != nil {
		return
	}
	name = fmt.Sprintf("grid(%d combinations)", grid.Len())
	return
}

// Priority builds players using the rule based priority selector.
type Priority struct{}

// Assert Priority implements Module.
var _ players.Module = (*Priority)(nil)

// NewPlayer implements players.Module.
func (p *Priority) NewPlayer(matchId uint64, matchName string, playerNum state.PlayerNum, params parameters.Params) (players.Player, error) {
	block, err := parameters.PopParamOr(params, "block", false)
	if err != nil {
		return nil, err
	}
	seed, err := parameters.PopParamOr(params, "seed", uint64(0))
	if err != nil {
		return nil, err
	}
	selector := priority.New()
	if seed = matchSeed(seed, matchId, playerNum); seed != 0 {
		selector.WithSeed(seed)
	}
	selector.WithBlockOpponent(block)
	name := "priority"
	if _, found := params["center"]; found {
		center, err := parameters.PopListOr(params, "center", []int{})
		if err != nil {
			return nil, err
		}
		seen := generics.MakeSet[int](len(center))
		for _, col := range center {
			if col < 0 || col >= state.DefaultCols {
				return nil, errors.Errorf("priority parameter center=%v has column %d out of range [0, %d)",
					center, col, state.DefaultCols)
			}
			if seen.Has(col) {
				return nil, errors.Errorf("priority parameter center=%v repeats column %d", center, col)
			}
			seen.Insert(col)
		}
		selector.WithCenterOrder(center)
		name = fmt.Sprintf("%s(center=%v)", name, center)
	}
	if block {
		name += "+block"
	}
	klog.V(1).Infof("%s: player %s using %s", matchName, playerNum, name)
	return players.NewSearcherPlayer(name, matchName, selector), nil
}
