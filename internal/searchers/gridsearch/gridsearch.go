// Package gridsearch implements the grid search move selector: for every legal column it plays the
// move, and scores the resulting board with every combination of a small discrete grid of
// heuristic weights. The column (and weights) with the highest score overall is selected.
//
// It never looks further than one move ahead.
package gridsearch

import (
	"iter"
	"math"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/connect4go/internal/ai/linear"
	"github.com/janpfeifer/connect4go/internal/features"
	"github.com/janpfeifer/connect4go/internal/searchers"
	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// WeightGrid holds the candidate values for each of the heuristic weights.
// The grid searched is the Cartesian product of the three lists.
type WeightGrid struct {
	PieceCount, WinningMoves, CenterControl []float64
}

// DefaultValues used for each weight in DefaultWeightGrid.
var DefaultValues = []float64{0, 1, 2, 3}

// DefaultWeightGrid returns the grid {0,1,2,3}^3.
func DefaultWeightGrid() WeightGrid {
	return WeightGrid{PieceCount: DefaultValues, WinningMoves: DefaultValues, CenterControl: DefaultValues}
}

// SingletonGrid returns a grid with only the given weights.
func SingletonGrid(w linear.Weights) WeightGrid {
	return WeightGrid{
		PieceCount:    []float64{w.PieceCount},
		WinningMoves:  []float64{w.WinningMoves},
		CenterControl: []float64{w.CenterControl},
	}
}

// Len returns the number of weight combinations in the grid.
func (g WeightGrid) Len() int {
	return len(g.PieceCount) * len(g.WinningMoves) * len(g.CenterControl)
}

// Validate checks that the grid is not empty and that all values are valid (non-negative) weights.
func (g WeightGrid) Validate() error {
	if g.Len() == 0 {
		return errors.New("weight grid requires at least one value for each weight")
	}
	for w := range g.Combinations() {
		if err := w.Validate(); err != nil {
			return errors.WithMessage(err, "invalid weight grid")
		}
	}
	return nil
}

// Combinations iterates over all weights of the grid, in Cartesian order: the CenterControl value
// varies fastest, and PieceCount slowest.
func (g WeightGrid) Combinations() iter.Seq[linear.Weights] {
	return func(yield func(linear.Weights) bool) {
		for _, pc := range g.PieceCount {
			for _, wm := range g.WinningMoves {
				for _, cc := range g.CenterControl {
					if !yield(linear.Weights{PieceCount: pc, WinningMoves: wm, CenterControl: cc}) {
						return
					}
				}
			}
		}
	}
}

// Result of a grid search.
type Result struct {
	// Column selected. Only valid if Found is true.
	Column int

	// Found is false only when there are no legal moves (full board).
	Found bool

	// Weights and Score of the best combination found.
	Weights linear.Weights
	Score   float64
}

// SelectMove searches all legal columns (in ascending order) times all weight combinations of grid,
// and returns the first (column, weights) that achieves the highest score for player.
//
// Each column is trial played for player on the board, and retracted before the next one: the board
// is left exactly as it was. The board's NextPlayer is not used or changed.
func SelectMove(board *Board, player PlayerNum, grid WeightGrid) Result {
	return New(grid).SelectMove(board, player)
}

// columnResult is the best weights and score for one column.
type columnResult struct {
	column  int
	weights linear.Weights
	score   float64
}

// scoreColumn trial plays column for player, and scores it with every combination of the grid.
// The first combination to reach the maximum is kept.
func scoreColumn(board *Board, column int, player PlayerNum, grid WeightGrid) columnResult {
	if err := board.ApplyMove(column, player); err != nil {
		exceptions.Panicf("gridsearch: failed trial move on legal column %d: %+v", column, err)
	}
	// Features don't depend on the weights, so they are computed once per column.
	v := features.ForBoard(board, player)
	if err := board.RetractMove(column); err != nil {
		exceptions.Panicf("gridsearch: failed to retract trial move on column %d: %+v", column, err)
	}

	best := columnResult{column: column, score: math.Inf(-1)}
	for weights := range grid.Combinations() {
		score := linear.ScoreFeatures(v, weights)
		if score > best.score {
			best.weights = weights
			best.score = score
		}
	}
	return best
}

// Searcher binds a weight grid to the grid search, and implements searchers.Searcher.
type Searcher struct {
	grid        WeightGrid
	parallelism int
}

var _ searchers.Searcher = (*Searcher)(nil)

// New creates a new grid Searcher. It panics if the grid is not valid, see WeightGrid.Validate.
func New(grid WeightGrid) *Searcher {
	if err := grid.Validate(); err != nil {
		exceptions.Panicf("gridsearch.New: %+v", err)
	}
	return &Searcher{grid: grid, parallelism: 1}
}

// WithParallelism sets the number of goroutines used to score the columns. Each goroutine works on
// its own copy of the board. Values <= 1 mean sequential, on the board itself.
//
// The result is the same as the sequential search.
func (s *Searcher) WithParallelism(parallelism int) *Searcher {
	s.parallelism = max(parallelism, 1)
	return s
}

// Grid returns the weight grid used by the Searcher.
func (s *Searcher) Grid() WeightGrid {
	return s.grid
}

// columnResults returns the best score and weights for each legal column, in ascending order of columns.
func (s *Searcher) columnResults(board *Board, player PlayerNum) []columnResult {
	legal := board.LegalColumns()
	results := make([]columnResult, len(legal))
	if s.parallelism <= 1 || len(legal) <= 1 {
		for ii, column := range legal {
			results[ii] = scoreColumn(board, column, player, s.grid)
		}
		return results
	}

	forEachParallel(len(legal), s.parallelism, func(ii int) {
		results[ii] = scoreColumn(board.Clone(), legal[ii], player, s.grid)
	})
	return results
}

// forEachParallel calls fn(ii) for every ii in [0, n), using at most parallelism goroutines.
//
// Panics in fn are caught in the workers: after all calls finish, the exception of the lowest ii is
// re-thrown on the caller's goroutine, as a sequential loop would do.
func forEachParallel(n, parallelism int, fn func(ii int)) {
	caught := make([]any, n)
	var g errgroup.Group
	g.SetLimit(parallelism)
	for ii := range n {
		g.Go(func() error {
			caught[ii] = exceptions.Try(func() { fn(ii) })
			return nil
		})
	}
	_ = g.Wait() // Workers don't return errors, exceptions are kept in caught.
	for _, e := range caught {
		if e != nil {
			panic(e)
		}
	}
}

// SelectMove returns the first (column, weights) that achieves the highest score for player.
// See package function SelectMove.
func (s *Searcher) SelectMove(board *Board, player PlayerNum) (result Result) {
	// Merging the per-column bests in ascending column order with a strict ">" keeps the
	// first maximum of the full (column x weights) scan.
	result.Score = math.Inf(-1)
	for _, colResult := range s.columnResults(board, player) {
		if colResult.score > result.Score {
			result = Result{Column: colResult.column, Found: true, Weights: colResult.weights, Score: colResult.score}
		}
	}
	if !result.Found {
		result.Score = 0
	}
	if klog.V(2).Enabled() {
		if result.Found {
			klog.Infof("gridsearch: player %s selected column %d, weights=%s, score=%g (%d combinations)",
				player, result.Column, result.Weights, result.Score, s.grid.Len())
		} else {
			klog.Infof("gridsearch: player %s has no legal moves", player)
		}
	}
	return
}

// ColumnScores returns the legal columns and the best score of each one over the weight grid.
func (s *Searcher) ColumnScores(board *Board, player PlayerNum) (columns []int, scores []float64) {
	results := s.columnResults(board, player)
	columns = make([]int, len(results))
	scores = make([]float64, len(results))
	for ii, r := range results {
		columns[ii] = r.column
		scores[ii] = r.score
	}
	return
}

// Search implements searchers.Searcher, for board.NextPlayer.
func (s *Searcher) Search(board *Board) (column int, ok bool, score float64, columnsScores []float64) {
	results := s.columnResults(board, board.NextPlayer)
	columnsScores = make([]float64, len(results))
	score = math.Inf(-1)
	for ii, r := range results {
		columnsScores[ii] = r.score
		if r.score > score {
			column, ok, score = r.column, true, r.score
		}
	}
	if !ok {
		return 0, false, 0, nil
	}
	return
}
