package searchers

import (
	"math/rand/v2"
	"testing"

	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/janpfeifer/connect4go/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSearcher always picks the first legal column, and scores legal columns by their index.
type fixedSearcher struct{}

func (fixedSearcher) Search(board *Board) (column int, ok bool, score float64, columnsScores []float64) {
	legal := board.LegalColumns()
	if len(legal) == 0 {
		return
	}
	columnsScores = make([]float64, len(legal))
	for ii, col := range legal {
		columnsScores[ii] = float64(col)
	}
	return legal[0], true, columnsScores[0], columnsScores
}

func TestSoftmax(t *testing.T) {
	probs := softmax([]float64{1, 1, 1, 1})
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25}, probs, 1e-9)
	probs = softmax([]float64{0, 1000})
	assert.InDeltaSlice(t, []float64{0, 1}, probs, 1e-9)
}

func TestRandomizedSearcher(t *testing.T) {
	base := fixedSearcher{}
	assert.Equal(t, Searcher(base), NewRandomizedSearcher(base, 0, 100, nil))

	rng := rand.New(rand.NewPCG(1, 2))
	board := NewDefaultBoard()
	before := board.Clone()

	// Very low randomness: always the best scored column.
	rs := NewRandomizedSearcher(base, 1e-6, 100, rng)
	for range 20 {
		col, ok, score, _ := rs.Search(board)
		require.True(t, ok)
		assert.Equal(t, 6, col)
		assert.Equal(t, 6.0, score)
	}

	// High randomness: several different columns are chosen.
	rs = NewRandomizedSearcher(base, 1000, 100, rng)
	chosen := make(map[int]bool)
	for range 200 {
		col, ok, _, _ := rs.Search(board)
		require.True(t, ok)
		chosen[col] = true
	}
	assert.Greater(t, len(chosen), 3)
	assert.True(t, before.Equal(board))

	// After maxMoveRandomness the base searcher choice is kept.
	rs = NewRandomizedSearcher(base, 1000, 0, rng)
	col, _, _, _ := rs.Search(board)
	assert.Equal(t, 0, col)
}

func TestRandomizedSearcherKeepsWinningMove(t *testing.T) {
	board := statetest.BuildBoard(
		".......",
		".......",
		".......",
		"X......",
		"X......",
		"XOO....",
	)
	board.NextPlayer = PlayerFirst
	rs := NewRandomizedSearcher(fixedSearcher{}, 1000, 100, rand.New(rand.NewPCG(3, 4)))
	for range 20 {
		col, ok, _, _ := rs.Search(board)
		require.True(t, ok)
		assert.Equal(t, 0, col)
	}
	assert.Equal(t, 5, board.NumPieces())
}
