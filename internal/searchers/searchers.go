// Package searchers defines the interface of the move selectors and generic wrappers around them.
//
// The selectors themselves live in the sub-packages gridsearch and priority.
package searchers

import (
	. "github.com/janpfeifer/connect4go/internal/state"
)

// Searcher is the interface that any of the move selection algorithms must adhere to be valid.
type Searcher interface {
	// Search returns the column to play for board.NextPlayer, and the score of that move if the
	// algorithm scores moves (0 otherwise). ok is false only if there are no legal moves.
	//
	// Optionally, it can also return the score for each of the columns of board.LegalColumns(), in the
	// same order. Rule-based algorithms return nil.
	//
	// The board must be left unchanged.
	Search(board *Board) (column int, ok bool, score float64, columnsScores []float64)
}
