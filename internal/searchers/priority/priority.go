// Package priority implements a rule based move selector: an ordered cascade of tiers, where the
// first tier that finds a column decides the move.
//
//  1. Win: a column that completes a four-in-a-row for the player.
//     Optionally (WithBlockOpponent) followed by a column that would complete one for the opponent.
//  2. Sequence: a column whose landing cell extends a run of 2 or more of the player's discs.
//  3. Center: the first legal column from a fixed list near the center.
//  4. Random: uniformly among the legal columns.
//
// It doesn't use the heuristic evaluator.
package priority

import (
	"fmt"
	"math/rand/v2"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/connect4go/internal/searchers"
	. "github.com/janpfeifer/connect4go/internal/state"
	"k8s.io/klog/v2"
)

// Tier that decided the selected column.
type Tier uint8

const (
	TierNone Tier = iota
	TierWin
	TierBlock
	TierSequence
	TierCenter
	TierRandom
)

var tierNames = []string{"None", "Win", "Block", "Sequence", "Center", "Random"}

// String implements fmt.Stringer.
func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return fmt.Sprintf("Tier(%d)", t)
}

// MinSequence is the number of the player's discs adjacent to the landing cell (in one orientation)
// that qualifies a column for TierSequence.
const MinSequence = 2

// Selector implements the priority cascade. It implements searchers.Searcher.
//
// A Selector holds its own random number generator, so it is not safe for concurrent use.
type Selector struct {
	rng           *rand.Rand
	blockOpponent bool
	centerOrder   []int
}

var _ searchers.Searcher = (*Selector)(nil)

// New creates a Selector with a randomly seeded random number generator.
func New() *Selector {
	return &Selector{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// WithSeed makes the random tier deterministic. It returns itself.
func (s *Selector) WithSeed(seed uint64) *Selector {
	s.rng = rand.New(rand.NewPCG(seed, seed))
	return s
}

// WithBlockOpponent enables the scan for the opponent's immediate wins, right after the scan for the
// player's own immediate wins. It is disabled by default: only the player's own wins are checked.
func (s *Selector) WithBlockOpponent(block bool) *Selector {
	s.blockOpponent = block
	return s
}

// WithCenterOrder sets the columns tried, in order, by TierCenter.
// If not set (or set to nil), it defaults to the center column followed by its left and right neighbours:
// [3, 2, 4] on a 7 columns board.
func (s *Selector) WithCenterOrder(columns []int) *Selector {
	s.centerOrder = columns
	return s
}

// CenterOrder returns the columns tried by TierCenter for the given board.
func (s *Selector) CenterOrder(board *Board) []int {
	if s.centerOrder != nil {
		return s.centerOrder
	}
	center := board.Cols() / 2
	return []int{center, center - 1, center + 1}
}

// SelectMove returns the column chosen for player, or ok=false if there are no legal columns.
func (s *Selector) SelectMove(board *Board, player PlayerNum) (column int, ok bool) {
	column, tier := s.Choose(board, player)
	return column, tier != TierNone
}

// Search implements searchers.Searcher, for board.NextPlayer. It doesn't score moves.
func (s *Selector) Search(board *Board) (column int, ok bool, score float64, columnsScores []float64) {
	column, ok = s.SelectMove(board, board.NextPlayer)
	return
}

// Choose returns the column chosen for player and the tier that decided it.
// If there are no legal columns it returns TierNone.
//
// The board is left unchanged.
func (s *Selector) Choose(board *Board, player PlayerNum) (column int, tier Tier) {
	column, tier = s.choose(board, player)
	if klog.V(2).Enabled() {
		klog.Infof("priority: player %s selected column %d by tier %s", player, column, tier)
	}
	return
}

func (s *Selector) choose(board *Board, player PlayerNum) (int, Tier) {
	legal := board.LegalColumns()
	if len(legal) == 0 {
		return -1, TierNone
	}

	// Tier 1: immediate win.
	if col, found := findWinning(board, legal, player); found {
		return col, TierWin
	}
	if s.blockOpponent {
		if col, found := findWinning(board, legal, player.Opponent()); found {
			return col, TierBlock
		}
	}

	// Tier 2: build sequences.
	for _, col := range legal {
		if BuildsSequence(board, board.LandingRow(col), col, player) {
			return col, TierSequence
		}
	}

	// Tier 3: center preference.
	for _, col := range s.CenterOrder(board) {
		if board.IsLegal(col) {
			return col, TierCenter
		}
	}

	// Tier 4: random.
	return legal[s.rng.IntN(len(legal))], TierRandom
}

// findWinning returns the first of the legal columns that, played by player, creates a four-in-a-row.
func findWinning(board *Board, legal []int, player PlayerNum) (column int, found bool) {
	for _, col := range legal {
		if err := board.ApplyMove(col, player); err != nil {
			exceptions.Panicf("priority: failed trial move on legal column %d: %+v", col, err)
		}
		found = board.HasFourInARow()
		if err := board.RetractMove(col); err != nil {
			exceptions.Panicf("priority: failed to retract trial move on column %d: %+v", col, err)
		}
		if found {
			return col, true
		}
	}
	return -1, false
}

// BuildsSequence returns whether a disc of player at (row, col) would be adjacent to MinSequence or
// more of the player's discs along any of the 4 orientations, counting both ways.
func BuildsSequence(board *Board, row, col int, player PlayerNum) bool {
	for _, dir := range Directions {
		opposite := Direction{-dir[0], -dir[1]}
		if board.CountAdjacent(row, col, dir, player)+board.CountAdjacent(row, col, opposite, player) >= MinSequence {
			return true
		}
	}
	return false
}
