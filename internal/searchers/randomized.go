package searchers

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/gomlx/exceptions"
	. "github.com/janpfeifer/connect4go/internal/state"
	"k8s.io/klog/v2"
)

// NewRandomizedSearcher adds randomness to the column chosen by an existing Searcher.
// Args:
//
//   - searcher: Baseline Searcher. It must return the columnsScores, otherwise no randomness is added.
//   - randomness (>=0): Amount of randomness to use: it is applied as a divisor to the scores
//     returned by the Searcher, except if there is a winning move.
//     The larger the value the more it leads to randomness (exploration), and lower values
//     lead to "pick the best scoring move" (exploitation), with zero meaning no randomness.
//   - maxMoveRandomness: starting at this move no more randomness is used. This allows
//     randomness to be used only earlier in the match.
//   - rng: source of randomness. If nil, a randomly seeded one is created.
func NewRandomizedSearcher(searcher Searcher, randomness float64, maxMoveRandomness int, rng *rand.Rand) Searcher {
	if randomness <= 0 {
		// Without randomness, simply return the original Searcher.
		return searcher
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &randomizedSearcher{searcher: searcher, randomness: randomness, maxMoveRandomness: maxMoveRandomness, rng: rng}
}

// randomizedSearcher is a meta Searcher, that introduces randomness to its scorer.
type randomizedSearcher struct {
	searcher          Searcher
	randomness        float64
	maxMoveRandomness int
	rng               *rand.Rand
}

// Assert randomizedSearcher is a Searcher.
var _ Searcher = &randomizedSearcher{}

// Search implements the Searcher interface.
func (rs *randomizedSearcher) Search(board *Board) (column int, ok bool, score float64, columnsScores []float64) {
	// Get scores from base searcher for current board.
	column, ok, score, columnsScores = rs.searcher.Search(board)

	// If we reached the max move number for randomness, or if the searcher doesn't return scores for the
	// different columns, or if there is only one column possible, or if it is a winning move,
	// we don't add any randomness.
	if !ok || board.NumPieces() >= rs.maxMoveRandomness || len(columnsScores) <= 1 || isWinningMove(board, column) {
		return
	}
	legal := board.LegalColumns()
	if len(columnsScores) != len(legal) {
		exceptions.Panicf("randomizedSearcher: Searcher returned %d columnsScores, but board has %d legal columns!?",
			len(columnsScores), len(legal))
	}

	// Calculate probability for each column.
	logits := make([]float64, len(columnsScores))
	for ii, s := range columnsScores {
		logits[ii] = s / rs.randomness
	}
	probabilities := softmax(logits)

	// Select from probabilities.
	chance := rs.rng.Float64()
	for idx, value := range probabilities {
		if chance > value && idx < len(probabilities)-1 {
			chance -= value
			continue
		}

		// Found the new column:
		if klog.V(2).Enabled() {
			klog.Infof("randomizedSearcher selection: column=%d, score=%g (base searcher chose %d)",
				legal[idx], columnsScores[idx], column)
		}
		return legal[idx], true, columnsScores[idx], columnsScores
	}
	// It should not reach here.
	exceptions.Panicf("Nothing selected!? remaining chance=%f, probabilities=%v", chance, probabilities)
	return
}

// isWinningMove checks whether playing column immediately wins the game for board.NextPlayer.
func isWinningMove(board *Board, column int) bool {
	if board.ApplyMove(column, board.NextPlayer) != nil {
		return false
	}
	wins := board.Winner() == board.NextPlayer
	if err := board.RetractMove(column); err != nil {
		exceptions.Panicf("failed to retract trial move on column %d: %+v", column, err)
	}
	return wins
}

func softmax(values []float64) (probs []float64) {
	probs = make([]float64, len(values))
	var sum float64

	// Subtract maxValue from all values keep the probability the same, but makes for more numerically stable
	// values.
	maxValue := slices.Max(values)
	for ii, value := range values {
		probs[ii] = math.Exp(value - maxValue)
		sum += probs[ii]
	}
	for ii := range probs {
		probs[ii] /= sum
	}
	return
}
