// Package ai (Artificial Intelligence) defines standard interfaces that board evaluators
// have to implement.
package ai

import (
	. "github.com/janpfeifer/connect4go/internal/state"
)

// ValueScorer returns a score (value) of a board from the point of view of one player.
//
// Higher is better for the player. Scores are not normalized, and only comparable across
// boards evaluated by the same scorer.
type ValueScorer interface {
	Score(board *Board, player PlayerNum) float64
	String() string
}

// IsEndGame returns whether the game is over, and if so the winner (PlayerInvalid for a draw).
func IsEndGame(board *Board) (isEnd bool, winner PlayerNum) {
	winner = board.Winner()
	if winner != PlayerInvalid {
		return true, winner
	}
	return board.IsFull(), PlayerInvalid
}
