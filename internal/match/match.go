// Package match runs matches between two players: it alternates turns, applies the chosen moves,
// and detects the end of the game (four-in-a-row or full board).
package match

import (
	"context"
	"fmt"
	"time"

	"github.com/janpfeifer/connect4go/internal/players"
	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrNoMove is returned (wrapped) by Run when a player returns no move. Since the match ends as soon as
// the board is full, a player is only asked to play when there are legal columns.
var ErrNoMove = errors.New("player returned no move on a non-full board")

// Options for Run. The zero value plays on a default 6x7 board.
type Options struct {
	// Rows and Cols of the board. If 0, the defaults are used.
	Rows, Cols int

	// Name of the match, for logging.
	Name string

	// OnMove, if set, is called after every move is applied, with the board after the move.
	// The board must not be modified.
	OnMove func(board *Board, player PlayerNum, column int)
}

// Result of a match.
type Result struct {
	Name string

	// Winner of the match, or PlayerInvalid for a draw.
	Winner PlayerNum

	// Moves (columns) played, alternating players, starting with PlayerFirst.
	Moves []int

	// ThinkingTime accumulated by each player, and the number of moves of each player.
	ThinkingTime [NumPlayers]time.Duration
	NumMoves     [NumPlayers]int

	// FinalBoard position of the match.
	FinalBoard *Board
}

// IsDraw returns whether the match ended in a draw.
func (r *Result) IsDraw() bool {
	return r.Winner == PlayerInvalid
}

// AverageMoveTime of the player in the match.
func (r *Result) AverageMoveTime(player PlayerNum) time.Duration {
	if r.NumMoves[player] == 0 {
		return 0
	}
	return r.ThinkingTime[player] / time.Duration(r.NumMoves[player])
}

// String implements fmt.Stringer.
func (r *Result) String() string {
	if r.IsDraw() {
		return fmt.Sprintf("%s: draw after %d moves", r.Name, len(r.Moves))
	}
	return fmt.Sprintf("%s: %s player wins after %d moves", r.Name, r.Winner, len(r.Moves))
}

// Run plays a match between matchPlayers[PlayerFirst] and matchPlayers[PlayerSecond], starting from an
// empty board, until one of them has a four-in-a-row or the board is full.
//
// The match is a draw only when the board is full without a four-in-a-row. A player returning no move
// (ok=false) is an error wrapping ErrNoMove, and a player choosing an illegal column is an error
// wrapping state.ErrIllegalMove. Players are finalized at the end of the match, including on errors.
//
// If ctx is cancelled, the match is interrupted and the context error is returned.
func Run(ctx context.Context, matchPlayers [NumPlayers]players.Player, opts Options) (*Result, error) {
	defer func() {
		for _, p := range matchPlayers {
			p.Finalize()
		}
	}()
	rows, cols := opts.Rows, opts.Cols
	if rows == 0 {
		rows = DefaultRows
	}
	if cols == 0 {
		cols = DefaultCols
	}
	board := NewBoard(rows, cols)
	result := &Result{Name: opts.Name, Winner: PlayerInvalid}
	if klog.V(1).Enabled() {
		klog.Infof("%s: starting %s vs %s", opts.Name, matchPlayers[PlayerFirst], matchPlayers[PlayerSecond])
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithMessagef(err, "%s interrupted after %d moves", opts.Name, len(result.Moves))
		}
		playerNum := board.NextPlayer
		player := matchPlayers[playerNum]
		start := time.Now()
		column, ok := player.Play(board)
		result.ThinkingTime[playerNum] += time.Since(start)
		if !ok {
			return nil, errors.Wrapf(ErrNoMove, "%s: %s player (%s) at move #%d, with %d legal columns",
				opts.Name, playerNum, player, len(result.Moves), len(board.LegalColumns()))
		}
		if err := board.ApplyMove(column, playerNum); err != nil {
			return nil, errors.WithMessagef(err, "%s: %s player (%s) at move #%d",
				opts.Name, playerNum, player, len(result.Moves))
		}
		result.Moves = append(result.Moves, column)
		result.NumMoves[playerNum]++
		if opts.OnMove != nil {
			opts.OnMove(board, playerNum, column)
		}
		if board.HasFourInARow() {
			result.Winner = playerNum
			break
		}
		if board.IsFull() {
			break
		}
		board.SwitchPlayer()
	}
	result.FinalBoard = board
	klog.V(1).Infof("%s", result)
	return result, nil
}
