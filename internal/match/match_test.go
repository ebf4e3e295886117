package match_test

import (
	"context"
	"testing"
	"time"

	. "github.com/janpfeifer/connect4go/internal/match"
	"github.com/janpfeifer/connect4go/internal/players"
	_ "github.com/janpfeifer/connect4go/internal/players/default"
	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPlayer plays the given columns in order, and reports no move when they are exhausted.
type scriptedPlayer struct {
	columns   []int
	finalized bool
}

func (p *scriptedPlayer) Play(board *Board) (column int, ok bool) {
	if len(p.columns) == 0 {
		return 0, false
	}
	column = p.columns[0]
	p.columns = p.columns[1:]
	return column, true
}

func (p *scriptedPlayer) Finalize()      { p.finalized = true }
func (p *scriptedPlayer) String() string { return "scripted" }

var _ players.Player = (*scriptedPlayer)(nil)

func TestRunWin(t *testing.T) {
	first := &scriptedPlayer{columns: []int{0, 0, 0, 0}}
	second := &scriptedPlayer{columns: []int{1, 1, 1}}
	var numCalls int
	result, err := Run(context.Background(), [NumPlayers]players.Player{first, second}, Options{
		Name:   "test",
		OnMove: func(board *Board, player PlayerNum, column int) { numCalls++ },
	})
	require.NoError(t, err)
	assert.Equal(t, PlayerFirst, result.Winner)
	assert.False(t, result.IsDraw())
	assert.Equal(t, []int{0, 1, 0, 1, 0, 1, 0}, result.Moves)
	assert.Equal(t, [NumPlayers]int{4, 3}, result.NumMoves)
	assert.Equal(t, 7, numCalls)
	assert.Equal(t, 7, result.FinalBoard.NumPieces())
	assert.True(t, first.finalized)
	assert.True(t, second.finalized)
	assert.Equal(t, "test: First player wins after 7 moves", result.String())
}

func TestRunDraw(t *testing.T) {
	// Fills a 4x4 board as:
	//
	//	XXOO
	//	OOXX
	//	XXOO
	//	OOXX
	first := &scriptedPlayer{columns: []int{2, 3, 0, 1, 2, 3, 0, 1}}
	second := &scriptedPlayer{columns: []int{0, 1, 2, 3, 0, 1, 2, 3}}
	result, err := Run(context.Background(), [NumPlayers]players.Player{first, second}, Options{Rows: 4, Cols: 4})
	require.NoError(t, err)
	assert.True(t, result.IsDraw())
	assert.True(t, result.FinalBoard.IsFull())
	assert.Len(t, result.Moves, 16)
	assert.Equal(t, "XXOO", result.FinalBoard.String()[:4])
}

func TestRunNoMoveIsError(t *testing.T) {
	first := &scriptedPlayer{columns: []int{3}}
	second := &scriptedPlayer{}
	result, err := Run(context.Background(), [NumPlayers]players.Player{first, second}, Options{Name: "quitter"})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrNoMove))
	assert.ErrorContains(t, err, "Second player (scripted) at move #1, with 7 legal columns")
	assert.True(t, first.finalized)
	assert.True(t, second.finalized)
}

func TestRunDrawOnlyWhenFull(t *testing.T) {
	// Same 4x4 draw as TestRunDraw, but the players have extra columns they are never asked for:
	// the match ends as soon as the board is full.
	first := &scriptedPlayer{columns: []int{2, 3, 0, 1, 2, 3, 0, 1, 0}}
	second := &scriptedPlayer{columns: []int{0, 1, 2, 3, 0, 1, 2, 3, 0}}
	result, err := Run(context.Background(), [NumPlayers]players.Player{first, second}, Options{Rows: 4, Cols: 4})
	require.NoError(t, err)
	assert.True(t, result.IsDraw())
	assert.True(t, result.FinalBoard.IsFull())
	assert.Len(t, first.columns, 1)
	assert.Len(t, second.columns, 1)

	// One move short of full: the second player giving up is not a draw.
	first = &scriptedPlayer{columns: []int{2, 3, 0, 1, 2, 3, 0, 1}}
	second = &scriptedPlayer{columns: []int{0, 1, 2, 3, 0, 1, 2}}
	_, err = Run(context.Background(), [NumPlayers]players.Player{first, second}, Options{Rows: 4, Cols: 4})
	assert.True(t, errors.Is(err, ErrNoMove))
	assert.ErrorContains(t, err, "with 1 legal columns")
}

func TestRunIllegalMove(t *testing.T) {
	first := &scriptedPlayer{columns: []int{7}}
	second := &scriptedPlayer{}
	_, err := Run(context.Background(), [NumPlayers]players.Player{first, second}, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalMove))
	assert.True(t, first.finalized)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	first, second := &scriptedPlayer{columns: []int{0}}, &scriptedPlayer{}
	_, err := Run(ctx, [NumPlayers]players.Player{first, second}, Options{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunDefaultPlayers(t *testing.T) {
	grid, err := players.New(0, "test", PlayerFirst, "grid")
	require.NoError(t, err)
	prio, err := players.New(0, "test", PlayerSecond, "priority:seed=1")
	require.NoError(t, err)
	result, err := Run(context.Background(), [NumPlayers]players.Player{grid, prio}, Options{Name: "grid-vs-priority"})
	require.NoError(t, err)
	b := result.FinalBoard
	if result.IsDraw() {
		assert.True(t, b.IsFull())
		assert.False(t, b.HasFourInARow())
	} else {
		assert.Equal(t, result.Winner, b.Winner())
	}
	// Replaying the moves gives the same final board.
	replay := NewDefaultBoard()
	for ii, col := range result.Moves {
		require.NoError(t, replay.ApplyMove(col, PlayerNum(ii%2)))
	}
	replay.NextPlayer = b.NextPlayer
	assert.True(t, replay.Equal(b))
}

func TestTally(t *testing.T) {
	tally := NewTally([2]string{"a", "b"}, 4)
	// AI-1 first and wins.
	tally.Add(&Result{Winner: PlayerFirst, ThinkingTime: [2]time.Duration{4 * time.Second, 2 * time.Second},
		NumMoves: [2]int{4, 3}}, 0)
	// AI-2 first, AI-1 wins as second.
	tally.Add(&Result{Winner: PlayerSecond, ThinkingTime: [2]time.Duration{time.Second, 2 * time.Second},
		NumMoves: [2]int{1, 1}}, 1)
	// AI-1 first, draw.
	tally.Add(&Result{Winner: PlayerInvalid}, 0)
	// AI-2 first and wins.
	tally.Add(&Result{Winner: PlayerFirst}, 1)

	assert.Equal(t, [2]int{1, 1}, tally.WinsAs1st)
	assert.Equal(t, [2]int{1, 0}, tally.WinsAs2nd)
	assert.Equal(t, [2]int{1, 0}, tally.Draws)
	assert.Equal(t, 2, tally.Wins(0))
	assert.Equal(t, 1, tally.Wins(1))
	assert.Equal(t, 0.5, tally.WinRate(0))
	assert.Equal(t, 0.25, tally.DrawRate())
	assert.Equal(t, [2]int{5, 4}, tally.NumMoves)
	assert.Equal(t, 1200*time.Millisecond, tally.AverageMoveTime(0))
	assert.Equal(t, 750*time.Millisecond, tally.AverageMoveTime(1))
	assert.Contains(t, tally.String(), "Played 4 of 4: AI-1: 2 Wins (1st: 1, 2nd: 1) / AI-2: 1 Wins (1st: 1, 2nd: 0) / 1 draws")
	assert.Contains(t, tally.Summary(), "win rate  50.0%")
}

func TestCompare(t *testing.T) {
	var numResults int
	tally, err := Compare(context.Background(), CompareOptions{
		Configs:     [2]string{"grid", "priority:seed=3"},
		NumMatches:  4,
		Parallelism: 2,
		OnResult: func(matchIdx, firstAI int, result *Result, tally *Tally) {
			numResults++
			assert.Equal(t, matchIdx%2, firstAI)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, numResults)
	assert.Equal(t, 4, tally.Played)
	total := tally.Wins(0) + tally.Wins(1) + tally.Draws[0] + tally.Draws[1]
	assert.Equal(t, 4, total)

	_, err = Compare(context.Background(), CompareOptions{Configs: [2]string{"grid", "unknown"}, NumMatches: 2})
	assert.Error(t, err)
}
