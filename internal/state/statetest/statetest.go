// Package statetest provides helper functions to create tests using Connect Four boards.
package statetest

import (
	"strings"

	"github.com/gomlx/exceptions"
	. "github.com/janpfeifer/connect4go/internal/state"
)

// BuildBoard from a literal layout, one string per row, top row first. Each character is
// one of "." (empty), "X" (PlayerFirst) or "O" (PlayerSecond). Spaces are ignored.
//
// Cells are set directly, so the layout is not checked for gravity. NextPlayer is set to
// the player with fewer discs (PlayerFirst on ties).
func BuildBoard(layout ...string) (b *Board) {
	if len(layout) == 0 {
		return NewDefaultBoard()
	}
	rows := make([]string, len(layout))
	for ii, line := range layout {
		rows[ii] = strings.ReplaceAll(line, " ", "")
	}
	b = NewBoard(len(rows), len(rows[0]))
	var counts [NumPlayers]int
	for row, line := range rows {
		if len(line) != b.Cols() {
			exceptions.Panicf("row %d has %d cells, wanted %d: %q", row, len(line), b.Cols(), line)
		}
		for col, r := range line {
			var c Cell
			switch r {
			case '.':
				c = Empty
			case 'X', 'x':
				c = FirstDisc
			case 'O', 'o':
				c = SecondDisc
			default:
				exceptions.Panicf("unknown cell %q at row %d, column %d", r, row, col)
			}
			b.SetCell(row, col, c)
			if c != Empty {
				counts[c.Player()]++
			}
		}
	}
	if counts[PlayerSecond] < counts[PlayerFirst] {
		b.NextPlayer = PlayerSecond
	}
	return
}

// PlayColumns applies the columns alternating players, starting with b.NextPlayer, and
// switching players after each move. It panics on illegal moves.
func PlayColumns(b *Board, columns ...int) *Board {
	for _, col := range columns {
		if err := b.ApplyMove(col, b.NextPlayer); err != nil {
			panic(err)
		}
		b.SwitchPlayer()
	}
	return b
}
