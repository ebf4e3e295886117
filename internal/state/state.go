// Package state holds the Connect Four board: grid storage, move legality, move application and
// retraction, and four-in-a-row detection.
package state

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

const (
	// NumPlayers is fixed at 2.
	NumPlayers = 2

	// DefaultRows and DefaultCols define the standard 6x7 board.
	DefaultRows = 6
	DefaultCols = 7

	// ConnectLength is the number of aligned discs needed to win, and also the length of the
	// windows used for threat and sequence scoring.
	ConnectLength = 4
)

// PlayerNum is either 0 or 1 corresponding to the first player to move or the second player to move.
type PlayerNum uint8

const (
	PlayerFirst PlayerNum = iota
	PlayerSecond

	// PlayerInvalid represents an invalid PlayerNum. It is also used as "no player" (no winner).
	PlayerInvalid
)

//go:generate go tool enumer -type=PlayerNum -trimprefix=Player -values -text -json state.go

// Opponent returns the other player. It returns PlayerInvalid for PlayerInvalid.
func (p PlayerNum) Opponent() PlayerNum {
	switch p {
	case PlayerFirst:
		return PlayerSecond
	case PlayerSecond:
		return PlayerFirst
	}
	return PlayerInvalid
}

// Cell is the content of one position of the grid.
type Cell uint8

const (
	Empty Cell = iota
	FirstDisc
	SecondDisc
)

// CellLetters are used by String and by the test helpers to parse boards.
var CellLetters = [3]string{".", "X", "O"}

// DiscOf returns the cell value for the given player's disc.
func DiscOf(player PlayerNum) Cell {
	switch player {
	case PlayerFirst:
		return FirstDisc
	case PlayerSecond:
		return SecondDisc
	}
	return Empty
}

// Player owning the disc, or PlayerInvalid for an Empty cell.
func (c Cell) Player() PlayerNum {
	switch c {
	case FirstDisc:
		return PlayerFirst
	case SecondDisc:
		return PlayerSecond
	}
	return PlayerInvalid
}

// String returns the one letter representation of the cell.
func (c Cell) String() string {
	if int(c) < len(CellLetters) {
		return CellLetters[c]
	}
	return "?"
}

var (
	// ErrIllegalMove is returned (wrapped) by Board.ApplyMove when the column is out of range or full.
	ErrIllegalMove = errors.New("illegal move")

	// ErrEmptyColumn is returned (wrapped) by Board.RetractMove when there is nothing to retract.
	// It indicates a misuse by the caller.
	ErrEmptyColumn = errors.New("empty column")
)

// Board is a rows x cols grid, with row 0 at the top and row rows-1 at the bottom. Discs fall
// to the lowest empty row of a column.
//
// Board is mutated in place by ApplyMove and RetractMove. Searchers that need an independent
// copy (e.g. to work concurrently) must call Clone.
type Board struct {
	rows, cols int

	// cells in row-major order.
	cells []Cell

	// NextPlayer is the player to move. It is only changed by SwitchPlayer.
	NextPlayer PlayerNum
}

// NewBoard creates an empty board with the given dimensions. It panics if rows or cols are
// smaller than ConnectLength.
func NewBoard(rows, cols int) *Board {
	if rows < ConnectLength || cols < ConnectLength {
		exceptions.Panicf("board %dx%d is smaller than the connect length %d", rows, cols, ConnectLength)
	}
	return &Board{
		rows:       rows,
		cols:       cols,
		cells:      make([]Cell, rows*cols),
		NextPlayer: PlayerFirst,
	}
}

// NewDefaultBoard creates an empty 6x7 board.
func NewDefaultBoard() *Board {
	return NewBoard(DefaultRows, DefaultCols)
}

// Clone makes a deep copy of the board.
func (b *Board) Clone() *Board {
	newB := &Board{}
	*newB = *b
	newB.cells = slices.Clone(b.cells)
	return newB
}

// Equal returns whether both boards have the same dimensions, cells and next player.
func (b *Board) Equal(b2 *Board) bool {
	return b.rows == b2.rows && b.cols == b2.cols && b.NextPlayer == b2.NextPlayer &&
		slices.Equal(b.cells, b2.cells)
}

// Rows in the board.
func (b *Board) Rows() int { return b.rows }

// Cols (columns) in the board.
func (b *Board) Cols() int { return b.cols }

// InBounds returns whether the row and column are inside the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// CellAt returns the content of the given position. It returns Empty for positions out of the board.
func (b *Board) CellAt(row, col int) Cell {
	if !b.InBounds(row, col) {
		return Empty
	}
	return b.cells[row*b.cols+col]
}

// SetCell sets the content of the position directly, without checking gravity. It is meant
// for building test positions and for renderers; games should use ApplyMove.
func (b *Board) SetCell(row, col int, c Cell) {
	b.cells[row*b.cols+col] = c
}

// IsLegal returns whether a disc can be dropped in column: it must be in range and its top cell empty.
func (b *Board) IsLegal(col int) bool {
	return col >= 0 && col < b.cols && b.cells[col] == Empty
}

// LegalColumns returns the legal columns in ascending order.
func (b *Board) LegalColumns() []int {
	legal := make([]int, 0, b.cols)
	for col := range b.cols {
		if b.IsLegal(col) {
			legal = append(legal, col)
		}
	}
	return legal
}

// LandingRow returns the row where a disc dropped in col would land, or -1 if the
// column is illegal.
func (b *Board) LandingRow(col int) int {
	if !b.IsLegal(col) {
		return -1
	}
	for row := b.rows - 1; row >= 0; row-- {
		if b.cells[row*b.cols+col] == Empty {
			return row
		}
	}
	return -1
}

// ApplyMove drops the player's disc in the column, at the lowest empty row. It mutates exactly one cell.
//
// It returns an error wrapping ErrIllegalMove if the column is out of range, full, or if player is not
// a valid player. It doesn't change NextPlayer: see SwitchPlayer.
func (b *Board) ApplyMove(col int, player PlayerNum) error {
	if player != PlayerFirst && player != PlayerSecond {
		return errors.Wrapf(ErrIllegalMove, "invalid player %s", player)
	}
	row := b.LandingRow(col)
	if row < 0 {
		if col < 0 || col >= b.cols {
			return errors.Wrapf(ErrIllegalMove, "column %d out of range [0, %d)", col, b.cols)
		}
		return errors.Wrapf(ErrIllegalMove, "column %d is full", col)
	}
	b.cells[row*b.cols+col] = DiscOf(player)
	return nil
}

// RetractMove removes the topmost disc of the column.
//
// It is only meant to undo an ApplyMove on the same column done immediately before (trial moves during
// search): it doesn't check which disc it removes. It returns an error wrapping ErrEmptyColumn if the
// column has no discs (or is out of range).
func (b *Board) RetractMove(col int) error {
	if col < 0 || col >= b.cols {
		return errors.Wrapf(ErrEmptyColumn, "column %d out of range [0, %d)", col, b.cols)
	}
	for row := range b.rows {
		idx := row*b.cols + col
		if b.cells[idx] != Empty {
			b.cells[idx] = Empty
			return nil
		}
	}
	return errors.Wrapf(ErrEmptyColumn, "nothing to retract in column %d", col)
}

// SwitchPlayer flips NextPlayer.
func (b *Board) SwitchPlayer() {
	b.NextPlayer = 1 - b.NextPlayer
}

// NumPieces returns the number of discs on the board, which is also the number of moves played.
func (b *Board) NumPieces() int {
	count := 0
	for _, c := range b.cells {
		if c != Empty {
			count++
		}
	}
	return count
}

// IsFull returns true if every cell is occupied. It is the draw condition, once it is known there
// is no winner.
func (b *Board) IsFull() bool {
	return !slices.Contains(b.cells, Empty)
}

// HasFourInARow returns whether there are ConnectLength equal non-empty cells aligned horizontally,
// vertically or in either diagonal.
func (b *Board) HasFourInARow() bool {
	return b.Winner() != PlayerInvalid
}

// Winner returns the owner of the first four-in-a-row found, or PlayerInvalid if there is none.
func (b *Board) Winner() PlayerNum {
	for w := range b.Windows() {
		if w.Count(FirstDisc) == ConnectLength {
			return PlayerFirst
		}
		if w.Count(SecondDisc) == ConnectLength {
			return PlayerSecond
		}
	}
	return PlayerInvalid
}

// Direction is a (row, column) step.
type Direction [2]int

// Directions lists the 4 orientations scanned: horizontal, vertical, diagonal down-right ("↘")
// and diagonal up-right ("↗").
var Directions = [4]Direction{{0, 1}, {1, 0}, {1, 1}, {-1, 1}}

// Window is a run of ConnectLength cells along one of the Directions.
type Window struct {
	Row, Col int
	Dir      Direction
	Cells    [ConnectLength]Cell
}

// Count returns how many cells in the window hold c.
func (w Window) Count(c Cell) (count int) {
	for _, wc := range w.Cells {
		if wc == c {
			count++
		}
	}
	return
}

// Windows iterates over every window that fits in the board, for every one of the Directions,
// in that order. Within a direction, origins are visited row by row, column by column.
func (b *Board) Windows() iter.Seq[Window] {
	return func(yield func(Window) bool) {
		for _, dir := range Directions {
			for row := range b.rows {
				lastRow := row + (ConnectLength-1)*dir[0]
				if lastRow < 0 || lastRow >= b.rows {
					continue
				}
				for col := 0; col+(ConnectLength-1)*dir[1] < b.cols; col++ {
					w := Window{Row: row, Col: col, Dir: dir}
					for ii := range ConnectLength {
						w.Cells[ii] = b.cells[(row+ii*dir[0])*b.cols+col+ii*dir[1]]
					}
					if !yield(w) {
						return
					}
				}
			}
		}
	}
}

// CountAdjacent counts consecutive cells owned by player starting from (row, col) + dir (excluded),
// and walking in the dir direction.
func (b *Board) CountAdjacent(row, col int, dir Direction, player PlayerNum) (count int) {
	disc := DiscOf(player)
	r, c := row+dir[0], col+dir[1]
	for b.InBounds(r, c) && b.cells[r*b.cols+c] == disc {
		count++
		r += dir[0]
		c += dir[1]
	}
	return
}

// String returns an ASCII dump of the board, top row first.
func (b *Board) String() string {
	var sb strings.Builder
	for row := range b.rows {
		for col := range b.cols {
			sb.WriteString(b.cells[row*b.cols+col].String())
		}
		sb.WriteString("\n")
	}
	_, _ = fmt.Fprintf(&sb, "next: %s\n", b.NextPlayer)
	return sb.String()
}
