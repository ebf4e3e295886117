// Package features implements the board features used by the heuristic evaluator.
//
// All features are counts for one player, so they are non-negative. The windowed features
// slide a length state.ConnectLength window across every orientation (see state.Board.Windows).
package features

import (
	"fmt"
	"strings"

	. "github.com/janpfeifer/connect4go/internal/state"
	"k8s.io/klog/v2"
)

// Id enumerates the board features.
type Id uint8

const (
	// IdPieceCount is the number of windows holding 2 or more of the player's discs, regardless of
	// what else is in the window. It's a density signal, not a strict sequence one.
	IdPieceCount Id = iota

	// IdWinningMoves is the number of windows with exactly 3 of the player's discs and one empty
	// cell: an immediate threat to win.
	IdWinningMoves

	// IdCenterControl is the number of the player's discs in the center column (Cols/2).
	IdCenterControl

	// NumFeatures defined -- this must always be the last enum.
	NumFeatures
)

// Setter is the signature of the function that calculates one feature.
type Setter func(b *Board, player PlayerNum) float64

// Spec includes the feature name and the function that calculates it.
type Spec struct {
	Id     Id
	Name   string
	Setter Setter
}

// Specs enumerates in order the features extracted by ForBoard.
var Specs = [NumFeatures]Spec{
	{IdPieceCount, "PieceCount", PieceCount},
	{IdWinningMoves, "WinningMoves", WinningMoves},
	{IdCenterControl, "CenterControl", CenterControl},
}

func init() {
	for ii := range Specs {
		if Specs[ii].Id != Id(ii) {
			klog.Fatalf("features.Specs index %d for %s doesn't match constant.", ii, Specs[ii].Name)
		}
	}
}

// Vector holds one value per feature, indexed by Id.
type Vector [NumFeatures]float64

// String implements fmt.Stringer.
func (v Vector) String() string {
	parts := make([]string, 0, NumFeatures)
	for _, spec := range Specs {
		parts = append(parts, fmt.Sprintf("%s=%g", spec.Name, v[spec.Id]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ForBoard calculates all features for the given player.
//
// The windowed features are collected in a single pass over the windows, and must match
// what the individual Setter functions return.
func ForBoard(b *Board, player PlayerNum) (v Vector) {
	disc := DiscOf(player)
	for w := range b.Windows() {
		mine := w.Count(disc)
		if mine >= 2 {
			v[IdPieceCount]++
		}
		if mine == ConnectLength-1 && w.Count(Empty) == 1 {
			v[IdWinningMoves]++
		}
	}
	v[IdCenterControl] = CenterControl(b, player)
	return
}

// PieceCount returns the number of windows with 2 or more of the player's discs.
func PieceCount(b *Board, player PlayerNum) float64 {
	disc := DiscOf(player)
	count := 0
	for w := range b.Windows() {
		if w.Count(disc) >= 2 {
			count++
		}
	}
	return float64(count)
}

// WinningMoves returns the number of windows with exactly 3 discs of the player and one empty cell.
func WinningMoves(b *Board, player PlayerNum) float64 {
	disc := DiscOf(player)
	count := 0
	for w := range b.Windows() {
		if w.Count(disc) == ConnectLength-1 && w.Count(Empty) == 1 {
			count++
		}
	}
	return float64(count)
}

// CenterColumn returns the column considered the center of the board: Cols/2.
func CenterColumn(b *Board) int {
	return b.Cols() / 2
}

// CenterControl returns the number of the player's discs in the CenterColumn.
func CenterControl(b *Board, player PlayerNum) float64 {
	disc := DiscOf(player)
	col := CenterColumn(b)
	count := 0
	for row := range b.Rows() {
		if b.CellAt(row, col) == disc {
			count++
		}
	}
	return float64(count)
}
