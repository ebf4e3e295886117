package priority_test

import (
	"testing"

	. "github.com/janpfeifer/connect4go/internal/searchers/priority"
	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/janpfeifer/connect4go/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyBoard(t *testing.T) {
	b := NewDefaultBoard()
	col, tier := New().Choose(b, PlayerFirst)
	assert.Equal(t, 3, col)
	assert.Equal(t, TierCenter, tier)
	assert.Equal(t, "Center", tier.String())
	assert.Equal(t, []int{4, 3, 5}, New().CenterOrder(NewBoard(6, 9)))
}

func TestWin(t *testing.T) {
	b := statetest.BuildBoard(
		".......",
		".......",
		".......",
		".......",
		"..OOO..",
		"..XXX.O",
	)
	before := b.Clone()
	col, tier := New().Choose(b, PlayerFirst)
	assert.Equal(t, 1, col)
	assert.Equal(t, TierWin, tier)
	assert.True(t, before.Equal(b), "Choose must not change the board")

	// Own win comes before blocking.
	col, tier = New().WithBlockOpponent(true).Choose(b, PlayerFirst)
	assert.Equal(t, 1, col)
	assert.Equal(t, TierWin, tier)

	// Second's three on row 4 can't be completed yet: the cells below (4, 1) and (4, 5) are empty.
	col, tier = New().Choose(b, PlayerSecond)
	assert.Equal(t, 3, col)
	assert.Equal(t, TierCenter, tier)
}

func TestBlockOpponentVariant(t *testing.T) {
	b := statetest.BuildBoard(
		".......",
		".......",
		".......",
		"......O",
		"......O",
		"X..X..O",
	)
	// By default only First's own wins are checked, so the opponent's threat on column 6 is ignored.
	col, tier := New().Choose(b, PlayerFirst)
	assert.Equal(t, 3, col)
	assert.Equal(t, TierCenter, tier)

	col, tier = New().WithBlockOpponent(true).Choose(b, PlayerFirst)
	assert.Equal(t, 6, col)
	assert.Equal(t, TierBlock, tier)
}

func TestSequence(t *testing.T) {
	b := statetest.BuildBoard(
		".......",
		".......",
		".......",
		".......",
		".......",
		"..XX..O",
	)
	// Column 1 lands next to the two X's.
	col, tier := New().Choose(b, PlayerFirst)
	assert.Equal(t, 1, col)
	assert.Equal(t, TierSequence, tier)

	// For Second nothing builds a sequence.
	col, tier = New().Choose(b, PlayerSecond)
	assert.Equal(t, 3, col)
	assert.Equal(t, TierCenter, tier)

	b = statetest.BuildBoard(
		".......",
		".......",
		".......",
		".......",
		".X.....",
		"XO.....",
	)
	// Diagonal: (3, 2) continues (4, 1) and (5, 0), but column 2 lands on (5, 2).
	assert.False(t, BuildsSequence(b, b.LandingRow(2), 2, PlayerFirst))
	assert.True(t, BuildsSequence(b, 3, 2, PlayerFirst))
	// The vertical run below (3, 1) is broken by the O.
	assert.False(t, BuildsSequence(b, b.LandingRow(1), 1, PlayerFirst))
}

func TestRandom(t *testing.T) {
	b := NewDefaultBoard()
	s1 := New().WithSeed(42).WithCenterOrder([]int{})
	s2 := New().WithSeed(42).WithCenterOrder([]int{})
	seen := make(map[int]bool)
	for range 50 {
		col, tier := s1.Choose(b, PlayerFirst)
		assert.Equal(t, TierRandom, tier)
		assert.True(t, b.IsLegal(col))
		col2, _ := s2.Choose(b, PlayerFirst)
		assert.Equal(t, col, col2, "same seed must choose the same columns")
		seen[col] = true
	}
	assert.Greater(t, len(seen), 3)

	// Only one legal column.
	b = statetest.BuildBoard(
		"XXOO.XO",
		"OOXXOOX",
		"XXOOXXO",
		"OOXXOOX",
		"XXOOXXO",
		"OOXXOOX",
	)
	col, ok := New().WithCenterOrder([]int{}).SelectMove(b, PlayerFirst)
	require.True(t, ok)
	assert.Equal(t, 4, col)
}

func TestFullBoard(t *testing.T) {
	b := statetest.BuildBoard(
		"XXOOXXO",
		"OOXXOOX",
		"XXOOXXO",
		"OOXXOOX",
		"XXOOXXO",
		"OOXXOOX",
	)
	_, tier := New().Choose(b, PlayerFirst)
	assert.Equal(t, TierNone, tier)
	_, ok, _, _ := New().Search(b)
	assert.False(t, ok)
}
