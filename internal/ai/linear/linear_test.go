package linear

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/janpfeifer/connect4go/internal/state"
	"github.com/janpfeifer/connect4go/internal/state/statetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	b := statetest.BuildBoard(
		".......",
		".......",
		".......",
		"X......",
		"X......",
		"X......",
	)
	before := b.Clone()
	// Features for First: PieceCount=2, WinningMoves=1, CenterControl=0.
	assert.Equal(t, 3.0, Score(b, PlayerFirst, Weights{1, 1, 1}))
	assert.Equal(t, 7.0, Score(b, PlayerFirst, Weights{2, 3, 100}))
	assert.Equal(t, 0.0, Score(b, PlayerFirst, Weights{}))
	assert.Equal(t, 0.0, Score(b, PlayerSecond, Weights{1, 1, 1}))
	assert.True(t, before.Equal(b))

	b = statetest.BuildBoard(
		".......",
		".......",
		".......",
		"...O...",
		"...X...",
		"XX.XO..",
	)
	// Features for First: PieceCount=3, WinningMoves=1, CenterControl=2.
	assert.Equal(t, 8.0, Score(b, PlayerFirst, Weights{0, 2, 3}))
	scorer := NewWithWeights(Weights{0, 2, 3})
	assert.Equal(t, 8.0, scorer.Score(b, PlayerFirst))
}

func TestWeights(t *testing.T) {
	w, err := NewWeights([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, Weights{PieceCount: 1, WinningMoves: 2, CenterControl: 3}, w)
	assert.Equal(t, "1/2/3", w.String())

	_, err = NewWeights([]float64{1, 2})
	assert.Error(t, err)
	_, err = NewWeights([]float64{1, -2, 3})
	assert.Error(t, err)
	assert.NoError(t, Weights{}.Validate())
}

func TestParseWeights(t *testing.T) {
	w, err := ParseWeights("# PieceCount\n0.5\n\n// WinningMoves\n 2 \n3\n")
	require.NoError(t, err)
	assert.Equal(t, Weights{0.5, 2, 3}, w)

	_, err = ParseWeights("1\nabc\n3\n")
	assert.ErrorContains(t, err, "line #2")
	_, err = ParseWeights("1\n2\n3\n4\n")
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "weights.txt")
	_, err := Load(fileName)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, os.WriteFile(fileName, []byte("# PieceCount\n1\n# WinningMoves\n1\n# CenterControl\n1\n"), 0644))
	s, err := Load(fileName)
	require.NoError(t, err)
	assert.Equal(t, Weights{1, 1, 1}, s.Weights)
	assert.Equal(t, fileName, s.FileName)

	// Cached.
	s2, err := Load(fileName)
	require.NoError(t, err)
	assert.Same(t, s, s2)

	s.Weights = Weights{0.25, 3, 1.5}
	require.NoError(t, s.Save())
	data, err := os.ReadFile(fileName)
	require.NoError(t, err)
	w, err := ParseWeights(string(data))
	require.NoError(t, err)
	assert.Equal(t, s.Weights, w)

	// Saving again keeps the previous version.
	s.Weights = Weights{1, 1, 1}
	require.NoError(t, s.Save())
	data, err = os.ReadFile(fileName + "~")
	require.NoError(t, err)
	w, err = ParseWeights(string(data))
	require.NoError(t, err)
	assert.Equal(t, Weights{0.25, 3, 1.5}, w)
}

func TestNewFromName(t *testing.T) {
	s, err := NewFromName("threat")
	require.NoError(t, err)
	assert.Same(t, PreTrainedThreat, s)
	assert.Equal(t, "linear(threat: 1/3/1)", s.String())

	fileName := filepath.Join(t.TempDir(), "tuned.txt")
	require.NoError(t, os.WriteFile(fileName, []byte("2\n0\n1\n"), 0644))
	s, err = NewFromName(fileName)
	require.NoError(t, err)
	assert.Equal(t, Weights{2, 0, 1}, s.Weights)

	_, err = NewFromName("")
	assert.Error(t, err)

	// Misspelled preset names are not silently replaced by default weights.
	_, err = NewFromName(filepath.Join(t.TempDir(), "centre"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.ErrorContains(t, err, `"center"`)
}
