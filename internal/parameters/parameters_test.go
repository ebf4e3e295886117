package parameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfigString(t *testing.T) {
	params := NewFromConfigString("block, seed=7,weights=a=b,,")
	assert.Equal(t, Params{"block": "", "seed": "7", "weights": "a=b"}, params)
	assert.Empty(t, NewFromConfigString(""))
}

func TestPopParamOr(t *testing.T) {
	params := NewFromConfigString("block,parallelism=4,randomness=0.5,seed=12,name=x,fast=false")
	block, err := PopParamOr(params, "block", false)
	require.NoError(t, err)
	assert.True(t, block)

	fast, err := GetParamOr(params, "fast", true)
	require.NoError(t, err)
	assert.False(t, fast)
	assert.Contains(t, params, "fast")

	parallelism, err := PopParamOr(params, "parallelism", 1)
	require.NoError(t, err)
	assert.Equal(t, 4, parallelism)

	randomness, err := PopParamOr(params, "randomness", 0.0)
	require.NoError(t, err)
	assert.Equal(t, 0.5, randomness)

	seed, err := PopParamOr(params, "seed", uint64(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(12), seed)

	missing, err := PopParamOr(params, "missing", "default")
	require.NoError(t, err)
	assert.Equal(t, "default", missing)

	err = CheckAllConsumed(params)
	assert.ErrorContains(t, err, `"fast", "name"`)

	_, err = PopParamOr(Params{"parallelism": "x"}, "parallelism", 1)
	assert.Error(t, err)
	_, err = PopParamOr(Params{"block": "maybe"}, "block", false)
	assert.Error(t, err)
}

func TestPopListOr(t *testing.T) {
	params := NewFromConfigString("piece_count=0/0.5/2,center=3/2/4,bad=1/x,empty=")
	floats, err := PopListOr(params, "piece_count", []float64{1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 2}, floats)

	ints, err := PopListOr(params, "center", []int{0})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 4}, ints)

	defaultList := []float64{0, 1, 2, 3}
	got, err := PopListOr(params, "winning_moves", defaultList)
	require.NoError(t, err)
	assert.Equal(t, defaultList, got)
	got[0] = 10
	assert.Equal(t, 0.0, defaultList[0], "default list must be copied")

	_, err = PopListOr(params, "bad", []int{})
	assert.Error(t, err)
	_, err = PopListOr(params, "empty", []int{})
	assert.Error(t, err)
}
