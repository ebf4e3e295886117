package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "[]", formatHistory(nil))
	assert.Equal(t, "[3.0] (0 of 0 generations improved)", formatHistory([]float64{3}))
	assert.Equal(t, "[3.0 4.5 4.5 6.0] (2 of 3 generations improved)", formatHistory([]float64{3, 4.5, 4.5, 6}))
}
