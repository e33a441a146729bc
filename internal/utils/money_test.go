package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(100), ToMinorUnits(1.0))
	assert.Equal(t, int64(0), ToMinorUnits(0))
	// 29.99 is not representable exactly in binary; rounding keeps it stable.
	assert.Equal(t, int64(2999), ToMinorUnits(29.99))
	assert.Equal(t, int64(10), ToMinorUnits(0.1))
}

func TestCartTotalCents(t *testing.T) {
	total := CartTotalCents([]float64{19.99, 5.00}, []int{2, 3})
	assert.Equal(t, int64(2*1999+3*500), total)

	assert.Equal(t, int64(0), CartTotalCents(nil, nil))

	// Per-line conversion avoids accumulating float drift.
	total = CartTotalCents([]float64{0.1, 0.2}, []int{3, 1})
	assert.Equal(t, int64(50), total)
}

func TestCentsMatch(t *testing.T) {
	assert.True(t, CentsMatch(1000, 1000))
	assert.True(t, CentsMatch(1000, 1001))
	assert.True(t, CentsMatch(1001, 1000))
	assert.False(t, CentsMatch(1000, 1002))
	assert.False(t, CentsMatch(1002, 1000))
}
