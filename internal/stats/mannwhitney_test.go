package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMannWhitneyU_SeparatedGroups(t *testing.T) {
	responders := []float64{10, 12, 11}
	nonResponders := []float64{50, 52, 48}

	res, err := MannWhitneyU(responders, nonResponders)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.U)
	assert.Less(t, res.PValue, 0.05)
	// z = -4.5 / sqrt(5.25)
	assert.InDelta(t, -1.9640, res.Z, 1e-4)
	assert.InDelta(t, 0.049535, res.PValue, 1e-5)
}

func TestMannWhitneyU_Symmetry(t *testing.T) {
	x := []float64{1.5, 3.2, 7.7, 2.0}
	y := []float64{4.4, 9.1, 6.0}

	a, err := MannWhitneyU(x, y)
	require.NoError(t, err)
	b, err := MannWhitneyU(y, x)
	require.NoError(t, err)

	assert.InDelta(t, a.PValue, b.PValue, 1e-12)
	assert.Equal(t, float64(len(x)*len(y)), a.U+b.U)
}

func TestMannWhitneyU_Ties(t *testing.T) {
	x := []float64{1, 2, 2, 3}
	y := []float64{2, 3, 3, 4}

	res, err := MannWhitneyU(x, y)
	require.NoError(t, err)
	// Ranks: 1->1, 2->3 (x3), 3->6 (x3), 4->8. x ranks: 1+3+3+6=13. U = 13-10 = 3
	assert.Equal(t, 3.0, res.U)
	assert.True(t, res.PValue > 0 && res.PValue < 1)
}

func TestMannWhitneyU_AllTied(t *testing.T) {
	res, err := MannWhitneyU([]float64{5, 5}, []float64{5, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.PValue)
	assert.Equal(t, 3.0, res.U)
}

func TestMannWhitneyU_EmptyGroup(t *testing.T) {
	_, err := MannWhitneyU(nil, []float64{1})
	assert.ErrorIs(t, err, ErrEmptyGroup)
	_, err = MannWhitneyU([]float64{1}, []float64{})
	assert.ErrorIs(t, err, ErrEmptyGroup)
}

func TestMannWhitneyU_Deterministic(t *testing.T) {
	x := []float64{20.1, 22.5, 19.8, 21.0, 25.3}
	y := []float64{18.2, 17.9, 23.1, 16.5}

	first, err := MannWhitneyU(x, y)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := MannWhitneyU(x, y)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.049535, Round(0.0495346, 6))
	assert.Equal(t, 1.0, Round(0.9999999, 6))
	assert.Equal(t, 33.33, Round(100.0/3, 2))
	assert.False(t, math.IsNaN(Round(0, 6)))
}
