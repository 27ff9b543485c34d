package pathfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPunishment(t *testing.T) {
	points := []float64{0.3, 0.7}

	// Larger on top of an entity than in the gap.
	assert.Greater(t, punishment(points, 0.3), punishment(points, 0.5))
	assert.Greater(t, punishment(points, 0.7), punishment(points, 0.5))

	// Symmetric setup, symmetric values.
	assert.InDelta(t, punishment(points, 0.4), punishment(points, 0.6),
		1e-12)

	// Every entity adds its own bump.
	more := []float64{0.3, 0.7, 0.5}
	assert.Greater(t, punishment(more, 0.5), punishment(points, 0.5))
}

func TestPunishmentDerivatives(t *testing.T) {
	// The analytic derivatives must match finite differences, away from
	// the kinks at the entity centers.
	points := []float64{0.1, 0.35, 0.62, 0.8}
	const h1 = 1e-7
	const h2 = 1e-5
	for _, x := range []float64{0.2, 0.45, 0.55, 0.7} {
		d1, d2 := punishmentDerivatives(points, x)
		numeric1 := (punishment(points, x+h1) - punishment(points, x-h1)) /
			(2 * h1)
		numeric2 := (punishment(points, x+h2) - 2*punishment(points, x) +
			punishment(points, x-h2)) / (h2 * h2)
		assert.InDelta(t, numeric1, d1, 1e-3)
		assert.InDelta(t, numeric2, d2, 1e-1)
	}
}

func TestMinimizePunishment(t *testing.T) {
	settings := DefaultPartitionSettings()

	// Two clusters of five with a gap between them. The only seed the
	// edge-skipping leaves is the one in the gap, and the minimum must
	// land well inside it.
	points := []float64{0.28, 0.29, 0.30, 0.31, 0.32,
		0.68, 0.69, 0.70, 0.71, 0.72}
	x, p, ok := minimizePunishment(points, &settings)
	require.True(t, ok)
	assert.Greater(t, x, 0.35)
	assert.Less(t, x, 0.65)
	assert.Less(t, p, punishment(points, 0.32))

	// Too few points to leave the minimum on each side: no candidate.
	few := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}
	_, _, ok = minimizePunishment(few, &settings)
	assert.False(t, ok)

	// All points in the same place still yields a finite answer.
	same := make([]float64, 12)
	for i := range same {
		same[i] = 0.5
	}
	x, _, ok = minimizePunishment(same, &settings)
	require.True(t, ok)
	assert.Equal(t, 0.5, x)
}
