package fractal

import (
	"testing"

	"github.com/logos-system/ontos/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestCompute_BoundaryBehaviors(t *testing.T) {
	t.Run("max_iter=0 yields iterations=0 and in_set=true", func(t *testing.T) {
		v := types.NewTrinityVector(0.8, 0.7, 0.9)
		p := Compute(v, types.FractalParams{MaxIter: 0, EscapeRadius: 2.0})
		assert.Equal(t, 0, p.Iterations)
		assert.True(t, p.InSet)
	})

	t.Run("c=0+0i stays in set for any max_iter>0", func(t *testing.T) {
		v := types.NewTrinityVector(0, 0, 0)
		for _, maxIter := range []int{1, 50, 100, 500} {
			p := Compute(v, types.FractalParams{MaxIter: maxIter, EscapeRadius: 2.0})
			assert.True(t, p.InSet, "max_iter=%d", maxIter)
			assert.Equal(t, maxIter, p.Iterations)
		}
	})

	t.Run("|c|>2 escapes within 2 iterations", func(t *testing.T) {
		v := types.NewTrinityVector(1, 1, 1) // c = 1 + 1i, |c| = sqrt(2) < 2... use bigger
		v = types.TrinityVector{E: 1, G: 3, T: 1}
		p := Compute(v, types.FractalParams{MaxIter: 100, EscapeRadius: 2.0})
		assert.False(t, p.InSet)
		assert.LessOrEqual(t, p.Iterations, 2)
	})
}

func TestCompute_Scenario1(t *testing.T) {
	v := types.NewTrinityVector(0.8, 0.7, 0.9)
	p := Compute(v, types.DefaultFractalParams())
	assert.InDelta(t, 0.72, p.CReal, 1e-9)
	assert.InDelta(t, 0.7, p.CImag, 1e-9)
}

func TestCompute_MaxIterInvariantToClassificationBoundary(t *testing.T) {
	v := types.NewTrinityVector(0.95, 0.95, 0.95)
	for _, maxIter := range []int{50, 100, 500} {
		p := Compute(v, types.FractalParams{MaxIter: maxIter, EscapeRadius: 2.0})
		assert.InDelta(t, 0.9025, p.CReal, 1e-9)
		assert.InDelta(t, 0.95, p.CImag, 1e-9)
	}
}

func TestComputeWithOrbit(t *testing.T) {
	v := types.NewTrinityVector(0.8, 0.7, 0.9)
	p := ComputeWithOrbit(v, types.DefaultFractalParams())
	assert.GreaterOrEqual(t, len(p.Orbit()), 1)
	assert.Equal(t, complex(0, 0), p.Orbit()[0])
}
