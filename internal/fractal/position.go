// Package fractal implements an escape-time positioner: it assigns every
// trinity vector a point in the complex plane and evaluates its
// escape-time behavior under z -> z^2 + c.
package fractal

import (
	"math/cmplx"

	"github.com/logos-system/ontos/internal/logging"
	"github.com/logos-system/ontos/internal/types"
)

// Compute computes the escape-time record for a trinity vector:
//  1. c = (e*t) + i*g
//  2. z = 0, n = 0
//  3. while n < max_iter and |z| <= escape_radius: z = z^2 + c; n++
//  4. emit (c_real=e*t, c_imag=g, iterations=n, in_set=(n==max_iter))
func Compute(v types.TrinityVector, p types.FractalParams) types.FractalPosition {
	timer := logging.StartTimer(logging.CategoryFractal, "Compute")
	defer timer.Stop()

	cReal := v.E * v.T
	cImag := v.G
	c := complex(cReal, cImag)

	var z complex128
	n := 0
	for n < p.MaxIter && cmplx.Abs(z) <= p.EscapeRadius {
		z = z*z + c
		n++
	}

	pos := types.FractalPosition{
		CReal:        cReal,
		CImag:        cImag,
		Iterations:   n,
		InSet:        n == p.MaxIter,
		EscapeRadius: p.EscapeRadius,
	}
	logging.FractalDebug("computed position c=(%g,%g) iterations=%d in_set=%v", cReal, cImag, n, pos.InSet)
	return pos
}

// WithOrbit is a diagnostic supplement that records the full z orbit
// alongside the standard position. It is never part of the stored node;
// callers that want it call ComputeWithOrbit directly.
type WithOrbit struct {
	types.FractalPosition
	orbit []complex128
}

// Orbit returns the sequence of z values visited, including z=0 at index 0.
func (p WithOrbit) Orbit() []complex128 {
	return p.orbit
}

// ComputeWithOrbit is Compute plus the full iteration trace.
func ComputeWithOrbit(v types.TrinityVector, p types.FractalParams) WithOrbit {
	cReal := v.E * v.T
	cImag := v.G
	c := complex(cReal, cImag)

	var z complex128
	orbit := []complex128{z}
	n := 0
	for n < p.MaxIter && cmplx.Abs(z) <= p.EscapeRadius {
		z = z*z + c
		orbit = append(orbit, z)
		n++
	}

	pos := types.FractalPosition{
		CReal:        cReal,
		CImag:        cImag,
		Iterations:   n,
		InSet:        n == p.MaxIter,
		EscapeRadius: p.EscapeRadius,
	}
	return WithOrbit{FractalPosition: pos, orbit: orbit}
}
