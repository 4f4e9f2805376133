package radiation

import "math"

// ComputeParticleChi computes the Lorentz-invariant quantum
// nonlinearity parameter of a charged particle in given field samples,
//
//	chi = |q|/m^2 * sqrt( gamma^2|E|^2 - (p.E)^2 + 2*gamma*(p x B).E + |p x B|^2 )
//
// (the standard form; gamma*E + p x B is the boosted field seen by the
// particle, and chi is proportional to its Minkowski norm). Negative
// intermediate values from floating-point cancellation are clamped to
// zero before the square root.
func ComputeParticleChi(chargeOverMassSquared, gamma float64, p, e, b [3]float64) float64 {
	pCrossB := cross(p, b)
	pDotE := dot(p, e)
	eDotE := dot(e, e)
	crossDotE := dot(pCrossB, e)
	crossDotCross := dot(pCrossB, pCrossB)

	term := gamma*gamma*eDotE - pDotE*pDotE + 2*gamma*crossDotE + crossDotCross
	if term < 0 {
		term = 0
	}
	return math.Abs(chargeOverMassSquared) * math.Sqrt(term)
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func gammaOf(p [3]float64) float64 {
	return math.Sqrt(1 + dot(p, p))
}
