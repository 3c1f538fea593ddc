package forecast

import "math"

// SolverOptions bounds the IRR root search.
type SolverOptions struct {
	MaxIterations int
	Tolerance     float64
}

// DefaultSolverOptions returns the solver bounds used when none are configured.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{MaxIterations: 200, Tolerance: 1e-7}
}

func (o SolverOptions) withDefaults() SolverOptions {
	d := DefaultSolverOptions()
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	return o
}

// IRRResult is the outcome of a root search. Rate is meaningful only when Converged.
type IRRResult struct {
	Rate       float64 `json:"rate"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

const (
	irrFloor   = -0.99
	irrCeiling = 1e3
)

// NPV discounts flows at rate. flows[0] is at time zero.
func NPV(rate float64, flows []float64) float64 {
	var v float64
	d := 1.0
	for _, cf := range flows {
		v += cf / d
		d *= 1 + rate
	}
	return v
}

func npvDerivative(rate float64, flows []float64) float64 {
	var v float64
	for t, cf := range flows {
		if t == 0 {
			continue
		}
		v -= float64(t) * cf / math.Pow(1+rate, float64(t+1))
	}
	return v
}

// SolveIRR finds the rate at which the NPV of flows is zero.
//
// It brackets a sign change of the NPV above -99% and then runs Newton steps,
// falling back to bisection whenever a step would leave the bracket or the
// derivative vanishes. The search never runs past opts.MaxIterations; when it stops
// without meeting opts.Tolerance, or no sign change exists, Converged is false.
func SolveIRR(flows []float64, opts SolverOptions) IRRResult {
	opts = opts.withDefaults()
	if len(flows) < 2 {
		return IRRResult{}
	}

	lo, hi := irrFloor, 1.0
	flo, fhi := NPV(lo, flows), NPV(hi, flows)
	iterations := 0
	for sameSign(flo, fhi) && hi < irrCeiling && iterations < opts.MaxIterations {
		hi = hi*2 + 1
		fhi = NPV(hi, flows)
		iterations++
	}
	if flo == 0 {
		return IRRResult{Rate: lo, Iterations: iterations, Converged: true}
	}
	if fhi == 0 {
		return IRRResult{Rate: hi, Iterations: iterations, Converged: true}
	}
	if sameSign(flo, fhi) || anyNonFinite(flo, fhi) {
		return IRRResult{Iterations: iterations}
	}

	x := 0.1
	if x <= lo || x >= hi {
		x = (lo + hi) / 2
	}
	for iterations < opts.MaxIterations {
		iterations++
		fx := NPV(x, flows)
		if fx == 0 {
			return IRRResult{Rate: x, Iterations: iterations, Converged: true}
		}
		if sameSign(fx, flo) {
			lo, flo = x, fx
		} else {
			hi = x
		}

		next := x
		if d := npvDerivative(x, flows); d != 0 {
			next = x - fx/d
		}
		if next <= lo || next >= hi || next == x {
			next = (lo + hi) / 2
		}
		if math.Abs(next-x) < opts.Tolerance || hi-lo < opts.Tolerance {
			return IRRResult{Rate: next, Iterations: iterations, Converged: true}
		}
		x = next
	}
	return IRRResult{Iterations: iterations}
}

func sameSign(a, b float64) bool { return (a > 0) == (b > 0) }

func anyNonFinite(vs ...float64) bool {
	for _, v := range vs {
		if !finite(v) {
			return true
		}
	}
	return false
}
