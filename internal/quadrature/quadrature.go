// Package quadrature integrates smooth one-dimensional functions on finite
// or right-unbounded intervals by globally adaptive bisection. Each panel is
// estimated with a 10- and a 21-point Gauss-Legendre rule and the panel with
// the largest disagreement is split next.
package quadrature

import (
	"container/heap"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/integrate/quad"

	"gobayes/domain/core"
)

// Settings bound the work done by Integrate
type Settings struct {
	RelTol    float64
	AbsTol    float64
	MaxPanels int
}

// DefaultSettings targets a relative error of 1e-8
func DefaultSettings() Settings {
	return Settings{RelTol: 1e-8, AbsTol: 1e-300, MaxPanels: 2000}
}

// Result is the integral estimate with its error bound
type Result struct {
	Value       float64
	ErrEstimate float64
	Panels      int
	Evaluations int
}

const (
	coarseOrder   = 10
	fineOrder     = 21
	initialPanels = 8
)

type rule struct {
	x, w []float64
}

var rules = sync.OnceValue(func() [2]rule {
	build := func(n int) rule {
		r := rule{x: make([]float64, n), w: make([]float64, n)}
		quad.Legendre{}.FixedLocations(r.x, r.w, -1, 1)
		return r
	}
	return [2]rule{build(coarseOrder), build(fineOrder)}
})

// Integrate approximates the integral of f over [a, b]. b may be +Inf, in
// which case the substitution x = a + t/(1-t) maps the interval onto [0, 1).
// The Gauss-Legendre nodes never touch the panel endpoints, so f is never
// evaluated at a or at infinity.
func Integrate(f func(float64) float64, a, b float64, s Settings) (Result, error) {
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) {
		return Result{}, core.NewPreconditionError("bounds", fmt.Sprintf("unsupported interval [%g, %g]", a, b))
	}
	if b < a {
		return Result{}, core.NewPreconditionError("bounds", fmt.Sprintf("lower bound %g exceeds upper bound %g", a, b))
	}
	if !(s.RelTol > 0) && !(s.AbsTol > 0) {
		return Result{}, core.NewPreconditionError("tolerance", "relative or absolute tolerance must be positive")
	}
	if s.MaxPanels <= 0 {
		return Result{}, core.NewPreconditionError("maxPanels", fmt.Sprintf("must be positive, got %d", s.MaxPanels))
	}
	if a == b {
		return Result{}, nil
	}

	g, lo, hi := f, a, b
	if math.IsInf(b, 1) {
		g = func(t float64) float64 {
			u := 1 - t
			if u <= 0 {
				return 0
			}
			return f(a+t/u) / (u * u)
		}
		lo, hi = 0, 1
	}

	in := &integrator{f: g, rules: rules()}
	start := min(initialPanels, s.MaxPanels)
	width := (hi - lo) / float64(start)
	for i := 0; i < start; i++ {
		p := in.estimate(lo+float64(i)*width, lo+float64(i+1)*width)
		heap.Push(&in.queue, p)
	}

	for {
		value, errEst := in.totals()
		if math.IsNaN(value) || math.IsNaN(errEst) {
			return Result{}, core.NewPreconditionError("integrand", "produced NaN")
		}
		res := Result{Value: value, ErrEstimate: errEst, Panels: in.queue.Len(), Evaluations: in.evals}
		if errEst <= math.Max(s.AbsTol, s.RelTol*math.Abs(value)) {
			return res, nil
		}
		if in.queue.Len() >= s.MaxPanels {
			return res, core.NewNonConvergenceError("adaptive quadrature", value, errEst)
		}

		worst := heap.Pop(&in.queue).(panel)
		mid := 0.5 * (worst.a + worst.b)
		heap.Push(&in.queue, in.estimate(worst.a, mid))
		heap.Push(&in.queue, in.estimate(mid, worst.b))
	}
}

type integrator struct {
	f     func(float64) float64
	rules [2]rule
	queue panelQueue
	evals int
}

func (in *integrator) estimate(a, b float64) panel {
	coarse := in.apply(in.rules[0], a, b)
	fine := in.apply(in.rules[1], a, b)
	return panel{a: a, b: b, value: fine, err: math.Abs(fine - coarse)}
}

func (in *integrator) apply(r rule, a, b float64) float64 {
	half := 0.5 * (b - a)
	mid := 0.5 * (a + b)
	sum := 0.0
	for i, x := range r.x {
		sum += r.w[i] * in.f(mid+half*x)
	}
	in.evals += len(r.x)
	return sum * half
}

// totals re-sums from scratch so rounding does not accumulate across splits
func (in *integrator) totals() (value, errEst float64) {
	for _, p := range in.queue {
		value += p.value
		errEst += p.err
	}
	return value, errEst
}

type panel struct {
	a, b  float64
	value float64
	err   float64
}

// panelQueue is a max-heap on panel error
type panelQueue []panel

func (q panelQueue) Len() int           { return len(q) }
func (q panelQueue) Less(i, j int) bool { return q[i].err > q[j].err }
func (q panelQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *panelQueue) Push(x any)        { *q = append(*q, x.(panel)) }
func (q *panelQueue) Pop() any {
	old := *q
	n := len(old)
	p := old[n-1]
	*q = old[:n-1]
	return p
}
