package optimize

import (
	"context"
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Solution holds the raw solver output before validation.
type Solution struct {
	Objective float64
	// Values are the solved production quantities, indexed like
	// Problem.Vars.
	Values  []float64
	Optimal bool
}

// Solver runs one deterministic solve of a typed Problem.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

// SimplexSolver solves the LP with gonum's simplex implementation.
type SimplexSolver struct {
	// Tol is the simplex pivot tolerance. Zero selects the default.
	Tol float64
	// Timeout bounds the wall-clock solve time. Zero disables the bound.
	Timeout time.Duration
}

const defaultTol = 1e-7

// Solve translates the typed problem into general inequality form, converts
// it to standard form and runs the simplex algorithm. A context expiry is
// reported as SolveFailure{FailureTimeout}, never conflated with
// infeasibility.
func (s SimplexSolver) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	tol := s.Tol
	if tol == 0 {
		tol = defaultTol
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	n := len(p.Vars)
	nRows := 2*n + len(p.Rows)
	g := mat.NewDense(nRows, n, nil)
	h := make([]float64, nRows)
	for i, v := range p.Vars {
		g.Set(i, i, 1)
		h[i] = v.Upper
		g.Set(n+i, i, -1)
		h[n+i] = -v.Lower
	}
	for ri, row := range p.Rows {
		r := 2*n + ri
		for _, t := range row.Terms {
			g.Set(r, t.Var, t.Coeff)
		}
		h[r] = row.Upper
	}

	cStd, aStd, bStd := lp.Convert(p.Objective, g, h, nil, nil)

	type outcome struct {
		obj float64
		x   []float64
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		obj, x, err := lp.Simplex(cStd, aStd, bStd, tol, nil)
		ch <- outcome{obj: obj, x: x, err: err}
	}()

	select {
	case <-ctx.Done():
		// The simplex goroutine is abandoned; its result is discarded.
		return nil, &SolveFailure{Kind: FailureTimeout, Err: ctx.Err()}
	case out := <-ch:
		if out.err != nil {
			return nil, classifyLPError(out.err)
		}
		if math.IsNaN(out.obj) || math.IsInf(out.obj, 0) {
			return nil, &SolveFailure{Kind: FailureInternal, Err: errors.New("non-finite objective")}
		}
		// lp.Convert splits each variable into positive and negative
		// parts; recover x = x+ - x-.
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = out.x[i] - out.x[n+i]
		}
		return &Solution{Objective: out.obj, Values: vals, Optimal: true}, nil
	}
}

func classifyLPError(err error) *SolveFailure {
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return &SolveFailure{Kind: FailureInfeasible, Err: err}
	case errors.Is(err, lp.ErrUnbounded):
		return &SolveFailure{Kind: FailureUnbounded, Err: err}
	default:
		return &SolveFailure{Kind: FailureInternal, Err: err}
	}
}
