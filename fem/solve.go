// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/mpi"

	"github.com/elastsim/msfem/inp"
)

// Preconditioner applies z = M⁻¹ r. Implementations must not modify r.
type Preconditioner func(z, r []float64)

// NewJacobi returns the diagonal preconditioner built from diag
func NewJacobi(diag []float64) Preconditioner {
	return func(z, r []float64) {
		for i, d := range diag {
			if d != 0 {
				z[i] = r[i] / d
			} else {
				z[i] = r[i]
			}
		}
	}
}

// CG solves A·x = b with the preconditioned conjugate gradient method.
//  Input:
//   A     -- sparse symmetric positive-definite matrix. With distr==true, A
//            holds only this rank's contributions and products A·p are summed
//            over all ranks; b and x are then replicated full-size vectors.
//   M     -- preconditioner; may be nil
//   b     -- right-hand side
//   x     -- initial guess; overwritten with the solution
//   tol   -- relative tolerance: convergence when ‖r‖ ≤ tol·‖b‖
//   maxit -- maximum number of iterations
//  Output:
//   nit   -- number of iterations taken
func CG(A *la.CCMatrix, M Preconditioner, b, x []float64, tol float64, maxit int, distr bool) (nit int, err error) {

	n := len(b)
	r := make([]float64, n)
	z := make([]float64, n)
	p := make([]float64, n)
	q := make([]float64, n)
	w := make([]float64, n) // allreduce workspace

	// r = b - A·x
	la.SpMatVecMul(r, 1, A, x)
	if distr {
		mpi.AllReduceSum(r, w)
	}
	for i := 0; i < n; i++ {
		r[i] = b[i] - r[i]
	}

	bnorm := math.Sqrt(dot(b, b))
	if bnorm == 0 {
		bnorm = 1
	}

	if M == nil {
		M = func(z, r []float64) { copy(z, r) }
	}
	M(z, r)
	copy(p, z)
	rz := dot(r, z)

	for nit = 0; nit < maxit; nit++ {

		// convergence check
		rnorm := math.Sqrt(dot(r, r))
		if rnorm <= tol*bnorm {
			return
		}

		// q = A·p
		la.SpMatVecMul(q, 1, A, p)
		if distr {
			mpi.AllReduceSum(q, w)
		}

		pq := dot(p, q)
		if pq <= 0 {
			return nit, chk.Err("cg: matrix is not positive definite (p·Ap = %g at iteration %d)", pq, nit)
		}
		alpha := rz / pq
		for i := 0; i < n; i++ {
			x[i] += alpha * p[i]
			r[i] -= alpha * q[i]
		}

		M(z, r)
		rznew := dot(r, z)
		beta := rznew / rz
		rz = rznew
		for i := 0; i < n; i++ {
			p[i] = z[i] + beta*p[i]
		}
	}
	return nit, chk.Err("cg: did not converge after %d iterations (‖r‖/‖b‖ = %g)", maxit, math.Sqrt(dot(r, r))/bnorm)
}

// dot returns the dot product of two vectors
func dot(a, b []float64) (res float64) {
	for i, v := range a {
		res += v * b[i]
	}
	return
}

// SolveSparse solves Kb·x = Fb according to the solver choice sd.
//  Input:
//   Kb    -- assembled triplet; with distr==true each rank holds its partial
//            contributions of the full-size system
//   Fb    -- full-size right-hand side, already summed over ranks
//   diag  -- diagonal of the (summed) matrix, used by the iterative path
//   distr -- distributed run: MUMPS for the direct path, allreduced products
//            for the iterative path
//  Output:
//   x     -- the solution, available on all ranks
func SolveSparse(sd inp.SolverData, Kb *la.Triplet, Fb, diag []float64, distr, verbose bool) (x []float64, err error) {

	x = make([]float64, len(Fb))

	// direct
	if sd.Type == "direct" {
		name := "umfpack"
		if distr {
			name = "mumps"
		}
		ls := la.GetSolver(name)
		defer ls.Clean()
		err = ls.InitR(Kb, false, false, false)
		if err != nil {
			return nil, chk.Err("solve: cannot initialise linear solver:\n%v", err)
		}
		err = ls.Fact()
		if err != nil {
			return nil, chk.Err("solve: factorisation failed:\n%v", err)
		}
		err = ls.SolveR(x, Fb, false)
		if err != nil {
			return nil, chk.Err("solve: substitution failed:\n%v", err)
		}
		return
	}

	// iterative
	A := Kb.ToMatrix(nil)
	nit, err := CG(A, NewJacobi(diag), Fb, x, sd.Tol, sd.MaxIt, distr)
	if err != nil {
		return nil, err
	}
	if verbose {
		io.Pf("  cg converged in %d iterations\n", nit)
	}
	return
}
