// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/elastsim/msfem/grid"
	"github.com/elastsim/msfem/inp"
	"github.com/elastsim/msfem/material"
	"github.com/elastsim/msfem/out"
	"github.com/elastsim/msfem/shp"
)

// Basis holds the multiscale basis of one coarse cell: N_c = ndim*2^ndim fine
// scale functions φ_k solved on a uniform subgrid of the cell, the contracted
// coarse matrix/rhs and, after the coarse solve, the basis weights.
//
// Basis k corresponds to coarse vertex k/ndim (qua4/hex8 local order) and
// displacement component k%ndim. On the subgrid boundary φ_k equals the Q1
// trace of its coarse vertex in that component; in the interior it solves the
// homogeneous elasticity equations with the oscillatory coefficients.
type Basis struct {

	// input
	Cell    *grid.Cell          // the coarse cell
	Sub     *grid.Subgrid       // the subgrid of the cell
	Tr      *shp.Trace          // Q1 trace of the coarse cell
	Lam, Mu *material.LamePrm   // Lamé parameter fields
	Bf      *material.BodyForce // body force (coarse rhs only)
	Solver  inp.SolverData      // solver for the local problems

	// derived
	Ndim int         // space dimension
	Nc   int         // number of basis functions == ndim * 2^ndim
	Phi  [][]float64 // [Nc][nfeq] basis functions on the subgrid dofs

	// contraction
	ACell [][]float64 // [Nc][Nc] coarse element matrix Φᵀ·K_fine·Φ
	BCell []float64   // [Nc] coarse element rhs Φᵀ·f_fine
	W     []float64   // [Nc] basis weights (set after the coarse solve)

	// fine system
	shape *shp.Shape   // Q1 shape structure
	nfeq  int          // number of fine equations
	intr  []int        // interior fine equations, ascending
	ipos  []int        // fine equation => index in intr; -1 on the boundary
	kfull *la.CCMatrix // full fine stiffness (all equations)
	ffine []float64    // fine body load vector
}

// NewBasis allocates the basis of coarse cell c: the subgrid with rdepth
// refinements and the Q1 trace of the cell
func NewBasis(c *grid.Cell, msh *grid.Mesh, lam, mu *material.LamePrm, bf *material.BodyForce, rdepth int, solver inp.SolverData) (o *Basis) {
	ndim := msh.Ndim
	o = &Basis{
		Cell:   c,
		Sub:    grid.NewSubgrid(c.Lo, c.Hi, rdepth),
		Tr:     shp.NewTrace(msh.CoordsMat(c)),
		Lam:    lam,
		Mu:     mu,
		Bf:     bf,
		Solver: solver,
		Ndim:   ndim,
		Nc:     ndim * (1 << uint(ndim)),
	}
	o.shape = shp.Get(shp.Q1Type(ndim))
	o.nfeq = len(o.Sub.Verts) * ndim
	return
}

// Compute assembles the fine system, solves the N_c local problems and
// contracts the coarse element matrix and rhs.
//
// All local problems share the interior/boundary split, so the reduced
// interior matrix is factorised once and reused for every basis function.
func (o *Basis) Compute() (err error) {

	ndim := o.Ndim

	// interior/boundary split
	o.ipos = make([]int, o.nfeq)
	o.intr = o.intr[:0]
	for p := range o.Sub.Verts {
		for i := 0; i < ndim; i++ {
			eq := p*ndim + i
			if o.Sub.OnBoundary(p) {
				o.ipos[eq] = -1
			} else {
				o.ipos[eq] = len(o.intr)
				o.intr = append(o.intr, eq)
			}
		}
	}
	nred := len(o.intr)

	// assemble fine stiffness, reduced interior block and body load
	nloc := o.shape.Nverts * ndim
	est := len(o.Sub.Cells) * nloc * nloc
	full := new(la.Triplet)
	full.Init(o.nfeq, o.nfeq, est)
	red := new(la.Triplet)
	diag := make([]float64, nred)
	if nred > 0 {
		red.Init(nred, nred, est)
	}
	o.ffine = make([]float64, o.nfeq)
	for idx := range o.Sub.Cells {
		K, f, e := CellStiffLoad(o.shape, o.Sub.CoordsMat(idx), o.Lam, o.Mu, o.Bf)
		if e != nil {
			return e
		}
		conn := o.Sub.Cells[idx]
		for a := 0; a < nloc; a++ {
			I := conn[a/ndim]*ndim + a%ndim
			o.ffine[I] += f[a]
			for b := 0; b < nloc; b++ {
				J := conn[b/ndim]*ndim + b%ndim
				full.Put(I, J, K[a][b])
				if o.ipos[I] >= 0 && o.ipos[J] >= 0 {
					red.Put(o.ipos[I], o.ipos[J], K[a][b])
					if I == J {
						diag[o.ipos[I]] += K[a][b]
					}
				}
			}
		}
	}
	o.kfull = full.ToMatrix(nil)

	// factorise the reduced matrix once (direct path)
	var ls la.LinSol
	var ared *la.CCMatrix
	direct := o.Solver.Type == "direct"
	if nred > 0 {
		if direct {
			ls = la.GetSolver("umfpack")
			defer ls.Clean()
			err = ls.InitR(red, false, false, false)
			if err != nil {
				return chk.Err("basis: cannot initialise local solver:\n%v", err)
			}
			err = ls.Fact()
			if err != nil {
				return chk.Err("basis: local factorisation failed:\n%v", err)
			}
		} else {
			ared = red.ToMatrix(nil)
		}
	}

	// solve the N_c local problems
	o.Phi = make([][]float64, o.Nc)
	g := make([]float64, o.nfeq)
	y := make([]float64, o.nfeq)
	rhs := make([]float64, nred)
	xred := make([]float64, nred)
	for k := 0; k < o.Nc; k++ {
		v, comp := k/ndim, k%ndim

		// boundary values from the Q1 trace
		la.VecFill(g, 0)
		for p, coords := range o.Sub.Verts {
			if o.Sub.OnBoundary(p) {
				g[p*ndim+comp] = o.Tr.Value(v, coords)
			}
		}

		phi := make([]float64, o.nfeq)
		copy(phi, g)
		if nred > 0 {

			// interior rhs: -(K·g) restricted to the interior
			la.SpMatVecMul(y, 1, o.kfull, g)
			for i, eq := range o.intr {
				rhs[i] = -y[eq]
			}

			// solve
			if direct {
				err = ls.SolveR(xred, rhs, false)
				if err != nil {
					return chk.Err("basis: local substitution failed:\n%v", err)
				}
			} else {
				la.VecFill(xred, 0)
				_, err = CG(ared, NewJacobi(diag), rhs, xred, o.Solver.Tol, o.Solver.MaxIt, false)
				if err != nil {
					return chk.Err("basis: cell %d function %d:\n%v", o.Cell.Id, k, err)
				}
			}
			for i, eq := range o.intr {
				phi[eq] = xred[i]
			}
		}
		o.Phi[k] = phi
	}

	o.contract()
	return
}

// contract computes the coarse element matrix Φᵀ·K_fine·Φ and rhs Φᵀ·f_fine
func (o *Basis) contract() {
	phiM := mat.NewDense(o.nfeq, o.Nc, nil)
	kphiM := mat.NewDense(o.nfeq, o.Nc, nil)
	y := make([]float64, o.nfeq)
	o.BCell = make([]float64, o.Nc)
	for k := 0; k < o.Nc; k++ {
		la.SpMatVecMul(y, 1, o.kfull, o.Phi[k])
		for i := 0; i < o.nfeq; i++ {
			phiM.Set(i, k, o.Phi[k][i])
			kphiM.Set(i, k, y[i])
		}
		o.BCell[k] = dot(o.Phi[k], o.ffine)
	}
	var a mat.Dense
	a.Mul(phiM.T(), kphiM)
	o.ACell = make([][]float64, o.Nc)
	for i := 0; i < o.Nc; i++ {
		o.ACell[i] = make([]float64, o.Nc)
		for j := 0; j < o.Nc; j++ {
			o.ACell[i][j] = a.At(i, j)
		}
	}
}

// CoarseMatrix returns the contracted coarse element matrix [Nc][Nc]
func (o *Basis) CoarseMatrix() [][]float64 { return o.ACell }

// CoarseRhs returns the contracted coarse element rhs [Nc]
func (o *Basis) CoarseRhs() []float64 { return o.BCell }

// SetWeights stores the basis weights taken from the coarse solution
func (o *Basis) SetWeights(w []float64) {
	if len(w) != o.Nc {
		chk.Panic("basis: need %d weights; got %d", o.Nc, len(w))
	}
	o.W = make([]float64, o.Nc)
	copy(o.W, w)
}

// Reconstruct returns the fine scale solution on the subgrid: u = Σ_k w_k·φ_k
func (o *Basis) Reconstruct() (u []float64) {
	u = make([]float64, o.nfeq)
	for k := 0; k < o.Nc; k++ {
		for i := 0; i < o.nfeq; i++ {
			u[i] += o.W[k] * o.Phi[k][i]
		}
	}
	return
}

// WriteVTU writes the reconstructed fine scale solution of this cell,
// with recovered strain, stress and von Mises fields
func (o *Basis) WriteVTU(path string) (err error) {
	u := o.Reconstruct()
	eps, sig, vm, err := StressFields(o.Ndim, o.Sub.Verts, o.Sub.Cells, u, o.Lam, o.Mu)
	if err != nil {
		return
	}
	nsig := Nsig(o.Ndim)
	fields := []out.Field{
		{Name: "displacement", Ncomp: o.Ndim, Vals: u},
		{Name: "strain", Ncomp: nsig, Vals: eps},
		{Name: "stress", Ncomp: nsig, Vals: sig},
		{Name: "von_mises", Ncomp: 1, Vals: vm},
	}
	return out.WriteVTU(path, o.Ndim, o.Sub.Verts, o.Sub.Cells, o.shape.VtkCode, fields)
}
