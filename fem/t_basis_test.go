// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/elastsim/msfem/grid"
	"github.com/elastsim/msfem/inp"
	"github.com/elastsim/msfem/material"
	"github.com/elastsim/msfem/shp"
)

var testSolver = inp.SolverData{Type: "iterative", Tol: 1e-13, MaxIt: 10000}

func Test_basis01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("basis01. depth zero reproduces the Q1 element")

	p1, p2 := []float64{0, 0}, []float64{2, 1}
	m := grid.NewMesh(p1, p2, 0)
	c := m.Active()[0]
	lam := cteLame(2.0, p1, p2)
	mu := cteLame(1.0, p1, p2)
	bf := material.NewBodyForce(2, 10)

	b := NewBasis(c, m, lam, mu, bf, 0, testSolver)
	err := b.Compute()
	if err != nil {
		tst.Errorf("Compute failed:\n%v\n", err)
		return
	}

	// with no interior vertices every basis function is the hat of its vertex
	// and the contraction equals the plain Q1 element matrices
	K, f, err := CellStiffLoad(shp.Get("qua4"), m.CoordsMat(c), lam, mu, bf)
	if err != nil {
		tst.Errorf("CellStiffLoad failed:\n%v\n", err)
		return
	}
	chk.Matrix(tst, "ACell == K", 1e-13, b.CoarseMatrix(), K)
	chk.Vector(tst, "BCell == f", 1e-13, b.CoarseRhs(), f)
}

func Test_basis02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("basis02. trace values, partition of unity and symmetry")

	p1, p2 := []float64{0, 0}, []float64{4, 2}
	m := grid.NewMesh(p1, p2, 1)
	c := m.Active()[0]
	lam := material.NewOscillating(3.0, 2.0, p1, p2)
	mu := material.NewOscillating(1.5, 2.0, p1, p2)
	bf := material.NewBodyForce(2, 10)

	b := NewBasis(c, m, lam, mu, bf, 2, testSolver)
	err := b.Compute()
	if err != nil {
		tst.Errorf("Compute failed:\n%v\n", err)
		return
	}

	// boundary values equal the Q1 trace of the coarse vertex
	for k := 0; k < b.Nc; k++ {
		v, comp := k/2, k%2
		for p, coords := range b.Sub.Verts {
			if !b.Sub.OnBoundary(p) {
				continue
			}
			chk.Scalar(tst, io.Sf("φ_%d boundary", k), 1e-14, b.Phi[k][p*2+comp], b.Tr.Value(v, coords))
			chk.Scalar(tst, io.Sf("φ_%d other comp", k), 1e-14, b.Phi[k][p*2+1-comp], 0)
		}
	}

	// the basis functions of one component sum to the constant translation:
	// the boundary data sums to one and constants solve the local problem
	nfeq := len(b.Sub.Verts) * 2
	for comp := 0; comp < 2; comp++ {
		sum := make([]float64, nfeq)
		for k := comp; k < b.Nc; k += 2 {
			for i := 0; i < nfeq; i++ {
				sum[i] += b.Phi[k][i]
			}
		}
		for p := range b.Sub.Verts {
			chk.Scalar(tst, io.Sf("Σφ comp %d", comp), 1e-9, sum[p*2+comp], 1)
			chk.Scalar(tst, io.Sf("Σφ cross comp %d", comp), 1e-9, sum[p*2+1-comp], 0)
		}
	}

	// coarse matrix is symmetric with translations in its kernel
	A := b.CoarseMatrix()
	for i := 0; i < b.Nc; i++ {
		for j := i + 1; j < b.Nc; j++ {
			chk.Scalar(tst, io.Sf("A%d%d", i, j), 1e-8*(1+math.Abs(A[i][i])), A[i][j], A[j][i])
		}
	}
	for comp := 0; comp < 2; comp++ {
		for i := 0; i < b.Nc; i++ {
			r := 0.0
			for k := comp; k < b.Nc; k += 2 {
				r += A[i][k]
			}
			chk.Scalar(tst, io.Sf("A kernel comp %d row %d", comp, i), 1e-8, r, 0)
		}
	}
}

func Test_basis03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("basis03. 3D basis and reconstruction")

	p1, p2 := []float64{0, 0, 0}, []float64{1, 1, 1}
	m := grid.NewMesh(p1, p2, 0)
	c := m.Active()[0]
	lam := cteLame(2.0, p1, p2)
	mu := cteLame(1.0, p1, p2)
	bf := material.NewBodyForce(3, 5)

	// depth zero: contraction equals the hex8 element matrices
	b := NewBasis(c, m, lam, mu, bf, 0, testSolver)
	err := b.Compute()
	if err != nil {
		tst.Errorf("Compute failed:\n%v\n", err)
		return
	}
	chk.IntAssert(b.Nc, 24)
	K, f, err := CellStiffLoad(shp.Get("hex8"), m.CoordsMat(c), lam, mu, bf)
	if err != nil {
		tst.Errorf("CellStiffLoad failed:\n%v\n", err)
		return
	}
	chk.Matrix(tst, "ACell == K", 1e-12, b.CoarseMatrix(), K)
	chk.Vector(tst, "BCell == f", 1e-12, b.CoarseRhs(), f)

	// reconstruction with unit weights of one component gives that translation
	b2 := NewBasis(c, m, lam, mu, bf, 1, testSolver)
	err = b2.Compute()
	if err != nil {
		tst.Errorf("Compute failed:\n%v\n", err)
		return
	}
	w := make([]float64, b2.Nc)
	for k := 2; k < b2.Nc; k += 3 {
		w[k] = 1 // translation along z
	}
	b2.SetWeights(w)
	u := b2.Reconstruct()
	for p := range b2.Sub.Verts {
		chk.Scalar(tst, "uz", 1e-9, u[p*3+2], 1)
		chk.Scalar(tst, "ux", 1e-9, u[p*3], 0)
	}
}

func Test_basis04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("basis04. contraction equals direct integration of the basis")

	p1, p2 := []float64{0, 0}, []float64{2, 1}
	m := grid.NewMesh(p1, p2, 0)
	c := m.Active()[0]
	lam := material.NewOscillating(3.0, 2.0, p1, p2)
	mu := material.NewOscillating(1.5, 2.0, p1, p2)
	bf := material.NewBodyForce(2, 10)

	b := NewBasis(c, m, lam, mu, bf, 2, testSolver)
	err := b.Compute()
	if err != nil {
		tst.Errorf("Compute failed:\n%v\n", err)
		return
	}

	// second path: integrate a(φ_i, φ_j) and (φ_i, f) cell by cell on the
	// subgrid, without going through the assembled fine matrix
	sh := shp.Get("qua4")
	A2 := make([][]float64, b.Nc)
	for i := range A2 {
		A2[i] = make([]float64, b.Nc)
	}
	b2 := make([]float64, b.Nc)
	for idx := range b.Sub.Cells {
		K, f, e := CellStiffLoad(sh, b.Sub.CoordsMat(idx), lam, mu, bf)
		if e != nil {
			tst.Errorf("CellStiffLoad failed:\n%v\n", e)
			return
		}
		conn := b.Sub.Cells[idx]
		nloc := len(conn) * 2
		for i := 0; i < b.Nc; i++ {
			for a := 0; a < nloc; a++ {
				I := conn[a/2]*2 + a%2
				b2[i] += b.Phi[i][I] * f[a]
				for j := 0; j < b.Nc; j++ {
					for p := 0; p < nloc; p++ {
						J := conn[p/2]*2 + p%2
						A2[i][j] += b.Phi[i][I] * K[a][p] * b.Phi[j][J]
					}
				}
			}
		}
	}
	chk.Matrix(tst, "A by direct integration", 1e-11, b.CoarseMatrix(), A2)
	chk.Vector(tst, "b by direct integration", 1e-11, b.CoarseRhs(), b2)
}
