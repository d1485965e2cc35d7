// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Trace implements the scalar Q1 polynomial that equals 1 at one vertex of an
// axis-aligned cell and 0 at the others. The coefficients are obtained by
// inverting the matrix of tensor-product monomials evaluated at the vertices:
//   2D: {1, x, y, xy}
//   3D: {1, x, y, z, xy, yz, xz, xyz}
// so that Value(v, vertex_w) == δ_vw exactly (up to the inversion accuracy).
type Trace struct {
	Ndim   int         // space dimension
	Nverts int         // 2^ndim
	Ci     [][]float64 // [nverts][nverts] inverse of the vertex-monomial matrix
}

// NewTrace builds a trace function from the vertex coordinates of one cell
//  Input:
//   x[ndim][nverts] -- coordinates matrix in qua4/hex8 local vertex order
//  Note: panics if the vertex matrix is singular (degenerate cell)
func NewTrace(x [][]float64) (o *Trace) {
	o = new(Trace)
	o.Ndim = len(x)
	o.Nverts = 1 << uint(o.Ndim)
	if len(x[0]) != o.Nverts {
		chk.Panic("trace: need %d vertices for ndim=%d; got %d", o.Nverts, o.Ndim, len(x[0]))
	}

	// Vandermonde-style matrix: row m holds the monomials at vertex m
	V := la.MatAlloc(o.Nverts, o.Nverts)
	p := make([]float64, o.Ndim)
	for m := 0; m < o.Nverts; m++ {
		for i := 0; i < o.Ndim; i++ {
			p[i] = x[i][m]
		}
		monomials(V[m], p)
	}

	// invert
	o.Ci = la.MatAlloc(o.Nverts, o.Nverts)
	err := la.MatInvG(o.Ci, V, MINDET)
	if err != nil {
		chk.Panic("trace: singular vertex matrix (degenerate cell):\n%v", err)
	}
	return
}

// Value returns T_v(p): the value of the trace associated with local vertex v at point p
func (o *Trace) Value(v int, p []float64) (res float64) {
	mono := make([]float64, o.Nverts)
	monomials(mono, p)
	for k := 0; k < o.Nverts; k++ {
		res += o.Ci[k][v] * mono[k]
	}
	return
}

// ValueList evaluates T_v at a list of points
//  Output:
//   values -- pre-allocated slice with len(points) entries
func (o *Trace) ValueList(v int, points [][]float64, values []float64) {
	mono := make([]float64, o.Nverts)
	for idx, p := range points {
		monomials(mono, p)
		values[idx] = 0
		for k := 0; k < o.Nverts; k++ {
			values[idx] += o.Ci[k][v] * mono[k]
		}
	}
}

// monomials fills the tensor-product monomial basis at point p
func monomials(mono, p []float64) {
	if len(p) == 3 {
		mono[0] = 1
		mono[1] = p[0]
		mono[2] = p[1]
		mono[3] = p[2]
		mono[4] = p[0] * p[1]
		mono[5] = p[1] * p[2]
		mono[6] = p[0] * p[2]
		mono[7] = p[0] * p[1] * p[2]
		return
	}
	mono[0] = 1
	mono[1] = p[0]
	mono[2] = p[1]
	mono[3] = p[0] * p[1]
}
