// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"sort"

	"github.com/elastsim/msfem/grid"
	"github.com/elastsim/msfem/shp"
)

// refinement fractions: refine the cells carrying the largest indicators and
// coarsen the ones carrying the smallest
const (
	RefineFraction  = 0.30
	CoarsenFraction = 0.03
)

// ErrorIndicator computes a Kelly-style indicator per active cell from the
// jumps of the displacement gradient across interior faces:
//   η_c² = Σ_F h_F/24 · |F| · |[∇u]·n|²
// with the gradient evaluated at the cell centers
func ErrorIndicator(msh *grid.Mesh, dm *DofMap, u []float64) (eta map[int]float64, err error) {

	ndim := msh.Ndim
	sh := shp.Get(shp.Q1Type(ndim))
	ctr := make([]float64, 3)
	active := msh.Active()

	// gradients at cell centers
	grads := make(map[int][][]float64)
	for _, c := range active {
		x := msh.CoordsMat(c)
		err = sh.CalcAtR(x, ctr, true)
		if err != nil {
			return
		}
		g := make([][]float64, ndim)
		for i := 0; i < ndim; i++ {
			g[i] = make([]float64, ndim)
			for j := 0; j < ndim; j++ {
				for m, v := range c.Verts {
					g[i][j] += sh.G[m][j] * u[dm.Eq(v, i)]
				}
			}
		}
		grads[c.Id] = g
	}

	// face jumps
	eta = make(map[int]float64)
	for _, c := range active {
		gc := grads[c.Id]
		sum := 0.0
		for face := 0; face < 2*ndim; face++ {
			axis := face / 2
			h := c.Hi[axis] - c.Lo[axis]
			for _, d := range msh.FaceNeighbors(c, face) {
				gd := grads[d.Id]
				jump2 := 0.0
				for i := 0; i < ndim; i++ {
					j := gc[i][axis] - gd[i][axis]
					jump2 += j * j
				}
				sum += h / 24.0 * msh.FaceOverlap(c, d, axis) * jump2
			}
		}
		eta[c.Id] = math.Sqrt(sum)
	}
	return
}

// FlagCells turns the indicator into refinement and coarsening flags with the
// fixed fractions RefineFraction and CoarsenFraction. Ties are broken by cell
// id so that all ranks derive identical flags.
func FlagCells(eta map[int]float64) (rflags, cflags map[int]bool) {
	ids := make([]int, 0, len(eta))
	for id := range eta {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		if eta[ids[a]] != eta[ids[b]] {
			return eta[ids[a]] > eta[ids[b]]
		}
		return ids[a] < ids[b]
	})
	n := len(ids)
	nref := int(RefineFraction * float64(n))
	ncoa := int(CoarsenFraction * float64(n))
	rflags = make(map[int]bool)
	cflags = make(map[int]bool)
	for k := 0; k < nref; k++ {
		rflags[ids[k]] = true
	}
	for k := n - ncoa; k < n; k++ {
		cflags[ids[k]] = true
	}
	return
}
