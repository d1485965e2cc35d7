// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "github.com/cpmech/gosl/chk"

// Subgrid is a uniform refinement of one coarse cell, used to compute the
// local multiscale basis of that cell. It lives only while its owning coarse
// cell is processed.
type Subgrid struct {
	Ndim   int         // space dimension
	Lo, Hi []float64   // bounding box (the coarse cell)
	Ndiv   int         // divisions per axis == 2^depth
	Verts  [][]float64 // vertex coordinates, x-fastest lexicographic order
	Cells  [][]int     // connectivity in qua4/hex8 local order
}

// NewSubgrid returns a uniform subgrid of the box [lo,hi] with 2^depth
// divisions per axis. depth==0 yields a single cell.
func NewSubgrid(lo, hi []float64, depth int) (o *Subgrid) {
	if depth < 0 {
		chk.Panic("subgrid: refinement depth must be non-negative; got %d", depth)
	}
	ndim := len(lo)
	o = &Subgrid{Ndim: ndim, Lo: lo, Hi: hi, Ndiv: 1 << uint(depth)}
	nd := o.Ndiv
	np := nd + 1

	// vertices
	nz := 1
	if ndim == 3 {
		nz = np
	}
	o.Verts = make([][]float64, np*np*nz)
	idx := 0
	for iz := 0; iz < nz; iz++ {
		for iy := 0; iy < np; iy++ {
			for ix := 0; ix < np; ix++ {
				c := make([]float64, ndim)
				c[0] = lo[0] + (hi[0]-lo[0])*float64(ix)/float64(nd)
				c[1] = lo[1] + (hi[1]-lo[1])*float64(iy)/float64(nd)
				if ndim == 3 {
					c[2] = lo[2] + (hi[2]-lo[2])*float64(iz)/float64(nd)
				}
				o.Verts[idx] = c
				idx++
			}
		}
	}

	// cells
	ncz := 1
	if ndim == 3 {
		ncz = nd
	}
	o.Cells = make([][]int, nd*nd*ncz)
	idx = 0
	for iz := 0; iz < ncz; iz++ {
		for iy := 0; iy < nd; iy++ {
			for ix := 0; ix < nd; ix++ {
				if ndim == 3 {
					o.Cells[idx] = []int{
						o.vid(ix, iy, iz), o.vid(ix+1, iy, iz), o.vid(ix+1, iy+1, iz), o.vid(ix, iy+1, iz),
						o.vid(ix, iy, iz+1), o.vid(ix+1, iy, iz+1), o.vid(ix+1, iy+1, iz+1), o.vid(ix, iy+1, iz+1),
					}
				} else {
					o.Cells[idx] = []int{o.vid(ix, iy, 0), o.vid(ix+1, iy, 0), o.vid(ix+1, iy+1, 0), o.vid(ix, iy+1, 0)}
				}
				idx++
			}
		}
	}
	return
}

// vid returns the vertex index at lattice position (ix,iy,iz)
func (o *Subgrid) vid(ix, iy, iz int) int {
	np := o.Ndiv + 1
	return ix + iy*np + iz*np*np
}

// OnBoundary tells if vertex v lies on the subgrid boundary
func (o *Subgrid) OnBoundary(v int) bool {
	np := o.Ndiv + 1
	ix := v % np
	iy := (v / np) % np
	if ix == 0 || ix == o.Ndiv || iy == 0 || iy == o.Ndiv {
		return true
	}
	if o.Ndim == 3 {
		iz := v / (np * np)
		return iz == 0 || iz == o.Ndiv
	}
	return false
}

// CoordsMat returns the coordinates matrix x[ndim][nverts] of subgrid cell idx
func (o *Subgrid) CoordsMat(idx int) (x [][]float64) {
	conn := o.Cells[idx]
	x = make([][]float64, o.Ndim)
	for i := 0; i < o.Ndim; i++ {
		x[i] = make([]float64, len(conn))
		for m, v := range conn {
			x[i][m] = o.Verts[v][i]
		}
	}
	return
}
