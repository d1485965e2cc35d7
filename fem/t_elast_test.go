// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/elastsim/msfem/material"
	"github.com/elastsim/msfem/shp"
)

// cteLame returns a spatially constant parameter field
func cteLame(val float64, p1, p2 []float64) *material.LamePrm {
	return material.NewOscillating(val, 0, p1, p2)
}

func Test_elast01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("elast01. stiffness symmetry and rigid body kernel in 2D")

	p1, p2 := []float64{0, 0}, []float64{1, 1}
	lam := cteLame(2.0, p1, p2)
	mu := cteLame(1.0, p1, p2)
	sh := shp.Get("qua4")
	x := [][]float64{
		{0, 1, 1, 0},
		{0, 0, 1, 1},
	}
	K, _, err := CellStiffLoad(sh, x, lam, mu, nil)
	if err != nil {
		tst.Errorf("CellStiffLoad failed:\n%v\n", err)
		return
	}

	// symmetry
	for i := 0; i < 8; i++ {
		for j := i + 1; j < 8; j++ {
			chk.Scalar(tst, io.Sf("K%d%d == K%d%d", i, j, j, i), 1e-14, K[i][j], K[j][i])
		}
	}

	// translations and the infinitesimal rotation lie in the kernel
	kernel := [][]float64{
		{1, 0, 1, 0, 1, 0, 1, 0}, // translation x
		{0, 1, 0, 1, 0, 1, 0, 1}, // translation y
		{0, 0, 0, 1, -1, 1, -1, 0}, // rotation: u = (y, -x) at the vertices
	}
	for idx, u := range kernel {
		for i := 0; i < 8; i++ {
			r := 0.0
			for j := 0; j < 8; j++ {
				r += K[i][j] * u[j]
			}
			chk.Scalar(tst, io.Sf("kernel %d row %d", idx, i), 1e-13, r, 0)
		}
	}
}

func Test_elast02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("elast02. body and surface load resultants")

	p1, p2 := []float64{0, 0}, []float64{2, 1}
	lam := cteLame(1.0, p1, p2)
	mu := cteLame(1.0, p1, p2)
	bf := material.NewBodyForce(2, 10)
	sh := shp.Get("qua4")
	x := [][]float64{
		{0, 2, 2, 0},
		{0, 0, 1, 1},
	}
	_, f, err := CellStiffLoad(sh, x, lam, mu, bf)
	if err != nil {
		tst.Errorf("CellStiffLoad failed:\n%v\n", err)
		return
	}

	// the resultant equals the weight of the cell, pointing downwards
	sumx, sumy := 0.0, 0.0
	for m := 0; m < 4; m++ {
		sumx += f[m*2]
		sumy += f[m*2+1]
	}
	chk.Scalar(tst, "Σfx", 1e-13, sumx, 0)
	chk.Scalar(tst, "Σfy", 1e-12, sumy, -10*material.Grav*2.0)

	// surface force on the top face: resultant equals traction times length
	sf := material.NewSurfaceForce(2, -5)
	ff, err := CellFaceLoad(sh, x, 3, sf)
	if err != nil {
		tst.Errorf("CellFaceLoad failed:\n%v\n", err)
		return
	}
	sumx, sumy = 0.0, 0.0
	for m := 0; m < 4; m++ {
		sumx += ff[m*2]
		sumy += ff[m*2+1]
	}
	chk.Scalar(tst, "Σffx", 1e-14, sumx, 0)
	chk.Scalar(tst, "Σffy", 1e-13, sumy, -5*2.0)

	// only the vertices of the loaded face carry the load
	chk.Scalar(tst, "ff v0", 1e-15, ff[1], 0)
	chk.Scalar(tst, "ff v1", 1e-15, ff[3], 0)
}

func Test_elast03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("elast03. 3D rigid body kernel and load resultant")

	p1, p2 := []float64{0, 0, 0}, []float64{1, 1, 1}
	lam := cteLame(3.0, p1, p2)
	mu := cteLame(2.0, p1, p2)
	bf := material.NewBodyForce(3, 7)
	sh := shp.Get("hex8")
	x := [][]float64{
		{0, 1, 1, 0, 0, 1, 1, 0},
		{0, 0, 1, 1, 0, 0, 1, 1},
		{0, 0, 0, 0, 1, 1, 1, 1},
	}
	K, f, err := CellStiffLoad(sh, x, lam, mu, bf)
	if err != nil {
		tst.Errorf("CellStiffLoad failed:\n%v\n", err)
		return
	}

	// translations in the kernel
	for comp := 0; comp < 3; comp++ {
		for i := 0; i < 24; i++ {
			r := 0.0
			for m := 0; m < 8; m++ {
				r += K[i][m*3+comp]
			}
			chk.Scalar(tst, io.Sf("translation %d row %d", comp, i), 1e-13, r, 0)
		}
	}

	// weight resultant
	sum := 0.0
	for m := 0; m < 8; m++ {
		sum += f[m*3+2]
	}
	chk.Scalar(tst, "Σfz", 1e-12, sum, -7*material.Grav)
}

func Test_elast04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("elast04. stress recovery of a uniform strain state")

	// two cells of the box [0,2]x[0,1]; u = (a·x, 0)
	a := 0.1
	verts := [][]float64{
		{0, 0}, {1, 0}, {2, 0},
		{0, 1}, {1, 1}, {2, 1},
	}
	cells := [][]int{{0, 1, 4, 3}, {1, 2, 5, 4}}
	u := make([]float64, len(verts)*2)
	for v, c := range verts {
		u[v*2] = a * c[0]
	}
	lam := cteLame(2.0, []float64{0, 0}, []float64{2, 1})
	mu := cteLame(1.0, []float64{0, 0}, []float64{2, 1})
	eps, sig, vm, err := StressFields(2, verts, cells, u, lam, mu)
	if err != nil {
		tst.Errorf("StressFields failed:\n%v\n", err)
		return
	}
	for v := range verts {
		chk.Scalar(tst, io.Sf("εxx v%d", v), 1e-14, eps[v*3], a)
		chk.Scalar(tst, io.Sf("εyy v%d", v), 1e-14, eps[v*3+1], 0)
		chk.Scalar(tst, io.Sf("εxy v%d", v), 1e-14, eps[v*3+2], 0)
		chk.Scalar(tst, io.Sf("σxx v%d", v), 1e-13, sig[v*3], (2.0+2.0*1.0)*a)
		chk.Scalar(tst, io.Sf("σyy v%d", v), 1e-13, sig[v*3+1], 2.0*a)
		if vm[v] <= 0 || math.IsNaN(vm[v]) {
			tst.Errorf("von mises must be positive for a sheared state\n")
			return
		}
	}
}
