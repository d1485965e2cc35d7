// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import "math"

// register shape
func init() {

	// auxiliary
	gp := 1.0 / math.Sqrt(3.0)

	hex8 := new(Shape)
	hex8.Type = "hex8"
	hex8.FaceType = "qua4"
	hex8.Gndim = 3
	hex8.Nverts = 8
	hex8.VtkCode = 12
	hex8.FaceNvertsMax = 4
	hex8.FaceLocalVerts = [][]int{
		{0, 4, 7, 3}, // x-
		{1, 2, 6, 5}, // x+
		{0, 1, 5, 4}, // y-
		{2, 3, 7, 6}, // y+
		{0, 3, 2, 1}, // z-
		{4, 5, 6, 7}, // z+
	}
	hex8.NatCoords = [][]float64{
		{-1, 1, 1, -1, -1, 1, 1, -1},
		{-1, -1, 1, 1, -1, -1, 1, 1},
		{-1, -1, -1, -1, 1, 1, 1, 1},
	}

	// 2x2x2 Gauss-Legendre rule
	hex8.IpsElem = make([]Ipoint, 8)
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				hex8.IpsElem[i+j*2+k*4] = Ipoint{[]float64{
					gp * float64(2*i-1),
					gp * float64(2*j-1),
					gp * float64(2*k-1),
				}, 1}
			}
		}
	}
	hex8.IpsFace = []Ipoint{
		{[]float64{-gp, -gp}, 1},
		{[]float64{gp, -gp}, 1},
		{[]float64{gp, gp}, 1},
		{[]float64{-gp, gp}, 1},
	}

	// Hex8 calculates the shape functions (S) and derivatives of shape functions (dSdR) of hex8
	// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
	//
	//           4----------7
	//          /|         /|
	//         / |        / |
	//        5----------6  |
	//        |  |       |  |        t   s
	//        |  0-------|--3        | /
	//        | /        | /         +--r
	//        |/         |/
	//        1----------2
	hex8.Func = func(S []float64, dSdR [][]float64, R []float64, derivs bool, idxface int) {
		r, s, t := R[0], R[1], R[2]
		for m := 0; m < 8; m++ {
			rm := hex8.NatCoords[0][m]
			sm := hex8.NatCoords[1][m]
			tm := hex8.NatCoords[2][m]
			S[m] = (1.0 + r*rm) * (1.0 + s*sm) * (1.0 + t*tm) / 8.0
			if derivs {
				dSdR[m][0] = rm * (1.0 + s*sm) * (1.0 + t*tm) / 8.0
				dSdR[m][1] = sm * (1.0 + r*rm) * (1.0 + t*tm) / 8.0
				dSdR[m][2] = tm * (1.0 + r*rm) * (1.0 + s*sm) / 8.0
			}
		}
	}

	// faces are qua4 quadrilaterals
	hex8.FaceFunc = func(S []float64, dSdR [][]float64, R []float64, derivs bool, idxface int) {
		r, s := R[0], R[1]
		S[0] = (1.0 - r) * (1.0 - s) / 4.0
		S[1] = (1.0 + r) * (1.0 - s) / 4.0
		S[2] = (1.0 + r) * (1.0 + s) / 4.0
		S[3] = (1.0 - r) * (1.0 + s) / 4.0
		if !derivs {
			return
		}
		dSdR[0][0] = -(1.0 - s) / 4.0
		dSdR[0][1] = -(1.0 - r) / 4.0
		dSdR[1][0] = (1.0 - s) / 4.0
		dSdR[1][1] = -(1.0 + r) / 4.0
		dSdR[2][0] = (1.0 + s) / 4.0
		dSdR[2][1] = (1.0 + r) / 4.0
		dSdR[3][0] = -(1.0 + s) / 4.0
		dSdR[3][1] = (1.0 - r) / 4.0
	}

	hex8.init_scratchpad()
	factory["hex8"] = hex8
}
