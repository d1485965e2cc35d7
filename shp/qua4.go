// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import "math"

// register shape
func init() {

	// auxiliary
	gp := 1.0 / math.Sqrt(3.0)

	qua4 := new(Shape)
	qua4.Type = "qua4"
	qua4.FaceType = "lin2"
	qua4.Gndim = 2
	qua4.Nverts = 4
	qua4.VtkCode = 9
	qua4.FaceNvertsMax = 2
	qua4.FaceLocalVerts = [][]int{{3, 0}, {1, 2}, {0, 1}, {2, 3}} // x-, x+, y-, y+
	qua4.NatCoords = [][]float64{
		{-1, 1, 1, -1},
		{-1, -1, 1, 1},
	}

	// 2x2 Gauss-Legendre rule
	qua4.IpsElem = []Ipoint{
		{[]float64{-gp, -gp}, 1},
		{[]float64{gp, -gp}, 1},
		{[]float64{gp, gp}, 1},
		{[]float64{-gp, gp}, 1},
	}
	qua4.IpsFace = []Ipoint{
		{[]float64{-gp}, 1},
		{[]float64{gp}, 1},
	}

	// Qua4 calculates the shape functions (S) and derivatives of shape functions (dSdR) of qua4
	// elements at {r,s} natural coordinates. The derivatives are calculated only if derivs==true.
	//
	//        3-----------2
	//        |     s     |
	//        |     |     |
	//        |     +--r  |
	//        |           |
	//        |           |
	//        0-----------1
	qua4.Func = func(S []float64, dSdR [][]float64, R []float64, derivs bool, idxface int) {
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

	// faces are lin2 segments
	qua4.FaceFunc = func(S []float64, dSdR [][]float64, R []float64, derivs bool, idxface int) {
		r := R[0]
		S[0] = (1.0 - r) / 2.0
		S[1] = (1.0 + r) / 2.0
		if !derivs {
			return
		}
		dSdR[0][0] = -0.5
		dSdR[1][0] = 0.5
	}

	qua4.init_scratchpad()
	factory["qua4"] = qua4
}
