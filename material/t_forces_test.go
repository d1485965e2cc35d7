// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_forces01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("forces01. body force points downwards")

	bf := NewBodyForce(2, 2000)
	f := make([]float64, 2)
	bf.Vector([]float64{1, 2}, f)
	chk.Array(tst, "bf 2D", 1e-12, f, []float64{0, -2000 * Grav})

	bf3 := NewBodyForce(3, 100)
	f3 := make([]float64, 3)
	bf3.Vector([]float64{0, 0, 0}, f3)
	chk.Array(tst, "bf 3D", 1e-12, f3, []float64{0, 0, -100 * Grav})
	chk.Float64(tst, "bf component", 1e-12, bf3.Value(nil, 2), -100*Grav)
	chk.Float64(tst, "bf other component", 1e-15, bf3.Value(nil, 0), 0)
}

func Test_forces02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("forces02. surface force acts vertically")

	sf := NewSurfaceForce(2, -1e6)
	f := make([]float64, 2)
	sf.Vector([]float64{3, 4}, f)
	chk.Array(tst, "sf 2D", 1e-9, f, []float64{0, -1e6})

	vals := make([]float64, 2)
	sf.ValueList([][]float64{{0, 0}, {1, 1}}, vals, 1)
	chk.Array(tst, "sf list", 1e-9, vals, []float64{-1e6, -1e6})
}
