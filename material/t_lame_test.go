// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/elastsim/msfem/ana"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_lame01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lame01. oscillating field stays positive and bounded")

	p1 := []float64{0, 0}
	p2 := []float64{4, 2}
	mean := 3.0
	lam := NewOscillating(mean, 2.5, p1, p2)
	lo, hi := mean*(1.0-OscAmp), mean*(1.0+OscAmp)
	n := 21
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			p := []float64{
				p1[0] + (p2[0]-p1[0])*float64(i)/float64(n-1),
				p1[1] + (p2[1]-p1[1])*float64(j)/float64(n-1),
			}
			v := lam.Value(p)
			if v < lo || v > hi {
				tst.Errorf("oscillating value %g out of [%g,%g] at %v\n", v, lo, hi, p)
				return
			}
		}
	}

	// zero frequency collapses to the mean
	cte := NewOscillating(mean, 0, p1, p2)
	chk.Float64(tst, "fr=0 value", 1e-15, cte.Value([]float64{1.2, 0.7}), mean)
}

func Test_lame02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lame02. layered field: mean, contrast and clamping")

	p1 := []float64{0, 0}
	p2 := []float64{8, 2}
	mean, contrast := 10.0, 100.0
	nlayers := 4
	lam := NewLayered(LayersX, nlayers, mean, contrast, p1, p2)

	// sample the layer centers
	vals := make([]float64, nlayers)
	for i := 0; i < nlayers; i++ {
		vals[i] = lam.Value([]float64{(float64(i) + 0.5) * 2.0, 1})
	}

	// alternation and contrast
	chk.Float64(tst, "contrast 0/1", 1e-13, vals[0]/vals[1], contrast)
	chk.Float64(tst, "strong layers equal", 1e-15, vals[0], vals[2])
	chk.Float64(tst, "weak layers equal", 1e-15, vals[1], vals[3])

	// arithmetic mean of the layer values equals the requested mean
	voigt, reuss := ana.VoigtReuss(vals)
	chk.Float64(tst, "voigt average", 1e-13, voigt, mean)
	if reuss >= voigt {
		tst.Errorf("reuss average must be below voigt for contrasting layers\n")
	}

	// clamping at and beyond the domain edges
	chk.Float64(tst, "clamp left", 1e-15, lam.Value([]float64{-1, 0}), vals[0])
	chk.Float64(tst, "clamp right", 1e-15, lam.Value([]float64{9, 0}), vals[3])
	chk.Float64(tst, "clamp at p2", 1e-15, lam.Value([]float64{8, 0}), vals[3])
}

func Test_lame03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lame03. layer axes in 3D")

	p1 := []float64{0, 0, 0}
	p2 := []float64{2, 2, 6}
	mu := NewLayered(LayersZ, 3, 5.0, 10.0, p1, p2)

	// constant within one horizontal layer
	a := mu.Value([]float64{0.1, 0.2, 1.0})
	b := mu.Value([]float64{1.9, 1.7, 1.0})
	chk.Float64(tst, "constant in layer", 1e-15, a, b)

	// varies across layers
	c := mu.Value([]float64{0.1, 0.2, 3.0})
	if a == c {
		tst.Errorf("layers along z must differ; got %g == %g\n", a, c)
	}

	// y-layers vary along y only
	muy := NewLayered(LayersY, 2, 5.0, 10.0, p1, p2)
	if muy.Value([]float64{0, 0.5, 0}) == muy.Value([]float64{0, 1.5, 0}) {
		tst.Errorf("layers along y must differ across the midplane\n")
	}
	chk.Float64(tst, "y-layers constant along x", 1e-15,
		muy.Value([]float64{0, 0.5, 3}), muy.Value([]float64{2, 0.5, 5}))
}
