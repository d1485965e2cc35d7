// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package material implements spatially varying Lamé parameter fields and load models
package material

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Kind selects the spatial structure of a Lamé parameter field
type Kind int

const (
	Oscillating Kind = iota // smooth trigonometric oscillations
	LayersX                 // vertical layers: strips along the x-axis
	LayersY                 // layers along the y-axis
	LayersZ                 // horizontal layers: strips along the last axis
)

// OscAmp is the relative amplitude of the oscillating structure.
// The field stays within mean*[1-OscAmp, 1+OscAmp] and hence strictly positive.
const OscAmp = 0.5

// LamePrm is one Lamé parameter (λ or μ) as a spatial function over [p1,p2]
type LamePrm struct {

	// input
	Kind Kind      // structure of the material
	Mean float64   // mean value of the parameter
	Fr   float64   // frequency multiplier (oscillating structure)
	P1   []float64 // lower domain corner
	P2   []float64 // upper domain corner

	// derived: layered structures
	axis    int       // axis along which the layers vary
	nlayers int       // number of layers
	invsize float64   // inverse of the layer thickness
	values  []float64 // per-layer values; arithmetic mean equals Mean
}

// NewOscillating returns an oscillating parameter field
//   λ(p) = mean * (1 + OscAmp * sin(fr * Σ_i 2π (p_i - p1_i)/(p2_i - p1_i)))
func NewOscillating(mean, fr float64, p1, p2 []float64) (o *LamePrm) {
	if mean <= 0 {
		chk.Panic("material: mean of Lamé parameter must be positive; got %g", mean)
	}
	o = &LamePrm{Kind: Oscillating, Mean: mean, Fr: fr, P1: p1, P2: p2}
	return
}

// NewLayered returns a layered parameter field with nlayers equal strips along
// the given axis. The layer values alternate between a strong and a weak value
// with ratio equal to contrast, scaled so that their arithmetic mean equals mean.
func NewLayered(kind Kind, nlayers int, mean, contrast float64, p1, p2 []float64) (o *LamePrm) {
	if kind == Oscillating {
		chk.Panic("material: NewLayered cannot build an oscillating field")
	}
	if nlayers < 1 {
		chk.Panic("material: number of layers must be at least 1; got %d", nlayers)
	}
	if mean <= 0 || contrast <= 0 {
		chk.Panic("material: mean and contrast must be positive; got mean=%g contrast=%g", mean, contrast)
	}
	o = &LamePrm{Kind: kind, Mean: mean, P1: p1, P2: p2, nlayers: nlayers}
	switch kind {
	case LayersX:
		o.axis = 0
	case LayersY:
		o.axis = 1
	case LayersZ:
		o.axis = len(p1) - 1
	}
	o.invsize = float64(nlayers) / (p2[o.axis] - p1[o.axis])

	// alternating sequence: strong layers at even indices. With k strong layers,
	//   (k*contrast + (n-k)) * weak / n == mean
	n := nlayers
	k := (n + 1) / 2
	weak := float64(n) * mean / (float64(k)*contrast + float64(n-k))
	o.values = make([]float64, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			o.values[i] = weak * contrast
		} else {
			o.values[i] = weak
		}
	}
	return
}

// Value returns the value of the parameter at point p
func (o *LamePrm) Value(p []float64) float64 {
	if o.Kind == Oscillating {
		arg := 0.0
		for i := 0; i < len(o.P1); i++ {
			arg += 2.0 * math.Pi * (p[i] - o.P1[i]) / (o.P2[i] - o.P1[i])
		}
		return o.Mean * (1.0 + OscAmp*math.Sin(o.Fr*arg))
	}
	idx := int((p[o.axis] - o.P1[o.axis]) * o.invsize)
	if idx < 0 {
		idx = 0
	}
	if idx > o.nlayers-1 {
		idx = o.nlayers - 1
	}
	return o.values[idx]
}

// ValueList evaluates the parameter at a list of points
//  Output:
//   values -- pre-allocated slice with len(points) entries
func (o *LamePrm) ValueList(points [][]float64, values []float64) {
	for i, p := range points {
		values[i] = o.Value(p)
	}
}
