// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package material

// Grav is the gravitational acceleration in m/s²
const Grav = 9.81

// BodyForce is the density of the body force in N/m³: ρ·g pointing downwards
// (negative direction of the last axis)
type BodyForce struct {
	Ndim int     // space dimension
	Rho  float64 // mass density
	fval float64 // force value: Grav * Rho
}

// NewBodyForce returns a new body force model
func NewBodyForce(ndim int, rho float64) *BodyForce {
	return &BodyForce{Ndim: ndim, Rho: rho, fval: Grav * rho}
}

// Value returns one component of the body force at point p
func (o *BodyForce) Value(p []float64, component int) float64 {
	if component == o.Ndim-1 {
		return -o.fval
	}
	return 0
}

// Vector fills f with the body force at point p
func (o *BodyForce) Vector(p []float64, f []float64) {
	for i := 0; i < o.Ndim; i++ {
		f[i] = 0
	}
	f[o.Ndim-1] = -o.fval
}

// ValueList evaluates one component of the body force at a list of points
func (o *BodyForce) ValueList(points [][]float64, values []float64, component int) {
	for i, p := range points {
		values[i] = o.Value(p, component)
	}
}

// SurfaceForce is the density of the surface force in N/m², acting in the
// vertical direction on a designated face of the global boundary
type SurfaceForce struct {
	Ndim int     // space dimension
	Val  float64 // signed force value; negative pulls downwards
}

// NewSurfaceForce returns a new surface force model
func NewSurfaceForce(ndim int, val float64) *SurfaceForce {
	return &SurfaceForce{Ndim: ndim, Val: val}
}

// Value returns one component of the surface force at point p
func (o *SurfaceForce) Value(p []float64, component int) float64 {
	if component == o.Ndim-1 {
		return o.Val
	}
	return 0
}

// Vector fills f with the surface force at point p
func (o *SurfaceForce) Vector(p []float64, f []float64) {
	for i := 0; i < o.Ndim; i++ {
		f[i] = 0
	}
	f[o.Ndim-1] = o.Val
}

// ValueList evaluates one component of the surface force at a list of points
func (o *SurfaceForce) ValueList(points [][]float64, values []float64, component int) {
	for i, p := range points {
		values[i] = o.Value(p, component)
	}
}
