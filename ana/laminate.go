// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import "github.com/cpmech/gosl/chk"

// VoigtReuss returns the Voigt (arithmetic) and Reuss (harmonic) averages of
// the per-layer modulus values of a laminate with layers of equal thickness.
// The effective modulus for loading along the layers equals the Voigt average;
// for loading across the layers it equals the Reuss average; any homogenised
// modulus lies between the two.
func VoigtReuss(values []float64) (voigt, reuss float64) {
	n := len(values)
	if n < 1 {
		chk.Panic("laminate: need at least one layer")
	}
	inv := 0.0
	for _, v := range values {
		if v <= 0 {
			chk.Panic("laminate: moduli must be positive; got %g", v)
		}
		voigt += v
		inv += 1.0 / v
	}
	voigt /= float64(n)
	reuss = float64(n) / inv
	return
}

// LayeredCompression returns the uniform strain of a laminate column of total
// height H compressed across the layers by the traction q (no body force):
// the stress is constant and each layer strains inversely to its modulus, so
// the end shortening is governed by the Reuss average:
//   Δ = q·H / Reuss
func LayeredCompression(values []float64, H, q float64) (shortening float64) {
	_, reuss := VoigtReuss(values)
	return q * H / reuss
}
