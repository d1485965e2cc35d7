// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// SimCheck reads a simulation file, applies the defaults and the validation
// rules and prints the resulting set-up. Useful to inspect a deck before
// submitting a long run.
package main

import (
	"os"

	"github.com/cpmech/gosl/io"

	"github.com/elastsim/msfem/inp"
)

func main() {

	// input
	fnamepath, fnk := io.ArgToFilename(0, "simfile", ".sim", true)
	io.Pf("\nSimCheck: checking %q\n\n", fnamepath)

	// read and validate
	sim := inp.ReadSim(fnamepath)
	if sim == nil {
		os.Exit(1)
	}

	// show
	io.Pf("%v\n", io.ArgsTable(
		"description", "desc", sim.Desc,
		"output directory", "dirout", sim.DirOut,
		"space dimension", "dim", sim.Ndim,
		"refinement cycles", "ncycles", sim.Ncycles,
		"coarse refinements", "ncoarse", sim.NCoarse,
		"subgrid depth", "rdepth", sim.Rdepth,
		"number of layers", "layers", sim.LayerCount(),
		"mass density", "rho", sim.Rho,
		"surface force", "surfforce", sim.SurfForce,
		"loaded face", "surfface", sim.SurfFace,
		"fixed face", "fixedface", sim.FixedFace,
	))
	io.PfGreen("%s.sim is valid\n", fnk)
}
