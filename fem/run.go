// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/elastsim/msfem/inp"
)

// RunProblem reads the simulation file and runs the reference computation
// followed by the multiscale computation, both over all refinement cycles
func RunProblem(simfilepath string) (err error) {

	// input
	sim := inp.ReadSim(simfilepath)
	if sim == nil {
		return chk.Err("cannot load simulation file %q", simfilepath)
	}

	// message
	rank, nproc := 0, 1
	if mpi.IsOn() {
		rank = mpi.Rank()
		nproc = mpi.Size()
	}
	io.Pf("hello from rank %d of %d\n", rank, nproc)
	if rank == 0 && sim.Desc != "" {
		io.Pf("%s\n", sim.Desc)
	}

	// standard reference computation
	t0 := time.Now()
	std := NewElaStd(sim)
	err = std.Run()
	if err != nil {
		return
	}
	if rank == 0 {
		io.Pf("standard computation: done in %v\n", time.Since(t0))
	}

	// multiscale computation
	t0 = time.Now()
	ms := NewElaMs(sim)
	err = ms.Run()
	if err != nil {
		return
	}
	if rank == 0 {
		io.Pf("multiscale computation: done in %v\n", time.Since(t0))
	}
	return
}
