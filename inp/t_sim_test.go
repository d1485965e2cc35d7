// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// write_sim writes content to a temporary simulation file and returns its path
func write_sim(tst *testing.T, fn, content string) string {
	path := filepath.Join(tst.TempDir(), fn)
	var buf bytes.Buffer
	buf.WriteString(content)
	io.WriteFile(path, &buf)
	return path
}

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01. json deck with defaults")

	path := write_sim(tst, "ok.sim", `{
		"desc"    : "test deck",
		"dirout"  : "`+filepath.Join(tst.TempDir(), "res")+`",
		"dim"     : 2,
		"p1"      : [0, 0],
		"p2"      : [4, 2],
		"ncoarse" : 2,
		"material": { "oscillations": true, "lambda": 2.0, "mu": 1.0, "fr": 3 },
		"rho"     : 1000,
		"surfforce": -100,
		"surfface" : 3,
		"fixedface": 2,
		"rdepth"   : 1
	}`)
	sim := ReadSim(path)
	if sim == nil {
		tst.Errorf("cannot read valid deck\n")
		return
	}
	chk.IntAssert(sim.Ndim, 2)
	chk.IntAssert(sim.Ncycles, 1)
	chk.Float64(tst, "contrast default", 1e-15, sim.Material.Contrast, 100)
	if sim.SolverMs.Type != "direct" || sim.SolverBasis.Type != "direct" {
		tst.Errorf("solver defaults must be direct\n")
	}
	chk.Float64(tst, "tol default", 1e-15, sim.SolverMs.Tol, 1e-10)
	chk.IntAssert(sim.SolverStd.MaxIt, 10000)
	if sim.FnKey != "ok" {
		tst.Errorf("fnkey: %q\n", sim.FnKey)
	}

	// the configured material structure
	lam := sim.LameField(sim.Material.Lambda)
	chk.Float64(tst, "lambda mean at fr known point", 1e-14, lam.Mean, 2.0)
}

func Test_sim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim02. yaml deck")

	path := write_sim(tst, "ok.yaml", `
desc: yaml deck
dirout: `+filepath.Join(tst.TempDir(), "res")+`
dim: 3
p1: [0, 0, 0]
p2: [1, 1, 1]
ncoarse: 1
ncycles: 2
material:
  horizontal: true
  lambda: 5.0
  mu: 2.0
  nz: 4
rho: 100
surfforce: -10
surfface: 5
fixedface: 4
rdepth: 1
`)
	sim := ReadSim(path)
	if sim == nil {
		tst.Errorf("cannot read valid yaml deck\n")
		return
	}
	chk.IntAssert(sim.Ndim, 3)
	chk.IntAssert(sim.Ncycles, 2)
	chk.IntAssert(sim.LayerCount(), 4)
}

func Test_sim03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim03. invalid decks are rejected")

	// wrong dimension
	path := write_sim(tst, "bad1.sim", `{"dim": 4, "p1": [0,0], "p2": [1,1],
		"material": {"oscillations": true, "lambda": 1, "mu": 1}}`)
	if ReadSim(path) != nil {
		tst.Errorf("dim=4 must be rejected\n")
	}

	// p2 not greater than p1
	path = write_sim(tst, "bad2.sim", `{"dim": 2, "p1": [0,0], "p2": [1,0],
		"material": {"oscillations": true, "lambda": 1, "mu": 1}}`)
	if ReadSim(path) != nil {
		tst.Errorf("empty box must be rejected\n")
	}

	// no material structure selected
	path = write_sim(tst, "bad3.sim", `{"dim": 2, "p1": [0,0], "p2": [1,1],
		"material": {"lambda": 1, "mu": 1}}`)
	if ReadSim(path) != nil {
		tst.Errorf("missing structure flag must be rejected\n")
	}

	// two structures selected
	path = write_sim(tst, "bad4.sim", `{"dim": 2, "p1": [0,0], "p2": [1,1],
		"material": {"oscillations": true, "vertical": true, "lambda": 1, "mu": 1, "nx": 2}}`)
	if ReadSim(path) != nil {
		tst.Errorf("two structure flags must be rejected\n")
	}

	// y-layers in 2D
	path = write_sim(tst, "bad5.sim", `{"dim": 2, "p1": [0,0], "p2": [1,1],
		"material": {"ylayers": true, "lambda": 1, "mu": 1, "ny": 2}}`)
	if ReadSim(path) != nil {
		tst.Errorf("y-layers in 2D must be rejected\n")
	}

	// layered structure without layer count
	path = write_sim(tst, "bad6.sim", `{"dim": 2, "p1": [0,0], "p2": [1,1],
		"material": {"vertical": true, "lambda": 1, "mu": 1}}`)
	if ReadSim(path) != nil {
		tst.Errorf("missing layer count must be rejected\n")
	}

	// out-of-range face index
	path = write_sim(tst, "bad7.sim", `{"dim": 2, "p1": [0,0], "p2": [1,1], "surfface": 4,
		"material": {"oscillations": true, "lambda": 1, "mu": 1}}`)
	if ReadSim(path) != nil {
		tst.Errorf("surfface=4 in 2D must be rejected\n")
	}

	// unknown solver type
	path = write_sim(tst, "bad8.sim", `{"dim": 2, "p1": [0,0], "p2": [1,1],
		"material": {"oscillations": true, "lambda": 1, "mu": 1},
		"solverms": {"type": "amg"}}`)
	if ReadSim(path) != nil {
		tst.Errorf("unknown solver type must be rejected\n")
	}

	// missing file
	if ReadSim(filepath.Join(tst.TempDir(), "nope.sim")) != nil {
		tst.Errorf("missing file must be rejected\n")
	}
}
