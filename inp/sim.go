// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON or YAML file
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/cpmech/gosl/io"

	"github.com/elastsim/msfem/material"
)

// MaterialData holds the structure of the Lamé parameter fields
type MaterialData struct {

	// structure flags; exactly one must be true
	Oscillations     bool `json:"oscillations"` // trigonometric oscillations
	HorizontalLayers bool `json:"horizontal"`   // layers along the last axis
	VerticalLayers   bool `json:"vertical"`     // layers along the x-axis
	YLayers          bool `json:"ylayers"`      // layers along the y-axis

	// values
	Lambda   float64 `json:"lambda"`   // mean of λ
	Mu       float64 `json:"mu"`       // mean of μ
	Fr       float64 `json:"fr"`       // frequency multiplier (oscillations)
	Contrast float64 `json:"contrast"` // strong/weak layer ratio; default 100
	Nx       int     `json:"nx"`       // number of layers along x
	Ny       int     `json:"ny"`       // number of layers along y
	Nz       int     `json:"nz"`       // number of layers along z
}

// SolverData holds the linear solver choice of one driver
type SolverData struct {
	Type  string  `json:"type"`  // "direct" or "iterative"
	Tol   float64 `json:"tol"`   // iterative: relative tolerance; default 1e-10
	MaxIt int     `json:"maxit"` // iterative: maximum number of iterations; default 10000
}

// Simulation holds all input data
type Simulation struct {

	// global information
	Desc   string `json:"desc"`   // description of simulation
	DirOut string `json:"dirout"` // directory for output; e.g. /tmp/msfem

	// problem definition
	Ndim    int       `json:"dim"`     // space dimension: 2 or 3
	P1      []float64 `json:"p1"`      // lower domain corner
	P2      []float64 `json:"p2"`      // upper domain corner
	NCoarse int       `json:"ncoarse"` // initial global refinements of the coarse mesh
	Ncycles int       `json:"ncycles"` // number of refinement cycles

	// material and loads
	Material  MaterialData `json:"material"`  // Lamé parameter structure
	Rho       float64      `json:"rho"`       // body force mass density
	SurfForce float64      `json:"surfforce"` // surface force value
	SurfFace  int          `json:"surfface"`  // face with surface force: 0..2*dim-1 as x-,x+,y-,y+(,z-,z+)
	FixedFace int          `json:"fixedface"` // face with homogeneous Dirichlet data

	// multiscale basis
	Rdepth int `json:"rdepth"` // subgrid refinement depth R

	// solvers
	SolverMs    SolverData `json:"solverms"`    // coarse MsFEM system
	SolverStd   SolverData `json:"solverstd"`   // standard FEM system
	SolverBasis SolverData `json:"solverbasis"` // local basis problems

	// derived
	FnKey string // filename key; e.g. mysim.sim => mysim
}

// ReadSim reads the simulation input data
//  Note: returns nil on errors, after printing a message
func ReadSim(simfilepath string) *Simulation {

	// read file
	b, err := os.ReadFile(simfilepath)
	if err != nil {
		io.PfRed("sim: cannot read simulation file %q:\n%v\n", simfilepath, err)
		return nil
	}

	// decode
	var o Simulation
	ext := strings.ToLower(filepath.Ext(simfilepath))
	if ext == ".yaml" || ext == ".yml" {
		err = yaml.Unmarshal(b, &o)
	} else {
		err = json.Unmarshal(b, &o)
	}
	if err != nil {
		io.PfRed("sim: cannot decode simulation file %q:\n%v\n", simfilepath, err)
		return nil
	}

	// defaults
	o.FnKey = io.FnKey(filepath.Base(simfilepath))
	if o.DirOut == "" {
		o.DirOut = "/tmp/msfem"
	}
	if o.Ncycles < 1 {
		o.Ncycles = 1
	}
	if o.Material.Contrast == 0 {
		o.Material.Contrast = 100
	}
	for _, sd := range []*SolverData{&o.SolverMs, &o.SolverStd, &o.SolverBasis} {
		if sd.Type == "" {
			sd.Type = "direct"
		}
		if sd.Tol == 0 {
			sd.Tol = 1e-10
		}
		if sd.MaxIt == 0 {
			sd.MaxIt = 10000
		}
	}

	// validate
	if msg := o.Check(); msg != "" {
		io.PfRed("sim: invalid simulation file %q: %s\n", simfilepath, msg)
		return nil
	}

	// output directory
	err = os.MkdirAll(o.DirOut, 0777)
	if err != nil {
		io.PfRed("sim: cannot create output directory %q:\n%v\n", o.DirOut, err)
		return nil
	}
	return &o
}

// Check validates the input data; it returns an empty string on success
func (o *Simulation) Check() string {
	if o.Ndim != 2 && o.Ndim != 3 {
		return io.Sf("dim must be 2 or 3; got %d", o.Ndim)
	}
	if len(o.P1) != o.Ndim || len(o.P2) != o.Ndim {
		return io.Sf("p1 and p2 must have %d components", o.Ndim)
	}
	for i := 0; i < o.Ndim; i++ {
		if o.P2[i] <= o.P1[i] {
			return "p2 must be strictly greater than p1 in every axis"
		}
	}
	nflags := 0
	for _, f := range []bool{o.Material.Oscillations, o.Material.HorizontalLayers, o.Material.VerticalLayers, o.Material.YLayers} {
		if f {
			nflags++
		}
	}
	if nflags != 1 {
		return io.Sf("exactly one material structure flag must be set; got %d", nflags)
	}
	if o.Material.YLayers && o.Ndim == 2 {
		return "y-layers are only available in 3D"
	}
	if o.Material.Lambda <= 0 || o.Material.Mu <= 0 {
		return "lambda and mu means must be positive"
	}
	if o.LayerCount() < 1 {
		return "layer count must be at least 1 for the selected structure"
	}
	if o.SurfFace < 0 || o.SurfFace >= 2*o.Ndim {
		return io.Sf("surfface must be in 0..%d", 2*o.Ndim-1)
	}
	if o.FixedFace < 0 || o.FixedFace >= 2*o.Ndim {
		return io.Sf("fixedface must be in 0..%d", 2*o.Ndim-1)
	}
	if o.Rdepth < 0 {
		return "rdepth must be non-negative"
	}
	for _, sd := range []SolverData{o.SolverMs, o.SolverStd, o.SolverBasis} {
		if sd.Type != "direct" && sd.Type != "iterative" {
			return io.Sf("solver type must be \"direct\" or \"iterative\"; got %q", sd.Type)
		}
	}
	return ""
}

// LayerCount returns the layer count of the selected structure (1 for oscillations)
func (o *Simulation) LayerCount() int {
	switch {
	case o.Material.VerticalLayers:
		return o.Material.Nx
	case o.Material.YLayers:
		return o.Material.Ny
	case o.Material.HorizontalLayers:
		if o.Ndim == 3 {
			return o.Material.Nz
		}
		return o.Material.Ny
	}
	return 1
}

// LameField builds one Lamé parameter field with the configured structure
func (o *Simulation) LameField(mean float64) *material.LamePrm {
	m := o.Material
	switch {
	case m.Oscillations:
		return material.NewOscillating(mean, m.Fr, o.P1, o.P2)
	case m.VerticalLayers:
		return material.NewLayered(material.LayersX, m.Nx, mean, m.Contrast, o.P1, o.P2)
	case m.YLayers:
		return material.NewLayered(material.LayersY, m.Ny, mean, m.Contrast, o.P1, o.P2)
	}
	// horizontal layers: along the last axis
	n := m.Nz
	if o.Ndim == 2 {
		n = m.Ny
	}
	return material.NewLayered(material.LayersZ, n, mean, m.Contrast, o.P1, o.P2)
}
