// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"path/filepath"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/mpi"

	"github.com/elastsim/msfem/grid"
	"github.com/elastsim/msfem/inp"
	"github.com/elastsim/msfem/material"
	"github.com/elastsim/msfem/out"
	"github.com/elastsim/msfem/shp"
)

// ElaMs is the multiscale driver: on each cycle it computes the local basis of
// every owned coarse cell, assembles and solves the contracted coarse system,
// reconstructs the fine scale solution cell by cell, and adapts the coarse mesh.
type ElaMs struct {

	// input
	Sim     *inp.Simulation
	Msh     *grid.Mesh
	Lam, Mu *material.LamePrm
	Bf      *material.BodyForce
	Sf      *material.SurfaceForce

	// parallel
	Rank  int
	Nproc int
	Distr bool // distributed run: Nproc > 1
	Root  bool // Rank == 0

	// per-cycle data
	Dm        *DofMap
	Cons      *Constraints
	Kb        *la.Triplet
	Fb        []float64
	Wb        []float64
	diag      []float64
	CellBasis map[int]*Basis // owned cell id => basis
}

// NewElaMs allocates the multiscale driver: coarse mesh, material fields and
// load models
func NewElaMs(sim *inp.Simulation) (o *ElaMs) {
	o = &ElaMs{
		Sim: sim,
		Msh: grid.NewMesh(sim.P1, sim.P2, sim.NCoarse),
		Lam: sim.LameField(sim.Material.Lambda),
		Mu:  sim.LameField(sim.Material.Mu),
		Bf:  material.NewBodyForce(sim.Ndim, sim.Rho),
		Sf:  material.NewSurfaceForce(sim.Ndim, sim.SurfForce),
	}
	o.Rank, o.Nproc = 0, 1
	if mpi.IsOn() {
		o.Rank = mpi.Rank()
		o.Nproc = mpi.Size()
	}
	o.Distr = o.Nproc > 1
	o.Root = o.Rank == 0
	return
}

// owned returns the active cells owned by this rank
func (o *ElaMs) owned() (res []*grid.Cell) {
	for _, c := range o.Msh.Active() {
		if c.Owner == o.Rank {
			res = append(res, c)
		}
	}
	return
}

// nloc returns the number of coarse element dofs == ndim * 2^ndim
func (o *ElaMs) nloc() int {
	return o.Sim.Ndim * (1 << uint(o.Sim.Ndim))
}

// Run performs all refinement cycles
func (o *ElaMs) Run() (err error) {
	for cyc := 0; cyc < o.Sim.Ncycles; cyc++ {
		t0 := time.Now()
		if o.Root {
			io.Pf("multiscale cycle %d: %d active cells\n", cyc, len(o.Msh.Active()))
		}
		o.setupSystem()
		err = o.computeBasis()
		if err != nil {
			return
		}
		err = o.assembleSystem()
		if err != nil {
			return
		}
		err = o.solve()
		if err != nil {
			return
		}
		o.sendWeightsToCells()
		err = o.output(cyc)
		if err != nil {
			return
		}
		if cyc < o.Sim.Ncycles-1 {
			err = o.refineGrid()
			if err != nil {
				return
			}
			o.CellBasis = nil // bases of the previous mesh are invalid now
		}
		if o.Root {
			io.Pf("multiscale cycle %d: done in %v\n", cyc, time.Since(t0))
		}
	}
	return
}

// setupSystem partitions the mesh and builds the dof numbering, the constraint
// set and the global system storage of this cycle
func (o *ElaMs) setupSystem() {

	o.Msh.Partition(o.Nproc)
	o.Dm = NewDofMap(o.Msh, o.Sim.Ndim)
	ndim := o.Sim.Ndim

	// constraints: hanging vertices, then the fixed boundary face
	o.Cons = NewConstraints()
	for _, h := range o.Msh.HangingVerts() {
		for i := 0; i < ndim; i++ {
			masters := make([]int, len(h.Masters))
			for k, m := range h.Masters {
				masters[k] = o.Dm.Eq(m, i)
			}
			o.Cons.AddHanging(o.Dm.Eq(h.V, i), masters, h.Coefs)
		}
	}
	for _, v := range o.Dm.Vids {
		if o.Msh.VertOnBoundaryFace(v, o.Sim.FixedFace) {
			for i := 0; i < ndim; i++ {
				o.Cons.AddDirichlet(o.Dm.Eq(v, i), 0)
			}
		}
	}
	o.Cons.Close()

	// global system storage, sized from the resolved constraint lengths so
	// that chained hanging-node expansions always fit
	est := o.Dm.Ny
	for _, c := range o.owned() {
		est += o.Cons.Nnz(o.Dm.Eqs(c))
	}
	o.Kb = new(la.Triplet)
	o.Kb.Init(o.Dm.Ny, o.Dm.Ny, est)
	o.Fb = make([]float64, o.Dm.Ny)
	o.Wb = make([]float64, o.Dm.Ny)
	o.diag = make([]float64, o.Dm.Ny)
}

// computeBasis solves the local problems of all owned coarse cells
func (o *ElaMs) computeBasis() (err error) {
	o.CellBasis = make(map[int]*Basis)
	for _, c := range o.owned() {
		b := NewBasis(c, o.Msh, o.Lam, o.Mu, o.Bf, o.Sim.Rdepth, o.Sim.SolverBasis)
		err = b.Compute()
		if err != nil {
			return chk.Err("ms: basis of cell %d failed:\n%v", c.Id, err)
		}
		o.CellBasis[c.Id] = b
	}
	return
}

// assembleSystem adds the contracted element matrices, the body load carried
// by the basis rhs and the surface force into the global system
func (o *ElaMs) assembleSystem() (err error) {
	sh := shp.Get(shp.Q1Type(o.Sim.Ndim))
	for _, c := range o.owned() {
		b := o.CellBasis[c.Id]
		eqs := o.Dm.Eqs(c)
		o.Cons.AddLocal(b.CoarseMatrix(), b.CoarseRhs(), eqs, o.Kb, o.Fb, o.diag)

		// surface force: φ_k restricted to a boundary face equals the Q1
		// shape functions, so the standard face integral applies
		if o.Msh.CellFaceOnBoundary(c, o.Sim.SurfFace) {
			floc, e := CellFaceLoad(sh, o.Msh.CoordsMat(c), o.Sim.SurfFace, o.Sf)
			if e != nil {
				return e
			}
			o.Cons.AddRhs(floc, eqs, o.Fb)
		}
	}
	return
}

// solve sums the distributed contributions, pins the constrained equations and
// solves the coarse system; the solution ends up replicated on all ranks
func (o *ElaMs) solve() (err error) {
	if o.Distr {
		w := make([]float64, o.Dm.Ny)
		mpi.AllReduceSum(o.Fb, w)
		mpi.AllReduceSum(o.diag, w)
	}

	// pin constrained equations: unit diagonal, zero rhs
	ceqs := o.Cons.Eqs()
	if !o.Distr || o.Root {
		for _, eq := range ceqs {
			o.Kb.Put(eq, eq, 1)
		}
	}
	for _, eq := range ceqs {
		o.diag[eq] += 1
		o.Fb[eq] = 0
	}

	o.Wb, err = SolveSparse(o.Sim.SolverMs, o.Kb, o.Fb, o.diag, o.Distr, o.Root)
	if err != nil {
		return chk.Err("ms: coarse solve failed:\n%v", err)
	}
	o.Cons.Distribute(o.Wb)
	return
}

// sendWeightsToCells hands each owned basis its weights from the coarse solution
func (o *ElaMs) sendWeightsToCells() {
	nloc := o.nloc()
	w := make([]float64, nloc)
	for _, c := range o.owned() {
		eqs := o.Dm.Eqs(c)
		for k := 0; k < nloc; k++ {
			w[k] = o.Wb[eqs[k]]
		}
		o.CellBasis[c.Id].SetWeights(w)
	}
}

// output writes one piece per owned cell with the reconstructed fine scale
// solution, one per-rank piece with the coarse scale solution, and the group
// files on the root
func (o *ElaMs) output(cyc int) (err error) {
	own := o.owned()
	for _, c := range own {
		fn := io.Sf("ms_cycle_%d_cell_%d.vtu", cyc, c.Id)
		err = o.CellBasis[c.Id].WriteVTU(filepath.Join(o.Sim.DirOut, fn))
		if err != nil {
			return
		}
	}

	// coarse scale solution on the owned cells
	if len(own) > 0 {
		fn := io.Sf("ms_coarse_cycle_%d_p%d.vtu", cyc, o.Rank)
		err = writeCoarseVTU(filepath.Join(o.Sim.DirOut, fn), o.Msh, o.Dm, o.Wb, o.Lam, o.Mu, own)
		if err != nil {
			return
		}
	}

	if o.Root {
		fields := coarseFields(o.Sim.Ndim)
		var pieces []string
		for _, c := range o.Msh.Active() {
			pieces = append(pieces, io.Sf("ms_cycle_%d_cell_%d.vtu", cyc, c.Id))
		}
		err = out.WritePVTU(filepath.Join(o.Sim.DirOut, io.Sf("ms_cycle_%d.pvtu", cyc)), pieces, fields)
		if err != nil {
			return
		}

		nown := make([]int, o.Nproc)
		for _, c := range o.Msh.Active() {
			nown[c.Owner]++
		}
		pieces = pieces[:0]
		for rank := 0; rank < o.Nproc; rank++ {
			if nown[rank] > 0 {
				pieces = append(pieces, io.Sf("ms_coarse_cycle_%d_p%d.vtu", cyc, rank))
			}
		}
		err = out.WritePVTU(filepath.Join(o.Sim.DirOut, io.Sf("ms_coarse_cycle_%d.pvtu", cyc)), pieces, fields)
	}
	return
}

// refineGrid adapts the coarse mesh from the gradient jumps of the coarse
// solution. All ranks derive identical flags, keeping the mesh replicated.
func (o *ElaMs) refineGrid() (err error) {
	eta, err := ErrorIndicator(o.Msh, o.Dm, o.Wb)
	if err != nil {
		return
	}
	rflags, cflags := FlagCells(eta)
	o.Msh.Refine(rflags, cflags)
	return
}
