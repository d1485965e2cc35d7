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

// ElaStd is the reference driver: the same elasticity problem discretised with
// standard Q1 elements on the coarse mesh, so that the multiscale results can
// be judged against a single-scale computation on the same grid.
type ElaStd struct {

	// input
	Sim     *inp.Simulation
	Msh     *grid.Mesh
	Lam, Mu *material.LamePrm
	Bf      *material.BodyForce
	Sf      *material.SurfaceForce

	// parallel
	Rank  int
	Nproc int
	Distr bool
	Root  bool

	// per-cycle data
	Dm   *DofMap
	Cons *Constraints
	Kb   *la.Triplet
	Fb   []float64
	Wb   []float64
	diag []float64
}

// NewElaStd allocates the reference driver
func NewElaStd(sim *inp.Simulation) (o *ElaStd) {
	o = &ElaStd{
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
func (o *ElaStd) owned() (res []*grid.Cell) {
	for _, c := range o.Msh.Active() {
		if c.Owner == o.Rank {
			res = append(res, c)
		}
	}
	return
}

// Run performs all refinement cycles
func (o *ElaStd) Run() (err error) {
	for cyc := 0; cyc < o.Sim.Ncycles; cyc++ {
		t0 := time.Now()
		if o.Root {
			io.Pf("standard cycle %d: %d active cells\n", cyc, len(o.Msh.Active()))
		}
		o.setupSystem()
		err = o.assembleSystem()
		if err != nil {
			return
		}
		err = o.solve()
		if err != nil {
			return
		}
		err = o.output(cyc)
		if err != nil {
			return
		}
		if cyc < o.Sim.Ncycles-1 {
			err = o.refineGrid()
			if err != nil {
				return
			}
		}
		if o.Root {
			io.Pf("standard cycle %d: done in %v\n", cyc, time.Since(t0))
		}
	}
	return
}

// setupSystem partitions the mesh and builds the dof numbering, the constraint
// set and the global system storage of this cycle
func (o *ElaStd) setupSystem() {

	o.Msh.Partition(o.Nproc)
	o.Dm = NewDofMap(o.Msh, o.Sim.Ndim)
	ndim := o.Sim.Ndim

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

// assembleSystem integrates stiffness, body load and surface force of the
// owned cells into the global system
func (o *ElaStd) assembleSystem() (err error) {
	sh := shp.Get(shp.Q1Type(o.Sim.Ndim))
	for _, c := range o.owned() {
		x := o.Msh.CoordsMat(c)
		K, f, e := CellStiffLoad(sh, x, o.Lam, o.Mu, o.Bf)
		if e != nil {
			return e
		}
		eqs := o.Dm.Eqs(c)
		o.Cons.AddLocal(K, f, eqs, o.Kb, o.Fb, o.diag)
		if o.Msh.CellFaceOnBoundary(c, o.Sim.SurfFace) {
			floc, e := CellFaceLoad(sh, x, o.Sim.SurfFace, o.Sf)
			if e != nil {
				return e
			}
			o.Cons.AddRhs(floc, eqs, o.Fb)
		}
	}
	return
}

// solve sums the distributed contributions, pins the constrained equations and
// solves the global system; the solution ends up replicated on all ranks
func (o *ElaStd) solve() (err error) {
	if o.Distr {
		w := make([]float64, o.Dm.Ny)
		mpi.AllReduceSum(o.Fb, w)
		mpi.AllReduceSum(o.diag, w)
	}
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
	o.Wb, err = SolveSparse(o.Sim.SolverStd, o.Kb, o.Fb, o.diag, o.Distr, o.Root)
	if err != nil {
		return chk.Err("std: solve failed:\n%v", err)
	}
	o.Cons.Distribute(o.Wb)
	return
}

// writeCoarseVTU writes the coarse mesh solution wb restricted to the cells
// own into one VTU piece, with recovered strain, stress and von Mises fields
func writeCoarseVTU(path string, msh *grid.Mesh, dm *DofMap, wb []float64, lam, mu *material.LamePrm, own []*grid.Cell) (err error) {

	// submesh of the given cells
	ndim := dm.Ndim
	l2g := []int{}
	g2l := make(map[int]int)
	cells := make([][]int, len(own))
	for k, c := range own {
		conn := make([]int, len(c.Verts))
		for m, v := range c.Verts {
			l, ok := g2l[v]
			if !ok {
				l = len(l2g)
				g2l[v] = l
				l2g = append(l2g, v)
			}
			conn[m] = l
		}
		cells[k] = conn
	}
	verts := make([][]float64, len(l2g))
	u := make([]float64, len(l2g)*ndim)
	for l, v := range l2g {
		verts[l] = msh.Verts[v].C
		for i := 0; i < ndim; i++ {
			u[l*ndim+i] = wb[dm.Eq(v, i)]
		}
	}

	eps, sig, vm, err := StressFields(ndim, verts, cells, u, lam, mu)
	if err != nil {
		return
	}
	nsig := Nsig(ndim)
	fields := []out.Field{
		{Name: "displacement", Ncomp: ndim, Vals: u},
		{Name: "strain", Ncomp: nsig, Vals: eps},
		{Name: "stress", Ncomp: nsig, Vals: sig},
		{Name: "von_mises", Ncomp: 1, Vals: vm},
	}
	return out.WriteVTU(path, ndim, verts, cells, shp.Get(shp.Q1Type(ndim)).VtkCode, fields)
}

// coarseFields declares the point-data arrays of the coarse VTU pieces
func coarseFields(ndim int) []out.Field {
	nsig := Nsig(ndim)
	return []out.Field{
		{Name: "displacement", Ncomp: ndim},
		{Name: "strain", Ncomp: nsig},
		{Name: "stress", Ncomp: nsig},
		{Name: "von_mises", Ncomp: 1},
	}
}

// output writes one piece with the owned cells of this rank, and the group
// file on the root. Pieces of ranks without cells are not written nor
// referenced.
func (o *ElaStd) output(cyc int) (err error) {

	own := o.owned()
	if len(own) > 0 {
		fn := io.Sf("std_cycle_%d_p%d.vtu", cyc, o.Rank)
		err = writeCoarseVTU(filepath.Join(o.Sim.DirOut, fn), o.Msh, o.Dm, o.Wb, o.Lam, o.Mu, own)
		if err != nil {
			return
		}
	}

	if o.Root {
		nown := make([]int, o.Nproc)
		for _, c := range o.Msh.Active() {
			nown[c.Owner]++
		}
		var pieces []string
		for rank := 0; rank < o.Nproc; rank++ {
			if nown[rank] > 0 {
				pieces = append(pieces, io.Sf("std_cycle_%d_p%d.vtu", cyc, rank))
			}
		}
		err = out.WritePVTU(filepath.Join(o.Sim.DirOut, io.Sf("std_cycle_%d.pvtu", cyc)), pieces, coarseFields(o.Sim.Ndim))
	}
	return
}

// refineGrid adapts the mesh from the gradient jumps of the solution
func (o *ElaStd) refineGrid() (err error) {
	eta, err := ErrorIndicator(o.Msh, o.Dm, o.Wb)
	if err != nil {
		return
	}
	rflags, cflags := FlagCells(eta)
	o.Msh.Refine(rflags, cflags)
	return
}
