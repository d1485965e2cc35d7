// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the standard FEM and MsFEM drivers for linear elasticity
package fem

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/elastsim/msfem/grid"
)

// DofMap numbers the vector Q1 degrees of freedom of the active mesh:
// ndim components per active vertex
type DofMap struct {
	Ndim int         // space dimension
	Vids []int       // sorted active vertex ids
	Ny   int         // total number of equations
	pos  map[int]int // vertex id => index in Vids
}

// NewDofMap builds the DoF numbering for the active cells of msh
func NewDofMap(msh *grid.Mesh, ndim int) (o *DofMap) {
	o = &DofMap{Ndim: ndim, Vids: msh.ActiveVertIds(), pos: make(map[int]int)}
	for idx, v := range o.Vids {
		o.pos[v] = idx
	}
	o.Ny = len(o.Vids) * ndim
	return
}

// Eq returns the equation number of component comp at vertex vid
func (o *DofMap) Eq(vid, comp int) int {
	idx, ok := o.pos[vid]
	if !ok {
		chk.Panic("dofmap: vertex %d is not active", vid)
	}
	return idx*o.Ndim + comp
}

// Eqs returns the local-to-global assembly map of cell c: N_c entries ordered
// vertex-major, component-minor (local dof k => vertex k/ndim, component k%ndim)
func (o *DofMap) Eqs(c *grid.Cell) (eqs []int) {
	eqs = make([]int, len(c.Verts)*o.Ndim)
	for m, v := range c.Verts {
		for i := 0; i < o.Ndim; i++ {
			eqs[m*o.Ndim+i] = o.Eq(v, i)
		}
	}
	return
}

// conItem holds the affine dependence of one constrained equation:
//   u[eq] = Σ coefs[k]*u[masters[k]] + rhs
type conItem struct {
	masters []int
	coefs   []float64
	rhs     float64
}

// Constraints holds the affine constraint set: hanging-node couplings and
// Dirichlet conditions. Constrained equations are eliminated during assembly
// and recovered after the solve with Distribute.
type Constraints struct {
	items  map[int]*conItem
	closed bool
}

// NewConstraints returns an empty constraint set
func NewConstraints() *Constraints {
	return &Constraints{items: make(map[int]*conItem)}
}

// AddDirichlet constrains equation eq to the value val.
// A Dirichlet condition overrides a previously added hanging constraint.
func (o *Constraints) AddDirichlet(eq int, val float64) {
	o.items[eq] = &conItem{rhs: val}
}

// AddHanging constrains equation eq to the combination of master equations.
// It is a no-op if eq is already Dirichlet-constrained.
func (o *Constraints) AddHanging(eq int, masters []int, coefs []float64) {
	if it, ok := o.items[eq]; ok && len(it.masters) == 0 {
		return
	}
	o.items[eq] = &conItem{masters: masters, coefs: coefs}
}

// Has tells if equation eq is constrained
func (o *Constraints) Has(eq int) bool {
	_, ok := o.items[eq]
	return ok
}

// Eqs returns the sorted constrained equation numbers
func (o *Constraints) Eqs() (res []int) {
	for eq := range o.items {
		res = append(res, eq)
	}
	sort.Ints(res)
	return
}

// Close flattens chains of constraints: a master that is itself constrained is
// replaced by its own masters and inhomogeneity. Must be called before AddLocal.
func (o *Constraints) Close() {
	for _, it := range o.items {
		for {
			again := false
			var ms []int
			var cs []float64
			for k, m := range it.masters {
				if mit, ok := o.items[m]; ok {
					again = true
					for l, mm := range mit.masters {
						ms = append(ms, mm)
						cs = append(cs, it.coefs[k]*mit.coefs[l])
					}
					it.rhs += it.coefs[k] * mit.rhs
				} else {
					ms = append(ms, m)
					cs = append(cs, it.coefs[k])
				}
			}
			it.masters, it.coefs = ms, cs
			if !again {
				break
			}
		}
	}
	o.closed = true
}

// resolve returns the expansion of local equation eq: master equations, their
// coefficients and the inhomogeneity
func (o *Constraints) resolve(eq int) (eqs []int, coefs []float64, rhs float64) {
	if it, ok := o.items[eq]; ok {
		return it.masters, it.coefs, it.rhs
	}
	return []int{eq}, []float64{1}, 0
}

// Nnz returns an upper bound of the triplet entries AddLocal can generate for
// a dense local matrix over eqs: the square of the summed expansion lengths.
// Chained hanging constraints can expand one equation to many masters (a 3D
// face center whose corner masters hang themselves reaches 16), so the bound
// must come from the resolved lengths, not from a fixed per-dof factor.
func (o *Constraints) Nnz(eqs []int) int {
	if !o.closed {
		chk.Panic("constraints: Nnz requires a closed constraint set")
	}
	n := 0
	for _, eq := range eqs {
		ei, _, _ := o.resolve(eq)
		n += len(ei)
	}
	return n * n
}

// AddLocal distributes the local matrix K and local vector f into the global
// triplet Kb and rhs Fb through the constraint set. diag accumulates the
// diagonal of Kb (used by the Jacobi-preconditioned iterative path).
func (o *Constraints) AddLocal(K [][]float64, f []float64, eqs []int, Kb *la.Triplet, Fb, diag []float64) {
	if !o.closed {
		chk.Panic("constraints: AddLocal requires a closed constraint set")
	}
	n := len(eqs)
	for i := 0; i < n; i++ {
		ei, ci, _ := o.resolve(eqs[i])
		for a, Ia := range ei {
			Fb[Ia] += ci[a] * f[i]
		}
		for j := 0; j < n; j++ {
			if K[i][j] == 0 {
				continue
			}
			ej, cj, gj := o.resolve(eqs[j])
			for a, Ia := range ei {
				for b, Jb := range ej {
					v := ci[a] * cj[b] * K[i][j]
					Kb.Put(Ia, Jb, v)
					if Ia == Jb {
						diag[Ia] += v
					}
				}
				if gj != 0 {
					Fb[Ia] -= ci[a] * K[i][j] * gj
				}
			}
		}
	}
}

// AddRhs distributes the local vector f into the global rhs Fb through the
// constraint set
func (o *Constraints) AddRhs(f []float64, eqs []int, Fb []float64) {
	for i, eq := range eqs {
		ei, ci, _ := o.resolve(eq)
		for a, Ia := range ei {
			Fb[Ia] += ci[a] * f[i]
		}
	}
}

// Distribute overwrites the constrained entries of the solution vector u with
// their affine values
func (o *Constraints) Distribute(u []float64) {
	for eq, it := range o.items {
		v := it.rhs
		for k, m := range it.masters {
			v += it.coefs[k] * u[m]
		}
		u[eq] = v
	}
}
