// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grid implements axis-aligned, adaptively refinable meshes over rectangular domains
package grid

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// keyscale is the resolution of the integer lattice used to deduplicate vertices
const keyscale = 1 << 40

// corner tables: local vertex order matching qua4/hex8 natural coordinates
var corner2d = [4][3]int{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
var corner3d = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// edge tables: local vertex pairs whose midpoints can hang
var edges2d = [4][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
var edges3d = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// face tables: local vertices per face, ordered x-, x+, y-, y+ (, z-, z+)
var faces2d = [4][2]int{{3, 0}, {1, 2}, {0, 1}, {2, 3}}
var faces3d = [6][4]int{{0, 4, 7, 3}, {1, 2, 6, 5}, {0, 1, 5, 4}, {2, 3, 7, 6}, {0, 3, 2, 1}, {4, 5, 6, 7}}

// Vert holds vertex data
type Vert struct {
	Id int       // id
	C  []float64 // coordinates (size==2 or 3)
}

// Cell holds one cell of the refinement forest
type Cell struct {
	Id       int       // id; unique within the mesh, stable for one cycle
	Level    int       // refinement level; roots have level 0
	Lo, Hi   []float64 // bounding box corners
	Verts    []int     // corner vertex ids in qua4/hex8 local order
	Parent   int       // parent cell id; -1 for roots
	Children []int     // children ids; nil for leaves
	Owner    int       // rank owning this cell (set by Partition)
	removed  bool      // true after the cell was merged away
}

// Active tells if this cell is a live leaf
func (o *Cell) Active() bool { return o.Children == nil && !o.removed }

// Hanging holds the affine dependence of a hanging vertex on its masters
type Hanging struct {
	V       int       // hanging vertex id
	Masters []int     // master vertex ids
	Coefs   []float64 // interpolation coefficients
}

// Mesh holds an adaptively refinable mesh over the box [P1,P2]
type Mesh struct {
	Ndim   int       // space dimension
	P1, P2 []float64 // domain corners
	Verts  []*Vert   // all vertices ever created
	Cells  []*Cell   // all cells ever created (forest)
	vmap   map[[3]int64]int
}

// NewMesh returns a mesh over [p1,p2] with one root cell refined n times globally
func NewMesh(p1, p2 []float64, nref int) (o *Mesh) {
	ndim := len(p1)
	if ndim != 2 && ndim != 3 {
		chk.Panic("mesh: ndim must be 2 or 3; got %d", ndim)
	}
	if len(p2) != ndim {
		chk.Panic("mesh: p1 and p2 must have the same dimension")
	}
	for i := 0; i < ndim; i++ {
		if p2[i] <= p1[i] {
			chk.Panic("mesh: p2 must be strictly greater than p1 in every axis; got p1=%v p2=%v", p1, p2)
		}
	}
	o = &Mesh{Ndim: ndim, P1: p1, P2: p2, vmap: make(map[[3]int64]int)}
	o.newCell(p1, p2, 0, -1)
	o.GlobalRefine(nref)
	return
}

// tol returns the geometric tolerance for coordinate comparisons
func (o *Mesh) tol() float64 {
	ext := o.P2[0] - o.P1[0]
	for i := 1; i < o.Ndim; i++ {
		ext = math.Min(ext, o.P2[i]-o.P1[i])
	}
	return 1e-8 * ext
}

// vertexId returns the id of the vertex at c, creating it if needed
func (o *Mesh) vertexId(c []float64) int {
	var key [3]int64
	for i := 0; i < o.Ndim; i++ {
		key[i] = int64(math.Round((c[i] - o.P1[i]) / (o.P2[i] - o.P1[i]) * keyscale))
	}
	if id, ok := o.vmap[key]; ok {
		return id
	}
	id := len(o.Verts)
	cc := make([]float64, o.Ndim)
	copy(cc, c)
	o.Verts = append(o.Verts, &Vert{Id: id, C: cc})
	o.vmap[key] = id
	return id
}

// lookupVertex returns the id of an existing vertex at c, or -1
func (o *Mesh) lookupVertex(c []float64) int {
	var key [3]int64
	for i := 0; i < o.Ndim; i++ {
		key[i] = int64(math.Round((c[i] - o.P1[i]) / (o.P2[i] - o.P1[i]) * keyscale))
	}
	if id, ok := o.vmap[key]; ok {
		return id
	}
	return -1
}

// newCell creates a cell with its corner vertices
func (o *Mesh) newCell(lo, hi []float64, level, parent int) *Cell {
	c := &Cell{
		Id:     len(o.Cells),
		Level:  level,
		Lo:     append([]float64{}, lo...),
		Hi:     append([]float64{}, hi...),
		Parent: parent,
	}
	nverts := 1 << uint(o.Ndim)
	c.Verts = make([]int, nverts)
	p := make([]float64, o.Ndim)
	for m := 0; m < nverts; m++ {
		for i := 0; i < o.Ndim; i++ {
			if o.corner(m)[i] == 0 {
				p[i] = lo[i]
			} else {
				p[i] = hi[i]
			}
		}
		c.Verts[m] = o.vertexId(p)
	}
	o.Cells = append(o.Cells, c)
	return c
}

// corner returns the binary corner offsets of local vertex m
func (o *Mesh) corner(m int) [3]int {
	if o.Ndim == 3 {
		return corner3d[m]
	}
	return corner2d[m]
}

// Active returns the live leaf cells in deterministic (id) order
func (o *Mesh) Active() (res []*Cell) {
	for _, c := range o.Cells {
		if c.Active() {
			res = append(res, c)
		}
	}
	return
}

// GlobalRefine refines all active cells n times
func (o *Mesh) GlobalRefine(n int) {
	for k := 0; k < n; k++ {
		flags := make(map[int]bool)
		for _, c := range o.Active() {
			flags[c.Id] = true
		}
		o.Refine(flags, nil)
	}
}

// split replaces leaf c by its 2^ndim children
func (o *Mesh) split(c *Cell) {
	mid := make([]float64, o.Ndim)
	for i := 0; i < o.Ndim; i++ {
		mid[i] = 0.5 * (c.Lo[i] + c.Hi[i])
	}
	nch := 1 << uint(o.Ndim)
	lo := make([]float64, o.Ndim)
	hi := make([]float64, o.Ndim)
	c.Children = make([]int, nch)
	for m := 0; m < nch; m++ {
		for i := 0; i < o.Ndim; i++ {
			if o.corner(m)[i] == 0 {
				lo[i], hi[i] = c.Lo[i], mid[i]
			} else {
				lo[i], hi[i] = mid[i], c.Hi[i]
			}
		}
		c.Children[m] = o.newCell(lo, hi, c.Level+1, c.Id).Id
	}
}

// merge removes the (leaf) children of c, making c a leaf again
func (o *Mesh) merge(c *Cell) {
	for _, id := range c.Children {
		o.Cells[id].removed = true
	}
	c.Children = nil
}

// adjacent tells if active cells c and d share a face, and returns the axis
func (o *Mesh) adjacent(c, d *Cell) (ok bool, axis int) {
	tol := o.tol()
	for a := 0; a < o.Ndim; a++ {
		if math.Abs(c.Hi[a]-d.Lo[a]) < tol || math.Abs(c.Lo[a]-d.Hi[a]) < tol {
			if o.FaceOverlap(c, d, a) > 0 {
				return true, a
			}
		}
	}
	return false, -1
}

// FaceOverlap returns the (ndim-1)-measure of the box overlap orthogonal to axis
func (o *Mesh) FaceOverlap(c, d *Cell, axis int) float64 {
	tol := o.tol()
	area := 1.0
	for i := 0; i < o.Ndim; i++ {
		if i == axis {
			continue
		}
		w := math.Min(c.Hi[i], d.Hi[i]) - math.Max(c.Lo[i], d.Lo[i])
		if w < tol {
			return 0
		}
		area *= w
	}
	return area
}

// FaceNeighbors returns the active cells sharing the given face of c
//  face -- 0..2*ndim-1 ordered x-, x+, y-, y+ (, z-, z+)
func (o *Mesh) FaceNeighbors(c *Cell, face int) (res []*Cell) {
	tol := o.tol()
	axis, side := face/2, face%2
	for _, d := range o.Active() {
		if d.Id == c.Id {
			continue
		}
		var touch bool
		if side == 0 {
			touch = math.Abs(c.Lo[axis]-d.Hi[axis]) < tol
		} else {
			touch = math.Abs(c.Hi[axis]-d.Lo[axis]) < tol
		}
		if touch && o.FaceOverlap(c, d, axis) > 0 {
			res = append(res, d)
		}
	}
	return
}

// Refine splits the active cells flagged in rflags and merges the sibling
// groups fully flagged in cflags. Refinement flags are first closed so that
// the 2:1 balance between face neighbors is kept; coarsening flags that would
// break the balance or conflict with a refinement flag are dropped.
func (o *Mesh) Refine(rflags, cflags map[int]bool) {

	// close refinement flags for 2:1 balance
	for {
		changed := false
		for _, c := range o.Active() {
			if !rflags[c.Id] {
				continue
			}
			for _, d := range o.Active() {
				if d.Id == c.Id || rflags[d.Id] || d.Level >= c.Level {
					continue
				}
				if ok, _ := o.adjacent(c, d); ok {
					rflags[d.Id] = true
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	// collect sibling groups eligible for merging
	var parents []*Cell
	for _, c := range o.Cells {
		if c.Children == nil || c.removed {
			continue
		}
		all := true
		for _, id := range c.Children {
			ch := o.Cells[id]
			if !ch.Active() || !cflags[ch.Id] || rflags[ch.Id] {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		// merging must not leave a neighbor two levels finer
		ok := true
		for _, d := range o.Active() {
			if d.Parent == c.Id {
				continue
			}
			lvl := d.Level
			if rflags[d.Id] {
				lvl++
			}
			if adj, _ := o.adjacent(c, d); adj && lvl > c.Level+1 {
				ok = false
				break
			}
		}
		if ok {
			parents = append(parents, c)
		}
	}
	for _, c := range parents {
		o.merge(c)
	}

	// split flagged cells
	for _, c := range o.Active() {
		if rflags[c.Id] {
			o.split(c)
		}
	}
}

// ActiveVertIds returns the sorted ids of vertices referenced by active cells
func (o *Mesh) ActiveVertIds() (res []int) {
	seen := make(map[int]bool)
	for _, c := range o.Active() {
		for _, v := range c.Verts {
			seen[v] = true
		}
	}
	for id := 0; id < len(o.Verts); id++ {
		if seen[id] {
			res = append(res, id)
		}
	}
	return
}

// HangingVerts detects the hanging vertices of the active mesh and returns
// their affine dependence on master vertices: edge midpoints depend on the two
// edge endpoints with coefficients 1/2; 3D face centers depend on the four
// face corners with coefficients 1/4.
func (o *Mesh) HangingVerts() (res []Hanging) {
	active := make(map[int]bool)
	for _, c := range o.Active() {
		for _, v := range c.Verts {
			active[v] = true
		}
	}
	seen := make(map[int]bool)
	mid := make([]float64, o.Ndim)
	for _, c := range o.Active() {

		// edge midpoints
		nedges := 4
		if o.Ndim == 3 {
			nedges = 12
		}
		for e := 0; e < nedges; e++ {
			var a, b int
			if o.Ndim == 3 {
				a, b = edges3d[e][0], edges3d[e][1]
			} else {
				a, b = edges2d[e][0], edges2d[e][1]
			}
			va, vb := o.Verts[c.Verts[a]], o.Verts[c.Verts[b]]
			for i := 0; i < o.Ndim; i++ {
				mid[i] = 0.5 * (va.C[i] + vb.C[i])
			}
			id := o.lookupVertex(mid)
			if id < 0 || !active[id] || seen[id] || o.isCorner(c, id) {
				continue
			}
			seen[id] = true
			res = append(res, Hanging{id, []int{va.Id, vb.Id}, []float64{0.5, 0.5}})
		}

		// 3D face centers
		if o.Ndim == 3 {
			for f := 0; f < 6; f++ {
				lv := faces3d[f]
				for i := 0; i < o.Ndim; i++ {
					mid[i] = 0
					for _, l := range lv {
						mid[i] += 0.25 * o.Verts[c.Verts[l]].C[i]
					}
				}
				id := o.lookupVertex(mid)
				if id < 0 || !active[id] || seen[id] || o.isCorner(c, id) {
					continue
				}
				seen[id] = true
				masters := []int{c.Verts[lv[0]], c.Verts[lv[1]], c.Verts[lv[2]], c.Verts[lv[3]]}
				res = append(res, Hanging{id, masters, []float64{0.25, 0.25, 0.25, 0.25}})
			}
		}
	}
	return
}

// isCorner tells if vertex id is one of the corners of c
func (o *Mesh) isCorner(c *Cell, id int) bool {
	for _, v := range c.Verts {
		if v == id {
			return true
		}
	}
	return false
}

// Partition assigns the active cells to nproc ranks in contiguous slabs over
// the deterministic active order. Ranks may own zero cells.
func (o *Mesh) Partition(nproc int) {
	act := o.Active()
	n := len(act)
	base, rem := n/nproc, n%nproc
	idx := 0
	for rank := 0; rank < nproc; rank++ {
		count := base
		if rank < rem {
			count++
		}
		for k := 0; k < count; k++ {
			act[idx].Owner = rank
			idx++
		}
	}
}

// CellFaceOnBoundary tells if the given face of c lies on the global boundary
//  face -- 0..2*ndim-1 ordered x-, x+, y-, y+ (, z-, z+)
func (o *Mesh) CellFaceOnBoundary(c *Cell, face int) bool {
	tol := o.tol()
	axis, side := face/2, face%2
	if side == 0 {
		return math.Abs(c.Lo[axis]-o.P1[axis]) < tol
	}
	return math.Abs(c.Hi[axis]-o.P2[axis]) < tol
}

// VertOnBoundaryFace tells if vertex id lies on the given global boundary face
func (o *Mesh) VertOnBoundaryFace(id, face int) bool {
	tol := o.tol()
	axis, side := face/2, face%2
	c := o.Verts[id].C
	if side == 0 {
		return math.Abs(c[axis]-o.P1[axis]) < tol
	}
	return math.Abs(c[axis]-o.P2[axis]) < tol
}

// CoordsMat returns the coordinates matrix x[ndim][nverts] of cell c
func (o *Mesh) CoordsMat(c *Cell) (x [][]float64) {
	x = make([][]float64, o.Ndim)
	for i := 0; i < o.Ndim; i++ {
		x[i] = make([]float64, len(c.Verts))
		for m, v := range c.Verts {
			x[i][m] = o.Verts[v].C[i]
		}
	}
	return
}
