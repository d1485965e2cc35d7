// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements VTU/PVTU writers for the computed displacement fields
package out

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Field holds one point-data array
type Field struct {
	Name  string    // e.g. "displacement"
	Ncomp int       // number of components per point
	Vals  []float64 // flattened values [npoints*ncomp]
}

// WriteVTU writes one UnstructuredGrid piece in ascii XML format
//  Input:
//   path    -- output filename including directory
//   ndim    -- space dimension (coordinates are padded to 3 components)
//   verts   -- vertex coordinates [npoints][ndim]
//   cells   -- connectivity [ncells][nverts]
//   vtkcode -- VTK cell type; e.g. 9 for qua4, 12 for hex8
//   fields  -- point-data arrays
func WriteVTU(path string, ndim int, verts [][]float64, cells [][]int, vtkcode int, fields []Field) (err error) {

	nv := len(verts)
	nc := len(cells)
	buf := new(bytes.Buffer)
	io.Ff(buf, "<?xml version=\"1.0\"?>\n<VTKFile type=\"UnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n<UnstructuredGrid>\n")
	io.Ff(buf, "<Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", nv, nc)

	// coordinates
	io.Ff(buf, "<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	var z float64
	for _, v := range verts {
		if ndim == 3 {
			z = v[2]
		}
		io.Ff(buf, "%23.15e %23.15e %23.15e ", v[0], v[1], z)
	}
	io.Ff(buf, "\n</DataArray>\n</Points>\n")

	// connectivities
	io.Ff(buf, "<Cells>\n<DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
	for _, c := range cells {
		for _, v := range c {
			io.Ff(buf, "%d ", v)
		}
	}

	// offsets
	io.Ff(buf, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
	offset := 0
	for _, c := range cells {
		offset += len(c)
		io.Ff(buf, "%d ", offset)
	}

	// types
	io.Ff(buf, "\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for range cells {
		io.Ff(buf, "%d ", vtkcode)
	}
	io.Ff(buf, "\n</DataArray>\n</Cells>\n")

	// point data
	io.Ff(buf, "<PointData>\n")
	for _, f := range fields {
		if len(f.Vals) != nv*f.Ncomp {
			return chk.Err("vtu: field %q has %d values; need %d", f.Name, len(f.Vals), nv*f.Ncomp)
		}
		io.Ff(buf, "<DataArray type=\"Float64\" Name=\"%s\" NumberOfComponents=\"%d\" format=\"ascii\">\n", f.Name, f.Ncomp)
		for _, v := range f.Vals {
			io.Ff(buf, "%23.15e ", v)
		}
		io.Ff(buf, "\n</DataArray>\n")
	}
	io.Ff(buf, "</PointData>\n")

	io.Ff(buf, "</Piece>\n</UnstructuredGrid>\n</VTKFile>\n")
	return save_file(path, buf)
}

// WritePVTU writes the group file referencing one vtu piece per source
//  Input:
//   path   -- output filename including directory
//   pieces -- vtu filenames relative to the pvtu location
//   fields -- point-data arrays declared by the pieces (Vals unused)
func WritePVTU(path string, pieces []string, fields []Field) (err error) {
	buf := new(bytes.Buffer)
	io.Ff(buf, "<?xml version=\"1.0\"?>\n<VTKFile type=\"PUnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n<PUnstructuredGrid GhostLevel=\"0\">\n")
	io.Ff(buf, "<PPoints>\n<PDataArray type=\"Float64\" NumberOfComponents=\"3\"/>\n</PPoints>\n")
	io.Ff(buf, "<PPointData>\n")
	for _, f := range fields {
		io.Ff(buf, "<PDataArray type=\"Float64\" Name=\"%s\" NumberOfComponents=\"%d\"/>\n", f.Name, f.Ncomp)
	}
	io.Ff(buf, "</PPointData>\n")
	for _, p := range pieces {
		io.Ff(buf, "<Piece Source=\"%s\"/>\n", p)
	}
	io.Ff(buf, "</PUnstructuredGrid>\n</VTKFile>\n")
	return save_file(path, buf)
}

// save_file writes buf to filename
func save_file(filename string, buf *bytes.Buffer) (err error) {
	err = os.MkdirAll(filepath.Dir(filename), 0777)
	if err != nil {
		return
	}
	fil, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() { fil.Close() }()
	_, err = fil.Write(buf.Bytes())
	return
}
