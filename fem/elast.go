// Copyright 2016 The Msfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/elastsim/msfem/material"
	"github.com/elastsim/msfem/shp"
)

// IpAddToK adds the elasticity stiffness contribution of one integration point
// to the local matrix K [nverts*ndim][nverts*ndim]:
//   K[m*ndim+i][n*ndim+j] += coef * (λ G[m][i] G[n][j] + μ G[m][j] G[n][i] + δij μ G[m][k] G[n][k])
// with coef = w * |J| and G the gradients of the shape functions at the point
func IpAddToK(K [][]float64, nverts, ndim int, coef, lam, mu float64, G [][]float64) {
	for m := 0; m < nverts; m++ {
		for n := 0; n < nverts; n++ {
			dot := 0.0
			for k := 0; k < ndim; k++ {
				dot += G[m][k] * G[n][k]
			}
			for i := 0; i < ndim; i++ {
				for j := 0; j < ndim; j++ {
					v := lam*G[m][i]*G[n][j] + mu*G[m][j]*G[n][i]
					if i == j {
						v += mu * dot
					}
					K[m*ndim+i][n*ndim+j] += coef * v
				}
			}
		}
	}
}

// IpAddToLoad adds the body force contribution of one integration point to the
// local vector f [nverts*ndim]
func IpAddToLoad(f []float64, nverts, ndim int, coef float64, S []float64, bvec []float64) {
	for m := 0; m < nverts; m++ {
		for i := 0; i < ndim; i++ {
			f[m*ndim+i] += coef * S[m] * bvec[i]
		}
	}
}

// CellStiffLoad integrates the stiffness matrix and body load vector of one
// cell with coordinates matrix x, evaluating λ, μ and the body force at the
// real coordinates of the integration points. bf may be nil (zero load).
func CellStiffLoad(sh *shp.Shape, x [][]float64, lam, mu *material.LamePrm, bf *material.BodyForce) (K [][]float64, f []float64, err error) {
	nv := sh.Nverts
	ndim := sh.Gndim
	K = make([][]float64, nv*ndim)
	for i := range K {
		K[i] = make([]float64, nv*ndim)
	}
	f = make([]float64, nv*ndim)
	bvec := make([]float64, ndim)
	for _, ip := range sh.IpsElem {
		err = sh.CalcAtIp(x, ip, true)
		if err != nil {
			return
		}
		coef := ip.W * sh.J
		p := sh.IpRealCoords(x, ip)
		IpAddToK(K, nv, ndim, coef, lam.Value(p), mu.Value(p), sh.G)
		if bf != nil {
			bf.Vector(p, bvec)
			IpAddToLoad(f, nv, ndim, coef, sh.S, bvec)
		}
	}
	return
}

// CellFaceLoad integrates the surface force contribution of face idxface of
// one cell into the local vector f [nverts*ndim]
func CellFaceLoad(sh *shp.Shape, x [][]float64, idxface int, sf *material.SurfaceForce) (f []float64, err error) {
	nv := sh.Nverts
	ndim := sh.Gndim
	f = make([]float64, nv*ndim)
	tvec := make([]float64, ndim)
	for _, ipf := range sh.IpsFace {
		err = sh.CalcAtFaceIp(x, ipf, idxface)
		if err != nil {
			return
		}
		jf := 0.0
		for i := 0; i < ndim; i++ {
			jf += sh.Fnvec[i] * sh.Fnvec[i]
		}
		jf = math.Sqrt(jf)
		coef := ipf.W * jf
		p := sh.FaceIpRealCoords(x, ipf, idxface)
		sf.Vector(p, tvec)
		for k, n := range sh.FaceLocalVerts[idxface] {
			for i := 0; i < ndim; i++ {
				f[n*ndim+i] += coef * sh.Sf[k] * tvec[i]
			}
		}
	}
	return
}

// Nsig returns the number of independent strain/stress components:
// 2D: {xx, yy, xy}; 3D: {xx, yy, zz, xy, yz, xz}
func Nsig(ndim int) int {
	if ndim == 3 {
		return 6
	}
	return 3
}

// StressFields recovers nodal strain, stress and von Mises stress from the
// displacement field u (ndim components per vertex, same ordering as verts).
// Gradients are evaluated at the cell corners and averaged over the cells
// sharing each vertex.
func StressFields(ndim int, verts [][]float64, cells [][]int, u []float64, lam, mu *material.LamePrm) (eps, sig, vm []float64, err error) {

	nv := len(verts)
	nsig := Nsig(ndim)
	eps = make([]float64, nv*nsig)
	sig = make([]float64, nv*nsig)
	vm = make([]float64, nv)
	count := make([]float64, nv)

	sh := shp.Get(shp.Q1Type(ndim))
	gradu := make([][]float64, ndim)
	for i := range gradu {
		gradu[i] = make([]float64, ndim)
	}
	p := make([]float64, ndim)
	e := make([]float64, nsig)
	s := make([]float64, nsig)
	r := make([]float64, 3)

	for _, conn := range cells {

		// coordinates matrix
		x := make([][]float64, ndim)
		for i := 0; i < ndim; i++ {
			x[i] = make([]float64, len(conn))
			for m, v := range conn {
				x[i][m] = verts[v][i]
			}
		}

		// loop over corners
		for m, v := range conn {
			for i := 0; i < ndim; i++ {
				r[i] = sh.NatCoords[i][m]
			}
			err = sh.CalcAtR(x, r, true)
			if err != nil {
				return
			}

			// displacement gradient
			for i := 0; i < ndim; i++ {
				for j := 0; j < ndim; j++ {
					gradu[i][j] = 0
					for n, w := range conn {
						gradu[i][j] += sh.G[n][j] * u[w*ndim+i]
					}
				}
			}

			// strain and stress at corner
			for i := 0; i < ndim; i++ {
				p[i] = verts[v][i]
			}
			l, g := lam.Value(p), mu.Value(p)
			strainStress(ndim, gradu, l, g, e, s)
			for k := 0; k < nsig; k++ {
				eps[v*nsig+k] += e[k]
				sig[v*nsig+k] += s[k]
			}
			vm[v] += vonMises(ndim, l, e, s)
			count[v]++
		}
	}

	// average
	for v := 0; v < nv; v++ {
		if count[v] == 0 {
			continue
		}
		for k := 0; k < nsig; k++ {
			eps[v*nsig+k] /= count[v]
			sig[v*nsig+k] /= count[v]
		}
		vm[v] /= count[v]
	}
	return
}

// strainStress computes the engineering strain and stress components from the
// displacement gradient
func strainStress(ndim int, gradu [][]float64, lam, mu float64, e, s []float64) {
	if ndim == 3 {
		e[0] = gradu[0][0]
		e[1] = gradu[1][1]
		e[2] = gradu[2][2]
		e[3] = gradu[0][1] + gradu[1][0]
		e[4] = gradu[1][2] + gradu[2][1]
		e[5] = gradu[0][2] + gradu[2][0]
		ev := e[0] + e[1] + e[2]
		s[0] = lam*ev + 2.0*mu*e[0]
		s[1] = lam*ev + 2.0*mu*e[1]
		s[2] = lam*ev + 2.0*mu*e[2]
		s[3] = mu * e[3]
		s[4] = mu * e[4]
		s[5] = mu * e[5]
		return
	}
	e[0] = gradu[0][0]
	e[1] = gradu[1][1]
	e[2] = gradu[0][1] + gradu[1][0]
	ev := e[0] + e[1]
	s[0] = lam*ev + 2.0*mu*e[0]
	s[1] = lam*ev + 2.0*mu*e[1]
	s[2] = mu * e[2]
}

// vonMises computes the von Mises equivalent stress. In 2D the out-of-plane
// stress σzz = λ(εxx+εyy) of the plane-strain state is included.
func vonMises(ndim int, lam float64, e, s []float64) float64 {
	if ndim == 3 {
		d1 := s[0] - s[1]
		d2 := s[1] - s[2]
		d3 := s[2] - s[0]
		return math.Sqrt(0.5 * (d1*d1 + d2*d2 + d3*d3 + 6.0*(s[3]*s[3]+s[4]*s[4]+s[5]*s[5])))
	}
	szz := lam * (e[0] + e[1])
	d1 := s[0] - s[1]
	d2 := s[1] - szz
	d3 := szz - s[0]
	return math.Sqrt(0.5 * (d1*d1 + d2*d2 + d3*d3 + 6.0*s[2]*s[2]))
}
