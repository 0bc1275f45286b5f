package thinwall

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/sparse"
)

// Mesh is a 2-D staggered mesh of nodes (Nj+1, Ni+1); it owns its lon/lat
// node arrays, a refinement level, and the list of pole nodes. Ground truth:
// GMesh.py's GMesh class.
type Mesh struct {
	Nj, Ni   int
	Lon, Lat *sparse.DenseArray // shape (Nj+1, Ni+1), degrees
	Rfl      int
	NpIndex  []NodeIndex
}

// NewMeshFromNodes builds a Mesh from explicit 2-D node coordinate arrays.
func NewMeshFromNodes(lon, lat *sparse.DenseArray, rfl int) (*Mesh, error) {
	if len(lon.Shape) != 2 || len(lat.Shape) != 2 {
		return nil, fmt.Errorf("thinwall.NewMeshFromNodes: %w", ErrShapeMismatch)
	}
	if lon.Shape[0] != lat.Shape[0] || lon.Shape[1] != lat.Shape[1] {
		return nil, fmt.Errorf("thinwall.NewMeshFromNodes: lon/lat shapes differ: %w", ErrShapeMismatch)
	}
	m := &Mesh{Nj: lon.Shape[0] - 1, Ni: lon.Shape[1] - 1, Lon: lon, Lat: lat, Rfl: rfl}
	m.NpIndex = findPoleNodes(lat)
	return m, nil
}

// NewMeshFromCellCenters builds a Mesh from 1-D cell-center coordinate
// vectors, extrapolating end nodes and averaging interior ones. Ground
// truth: GMesh.py's from_cell_center constructor branch.
func NewMeshFromCellCenters(lonC, latC []float64) (*Mesh, error) {
	lon := extrapolateNodes(lonC)
	lat := extrapolateNodes(latC)
	lonN := sparse.ZerosDense(len(lat), len(lon))
	latN := sparse.ZerosDense(len(lat), len(lon))
	for j := range lat {
		for i := range lon {
			lonN.Set(lon[i], j, i)
			latN.Set(lat[j], j, i)
		}
	}
	return NewMeshFromNodes(lonN, latN, 0)
}

func extrapolateNodes(c []float64) []float64 {
	n := len(c)
	out := make([]float64, n+1)
	out[0] = 1.5*c[0] - 0.5*c[1]
	out[n] = 1.5*c[n-1] - 0.5*c[n-2]
	for i := 1; i < n; i++ {
		out[i] = 0.5 * (c[i-1] + c[i])
	}
	return out
}

// NewGlobalMesh builds the default global uniform mesh of shape (nj,ni)
// starting at longitude lon0. Ground truth: GMesh.py's no-lon/lat
// constructor branch.
func NewGlobalMesh(nj, ni int, lon0 float64) (*Mesh, error) {
	lon := sparse.ZerosDense(nj+1, ni+1)
	lat := sparse.ZerosDense(nj+1, ni+1)
	for j := 0; j <= nj; j++ {
		la := -90. + 180.*float64(j)/float64(nj)
		for i := 0; i <= ni; i++ {
			lo := lon0 + 360.*float64(i)/float64(ni)
			lon.Set(lo, j, i)
			lat.Set(la, j, i)
		}
	}
	return NewMeshFromNodes(lon, lat, 0)
}

func findPoleNodes(lat *sparse.DenseArray) []NodeIndex {
	var out []NodeIndex
	nj, ni := lat.Shape[0], lat.Shape[1]
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			if lat.Get(j, i) >= 90.0 {
				out = append(out, NodeIndex{j, i})
			}
		}
	}
	return out
}

// InterpCenterCoords returns interpolated cell-center coordinates from
// nodes. Ground truth: GMesh.py.interp_center_coords.
func (m *Mesh) InterpCenterCoords(workIn3D bool) (lon, lat *sparse.DenseArray) {
	if workIn3D {
		x, y, z := LonLatToXYZ(m.Lon, m.Lat)
		return MeanFromXYZ(x, y, z, Mean4)
	}
	return mean4Lon(m.Lon, true, m.NpIndex), mean4(m.Lat)
}

// RefineBy2 returns a new Mesh with twice the resolution in both
// directions, sharing the parent's nodes at even-even positions. Ground
// truth: GMesh.py.refineby2.
func (m *Mesh) RefineBy2(workIn3D bool) (*Mesh, error) {
	nj2, ni2 := 2*m.Nj+1, 2*m.Ni+1
	lon := sparse.ZerosDense(nj2, ni2)
	lat := sparse.ZerosDense(nj2, ni2)
	for j := 0; j <= m.Nj; j++ {
		for i := 0; i <= m.Ni; i++ {
			lon.Set(m.Lon.Get(j, i), 2*j, 2*i)
			lat.Set(m.Lat.Get(j, i), 2*j, 2*i)
		}
	}
	var jLon, jLat, iLon, iLat, cLon, cLat *sparse.DenseArray
	if workIn3D {
		x, y, z := LonLatToXYZ(m.Lon, m.Lat)
		jLon, jLat = MeanFromXYZ(x, y, z, MeanJ)
		iLon, iLat = MeanFromXYZ(x, y, z, MeanI)
		cLon, cLat = MeanFromXYZ(x, y, z, Mean4)
	} else {
		jLon, jLat = mean2jLon(m.Lon, true, m.NpIndex), mean2j(m.Lat)
		iLon, iLat = mean2iLon(m.Lon, true, m.NpIndex), mean2i(m.Lat)
		cLon, cLat = mean4Lon(m.Lon, true, m.NpIndex), mean4(m.Lat)
	}
	for j := 0; j < m.Nj; j++ {
		for i := 0; i <= m.Ni; i++ {
			lon.Set(jLon.Get(j, i), 2*j+1, 2*i)
			lat.Set(jLat.Get(j, i), 2*j+1, 2*i)
		}
	}
	for j := 0; j <= m.Nj; j++ {
		for i := 0; i < m.Ni; i++ {
			lon.Set(iLon.Get(j, i), 2*j, 2*i+1)
			lat.Set(iLat.Get(j, i), 2*j, 2*i+1)
		}
	}
	for j := 0; j < m.Nj; j++ {
		for i := 0; i < m.Ni; i++ {
			lon.Set(cLon.Get(j, i), 2*j+1, 2*i+1)
			lat.Set(cLat.Get(j, i), 2*j+1, 2*i+1)
		}
	}
	return NewMeshFromNodes(lon, lat, m.Rfl+1)
}

func mdist(x1, x2 float64) float64 {
	a := math.Mod(x1-x2, 360.0)
	if a < 0 {
		a += 360
	}
	b := math.Mod(x2-x1, 360.0)
	if b < 0 {
		b += 360
	}
	return math.Min(a, b)
}

// IndexRange is a half-open (j,i) box excluded from CoarsestResolution.
type IndexRange struct{ Js, Je, Is, Ie int }

// CoarsestResolution returns, per cell, the maximum modular longitude
// distance and maximum latitude distance across the cell's four sides and
// two diagonals. Ground truth: GMesh.py.coarsest_resolution.
func (m *Mesh) CoarsestResolution(mask []IndexRange) (delLam, delPhi *sparse.DenseArray) {
	l, p := m.Lon, m.Lat
	delLam = sparse.ZerosDense(m.Nj, m.Ni)
	delPhi = sparse.ZerosDense(m.Nj, m.Ni)
	for j := 0; j < m.Nj; j++ {
		for i := 0; i < m.Ni; i++ {
			l00, l01 := l.Get(j, i), l.Get(j, i+1)
			l10, l11 := l.Get(j+1, i), l.Get(j+1, i+1)
			lam := math.Max(math.Max(math.Max(mdist(l00, l01), mdist(l10, l11)),
				math.Max(mdist(l00, l10), mdist(l11, l01))),
				math.Max(mdist(l00, l11), mdist(l10, l01)))
			p00, p01 := p.Get(j, i), p.Get(j, i+1)
			p10, p11 := p.Get(j+1, i), p.Get(j+1, i+1)
			phi := math.Max(math.Max(math.Max(math.Abs(p10-p00), math.Abs(p11-p01)),
				math.Max(math.Abs(p01-p00), math.Abs(p11-p10))),
				math.Max(math.Abs(p00-p11), math.Abs(p10-p01)))
			delLam.Set(lam, j, i)
			delPhi.Set(phi, j, i)
		}
	}
	scale := 1 << uint(m.Rfl)
	for _, r := range mask {
		js, je := r.Js*scale, r.Je*scale
		is, ie := r.Is*scale, r.Ie*scale
		for j := js; j < je && j < m.Nj; j++ {
			for i := is; i < ie && i < m.Ni; i++ {
				delLam.Set(0, j, i)
				delPhi.Set(0, j, i)
			}
		}
	}
	return delLam, delPhi
}

// MaxRefineLevel estimates the number of ×2 refinements needed to match a
// source resolution. Ground truth: GMesh.py.max_refine_level.
func (m *Mesh) MaxRefineLevel(dlonSrc, dlatSrc float64) int {
	delLam, delPhi := m.CoarsestResolution(nil)
	maxLam, maxPhi := 0.0, 0.0
	for _, v := range delLam.Elements {
		if v > maxLam {
			maxLam = v
		}
	}
	for _, v := range delPhi.Elements {
		if v > maxPhi {
			maxPhi = v
		}
	}
	lvl := math.Max(math.Ceil(math.Log2(maxPhi/dlatSrc)), math.Ceil(math.Log2(maxLam/dlonSrc)))
	return int(lvl)
}

// Rotate applies a rotation about Y then Z to the mesh's unit-sphere
// coordinates and regenerates lon/lat in place. Ground truth:
// GMesh.py.rotate.
func (m *Mesh) Rotate(yDeg, zDeg float64) {
	x, y, z := LonLatToXYZ(m.Lon, m.Lat)
	cy, sy := math.Cos(yDeg*deg2rad), math.Sin(yDeg*deg2rad)
	for i := range x.Elements {
		xx, zz := x.Elements[i], z.Elements[i]
		x.Elements[i] = cy*xx + sy*zz
		z.Elements[i] = -sy*xx + cy*zz
	}
	cz, sz := math.Cos(zDeg*deg2rad), math.Sin(zDeg*deg2rad)
	for i := range x.Elements {
		xx, yy := x.Elements[i], y.Elements[i]
		x.Elements[i] = cz*xx - sz*yy
		y.Elements[i] = sz*xx + cz*yy
	}
	m.Lon, m.Lat = XYZToLonLat(x, y, z)
}

// FindNNUniformSource returns, for each target node (or interpolated cell
// center when useCenter), the (i,j) index of the nearest source cell.
// Ground truth: GMesh.py.find_nn_uniform_source.
func (m *Mesh) FindNNUniformSource(lonCoord, latCoord *RegularCoord, useCenter bool) (ii, jj *sparse.DenseArray, err error) {
	sni, snj := lonCoord.N(), latCoord.N()
	dellon, dellat := lonCoord.Delta(), latCoord.Delta()
	var lonTgt, latTgt *sparse.DenseArray
	if useCenter {
		lonTgt, latTgt = m.InterpCenterCoords(true)
	} else {
		lonTgt, latTgt = m.Lon, m.Lat
	}
	ii = sparse.ZerosDense(lonTgt.Shape...)
	jj = sparse.ZerosDense(lonTgt.Shape...)
	for k, lo := range lonTgt.Elements {
		la := latTgt.Elements[k]
		d := math.Mod(lo-lonCoord.Origin()+0.5*dellon, 360)
		if d < 0 {
			d += 360
		}
		nni := math.Floor(d / dellon)
		nnj := math.Floor(0.5 + (la-latCoord.Origin())/dellat)
		if nnj > float64(snj-1) {
			nnj = float64(snj - 1)
		}
		if nnj < 0 || nnj >= float64(snj) {
			return nil, nil, fmt.Errorf("thinwall.Mesh.FindNNUniformSource: j index %v out of [0,%d): %w", nnj, snj, ErrOutOfRange)
		}
		if nni < 0 || nni >= float64(sni) {
			return nil, nil, fmt.Errorf("thinwall.Mesh.FindNNUniformSource: i index %v out of [0,%d): %w", nni, sni, ErrOutOfRange)
		}
		ii.Elements[k] = nni
		jj.Elements[k] = nnj
	}
	return ii, jj, nil
}

// SourceHits marks, for each source cell, 1 if it is intercepted by a mesh
// node (or interpolated center), plus a polar-cap guard near the pole.
// Ground truth: GMesh.py.source_hits.
func (m *Mesh) SourceHits(lonCoord, latCoord *RegularCoord, useCenter bool, singularityRadius float64) (*sparse.DenseArray, error) {
	ii, jj, err := m.FindNNUniformSource(lonCoord, latCoord, useCenter)
	if err != nil {
		return nil, err
	}
	sni, snj := lonCoord.N(), latCoord.N()
	hits := sparse.ZerosDense(snj, sni)
	if singularityRadius > 0 {
		iy := int(math.Ceil((90-singularityRadius-latCoord.Origin())/latCoord.Delta())) - latCoord.Start()
		for j := iy; j < snj; j++ {
			for i := 0; i < sni; i++ {
				hits.Set(1, j, i)
			}
		}
	}
	for k := range ii.Elements {
		i := int(ii.Elements[k]) - lonCoord.Start()
		i = ((i % sni) + sni) % sni
		j := int(jj.Elements[k]) - latCoord.Start()
		if j < 0 || j >= snj {
			continue
		}
		hits.Set(1, j, i)
	}
	return hits, nil
}

// indexedCell pairs a coarse-cell footprint with its (j,i) index, the
// rtree.Comparable the spatial index stores. Ground truth: framework.go's
// local `data` struct in Regrid, retargeted from concentration regridding
// to coarse-cell geometry lookup.
type indexedCell struct {
	geom.Polygonal
	J, I int
}

// SourceIndex is a spatial index over every coarse cell's footprint,
// letting CellsNear answer "which cells overlap this source-grid tile"
// in O(log n) instead of a linear scan over Nj*Ni cells. Ground truth:
// framework.go's InMAP.index / CellIntersections, retargeted from
// population polygons to mesh cells.
type SourceIndex struct {
	tree *rtree.Rtree
}

// BuildSourceIndex indexes every coarse cell of m by its polygon footprint.
func (m *Mesh) BuildSourceIndex() (*SourceIndex, error) {
	tree := rtree.NewTree(25, 50)
	for j := 0; j < m.Nj; j++ {
		for i := 0; i < m.Ni; i++ {
			poly, err := m.CellPolygon(j, i)
			if err != nil {
				return nil, err
			}
			tree.Insert(&indexedCell{Polygonal: poly, J: j, I: i})
		}
	}
	return &SourceIndex{tree: tree}, nil
}

// CellsNear returns the (j,i) indices of every coarse cell whose bounds
// intersect b.
func (s *SourceIndex) CellsNear(b *geom.Bounds) []NodeIndex {
	hits := s.tree.SearchIntersect(b)
	out := make([]NodeIndex, 0, len(hits))
	for _, h := range hits {
		c := h.(*indexedCell)
		out = append(out, NodeIndex{J: c.J, I: c.I})
	}
	return out
}

// ProjectSourceDataOntoTargetMesh returns a dense array on the target mesh
// (nodes, or cell centers when useCenter) whose values are the
// nearest-neighbor lookup of source data z. Ground truth: GMesh.py's
// project_source_data_onto_target_mesh.
func (m *Mesh) ProjectSourceDataOntoTargetMesh(lonCoord, latCoord *RegularCoord, z *sparse.DenseArray, useCenter bool) (*sparse.DenseArray, error) {
	ii, jj, err := m.FindNNUniformSource(lonCoord, latCoord, useCenter)
	if err != nil {
		return nil, err
	}
	out := sparse.ZerosDense(ii.Shape...)
	sni := lonCoord.N()
	for k := range ii.Elements {
		i := ((int(ii.Elements[k])-lonCoord.Start())%sni + sni) % sni
		j := int(jj.Elements[k]) - latCoord.Start()
		out.Elements[k] = z.Get(j, i)
	}
	return out, nil
}
