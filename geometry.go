package thinwall

import "github.com/ctessum/geom"

// CellPolygon returns the closed four-sided ring bounding coarse cell
// (j,i) of m, for diagnostic export. Ground truth: mkelp-inmap/vargrid.go's
// cellGeometry, retargeted from a CTM grid cell to a Mesh node quad.
func (m *Mesh) CellPolygon(j, i int) (geom.Polygon, error) {
	return cellPolygon(m.Lon, m.Lat, j, i)
}
