package x3d

import (
	"fmt"

	"github.com/notargets/dracotools/meshtypes"
)

// Region is an axis aligned box of cells sharing a material id
type Region struct {
	ID     int
	Bounds meshtypes.Bounds
}

// Regions holds the outcome of partitioning cells into regions. Region 0 is
// the whole mesh and always comes first; later regions take precedence.
type Regions struct {
	IDs   []int   // Region ids in precedence order
	MatID []int   // Material id per cell
	Cells [][]int // 1-based cell numbers per region, parallel to IDs
}

// AssignRegions tests the averaged coordinate of every cell against each
// region box, low <= c < high along every dimension. A cell belongs to the
// last region that contains it, and is removed from the cell lists of all
// earlier regions.
func AssignRegions(m *meshtypes.Mesh, bounds meshtypes.Bounds, regions []Region) (r *Regions, err error) {
	nCells := m.NumCells()
	r = &Regions{MatID: make([]int, nCells)}
	if len(regions) == 0 {
		r.IDs = []int{0}
		r.Cells = [][]int{make([]int, nCells)}
		for cell := range r.Cells[0] {
			r.Cells[0][cell] = cell + 1
		}
		return
	}
	all := append([]Region{{ID: 0, Bounds: bounds}}, regions...)
	seen := make(map[int]bool)
	for ir, reg := range all {
		if len(reg.Bounds) != m.NDim {
			return nil, fmt.Errorf("region %d has bounds for %d dimensions, mesh has %d",
				reg.ID, len(reg.Bounds), m.NDim)
		}
		if ir > 0 {
			if err = reg.Bounds.Check(m.NDim); err != nil {
				return nil, fmt.Errorf("region %d: %w", reg.ID, err)
			}
		}
		if seen[reg.ID] {
			return nil, fmt.Errorf("region id %d is given more than once", reg.ID)
		}
		seen[reg.ID] = true
		r.IDs = append(r.IDs, reg.ID)
	}
	owner := make([]int, nCells)
	for cell := 0; cell < nCells; cell++ {
		owner[cell] = -1
		c := m.CellCentroid(cell)
		for ir, reg := range all {
			if contains(reg.Bounds, c) {
				owner[cell] = ir
				r.MatID[cell] = reg.ID
			}
		}
	}
	r.Cells = make([][]int, len(all))
	for cell, ir := range owner {
		if ir >= 0 {
			r.Cells[ir] = append(r.Cells[ir], cell+1)
		}
	}
	return
}

func contains(b meshtypes.Bounds, c []float64) bool {
	for d, lh := range b {
		if c[d] < lh[0] || c[d] >= lh[1] {
			return false
		}
	}
	return true
}

// NewRegions pairs region ids with their flattened bounds, 2*ndim values
// per region in id order
func NewRegions(ids []int, flatBounds []float64, ndim int) (regions []Region, err error) {
	if len(flatBounds) != 2*ndim*len(ids) {
		err = fmt.Errorf("have %d region bound values, need %d for %d regions in %d dimensions",
			len(flatBounds), 2*ndim*len(ids), len(ids), ndim)
		return
	}
	regions = make([]Region, len(ids))
	for i, id := range ids {
		var b meshtypes.Bounds
		if b, err = meshtypes.NewBounds(flatBounds[2*ndim*i : 2*ndim*(i+1)]); err != nil {
			return nil, err
		}
		if err = b.Check(ndim); err != nil {
			return nil, fmt.Errorf("region %d: %w", id, err)
		}
		regions[i] = Region{ID: id, Bounds: b}
	}
	return
}
