package meshtypes

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Bounds holds the [low, high] extent of the domain along each dimension
type Bounds [][2]float64

// NewBounds de-serializes a flat list of low/high pairs, one pair per dimension
func NewBounds(flat []float64) (b Bounds, err error) {
	if len(flat)%2 != 0 {
		err = fmt.Errorf("bounds must be given as low/high pairs, have %d values", len(flat))
		return
	}
	b = make(Bounds, len(flat)/2)
	for i := range b {
		b[i] = [2]float64{flat[2*i], flat[2*i+1]}
	}
	return
}

func (b Bounds) Flatten() (flat []float64) {
	flat = make([]float64, 0, 2*len(b))
	for _, lh := range b {
		flat = append(flat, lh[0], lh[1])
	}
	return
}

func (b Bounds) Width(dim int) float64 { return b[dim][1] - b[dim][0] }

// Check requires ndim dimensions, each with low < high
func (b Bounds) Check(ndim int) (err error) {
	if len(b) != ndim {
		return fmt.Errorf("have bounds for %d dimensions, need %d", len(b), ndim)
	}
	for i, lh := range b {
		if !(lh[0] < lh[1]) {
			return fmt.Errorf("bounds for dimension %d are not increasing: [%g, %g]",
				i, lh[0], lh[1])
		}
	}
	return
}

// Mesh is an unstructured mesh in the face based form used by X3D: cells
// list their faces, faces list their nodes. Face and node indices are zero
// based; faces are oriented per cell and are not shared between cells.
type Mesh struct {
	NDim         int
	Coords       [][]float64 // Node coordinates [nnodes][ndim]
	FacesPerCell [][]int     // Face indices per cell
	NodesPerFace [][]int     // Node indices per face
	// Boundary faces per side, each face a node list. The ordering of sides
	// is a property of the generator; X3D only needs unique node lists.
	NodesPerSide [][][]int
}

func (m *Mesh) NumNodes() int { return len(m.Coords) }
func (m *Mesh) NumCells() int { return len(m.FacesPerCell) }
func (m *Mesh) NumFaces() int { return len(m.NodesPerFace) }
func (m *Mesh) NumSides() int { return len(m.NodesPerSide) }

func (m *Mesh) MaxNodesPerFace() (nMax int) {
	for _, nodes := range m.NodesPerFace {
		nMax = max(nMax, len(nodes))
	}
	return
}

func (m *Mesh) MaxFacesPerCell() (nMax int) {
	for _, faces := range m.FacesPerCell {
		nMax = max(nMax, len(faces))
	}
	return
}

// CellCentroid averages the face averaged node coordinates of a cell. This is
// not the geometric centroid, but it lies inside any convex cell.
func (m *Mesh) CellCentroid(cell int) (c []float64) {
	c = make([]float64, m.NDim)
	faces := m.FacesPerCell[cell]
	if len(faces) == 0 {
		return
	}
	fc := make([]float64, m.NDim)
	for _, face := range faces {
		nodes := m.NodesPerFace[face]
		for i := range fc {
			fc[i] = 0
		}
		for _, node := range nodes {
			floats.Add(fc, m.Coords[node])
		}
		floats.AddScaled(c, 1/float64(len(nodes)), fc)
	}
	floats.Scale(1/float64(len(faces)), c)
	return
}

// BoundaryNodes returns the sorted unique nodes on one side
func (m *Mesh) BoundaryNodes(side int) (nodes []int) {
	seen := make(map[int]bool)
	for _, face := range m.NodesPerSide[side] {
		for _, node := range face {
			if !seen[node] {
				seen[node] = true
				nodes = append(nodes, node)
			}
		}
	}
	sort.Ints(nodes)
	return
}

// Validate checks referential integrity of the connectivity tables
func (m *Mesh) Validate() (err error) {
	if m.NDim < 1 || m.NDim > 3 {
		return fmt.Errorf("invalid mesh dimension %d", m.NDim)
	}
	for n, crd := range m.Coords {
		if len(crd) != m.NDim {
			return fmt.Errorf("node %d has %d coordinates, mesh dimension is %d",
				n, len(crd), m.NDim)
		}
	}
	nNodes, nFaces := m.NumNodes(), m.NumFaces()
	for cell, faces := range m.FacesPerCell {
		if len(faces) == 0 {
			return fmt.Errorf("cell %d has no faces", cell)
		}
		for _, face := range faces {
			if face < 0 || face >= nFaces {
				return fmt.Errorf("cell %d references face %d, have %d faces",
					cell, face, nFaces)
			}
		}
	}
	for face, nodes := range m.NodesPerFace {
		if len(nodes) == 0 {
			return fmt.Errorf("face %d has no nodes", face)
		}
		for _, node := range nodes {
			if node < 0 || node >= nNodes {
				return fmt.Errorf("face %d references node %d, have %d nodes",
					face, node, nNodes)
			}
		}
	}
	if len(m.NodesPerSide) == 0 {
		return fmt.Errorf("mesh has no boundary sides")
	}
	for side, faces := range m.NodesPerSide {
		for _, nodes := range faces {
			for _, node := range nodes {
				if node < 0 || node >= nNodes {
					return fmt.Errorf("boundary side %d references node %d, have %d nodes",
						side, node, nNodes)
				}
			}
		}
	}
	return
}

// linspace is the grid of n+1 evenly spaced points spanning [lo, hi]
func linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n+1), lo, hi)
}

func checkCells(numCellsPerDim []int, ndim int) (err error) {
	if len(numCellsPerDim) != ndim {
		return fmt.Errorf("have cell counts for %d dimensions, need %d",
			len(numCellsPerDim), ndim)
	}
	for i, n := range numCellsPerDim {
		if n < 1 {
			return fmt.Errorf("cell count along dimension %d must be positive, have %d", i, n)
		}
	}
	return
}
