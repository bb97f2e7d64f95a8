package meshtypes

// NewFCC3D builds a face centred cubic mesh: the simple cubic lattice plus a
// node at the centre of every cube face. Each cube face is split into four
// triangles fanned about its centre node, giving 24 faces per cell.
func NewFCC3D(bounds Bounds, numCellsPerDim []int) (m *Mesh, err error) {
	if err = checkCells(numCellsPerDim, 3); err != nil {
		return
	}
	if err = bounds.Check(3); err != nil {
		return
	}
	var (
		nx, ny, nz = numCellsPerDim[0], numCellsPerDim[1], numCellsPerDim[2]
		l          = newLattice(nx, ny, nz)
		// Half spaced grids, even entries are cube corners
		gx     = linspace(bounds[0][0], bounds[0][1], 2*nx)
		gy     = linspace(bounds[1][0], bounds[1][1], 2*ny)
		gz     = linspace(bounds[2][0], bounds[2][1], 2*nz)
		nCells = nx * ny * nz
	)
	m = &Mesh{
		NDim:         3,
		Coords:       make([][]float64, l.numNodes),
		FacesPerCell: make([][]int, nCells),
		NodesPerFace: make([][]int, 24*nCells),
	}
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				m.Coords[l.sc(i, j, k)] = []float64{gx[2*i], gy[2*j], gz[2*k]}
			}
		}
	}
	for k := 0; k <= nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				m.Coords[l.zFace(i, j, k)] = []float64{gx[2*i+1], gy[2*j+1], gz[2*k]}
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i < nx; i++ {
				m.Coords[l.yFace(i, j, k)] = []float64{gx[2*i+1], gy[2*j], gz[2*k+1]}
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i <= nx; i++ {
				m.Coords[l.xFace(i, j, k)] = []float64{gx[2*i], gy[2*j+1], gz[2*k+1]}
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				var (
					cell    = l.cell(i, j, k)
					f       = 24 * cell
					quads   = l.cellQuads(i, j, k)
					centres = l.faceCentres(i, j, k)
					faces   = make([]int, 24)
				)
				for lf := range quads {
					for n, tri := range fan(quads[lf], centres[lf]) {
						face := f + 4*lf + n
						faces[4*lf+n] = face
						m.NodesPerFace[face] = tri
					}
				}
				m.FacesPerCell[cell] = faces
			}
		}
	}
	sides := l.sideQuads()
	m.NodesPerSide = make([][][]int, 6)
	for s, quads := range sides {
		m.NodesPerSide[s] = make([][]int, 0, 4*len(quads))
		for _, sq := range quads {
			for _, tri := range fan(sq.quad, sq.centre) {
				m.NodesPerSide[s] = append(m.NodesPerSide[s], tri)
			}
		}
	}
	return
}
