package meshtypes

// NewOrth1D builds a uniformly spaced 1D mesh. Each cell owns two point
// faces, so interior nodes are referenced by two faces.
func NewOrth1D(bounds Bounds, numCellsPerDim []int) (m *Mesh, err error) {
	if err = checkCells(numCellsPerDim, 1); err != nil {
		return
	}
	if err = bounds.Check(1); err != nil {
		return
	}
	var (
		nx = numCellsPerDim[0]
		gx = linspace(bounds[0][0], bounds[0][1], nx)
	)
	m = &Mesh{
		NDim:         1,
		Coords:       make([][]float64, nx+1),
		FacesPerCell: make([][]int, nx),
		NodesPerFace: make([][]int, 2*nx),
	}
	for i := 0; i <= nx; i++ {
		m.Coords[i] = []float64{gx[i]}
	}
	for i := 0; i < nx; i++ {
		m.FacesPerCell[i] = []int{2 * i, 2*i + 1}
		m.NodesPerFace[2*i] = []int{i}
		m.NodesPerFace[2*i+1] = []int{i + 1}
	}
	m.NodesPerSide = [][][]int{
		{{0}},
		{{nx}},
	}
	return
}

// NewOrth2D builds a uniformly spaced quadrilateral mesh with node index
// i + (nx+1)*j. Cell faces run counter clockwise from the bottom edge, and
// the sides are ordered counter clockwise: ylow, xhigh, yhigh, xlow.
func NewOrth2D(bounds Bounds, numCellsPerDim []int) (m *Mesh, err error) {
	if err = checkCells(numCellsPerDim, 2); err != nil {
		return
	}
	if err = bounds.Check(2); err != nil {
		return
	}
	var (
		nx, ny = numCellsPerDim[0], numCellsPerDim[1]
		gx     = linspace(bounds[0][0], bounds[0][1], nx)
		gy     = linspace(bounds[1][0], bounds[1][1], ny)
		node   = func(i, j int) int { return i + (nx+1)*j }
		nCells = nx * ny
	)
	m = &Mesh{
		NDim:         2,
		Coords:       make([][]float64, (nx+1)*(ny+1)),
		FacesPerCell: make([][]int, nCells),
		NodesPerFace: make([][]int, 4*nCells),
	}
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			m.Coords[node(i, j)] = []float64{gx[i], gy[j]}
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			cell := i + nx*j
			f := 4 * cell
			m.FacesPerCell[cell] = []int{f, f + 1, f + 2, f + 3}
			m.NodesPerFace[f] = []int{node(i, j), node(i+1, j)}
			m.NodesPerFace[f+1] = []int{node(i+1, j), node(i+1, j+1)}
			m.NodesPerFace[f+2] = []int{node(i+1, j+1), node(i, j+1)}
			m.NodesPerFace[f+3] = []int{node(i, j+1), node(i, j)}
		}
	}
	var (
		xlow  = make([][]int, ny)
		xhigh = make([][]int, ny)
		ylow  = make([][]int, nx)
		yhigh = make([][]int, nx)
	)
	for j := 0; j < ny; j++ {
		xlow[ny-1-j] = []int{node(0, j+1), node(0, j)}
		xhigh[j] = []int{node(nx, j), node(nx, j+1)}
	}
	for i := 0; i < nx; i++ {
		ylow[i] = []int{node(i, 0), node(i+1, 0)}
		yhigh[nx-1-i] = []int{node(i+1, ny), node(i, ny)}
	}
	m.NodesPerSide = [][][]int{ylow, xhigh, yhigh, xlow}
	return
}

// NewOrth3D builds a uniformly spaced hexahedral mesh with node index
// i + (nx+1)*(j + (ny+1)*k). Faces per cell are zlow, zhigh, ylow, yhigh,
// xlow, xhigh, each counter clockwise about its outward normal.
func NewOrth3D(bounds Bounds, numCellsPerDim []int) (m *Mesh, err error) {
	if err = checkCells(numCellsPerDim, 3); err != nil {
		return
	}
	if err = bounds.Check(3); err != nil {
		return
	}
	var (
		nx, ny, nz = numCellsPerDim[0], numCellsPerDim[1], numCellsPerDim[2]
		l          = newLattice(nx, ny, nz)
		gx         = linspace(bounds[0][0], bounds[0][1], nx)
		gy         = linspace(bounds[1][0], bounds[1][1], ny)
		gz         = linspace(bounds[2][0], bounds[2][1], nz)
		nCells     = nx * ny * nz
	)
	m = &Mesh{
		NDim:         3,
		Coords:       make([][]float64, l.numSC),
		FacesPerCell: make([][]int, nCells),
		NodesPerFace: make([][]int, 6*nCells),
	}
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				m.Coords[l.sc(i, j, k)] = []float64{gx[i], gy[j], gz[k]}
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				cell := l.cell(i, j, k)
				f := 6 * cell
				m.FacesPerCell[cell] = []int{f, f + 1, f + 2, f + 3, f + 4, f + 5}
				for lf, quad := range l.cellQuads(i, j, k) {
					m.NodesPerFace[f+lf] = []int{quad[0], quad[1], quad[2], quad[3]}
				}
			}
		}
	}
	sides := l.sideQuads()
	m.NodesPerSide = make([][][]int, 6)
	for s, quads := range sides {
		m.NodesPerSide[s] = make([][]int, len(quads))
		for q, sq := range quads {
			m.NodesPerSide[s][q] = []int{sq.quad[0], sq.quad[1], sq.quad[2], sq.quad[3]}
		}
	}
	return
}
