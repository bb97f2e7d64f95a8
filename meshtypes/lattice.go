package meshtypes

// lattice holds the index arithmetic shared by the structured 3D meshes.
// Simple cubic nodes come first, followed (for FCC) by the face centred
// nodes on z-normal, y-normal and x-normal faces, in that block order.
type lattice struct {
	nx, ny, nz int
	numSC      int // simple cubic nodes
	offZ       int // first z-normal face centre node
	offY       int // first y-normal face centre node
	offX       int // first x-normal face centre node
	numNodes   int // all nodes including face centres
}

func newLattice(nx, ny, nz int) (l lattice) {
	l = lattice{nx: nx, ny: ny, nz: nz}
	l.numSC = (nx + 1) * (ny + 1) * (nz + 1)
	l.offZ = l.numSC
	l.offY = l.offZ + (nz+1)*nx*ny
	l.offX = l.offY + (ny+1)*nz*nx
	l.numNodes = l.offX + (nx+1)*ny*nz
	return
}

func (l lattice) sc(i, j, k int) int {
	return i + (l.nx+1)*(j+(l.ny+1)*k)
}

func (l lattice) cell(i, j, k int) int {
	return i + l.nx*(j+l.ny*k)
}

// zFace is the centre node of the z-normal face at layer k, k in [0, nz]
func (l lattice) zFace(i, j, k int) int {
	return l.offZ + i + l.nx*j + l.nx*l.ny*k
}

// yFace is the centre node of the y-normal face at row j, j in [0, ny]
func (l lattice) yFace(i, j, k int) int {
	return l.offY + i + l.nx*j + l.nx*(l.ny+1)*k
}

// xFace is the centre node of the x-normal face at column i, i in [0, nx]
func (l lattice) xFace(i, j, k int) int {
	return l.offX + i + (l.nx+1)*j + (l.nx+1)*l.ny*k
}

// Local face numbering of a hexahedral cell
const (
	hexZLow = iota
	hexZHigh
	hexYLow
	hexYHigh
	hexXLow
	hexXHigh
)

// cellQuads returns the six faces of cell (i,j,k), each ordered counter
// clockwise about its outward normal.
func (l lattice) cellQuads(i, j, k int) (q [6][4]int) {
	q[hexZLow] = [4]int{l.sc(i, j, k), l.sc(i, j+1, k), l.sc(i+1, j+1, k), l.sc(i+1, j, k)}
	q[hexZHigh] = [4]int{l.sc(i+1, j, k+1), l.sc(i+1, j+1, k+1), l.sc(i, j+1, k+1), l.sc(i, j, k+1)}
	q[hexYLow] = [4]int{l.sc(i, j, k), l.sc(i+1, j, k), l.sc(i+1, j, k+1), l.sc(i, j, k+1)}
	q[hexYHigh] = [4]int{l.sc(i, j+1, k+1), l.sc(i+1, j+1, k+1), l.sc(i+1, j+1, k), l.sc(i, j+1, k)}
	q[hexXLow] = [4]int{l.sc(i, j, k), l.sc(i, j, k+1), l.sc(i, j+1, k+1), l.sc(i, j+1, k)}
	q[hexXHigh] = [4]int{l.sc(i+1, j+1, k), l.sc(i+1, j+1, k+1), l.sc(i+1, j, k+1), l.sc(i+1, j, k)}
	return
}

// faceCentres returns the face centre node for each local face of cell (i,j,k)
func (l lattice) faceCentres(i, j, k int) (fc [6]int) {
	fc[hexZLow] = l.zFace(i, j, k)
	fc[hexZHigh] = l.zFace(i, j, k+1)
	fc[hexYLow] = l.yFace(i, j, k)
	fc[hexYHigh] = l.yFace(i, j+1, k)
	fc[hexXLow] = l.xFace(i, j, k)
	fc[hexXHigh] = l.xFace(i+1, j, k)
	return
}

type sideQuad struct {
	quad   [4]int
	centre int
}

// sideQuads lists the boundary quads per side in the order xlow, xhigh,
// ylow, yhigh, zlow, zhigh. Each quad is the outward face of its boundary
// cell, paired with that face's centre node.
func (l lattice) sideQuads() (sides [6][]sideQuad) {
	add := func(s, local, i, j, k int) {
		sides[s] = append(sides[s], sideQuad{
			quad:   l.cellQuads(i, j, k)[local],
			centre: l.faceCentres(i, j, k)[local],
		})
	}
	for k := 0; k < l.nz; k++ {
		for j := 0; j < l.ny; j++ {
			add(0, hexXLow, 0, j, k)
			add(1, hexXHigh, l.nx-1, j, k)
		}
	}
	for k := 0; k < l.nz; k++ {
		for i := 0; i < l.nx; i++ {
			add(2, hexYLow, i, 0, k)
			add(3, hexYHigh, i, l.ny-1, k)
		}
	}
	for j := 0; j < l.ny; j++ {
		for i := 0; i < l.nx; i++ {
			add(4, hexZLow, i, j, 0)
			add(5, hexZHigh, i, j, l.nz-1)
		}
	}
	return
}

// fan splits a quad into four triangles sharing its centre node
func fan(quad [4]int, centre int) (tris [4][]int) {
	for n := 0; n < 4; n++ {
		tris[n] = []int{quad[n], quad[(n+1)%4], centre}
	}
	return
}
