package meshtypes

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// jitter draws uniform deviates on [0, 1) from a seeded stream so that a
// given seed always reproduces the same mesh
type jitter struct {
	u distuv.Uniform
	r float64 // radius of the displacement ball
}

func newJitter(eps, minWidth float64, seed uint64) (j *jitter, err error) {
	if eps < 0 || eps > 1 || math.IsNaN(eps) {
		err = fmt.Errorf("jitter fraction must lie in [0, 1], have %g", eps)
		return
	}
	j = &jitter{
		u: distuv.Uniform{Min: 0, Max: 1, Src: rand.NewPCG(seed, seed)},
		r: 0.5 * minWidth * eps,
	}
	return
}

func (j *jitter) displace1D() float64 {
	return j.r * (1 - 2*j.u.Rand())
}

func (j *jitter) displace2D() (dx, dy float64) {
	var (
		dr = j.r * j.u.Rand()
		om = 2 * math.Pi * j.u.Rand()
	)
	return dr * math.Cos(om), dr * math.Sin(om)
}

func (j *jitter) displace3D() (dx, dy, dz float64) {
	var (
		dr = j.r * j.u.Rand()
		mu = 1 - 2*j.u.Rand()
		om = 2 * math.Pi * j.u.Rand()
		xi = math.Sqrt(1 - mu*mu)
	)
	return dr * mu, dr * xi * math.Cos(om), dr * xi * math.Sin(om)
}

// minCellWidth is the smallest uniform cell spacing over all dimensions
func minCellWidth(bounds Bounds, numCellsPerDim []int) (w float64) {
	w = math.Inf(1)
	for d, n := range numCellsPerDim {
		w = min(w, bounds.Width(d)/float64(n))
	}
	return
}

// NewRandom1D jitters the interior nodes of an orthogonal 1D mesh by up to
// half of eps times the cell width
func NewRandom1D(bounds Bounds, numCellsPerDim []int, eps float64, seed uint64) (m *Mesh, err error) {
	if m, err = NewOrth1D(bounds, numCellsPerDim); err != nil {
		return
	}
	var j *jitter
	if j, err = newJitter(eps, minCellWidth(bounds, numCellsPerDim), seed); err != nil {
		return nil, err
	}
	for i := 1; i < numCellsPerDim[0]; i++ {
		m.Coords[i][0] += j.displace1D()
	}
	return
}

// NewRandom2D jitters interior nodes of an orthogonal 2D mesh within a disc
func NewRandom2D(bounds Bounds, numCellsPerDim []int, eps float64, seed uint64) (m *Mesh, err error) {
	if m, err = NewOrth2D(bounds, numCellsPerDim); err != nil {
		return
	}
	var j *jitter
	if j, err = newJitter(eps, minCellWidth(bounds, numCellsPerDim), seed); err != nil {
		return nil, err
	}
	nx, ny := numCellsPerDim[0], numCellsPerDim[1]
	for jj := 1; jj < ny; jj++ {
		for i := 1; i < nx; i++ {
			dx, dy := j.displace2D()
			crd := m.Coords[i+(nx+1)*jj]
			crd[0] += dx
			crd[1] += dy
		}
	}
	return
}

// NewRandom3D jitters the interior cube corner nodes of an FCC mesh within a
// ball. Face centre nodes are left in place.
func NewRandom3D(bounds Bounds, numCellsPerDim []int, eps float64, seed uint64) (m *Mesh, err error) {
	if m, err = NewFCC3D(bounds, numCellsPerDim); err != nil {
		return
	}
	var j *jitter
	if j, err = newJitter(eps, minCellWidth(bounds, numCellsPerDim), seed); err != nil {
		return nil, err
	}
	var (
		nx, ny, nz = numCellsPerDim[0], numCellsPerDim[1], numCellsPerDim[2]
		l          = newLattice(nx, ny, nz)
	)
	for k := 1; k < nz; k++ {
		for jj := 1; jj < ny; jj++ {
			for i := 1; i < nx; i++ {
				dx, dy, dz := j.displace3D()
				crd := m.Coords[l.sc(i, jj, k)]
				crd[0] += dx
				crd[1] += dy
				crd[2] += dz
			}
		}
	}
	return
}
