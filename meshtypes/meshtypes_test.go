package meshtypes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/dracotools/geometry2D"
	"github.com/notargets/dracotools/types"
)

func unitBox(ndim int) (b Bounds) {
	b = make(Bounds, ndim)
	for i := range b {
		b[i] = [2]float64{0, 1}
	}
	return
}

func TestBounds(t *testing.T) {
	b, err := NewBounds([]float64{0, 1, -2, 2})
	require.NoError(t, err)
	assert.Equal(t, Bounds{{0, 1}, {-2, 2}}, b)
	assert.Equal(t, 4., b.Width(1))
	assert.Equal(t, []float64{0, 1, -2, 2}, b.Flatten())
	_, err = NewBounds([]float64{0, 1, 2})
	assert.Error(t, err)
	assert.Error(t, Bounds{{1, 0}}.Check(1))
	assert.Error(t, Bounds{{0, 1}}.Check(2))
}

func TestOrth1D(t *testing.T) {
	m, err := NewOrth1D(unitBox(1), []int{4})
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Equal(t, 5, m.NumNodes())
	assert.Equal(t, 4, m.NumCells())
	assert.Equal(t, 8, m.NumFaces())
	assert.Equal(t, 0.5, m.Coords[2][0])
	assert.Equal(t, []int{2, 3}, m.FacesPerCell[1])
	assert.Equal(t, []int{1}, m.NodesPerFace[2])
	assert.Equal(t, [][][]int{{{0}}, {{4}}}, m.NodesPerSide)
	assert.Equal(t, []float64{0.375}, m.CellCentroid(1))

	_, err = NewOrth1D(unitBox(1), []int{0})
	assert.Error(t, err)
	_, err = NewOrth1D(unitBox(2), []int{3})
	assert.Error(t, err)
}

// outward2D checks that every cell's faces run counter clockwise
func outward2D(t *testing.T, m *Mesh) {
	for cell, faces := range m.FacesPerCell {
		c := m.CellCentroid(cell)
		for _, face := range faces {
			var (
				a, b = m.Coords[m.NodesPerFace[face][0]], m.Coords[m.NodesPerFace[face][1]]
				nx   = b[1] - a[1]
				ny   = -(b[0] - a[0])
				mx   = 0.5*(a[0]+b[0]) - c[0]
				my   = 0.5*(a[1]+b[1]) - c[1]
			)
			assert.Greater(t, nx*mx+ny*my, 0., "cell %d face %d", cell, face)
		}
	}
}

// outward3D checks that every face normal, by the right hand rule over its
// first three nodes, points away from the cell centroid
func outward3D(t *testing.T, m *Mesh) {
	for cell, faces := range m.FacesPerCell {
		c := m.CellCentroid(cell)
		for _, face := range faces {
			nodes := m.NodesPerFace[face]
			var (
				p0  = m.Coords[nodes[0]]
				u   = make([]float64, 3)
				v   = make([]float64, 3)
				mid = make([]float64, 3)
			)
			floats.SubTo(u, m.Coords[nodes[1]], p0)
			floats.SubTo(v, m.Coords[nodes[2]], p0)
			n := []float64{
				u[1]*v[2] - u[2]*v[1],
				u[2]*v[0] - u[0]*v[2],
				u[0]*v[1] - u[1]*v[0],
			}
			for _, node := range nodes {
				floats.Add(mid, m.Coords[node])
			}
			floats.Scale(1/float64(len(nodes)), mid)
			floats.Sub(mid, c)
			assert.Greater(t, floats.Dot(n, mid), 0., "cell %d face %d", cell, face)
		}
	}
}

func TestOrth2D(t *testing.T) {
	m, err := NewOrth2D(Bounds{{0, 2}, {0, 1}}, []int{2, 1})
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Equal(t, 6, m.NumNodes())
	assert.Equal(t, 2, m.NumCells())
	assert.Equal(t, 8, m.NumFaces())
	assert.Equal(t, 2, m.MaxNodesPerFace())
	assert.Equal(t, 4, m.MaxFacesPerCell())
	assert.Equal(t, [][]int{{0, 1}, {1, 4}, {4, 3}, {3, 0}},
		[][]int{m.NodesPerFace[0], m.NodesPerFace[1], m.NodesPerFace[2], m.NodesPerFace[3]})
	assert.Equal(t, []float64{0.5, 0.5}, m.CellCentroid(0))
	// ylow, xhigh, yhigh, xlow, each running counter clockwise
	assert.Equal(t, [][][]int{
		{{0, 1}, {1, 2}},
		{{2, 5}},
		{{5, 4}, {4, 3}},
		{{3, 0}},
	}, m.NodesPerSide)
	assert.Equal(t, []int{3, 4, 5}, m.BoundaryNodes(2))
	outward2D(t, m)
}

func TestOrth3D(t *testing.T) {
	m, err := NewOrth3D(unitBox(3), []int{2, 2, 2})
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Equal(t, 27, m.NumNodes())
	assert.Equal(t, 8, m.NumCells())
	assert.Equal(t, 48, m.NumFaces())
	assert.Equal(t, 4, m.MaxNodesPerFace())
	assert.Equal(t, 6, m.MaxFacesPerCell())
	assert.Equal(t, []int{0, 3, 4, 1}, m.NodesPerFace[0])
	outward3D(t, m)
	for s := 0; s < 6; s++ {
		side := types.BoundarySide(s)
		require.Len(t, m.NodesPerSide[s], 4, side.String())
		nodes := m.BoundaryNodes(s)
		assert.Len(t, nodes, 9)
		want := 0.
		if side.IsHigh() {
			want = 1
		}
		for _, node := range nodes {
			assert.Equal(t, want, m.Coords[node][side.Dim()], side.String())
		}
	}
}

func TestFCC3D(t *testing.T) {
	m, err := NewFCC3D(unitBox(3), []int{1, 1, 1})
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Equal(t, 14, m.NumNodes())
	assert.Equal(t, 1, m.NumCells())
	assert.Equal(t, 24, m.NumFaces())
	assert.Equal(t, 3, m.MaxNodesPerFace())
	assert.Equal(t, 24, m.MaxFacesPerCell())
	assert.Equal(t, []float64{0.5, 0.5, 0}, m.Coords[8])
	assert.Equal(t, []float64{0.5, 0.5, 1}, m.Coords[9])
	assert.Equal(t, []float64{0.5, 0, 0.5}, m.Coords[10])
	assert.Equal(t, []float64{0, 0.5, 0.5}, m.Coords[12])
	assert.Equal(t, []float64{1, 0.5, 0.5}, m.Coords[13])
	assert.Equal(t, []int{0, 2, 8}, m.NodesPerFace[0])
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0.5}, m.CellCentroid(0), 1.e-14)
	outward3D(t, m)
	for s := 0; s < 6; s++ {
		assert.Len(t, m.NodesPerSide[s], 4)
		assert.Len(t, m.BoundaryNodes(s), 5)
	}

	m, err = NewFCC3D(unitBox(3), []int{2, 3, 4})
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Equal(t, 3*4*5+5*2*3+4*4*2+3*3*4, m.NumNodes())
	outward3D(t, m)
}

func TestRandom(t *testing.T) {
	orth, err := NewOrth1D(unitBox(1), []int{5})
	require.NoError(t, err)
	m, err := NewRandom1D(unitBox(1), []int{5}, 0, 7)
	require.NoError(t, err)
	assert.Equal(t, orth.Coords, m.Coords)

	_, err = NewRandom2D(unitBox(2), []int{3, 3}, 1.5, 7)
	assert.Error(t, err)
	_, err = NewRandom2D(unitBox(2), []int{3, 3}, -0.1, 7)
	assert.Error(t, err)

	var (
		bounds = Bounds{{0, 4}, {0, 2}}
		cells  = []int{4, 4}
		r      = 0.5 * 0.5 * 0.5
	)
	base, err := NewOrth2D(bounds, cells)
	require.NoError(t, err)
	m1, err := NewRandom2D(bounds, cells, 0.5, 42)
	require.NoError(t, err)
	m2, err := NewRandom2D(bounds, cells, 0.5, 42)
	require.NoError(t, err)
	assert.Equal(t, m1.Coords, m2.Coords)
	moved := 0
	for n := range base.Coords {
		i, j := n%5, n/5
		d := math.Hypot(m1.Coords[n][0]-base.Coords[n][0], m1.Coords[n][1]-base.Coords[n][1])
		if i == 0 || i == 4 || j == 0 || j == 4 {
			assert.Zero(t, d, "boundary node %d moved", n)
			continue
		}
		assert.LessOrEqual(t, d, r)
		if d > 0 {
			moved++
		}
	}
	assert.Equal(t, 9, moved)
	outward2D(t, m1)

	m3, err := NewRandom3D(unitBox(3), []int{3, 3, 3}, 0.5, 1)
	require.NoError(t, err)
	require.NoError(t, m3.Validate())
	fcc, _ := NewFCC3D(unitBox(3), []int{3, 3, 3})
	l := newLattice(3, 3, 3)
	for n := range fcc.Coords {
		if n == l.sc(1, 1, 1) || n == l.sc(2, 1, 2) {
			assert.NotEqual(t, fcc.Coords[n], m3.Coords[n])
			continue
		}
		if n >= l.numSC {
			assert.Equal(t, fcc.Coords[n], m3.Coords[n])
		}
	}
}

// cellArea is taken relative to the first node so it stays accurate on boxes
// far from the origin
func cellArea(m *Mesh, cell int) (area float64) {
	ref := m.Coords[0]
	for _, face := range m.FacesPerCell[cell] {
		a, b := m.Coords[m.NodesPerFace[face][0]], m.Coords[m.NodesPerFace[face][1]]
		ax, ay := a[0]-ref[0], a[1]-ref[1]
		bx, by := b[0]-ref[0], b[1]-ref[1]
		area += 0.5 * (ax*by - ay*bx)
	}
	return
}

func TestVoronoiTwoSites(t *testing.T) {
	m, err := newVoronoiFromSites(unitBox(2), []geometry2D.Point{
		geometry2D.NewPoint(0.25, 0.5),
		geometry2D.NewPoint(0.75, 0.5),
	})
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Equal(t, 2, m.NumCells())
	assert.Equal(t, 6, m.NumNodes())
	assert.Equal(t, 8, m.NumFaces())
	assert.InDelta(t, 0.5, cellArea(m, 0), 1.e-14)
	assert.InDelta(t, 0.5, cellArea(m, 1), 1.e-14)
	require.Len(t, m.NodesPerSide, 4)
	for s, want := range []int{2, 2, 3, 3} {
		require.Len(t, m.NodesPerSide[s], 1)
		assert.Len(t, m.BoundaryNodes(s), want, types.BoundarySide(s).String())
	}
}

func TestVoronoi2D(t *testing.T) {
	_, err := NewVoronoi2D(unitBox(2), 1, 0)
	assert.Error(t, err)
	_, err = NewVoronoi2D(unitBox(3), 10, 0)
	assert.Error(t, err)

	bounds := Bounds{{-1, 1}, {0, 3}}
	m, err := NewVoronoi2D(bounds, 25, 11)
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Equal(t, 25, m.NumCells())
	var total float64
	for cell := 0; cell < m.NumCells(); cell++ {
		area := cellArea(m, cell)
		assert.Greater(t, area, 0.)
		total += area
	}
	assert.InDelta(t, 6., total, 1.e-9)
	outward2D(t, m)

	// Interior edges are listed once by each neighbour, box edges once
	ec := types.NewEdgeCounter()
	for _, nodes := range m.NodesPerFace {
		require.NoError(t, ec.Add([2]int{nodes[0], nodes[1]}))
	}
	onBox := make(map[int]bool)
	for _, e := range ec.Singles() {
		onBox[e[0]], onBox[e[1]] = true, true
	}
	sideNodes := make(map[int]bool)
	for s := 0; s < 4; s++ {
		side := types.BoundarySide(s)
		for _, node := range m.BoundaryNodes(s) {
			sideNodes[node] = true
			assert.Equal(t, bounds[side.Dim()][b2i(side.IsHigh())], m.Coords[node][side.Dim()])
		}
	}
	assert.Equal(t, onBox, sideNodes)

	again, err := NewVoronoi2D(bounds, 25, 11)
	require.NoError(t, err)
	assert.Equal(t, m.Coords, again.Coords)
}

func TestVoronoiOffsetBox(t *testing.T) {
	for name, bounds := range map[string]Bounds{
		"x 1e3":       {{1e3, 1e3 + 1}, {0, 1}},
		"x 1e4":       {{1e4, 1e4 + 1}, {0, 1}},
		"xy 1e5":      {{1e5, 1e5 + 1}, {-1e5, -1e5 + 1}},
		"x 1e6":       {{1e6, 1e6 + 1}, {0, 1}},
		"anisotropic": {{-1e3, 1e3}, {5, 5.001}},
	} {
		t.Run(name, func(t *testing.T) {
			for seed := uint64(1); seed <= 5; seed++ {
				for _, n := range []int{2, 3, 5, 100} {
					m, err := NewVoronoi2D(bounds, n, seed)
					require.NoError(t, err, "seed %d cells %d", seed, n)
					require.NoError(t, m.Validate())
					require.Equal(t, n, m.NumCells())
					var total float64
					for cell := 0; cell < m.NumCells(); cell++ {
						area := cellArea(m, cell)
						assert.Greater(t, area, 0., "seed %d cell %d", seed, cell)
						total += area
					}
					want := bounds.Width(0) * bounds.Width(1)
					assert.InDelta(t, want, total, 1.e-6*want)

					ec := types.NewEdgeCounter()
					for _, nodes := range m.NodesPerFace {
						require.NoError(t, ec.Add([2]int{nodes[0], nodes[1]}))
					}
					onBox := make(map[int]bool)
					for _, e := range ec.Singles() {
						onBox[e[0]], onBox[e[1]] = true, true
					}
					sideNodes := make(map[int]bool)
					for s := 0; s < 4; s++ {
						side := types.BoundarySide(s)
						nodes := m.BoundaryNodes(s)
						assert.NotEmpty(t, nodes, side.String())
						for _, node := range nodes {
							sideNodes[node] = true
							assert.Equal(t, bounds[side.Dim()][b2i(side.IsHigh())], m.Coords[node][side.Dim()])
						}
					}
					assert.Equal(t, onBox, sideNodes, "seed %d cells %d", seed, n)
				}
			}
		})
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestFactory(t *testing.T) {
	for i, name := range typeNames {
		mt, err := ParseType(name)
		require.NoError(t, err)
		assert.Equal(t, Type(i), mt)
		assert.Equal(t, name, mt.String())
	}
	_, err := ParseType("hex_mesh")
	assert.Error(t, err)

	m, err := New(Params{Type: Orth2D, Bounds: unitBox(2), NumCellsPerDim: []int{2, 2}})
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumCells())
	m, err = New(Params{Type: Voronoi2D, Bounds: unitBox(2), NumCells: 8, Seed: 3})
	require.NoError(t, err)
	assert.Equal(t, 8, m.NumCells())
	_, err = New(Params{Type: Orth3D, Bounds: unitBox(2), NumCellsPerDim: []int{2, 2}})
	assert.Error(t, err)
	assert.Equal(t, 3, Random3D.NDim())
	assert.Equal(t, 2, Voronoi2D.NDim())
}
