package meshtypes

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/notargets/dracotools/geometry2D"
	"github.com/notargets/dracotools/types"
)

// Relative tolerance used to stitch cell vertices and to detect boundary
// edges, scaled by the box diagonal
const voronoiTol = 1.e-9

// NewVoronoi2D scatters numCells generating sites in the box and builds
// their Voronoi tessellation clipped to the box. Each cell owns its own
// faces, so an interior edge appears once per neighbouring cell. Sides are
// xlow, xhigh, ylow, yhigh, each a single sorted unique node list.
func NewVoronoi2D(bounds Bounds, numCells int, seed uint64) (m *Mesh, err error) {
	if err = bounds.Check(2); err != nil {
		return
	}
	if numCells < 2 {
		err = fmt.Errorf("voronoi mesh needs at least 2 cells, have %d", numCells)
		return
	}
	var (
		src = rand.NewPCG(seed, seed)
		ux  = distuv.Uniform{Min: bounds[0][0], Max: bounds[0][1], Src: src}
		uy  = distuv.Uniform{Min: bounds[1][0], Max: bounds[1][1], Src: src}
	)
	sites := make([]geometry2D.Point, numCells)
	for n := range sites {
		// x then y per site, interleaved on one stream
		x := ux.Rand()
		sites[n] = geometry2D.NewPoint(x, uy.Rand())
	}
	return newVoronoiFromSites(bounds, sites)
}

// newVoronoiFromSites works in box local coordinates, origin at the low
// corner, and maps the nodes back at the end with box sides exact
func newVoronoiFromSites(bounds Bounds, sites []geometry2D.Point) (m *Mesh, err error) {
	origin := geometry2D.NewPoint(bounds[0][0], bounds[1][0])
	sites = localSites(sites, origin)
	var (
		box = &geometry2D.BoundingBox{
			XMax: [2]float64{bounds.Width(0), bounds.Width(1)},
		}
		outline = box.Outline()
		diag    = math.Hypot(box.Width(0), box.Width(1))
		tol     = voronoiTol * diag
		st      = newStitcher(box, tol)
	)
	m = &Mesh{
		NDim:         2,
		FacesPerCell: make([][]int, len(sites)),
	}
	for n, site := range sites {
		cell := voronoiCell(outline, sites, n)
		if len(cell) < 3 {
			err = fmt.Errorf("voronoi cell %d at (%g, %g) is degenerate",
				n, site.X[0]+origin.X[0], site.X[1]+origin.X[1])
			return nil, err
		}
		ids := make([]int, 0, len(cell))
		for _, pt := range cell {
			id := st.add(pt)
			if len(ids) > 0 && ids[len(ids)-1] == id {
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) > 1 && ids[0] == ids[len(ids)-1] {
			ids = ids[:len(ids)-1]
		}
		for k := range ids {
			m.FacesPerCell[n] = append(m.FacesPerCell[n], len(m.NodesPerFace))
			m.NodesPerFace = append(m.NodesPerFace, []int{ids[k], ids[(k+1)%len(ids)]})
		}
	}
	m.Coords = make([][]float64, len(st.pts))
	for i, pt := range st.pts {
		m.Coords[i] = make([]float64, 2)
		for d := range m.Coords[i] {
			switch pt.X[d] {
			case 0:
				m.Coords[i][d] = bounds[d][0]
			case box.XMax[d]:
				m.Coords[i][d] = bounds[d][1]
			default:
				m.Coords[i][d] = pt.X[d] + origin.X[d]
			}
		}
	}
	// Boundary faces by side, following the BoundarySide ordering
	var sideNodes [4][]int
	for f, nodes := range m.NodesPerFace {
		var (
			a   = st.pts[nodes[0]]
			b   = st.pts[nodes[1]]
			mid = a.Midpoint(b)
		)
		d0, d1 := twoNearest(sites, mid)
		if math.Abs(d0-d1) <= tol {
			continue
		}
		side, ok := classifyEdge(box, a, b, tol)
		if !ok {
			err = fmt.Errorf("boundary face %d from (%g, %g) to (%g, %g) lies on no side of the box",
				f, m.Coords[nodes[0]][0], m.Coords[nodes[0]][1], m.Coords[nodes[1]][0], m.Coords[nodes[1]][1])
			return nil, err
		}
		sideNodes[side] = append(sideNodes[side], nodes...)
	}
	m.NodesPerSide = make([][][]int, 4)
	for s := range sideNodes {
		m.NodesPerSide[s] = [][]int{uniqueSorted(sideNodes[s])}
	}
	return
}

func localSites(sites []geometry2D.Point, origin geometry2D.Point) (local []geometry2D.Point) {
	local = make([]geometry2D.Point, len(sites))
	for i, s := range sites {
		local[i] = s.Minus(origin)
	}
	return
}

// voronoiCell clips the box by the bisectors of site n with every other
// site, nearest first, until no further site can reach the cell
func voronoiCell(outline geometry2D.Polygon, sites []geometry2D.Point, n int) (cell geometry2D.Polygon) {
	var (
		site  = sites[n]
		order = make([]int, 0, len(sites)-1)
		dist  = make([]float64, len(sites))
	)
	for m, s := range sites {
		dist[m] = s.Dist(site)
		if m != n {
			order = append(order, m)
		}
	}
	sort.Slice(order, func(i, j int) bool { return dist[order[i]] < dist[order[j]] })
	cell = append(geometry2D.Polygon{}, outline...)
	for _, m := range order {
		if 0.5*dist[m] > cell.MaxDist(site) {
			break
		}
		cell = cell.Clip(geometry2D.Bisector(site, sites[m]))
		if len(cell) == 0 {
			break
		}
	}
	return
}

func twoNearest(sites []geometry2D.Point, pt geometry2D.Point) (d0, d1 float64) {
	d0, d1 = math.Inf(1), math.Inf(1)
	for _, s := range sites {
		d := s.Dist(pt)
		switch {
		case d < d0:
			d0, d1 = d, d0
		case d < d1:
			d1 = d
		}
	}
	return
}

func classifyEdge(box *geometry2D.BoundingBox, a, b geometry2D.Point, tol float64) (side types.BoundarySide, ok bool) {
	on := func(v, w float64) bool { return math.Abs(v-w) <= tol }
	switch {
	case on(a.X[0], box.XMin[0]) && on(b.X[0], box.XMin[0]):
		return types.XLow, true
	case on(a.X[0], box.XMax[0]) && on(b.X[0], box.XMax[0]):
		return types.XHigh, true
	case on(a.X[1], box.XMin[1]) && on(b.X[1], box.XMin[1]):
		return types.YLow, true
	case on(a.X[1], box.XMax[1]) && on(b.X[1], box.XMax[1]):
		return types.YHigh, true
	}
	return
}

func uniqueSorted(nodes []int) (out []int) {
	sort.Ints(nodes)
	for i, n := range nodes {
		if i == 0 || n != nodes[i-1] {
			out = append(out, n)
		}
	}
	return
}

// stitcher merges vertices closer than tol into one node, using a bucket
// hash with neighbour lookup. Vertices within tol of the box are snapped
// onto it.
type stitcher struct {
	box     *geometry2D.BoundingBox
	tol     float64
	pts     []geometry2D.Point
	buckets map[[2]int64][]int
}

func newStitcher(box *geometry2D.BoundingBox, tol float64) *stitcher {
	return &stitcher{
		box:     box,
		tol:     tol,
		buckets: make(map[[2]int64][]int),
	}
}

func (st *stitcher) key(pt geometry2D.Point) [2]int64 {
	return [2]int64{
		int64(math.Floor(pt.X[0] / st.tol)),
		int64(math.Floor(pt.X[1] / st.tol)),
	}
}

func (st *stitcher) add(pt geometry2D.Point) (id int) {
	for d := 0; d < 2; d++ {
		if math.Abs(pt.X[d]-st.box.XMin[d]) <= st.tol {
			pt.X[d] = st.box.XMin[d]
		}
		if math.Abs(pt.X[d]-st.box.XMax[d]) <= st.tol {
			pt.X[d] = st.box.XMax[d]
		}
	}
	k := st.key(pt)
	for di := int64(-1); di <= 1; di++ {
		for dj := int64(-1); dj <= 1; dj++ {
			for _, cand := range st.buckets[[2]int64{k[0] + di, k[1] + dj}] {
				if st.pts[cand].Dist(pt) <= st.tol {
					return cand
				}
			}
		}
	}
	id = len(st.pts)
	st.pts = append(st.pts, pt)
	st.buckets[k] = append(st.buckets[k], id)
	return
}
