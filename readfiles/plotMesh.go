package readfiles

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"

	"github.com/notargets/dracotools/geometry2D"
)

var (
	edgeColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	nodeColor = utils2.BLUE
	// One per side, cycled if a mesh has more
	sideColors = []color.RGBA{
		{R: 31, G: 119, B: 180, A: 255},
		{R: 255, G: 127, B: 14, A: 255},
		{R: 44, G: 160, B: 44, A: 255},
		{R: 214, G: 39, B: 40, A: 255},
	}
)

// MeshLines builds the line segments to draw a 2D mesh: every unique edge,
// the boundary faces in one colour per side, and a cross hair per node.
// Segments are packed x1,y1,x2,y2 per colour.
func MeshLines(xf *X3DFile) (lines map[color.RGBA][]float32, box *geometry2D.BoundingBox, err error) {
	switch xf.NDim {
	case 2:
	case 1, 3:
		return nil, nil, fmt.Errorf("%dD plotting not supported", xf.NDim)
	default:
		return nil, nil, fmt.Errorf("invalid mesh dimension %d", xf.NDim)
	}
	var (
		edges [][2]int
		pts   = make([]geometry2D.Point, xf.NumNodes())
	)
	for i, crd := range xf.Nodes {
		pts[i] = geometry2D.NewPoint(crd[0], crd[1])
	}
	if box = geometry2D.NewBoundingBox(pts); box == nil {
		return nil, nil, fmt.Errorf("mesh has no nodes")
	}
	if edges, err = xf.UniqueEdges(); err != nil {
		return
	}
	lines = make(map[color.RGBA][]float32)
	for _, e := range edges {
		addLine(pts[e[0]], pts[e[1]], edgeColor, lines)
	}
	for n, bdy := range xf.Boundaries {
		col := sideColors[n%len(sideColors)]
		for _, face := range xf.BoundaryFaces(bdy) {
			nodes := xf.Faces[face]
			if len(nodes) != 2 {
				continue
			}
			addLine(pts[nodes[0]], pts[nodes[1]], col, lines)
		}
	}
	size := 0.01 * math.Max(box.Width(0), box.Width(1))
	for _, pt := range pts {
		addCrossHair(pt, size, nodeColor, lines)
	}
	return
}

func addLine(a, b geometry2D.Point, col color.RGBA, lines map[color.RGBA][]float32) {
	lines[col] = append(lines[col],
		float32(a.X[0]), float32(a.X[1]),
		float32(b.X[0]), float32(b.X[1]),
	)
}

func addCrossHair(pt geometry2D.Point, size float64, col color.RGBA, lines map[color.RGBA][]float32) {
	var (
		x, y = float32(pt.X[0]), float32(pt.X[1])
		s    = float32(size)
	)
	lines[col] = append(lines[col],
		x-s, y, x+s, y,
		x, y-s, x, y+s,
	)
}

// PlotMesh opens a chart window on the mesh and blocks while it is shown
func PlotMesh(xf *X3DFile) (err error) {
	var (
		lines map[color.RGBA][]float32
		box   *geometry2D.BoundingBox
	)
	if lines, box, err = MeshLines(xf); err != nil {
		return
	}
	box = box.Scale(1.1)
	ch := chart2d.NewChart2D(
		float32(box.XMin[0]), float32(box.XMax[0]),
		float32(box.XMin[1]), float32(box.XMax[1]),
		1024, 1024, utils2.WHITE, utils2.BLACK)
	for col, line := range lines {
		ch.AddLine(line, col)
	}
	for {
		time.Sleep(time.Second)
	}
}
