package geometry2D

import (
	"math"
)

// SoftEquivTol is the relative tolerance used to compare mesh coordinates
const SoftEquivTol = 1.e-12

type Point struct {
	X [2]float64
}

func NewPoint(x, y float64) Point {
	return Point{X: [2]float64{x, y}}
}

func (pt Point) Minus(rhs Point) Point {
	return Point{X: [2]float64{
		pt.X[0] - rhs.X[0],
		pt.X[1] - rhs.X[1],
	}}
}
func (pt Point) Plus(rhs Point) Point {
	return Point{X: [2]float64{
		pt.X[0] + rhs.X[0],
		pt.X[1] + rhs.X[1],
	}}
}
func (pt Point) Scale(a float64) Point {
	return Point{X: [2]float64{a * pt.X[0], a * pt.X[1]}}
}
func (pt Point) Dot(rhs Point) float64 {
	return pt.X[0]*rhs.X[0] + pt.X[1]*rhs.X[1]
}

// Cross returns the z component of the cross product
func (pt Point) Cross(rhs Point) float64 {
	return pt.X[0]*rhs.X[1] - pt.X[1]*rhs.X[0]
}
func (pt Point) Mag() float64 {
	return math.Hypot(pt.X[0], pt.X[1])
}
func (pt Point) Dist(rhs Point) float64 {
	return pt.Minus(rhs).Mag()
}
func (pt Point) Midpoint(rhs Point) Point {
	return pt.Plus(rhs).Scale(0.5)
}
func (pt Point) Equiv(rhs Point, eps float64) bool {
	return SoftEquiv(pt.X[0], rhs.X[0], eps) && SoftEquiv(pt.X[1], rhs.X[1], eps)
}

type BoundingBox struct {
	XMin [2]float64
	XMax [2]float64
}

func NewBoundingBox(Geometry []Point) (Box *BoundingBox) {
	if len(Geometry) == 0 {
		return nil
	}
	Box = new(BoundingBox)
	Box.XMin = Geometry[0].X
	Box.XMax = Geometry[0].X
	for _, point := range Geometry {
		for i := 0; i < 2; i++ {
			if point.X[i] < Box.XMin[i] {
				Box.XMin[i] = point.X[i]
			}
			if point.X[i] > Box.XMax[i] {
				Box.XMax[i] = point.X[i]
			}
		}
	}
	return Box
}

func (bb *BoundingBox) Centroid() Point {
	return Point{X: [2]float64{
		0.5 * (bb.XMax[0] + bb.XMin[0]),
		0.5 * (bb.XMax[1] + bb.XMin[1]),
	}}
}

func (bb *BoundingBox) Scale(scale float64) (bbOut *BoundingBox) {
	bbOut = new(BoundingBox)
	for i := 0; i < 2; i++ {
		xRange := bb.XMax[i] - bb.XMin[i]
		centroid := bb.XMin[i] + 0.5*xRange
		bbOut.XMin[i] = scale*(bb.XMin[i]-centroid) + centroid
		bbOut.XMax[i] = scale*(bb.XMax[i]-centroid) + centroid
	}
	return bbOut
}

func (bb *BoundingBox) Width(dim int) float64 {
	return bb.XMax[dim] - bb.XMin[dim]
}

func (bb *BoundingBox) PointInside(point Point) (within bool) {
	for ii := 0; ii < 2; ii++ {
		if point.X[ii] > bb.XMax[ii] || point.X[ii] < bb.XMin[ii] {
			return false
		}
	}
	return true
}

// Outline returns the box corners counter clockwise starting at the low corner
func (bb *BoundingBox) Outline() Polygon {
	return Polygon{
		NewPoint(bb.XMin[0], bb.XMin[1]),
		NewPoint(bb.XMax[0], bb.XMin[1]),
		NewPoint(bb.XMax[0], bb.XMax[1]),
		NewPoint(bb.XMin[0], bb.XMax[1]),
	}
}

// SoftEquiv compares a and b to a relative tolerance. Values close to zero
// are compared absolutely against eps, since a relative measure is
// meaningless there.
func SoftEquiv(a, b, eps float64) bool {
	if a == b {
		return true
	}
	if math.Abs(a) < eps && math.Abs(b) < eps {
		return true
	}
	return 2*math.Abs(a-b)/(math.Abs(a)+math.Abs(b)+eps) < eps
}
