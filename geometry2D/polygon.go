package geometry2D

// Polygon is a closed loop of vertices, the last connecting back to the first
type Polygon []Point

// Area returns the signed area, positive for counter clockwise ordering
func (poly Polygon) Area() (area float64) {
	n := len(poly)
	for i := 0; i < n; i++ {
		area += poly[i].Cross(poly[(i+1)%n])
	}
	return 0.5 * area
}

func (poly Polygon) Centroid() (ct Point) {
	if len(poly) == 0 {
		return
	}
	for _, pt := range poly {
		ct = ct.Plus(pt)
	}
	return ct.Scale(1 / float64(len(poly)))
}

// MaxDist is the largest distance from pt to any polygon vertex
func (poly Polygon) MaxDist(pt Point) (dMax float64) {
	for _, v := range poly {
		if d := v.Dist(pt); d > dMax {
			dMax = d
		}
	}
	return
}

// HalfPlane is the set of points p with N·(p-P) <= C
type HalfPlane struct {
	N Point
	P Point
	C float64
}

// Bisector returns the half plane of points at least as close to a as to b.
// It is anchored at the midpoint so the test stays accurate far from the
// origin.
func Bisector(a, b Point) HalfPlane {
	return HalfPlane{
		N: b.Minus(a),
		P: a.Midpoint(b),
	}
}

func (hp HalfPlane) eval(pt Point) float64 {
	return hp.N.Dot(pt.Minus(hp.P)) - hp.C
}

// Clip applies one Sutherland-Hodgman pass, keeping the part of the polygon
// inside the half plane. Vertex order is preserved.
func (poly Polygon) Clip(hp HalfPlane) (out Polygon) {
	n := len(poly)
	if n == 0 {
		return
	}
	out = make(Polygon, 0, n+1)
	for i := 0; i < n; i++ {
		var (
			cur  = poly[i]
			next = poly[(i+1)%n]
			dc   = hp.eval(cur)
			dn   = hp.eval(next)
		)
		if dc <= 0 {
			out = append(out, cur)
		}
		if (dc < 0 && dn > 0) || (dc > 0 && dn < 0) {
			t := dc / (dc - dn)
			out = append(out, cur.Plus(next.Minus(cur).Scale(t)))
		}
	}
	return out.dedup()
}

// dedup removes consecutive coincident vertices left by clipping through a vertex
func (poly Polygon) dedup() (out Polygon) {
	n := len(poly)
	out = make(Polygon, 0, n)
	for i := 0; i < n; i++ {
		if len(out) > 0 && out[len(out)-1].Equiv(poly[i], SoftEquivTol) {
			continue
		}
		out = append(out, poly[i])
	}
	if len(out) > 1 && out[0].Equiv(out[len(out)-1], SoftEquivTol) {
		out = out[:len(out)-1]
	}
	return
}
