package types

import (
	"fmt"
	"math"
	"sort"
)

/*
EdgeKey packs the two node indices of an undirected edge into one comparable
value. The edge between nodes [4] and [0] is always stored as [0,4].
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey, err error) {
	for _, vert := range verts {
		if vert < 0 || vert > math.MaxUint32 {
			err = fmt.Errorf("unable to pack node indices %d and %d into an edge key",
				verts[0], verts[1])
			return
		}
	}
	i1, i2 := verts[0], verts[1]
	if i1 > i2 {
		i1, i2 = i2, i1
	}
	packed = EdgeKey(uint64(i1) | uint64(i2)<<32)
	return
}

func (ek EdgeKey) GetVertices() (verts [2]int) {
	verts[0] = int(ek & math.MaxUint32)
	verts[1] = int(ek >> 32)
	return
}

// EdgeCounter tallies how many faces reference each undirected edge. In a 2D
// polygon mesh an edge seen once lies on the boundary.
type EdgeCounter struct {
	counts map[EdgeKey]int
	order  []EdgeKey
}

func NewEdgeCounter() *EdgeCounter {
	return &EdgeCounter{counts: make(map[EdgeKey]int)}
}

func (ec *EdgeCounter) Add(verts [2]int) (err error) {
	var ek EdgeKey
	if ek, err = NewEdgeKey(verts); err != nil {
		return
	}
	if _, present := ec.counts[ek]; !present {
		ec.order = append(ec.order, ek)
	}
	ec.counts[ek]++
	return
}

func (ec *EdgeCounter) Count(verts [2]int) int {
	ek, err := NewEdgeKey(verts)
	if err != nil {
		return 0
	}
	return ec.counts[ek]
}

func (ec *EdgeCounter) Len() int { return len(ec.order) }

// Edges returns every distinct edge in first-seen order
func (ec *EdgeCounter) Edges() (edges [][2]int) {
	edges = make([][2]int, len(ec.order))
	for i, ek := range ec.order {
		edges[i] = ek.GetVertices()
	}
	return
}

// Singles returns, sorted by key, the edges referenced exactly once
func (ec *EdgeCounter) Singles() (edges [][2]int) {
	keys := make([]EdgeKey, 0)
	for ek, count := range ec.counts {
		if count == 1 {
			keys = append(keys, ek)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, ek := range keys {
		edges = append(edges, ek.GetVertices())
	}
	return
}
