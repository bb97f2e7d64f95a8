package readfiles

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSU2(t *testing.T) {
	sm, err := ParseSU2(bytes.NewReader(inputFile))
	require.NoError(t, err)
	assert.Equal(t, 18, sm.NumNodes())
	assert.Equal(t, 22, sm.NumCells())
	assert.Equal(t, 66, sm.NumFaces())
	assert.Equal(t, []float64{-7.100939331382065, 2.889910324036197}, sm.Coords[17])
	assert.Equal(t, []string{"periodic-left", "periodic-right", "top", "bottom"}, sm.Markers)
	require.Len(t, sm.NodesPerSide, 4)
	assert.Equal(t, [][]int{{3, 11}, {11, 0}}, sm.NodesPerSide[0])
	assert.Equal(t, []int{2, 3, 8, 9, 10}, sm.BoundaryNodes(2))
	assert.Equal(t, [][]int{{5, 6}, {6, 13}, {13, 5}},
		[][]int{sm.NodesPerFace[0], sm.NodesPerFace[1], sm.NodesPerFace[2]})
	for cell, faces := range sm.FacesPerCell {
		var nodes []int
		for _, face := range faces {
			nodes = append(nodes, sm.NodesPerFace[face][0])
		}
		assert.Greater(t, signedArea(sm.Coords, nodes), 0., "cell %d", cell)
	}

	path := writeMesh(t, sm.Mesh)
	xf, err := ReadX3D(path, true)
	require.NoError(t, err)
	assert.Equal(t, 22, xf.NumCells())
	require.Len(t, xf.Boundaries, 4)
	assert.Equal(t, []int{2, 3, 8, 9, 10}, xf.Boundaries[2])

	// Extra sides past 2*NDim are picked up
	require.NoError(t, os.WriteFile(strings.TrimSuffix(path, ".in")+".bdy5.in", []byte("1\n2\n"), 0o644))
	xf, err = ReadX3D(path, true)
	require.NoError(t, err)
	require.Len(t, xf.Boundaries, 5)
	assert.Equal(t, []int{0, 1}, xf.Boundaries[4])
}

func TestReadSU2Clockwise(t *testing.T) {
	sm, err := ParseSU2(strings.NewReader(`NDIME= 2
NELEM= 1
9 0 3 2 1 0
NPOIN= 4
0 0
1 0
1 1
0 1
NMARK= 2
MARKER_TAG= wall
MARKER_ELEMS= 2
3 0 1
3 1 2
MARKER_TAG= wall
MARKER_ELEMS= 1
3 2 3
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"wall"}, sm.Markers)
	assert.Len(t, sm.NodesPerSide[0], 3)
	assert.Equal(t, [][]int{{1, 2}, {2, 3}, {3, 0}, {0, 1}}, sm.NodesPerFace)
}

func TestReadSU2Errors(t *testing.T) {
	for name, text := range map[string]string{
		"3D":            "NDIME= 3\n",
		"no count":      "NDIME= 2\nNELEM= x\n",
		"tetrahedra":    "NDIME= 2\nNELEM= 1\n10 0 1 2 3\n",
		"short element": "NDIME= 2\nNELEM= 1\n5 0 1\n",
		"truncated":     "NDIME= 2\nNELEM= 1\n5 0 1 2\nNPOIN= 3\n0 0\n",
		"node range":    "NDIME= 2\nNELEM= 1\n5 0 1 3\nNPOIN= 3\n0 0\n1 0\n0 1\nNMARK= 1\nMARKER_TAG= a\nMARKER_ELEMS= 1\n3 0 1\n",
		"no markers":    "NDIME= 2\nNELEM= 1\n5 0 1 2\nNPOIN= 3\n0 0\n1 0\n0 1\nNMARK= 0\n",
		"marker type":   "NDIME= 2\nNELEM= 1\n5 0 1 2\nNPOIN= 3\n0 0\n1 0\n0 1\nNMARK= 1\nMARKER_TAG= a\nMARKER_ELEMS= 1\n5 0 1 2\n",
	} {
		_, err := ParseSU2(strings.NewReader(text))
		assert.Error(t, err, name)
	}
}

var (
	inputFile = []byte(` %This is an example input file in SU2 format, output from gmsh
% Comments can appear outside of data areas
NDIME= 2
% Comments can appear outside of data areas
NELEM= 22
5 5 6 13 0
5 9 10 12 1
5 12 5 13 2
5 9 12 13 3
5 13 6 14 4
5 12 10 15 5
5 8 9 13 6
5 4 5 12 7
5 1 7 14 8
5 6 1 14 9
5 3 11 15 10
5 10 3 15 11
5 8 13 16 12
5 4 12 17 13
5 13 14 16 14
5 12 15 17 15
5 7 2 16 16
5 11 0 17 17
5 2 8 16 18
5 0 4 17 19
5 14 7 16 20
5 15 11 17 21
% Comments can appear outside of data areas
NPOIN= 18
-10 0 0
10 0 1
10 10 2
-10 10 3
-5.000000000004944 0 4
-1.231725832440134e-11 0 5
4.99999999999384 0 6
10 4.999999999992398 7
5.000000000004944 10 8
1.231725832440134e-11 10 9
-4.99999999999384 10 10
-10 5 11
-2.500000000008632 4.330127018915808 12
2.50000000000863 5.669872981084192 13
6.712741669205853 3.668411415814691 14
-6.712741669205681 6.331588584184096 15
7.100939331384343 7.110089675963254 16
-7.100939331382065 2.889910324036197 17
NMARK= 4
% Comments can appear outside of data areas
MARKER_TAG= periodic-left
% Comments can appear outside of data areas
MARKER_ELEMS= 2
3 3 11
3 11 0
% Comments can appear outside of data areas
MARKER_TAG= periodic-right
MARKER_ELEMS= 2
3 1 7
3 7 2
% Comments can appear outside of data areas
MARKER_TAG= top
MARKER_ELEMS= 4
3 2 8
3 8 9
3 9 10
3 10 3
MARKER_TAG= bottom
% Comments can appear outside of data areas
MARKER_ELEMS= 4
3 0 4
3 4 5
3 5 6
3 6 1
% Comments can appear outside of data areas
`)
)
