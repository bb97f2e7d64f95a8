package InputParameters

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/dracotools/meshtypes"
)

func TestMeshParameters(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
Name: box
MeshType: rnd_2d_mesh
NumPerDim: [4, 2]
Bounds: [0, 2, 0, 1]
Eps: 0.25
Seed: 7
Regions:
  - ID: 3
    Bounds: [0, 1, 0, 1]
  - ID: 4
    Bounds: [0.5, 1, 0, 0.5]
`)
	input := NewMeshParameters()
	require.NoError(t, input.Parse(fileInput))
	assert.Equal(t, "box", input.Name)
	assert.Equal(t, 0.25, input.Eps)
	// Not in the deck, keeps the default
	assert.Equal(t, 100, input.NumCells)
	require.Len(t, input.Regions, 2)
	assert.Equal(t, []float64{0.5, 1, 0, 0.5}, input.Regions[1].Bounds)

	var buf bytes.Buffer
	input.Fprint(&buf)
	assert.Contains(t, buf.String(), "[rnd_2d_mesh]")
	assert.Contains(t, buf.String(), "Regions[4] = [0.5 1 0 0.5]")

	p, err := input.MeshParams()
	require.NoError(t, err)
	assert.Equal(t, meshtypes.Random2D, p.Type)
	assert.Equal(t, meshtypes.Bounds{{0, 2}, {0, 1}}, p.Bounds)
	assert.Equal(t, uint64(7), p.Seed)

	m, r, err := input.Generate()
	require.NoError(t, err)
	assert.Equal(t, 8, m.NumCells())
	assert.Equal(t, []int{0, 3, 4}, r.IDs)
	// 3 takes the left half, 4 a quarter of that
	assert.Len(t, r.Cells[0], 4)
	assert.Len(t, r.Cells[1], 3)
	assert.Len(t, r.Cells[2], 1)
}

func TestMeshParametersErrors(t *testing.T) {
	for name, deck := range map[string]string{
		"unknown type":  "MeshType: hex_mesh\n",
		"bounds size":   "MeshType: orth_3d_mesh\nNumPerDim: [1, 1, 1]\n",
		"odd bounds":    "Bounds: [0, 1, 0]\n",
		"region bounds": "Regions:\n  - ID: 1\n    Bounds: [0, 1]\n",
		"cells per dim": "NumPerDim: [1]\n",
		"eps":           "MeshType: rnd_2d_mesh\nEps: 2\n",
		"voronoi cells": "MeshType: vor_2d_mesh\nNumCells: 1\n",
	} {
		t.Run(name, func(t *testing.T) {
			input := NewMeshParameters()
			require.NoError(t, input.Parse([]byte(deck)))
			_, _, err := input.Generate()
			assert.Error(t, err)
		})
	}
	assert.Error(t, NewMeshParameters().Parse([]byte("Bounds: [")))
}
