package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/notargets/dracotools/types"
)

// X3DFile is an X3D mesh as read back from disk, with all indices converted
// to zero based
type X3DFile struct {
	NDim       int
	Nodes      [][3]float64
	Faces      [][]int // Node indices per face, in face id order
	Cells      [][]int // Face indices per cell
	Boundaries [][]int // Node indices per side, when boundary files were read
}

func (xf *X3DFile) NumNodes() int { return len(xf.Nodes) }
func (xf *X3DFile) NumFaces() int { return len(xf.Faces) }
func (xf *X3DFile) NumCells() int { return len(xf.Cells) }

// ReadX3D parses the mesh file at path and, if it exists, the set of
// boundary node files written beside it
func ReadX3D(path string, withBoundaries bool) (xf *X3DFile, err error) {
	var file *os.File
	if file, err = os.Open(path); err != nil {
		return
	}
	defer file.Close()
	if xf, err = ParseX3D(file); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if withBoundaries {
		if err = xf.ReadBoundaries(path); err != nil {
			return nil, err
		}
	}
	return
}

type x3dFace struct {
	id    int
	nodes []int
}

// ParseX3D reads the header, nodes, faces and cells blocks. Everything else
// in the file is skipped.
func ParseX3D(r io.Reader) (xf *X3DFile, err error) {
	var (
		scanner = bufio.NewScanner(r)
		block   string
		lineNo  int
		counts  = map[string]int{}
		faces   []x3dFace
	)
	xf = &X3DFile{}
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if block == "" {
			switch line {
			case "header", "nodes", "faces", "cells":
				block = line
			}
			continue
		}
		if line == "end_"+block {
			block = ""
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch block {
		case "header":
			if len(fields) < 2 {
				continue
			}
			var n int
			if n, err = strconv.Atoi(fields[1]); err != nil {
				return nil, fmt.Errorf("line %d: header entry %s: %w", lineNo, fields[0], err)
			}
			counts[fields[0]] = n
		case "nodes":
			if len(fields) != 4 {
				return nil, fmt.Errorf("line %d: node needs an id and 3 coordinates, have %d fields",
					lineNo, len(fields))
			}
			var crd [3]float64
			for i := range crd {
				if crd[i], err = strconv.ParseFloat(fields[i+1], 64); err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
			}
			xf.Nodes = append(xf.Nodes, crd)
		case "faces":
			var ids []int
			if ids, err = parseList(fields); err != nil {
				return nil, fmt.Errorf("line %d: face: %w", lineNo, err)
			}
			faces = append(faces, x3dFace{id: ids[0], nodes: ids[1:]})
		case "cells":
			var ids []int
			if ids, err = parseList(fields); err != nil {
				return nil, fmt.Errorf("line %d: cell: %w", lineNo, err)
			}
			xf.Cells = append(xf.Cells, ids[1:])
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(faces, func(i, j int) bool { return faces[i].id < faces[j].id })
	xf.Faces = make([][]int, len(faces))
	for i, f := range faces {
		if f.id != i+1 {
			return nil, fmt.Errorf("face ids must run 1 to %d, have %d after %d", len(faces), f.id, i)
		}
		xf.Faces[i] = f.nodes
	}

	for _, key := range []string{"numdim", "nodes", "faces", "elements"} {
		if _, ok := counts[key]; !ok {
			return nil, fmt.Errorf("header is missing %s", key)
		}
	}
	xf.NDim = counts["numdim"]
	for _, c := range []struct {
		key  string
		have int
	}{
		{"nodes", xf.NumNodes()},
		{"faces", xf.NumFaces()},
		{"elements", xf.NumCells()},
	} {
		if c.have != counts[c.key] {
			return nil, fmt.Errorf("header gives %d %s, file has %d", counts[c.key], c.key, c.have)
		}
	}
	for cell, faceIDs := range xf.Cells {
		for _, face := range faceIDs {
			if face < 0 || face >= xf.NumFaces() {
				return nil, fmt.Errorf("cell %d references face %d, have %d faces",
					cell+1, face+1, xf.NumFaces())
			}
		}
	}
	for face, nodes := range xf.Faces {
		for _, node := range nodes {
			if node < 0 || node >= xf.NumNodes() {
				return nil, fmt.Errorf("face %d references node %d, have %d nodes",
					face+1, node+1, xf.NumNodes())
			}
		}
	}
	return
}

// parseList reads "id count v1 .. vcount", returning the id followed by the
// values converted to zero based indices
func parseList(fields []string) (ids []int, err error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("need at least 3 fields, have %d", len(fields))
	}
	nums := make([]int, len(fields))
	for i, f := range fields {
		if nums[i], err = strconv.Atoi(f); err != nil {
			return nil, err
		}
	}
	count := nums[1]
	if count < 1 || len(nums) < count+2 {
		return nil, fmt.Errorf("count %d does not match %d listed values", count, len(nums)-2)
	}
	ids = make([]int, count+1)
	ids[0] = nums[0]
	for i := 0; i < count; i++ {
		ids[i+1] = nums[i+2] - 1
	}
	return
}

// BoundaryFileNames lists the boundary node files for a mesh file, one per
// side. The mesh file name must end in ".in".
func BoundaryFileNames(path string, ndim int) (names []string, err error) {
	if !strings.HasSuffix(path, ".in") {
		return nil, fmt.Errorf("mesh file name %q does not end in .in", path)
	}
	root := strings.TrimSuffix(path, ".in")
	for n := 0; n < 2*ndim; n++ {
		names = append(names, fmt.Sprintf("%s.bdy%d.in", root, n+1))
	}
	return
}

// ReadBoundaries reads the 2*NDim side files, then any further bdy<k> files
// that follow them, as written for imported meshes with more markers
func (xf *X3DFile) ReadBoundaries(path string) (err error) {
	var names []string
	if names, err = BoundaryFileNames(path, xf.NDim); err != nil {
		return
	}
	root := strings.TrimSuffix(path, ".in")
	for n := len(names) + 1; ; n++ {
		extra := fmt.Sprintf("%s.bdy%d.in", root, n)
		if _, err = os.Stat(extra); err != nil {
			break
		}
		names = append(names, extra)
	}
	xf.Boundaries = make([][]int, len(names))
	for n, name := range names {
		if xf.Boundaries[n], err = readBoundary(name); err != nil {
			return
		}
	}
	return
}

func readBoundary(name string) (nodes []int, err error) {
	var file *os.File
	if file, err = os.Open(name); err != nil {
		return
	}
	defer file.Close()
	if nodes, err = ParseBoundary(file); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return
}

// ParseBoundary reads one 1-based node id per line
func ParseBoundary(r io.Reader) (nodes []int, err error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var node int
		if node, err = strconv.Atoi(line); err != nil {
			return nil, err
		}
		nodes = append(nodes, node-1)
	}
	err = scanner.Err()
	return
}

// BoundaryFaces returns the faces with every node in the boundary set
func (xf *X3DFile) BoundaryFaces(boundary []int) (faces []int) {
	in := make(map[int]bool, len(boundary))
	for _, node := range boundary {
		in[node] = true
	}
	for f, nodes := range xf.Faces {
		all := true
		for _, node := range nodes {
			if !in[node] {
				all = false
				break
			}
		}
		if all {
			faces = append(faces, f)
		}
	}
	return
}

// UniqueEdges collects undirected edges over all two node faces reached
// through the cells, in first seen order
func (xf *X3DFile) UniqueEdges() (edges [][2]int, err error) {
	ec := types.NewEdgeCounter()
	for _, faces := range xf.Cells {
		for _, face := range faces {
			nodes := xf.Faces[face]
			if len(nodes) != 2 {
				continue
			}
			if err = ec.Add([2]int{nodes[0], nodes[1]}); err != nil {
				return
			}
		}
	}
	return ec.Edges(), nil
}

// Summary describes the extent and size of a mesh file
type Summary struct {
	NDim, Nodes, Faces, Cells int
	Min, Max                  [3]float64
	BoundaryFaces             []int // Face count per side
}

func (xf *X3DFile) Summary() (s Summary) {
	s = Summary{
		NDim:  xf.NDim,
		Nodes: xf.NumNodes(),
		Faces: xf.NumFaces(),
		Cells: xf.NumCells(),
	}
	for i, crd := range xf.Nodes {
		for d := range crd {
			if i == 0 || crd[d] < s.Min[d] {
				s.Min[d] = crd[d]
			}
			if i == 0 || crd[d] > s.Max[d] {
				s.Max[d] = crd[d]
			}
		}
	}
	for _, bdy := range xf.Boundaries {
		s.BoundaryFaces = append(s.BoundaryFaces, len(xf.BoundaryFaces(bdy)))
	}
	return
}

func (s Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "dimensions %d, nodes %d, faces %d, cells %d\n", s.NDim, s.Nodes, s.Faces, s.Cells)
	for d := 0; d < min(s.NDim, 3); d++ {
		fmt.Fprintf(&sb, "  %c: [%g, %g]\n", "xyz"[d], s.Min[d], s.Max[d])
	}
	for n, nf := range s.BoundaryFaces {
		fmt.Fprintf(&sb, "  boundary %d: %d faces\n", n+1, nf)
	}
	return sb.String()
}
