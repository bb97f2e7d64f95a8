package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/dracotools/meshtypes"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	SU2Line          SU2ElementType = 3
	SU2Triangle      SU2ElementType = 5
	SU2Quadrilateral SU2ElementType = 9
)

func (et SU2ElementType) numNodes() int {
	switch et {
	case SU2Line:
		return 2
	case SU2Triangle:
		return 3
	case SU2Quadrilateral:
		return 4
	}
	return 0
}

// SU2Mesh is a 2D SU2 mesh in face based form with one boundary side per
// marker. Markers repeating a tag are appended to the same side.
type SU2Mesh struct {
	*meshtypes.Mesh
	Markers []string
}

func ReadSU2(path string) (sm *SU2Mesh, err error) {
	var file *os.File
	if file, err = os.Open(path); err != nil {
		return
	}
	defer file.Close()
	if sm, err = ParseSU2(file); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return
}

func ParseSU2(r io.Reader) (sm *SU2Mesh, err error) {
	var (
		s                  = &su2Scanner{sc: bufio.NewScanner(r)}
		ndim, nelem, npoin int
		nmark              int
		cells              [][]int
		coords             [][]float64
	)
	if ndim, err = s.count("NDIME"); err != nil {
		return
	}
	if ndim != 2 {
		return nil, fmt.Errorf("only 2D meshes can be converted, have NDIME= %d", ndim)
	}
	if nelem, err = s.count("NELEM"); err != nil {
		return
	}
	cells = make([][]int, nelem)
	for k := range cells {
		if cells[k], err = s.element(SU2Triangle, SU2Quadrilateral); err != nil {
			return
		}
	}
	if npoin, err = s.count("NPOIN"); err != nil {
		return
	}
	coords = make([][]float64, npoin)
	for i := range coords {
		if coords[i], err = s.point(); err != nil {
			return
		}
	}
	m := &meshtypes.Mesh{NDim: 2, Coords: coords}
	for k, nodes := range cells {
		for _, n := range nodes {
			if n < 0 || n >= npoin {
				return nil, fmt.Errorf("element %d references node %d, have %d nodes", k, n, npoin)
			}
		}
		if signedArea(coords, nodes) < 0 {
			for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
				nodes[i], nodes[j] = nodes[j], nodes[i]
			}
		}
		faces := make([]int, len(nodes))
		for i := range nodes {
			faces[i] = m.NumFaces()
			m.NodesPerFace = append(m.NodesPerFace, []int{nodes[i], nodes[(i+1)%len(nodes)]})
		}
		m.FacesPerCell = append(m.FacesPerCell, faces)
	}
	sm = &SU2Mesh{Mesh: m}
	if nmark, err = s.count("NMARK"); err != nil {
		return nil, err
	}
	sides := make(map[string]int)
	for n := 0; n < nmark; n++ {
		var (
			tag    string
			nEdges int
		)
		if tag, err = s.keyword("MARKER_TAG"); err != nil {
			return nil, err
		}
		if nEdges, err = s.count("MARKER_ELEMS"); err != nil {
			return nil, err
		}
		side, ok := sides[tag]
		if !ok {
			side = len(sm.Markers)
			sides[tag] = side
			sm.Markers = append(sm.Markers, tag)
			m.NodesPerSide = append(m.NodesPerSide, nil)
		}
		for i := 0; i < nEdges; i++ {
			var edge []int
			if edge, err = s.element(SU2Line); err != nil {
				return nil, fmt.Errorf("marker %s: %w", tag, err)
			}
			m.NodesPerSide[side] = append(m.NodesPerSide[side], edge)
		}
	}
	if err = m.Validate(); err != nil {
		return nil, err
	}
	return
}

// signedArea is positive for counter clockwise node order
func signedArea(coords [][]float64, nodes []int) (a float64) {
	for i, n := range nodes {
		p, q := coords[n], coords[nodes[(i+1)%len(nodes)]]
		a += p[0]*q[1] - q[0]*p[1]
	}
	return a / 2
}

type su2Scanner struct {
	sc     *bufio.Scanner
	lineNo int
}

// next skips blank lines and % comments
func (s *su2Scanner) next() (line string, err error) {
	for s.sc.Scan() {
		s.lineNo++
		line = strings.TrimSpace(s.sc.Text())
		if line != "" && !strings.HasPrefix(line, "%") {
			return
		}
	}
	if err = s.sc.Err(); err == nil {
		err = io.ErrUnexpectedEOF
	}
	return "", err
}

func (s *su2Scanner) keyword(key string) (value string, err error) {
	var line string
	if line, err = s.next(); err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	k, v, ok := strings.Cut(line, "=")
	if !ok || strings.TrimSpace(k) != key {
		return "", fmt.Errorf("line %d: expected %s=, have %q", s.lineNo, key, line)
	}
	return strings.TrimSpace(v), nil
}

func (s *su2Scanner) count(key string) (n int, err error) {
	var value string
	if value, err = s.keyword(key); err != nil {
		return
	}
	if n, err = strconv.Atoi(value); err != nil || n < 0 {
		return 0, fmt.Errorf("line %d: %s must be a count, have %q", s.lineNo, key, value)
	}
	return
}

// element reads a type code followed by its node indices, trailing fields
// such as the element index are ignored
func (s *su2Scanner) element(allowed ...SU2ElementType) (nodes []int, err error) {
	var (
		line   string
		fields []string
		code   int
	)
	if line, err = s.next(); err != nil {
		return
	}
	fields = strings.Fields(line)
	if code, err = strconv.Atoi(fields[0]); err != nil {
		return nil, fmt.Errorf("line %d: bad element type %q", s.lineNo, fields[0])
	}
	et := SU2ElementType(code)
	ok := false
	for _, a := range allowed {
		ok = ok || et == a
	}
	if !ok {
		return nil, fmt.Errorf("line %d: unsupported element type %d", s.lineNo, code)
	}
	if len(fields) < 1+et.numNodes() {
		return nil, fmt.Errorf("line %d: element type %d needs %d nodes", s.lineNo, code, et.numNodes())
	}
	nodes = make([]int, et.numNodes())
	for i := range nodes {
		if nodes[i], err = strconv.Atoi(fields[i+1]); err != nil {
			return nil, fmt.Errorf("line %d: %w", s.lineNo, err)
		}
	}
	return
}

func (s *su2Scanner) point() (crd []float64, err error) {
	var line string
	if line, err = s.next(); err != nil {
		return
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, fmt.Errorf("line %d: unable to read coordinates from %q", s.lineNo, line)
	}
	crd = make([]float64, 2)
	for i := range crd {
		if crd[i], err = strconv.ParseFloat(fields[i], 64); err != nil {
			return nil, fmt.Errorf("line %d: %w", s.lineNo, err)
		}
	}
	return
}
