package x3d

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/notargets/dracotools/meshtypes"
)

// Writer emits a mesh and its region partition in the ASCII X3D layout.
// All ids in the output are 1-based.
type Writer struct {
	Mesh    *meshtypes.Mesh
	Regions *Regions
}

func NewWriter(m *meshtypes.Mesh, regions *Regions) *Writer {
	return &Writer{Mesh: m, Regions: regions}
}

// FileName is the main mesh file name for a mesh called name
func FileName(name string) string { return "x3d." + name + ".in" }

func BoundaryFileName(name string, side int) string {
	return fmt.Sprintf("x3d.%s.bdy%d.in", name, side+1)
}

func RegionFileName(name string, j int) string {
	return fmt.Sprintf("x3d.%s.Reg%d.in", name, j+1)
}

// Write creates the mesh file, one boundary node file per side and one cell
// list file per non-empty region under dir. It returns the paths written.
func (w *Writer) Write(dir, name string) (paths []string, err error) {
	emit := func(fname string, fn func(io.Writer) error) (err error) {
		path := filepath.Join(dir, fname)
		var file *os.File
		if file, err = os.Create(path); err != nil {
			return
		}
		bw := bufio.NewWriter(file)
		if err = fn(bw); err == nil {
			err = bw.Flush()
		}
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
		return
	}
	var r *Regions
	if r, err = w.regions(); err != nil {
		return
	}
	if err = emit(FileName(name), w.WriteMesh); err != nil {
		return
	}
	for side := 0; side < w.Mesh.NumSides(); side++ {
		if err = emit(BoundaryFileName(name, side), func(out io.Writer) error {
			return w.WriteBoundary(out, side)
		}); err != nil {
			return
		}
	}
	j := 0
	for ir := range r.IDs {
		if len(r.Cells[ir]) == 0 {
			continue
		}
		if err = emit(RegionFileName(name, j), func(out io.Writer) error {
			return w.WriteRegion(out, ir)
		}); err != nil {
			return
		}
		j++
	}
	return
}

// regions defaults to every cell in region 0 and checks a given partition
// against the mesh
func (w *Writer) regions() (r *Regions, err error) {
	if w.Regions == nil {
		if r, err = AssignRegions(w.Mesh, nil, nil); err != nil {
			return
		}
		w.Regions = r
	}
	r = w.Regions
	switch {
	case len(r.MatID) != w.Mesh.NumCells():
		return nil, fmt.Errorf("have %d material ids for %d cells", len(r.MatID), w.Mesh.NumCells())
	case len(r.Cells) != len(r.IDs):
		return nil, fmt.Errorf("have cell lists for %d regions, %d region ids", len(r.Cells), len(r.IDs))
	}
	return
}

// errWriter latches the first write error so the formatting code can run
// straight through
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err == nil {
		_, ew.err = fmt.Fprintf(ew.w, format, args...)
	}
}

func (w *Writer) WriteMesh(out io.Writer) (err error) {
	var (
		m  = w.Mesh
		r  *Regions
		ew = &errWriter{w: out}
	)
	if r, err = w.regions(); err != nil {
		return
	}
	matIDs := r.MatID
	header := []struct {
		key string
		val int
	}{
		{"process", 1},
		{"numdim", m.NDim},
		{"materials", 1},
		{"nodes", m.NumNodes()},
		{"faces", m.NumFaces()},
		{"elements", m.NumCells()},
		{"ghost_nodes", 0},
		{"slaved_nodes", 0},
		{"nodes_per_slave", 2},
		{"nodes_per_face", m.MaxNodesPerFace()},
		{"faces_per_cell", m.MaxFacesPerCell()},
		{"node_data_fields", 0},
		{"cell_data_fields", 2},
	}
	ew.printf("ascii\nheader\n")
	for _, h := range header {
		ew.printf("   %-32s%d\n", h.key, h.val)
	}
	ew.printf("end_header\n\n")

	for _, block := range []struct{ name, val string }{
		{"matnames", "0"}, {"mateos", "-1"}, {"matopc", "-1"},
	} {
		ew.printf("%s\n            1   %s\nend_%s\n\n", block.name, block.val, block.name)
	}

	ew.printf("nodes\n")
	for n, crd := range m.Coords {
		var x [3]float64
		copy(x[:], crd)
		ew.printf("%10d  %.15e  %.15e  %.15e\n", n+1, x[0], x[1], x[2])
	}
	ew.printf("end_nodes\n\n")

	// Faces go out in cell order, which for the generated meshes is also
	// face id order
	ew.printf("faces\n")
	for _, faces := range m.FacesPerCell {
		for _, face := range faces {
			nodes := m.NodesPerFace[face]
			ew.printf("%10d%10d", face+1, len(nodes))
			for _, node := range nodes {
				ew.printf("%10d", node+1)
			}
			ew.printf("\n")
		}
	}
	ew.printf("end_faces\n\n")

	ew.printf("cells\n")
	for cell, faces := range m.FacesPerCell {
		ew.printf("%10d%10d", cell+1, len(faces))
		for _, face := range faces {
			ew.printf("%10d", face+1)
		}
		ew.printf("\n")
	}
	ew.printf("end_cells\n\n")

	ew.printf("slaved_nodes         0\nend_slaved_nodes\n")
	ew.printf("ghost_nodes          0\nend_ghost_nodes\n\n")

	ew.printf("cell_data\nmatid\n")
	for cell, id := range matIDs {
		ew.printf("%10d%10d\n", cell+1, id)
	}
	ew.printf("end_matid\n")
	ew.printf("partelm\n         1\nend_partelm\nend_cell_data\n")
	return ew.err
}

// WriteBoundary lists the unique 1-based nodes of one side, one per line
func (w *Writer) WriteBoundary(out io.Writer, side int) (err error) {
	if side < 0 || side >= w.Mesh.NumSides() {
		return fmt.Errorf("side %d out of range, mesh has %d sides", side, w.Mesh.NumSides())
	}
	ew := &errWriter{w: out}
	for _, node := range w.Mesh.BoundaryNodes(side) {
		ew.printf("%d\n", node+1)
	}
	return ew.err
}

// WriteRegion lists the 1-based cells of region ir, one per line
func (w *Writer) WriteRegion(out io.Writer, ir int) (err error) {
	r, err := w.regions()
	if err != nil {
		return
	}
	if ir < 0 || ir >= len(r.Cells) {
		return fmt.Errorf("region index %d out of range, have %d regions", ir, len(r.Cells))
	}
	ew := &errWriter{w: out}
	for _, cell := range r.Cells[ir] {
		ew.printf("%d\n", cell)
	}
	return ew.err
}
