package compton

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Grid keys in the order they are written and read back
var GridKeys = []string{"T", "Efrom", "Eto", "Ebdr"}

// Grids are the temperature, average energy and group boundary grids of a
// Compton table. Energies are in keV.
type Grids struct {
	T     []float64
	Efrom []float64
	Eto   []float64
	Ebdr  []float64
}

func (g *Grids) byKey(key string) *[]float64 {
	switch key {
	case "T":
		return &g.T
	case "Efrom":
		return &g.Efrom
	case "Eto":
		return &g.Eto
	case "Ebdr":
		return &g.Ebdr
	}
	panic("unknown grid key " + key)
}

func GridFileName(root, key string) string { return fmt.Sprintf("%s.%s_grid", root, key) }

func MatFileName(root string, iT int) string { return fmt.Sprintf("%s.mat_T%d", root, iT) }

// WriteGrids saves each grid to <root>.<key>_grid, one value per line
func WriteGrids(root string, g *Grids) (paths []string, err error) {
	for _, key := range GridKeys {
		path := GridFileName(root, key)
		vals := *g.byKey(key)
		if err = writeFile(path, func(w io.Writer) error {
			return writeRows(w, len(vals), 1, func(i, _ int) float64 { return vals[i] })
		}); err != nil {
			return
		}
		paths = append(paths, path)
	}
	return
}

// WriteMats saves one Eto by Efrom matrix per temperature to <root>.mat_T<i>
func WriteMats(root string, mats []*mat.Dense) (paths []string, err error) {
	for iT, m := range mats {
		path := MatFileName(root, iT)
		r, c := m.Dims()
		if err = writeFile(path, func(w io.Writer) error {
			return writeRows(w, r, c, m.At)
		}); err != nil {
			return
		}
		paths = append(paths, path)
	}
	return
}

// ReadData loads the grids and per temperature matrices written by
// WriteGrids and WriteMats
func ReadData(root string) (g *Grids, mats []*mat.Dense, err error) {
	g = &Grids{}
	for _, key := range GridKeys {
		var rows [][]float64
		if rows, err = readTable(GridFileName(root, key)); err != nil {
			return nil, nil, err
		}
		vals := make([]float64, 0, len(rows))
		for _, row := range rows {
			vals = append(vals, row...)
		}
		*g.byKey(key) = vals
	}
	var (
		nTo, nFrom = len(g.Eto), len(g.Efrom)
	)
	mats = make([]*mat.Dense, len(g.T))
	for iT := range mats {
		path := MatFileName(root, iT)
		var rows [][]float64
		if rows, err = readTable(path); err != nil {
			return nil, nil, err
		}
		if len(rows) != nTo {
			return nil, nil, fmt.Errorf("%s: have %d rows, need %d", path, len(rows), nTo)
		}
		m := mat.NewDense(nTo, nFrom, nil)
		for i, row := range rows {
			if len(row) != nFrom {
				return nil, nil, fmt.Errorf("%s: row %d has %d values, need %d",
					path, i+1, len(row), nFrom)
			}
			m.SetRow(i, row)
		}
		mats[iT] = m
	}
	return
}

// writeFile writes through a temporary file in the same directory and
// renames it over path, so path is replaced whole or not at all
func writeFile(path string, fn func(io.Writer) error) (err error) {
	var file *os.File
	if file, err = os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*"); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	tmp := file.Name()
	bw := bufio.NewWriter(file)
	if err = fn(bw); err == nil {
		err = bw.Flush()
	}
	if err == nil {
		err = file.Chmod(0o644)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		err = fmt.Errorf("writing %s: %w", path, err)
	}
	return
}

func writeRows(w io.Writer, r, c int, at func(i, j int) float64) (err error) {
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sep := " "
			if j == c-1 {
				sep = "\n"
			}
			if _, err = fmt.Fprintf(w, "%.18e%s", at(i, j), sep); err != nil {
				return
			}
		}
	}
	return
}

// readTable reads whitespace separated floats, one row per non-blank line
func readTable(path string) (rows [][]float64, err error) {
	var file *os.File
	if file, err = os.Open(path); err != nil {
		return
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		var row []float64
		if row, err = parseFloats(scanner.Text()); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	err = scanner.Err()
	return
}

func parseFloats(line string) (vals []float64, err error) {
	fields := strings.Fields(line)
	vals = make([]float64, len(fields))
	for i, f := range fields {
		if vals[i], err = strconv.ParseFloat(f, 64); err != nil {
			return nil, err
		}
	}
	return
}
