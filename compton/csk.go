package compton

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

const (
	// Mec2 is the electron rest energy in keV, as used by the CSK library
	Mec2 = 510.998
	// CSKNorm is 0.5 * pi * r_e^2 * N_A
	CSKNorm = 0.0751163370524
)

// Endings of the four files making up one CSK data set
var Endings = []string{"_in_lin", "_out_lin", "_in_nonlin", "_out_nonlin"}

// CSKMats holds per ending matrices indexed [moment][temperature], each
// G by G and indexed [gto, gfrom]
type CSKMats map[string][][]*mat.Dense

// CSKRoot strips a known ending from a CSK file name
func CSKRoot(filebase string) string {
	for _, ending := range Endings {
		if strings.HasSuffix(filebase, ending) {
			return strings.TrimSuffix(filebase, ending)
		}
	}
	return filebase
}

type cskTable struct {
	grids *Grids
	mats  [][]*mat.Dense
}

// ReadCSK reads every file of the data set named by filebase that exists.
// Files are parsed concurrently. The grids come from the first file present
// in Endings order.
func ReadCSK(ctx context.Context, filebase string) (root string, grids *Grids, mats CSKMats, err error) {
	root = CSKRoot(filebase)
	var (
		present []string
		tables  []*cskTable
	)
	for _, ending := range Endings {
		if _, serr := os.Stat(root + ending); serr == nil {
			present = append(present, ending)
		}
	}
	if len(present) == 0 {
		return root, nil, nil, fmt.Errorf("no CSK files found for root %s", root)
	}
	tables = make([]*cskTable, len(present))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, ending := range present {
		eg.Go(func() (err error) {
			if err = egCtx.Err(); err != nil {
				return
			}
			tables[i], err = readCSKFile(root + ending)
			return
		})
	}
	if err = eg.Wait(); err != nil {
		return root, nil, nil, err
	}
	grids = tables[0].grids
	mats = make(CSKMats, len(present))
	for i, ending := range present {
		mats[ending] = tables[i].mats
	}
	return
}

func readCSKFile(path string) (tbl *cskTable, err error) {
	var file *os.File
	if file, err = os.Open(path); err != nil {
		return
	}
	defer file.Close()
	if tbl, err = parseCSK(file); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return
}

func parseCSK(r io.Reader) (tbl *cskTable, err error) {
	var (
		scanner = bufio.NewScanner(r)
		lineNo  int
	)
	nextLine := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		lineNo++
		return scanner.Text(), true
	}
	line, ok := nextLine()
	if !ok {
		return nil, fmt.Errorf("empty file")
	}
	var sizes []int
	if sizes, err = parseInts(line, 4); err != nil {
		return nil, fmt.Errorf("line 1: %w", err)
	}
	numT, G, L := sizes[1], sizes[2], sizes[3]
	if numT < 1 || G < 1 || L < 1 {
		return nil, fmt.Errorf("line 1: invalid sizes %v", sizes)
	}
	// Temperature boundaries
	if _, ok = nextLine(); !ok {
		return nil, fmt.Errorf("missing temperature boundaries")
	}
	if line, ok = nextLine(); !ok {
		return nil, fmt.Errorf("missing group boundaries")
	}
	var ebdr []float64
	if ebdr, err = parseFloats(line); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo, err)
	}
	if len(ebdr) != G+1 {
		return nil, fmt.Errorf("line %d: have %d group boundaries, need %d", lineNo, len(ebdr), G+1)
	}
	tbl = &cskTable{
		grids: &Grids{T: make([]float64, numT)},
		mats:  make([][]*mat.Dense, L),
	}
	for iL := range tbl.mats {
		tbl.mats[iL] = make([]*mat.Dense, numT)
		for iT := range tbl.mats[iL] {
			tbl.mats[iL][iT] = mat.NewDense(G, G, nil)
		}
	}
	for i := range ebdr {
		ebdr[i] *= Mec2
	}
	tbl.grids.Ebdr = ebdr
	tbl.grids.Efrom = geometricMeans(ebdr)
	tbl.grids.Eto = geometricMeans(ebdr)

	iT := -1
	inBlock := false
	for {
		if line, ok = nextLine(); !ok {
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			inBlock = false
			continue
		}
		if !inBlock {
			if iT++; iT >= numT {
				return nil, fmt.Errorf("line %d: more than %d temperatures", lineNo, numT)
			}
			var T float64
			if T, err = strconv.ParseFloat(fields[0], 64); err != nil {
				return nil, fmt.Errorf("line %d: temperature: %w", lineNo, err)
			}
			tbl.grids.T[iT] = Mec2 * T
			inBlock = true
			continue
		}
		if len(fields) != L+2 {
			return nil, fmt.Errorf("line %d: have %d fields, need %d", lineNo, len(fields), L+2)
		}
		var gFrom, gTo int
		if gFrom, err = strconv.Atoi(fields[0]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if gTo, err = strconv.Atoi(fields[1]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if gFrom < 1 || gFrom > G || gTo < 1 || gTo > G {
			return nil, fmt.Errorf("line %d: group pair (%d, %d) outside 1..%d", lineNo, gFrom, gTo, G)
		}
		for iL := 0; iL < L; iL++ {
			var v float64
			if v, err = strconv.ParseFloat(fields[iL+2], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			tbl.mats[iL][iT].Set(gTo-1, gFrom-1, CSKNorm*v)
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	if iT+1 != numT {
		return nil, fmt.Errorf("have %d temperatures, header gives %d", iT+1, numT)
	}
	return
}

// ZerothOut is the zeroth Legendre moment of the _out_lin data, one Eto by
// Efrom matrix per temperature
func ZerothOut(mats CSKMats) ([]*mat.Dense, error) {
	out, ok := mats["_out_lin"]
	if !ok || len(out) == 0 {
		return nil, fmt.Errorf("no _out_lin data")
	}
	zeroth := make([]*mat.Dense, len(out[0]))
	for iT, m := range out[0] {
		zeroth[iT] = mat.DenseCopyOf(m)
	}
	return zeroth, nil
}

func geometricMeans(bdr []float64) (avg []float64) {
	avg = make([]float64, len(bdr)-1)
	for i := range avg {
		avg[i] = math.Sqrt(bdr[i] * bdr[i+1])
	}
	return
}

func parseInts(line string, n int) (vals []int, err error) {
	fields := strings.Fields(line)
	if len(fields) != n {
		return nil, fmt.Errorf("need %d integers, have %d fields", n, len(fields))
	}
	vals = make([]int, n)
	for i, f := range fields {
		if vals[i], err = strconv.Atoi(f); err != nil {
			return nil, err
		}
	}
	return
}
