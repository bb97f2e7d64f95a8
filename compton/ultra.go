package compton

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Field is one named curve of an ULTRA file
type Field struct {
	Name string
	X, Y []float64
}

// ReadUltra copies path to <root>.backup, where root is path without its
// extension, then parses its fields in file order. A repeated field name
// replaces the earlier curve in place.
func ReadUltra(path string) (root string, fields []Field, err error) {
	root = strings.TrimSuffix(path, filepath.Ext(path))
	if err = copyFile(path, root+".backup"); err != nil {
		return
	}
	var file *os.File
	if file, err = os.Open(path); err != nil {
		return
	}
	defer file.Close()
	if fields, err = ParseUltra(file); err != nil {
		err = fmt.Errorf("%s: %w", path, err)
	}
	return
}

func ParseUltra(r io.Reader) (fields []Field, err error) {
	var (
		scanner = bufio.NewScanner(r)
		index   = map[string]int{}
		name    string
		data    []float64
		lineNo  int
	)
	flush := func() error {
		if name == "" || len(data) == 0 {
			return nil
		}
		if len(data)%2 != 0 {
			return fmt.Errorf("field %q has an odd number of values", name)
		}
		f := Field{Name: name}
		for i := 0; i < len(data); i += 2 {
			f.X = append(f.X, data[i])
			f.Y = append(f.Y, data[i+1])
		}
		if i, ok := index[name]; ok {
			fields[i] = f
		} else {
			index[name] = len(fields)
			fields = append(fields, f)
		}
		data = nil
		return nil
	}
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			if err = flush(); err != nil {
				return nil, err
			}
			name = strings.TrimSpace(line[1:])
			continue
		}
		var vals []float64
		if vals, err = parseFloats(line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		data = append(data, vals...)
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	if err = flush(); err != nil {
		return nil, err
	}
	return
}

// parseFieldName pulls T and Efrom out of names like
// "kTe1.00 hNu11.124198, sig_C(nu->nu',T_e)/sig_{Th} [1/keV] vs hNu' [keV]"
func parseFieldName(name string) (T, Efrom float64, err error) {
	words := strings.Fields(name)
	if len(words) < 2 || len(words[0]) <= 3 || len(words[1]) <= 3 {
		return 0, 0, fmt.Errorf("field name %q has no temperature and energy", name)
	}
	if T, err = floatComma(words[0][3:]); err != nil {
		return
	}
	Efrom, err = floatComma(words[1][3:])
	return
}

func floatComma(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(s, ","), 64)
}

// ExtractGrids builds the temperature and energy grids from the field names
// and the x values of the curves. Group boundaries are not stored in the
// file: an evenly log spaced grid is tried first, then an evenly linear
// spaced one, then boundaries at the midpoints of the average energies.
func ExtractGrids(fields []Field) (g *Grids, err error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields")
	}
	var Ts, Efroms, Etos []float64
	for _, f := range fields {
		var T, Efrom float64
		if T, Efrom, err = parseFieldName(f.Name); err != nil {
			return
		}
		Ts = append(Ts, T)
		Efroms = append(Efroms, Efrom)
		Etos = append(Etos, f.X...)
	}
	g = &Grids{
		T:     uniqueSorted(Ts),
		Efrom: uniqueSorted(Efroms),
		Eto:   uniqueSorted(Etos),
	}
	G := max(len(g.Efrom), len(g.Eto))
	eavg := g.Efrom
	if G != len(g.Efrom) {
		eavg = g.Eto
	}
	if G < 2 {
		return nil, fmt.Errorf("need at least 2 energies to build group boundaries, have %d", G)
	}
	if g.Ebdr, err = groupBounds(eavg); err != nil {
		return nil, err
	}
	return
}

func groupBounds(eavg []float64) (ebdr []float64, err error) {
	var (
		G      = len(eavg)
		relDE  = make([]float64, G-1)
		absDE  = make([]float64, G-1)
		check  = make([]float64, G)
		first  = eavg[0]
		last   = eavg[G-1]
		nm1    = float64(G - 1)
		spaced []float64
	)
	for i := range absDE {
		absDE[i] = eavg[i+1] - eavg[i]
		relDE[i] = absDE[i] / math.Max(eavg[i+1], eavg[i])
	}
	_, relVar := stat.PopMeanVariance(relDE, nil)
	absMean, absVar := stat.PopMeanVariance(absDE, nil)
	switch {
	case math.Sqrt(relVar/nm1) < 1.e-4:
		relDEAvg := 1 - math.Pow(last/first, -1/nm1)
		e0 := round1e(first * math.Sqrt(1-relDEAvg))
		eG := round1e(last / math.Sqrt(1-relDEAvg))
		spaced = floats.LogSpan(make([]float64, G+1), e0, eG)
		for i := range check {
			check[i] = math.Sqrt(spaced[i] * spaced[i+1])
		}
	case math.Sqrt(absVar/nm1)/absMean < 1.e-2:
		absDEAvg := (last - first) / nm1
		e0 := round1e(math.Max(0, first-absDEAvg/2))
		eG := round1e(last + absDEAvg/2)
		spaced = floats.Span(make([]float64, G+1), e0, eG)
		for i := range check {
			check[i] = 0.5 * (spaced[i] + spaced[i+1])
		}
	}
	var relDiff, absDiff float64
	for i, e := range eavg {
		d := math.Abs(e - check[i])
		relDiff = math.Max(relDiff, d/math.Max(check[i], 0.1))
		absDiff = math.Max(absDiff, d)
	}
	absDiff /= stat.Mean(eavg, nil)

	ebdr = spaced
	if spaced == nil || relDiff > 1.e-3 || absDiff > 2.e-3 {
		ebdr = make([]float64, G+1)
		ebdr[0] = first - math.Min(first, absDE[0]/2)
		for i := 1; i < G; i++ {
			ebdr[i] = 0.5 * (eavg[i-1] + eavg[i])
		}
		ebdr[G] = last + absDE[G-2]/2
	}
	for i, e := range eavg {
		if !(ebdr[i] < e && e < ebdr[i+1]) {
			return nil, fmt.Errorf("energy %g is not inside group [%g, %g]", e, ebdr[i], ebdr[i+1])
		}
	}
	return
}

// round1e keeps two significant figures, as printed by %.1e
func round1e(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'e', 1, 64), 64)
	return r
}

// ToMatrix lays the curves out as one Eto by Efrom matrix per temperature
func ToMatrix(g *Grids, fields []Field) (mats []*mat.Dense, err error) {
	var (
		tIdx    = indexOf(g.T)
		fromIdx = indexOf(g.Efrom)
		toIdx   = indexOf(g.Eto)
	)
	mats = make([]*mat.Dense, len(g.T))
	for i := range mats {
		mats[i] = mat.NewDense(len(g.Eto), len(g.Efrom), nil)
	}
	for _, f := range fields {
		var T, Efrom float64
		if T, Efrom, err = parseFieldName(f.Name); err != nil {
			return nil, err
		}
		iT, okT := tIdx[T]
		iFrom, okFrom := fromIdx[Efrom]
		if !okT || !okFrom {
			return nil, fmt.Errorf("field %q is not on the grids", f.Name)
		}
		for i, x := range f.X {
			iTo, ok := toIdx[x]
			if !ok {
				return nil, fmt.Errorf("field %q: energy %g is not on the Eto grid", f.Name, x)
			}
			mats[iT].Set(iTo, iFrom, f.Y[i])
		}
	}
	return
}

func indexOf(grid []float64) map[float64]int {
	idx := make(map[float64]int, len(grid))
	for i, v := range grid {
		idx[v] = i
	}
	return idx
}

func uniqueSorted(vals []float64) (u []float64) {
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			u = append(u, v)
		}
	}
	return
}

func copyFile(src, dst string) (err error) {
	var in *os.File
	if in, err = os.Open(src); err != nil {
		return
	}
	defer in.Close()
	return writeFile(dst, func(w io.Writer) (err error) {
		_, err = io.Copy(w, in)
		return
	})
}
