package compton

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

type cskFile struct {
	B, T, G, L int
	TMin, TMax float64
	groupLine  string
	groups     []float64
	blocks     []cskBlock
}

type cskBlock struct {
	T     float64
	lines []string
}

// MergeCSK merges the temperature blocks of two CSK data sets into a third,
// ending by ending. Endings missing from either input are skipped. rootNew
// may be one of the inputs.
func MergeCSK(root1, root2, rootNew string) (written []string, err error) {
	type merged struct {
		path string
		buf  bytes.Buffer
	}
	var outputs []*merged
	// Every ending is merged in memory first so a rejected input leaves any
	// existing output, including an input being merged into, untouched
	for _, ending := range Endings {
		var (
			path1, path2 = root1 + ending, root2 + ending
			f1, f2       *cskFile
		)
		if !exists(path1) || !exists(path2) {
			continue
		}
		if f1, err = readCSKBlocks(path1); err != nil {
			return
		}
		if f2, err = readCSKBlocks(path2); err != nil {
			return
		}
		out := &merged{path: rootNew + ending}
		if err = mergeCSK(&out.buf, f1, f2); err != nil {
			return nil, fmt.Errorf("merging %s and %s: %w", path1, path2, err)
		}
		outputs = append(outputs, out)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("no CSK files common to %s and %s", root1, root2)
	}
	for _, out := range outputs {
		if err = writeFile(out.path, func(w io.Writer) error {
			_, err := out.buf.WriteTo(w)
			return err
		}); err != nil {
			return
		}
		written = append(written, out.path)
	}
	return
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func mergeCSK(w io.Writer, f1, f2 *cskFile) (err error) {
	switch {
	case f1.B != 2 || f2.B != 2:
		return fmt.Errorf("expecting 2 temperature boundaries, have %d and %d", f1.B, f2.B)
	case f1.G != f2.G:
		return fmt.Errorf("number of groups does not match: %d vs %d", f1.G, f2.G)
	case f1.L != f2.L:
		return fmt.Errorf("number of Legendre moments does not match: %d vs %d", f1.L, f2.L)
	case len(f1.groups) != len(f2.groups):
		return fmt.Errorf("group boundaries are not consistent")
	}
	for i, v1 := range f1.groups {
		if math.Abs(v1-f2.groups[i]) > 1.e-6*math.Abs(v1) {
			return fmt.Errorf("group boundaries are not consistent at %d: %g vs %g", i, v1, f2.groups[i])
		}
	}
	if _, err = fmt.Fprintf(w, "2 %d %d %d\n%.8e %.8e\n%s\n",
		f1.T+f2.T, f1.G, f1.L,
		math.Min(f1.TMin, f2.TMin), math.Max(f1.TMax, f2.TMax),
		f1.groupLine); err != nil {
		return
	}
	var (
		i1, i2 int
		b1, b2 = f1.blocks, f2.blocks
	)
	for i1 < len(b1) || i2 < len(b2) {
		var blk cskBlock
		switch {
		case i2 == len(b2) || (i1 < len(b1) && b1[i1].T < b2[i2].T):
			blk = b1[i1]
			i1++
		case i1 == len(b1) || b2[i2].T < b1[i1].T:
			blk = b2[i2]
			i2++
		default:
			return fmt.Errorf("temperature %g (unitless) is in both files", b1[i1].T)
		}
		for _, line := range blk.lines {
			if _, err = fmt.Fprintln(w, line); err != nil {
				return
			}
		}
		if _, err = fmt.Fprintln(w); err != nil {
			return
		}
	}
	return
}

// readCSKBlocks splits a CSK file into its three header lines and its
// temperature blocks, keeping block lines verbatim
func readCSKBlocks(path string) (f *cskFile, err error) {
	var file *os.File
	if file, err = os.Open(path); err != nil {
		return
	}
	defer file.Close()
	var (
		scanner = bufio.NewScanner(file)
		header  []string
		blk     *cskBlock
	)
	f = &cskFile{}
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(header) < 3 {
			header = append(header, line)
			continue
		}
		if strings.TrimSpace(line) == "" {
			blk = nil
			continue
		}
		if blk == nil {
			var T float64
			if T, err = strconv.ParseFloat(strings.TrimSpace(line), 64); err != nil {
				return nil, fmt.Errorf("%s: temperature: %w", path, err)
			}
			f.blocks = append(f.blocks, cskBlock{T: T})
			blk = &f.blocks[len(f.blocks)-1]
		}
		blk.lines = append(blk.lines, line)
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	if len(header) < 3 {
		return nil, fmt.Errorf("%s: truncated header", path)
	}
	var sizes []int
	if sizes, err = parseInts(header[0], 4); err != nil {
		return nil, fmt.Errorf("%s: line 1: %w", path, err)
	}
	f.B, f.T, f.G, f.L = sizes[0], sizes[1], sizes[2], sizes[3]
	var tBounds []float64
	if tBounds, err = parseFloats(header[1]); err != nil || len(tBounds) != 2 {
		return nil, fmt.Errorf("%s: line 2: need 2 temperature boundaries", path)
	}
	f.TMin, f.TMax = tBounds[0], tBounds[1]
	f.groupLine = header[2]
	if f.groups, err = parseFloats(header[2]); err != nil {
		return nil, fmt.Errorf("%s: line 3: %w", path, err)
	}
	return
}
