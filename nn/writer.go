package nn

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// WriteText writes the layout line per linear layer, then every parameter
// tensor after a blank line, one row per line
func (m *Model) WriteText(w io.Writer) (err error) {
	ll := m.linearLayers()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Layers: %d\n", len(ll))
	for _, l := range ll {
		out, in := l.Shape()
		fmt.Fprintf(bw, "%s %s [%d, %d] [%d]\n", l.activation, l.Type, out, in, len(l.Bias))
	}
	for _, l := range ll {
		bw.WriteString("\n")
		for _, row := range l.Weight {
			vals := make([]string, len(row))
			for i, v := range row {
				vals[i] = pyFloat(v)
			}
			fmt.Fprintf(bw, "[%s]\n", strings.Join(vals, ", "))
		}
		bw.WriteString("\n")
		for _, v := range l.Bias {
			fmt.Fprintf(bw, "%s\n", pyFloat(v))
		}
	}
	return bw.Flush()
}

// pyFloat formats v the way python prints a float. Parameters are single
// precision in both formats, so v is rounded to float32 first.
func pyFloat(v float64) string {
	v = float64(float32(v))
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return s
	}
	s = strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// WriteBinary writes the little endian int32 layout followed by every
// parameter as float32
func (m *Model) WriteBinary(w io.Writer) (err error) {
	var (
		ll     = m.linearLayers()
		layout = []int32{1, int32(len(ll))}
		params []float32
	)
	for _, l := range ll {
		act, ok := activationCodes[l.activation]
		if !ok {
			return fmt.Errorf("unknown activation %q", l.activation)
		}
		typ, ok := layerCodes[l.Type]
		if !ok {
			return fmt.Errorf("unknown layer type %q", l.Type)
		}
		out, in := l.Shape()
		layout = append(layout, act, typ, int32(out), int32(in), int32(len(l.Bias)))
		for _, row := range l.Weight {
			for _, v := range row {
				params = append(params, float32(v))
			}
		}
		for _, v := range l.Bias {
			params = append(params, float32(v))
		}
	}
	bw := bufio.NewWriter(w)
	if err = binary.Write(bw, binary.LittleEndian, layout); err != nil {
		return
	}
	if err = binary.Write(bw, binary.LittleEndian, params); err != nil {
		return
	}
	return bw.Flush()
}

// ReadBinary decodes a model written by WriteBinary. Shapes are checked
// against the stream length before any parameter storage is allocated.
func ReadBinary(r io.Reader) (m *Model, err error) {
	var data []byte
	if data, err = io.ReadAll(r); err != nil {
		return
	}
	br := bytes.NewReader(data)
	var head [2]int32
	if err = binary.Read(br, binary.LittleEndian, &head); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if head[0] != 1 {
		return nil, fmt.Errorf("unsupported format version %d", head[0])
	}
	if head[1] < 1 || int64(head[1])*5*4 > int64(br.Len()) {
		return nil, fmt.Errorf("invalid layer count %d for %d bytes", head[1], len(data))
	}
	layout := make([][5]int32, head[1])
	if err = binary.Read(br, binary.LittleEndian, layout); err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	nParams, have := int64(0), int64(br.Len())/4
	for i, lay := range layout {
		out, in, nBias := int64(lay[2]), int64(lay[3]), int64(lay[4])
		if out < 1 || in < 1 || nBias < 0 {
			return nil, fmt.Errorf("layer %d: invalid shape [%d, %d] [%d]", i, out, in, nBias)
		}
		if nParams += out*in + nBias; nParams > have {
			return nil, fmt.Errorf("layer %d: shape [%d, %d] [%d] needs more than the %d parameters stored",
				i, out, in, nBias, have)
		}
	}
	m = &Model{}
	for i, lay := range layout {
		var (
			act, typ       string
			out, in, nBias = int(lay[2]), int(lay[3]), int(lay[4])
		)
		if act, err = codeName(activationCodes, lay[0]); err != nil {
			return nil, fmt.Errorf("layer %d: activation: %w", i, err)
		}
		if typ, err = codeName(layerCodes, lay[1]); err != nil {
			return nil, fmt.Errorf("layer %d: layer type: %w", i, err)
		}
		if act != "None" {
			m.Layers = append(m.Layers, Layer{Type: act})
		}
		l := Layer{Type: typ, Weight: make([][]float64, out), Bias: make([]float64, nBias)}
		for j := range l.Weight {
			l.Weight[j] = make([]float64, in)
		}
		m.Layers = append(m.Layers, l)
	}
	for _, l := range m.Layers {
		if !l.Weighted() {
			continue
		}
		for _, row := range l.Weight {
			if err = readFloat32s(br, row); err != nil {
				return nil, err
			}
		}
		if err = readFloat32s(br, l.Bias); err != nil {
			return nil, err
		}
	}
	return
}

func readFloat32s(r io.Reader, dst []float64) (err error) {
	buf := make([]float32, len(dst))
	if err = binary.Read(r, binary.LittleEndian, buf); err != nil {
		return fmt.Errorf("reading parameters: %w", err)
	}
	for i, v := range buf {
		dst[i] = float64(v)
	}
	return
}

func codeName(codes map[string]int32, code int32) (string, error) {
	for name, c := range codes {
		if c == code {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown code %d", code)
}

// Convert reads a model file and writes its binary and text forms beside it
func Convert(path string) (written []string, err error) {
	var m *Model
	if m, err = ReadModel(path); err != nil {
		return
	}
	binName, textName := OutputNames(path)
	for _, out := range []struct {
		name  string
		write func(io.Writer) error
	}{
		{binName, m.WriteBinary},
		{textName, m.WriteText},
	} {
		if err = writeFile(out.name, out.write); err != nil {
			return
		}
		written = append(written, out.name)
	}
	return
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	var file *os.File
	if file, err = os.Create(path); err != nil {
		return
	}
	err = write(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		err = fmt.Errorf("writing %s: %w", path, err)
	}
	return
}
