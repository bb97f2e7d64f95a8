package nn

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelYAML = `layers:
- type: Linear
  weight: [[0.5, -1], [2, 0.25], [1, 1]]
  bias: [0.1, 0, -3]
- type: ReLU
- type: Linear
  weight: [[1, 2, 3]]
  bias: [0.5]
- type: ReLU
`

const modelText = `Layers: 2
None Linear [3, 2] [3]
ReLU Linear [1, 3] [1]

[0.5, -1.0]
[2.0, 0.25]
[1.0, 1.0]

0.10000000149011612
0.0
-3.0

[1.0, 2.0, 3.0]

0.5
`

func TestWriteText(t *testing.T) {
	m, err := ParseModel([]byte(modelYAML))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Equal(t, modelText, buf.String())
}

func TestPyFloat(t *testing.T) {
	for in, want := range map[float64]string{
		1:             "1.0",
		-2.5:          "-2.5",
		0.25:          "0.25",
		1.e-5:         "9.999999747378752e-06",
		0.0625:        "0.0625",
		1.e20:         "1.0000000200408773e+20",
		65536:         "65536.0",
		0.00048828125: "0.00048828125",
	} {
		assert.Equal(t, want, pyFloat(in), "%g", in)
	}
}

func TestWriteBinary(t *testing.T) {
	m, err := ParseModel([]byte(modelYAML))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, m.WriteBinary(&buf))
	// 12 int32 layout words, 13 float32 parameters
	require.Equal(t, 100, buf.Len())
	assert.Equal(t, []byte{1, 0, 0, 0, 2, 0, 0, 0}, buf.Bytes()[:8])
	// Second layer follows a ReLU
	assert.Equal(t, []byte{1, 0, 0, 0}, buf.Bytes()[28:32])

	back, err := ReadBinary(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, back.Layers, 3)
	assert.Equal(t, "ReLU", back.Layers[1].Type)
	assert.Equal(t, m.Layers[0].Weight, back.Layers[0].Weight)
	assert.Equal(t, m.Layers[2].Weight, back.Layers[2].Weight)
	assert.InDeltaSlice(t, m.Layers[0].Bias, back.Layers[0].Bias, 1.e-7)
	require.NoError(t, back.Validate())

	_, err = ReadBinary(bytes.NewReader(buf.Bytes()[:96]))
	assert.Error(t, err)
	bad := append([]byte(nil), buf.Bytes()...)
	bad[8] = 7
	_, err = ReadBinary(bytes.NewReader(bad))
	assert.Error(t, err)
}

func TestReadBinaryShapes(t *testing.T) {
	m, err := ParseModel([]byte(modelYAML))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, m.WriteBinary(&buf))
	word := func(b []byte, at int, v int32) []byte {
		b = append([]byte(nil), b...)
		binary.LittleEndian.PutUint32(b[at:], uint32(v))
		return b
	}
	for name, data := range map[string][]byte{
		"huge layer count": word(buf.Bytes(), 4, math.MaxInt32),
		"huge rows":        word(buf.Bytes(), 16, math.MaxInt32),
		"huge columns":     word(buf.Bytes(), 20, 1<<30),
		"huge bias":        word(buf.Bytes(), 24, math.MaxInt32),
		"negative rows":    word(buf.Bytes(), 16, -1),
		"zero columns":     word(buf.Bytes(), 20, 0),
		"negative bias":    word(buf.Bytes(), 24, -3),
		"no parameters":    buf.Bytes()[:56],
		"short layout":     buf.Bytes()[:20],
		"header only":      buf.Bytes()[:8],
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadBinary(bytes.NewReader(data))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	for name, text := range map[string]string{
		"unknown activation": "layers:\n- type: Tanh\n- type: Linear\n  weight: [[1]]\n  bias: [1]\n",
		"unknown layer":      "layers:\n- type: Conv1d\n  weight: [[1]]\n  bias: [1]\n",
		"ragged weight":      "layers:\n- type: Linear\n  weight: [[1, 2], [1]]\n  bias: [1, 2]\n",
		"bias length":        "layers:\n- type: Linear\n  weight: [[1, 2]]\n  bias: [1, 2]\n",
		"chain mismatch": "layers:\n- type: Linear\n  weight: [[1, 2]]\n  bias: [1]\n" +
			"- type: Linear\n  weight: [[1, 2]]\n  bias: [1]\n",
		"no linear": "layers:\n- type: ReLU\n",
		"not yaml":  "layers: [",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseModel([]byte(text))
			assert.Error(t, err)
		})
	}

	// JSON is YAML
	_, err := ParseModel([]byte(`{"layers": [{"type": "Linear", "weight": [[1]], "bias": [0]}]}`))
	assert.NoError(t, err)
}

func TestConvert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(modelYAML), 0o644))
	written, err := Convert(path)
	require.NoError(t, err)
	binName, textName := OutputNames(path)
	assert.Equal(t, []string{binName, textName}, written)
	assert.Equal(t, filepath.Ext(binName), ".nnb")
	data, err := os.ReadFile(textName)
	require.NoError(t, err)
	assert.Equal(t, modelText, string(data))
}
