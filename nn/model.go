package nn

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
)

// Layer is one module of a sequential network. Linear layers carry a weight
// matrix of out rows by in columns and a bias of length out. Activation
// layers carry nothing.
type Layer struct {
	Type   string      `json:"type"`
	Weight [][]float64 `json:"weight,omitempty"`
	Bias   []float64   `json:"bias,omitempty"`
}

// Model is a sequential network as exported from torch, layers in model order
type Model struct {
	Layers []Layer `json:"layers"`
}

var (
	activationCodes = map[string]int32{"None": 0, "ReLU": 1}
	layerCodes      = map[string]int32{"Linear": 0}
)

func (l *Layer) Weighted() bool { return len(l.Weight) != 0 || len(l.Bias) != 0 }

func (l *Layer) Shape() (out, in int) {
	out = len(l.Weight)
	if out != 0 {
		in = len(l.Weight[0])
	}
	return
}

// ReadModel loads a YAML or JSON model description
func ReadModel(path string) (m *Model, err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	if m, err = ParseModel(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return
}

func ParseModel(data []byte) (m *Model, err error) {
	m = &Model{}
	if err = yaml.Unmarshal(data, m); err != nil {
		return nil, err
	}
	if err = m.Validate(); err != nil {
		return nil, err
	}
	return
}

// Validate checks layer types and that each linear layer takes the output
// of the one before it
func (m *Model) Validate() error {
	prevOut := -1
	for i := range m.Layers {
		l := &m.Layers[i]
		if !l.Weighted() {
			if _, ok := activationCodes[l.Type]; !ok || l.Type == "None" {
				return fmt.Errorf("layer %d: unknown activation %q", i, l.Type)
			}
			continue
		}
		if _, ok := layerCodes[l.Type]; !ok {
			return fmt.Errorf("layer %d: unknown layer type %q", i, l.Type)
		}
		out, in := l.Shape()
		if out == 0 || in == 0 {
			return fmt.Errorf("layer %d: empty weight", i)
		}
		for r, row := range l.Weight {
			if len(row) != in {
				return fmt.Errorf("layer %d: weight row %d has %d columns, need %d", i, r, len(row), in)
			}
		}
		if len(l.Bias) != out {
			return fmt.Errorf("layer %d: bias has %d entries, need %d", i, len(l.Bias), out)
		}
		if prevOut >= 0 && in != prevOut {
			return fmt.Errorf("layer %d: takes %d inputs, previous layer gives %d", i, in, prevOut)
		}
		prevOut = out
	}
	if prevOut < 0 {
		return fmt.Errorf("model has no linear layers")
	}
	return nil
}

// linearLayer is a weighted layer paired with the activation that precedes
// it, which is applied to the layer's input
type linearLayer struct {
	activation string
	*Layer
}

func (m *Model) linearLayers() (ll []linearLayer) {
	last := "None"
	for i := range m.Layers {
		l := &m.Layers[i]
		if !l.Weighted() {
			last = l.Type
			continue
		}
		ll = append(ll, linearLayer{activation: last, Layer: l})
		last = "None"
	}
	return
}

// OutputNames gives the binary and text file names for a model file
func OutputNames(path string) (binary, text string) {
	root := strings.TrimSuffix(path, filepath.Ext(path))
	return root + ".nnb", root + ".nn"
}
