package meshtypes

import (
	"fmt"
	"strings"
)

type Type uint8

const (
	Orth1D Type = iota
	Orth2D
	Orth3D
	FCC3D
	Voronoi2D
	Random1D
	Random2D
	Random3D
)

var typeNames = [...]string{
	"orth_1d_mesh",
	"orth_2d_mesh",
	"orth_3d_mesh",
	"fcc_3d_mesh",
	"vor_2d_mesh",
	"rnd_1d_mesh",
	"rnd_2d_mesh",
	"rnd_3d_mesh",
}

func (mt Type) String() string {
	if int(mt) < len(typeNames) {
		return typeNames[mt]
	}
	return fmt.Sprintf("Type(%d)", uint8(mt))
}

func (mt Type) NDim() int {
	switch mt {
	case Orth1D, Random1D:
		return 1
	case Orth2D, Voronoi2D, Random2D:
		return 2
	default:
		return 3
	}
}

func ParseType(label string) (mt Type, err error) {
	label = strings.ToLower(strings.TrimSpace(label))
	for i, name := range typeNames {
		if label == name {
			return Type(i), nil
		}
	}
	err = fmt.Errorf("unknown mesh type %q, valid types are %s",
		label, strings.Join(typeNames[:], ", "))
	return
}

// Params collects the generator inputs. NumCells is used only by the
// Voronoi generator, Eps only by the random generators and Seed by both.
type Params struct {
	Type           Type
	Bounds         Bounds
	NumCellsPerDim []int
	NumCells       int
	Eps            float64
	Seed           uint64
}

// New dispatches to the generator for p.Type and validates the result
func New(p Params) (m *Mesh, err error) {
	switch p.Type {
	case Orth1D:
		m, err = NewOrth1D(p.Bounds, p.NumCellsPerDim)
	case Orth2D:
		m, err = NewOrth2D(p.Bounds, p.NumCellsPerDim)
	case Orth3D:
		m, err = NewOrth3D(p.Bounds, p.NumCellsPerDim)
	case FCC3D:
		m, err = NewFCC3D(p.Bounds, p.NumCellsPerDim)
	case Voronoi2D:
		m, err = NewVoronoi2D(p.Bounds, p.NumCells, p.Seed)
	case Random1D:
		m, err = NewRandom1D(p.Bounds, p.NumCellsPerDim, p.Eps, p.Seed)
	case Random2D:
		m, err = NewRandom2D(p.Bounds, p.NumCellsPerDim, p.Eps, p.Seed)
	case Random3D:
		m, err = NewRandom3D(p.Bounds, p.NumCellsPerDim, p.Eps, p.Seed)
	default:
		err = fmt.Errorf("unknown mesh type %v", p.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%v: %w", p.Type, err)
	}
	if err = m.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", p.Type, err)
	}
	return
}
