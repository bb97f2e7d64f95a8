package InputParameters

import (
	"fmt"
	"io"
	"os"

	"github.com/ghodss/yaml"

	"github.com/notargets/dracotools/meshtypes"
	"github.com/notargets/dracotools/x3d"
)

// Mesh generation parameters obtained from the YAML input deck
type MeshParameters struct {
	Title     string             `json:"Title"`
	Name      string             `json:"Name"`      // files are x3d.<Name>.in
	MeshType  string             `json:"MeshType"`  // e.g. orth_2d_mesh, vor_2d_mesh
	NumPerDim []int              `json:"NumPerDim"` // cells per dimension
	Bounds    []float64          `json:"Bounds"`    // low, high per dimension
	NumCells  int                `json:"NumCells"`  // Voronoi only
	Eps       float64            `json:"Eps"`       // 0 = no jitter, 1 = maximum
	Seed      uint64             `json:"Seed"`
	Regions   []RegionParameters `json:"Regions"` // later regions take precedence
}

type RegionParameters struct {
	ID     int       `json:"ID"`
	Bounds []float64 `json:"Bounds"`
}

// NewMeshParameters returns the defaults used when a value is not given
func NewMeshParameters() *MeshParameters {
	return &MeshParameters{
		Name:      "mesh",
		MeshType:  meshtypes.Orth2D.String(),
		NumPerDim: []int{1, 1},
		Bounds:    []float64{0, 1, 0, 1},
		NumCells:  100,
		Eps:       1,
		Seed:      1,
	}
}

func (mp *MeshParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, mp)
}

func ReadMeshParameters(path string) (mp *MeshParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	mp = NewMeshParameters()
	if err = mp.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return
}

func (mp *MeshParameters) Print() { mp.Fprint(os.Stdout) }

func (mp *MeshParameters) Fprint(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", mp.Title)
	fmt.Fprintf(w, "[%s]\t\t\t= Name\n", mp.Name)
	fmt.Fprintf(w, "[%s]\t\t= Mesh Type\n", mp.MeshType)
	fmt.Fprintf(w, "%v\t\t\t= Cells Per Dimension\n", mp.NumPerDim)
	fmt.Fprintf(w, "%v\t\t= Bounds\n", mp.Bounds)
	fmt.Fprintf(w, "[%d]\t\t\t= Voronoi Cells\n", mp.NumCells)
	fmt.Fprintf(w, "%8.5f\t\t= Eps\n", mp.Eps)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Seed\n", mp.Seed)
	for _, reg := range mp.Regions {
		fmt.Fprintf(w, "Regions[%d] = %v\n", reg.ID, reg.Bounds)
	}
}

// MeshParams converts the deck into generator inputs
func (mp *MeshParameters) MeshParams() (p meshtypes.Params, err error) {
	if p.Type, err = meshtypes.ParseType(mp.MeshType); err != nil {
		return
	}
	if p.Bounds, err = meshtypes.NewBounds(mp.Bounds); err != nil {
		return
	}
	if len(p.Bounds) != p.Type.NDim() {
		err = fmt.Errorf("%v needs bounds for %d dimensions, have %d",
			p.Type, p.Type.NDim(), len(p.Bounds))
		return
	}
	p.NumCellsPerDim = mp.NumPerDim
	p.NumCells = mp.NumCells
	p.Eps = mp.Eps
	p.Seed = mp.Seed
	return
}

// AddRegions appends regions given as ids and their flattened bounds, 2*ndim
// values per region in id order
func (mp *MeshParameters) AddRegions(ids []int, flatBounds []float64) (err error) {
	var (
		mt      meshtypes.Type
		regions []x3d.Region
	)
	if mt, err = meshtypes.ParseType(mp.MeshType); err != nil {
		return
	}
	if regions, err = x3d.NewRegions(ids, flatBounds, mt.NDim()); err != nil {
		return
	}
	for _, reg := range regions {
		mp.Regions = append(mp.Regions, RegionParameters{ID: reg.ID, Bounds: reg.Bounds.Flatten()})
	}
	return
}

func (mp *MeshParameters) RegionList(ndim int) (regions []x3d.Region, err error) {
	for _, reg := range mp.Regions {
		var b meshtypes.Bounds
		if b, err = meshtypes.NewBounds(reg.Bounds); err != nil {
			return nil, fmt.Errorf("region %d: %w", reg.ID, err)
		}
		if len(b) != ndim {
			return nil, fmt.Errorf("region %d has bounds for %d dimensions, need %d", reg.ID, len(b), ndim)
		}
		regions = append(regions, x3d.Region{ID: reg.ID, Bounds: b})
	}
	return
}

// Generate builds the mesh and its region assignment
func (mp *MeshParameters) Generate() (m *meshtypes.Mesh, r *x3d.Regions, err error) {
	var (
		p       meshtypes.Params
		regions []x3d.Region
	)
	if p, err = mp.MeshParams(); err != nil {
		return
	}
	if regions, err = mp.RegionList(p.Type.NDim()); err != nil {
		return
	}
	if m, err = meshtypes.New(p); err != nil {
		return
	}
	if r, err = x3d.AssignRegions(m, p.Bounds, regions); err != nil {
		return nil, nil, err
	}
	return
}
