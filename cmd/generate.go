/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/notargets/dracotools/InputParameters"
	"github.com/notargets/dracotools/x3d"
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an X3D mesh with boundary and region files",
	Long: `
Generates the connectivity of an orthogonal, face centred cubic, random or
Voronoi mesh and writes it in X3D format as x3d.<name>.in, with one
x3d.<name>.bdy<k>.in node list per boundary side and one x3d.<name>.Reg<j>.in
cell list per non-empty region.

Parameters come from the flags or from a YAML input deck (-I), for example:

########################################
Title: "Jittered box"
Name: box
MeshType: rnd_2d_mesh # orth_1d_mesh, orth_2d_mesh, orth_3d_mesh, fcc_3d_mesh,
                      # vor_2d_mesh, rnd_1d_mesh, rnd_2d_mesh, rnd_3d_mesh
NumPerDim: [4, 4]
Bounds: [0, 1, 0, 1]
Eps: 0.5
Seed: 3
Regions:
  - ID: 1
    Bounds: [0, 0.5, 0, 1]
########################################
`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(GenerateCmd)
	defaults := InputParameters.NewMeshParameters()
	GenerateCmd.Flags().StringP("inputParametersFile", "I", "", "YAML input deck, replaces the mesh flags")
	GenerateCmd.Flags().StringP("mesh_type", "m", defaults.MeshType, "mesh type")
	GenerateCmd.Flags().IntSliceP("num_per_dim", "n", defaults.NumPerDim, "number of cells per dimension")
	GenerateCmd.Flags().Float64SliceP("bnd_per_dim", "b", defaults.Bounds, "bounds per dimension, low,high for each")
	GenerateCmd.Flags().String("name", defaults.Name, "file name, prefixed with x3d. and suffixed with .in")
	GenerateCmd.Flags().Int("num_cells", defaults.NumCells, "number of cells for Voronoi meshes")
	GenerateCmd.Flags().Float64("eps", defaults.Eps, "0 = no randomization, 1 = maximum randomization")
	GenerateCmd.Flags().Uint64("rnd_seed", defaults.Seed, "random number seed")
	GenerateCmd.Flags().IntSlice("reg_ids", nil, "region ids, later ids take precedence")
	GenerateCmd.Flags().Float64Slice("reg_bnd_per_dim", nil, "bounds per dimension of each region")
	GenerateCmd.Flags().StringP("dir", "d", ".", "output directory")
}

func meshParameters(cmd *cobra.Command) (mp *InputParameters.MeshParameters, err error) {
	if deck := viper.GetString("inputParametersFile"); deck != "" {
		return InputParameters.ReadMeshParameters(deck)
	}
	var (
		regIDs []int
		regBnd []float64
	)
	mp = InputParameters.NewMeshParameters()
	mp.MeshType = viper.GetString("mesh_type")
	mp.Name = viper.GetString("name")
	mp.NumCells = viper.GetInt("num_cells")
	mp.Eps = viper.GetFloat64("eps")
	mp.Seed = viper.GetUint64("rnd_seed")
	if mp.NumPerDim, err = cmd.Flags().GetIntSlice("num_per_dim"); err != nil {
		return
	}
	if mp.Bounds, err = cmd.Flags().GetFloat64Slice("bnd_per_dim"); err != nil {
		return
	}
	if regIDs, err = cmd.Flags().GetIntSlice("reg_ids"); err != nil {
		return
	}
	if regBnd, err = cmd.Flags().GetFloat64Slice("reg_bnd_per_dim"); err != nil {
		return
	}
	if len(regIDs) != 0 || len(regBnd) != 0 {
		if err = mp.AddRegions(regIDs, regBnd); err != nil {
			return nil, err
		}
	}
	return
}

func runGenerate(cmd *cobra.Command, args []string) (err error) {
	var (
		mp    *InputParameters.MeshParameters
		paths []string
	)
	if err = bindFlags(cmd); err != nil {
		return
	}
	if mp, err = meshParameters(cmd); err != nil {
		return
	}
	if verbose {
		mp.Fprint(cmd.ErrOrStderr())
	}
	m, r, err := mp.Generate()
	if err != nil {
		return
	}
	logger.Info("generated mesh",
		zap.String("type", mp.MeshType),
		zap.Int("nodes", m.NumNodes()),
		zap.Int("faces", m.NumFaces()),
		zap.Int("cells", m.NumCells()),
		zap.Ints("regions", r.IDs))
	if paths, err = x3d.NewWriter(m, r).Write(viper.GetString("dir"), mp.Name); err != nil {
		return
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return
}
