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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/dracotools/readfiles"
	"github.com/notargets/dracotools/x3d"
)

// ConvertCmd represents the convert command
var ConvertCmd = &cobra.Command{
	Use:   "convert <su2 file>",
	Short: "Convert a 2D SU2 mesh into X3D files",
	Long: `
Reads a 2D SU2 mesh of triangles and quadrilaterals and writes it in X3D
format, one boundary node file per marker tag in the order the tags first
appear. All cells are placed in region 1.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			sm        *readfiles.SU2Mesh
			name, dir string
			paths     []string
		)
		if name, err = cmd.Flags().GetString("name"); err != nil {
			return
		}
		if dir, err = cmd.Flags().GetString("dir"); err != nil {
			return
		}
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
		if sm, err = readfiles.ReadSU2(args[0]); err != nil {
			return
		}
		for side, tag := range sm.Markers {
			logger.Debug("boundary side", zap.Int("side", side+1), zap.String("marker", tag))
		}
		logger.Info("converted mesh", zap.String("file", args[0]),
			zap.Int("nodes", sm.NumNodes()), zap.Int("cells", sm.NumCells()), zap.Strings("markers", sm.Markers))
		if paths, err = x3d.NewWriter(sm.Mesh, nil).Write(dir, name); err != nil {
			return
		}
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(ConvertCmd)
	ConvertCmd.Flags().String("name", "", "mesh name, defaults to the input file name without extension")
	ConvertCmd.Flags().StringP("dir", "d", ".", "output directory")
}
