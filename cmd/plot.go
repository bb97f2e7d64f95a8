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

	"github.com/notargets/dracotools/readfiles"
)

// PlotCmd represents the plot command
var PlotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot a 2D X3D mesh with its boundaries",
	Long: `
Reads an X3D mesh file and its boundary node files, then shows the edges,
one colour per boundary side and the nodes in a chart window. Blocks until
interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var xf *readfiles.X3DFile
		if err = bindFlags(cmd); err != nil {
			return
		}
		fileName := viper.GetString("file_name")
		if fileName == "" {
			return fmt.Errorf("must supply a mesh file (-f, --file_name)")
		}
		if xf, err = readfiles.ReadX3D(fileName, true); err != nil {
			return
		}
		logger.Info("plotting mesh", zap.String("file", fileName),
			zap.Int("nodes", xf.NumNodes()), zap.Int("faces", xf.NumFaces()))
		return readfiles.PlotMesh(xf)
	},
}

// InspectCmd represents the inspect command
var InspectCmd = &cobra.Command{
	Use:   "inspect <mesh file>",
	Short: "Print the size and extent of an X3D mesh",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			xf    *readfiles.X3DFile
			noBdy bool
		)
		if noBdy, err = cmd.Flags().GetBool("no_boundaries"); err != nil {
			return
		}
		if xf, err = readfiles.ReadX3D(args[0], !noBdy); err != nil {
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), xf.Summary())
		return
	},
}

func init() {
	rootCmd.AddCommand(PlotCmd)
	rootCmd.AddCommand(InspectCmd)
	PlotCmd.Flags().StringP("file_name", "f", "", "mesh file to plot")
	InspectCmd.Flags().Bool("no_boundaries", false, "skip the boundary node files")
}
