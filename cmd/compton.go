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
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/dracotools/compton"
)

// ComptonCmd groups the Compton table converters
var ComptonCmd = &cobra.Command{
	Use:   "compton",
	Short: "Convert and merge Compton scattering tables",
	Long: `
Converts CSK and ULTRA Compton tables into plain text grids (<root>.<key>_grid)
and one matrix per temperature (<root>.mat_T<i>, rows Eto, columns Efrom).`,
}

var comptonCSKCmd = &cobra.Command{
	Use:   "csk <csk file>",
	Short: "Convert the zeroth moment of a CSK _out_lin table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			root   string
			grids  *compton.Grids
			mats   compton.CSKMats
			zeroth []*mat.Dense
		)
		if root, grids, mats, err = compton.ReadCSK(cmd.Context(), args[0]); err != nil {
			return
		}
		logger.Debug("read CSK files", zap.String("root", root), zap.Int("endings", len(mats)))
		if zeroth, err = compton.ZerothOut(mats); err != nil {
			return
		}
		return writeCompton(cmd.OutOrStdout(), root, grids, zeroth)
	},
}

var comptonUltraCmd = &cobra.Command{
	Use:   "ultra <ultra file>",
	Short: "Convert an ULTRA table, keeping a .backup copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			root   string
			fields []compton.Field
			grids  *compton.Grids
			mats   []*mat.Dense
		)
		if root, fields, err = compton.ReadUltra(args[0]); err != nil {
			return
		}
		logger.Debug("read ULTRA file", zap.String("root", root), zap.Int("fields", len(fields)))
		if grids, err = compton.ExtractGrids(fields); err != nil {
			return
		}
		if mats, err = compton.ToMatrix(grids, fields); err != nil {
			return
		}
		return writeCompton(cmd.OutOrStdout(), root, grids, mats)
	},
}

var comptonMergeCmd = &cobra.Command{
	Use:   "merge <root1> <root2> <new root>",
	Short: "Merge the temperatures of two CSK data sets",
	Long: `
Merges <root1>_in_lin, <root1>_out_lin, ... with the matching files of <root2>
into <new root>_in_lin, ... Endings missing from either root are skipped. If
<new root> is one of the inputs it is overwritten.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var written []string
		if written, err = compton.MergeCSK(args[0], args[1], args[2]); err != nil {
			return
		}
		for _, p := range written {
			logger.Info("merged CSK file", zap.String("file", p))
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return
	},
}

var comptonReadCmd = &cobra.Command{
	Use:   "read <root>",
	Short: "Read back converted grids and matrices and print their sizes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			grids *compton.Grids
			mats  []*mat.Dense
		)
		if grids, mats, err = compton.ReadData(args[0]); err != nil {
			return
		}
		printGrids(cmd.OutOrStdout(), grids, mats)
		return
	},
}

func init() {
	rootCmd.AddCommand(ComptonCmd)
	ComptonCmd.AddCommand(comptonCSKCmd, comptonUltraCmd, comptonMergeCmd, comptonReadCmd)
}

// writeCompton saves the grids and matrices, then reads them back as a check
func writeCompton(out io.Writer, root string, grids *compton.Grids, mats []*mat.Dense) (err error) {
	var paths, matPaths []string
	if paths, err = compton.WriteGrids(root, grids); err != nil {
		return
	}
	if matPaths, err = compton.WriteMats(root, mats); err != nil {
		return
	}
	for _, p := range append(paths, matPaths...) {
		logger.Debug("saved", zap.String("file", p))
	}
	if grids, mats, err = compton.ReadData(root); err != nil {
		return fmt.Errorf("reading back %s: %w", root, err)
	}
	printGrids(out, grids, mats)
	return
}

func printGrids(out io.Writer, grids *compton.Grids, mats []*mat.Dense) {
	for _, key := range compton.GridKeys {
		var vals []float64
		switch key {
		case "T":
			vals = grids.T
		case "Efrom":
			vals = grids.Efrom
		case "Eto":
			vals = grids.Eto
		case "Ebdr":
			vals = grids.Ebdr
		}
		fmt.Fprintf(out, "%-6s %4d values", key, len(vals))
		if len(vals) > 0 {
			fmt.Fprintf(out, " [%g, %g]", vals[0], vals[len(vals)-1])
		}
		fmt.Fprintln(out)
	}
	if len(mats) > 0 {
		r, c := mats[0].Dims()
		fmt.Fprintf(out, "%d matrices of %d x %d\n", len(mats), r, c)
	}
}
