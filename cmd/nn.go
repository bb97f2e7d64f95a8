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
	"go.uber.org/zap"

	"github.com/notargets/dracotools/nn"
)

// NNCmd represents the nn command
var NNCmd = &cobra.Command{
	Use:   "nn <model file> [model file...]",
	Short: "Convert network weight files to the Draco .nnb and .nn formats",
	Long: `
Reads a YAML or JSON description of a feed-forward network, a list of Layers
with Type (Linear, ReLU or None) and for Linear layers the Weight rows and Bias,
then writes <name>.nnb (little-endian binary) and <name>.nn (text) beside it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		for _, path := range args {
			var written []string
			if written, err = nn.Convert(path); err != nil {
				return
			}
			for _, p := range written {
				logger.Info("wrote network", zap.String("model", path), zap.String("file", p))
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(NNCmd)
}
