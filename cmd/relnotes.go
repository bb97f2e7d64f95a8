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
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/notargets/dracotools/relnotes"
)

// RelNotesCmd groups the release note collectors
var RelNotesCmd = &cobra.Command{
	Use:   "relnotes",
	Short: "Collect release notes from GitHub or GitLab",
	Long: `
Lists the pull or merge requests merged and the issues closed after a cutoff
date (YYYYMMDD), followed by the bugs that are still open. The token can also
be given as DRACOTOOLS_TOKEN or in the config file.`,
}

var relNotesGitHubCmd = &cobra.Command{
	Use:   "github <YYYYMMDD>",
	Short: "Release notes from a GitHub repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			cutoff time.Time
			report *relnotes.Report
		)
		if cutoff, err = relNotesSetup(cmd, args[0]); err != nil {
			return
		}
		repo := viper.GetString("repo")
		gh := relnotes.NewGitHub(viper.GetString("url"), repo, viper.GetString("user"), viper.GetString("token"))
		logger.Info("collecting release notes", zap.String("repo", repo), zap.Time("cutoff", cutoff))
		if report, err = gh.Report(cmd.Context(), cutoff); err != nil {
			return
		}
		return report.Write(cmd.OutOrStdout())
	},
}

var relNotesGitLabCmd = &cobra.Command{
	Use:   "gitlab <YYYYMMDD>",
	Short: "Release notes from a GitLab project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			cutoff time.Time
			report *relnotes.Report
		)
		if cutoff, err = relNotesSetup(cmd, args[0]); err != nil {
			return
		}
		project := viper.GetString("project")
		gl := relnotes.NewGitLab(viper.GetString("url"), project, viper.GetString("user"), viper.GetString("token"))
		logger.Info("collecting release notes", zap.String("project", gl.Project), zap.Time("cutoff", cutoff))
		if report, err = gl.Report(cmd.Context(), cutoff); err != nil {
			return
		}
		return report.Write(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(RelNotesCmd)
	RelNotesCmd.AddCommand(relNotesGitHubCmd, relNotesGitLabCmd)
	RelNotesCmd.PersistentFlags().String("user", "", "user name for basic authentication")
	RelNotesCmd.PersistentFlags().String("token", "", "personal access token")
	RelNotesCmd.PersistentFlags().String("url", "", "API base URL, defaults to the public service")
	relNotesGitHubCmd.Flags().String("repo", "lanl/Draco", "owner/name of the repository")
	relNotesGitLabCmd.Flags().String("project", relnotes.GitLabProject, "numeric project id")
}

func relNotesSetup(cmd *cobra.Command, date string) (cutoff time.Time, err error) {
	if err = bindFlags(cmd); err != nil {
		return
	}
	if viper.GetString("token") == "" {
		err = fmt.Errorf("must supply an access token (--token or DRACOTOOLS_TOKEN)")
		return
	}
	return relnotes.ParseCutoff(date)
}
