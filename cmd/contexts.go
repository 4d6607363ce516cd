/*
Copyright 2020 Google LLC

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
	"os"

	"github.com/spf13/cobra"
)

var contextsCmd = &cobra.Command{
	Use:   "contexts [from] [to (optional)]",
	Short: "Classifies plays into listening contexts",
	Long: `Labels every play as workout, commute, work, party, relaxation or other from the
time of day and, once "import-features" has been run, the track's energy and tempo.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := printContexts(os.Stdout, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(contextsCmd)
}

func printContexts(out io.Writer, args []string) error {
	a, err := loadAnalyzer(args)
	if err != nil {
		return err
	}
	actions := []Analyser{contextsAnalyser{}}
	if a.HasAudioFeatures() {
		actions = append(actions, moodsAnalyser{})
	}
	return printAnalyses(out, a, actions...)
}
