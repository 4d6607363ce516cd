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

var statsCmd = &cobra.Command{
	Use:   "stats [from] [to (optional)]",
	Short: "Prints overall listening statistics",
	Long: `Uses the specified date or date range, or the whole history when none is given.
Date strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd', or a relative '30d', '12w', '6m', '1y'.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := printStats(os.Stdout, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func printStats(out io.Writer, args []string) error {
	a, err := loadAnalyzer(args)
	if err != nil {
		return err
	}
	return printAnalyses(out, a, statsAnalyser{})
}
