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

	"github.com/ademuri/spotify-history/internal/analysis"
	"github.com/spf13/cobra"
)

var topNumber int
var topType string

var topCmd = &cobra.Command{
	Use:   "top [from] [to (optional)]",
	Short: "Gets the top artists, tracks or genres",
	Long: `Ranks by play count; the summary names the entry with the most listening time.
Genres need "update-genres" to have been run. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := printTop(os.Stdout, topType, topNumber, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topCmd)

	topCmd.Flags().IntVarP(&topNumber, "number", "n", 10, "number of results to return")
	topCmd.Flags().StringVarP(&topType, "type", "t", "artists", "what to rank: artists, tracks or genres")
}

func printTop(out io.Writer, kind string, n int, args []string) error {
	var action Analyser
	switch kind {
	case "artists":
		action = topArtistsAnalyser{n}
	case "tracks":
		action = topTracksAnalyser{n}
	case "genres":
		action = topGenresAnalyser{n}
	default:
		return fmt.Errorf("--type must be artists, tracks or genres, got %q", kind)
	}

	a, err := loadAnalyzer(args)
	if err != nil {
		return err
	}
	return printAnalyses(out, a, action)
}

func printAnalyses(out io.Writer, a *analysis.Analyzer, actions ...Analyser) error {
	for _, action := range actions {
		result, err := action.GetResults(a)
		if err != nil {
			return fmt.Errorf("%s: %w", action.GetName(), err)
		}
		fmt.Fprintln(out, result)
	}
	return nil
}
