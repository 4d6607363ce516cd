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
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ademuri/spotify-history/internal/contexts"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var suggestNumber int

var suggestCmd = &cobra.Command{
	Use:   "suggest <context> [from] [to (optional)]",
	Short: "Suggests tracks for a listening context",
	Long: `Lists the tracks played most often in the given context, one of workout, commute,
work, party, relaxation or other.`,
	Args: cobra.RangeArgs(1, 3),
	Run: func(cmd *cobra.Command, args []string) {
		if err := printSuggestions(cmd.OutOrStdout(), args[0], suggestNumber, args[1:]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().IntVarP(&suggestNumber, "number", "n", contexts.DefaultSuggestions, "number of suggestions to return")
}

func printSuggestions(out io.Writer, context string, n int, args []string) error {
	label, err := contexts.ParseLabel(context)
	if err != nil {
		return err
	}
	a, err := loadAnalyzer(args)
	if err != nil {
		return err
	}

	suggestions := a.SuggestForContext(label, n)
	if len(suggestions) == 0 {
		fmt.Fprintf(out, "No plays found in context %s\n", label)
		return nil
	}

	buf := new(bytes.Buffer)
	table := tablewriter.NewWriter(buf)
	table.Header([]string{"Track", "Artist", "Plays"})
	for _, s := range suggestions {
		if err := table.Append([]string{s.Track, s.Artist, strconv.Itoa(s.Count)}); err != nil {
			return fmt.Errorf("rendering suggestions: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering suggestions: %w", err)
	}
	_, err = buf.WriteTo(out)
	return err
}
