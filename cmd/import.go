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

	"github.com/ademuri/spotify-history/internal/history"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Imports a Spotify streaming history export",
	Long: `Reads a StreamingHistory*.json file, or a directory of them, into the database.
Both the basic and the extended export formats are accepted. Plays of 30 seconds
or less are dropped, and plays already in the database are skipped.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := importHistory(os.Stdout, args[0]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func importHistory(out io.Writer, path string) error {
	paths, err := history.ResolvePaths(path)
	if err != nil {
		return err
	}
	for _, p := range paths {
		log.Debugf("Reading %s", p)
	}

	plays, err := history.LoadFiles(paths)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	added, err := db.AddPlays(plays)
	if err != nil {
		return fmt.Errorf("importing plays: %w", err)
	}
	fmt.Fprintf(out, "Imported %d new plays (%d read from %d files)\n", added, len(plays), len(paths))

	first, last, err := db.PlayRange()
	if err != nil {
		return err
	}
	if !first.IsZero() {
		fmt.Fprintf(out, "History covers %s to %s\n", first.Format("2006-01-02"), last.Format("2006-01-02"))
	}
	return nil
}
