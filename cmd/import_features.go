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

	"github.com/ademuri/spotify-history/internal/enrich"
	"github.com/spf13/cobra"
)

var importFeaturesCmd = &cobra.Command{
	Use:   "import-features <file>",
	Short: "Imports Spotify audio features",
	Long: `Reads a JSON file of Spotify audio-features objects, either a bare array or the
{"audio_features": [...]} API response, and stores them by track id. Audio
features enable the context rules that use energy and tempo, and mood analysis.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := importFeatures(os.Stdout, args[0]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importFeaturesCmd)
}

func importFeatures(out io.Writer, path string) error {
	features, err := enrich.LoadAudioFeatures(path)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveAudioFeatures(features); err != nil {
		return fmt.Errorf("importing audio features: %w", err)
	}
	fmt.Fprintf(out, "Imported audio features for %d tracks\n", len(features))
	return nil
}
