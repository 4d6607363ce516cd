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
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ademuri/spotify-history/internal/session"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var reportGap int
var reportFormat string
var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report [from] [to (optional)]",
	Short: "Generates a full listening report",
	Long: `Combines statistics, sessions, contexts and, when imported, genres and audio
features into one YAML (or JSON) document.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		out := io.Writer(os.Stdout)
		if reportOutput != "" {
			f, err := os.Create(reportOutput)
			if err != nil {
				fmt.Printf("Error creating output file: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			out = f
		}

		if err := writeReport(out, reportFormat, reportGap, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().IntVar(&reportGap, "gap", session.DefaultGapMinutes, "minutes between plays that end a session")
	reportCmd.Flags().StringVar(&reportFormat, "format", "yaml", "output format: yaml or json")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to this file instead of stdout")
}

func writeReport(out io.Writer, format string, gap int, args []string) error {
	if format != "yaml" && format != "json" {
		return fmt.Errorf("--format must be yaml or json, got %q", format)
	}

	a, err := loadAnalyzer(args)
	if err != nil {
		return err
	}
	a.DetectSessions(gap)

	report, err := a.Report()
	if err != nil {
		return fmt.Errorf("generating report: %w", err)
	}

	if format == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return encoder.Close()
}
