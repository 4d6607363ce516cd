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

	"github.com/ademuri/spotify-history/internal/session"
	"github.com/spf13/cobra"
)

var sessionsGap int
var sessionsPatterns bool

var sessionsCmd = &cobra.Command{
	Use:   "sessions [from] [to (optional)]",
	Short: "Detects listening sessions",
	Long: `Groups plays into sessions, starting a new session whenever more than --gap
minutes pass between consecutive plays, and summarizes their lengths and types.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := printSessions(os.Stdout, sessionsGap, sessionsPatterns, args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.Flags().IntVar(&sessionsGap, "gap", session.DefaultGapMinutes, "minutes between plays that end a session")
	sessionsCmd.Flags().BoolVar(&sessionsPatterns, "patterns", false, "also print when sessions start")
}

func printSessions(out io.Writer, gap int, patterns bool, args []string) error {
	if gap < 0 {
		return fmt.Errorf("--gap must not be negative, got %d", gap)
	}
	a, err := loadAnalyzer(args)
	if err != nil {
		return err
	}
	a.DetectSessions(gap)

	actions := []Analyser{sessionsAnalyser{}}
	if patterns {
		actions = append(actions, sessionPatternsAnalyser{})
	}
	return printAnalyses(out, a, actions...)
}
