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
	"errors"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/ademuri/spotify-history/internal/analysis"
	"github.com/ademuri/spotify-history/internal/session"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type SendEmailConfig struct {
	From           string
	To             string
	ReportName     string
	Types          []string
	NumToReturn    int
	Gap            int
	DryRun         bool
	SendgridApiKey string
	Start          time.Time
	End            time.Time
}

var emailCmd = &cobra.Command{
	Use:   "email <address> <analysis_name...> [date] [date]",
	Short: "Sends an email report",
	Long: `Emails listening history to the specified address.
  <analysis_name> is one or more of: stats, top-artists, top-tracks, top-genres, sessions, session-patterns, contexts, moods.
  Optional date arguments can be provided at the end (e.g. '2023-01' or '2023-01 2023-06').
  If no dates are provided, defaults to the previous month.`,
	Args: cobra.MinimumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		to := args[0]
		analysisTypes, dateArgs := splitDateArgs(args[1:])
		if len(analysisTypes) == 0 {
			fmt.Println("Error: No analysis types specified")
			os.Exit(1)
		}

		var start, end time.Time
		var err error
		if len(dateArgs) > 0 {
			start, end, err = parseDateRangeFromArgs(dateArgs)
			if err != nil {
				fmt.Printf("Error parsing dates: %v\n", err)
				os.Exit(1)
			}
		} else {
			start, end = previousMonth(clock().UTC())
		}

		config := SendEmailConfig{
			From:           viper.GetString("from"),
			To:             to,
			ReportName:     viper.GetString("name"),
			Types:          analysisTypes,
			NumToReturn:    viper.GetInt("number"),
			Gap:            viper.GetInt("gap"),
			DryRun:         viper.GetBool("dryRun"),
			SendgridApiKey: viper.GetString("sendgrid_api_key"),
			Start:          start,
			End:            end,
		}
		if err := sendEmail(config); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))

	var name string
	emailCmd.Flags().StringVar(&name, "name", "", "Report name, appended to the subject")
	viper.BindPFlag("name", emailCmd.Flags().Lookup("name"))

	var number int
	emailCmd.Flags().IntVar(&number, "number", 10, "Number of results in top lists")
	viper.BindPFlag("number", emailCmd.Flags().Lookup("number"))

	var gap int
	emailCmd.Flags().IntVar(&gap, "gap", session.DefaultGapMinutes, "Minutes between plays that end a session")
	viper.BindPFlag("gap", emailCmd.Flags().Lookup("gap"))
}

// splitDateArgs peels up to two date arguments off the end of args.
func splitDateArgs(args []string) (rest []string, dates []string) {
	rest = args
	for i := 0; i < 2 && len(rest) > 0; i++ {
		last := rest[len(rest)-1]
		if _, err := parseSingleDatestring(last); err != nil {
			break
		}
		dates = append([]string{last}, dates...)
		rest = rest[:len(rest)-1]
	}
	return
}

func previousMonth(t time.Time) (start, end time.Time) {
	end = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	start = end.AddDate(0, -1, 0)
	return
}

func sendEmail(config SendEmailConfig) error {
	actions := make([]Analyser, 0, len(config.Types))
	for _, actionName := range config.Types {
		action, err := getActionFromName(actionName, config.NumToReturn)
		if err != nil {
			return fmt.Errorf("Invalid analysis_name: %s", actionName)
		}
		actions = append(actions, action)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	a, err := analysis.Load(db, config.Start, config.End, log)
	db.Close()
	if err != nil {
		return err
	}
	a.DetectSessions(config.Gap)

	subject, out, err := generateEmailContent(config, a, actions)
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, out)
		return nil
	}

	if config.SendgridApiKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}
	from := mail.NewEmail("spotify-history", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, subject, out)
	client := sendgrid.NewSendClient(config.SendgridApiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendEmail: sendgrid returned %d: %s", response.StatusCode, response.Body)
	}
	log.Infof("Sent %q to %s", subject, config.To)
	return nil
}

func generateEmailContent(config SendEmailConfig, a *analysis.Analyzer, actions []Analyser) (subject string, body string, err error) {
	var out strings.Builder
	out.WriteString(`
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`)
	period := fmt.Sprintf("%s to %s", config.Start.Format("2006-01-02"), config.End.Format("2006-01-02"))
	for _, action := range actions {
		out.WriteString("\t\t<div>\n")
		fmt.Fprintf(&out, "<h2>%s for %s:</h2>\n", action.GetName(), period)

		result, err := action.GetResults(a)
		var dep *analysis.MissingDependencyError
		switch {
		case errors.As(err, &dep):
			fmt.Fprintf(&out, "<div>Skipped: %s.</div>\n\t\t</div>\n", html.EscapeString(dep.Error()))
			continue
		case err != nil:
			return "", "", fmt.Errorf("getting results for %s: %w", action.GetName(), err)
		}

		if len(result.results) <= 1 || len(a.Plays()) == 0 {
			out.WriteString("<div>No listens found.</div>\n")
		} else {
			out.WriteString("\t\t\t<table>\n\t\t\t\t<thead>\n\t\t\t\t\t<tr>\n")
			for _, header := range result.results[0] {
				fmt.Fprintf(&out, "<th>%s</th>", html.EscapeString(header))
			}
			out.WriteString("\t\t\t\t</tr>\n\t\t\t</thead>\n\t\t\t<tbody>\n")
			for _, row := range result.results[1:] {
				out.WriteString("<tr>\n")
				for _, column := range row {
					fmt.Fprintf(&out, "<td>%s</td>\n", html.EscapeString(column))
				}
				out.WriteString("</tr>\n")
			}
			out.WriteString("\t\t\t</tbody>\n\t\t</table>\n")
		}
		fmt.Fprintf(&out, "<div>%s</div>\n\t\t</div>\n", html.EscapeString(result.summary))
	}
	out.WriteString("  </body>\n</html>\n")

	subjectSuffix := ""
	if len(config.ReportName) > 0 {
		subjectSuffix = ": " + config.ReportName
	}
	subject = fmt.Sprintf("Listening report %s%s", period, subjectSuffix)

	return subject, out.String(), nil
}
