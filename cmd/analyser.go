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
	"sort"
	"strconv"

	"github.com/ademuri/spotify-history/internal/analysis"
	"github.com/ademuri/spotify-history/internal/contexts"
	"github.com/ademuri/spotify-history/internal/history"
	"github.com/ademuri/spotify-history/internal/session"
	"github.com/olekukonko/tablewriter"
)

type Analysis struct {
	results [][]string
	summary string
}

type Analyser interface {
	GetResults(a *analysis.Analyzer) (Analysis, error)

	GetName() string
}

func (a Analysis) String() string {
	out := new(bytes.Buffer)
	table := tablewriter.NewWriter(out)
	table.Header(a.results[0])
	for _, row := range a.results[1:] {
		if err := table.Append(row); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Sprintf("Error rendering table: %v", err)
	}
	fmt.Fprintf(out, "%s\n", a.summary)
	return out.String()
}

// getActionFromName maps an analysis name, as given to `email`, to its
// Analyser.
func getActionFromName(name string, n int) (Analyser, error) {
	switch name {
	case "stats":
		return statsAnalyser{}, nil
	case "top-artists":
		return topArtistsAnalyser{n}, nil
	case "top-tracks":
		return topTracksAnalyser{n}, nil
	case "top-genres":
		return topGenresAnalyser{n}, nil
	case "sessions":
		return sessionsAnalyser{}, nil
	case "session-patterns":
		return sessionPatternsAnalyser{}, nil
	case "contexts":
		return contextsAnalyser{}, nil
	case "moods":
		return moodsAnalyser{}, nil
	}
	return nil, fmt.Errorf("Unknown analysis %q", name)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

type statsAnalyser struct{}

func (statsAnalyser) GetName() string {
	return "Listening statistics"
}

func (statsAnalyser) GetResults(a *analysis.Analyzer) (Analysis, error) {
	s := a.BasicStats()
	st := a.Streaks()
	results := [][]string{
		{"Statistic", "Value"},
		{"Total plays", strconv.Itoa(s.TotalPlays)},
		{"Unique tracks", strconv.Itoa(s.UniqueTracks)},
		{"Unique artists", strconv.Itoa(s.UniqueArtists)},
		{"Listening hours", formatFloat(s.TotalHours)},
		{"Average hours per day", formatFloat(s.AvgDailyHours)},
		{"Days with activity", strconv.Itoa(st.DaysWithActivity)},
		{"Longest streak (days)", strconv.Itoa(st.LongestStreak)},
	}
	summary := "No plays found."
	if s.TotalPlays > 0 {
		summary = fmt.Sprintf("%s to %s (%d days)", s.StartDate, s.EndDate, s.DateRangeDays)
	}
	return Analysis{results: results, summary: summary}, nil
}

type topArtistsAnalyser struct {
	n int
}

func (topArtistsAnalyser) GetName() string {
	return "Top artists"
}

func (t topArtistsAnalyser) GetResults(a *analysis.Analyzer) (Analysis, error) {
	ranking := a.TopArtists(t.n)
	results := [][]string{{"Artist", "Plays", "Hours"}}
	for _, c := range ranking.ByCount {
		results = append(results, []string{c.Artist, strconv.Itoa(c.Plays), formatFloat(c.Hours)})
	}
	return Analysis{results: results, summary: byTimeSummary(artistNames(ranking.ByTime))}, nil
}

func artistNames(counts []history.ArtistCount) []string {
	names := make([]string, len(counts))
	for i, c := range counts {
		names[i] = c.Artist
	}
	return names
}

type topTracksAnalyser struct {
	n int
}

func (topTracksAnalyser) GetName() string {
	return "Top tracks"
}

func (t topTracksAnalyser) GetResults(a *analysis.Analyzer) (Analysis, error) {
	ranking := a.TopTracks(t.n)
	results := [][]string{{"Track", "Artist", "Plays", "Hours"}}
	for _, c := range ranking.ByCount {
		results = append(results, []string{c.Track, c.Artist, strconv.Itoa(c.Plays), formatFloat(c.Hours)})
	}
	names := make([]string, len(ranking.ByTime))
	for i, c := range ranking.ByTime {
		names[i] = c.Track
	}
	return Analysis{results: results, summary: byTimeSummary(names)}, nil
}

type topGenresAnalyser struct {
	n int
}

func (topGenresAnalyser) GetName() string {
	return "Top genres"
}

func (t topGenresAnalyser) GetResults(a *analysis.Analyzer) (Analysis, error) {
	ranking, err := a.TopGenres(t.n)
	if err != nil {
		return Analysis{}, err
	}
	results := [][]string{{"Genre", "Plays", "Hours"}}
	names := make([]string, len(ranking.ByTime))
	for _, c := range ranking.ByCount {
		results = append(results, []string{c.Genre, strconv.Itoa(c.Plays), formatFloat(c.Hours)})
	}
	for i, c := range ranking.ByTime {
		names[i] = c.Genre
	}
	return Analysis{results: results, summary: byTimeSummary(names)}, nil
}

func byTimeSummary(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return fmt.Sprintf("Most time spent on: %s", names[0])
}

type sessionsAnalyser struct{}

func (sessionsAnalyser) GetName() string {
	return "Listening sessions"
}

func (sessionsAnalyser) GetResults(a *analysis.Analyzer) (Analysis, error) {
	st := a.SessionStatistics()
	content := a.SessionContentAnalysis()

	results := [][]string{{"Statistic", "Value"}}
	results = append(results,
		[]string{"Sessions", strconv.Itoa(st.TotalSessions)},
		[]string{"Average length (min)", formatFloat(st.AvgSessionLength)},
		[]string{"Median length (min)", formatFloat(st.MedianSessionLength)},
		[]string{"Longest (min)", formatFloat(st.LongestSessionMinutes)},
		[]string{"Shortest (min)", formatFloat(st.ShortestSessionMinutes)},
		[]string{"Average tracks", formatFloat(st.AvgTracksPerSession)},
		[]string{"Average artists", formatFloat(st.AvgArtistsPerSession)},
	)
	for _, b := range session.LengthBuckets {
		results = append(results, []string{"Length " + b, strconv.Itoa(st.LengthDistribution[b])})
	}
	for _, t := range session.Types {
		results = append(results, []string{"Type " + string(t), strconv.Itoa(content.SessionTypes[t])})
	}

	summary := fmt.Sprintf("Gap threshold %d minutes. Artist continuity %s, unique artist ratio %s.",
		a.SessionGap(), formatFloat(content.AvgArtistContinuity), formatFloat(content.AvgUniqueArtistsRatio))
	return Analysis{results: results, summary: summary}, nil
}

type sessionPatternsAnalyser struct{}

func (sessionPatternsAnalyser) GetName() string {
	return "Session start times"
}

func (sessionPatternsAnalyser) GetResults(a *analysis.Analyzer) (Analysis, error) {
	p := a.SessionPatterns()
	results := [][]string{{"When", "Sessions"}}
	for h := 0; h < 24; h++ {
		results = append(results, []string{fmt.Sprintf("%02d:00", h), strconv.Itoa(p.ByHour[h])})
	}
	for _, d := range history.WeekdayNames {
		results = append(results, []string{d, strconv.Itoa(p.ByWeekday[d])})
	}
	for _, m := range history.MonthNames {
		results = append(results, []string{m, strconv.Itoa(p.ByMonth[m])})
	}
	return Analysis{results: results}, nil
}

type contextsAnalyser struct{}

func (contextsAnalyser) GetName() string {
	return "Listening contexts"
}

func (contextsAnalyser) GetResults(a *analysis.Analyzer) (Analysis, error) {
	st := a.ContextStatistics()
	results := [][]string{{"Context", "Share", "Minutes"}}
	for _, l := range contexts.Labels {
		results = append(results, []string{
			string(l),
			fmt.Sprintf("%.1f%%", st.Distribution[l]*100),
			formatFloat(st.ByTime[l]),
		})
	}
	summary := ""
	if !a.HasAudioFeatures() {
		summary = "Audio features not imported; contexts use time of day only."
	}
	return Analysis{results: results, summary: summary}, nil
}

type moodsAnalyser struct{}

func (moodsAnalyser) GetName() string {
	return "Moods"
}

func (moodsAnalyser) GetResults(a *analysis.Analyzer) (Analysis, error) {
	m, err := a.MoodAnalysis()
	if err != nil {
		return Analysis{}, err
	}
	moods := make([]string, 0, len(m.ByCount))
	for mood := range m.ByCount {
		moods = append(moods, string(mood))
	}
	sort.Strings(moods)

	results := [][]string{{"Mood", "Plays", "Hours"}}
	for _, mood := range moods {
		results = append(results, []string{
			mood,
			strconv.Itoa(m.ByCount[analysis.Mood(mood)]),
			formatFloat(m.ByTime[analysis.Mood(mood)]),
		})
	}
	return Analysis{results: results}, nil
}
