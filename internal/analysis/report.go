package analysis

import (
	"fmt"

	"github.com/ademuri/spotify-history/internal/contexts"
)

const reportTopN = 10

// Report gathers every analysis into one document. Genre and audio sections
// are included only when that enrichment is loaded.
func (a *Analyzer) Report() (*Report, error) {
	basic := a.BasicStats()
	r := &Report{
		Metadata: ReportMetadata{
			GeneratedDate: a.now().Format("2006-01-02"),
			TotalPlays:    basic.TotalPlays,
			SessionGap:    a.SessionGap(),
		},
		Basic:      basic,
		Streaks:    a.Streaks(),
		TopArtists: a.TopArtists(reportTopN),
		TopTracks:  a.TopTracks(reportTopN),
		Sessions: SessionReport{
			Statistics: a.SessionStatistics(),
			Patterns:   a.SessionPatterns(),
			Content:    a.SessionContentAnalysis(),
		},
		Contexts: ContextReport{
			Statistics:  a.ContextStatistics(),
			Suggestions: make(map[contexts.Label][]contexts.Suggestion),
		},
	}
	if basic.TotalPlays > 0 {
		r.Metadata.Period = fmt.Sprintf("%s to %s", basic.StartDate, basic.EndDate)
	}
	for _, l := range contexts.Labels {
		if s := a.SuggestForContext(l, contexts.DefaultSuggestions); len(s) > 0 {
			r.Contexts.Suggestions[l] = s
		}
	}

	if a.HasGenres() {
		top, err := a.TopGenres(reportTopN)
		if err != nil {
			return nil, fmt.Errorf("top genres: %w", err)
		}
		diversity, err := a.GenreDiversity()
		if err != nil {
			return nil, fmt.Errorf("genre diversity: %w", err)
		}
		r.Genres = &GenreReport{Top: top, Diversity: diversity}
		r.Metadata.Enrichment = append(r.Metadata.Enrichment, "genres")
	}

	if a.HasAudioFeatures() {
		avgs, err := a.AverageAudioFeatures()
		if err != nil {
			return nil, fmt.Errorf("average audio features: %w", err)
		}
		moods, err := a.MoodAnalysis()
		if err != nil {
			return nil, fmt.Errorf("mood analysis: %w", err)
		}
		overTime := make(map[string]map[string]float64, len(OverTimeFeatures))
		for _, name := range OverTimeFeatures {
			if overTime[name], err = a.AudioFeatureOverTime(name); err != nil {
				return nil, fmt.Errorf("%s over time: %w", name, err)
			}
		}
		r.Audio = &AudioReport{Averages: avgs, Moods: moods, OverTime: overTime}
		r.Metadata.Enrichment = append(r.Metadata.Enrichment, "audio_features")
	}
	return r, nil
}
