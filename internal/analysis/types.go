package analysis

import (
	"github.com/ademuri/spotify-history/internal/contexts"
	"github.com/ademuri/spotify-history/internal/history"
	"github.com/ademuri/spotify-history/internal/session"
)

// Report is the top-level structure for the listening report.
type Report struct {
	Metadata   ReportMetadata               `yaml:"report_metadata" json:"report_metadata"`
	Basic      history.Summary              `yaml:"basic_stats" json:"basic_stats"`
	Streaks    history.Streaks              `yaml:"streaks" json:"streaks"`
	TopArtists Ranking[history.ArtistCount] `yaml:"top_artists" json:"top_artists"`
	TopTracks  Ranking[history.TrackCount]  `yaml:"top_tracks" json:"top_tracks"`
	Sessions   SessionReport                `yaml:"sessions" json:"sessions"`
	Contexts   ContextReport                `yaml:"contexts" json:"contexts"`
	Genres     *GenreReport                 `yaml:"genres,omitempty" json:"genres,omitempty"`
	Audio      *AudioReport                 `yaml:"audio,omitempty" json:"audio,omitempty"`
}

type ReportMetadata struct {
	GeneratedDate string `yaml:"generated_date" json:"generated_date"`
	TotalPlays    int    `yaml:"total_plays" json:"total_plays"`
	Period        string `yaml:"period" json:"period"`
	SessionGap    int    `yaml:"session_gap_minutes" json:"session_gap_minutes"`
	// Enrichment lists the overlays that were available.
	Enrichment []string `yaml:"enrichment,omitempty" json:"enrichment,omitempty"`
}

type SessionReport struct {
	Statistics session.Statistics      `yaml:"statistics" json:"statistics"`
	Patterns   session.Patterns        `yaml:"patterns" json:"patterns"`
	Content    session.ContentAnalysis `yaml:"content" json:"content"`
}

type ContextReport struct {
	Statistics  contexts.Statistics                      `yaml:"statistics" json:"statistics"`
	Suggestions map[contexts.Label][]contexts.Suggestion `yaml:"suggestions" json:"suggestions"`
}

type GenreReport struct {
	Top       Ranking[GenreCount] `yaml:"top" json:"top"`
	Diversity GenreDiversity      `yaml:"diversity" json:"diversity"`
}

type AudioReport struct {
	Averages map[string]float64 `yaml:"average_features" json:"average_features"`
	Moods    MoodAnalysis       `yaml:"moods" json:"moods"`
	// OverTime holds the monthly average of each of OverTimeFeatures.
	OverTime map[string]map[string]float64 `yaml:"over_time" json:"over_time"`
}
