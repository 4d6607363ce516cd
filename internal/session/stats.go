package session

import (
	"math"
	"sort"

	"github.com/ademuri/spotify-history/internal/history"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LengthBuckets labels the session length histogram, shortest first.
var LengthBuckets = []string{"0-15min", "15-30min", "30-60min", "60-120min", "120-240min", "240min+"}

var lengthDividers = []float64{0, 15, 30, 60, 120, 240, math.Inf(1)}

type Statistics struct {
	TotalSessions          int            `yaml:"total_sessions" json:"total_sessions"`
	AvgSessionLength       float64        `yaml:"avg_session_length" json:"avg_session_length"`
	MedianSessionLength    float64        `yaml:"median_session_length" json:"median_session_length"`
	AvgTracksPerSession    float64        `yaml:"avg_tracks_per_session" json:"avg_tracks_per_session"`
	AvgArtistsPerSession   float64        `yaml:"avg_artists_per_session" json:"avg_artists_per_session"`
	LengthDistribution     map[string]int `yaml:"session_length_distribution" json:"session_length_distribution"`
	LongestSessionMinutes  float64        `yaml:"longest_session_minutes" json:"longest_session_minutes"`
	ShortestSessionMinutes float64        `yaml:"shortest_session_minutes" json:"shortest_session_minutes"`
}

func Summarize(sessions []Session) Statistics {
	st := Statistics{
		TotalSessions:      len(sessions),
		LengthDistribution: make(map[string]int, len(LengthBuckets)),
	}
	for _, b := range LengthBuckets {
		st.LengthDistribution[b] = 0
	}
	if len(sessions) == 0 {
		return st
	}

	lengths := make([]float64, len(sessions))
	tracks := make([]float64, len(sessions))
	artists := make([]float64, len(sessions))
	for i, s := range sessions {
		lengths[i] = s.Duration()
		tracks[i] = float64(s.TrackCount())
		artists[i] = float64(s.ArtistCount())
	}

	st.AvgSessionLength = stat.Mean(lengths, nil)
	st.MedianSessionLength = median(lengths)
	st.AvgTracksPerSession = stat.Mean(tracks, nil)
	st.AvgArtistsPerSession = stat.Mean(artists, nil)
	st.LongestSessionMinutes = floats.Max(lengths)
	st.ShortestSessionMinutes = floats.Min(lengths)

	sorted := append([]float64(nil), lengths...)
	sort.Float64s(sorted)
	counts := stat.Histogram(nil, lengthDividers, sorted, nil)
	for i, c := range counts {
		st.LengthDistribution[LengthBuckets[i]] = int(c)
	}
	return st
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Patterns counts sessions by the hour, weekday and month they started in.
// Every bucket is present even when zero.
type Patterns struct {
	ByHour    map[int]int    `yaml:"by_hour" json:"by_hour"`
	ByWeekday map[string]int `yaml:"by_weekday" json:"by_weekday"`
	ByMonth   map[string]int `yaml:"by_month" json:"by_month"`
}

func FindPatterns(sessions []Session) Patterns {
	p := Patterns{
		ByHour:    make(map[int]int, 24),
		ByWeekday: make(map[string]int, len(history.WeekdayNames)),
		ByMonth:   make(map[string]int, len(history.MonthNames)),
	}
	for h := 0; h < 24; h++ {
		p.ByHour[h] = 0
	}
	for _, d := range history.WeekdayNames {
		p.ByWeekday[d] = 0
	}
	for _, m := range history.MonthNames {
		p.ByMonth[m] = 0
	}

	for _, s := range sessions {
		start := s.Start()
		p.ByHour[start.Hour()]++
		p.ByWeekday[start.Weekday().String()]++
		p.ByMonth[start.Month().String()]++
	}
	return p
}

type ContentAnalysis struct {
	AvgArtistContinuity   float64      `yaml:"avg_artist_continuity" json:"avg_artist_continuity"`
	AvgUniqueArtistsRatio float64      `yaml:"avg_unique_artists_ratio" json:"avg_unique_artists_ratio"`
	SessionTypes          map[Type]int `yaml:"session_types" json:"session_types"`
}

// AnalyzeContent averages the per-session content metrics. Single-play
// sessions are left out of both averages but still counted as a type.
func AnalyzeContent(sessions []Session) ContentAnalysis {
	c := ContentAnalysis{SessionTypes: make(map[Type]int, len(Types))}
	for _, t := range Types {
		c.SessionTypes[t] = 0
	}

	var continuity, ratios []float64
	for _, s := range sessions {
		if v, ok := s.ArtistContinuity(); ok {
			continuity = append(continuity, v)
		}
		if v, ok := s.UniqueArtistRatio(); ok {
			ratios = append(ratios, v)
		}
		c.SessionTypes[s.Type()]++
	}

	if len(continuity) > 0 {
		c.AvgArtistContinuity = stat.Mean(continuity, nil)
	}
	if len(ratios) > 0 {
		c.AvgUniqueArtistsRatio = stat.Mean(ratios, nil)
	}
	return c
}
