package history

import (
	"sort"
	"time"
)

const dateFormat = "2006-01-02"

// Summary holds whole-history totals.
type Summary struct {
	TotalPlays    int     `yaml:"total_plays" json:"total_plays"`
	UniqueTracks  int     `yaml:"unique_tracks" json:"unique_tracks"`
	UniqueArtists int     `yaml:"unique_artists" json:"unique_artists"`
	TotalHours    float64 `yaml:"total_listening_hours" json:"total_listening_hours"`
	DateRangeDays int     `yaml:"date_range_days" json:"date_range_days"`
	AvgDailyHours float64 `yaml:"avg_daily_hours" json:"avg_daily_hours"`
	StartDate     string  `yaml:"start_date" json:"start_date"`
	EndDate       string  `yaml:"end_date" json:"end_date"`
}

func Summarize(plays []Play) Summary {
	s := Summary{TotalPlays: len(plays)}
	if len(plays) == 0 {
		return s
	}

	tracks := make(map[string]bool)
	artists := make(map[string]bool)
	var totalMs int64
	first, last := plays[0].EndTime, plays[0].EndTime
	for _, p := range plays {
		tracks[p.Track] = true
		artists[p.Artist] = true
		totalMs += p.MsPlayed
		if p.EndTime.Before(first) {
			first = p.EndTime
		}
		if p.EndTime.After(last) {
			last = p.EndTime
		}
	}

	s.UniqueTracks = len(tracks)
	s.UniqueArtists = len(artists)
	s.TotalHours = float64(totalMs) / 3600000
	s.DateRangeDays = int(last.Sub(first).Hours() / 24)
	if s.DateRangeDays > 0 {
		s.AvgDailyHours = s.TotalHours / float64(s.DateRangeDays)
	}
	s.StartDate = first.Format(dateFormat)
	s.EndDate = last.Format(dateFormat)
	return s
}

// Streaks describes runs of consecutive days with at least one play.
type Streaks struct {
	DaysWithActivity   int       `yaml:"days_with_activity" json:"days_with_activity"`
	TotalDaysRange     int       `yaml:"total_days_range" json:"total_days_range"`
	ActivityRatio      float64   `yaml:"activity_ratio" json:"activity_ratio"`
	LongestStreak      int       `yaml:"longest_streak" json:"longest_streak"`
	LongestStreakStart time.Time `yaml:"longest_streak_start" json:"longest_streak_start"`
	LongestStreakEnd   time.Time `yaml:"longest_streak_end" json:"longest_streak_end"`
}

func FindStreaks(plays []Play) Streaks {
	if len(plays) == 0 {
		return Streaks{}
	}

	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, p := range plays {
		d := p.Date()
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, current := 1, 1
	longestEnd := days[0]
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			current++
			if current > longest {
				longest = current
				longestEnd = days[i]
			}
		} else {
			current = 1
		}
	}

	totalRange := int(days[len(days)-1].Sub(days[0]).Hours()/24) + 1
	return Streaks{
		DaysWithActivity:   len(days),
		TotalDaysRange:     totalRange,
		ActivityRatio:      float64(len(days)) / float64(totalRange),
		LongestStreak:      longest,
		LongestStreakStart: longestEnd.AddDate(0, 0, -(longest - 1)),
		LongestStreakEnd:   longestEnd,
	}
}

type ArtistCount struct {
	Artist string  `yaml:"artist" json:"artist"`
	Plays  int     `yaml:"plays" json:"plays"`
	Hours  float64 `yaml:"hours" json:"hours"`
}

type TrackCount struct {
	Track  string  `yaml:"track" json:"track"`
	Artist string  `yaml:"artist" json:"artist"`
	Plays  int     `yaml:"plays" json:"plays"`
	Hours  float64 `yaml:"hours" json:"hours"`
}

// TopArtists ranks artists by play count and by hours played. Ties keep the
// order in which artists first appear.
func TopArtists(plays []Play, limit int) (byCount, byTime []ArtistCount) {
	index := make(map[string]int)
	var counts []ArtistCount
	for _, p := range plays {
		i, ok := index[p.Artist]
		if !ok {
			i = len(counts)
			index[p.Artist] = i
			counts = append(counts, ArtistCount{Artist: p.Artist})
		}
		counts[i].Plays++
		counts[i].Hours += p.Hours()
	}

	byCount = append([]ArtistCount(nil), counts...)
	sort.SliceStable(byCount, func(i, j int) bool { return byCount[i].Plays > byCount[j].Plays })
	byTime = append([]ArtistCount(nil), counts...)
	sort.SliceStable(byTime, func(i, j int) bool { return byTime[i].Hours > byTime[j].Hours })
	return truncate(byCount, limit), truncate(byTime, limit)
}

// TopTracks ranks (track, artist) pairs the same way as TopArtists.
func TopTracks(plays []Play, limit int) (byCount, byTime []TrackCount) {
	type key struct{ track, artist string }
	index := make(map[key]int)
	var counts []TrackCount
	for _, p := range plays {
		k := key{p.Track, p.Artist}
		i, ok := index[k]
		if !ok {
			i = len(counts)
			index[k] = i
			counts = append(counts, TrackCount{Track: p.Track, Artist: p.Artist})
		}
		counts[i].Plays++
		counts[i].Hours += p.Hours()
	}

	byCount = append([]TrackCount(nil), counts...)
	sort.SliceStable(byCount, func(i, j int) bool { return byCount[i].Plays > byCount[j].Plays })
	byTime = append([]TrackCount(nil), counts...)
	sort.SliceStable(byTime, func(i, j int) bool { return byTime[i].Hours > byTime[j].Hours })
	return truncate(byCount, limit), truncate(byTime, limit)
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
