package contexts

import (
	"sort"

	"github.com/ademuri/spotify-history/internal/history"
)

// Row is a play with the context assigned to it.
type Row struct {
	Play    history.Play `yaml:"play" json:"play"`
	Context Label        `yaml:"context" json:"context"`
	// Session is the ID of the listening session the play fell in.
	Session int `yaml:"session" json:"session"`
}

// Statistics breaks plays down by context. Every context, hour and weekday is
// present even when zero.
type Statistics struct {
	Distribution map[Label]float64        `yaml:"distribution" json:"distribution"`
	ByTime       map[Label]float64        `yaml:"by_time" json:"by_time"`
	ByHour       map[int]map[Label]int    `yaml:"by_hour" json:"by_hour"`
	ByWeekday    map[string]map[Label]int `yaml:"by_weekday" json:"by_weekday"`
}

func Summarize(rows []Row) Statistics {
	st := Statistics{
		Distribution: make(map[Label]float64, len(Labels)),
		ByTime:       make(map[Label]float64, len(Labels)),
		ByHour:       make(map[int]map[Label]int, 24),
		ByWeekday:    make(map[string]map[Label]int, len(history.WeekdayNames)),
	}
	zero := func() map[Label]int {
		m := make(map[Label]int, len(Labels))
		for _, l := range Labels {
			m[l] = 0
		}
		return m
	}
	for _, l := range Labels {
		st.Distribution[l] = 0
		st.ByTime[l] = 0
	}
	for h := 0; h < 24; h++ {
		st.ByHour[h] = zero()
	}
	for _, d := range history.WeekdayNames {
		st.ByWeekday[d] = zero()
	}

	counts := make(map[Label]int)
	for _, r := range rows {
		counts[r.Context]++
		st.ByTime[r.Context] += r.Play.Minutes()
		st.ByHour[r.Play.Hour()][r.Context]++
		st.ByWeekday[r.Play.WeekdayName()][r.Context]++
	}
	if len(rows) > 0 {
		for l, c := range counts {
			st.Distribution[l] = float64(c) / float64(len(rows))
		}
	}
	return st
}

type Suggestion struct {
	Track  string `yaml:"track" json:"track"`
	Artist string `yaml:"artist" json:"artist"`
	Count  int    `yaml:"count" json:"count"`
}

// DefaultSuggestions is the suggestion limit used when none is given.
const DefaultSuggestions = 5

// Suggest ranks the tracks most played in a context. Tracks are grouped by
// title then artist, and equal counts keep that group order. A non-positive
// limit returns all.
func Suggest(rows []Row, label Label, limit int) []Suggestion {
	type key struct{ track, artist string }
	index := make(map[key]int)
	var out []Suggestion
	for _, r := range rows {
		if r.Context != label {
			continue
		}
		k := key{r.Play.Track, r.Play.Artist}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Suggestion{Track: k.track, Artist: k.artist})
		}
		out[i].Count++
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Track != out[j].Track {
			return out[i].Track < out[j].Track
		}
		return out[i].Artist < out[j].Artist
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
