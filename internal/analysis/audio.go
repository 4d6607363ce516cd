package analysis

import (
	"fmt"

	"github.com/ademuri/spotify-history/internal/history"
)

// Mood is a quadrant of the energy/valence plane.
type Mood string

const (
	Happy   Mood = "Happy"
	Angry   Mood = "Angry"
	Relaxed Mood = "Relaxed"
	Sad     Mood = "Sad"
)

func moodOf(f *history.AudioFeatures) Mood {
	switch {
	case f.Energy > 0.5 && f.Valence > 0.5:
		return Happy
	case f.Energy > 0.5:
		return Angry
	case f.Valence > 0.5:
		return Relaxed
	default:
		return Sad
	}
}

// ClassifyMoods assigns a mood to every play that has audio features.
func (a *Analyzer) ClassifyMoods() (map[int64]Mood, error) {
	if a.features == nil {
		return nil, errNoAudioFeatures
	}
	a.moods = make(map[int64]Mood, len(a.features))
	for id, f := range a.features {
		a.moods[id] = moodOf(f)
	}
	return a.moods, nil
}

type MoodAnalysis struct {
	ByCount map[Mood]int     `yaml:"by_count" json:"by_count"`
	ByTime  map[Mood]float64 `yaml:"by_time" json:"by_time"`
	// ByHour and ByWeekday hold minutes played.
	ByHour    map[int]map[Mood]float64    `yaml:"by_hour" json:"by_hour"`
	ByWeekday map[string]map[Mood]float64 `yaml:"by_weekday" json:"by_weekday"`
}

// MoodAnalysis totals listening per mood. Only observed moods, hours and
// weekdays appear.
func (a *Analyzer) MoodAnalysis() (MoodAnalysis, error) {
	if a.moods == nil {
		if _, err := a.ClassifyMoods(); err != nil {
			return MoodAnalysis{}, err
		}
	}

	m := MoodAnalysis{
		ByCount:   make(map[Mood]int),
		ByTime:    make(map[Mood]float64),
		ByHour:    make(map[int]map[Mood]float64),
		ByWeekday: make(map[string]map[Mood]float64),
	}
	for _, p := range a.plays {
		mood, ok := a.moods[p.ID]
		if !ok {
			continue
		}
		m.ByCount[mood]++
		m.ByTime[mood] += p.Hours()
		if m.ByHour[p.Hour()] == nil {
			m.ByHour[p.Hour()] = make(map[Mood]float64)
		}
		m.ByHour[p.Hour()][mood] += p.Minutes()
		day := p.WeekdayName()
		if m.ByWeekday[day] == nil {
			m.ByWeekday[day] = make(map[Mood]float64)
		}
		m.ByWeekday[day][mood] += p.Minutes()
	}
	return m, nil
}

// AverageAudioFeatures weights each feature by hours played. Plays without
// features are left out.
func (a *Analyzer) AverageAudioFeatures() (map[string]float64, error) {
	if a.features == nil {
		return nil, errNoAudioFeatures
	}
	sums := make(map[string]float64)
	var hours float64
	for _, p := range a.plays {
		f := a.features[p.ID]
		if f == nil {
			continue
		}
		hours += p.Hours()
		for _, name := range history.AveragedFeatures {
			v, _ := f.Value(name)
			sums[name] += v * p.Hours()
		}
	}

	avgs := make(map[string]float64, len(history.AveragedFeatures))
	if hours == 0 {
		return avgs, nil
	}
	for _, name := range history.AveragedFeatures {
		avgs[name] = sums[name] / hours
	}
	return avgs, nil
}

// OverTimeFeatures are the features the report tracks month by month.
var OverTimeFeatures = []string{history.FeatureEnergy, history.FeatureValence, history.FeatureDanceability}

// AudioFeatureOverTime is the monthly hours-weighted average of one feature,
// keyed "2006-01".
func (a *Analyzer) AudioFeatureOverTime(feature string) (map[string]float64, error) {
	if a.features == nil {
		return nil, errNoAudioFeatures
	}
	if _, ok := (history.AudioFeatures{}).Value(feature); !ok {
		return nil, fmt.Errorf("unknown audio feature %q", feature)
	}
	sums := make(map[string]float64)
	hours := make(map[string]float64)
	for _, p := range a.plays {
		f := a.features[p.ID]
		if f == nil {
			continue
		}
		month := p.EndTime.Format("2006-01")
		v, _ := f.Value(feature)
		sums[month] += v * p.Hours()
		hours[month] += p.Hours()
	}
	out := make(map[string]float64, len(sums))
	for month, s := range sums {
		if hours[month] > 0 {
			out[month] = s / hours[month]
		}
	}
	return out, nil
}
