// Package contexts labels plays with the situation they were likely heard in
// and learns a decision tree that reproduces those labels.
package contexts

import (
	"fmt"
	"strings"

	"github.com/ademuri/spotify-history/internal/history"
)

type Label string

const (
	Workout    Label = "workout"
	Commute    Label = "commute"
	Work       Label = "work"
	Party      Label = "party"
	Relaxation Label = "relaxation"
	Other      Label = "other"
)

// Labels lists every context in rule priority order.
var Labels = []Label{Workout, Commute, Work, Party, Relaxation, Other}

// Feature names used by both prediction paths, in addition to the audio
// feature names in package history.
const (
	FeatureHour    = "hour"
	FeatureWeekday = "weekday"
)

// Candidates are the feature columns offered to a trainer, in order.
var Candidates = []string{
	FeatureHour, FeatureWeekday,
	history.FeatureEnergy, history.FeatureTempo, history.FeatureDanceability, history.FeatureValence,
}

// Neutral values assumed when a play has no audio features. Neither one
// can satisfy an energy or tempo gated rule on its own.
const (
	defaultEnergy = 0.5
	defaultTempo  = 120
)

// ParseLabel accepts a context name in any case.
func ParseLabel(s string) (Label, error) {
	for _, l := range Labels {
		if strings.EqualFold(string(l), s) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown context %q", s)
}

// Input is what the rule table looks at. Weekday is 0 for Monday.
type Input struct {
	Hour     int
	Weekday  int
	Features *history.AudioFeatures
}

// InputFor builds the rule input of a play. features may be nil.
func InputFor(p history.Play, features *history.AudioFeatures) Input {
	return Input{Hour: p.Hour(), Weekday: p.Weekday(), Features: features}
}

// Classify applies the rule table. The first matching rule wins.
func Classify(in Input) Label {
	hasAudio := in.Features != nil
	energy, tempo := float64(defaultEnergy), float64(defaultTempo)
	if hasAudio {
		energy, tempo = in.Features.Energy, in.Features.Tempo
	}
	weekday := in.Weekday < 5
	h := in.Hour

	switch {
	case hasAudio && energy > 0.7 && tempo > 120 && (between(h, 5, 9) || between(h, 17, 20)):
		return Workout
	case weekday && (between(h, 7, 9) || between(h, 16, 19)):
		return Commute
	case weekday && between(h, 9, 17) && (!hasAudio || energy < 0.7):
		return Work
	case !weekday && h >= 20 && (!hasAudio || energy > 0.7):
		return Party
	case h >= 20 && (!hasAudio || energy < 0.5):
		return Relaxation
	}
	return Other
}

func between(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

// Predictor maps a named feature vector onto a context.
type Predictor interface {
	Predict(features map[string]float64) (Label, error)
}

// RuleClassifier serves the rule table through Predictor. Hour and weekday
// are required; a vector without energy and tempo is treated as a play with
// no audio features.
type RuleClassifier struct{}

func (RuleClassifier) Predict(features map[string]float64) (Label, error) {
	hour, ok := features[FeatureHour]
	if !ok {
		return "", &MissingFeatureError{Feature: FeatureHour}
	}
	weekday, ok := features[FeatureWeekday]
	if !ok {
		return "", &MissingFeatureError{Feature: FeatureWeekday}
	}

	in := Input{Hour: int(hour), Weekday: int(weekday)}
	energy, hasEnergy := features[history.FeatureEnergy]
	tempo, hasTempo := features[history.FeatureTempo]
	if hasEnergy || hasTempo {
		if !hasEnergy {
			energy = defaultEnergy
		}
		if !hasTempo {
			tempo = defaultTempo
		}
		in.Features = &history.AudioFeatures{Energy: energy, Tempo: tempo}
	}
	return Classify(in), nil
}
