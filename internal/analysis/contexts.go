package analysis

import (
	"fmt"

	"github.com/ademuri/spotify-history/internal/contexts"
	"github.com/ademuri/spotify-history/internal/history"
	"github.com/sirupsen/logrus"
)

// ContextRow is a play labeled with its listening context.
type ContextRow = contexts.Row

// CategorizeListeningContexts labels every play with the rule table and the
// session it belongs to. Plays without audio features fall back to the
// time-only rules.
func (a *Analyzer) CategorizeListeningContexts() []ContextRow {
	rows := make([]ContextRow, len(a.plays))
	a.labels = make(map[int64]contexts.Label, len(a.plays))
	for i, p := range a.plays {
		l := contexts.Classify(contexts.InputFor(p, a.features[p.ID]))
		session, _ := a.SessionID(p.ID)
		rows[i] = ContextRow{Play: p, Context: l, Session: session}
		a.labels[p.ID] = l
	}
	return rows
}

func (a *Analyzer) contextRows() []ContextRow {
	if a.labels == nil {
		return a.CategorizeListeningContexts()
	}
	rows := make([]ContextRow, len(a.plays))
	for i, p := range a.plays {
		session, _ := a.SessionID(p.ID)
		rows[i] = ContextRow{Play: p, Context: a.labels[p.ID], Session: session}
	}
	return rows
}

func (a *Analyzer) ContextStatistics() contexts.Statistics {
	return contexts.Summarize(a.contextRows())
}

// TrainingSamples turns the labeled plays into trainer input. Audio feature
// columns appear only for plays that have features.
func (a *Analyzer) TrainingSamples() []contexts.Sample {
	rows := a.contextRows()
	samples := make([]contexts.Sample, len(rows))
	for i, r := range rows {
		samples[i] = contexts.Sample{Features: featureVector(r.Play, a.features[r.Play.ID]), Label: r.Context}
	}
	return samples
}

func featureVector(p history.Play, f *history.AudioFeatures) map[string]float64 {
	v := map[string]float64{
		contexts.FeatureHour:    float64(p.Hour()),
		contexts.FeatureWeekday: float64(p.Weekday()),
	}
	if f != nil {
		for _, name := range contexts.Candidates[2:] {
			if x, ok := f.Value(name); ok {
				v[name] = x
			}
		}
	}
	return v
}

// TrainContextPredictor fits the configured trainer to the rule labels.
func (a *Analyzer) TrainContextPredictor() (contexts.Predictor, error) {
	if a.trainer == nil {
		return nil, contexts.ErrNoTrainer
	}
	model, err := a.trainer.Train(a.TrainingSamples(), contexts.Candidates)
	if err != nil {
		return nil, fmt.Errorf("training context predictor: %w", err)
	}
	a.model = model
	if m, ok := model.(*contexts.Model); ok {
		a.log.WithFields(logrus.Fields{"features": m.FeatureNames, "rows": m.Rows, "depth": m.Depth()}).Info("trained context predictor")
	}
	return model, nil
}

// PredictContext trains the predictor on first use.
func (a *Analyzer) PredictContext(features map[string]float64) (contexts.Label, error) {
	if a.model == nil {
		if _, err := a.TrainContextPredictor(); err != nil {
			return "", err
		}
	}
	l, err := a.model.Predict(features)
	if err != nil {
		return "", fmt.Errorf("predicting context: %w", err)
	}
	return l, nil
}

func (a *Analyzer) SuggestForContext(label contexts.Label, limit int) []contexts.Suggestion {
	return contexts.Suggest(a.contextRows(), label, limit)
}
