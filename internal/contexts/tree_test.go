package contexts

import (
	"errors"
	"testing"
)

func grid(label func(hour, weekday int) Label) []Sample {
	var samples []Sample
	for hour := 0; hour < 24; hour++ {
		for weekday := 0; weekday < 7; weekday++ {
			samples = append(samples, Sample{
				Features: map[string]float64{"hour": float64(hour), "weekday": float64(weekday)},
				Label:    label(hour, weekday),
			})
		}
	}
	return samples
}

func TestTrainSeparable(t *testing.T) {
	label := func(hour, weekday int) Label {
		if weekday >= 5 && hour >= 20 {
			return Party
		}
		return Other
	}
	m, err := Train(grid(label), Candidates, DefaultMaxDepth)
	if err != nil {
		t.Fatalf("Train() error: %v", err)
	}
	if got, want := m.FeatureNames, []string{"hour", "weekday"}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("FeatureNames = %v, want %v", got, want)
	}
	if m.Rows != 24*7 {
		t.Errorf("Rows = %d, want %d", m.Rows, 24*7)
	}
	for _, s := range grid(label) {
		got, err := m.Predict(s.Features)
		if err != nil {
			t.Fatalf("Predict() error: %v", err)
		}
		if got != s.Label {
			t.Errorf("Predict(%v) = %q, want %q", s.Features, got, s.Label)
		}
	}
	if d := m.Depth(); d > DefaultMaxDepth {
		t.Errorf("Depth() = %d, want at most %d", d, DefaultMaxDepth)
	}
}

func TestTrainRespectsMaxDepth(t *testing.T) {
	label := func(hour, weekday int) Label {
		return Labels[(hour+weekday)%len(Labels)]
	}
	m, err := Train(grid(label), Candidates, 2)
	if err != nil {
		t.Fatalf("Train() error: %v", err)
	}
	if d := m.Depth(); d > 2 {
		t.Errorf("Depth() = %d, want at most 2", d)
	}
}

func TestTrainOneFeature(t *testing.T) {
	samples := []Sample{
		{Features: map[string]float64{"hour": 8}, Label: Work},
		{Features: map[string]float64{"hour": 22}, Label: Relaxation},
	}
	_, err := Train(samples, Candidates, DefaultMaxDepth)
	if !errors.Is(err, ErrInsufficientTrainingData) {
		t.Errorf("Train() error = %v, want ErrInsufficientTrainingData", err)
	}
}

func TestTrainNoCompleteRows(t *testing.T) {
	samples := []Sample{
		{Features: map[string]float64{"hour": 8}, Label: Work},
		{Features: map[string]float64{"weekday": 2}, Label: Work},
		{Features: map[string]float64{"hour": 9, "weekday": 2}},
	}
	_, err := Train(samples, Candidates, DefaultMaxDepth)
	if !errors.Is(err, ErrInsufficientTrainingData) {
		t.Errorf("Train() error = %v, want ErrInsufficientTrainingData", err)
	}
}

func TestTrainDropsIncompleteRows(t *testing.T) {
	samples := grid(func(hour, weekday int) Label {
		if hour < 12 {
			return Work
		}
		return Relaxation
	})
	// Energy is only known for one row, so every other row is dropped.
	samples[0].Features["energy"] = 0.3
	samples = append(samples, Sample{Features: map[string]float64{"hour": 20, "weekday": 1, "energy": 0.9}, Label: Party})

	m, err := Train(samples, Candidates, DefaultMaxDepth)
	if err != nil {
		t.Fatalf("Train() error: %v", err)
	}
	if m.Rows != 2 {
		t.Errorf("Rows = %d, want 2", m.Rows)
	}
	if len(m.FeatureNames) != 3 || m.FeatureNames[2] != "energy" {
		t.Errorf("FeatureNames = %v", m.FeatureNames)
	}
}

func TestPredictMissingFeature(t *testing.T) {
	m, err := Train(grid(func(hour, _ int) Label {
		if hour < 12 {
			return Work
		}
		return Relaxation
	}), Candidates, DefaultMaxDepth)
	if err != nil {
		t.Fatalf("Train() error: %v", err)
	}

	_, err = m.Predict(map[string]float64{"hour": 3, "energy": 0.2})
	var missing *MissingFeatureError
	if !errors.As(err, &missing) {
		t.Fatalf("Predict() error = %v, want MissingFeatureError", err)
	}
	if missing.Feature != "weekday" {
		t.Errorf("missing feature = %q, want weekday", missing.Feature)
	}

	got, err := m.Predict(map[string]float64{"hour": 3, "weekday": 1, "tempo": 99})
	if err != nil {
		t.Fatalf("Predict() with extra key error: %v", err)
	}
	if got != Work {
		t.Errorf("Predict() = %q, want %q", got, Work)
	}
}

func TestTrainTieBreaksAlphabetically(t *testing.T) {
	f := map[string]float64{"hour": 1, "weekday": 1}
	m, err := Train([]Sample{{Features: f, Label: Work}, {Features: f, Label: Party}}, Candidates, DefaultMaxDepth)
	if err != nil {
		t.Fatalf("Train() error: %v", err)
	}
	if got, _ := m.Predict(f); got != Party {
		t.Errorf("Predict() = %q, want %q", got, Party)
	}
}

func TestTreeTrainerIsPredictor(t *testing.T) {
	var tr Trainer = TreeTrainer{}
	p, err := tr.Train(grid(func(hour, _ int) Label {
		if hour >= 20 {
			return Relaxation
		}
		return Other
	}), Candidates)
	if err != nil {
		t.Fatalf("Train() error: %v", err)
	}
	if got, _ := p.Predict(map[string]float64{"hour": 22, "weekday": 0}); got != Relaxation {
		t.Errorf("Predict() = %q, want %q", got, Relaxation)
	}
	if _, err := tr.Train(nil, Candidates); err == nil {
		t.Error("Train(nil) succeeded, want error")
	}
}
