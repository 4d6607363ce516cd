package contexts

import (
	"errors"
	"fmt"
)

// ErrInsufficientTrainingData is returned when the training set has fewer
// than two usable feature columns or no complete rows.
var ErrInsufficientTrainingData = errors.New("insufficient training data")

// ErrNoTrainer is returned when prediction is requested without a trainer.
var ErrNoTrainer = errors.New("no context trainer configured")

// MissingFeatureError reports a feature the model was trained on that the
// caller did not supply.
type MissingFeatureError struct {
	Feature string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("missing feature %q", e.Feature)
}
