package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/ademuri/spotify-history/internal/history"
	"github.com/sirupsen/logrus"
)

// GenresPerArtist is how many of an artist's top tags count as its genres.
const GenresPerArtist = 3

// Source supplies stored plays and enrichment.
type Source interface {
	GetPlays(start, end time.Time) ([]history.Play, error)
	GetAudioFeatures() (map[string]history.AudioFeatures, error)
	GetArtistTags(limit int) (map[string][]string, error)
}

// Load builds an Analyzer over the plays ending in [start, end). Enrichment
// that was never imported is left unset.
func Load(src Source, start, end time.Time, log logrus.FieldLogger) (*Analyzer, error) {
	plays, err := src.GetPlays(start, end)
	if err != nil {
		return nil, fmt.Errorf("loading plays: %w", err)
	}
	a := New(plays, log)

	features, err := src.GetAudioFeatures()
	if err != nil {
		return nil, fmt.Errorf("loading audio features: %w", err)
	}
	if len(features) > 0 {
		var dep *MissingDependencyError
		if err := a.SetAudioFeatures(features); errors.As(err, &dep) {
			a.log.WithError(err).Warn("skipping audio features")
		} else if err != nil {
			return nil, err
		}
	}

	tags, err := src.GetArtistTags(GenresPerArtist)
	if err != nil {
		return nil, fmt.Errorf("loading artist tags: %w", err)
	}
	if len(tags) > 0 {
		a.SetGenres(tags)
	}
	return a, nil
}
