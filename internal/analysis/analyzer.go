// Package analysis answers questions about a listening history. An Analyzer
// holds an immutable play table plus enrichment overlays keyed by play ID.
package analysis

import (
	"fmt"
	"time"

	"github.com/ademuri/spotify-history/internal/contexts"
	"github.com/ademuri/spotify-history/internal/history"
	"github.com/ademuri/spotify-history/internal/session"
	"github.com/sirupsen/logrus"
)

// MissingDependencyError is returned when an operation needs enrichment that
// has not been loaded.
type MissingDependencyError struct {
	Prerequisite string
	Remedy       string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%s not available: %s", e.Prerequisite, e.Remedy)
}

var (
	errNoAudioFeatures = &MissingDependencyError{Prerequisite: "audio features", Remedy: "run `import-features` first"}
	errNoGenres        = &MissingDependencyError{Prerequisite: "genres", Remedy: "run `update-genres` first"}
	errNoTrackIDs      = &MissingDependencyError{Prerequisite: "track IDs", Remedy: "import an extended streaming history export"}
	errNoMatches       = &MissingDependencyError{Prerequisite: "audio features for these plays", Remedy: "import features covering the played track IDs"}
)

// Analyzer is not safe for concurrent use.
type Analyzer struct {
	plays   []history.Play
	log     logrus.FieldLogger
	trainer contexts.Trainer
	now     func() time.Time

	// Overlays, keyed by play ID. A nil map means the enrichment never ran.
	features map[int64]*history.AudioFeatures
	genres   map[int64][]string

	// Derived state, recomputed on demand.
	sessions   []session.Session
	gap        int
	sessionIDs map[int64]int
	labels     map[int64]contexts.Label
	moods      map[int64]Mood
	model      contexts.Predictor
}

// New creates an Analyzer over plays. The slice is not modified.
func New(plays []history.Play, log logrus.FieldLogger) *Analyzer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Analyzer{
		plays:   plays,
		log:     log,
		trainer: contexts.TreeTrainer{MaxDepth: contexts.DefaultMaxDepth},
		now:     time.Now,
	}
}

func (a *Analyzer) Plays() []history.Play {
	return a.plays
}

// SetTrainer replaces the context trainer. A nil trainer disables training.
func (a *Analyzer) SetTrainer(t contexts.Trainer) {
	a.trainer = t
	a.model = nil
}

// SetAudioFeatures attaches audio features, keyed by Spotify track ID, to
// every play with a matching track ID. It fails, leaving the overlay unset,
// when no play matches.
func (a *Analyzer) SetAudioFeatures(byTrack map[string]history.AudioFeatures) error {
	hasIDs := false
	overlay := make(map[int64]*history.AudioFeatures)
	for _, p := range a.plays {
		if p.TrackID == "" {
			continue
		}
		hasIDs = true
		if f, ok := byTrack[p.TrackID]; ok {
			overlay[p.ID] = &f
		}
	}
	if !hasIDs && len(a.plays) > 0 {
		return errNoTrackIDs
	}
	if len(overlay) == 0 && len(a.plays) > 0 {
		return errNoMatches
	}

	a.features = overlay
	a.labels = nil
	a.moods = nil
	a.model = nil
	a.log.WithFields(logrus.Fields{"plays": len(overlay), "tracks": len(byTrack)}).Debug("attached audio features")
	return nil
}

// SetGenres attaches each artist's genres to that artist's plays.
func (a *Analyzer) SetGenres(byArtist map[string][]string) {
	overlay := make(map[int64][]string)
	for _, p := range a.plays {
		if g := byArtist[p.Artist]; len(g) > 0 {
			overlay[p.ID] = g
		}
	}
	a.genres = overlay
	a.log.WithFields(logrus.Fields{"plays": len(overlay), "artists": len(byArtist)}).Debug("attached genres")
}

func (a *Analyzer) HasAudioFeatures() bool {
	return a.features != nil
}

func (a *Analyzer) HasGenres() bool {
	return a.genres != nil
}

func (a *Analyzer) BasicStats() history.Summary {
	return history.Summarize(a.plays)
}

func (a *Analyzer) Streaks() history.Streaks {
	return history.FindStreaks(a.plays)
}

// Ranking is a top list ordered two ways.
type Ranking[T any] struct {
	ByCount []T `yaml:"by_count" json:"by_count"`
	ByTime  []T `yaml:"by_time" json:"by_time"`
}

func (a *Analyzer) TopArtists(limit int) Ranking[history.ArtistCount] {
	byCount, byTime := history.TopArtists(a.plays, limit)
	return Ranking[history.ArtistCount]{ByCount: byCount, ByTime: byTime}
}

func (a *Analyzer) TopTracks(limit int) Ranking[history.TrackCount] {
	byCount, byTime := history.TopTracks(a.plays, limit)
	return Ranking[history.TrackCount]{ByCount: byCount, ByTime: byTime}
}
