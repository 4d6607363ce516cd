package enrich

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ademuri/spotify-history/internal/history"
)

// LoadAudioFeatures reads Spotify audio-features objects from a JSON file.
// The file holds either a bare array or the {"audio_features": [...]} body
// returned by the Spotify API. Null entries and entries without an ID are
// skipped.
func LoadAudioFeatures(path string) ([]history.AudioFeatures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var entries []*history.AudioFeatures
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var body struct {
			AudioFeatures []*history.AudioFeatures `json:"audio_features"`
		}
		if err := json.Unmarshal(trimmed, &body); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		entries = body.AudioFeatures
	} else if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var features []history.AudioFeatures
	for _, f := range entries {
		if f == nil || f.ID == "" {
			continue
		}
		features = append(features, *f)
	}
	return features, nil
}
