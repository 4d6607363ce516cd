package history

// Audio feature names understood by the context predictor.
const (
	FeatureDanceability = "danceability"
	FeatureEnergy       = "energy"
	FeatureTempo        = "tempo"
	FeatureValence      = "valence"
)

// AudioFeatures mirrors the Spotify audio-features object.
type AudioFeatures struct {
	ID               string  `json:"id"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Key              int     `json:"key"`
	Loudness         float64 `json:"loudness"`
	Mode             int     `json:"mode"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
}

// AveragedFeatures lists the features reported by weighted averages.
var AveragedFeatures = []string{
	"danceability", "energy", "loudness", "speechiness",
	"acousticness", "instrumentalness", "liveness", "valence", "tempo",
}

// Value looks up a feature by its export name.
func (f AudioFeatures) Value(name string) (float64, bool) {
	switch name {
	case FeatureDanceability:
		return f.Danceability, true
	case FeatureEnergy:
		return f.Energy, true
	case FeatureTempo:
		return f.Tempo, true
	case FeatureValence:
		return f.Valence, true
	case "loudness":
		return f.Loudness, true
	case "speechiness":
		return f.Speechiness, true
	case "acousticness":
		return f.Acousticness, true
	case "instrumentalness":
		return f.Instrumentalness, true
	case "liveness":
		return f.Liveness, true
	}
	return 0, false
}
