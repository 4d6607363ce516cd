package store

import (
	"fmt"
	"math"
	"time"

	"github.com/ademuri/spotify-history/internal/history"
)

// GetPlays returns plays ending in [start, end), oldest first. A zero end
// means no upper bound. Play IDs are the database row IDs.
func (s *Store) GetPlays(start, end time.Time) ([]history.Play, error) {
	endUnix := int64(math.MaxInt64)
	if !end.IsZero() {
		endUnix = end.Unix()
	}
	query := `
		SELECT p.id, p.end_time, p.ms_played, t.artist, t.name, COALESCE(t.spotify_id, '')
		FROM Play p
		JOIN Track t ON p.track = t.id
		WHERE p.end_time >= ? AND p.end_time < ?
		ORDER BY p.end_time, p.id
	`
	rows, err := s.db.Query(query, start.Unix(), endUnix)
	if err != nil {
		return nil, fmt.Errorf("querying plays: %w", err)
	}
	defer rows.Close()

	var plays []history.Play
	for rows.Next() {
		var p history.Play
		var endTime int64
		if err := rows.Scan(&p.ID, &endTime, &p.MsPlayed, &p.Artist, &p.Track, &p.TrackID); err != nil {
			return nil, fmt.Errorf("scanning play: %w", err)
		}
		p.EndTime = time.Unix(endTime, 0).UTC()
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

// PlayRange returns the end times of the oldest and newest stored plays.
// Both are zero when the store is empty.
func (s *Store) PlayRange() (first, last time.Time, err error) {
	var count int
	var lo, hi int64
	row := s.db.QueryRow("SELECT COUNT(*), COALESCE(MIN(end_time), 0), COALESCE(MAX(end_time), 0) FROM Play")
	if err := row.Scan(&count, &lo, &hi); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("scanning play range: %w", err)
	}
	if count == 0 {
		return time.Time{}, time.Time{}, nil
	}
	return time.Unix(lo, 0).UTC(), time.Unix(hi, 0).UTC(), nil
}

// GetAudioFeatures returns every stored feature set keyed by track ID.
func (s *Store) GetAudioFeatures() (map[string]history.AudioFeatures, error) {
	rows, err := s.db.Query(`SELECT track_id, danceability, energy, musical_key, loudness, mode, speechiness,
		acousticness, instrumentalness, liveness, valence, tempo FROM AudioFeatures`)
	if err != nil {
		return nil, fmt.Errorf("querying audio features: %w", err)
	}
	defer rows.Close()

	features := make(map[string]history.AudioFeatures)
	for rows.Next() {
		var f history.AudioFeatures
		err := rows.Scan(&f.ID, &f.Danceability, &f.Energy, &f.Key, &f.Loudness, &f.Mode, &f.Speechiness,
			&f.Acousticness, &f.Instrumentalness, &f.Liveness, &f.Valence, &f.Tempo)
		if err != nil {
			return nil, fmt.Errorf("scanning audio features: %w", err)
		}
		features[f.ID] = f
	}
	return features, rows.Err()
}

// Tag Update Helpers

// GetArtistsNeedingTagUpdate lists artists with more than minPlays plays
// whose tags are missing or older than interval, most played first.
func (s *Store) GetArtistsNeedingTagUpdate(interval time.Duration, minPlays int) ([]string, error) {
	threshold := time.Now().Add(-interval)
	query := `
		SELECT t.artist
		FROM Play p
		JOIN Track t ON p.track = t.id
		JOIN Artist a ON t.artist = a.name
		WHERE (a.tags_last_updated IS NULL OR a.tags_last_updated < ?)
		GROUP BY t.artist
		HAVING COUNT(*) > ?
		ORDER BY COUNT(*) DESC, t.artist
	`
	rows, err := s.db.Query(query, threshold, minPlays)
	if err != nil {
		return nil, fmt.Errorf("querying artists for tag update: %w", err)
	}
	defer rows.Close()

	var artists []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// GetArtistTags returns up to limit tags per artist, highest count first.
// Artists without tags are absent.
func (s *Store) GetArtistTags(limit int) (map[string][]string, error) {
	rows, err := s.db.Query("SELECT artist, tag FROM ArtistTag ORDER BY artist, count DESC, tag")
	if err != nil {
		return nil, fmt.Errorf("querying artist tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[string][]string)
	for rows.Next() {
		var artist, tag string
		if err := rows.Scan(&artist, &tag); err != nil {
			return nil, fmt.Errorf("scanning artist tag: %w", err)
		}
		if limit > 0 && len(tags[artist]) >= limit {
			continue
		}
		tags[artist] = append(tags[artist], tag)
	}
	return tags, rows.Err()
}
