package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ademuri/spotify-history/internal/history"
)

// AddPlays inserts a batch of plays transactionally and returns how many were
// new. A play already stored with the same track, end time and duration is
// skipped, so importing overlapping exports is safe.
func (s *Store) AddPlays(plays []history.Play) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, p := range plays {
		if err := createArtist(tx, p.Artist); err != nil {
			return 0, err
		}
		trackID, err := createTrack(tx, p.Artist, p.Track, p.TrackID)
		if err != nil {
			return 0, err
		}
		inserted, err := createPlay(tx, trackID, p.EndTime, p.MsPlayed)
		if err != nil {
			return 0, err
		}
		if inserted {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return added, nil
}

func createArtist(tx *sql.Tx, name string) error {
	if _, err := tx.Exec("INSERT OR IGNORE INTO Artist (name) VALUES (?)", name); err != nil {
		return fmt.Errorf("inserting artist %q: %w", name, err)
	}
	return nil
}

func createTrack(tx *sql.Tx, artist, name, spotifyID string) (int64, error) {
	var id int64
	var existing sql.NullString
	err := tx.QueryRow("SELECT id, spotify_id FROM Track WHERE artist = ? AND name = ?", artist, name).Scan(&id, &existing)
	if err == nil {
		if spotifyID != "" && !existing.Valid {
			if _, err := tx.Exec("UPDATE Track SET spotify_id = ? WHERE id = ?", spotifyID, id); err != nil {
				return 0, fmt.Errorf("setting spotify id of %q: %w", name, err)
			}
		}
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("checking track %q: %w", name, err)
	}

	res, err := tx.Exec("INSERT INTO Track (artist, name, spotify_id) VALUES (?, ?, ?)",
		artist, name, sql.NullString{String: spotifyID, Valid: spotifyID != ""})
	if err != nil {
		return 0, fmt.Errorf("inserting track %q: %w", name, err)
	}
	return res.LastInsertId()
}

func createPlay(tx *sql.Tx, trackID int64, end time.Time, msPlayed int64) (bool, error) {
	var dummy int64
	err := tx.QueryRow("SELECT id FROM Play WHERE track = ? AND end_time = ? AND ms_played = ?",
		trackID, end.Unix(), msPlayed).Scan(&dummy)
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, fmt.Errorf("checking play: %w", err)
	}

	_, err = tx.Exec("INSERT INTO Play (track, end_time, ms_played) VALUES (?, ?, ?)", trackID, end.Unix(), msPlayed)
	if err != nil {
		return false, fmt.Errorf("inserting play: %w", err)
	}
	return true, nil
}

// SaveAudioFeatures stores features by Spotify track ID, replacing any
// previous values.
func (s *Store) SaveAudioFeatures(features []history.AudioFeatures) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO AudioFeatures
		(track_id, danceability, energy, musical_key, loudness, mode, speechiness, acousticness, instrumentalness, liveness, valence, tempo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing audio features insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range features {
		if f.ID == "" {
			continue
		}
		_, err := stmt.Exec(f.ID, f.Danceability, f.Energy, f.Key, f.Loudness, f.Mode,
			f.Speechiness, f.Acousticness, f.Instrumentalness, f.Liveness, f.Valence, f.Tempo)
		if err != nil {
			return fmt.Errorf("inserting audio features for %q: %w", f.ID, err)
		}
	}
	return tx.Commit()
}

// SaveArtistTags upserts tag counts and marks the artist as refreshed.
func (s *Store) SaveArtistTags(artist string, tags []string, counts []int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, tag := range tags {
		count := 0
		if i < len(counts) {
			count = counts[i]
		}

		_, err := tx.Exec("INSERT OR IGNORE INTO Tag (name) VALUES (?)", tag)
		if err != nil {
			return fmt.Errorf("inserting tag %q: %w", tag, err)
		}

		_, err = tx.Exec("INSERT OR REPLACE INTO ArtistTag (artist, tag, count) VALUES (?, ?, ?)", artist, tag, count)
		if err != nil {
			return fmt.Errorf("linking tag %q to artist %q: %w", tag, artist, err)
		}
	}

	if err := s.MarkArtistTagsUpdated(tx, artist); err != nil {
		return err
	}

	return tx.Commit()
}

// MarkArtistTagsUpdated records a tag refresh. tx may be nil.
func (s *Store) MarkArtistTagsUpdated(tx *sql.Tx, artist string) error {
	query := "UPDATE Artist SET tags_last_updated = ? WHERE name = ?"

	var err error
	if tx != nil {
		_, err = tx.Exec(query, time.Now(), artist)
	} else {
		_, err = s.db.Exec(query, time.Now(), artist)
	}

	if err != nil {
		return fmt.Errorf("updating artist tag timestamp: %w", err)
	}
	return nil
}
