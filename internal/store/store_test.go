package store

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ademuri/spotify-history/internal/history"
)

func createTestDb(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%s) error: %v", dbPath, err)
	}

	return store
}

var day = time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)

func play(minute int, artist, track, id string) history.Play {
	return history.Play{
		EndTime:  day.Add(time.Duration(minute) * time.Minute),
		Artist:   artist,
		Track:    track,
		MsPlayed: 200000,
		TrackID:  id,
	}
}

func TestAddPlays(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	plays := []history.Play{
		play(10, "Artist", "Song", ""),
		play(20, "Artist", "Song", "abc"),
		play(5, "Other", "Tune", "def"),
	}
	added, err := s.AddPlays(plays)
	if err != nil {
		t.Fatalf("AddPlays failed: %v", err)
	}
	if added != 3 {
		t.Errorf("AddPlays added %d, want 3", added)
	}

	// Importing the same export again adds nothing.
	added, err = s.AddPlays(plays)
	if err != nil {
		t.Fatalf("AddPlays (repeat) failed: %v", err)
	}
	if added != 0 {
		t.Errorf("AddPlays (repeat) added %d, want 0", added)
	}

	got, err := s.GetPlays(time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetPlays failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("GetPlays returned %d plays, want 3", len(got))
	}
	if got[0].Track != "Tune" || got[0].TrackID != "def" {
		t.Errorf("first play = %+v, want Tune/def", got[0])
	}
	// The track learned its Spotify ID from the second play.
	if got[1].TrackID != "abc" || got[2].TrackID != "abc" {
		t.Errorf("Song track IDs = %q, %q, want abc", got[1].TrackID, got[2].TrackID)
	}
	if !got[1].EndTime.Equal(day.Add(10*time.Minute)) || got[1].MsPlayed != 200000 {
		t.Errorf("second play = %+v", got[1])
	}
	ids := map[int64]bool{}
	for _, p := range got {
		ids[p.ID] = true
	}
	if len(ids) != 3 {
		t.Errorf("play IDs are not distinct: %v", got)
	}
}

func TestGetPlaysRange(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	if _, err := s.AddPlays([]history.Play{play(0, "A", "a", ""), play(60, "A", "b", ""), play(120, "A", "c", "")}); err != nil {
		t.Fatalf("AddPlays failed: %v", err)
	}

	got, err := s.GetPlays(day.Add(time.Hour), day.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("GetPlays failed: %v", err)
	}
	if len(got) != 1 || got[0].Track != "b" {
		t.Errorf("GetPlays = %v, want only b", got)
	}

	first, last, err := s.PlayRange()
	if err != nil {
		t.Fatalf("PlayRange failed: %v", err)
	}
	if !first.Equal(day) || !last.Equal(day.Add(2*time.Hour)) {
		t.Errorf("PlayRange = %v, %v", first, last)
	}
}

func TestPlayRangeEmpty(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	first, last, err := s.PlayRange()
	if err != nil {
		t.Fatalf("PlayRange failed: %v", err)
	}
	if !first.IsZero() || !last.IsZero() {
		t.Errorf("PlayRange on empty store = %v, %v", first, last)
	}
}

func TestAudioFeatures(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	in := []history.AudioFeatures{
		{ID: "abc", Energy: 0.8, Tempo: 128, Valence: 0.4, Key: 5, Mode: 1, Loudness: -6.5},
		{ID: "def", Energy: 0.2, Tempo: 70},
		{Energy: 1},
	}
	if err := s.SaveAudioFeatures(in); err != nil {
		t.Fatalf("SaveAudioFeatures failed: %v", err)
	}
	in[0].Energy = 0.9
	if err := s.SaveAudioFeatures(in[:1]); err != nil {
		t.Fatalf("SaveAudioFeatures (replace) failed: %v", err)
	}

	got, err := s.GetAudioFeatures()
	if err != nil {
		t.Fatalf("GetAudioFeatures failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetAudioFeatures returned %d entries, want 2", len(got))
	}
	if !reflect.DeepEqual(got["abc"], in[0]) {
		t.Errorf("features for abc = %+v, want %+v", got["abc"], in[0])
	}
}

func TestTagUpdates(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	var plays []history.Play
	for i := 0; i < 11; i++ {
		plays = append(plays, play(i*5, "The Beatles", "Come Together", ""))
	}
	plays = append(plays, play(100, "Someone Else", "Once", ""))
	if _, err := s.AddPlays(plays); err != nil {
		t.Fatalf("AddPlays failed: %v", err)
	}

	artists, err := s.GetArtistsNeedingTagUpdate(24*time.Hour, 10)
	if err != nil {
		t.Fatalf("GetArtistsNeedingTagUpdate: %v", err)
	}
	if len(artists) != 1 || artists[0] != "The Beatles" {
		t.Errorf("Expected [The Beatles], got %v", artists)
	}

	err = s.SaveArtistTags("The Beatles", []string{"rock", "classic rock", "60s"}, []int{80, 100, 40})
	if err != nil {
		t.Fatalf("SaveArtistTags: %v", err)
	}

	artists, err = s.GetArtistsNeedingTagUpdate(24*time.Hour, 10)
	if err != nil {
		t.Fatalf("GetArtistsNeedingTagUpdate 2: %v", err)
	}
	if len(artists) != 0 {
		t.Errorf("Expected [], got %v", artists)
	}

	tags, err := s.GetArtistTags(2)
	if err != nil {
		t.Fatalf("GetArtistTags: %v", err)
	}
	want := map[string][]string{"The Beatles": {"classic rock", "rock"}}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("GetArtistTags = %v, want %v", tags, want)
	}
}
