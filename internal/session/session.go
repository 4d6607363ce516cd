// Package session splits a play history into listening sessions and derives
// statistics over them.
package session

import (
	"sort"
	"time"

	"github.com/ademuri/spotify-history/internal/history"
)

// DefaultGapMinutes is the idle gap after which a new session starts.
const DefaultGapMinutes = 30

type Type string

const (
	TypeSingleArtist   Type = "single_artist"
	TypeAlbumListening Type = "album_listening"
	TypeVariety        Type = "variety"
	TypeMixed          Type = "mixed"
)

// Types lists every session type in classification priority order.
var Types = []Type{TypeSingleArtist, TypeAlbumListening, TypeVariety, TypeMixed}

// Session is a maximal run of plays whose consecutive end times are no more
// than the gap threshold apart. Plays are ordered by end time.
type Session struct {
	ID    int
	Plays []history.Play
}

// Detect partitions plays into sessions. The input is not modified and need
// not be sorted; plays with equal end times keep their input order.
//
// Boundaries compare end times only, so a long track can hide idle time
// before it. That approximation is intentional.
func Detect(plays []history.Play, gapMinutes int) []Session {
	if len(plays) == 0 {
		return nil
	}

	sorted := make([]history.Play, len(plays))
	copy(sorted, plays)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EndTime.Before(sorted[j].EndTime)
	})

	gap := time.Duration(gapMinutes) * time.Minute
	var sessions []Session
	for i, p := range sorted {
		if i == 0 || sorted[i].EndTime.Sub(sorted[i-1].EndTime) > gap {
			sessions = append(sessions, Session{ID: len(sessions)})
		}
		current := &sessions[len(sessions)-1]
		current.Plays = append(current.Plays, p)
	}
	return sessions
}

// Start is when the first track of the session began playing.
func (s Session) Start() time.Time {
	return s.Plays[0].Start()
}

func (s Session) End() time.Time {
	return s.Plays[len(s.Plays)-1].EndTime
}

// Duration is the session length in minutes, from the start of the first
// track to the end of the last one. A single play lasts its own duration.
func (s Session) Duration() float64 {
	if len(s.Plays) == 1 {
		return s.Plays[0].Minutes()
	}
	return s.End().Sub(s.Start()).Minutes()
}

func (s Session) TrackCount() int {
	return len(s.Plays)
}

func (s Session) ArtistCount() int {
	artists := make(map[string]bool)
	for _, p := range s.Plays {
		artists[p.Artist] = true
	}
	return len(artists)
}

// Type classifies the session. Rules are checked in priority order and the
// first match wins.
func (s Session) Type() Type {
	tracks := s.TrackCount()
	artists := s.ArtistCount()
	switch {
	case tracks > 1 && artists == 1:
		return TypeSingleArtist
	case tracks > 3 && artists <= 2:
		return TypeAlbumListening
	case tracks > 1 && float64(artists)/float64(tracks) > 0.8:
		return TypeVariety
	default:
		return TypeMixed
	}
}

// ArtistContinuity is the fraction of adjacent plays by the same artist. It
// is undefined for single-play sessions, reported by ok=false.
func (s Session) ArtistContinuity() (continuity float64, ok bool) {
	if len(s.Plays) < 2 {
		return 0, false
	}
	same := 0
	for i := 0; i+1 < len(s.Plays); i++ {
		if s.Plays[i].Artist == s.Plays[i+1].Artist {
			same++
		}
	}
	return float64(same) / float64(len(s.Plays)-1), true
}

// UniqueArtistRatio is distinct artists over plays, undefined for
// single-play sessions.
func (s Session) UniqueArtistRatio() (ratio float64, ok bool) {
	if len(s.Plays) < 2 {
		return 0, false
	}
	return float64(s.ArtistCount()) / float64(len(s.Plays)), true
}

// Membership maps each play ID to the ID of the session containing it.
func Membership(sessions []Session) map[int64]int {
	m := make(map[int64]int)
	for _, s := range sessions {
		for _, p := range s.Plays {
			m[p.ID] = s.ID
		}
	}
	return m
}
