package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoPlays is returned when none of the given files contained any records.
var ErrNoPlays = errors.New("no streaming records could be loaded")

// record covers both the account-data export (endTime, artistName, ...) and
// the extended streaming history export (ts, master_metadata_*, ...).
type record struct {
	EndTime    string `json:"endTime"`
	ArtistName string `json:"artistName"`
	TrackName  string `json:"trackName"`
	MsPlayed   int64  `json:"msPlayed"`
	TrackID    string `json:"trackId"`

	Ts              string  `json:"ts"`
	ExtMsPlayed     int64   `json:"ms_played"`
	ExtTrackName    *string `json:"master_metadata_track_name"`
	ExtArtistName   *string `json:"master_metadata_album_artist_name"`
	SpotifyTrackURI *string `json:"spotify_track_uri"`
}

var basicLayouts = []string{"2006-01-02 15:04", "2006-01-02 15:04:05", time.RFC3339}

func parseEndTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range basicLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parsing endTime %q: %w", s, lastErr)
}

// toPlay converts a record. ok is false for records that are not music plays,
// such as podcast episodes in the extended export.
func (r record) toPlay() (p Play, ok bool, err error) {
	if r.Ts != "" {
		if r.ExtTrackName == nil || r.ExtArtistName == nil {
			return Play{}, false, nil
		}
		p.EndTime, err = time.Parse(time.RFC3339, r.Ts)
		if err != nil {
			return Play{}, false, fmt.Errorf("parsing ts %q: %w", r.Ts, err)
		}
		p.Artist = *r.ExtArtistName
		p.Track = *r.ExtTrackName
		p.MsPlayed = r.ExtMsPlayed
		if r.SpotifyTrackURI != nil {
			p.TrackID = strings.TrimPrefix(*r.SpotifyTrackURI, "spotify:track:")
		}
		return p, true, nil
	}

	if r.EndTime == "" {
		return Play{}, false, fmt.Errorf("record has neither endTime nor ts")
	}
	p.EndTime, err = parseEndTime(r.EndTime)
	if err != nil {
		return Play{}, false, err
	}
	p.Artist = r.ArtistName
	p.Track = r.TrackName
	p.MsPlayed = r.MsPlayed
	p.TrackID = r.TrackID
	return p, true, nil
}

// Parse reads one export file body. Both a JSON array of records and a single
// record object are accepted. Skips are dropped; IDs are left at zero.
func Parse(r io.Reader) ([]Play, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("reading export: %w", err)
	}

	var records []record
	dec := json.NewDecoder(br)
	if first == '{' {
		var single record
		if err := dec.Decode(&single); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		records = []record{single}
	} else if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}

	plays := make([]Play, 0, len(records))
	for i, rec := range records {
		p, ok, err := rec.toPlay()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if !ok || p.MsPlayed <= MinPlayedMs {
			continue
		}
		plays = append(plays, p)
	}
	return plays, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n', 0xEF, 0xBB, 0xBF:
			continue
		}
		return b, br.UnreadByte()
	}
}

// LoadFiles parses every file in order and assigns IDs by position in the
// combined table.
func LoadFiles(paths []string) ([]Play, error) {
	var plays []Play
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		parsed, err := Parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		plays = append(plays, parsed...)
	}
	if len(plays) == 0 {
		return nil, ErrNoPlays
	}
	for i := range plays {
		plays[i].ID = int64(i)
	}
	return plays, nil
}

// ResolvePaths expands a directory into the streaming history files it
// contains. A single .json file is returned as is.
func ResolvePaths(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		if !strings.HasSuffix(path, ".json") {
			return nil, fmt.Errorf("%s is not a JSON file or directory", path)
		}
		return []string{path}, nil
	}

	files, err := filepath.Glob(filepath.Join(path, "*History*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no Spotify data files found in %s (expected names like StreamingHistory0.json)", path)
	}
	return files, nil
}
