package enrich

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/ademuri/lastfm-go/lastfm"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type fakeTagStore struct {
	artists []string
	saved   map[string][]string
	saveErr error
}

func (s *fakeTagStore) GetArtistsNeedingTagUpdate(time.Duration, int) ([]string, error) {
	return s.artists, nil
}

func (s *fakeTagStore) SaveArtistTags(artist string, tags []string, counts []int) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.saved == nil {
		s.saved = make(map[string][]string)
	}
	s.saved[artist] = tags
	return nil
}

type fakeFetcher map[string][]string

func (f fakeFetcher) ArtistTopTags(_ context.Context, artist string) ([]string, []int, error) {
	tags, ok := f[artist]
	if !ok {
		return nil, nil, &lastfm.LastfmError{Code: 6}
	}
	return tags, make([]int, len(tags)), nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newUpdater(s TagStore, f TagFetcher) *TagUpdater {
	return &TagUpdater{
		Store:   s,
		Fetcher: f,
		Limiter: rate.NewLimiter(rate.Inf, 1),
		Log:     quietLogger(),
	}
}

func TestTagUpdaterRun(t *testing.T) {
	s := &fakeTagStore{artists: []string{"Known", "Unknown", "Also Known"}}
	f := fakeFetcher{"Known": {"rock"}, "Also Known": {"jazz", "bebop"}}

	updated, err := newUpdater(s, f).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if updated != 2 {
		t.Errorf("Run() updated %d artists, want 2", updated)
	}
	want := map[string][]string{"Known": {"rock"}, "Also Known": {"jazz", "bebop"}}
	if !reflect.DeepEqual(s.saved, want) {
		t.Errorf("saved = %v, want %v", s.saved, want)
	}
}

func TestTagUpdaterStoreError(t *testing.T) {
	s := &fakeTagStore{artists: []string{"Known"}, saveErr: errors.New("disk full")}
	_, err := newUpdater(s, fakeFetcher{"Known": {"rock"}}).Run(context.Background())
	if err == nil {
		t.Fatal("Run() succeeded, want error")
	}
}

func TestTagUpdaterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &fakeTagStore{artists: []string{"Known"}}
	u := newUpdater(s, fakeFetcher{"Known": {"rock"}})
	u.Limiter = rate.NewLimiter(rate.Every(time.Hour), 0)

	if _, err := u.Run(ctx); err == nil {
		t.Fatal("Run() with cancelled context succeeded, want error")
	}
	if len(s.saved) != 0 {
		t.Errorf("saved = %v, want nothing", s.saved)
	}
}

func TestIsServerError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&lastfm.LastfmError{Code: 500}, true},
		{&lastfm.LastfmError{Code: 503}, true},
		{&lastfm.LastfmError{Code: 6}, false},
		{errors.New("connection reset"), false},
	}
	for _, tc := range tests {
		if got := isServerError(tc.err); got != tc.want {
			t.Errorf("isServerError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
