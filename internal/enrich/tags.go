// Package enrich adds data that streaming history exports lack: artist
// genres from Last.fm and Spotify audio features.
package enrich

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ademuri/lastfm-go/lastfm"
	"github.com/avast/retry-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultTagInterval is how long fetched tags stay fresh.
const DefaultTagInterval = 24 * 365 * time.Hour

// TagFetcher looks up an artist's top tags with their weights.
type TagFetcher interface {
	ArtistTopTags(ctx context.Context, artist string) (tags []string, counts []int, err error)
}

// TagStore is the storage the tag updater reads from and writes to.
type TagStore interface {
	GetArtistsNeedingTagUpdate(interval time.Duration, minPlays int) ([]string, error)
	SaveArtistTags(artist string, tags []string, counts []int) error
}

// LastfmFetcher fetches tags from the Last.fm API, retrying server errors.
type LastfmFetcher struct {
	client *lastfm.Api
	log    logrus.FieldLogger
}

func NewLastfmFetcher(apiKey, secret string, log logrus.FieldLogger) *LastfmFetcher {
	client := lastfm.New(apiKey, secret)
	client.SetUserAgent("spotify-history/1.0")
	return &LastfmFetcher{client: client, log: log}
}

func (f *LastfmFetcher) ArtistTopTags(ctx context.Context, artist string) ([]string, []int, error) {
	var topTags lastfm.ArtistGetTopTags
	err := retry.Do(
		func() error {
			var err error
			topTags, err = f.client.Artist.GetTopTags(lastfm.P{
				"artist":      artist,
				"autocorrect": 1,
			})
			return err
		},
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			if isServerError(err) {
				f.log.WithError(err).WithField("artist", artist).Warn("last.fm errored, retrying")
				return true
			}
			return false
		}),
	)
	if err != nil {
		return nil, nil, err
	}

	var tags []string
	var counts []int
	for _, t := range topTags.Tags {
		tags = append(tags, t.Name)
		c, _ := strconv.Atoi(t.Count)
		counts = append(counts, c)
	}
	return tags, counts, nil
}

func isServerError(err error) bool {
	if lerr, ok := err.(*lastfm.LastfmError); ok {
		return lerr.Code/100 == 5
	}
	return false
}

// TagUpdater refreshes stale artist tags one artist at a time.
type TagUpdater struct {
	Store   TagStore
	Fetcher TagFetcher
	// Limiter paces requests; nil means one request per second.
	Limiter  *rate.Limiter
	Interval time.Duration
	// MinPlays skips artists with this many plays or fewer.
	MinPlays int
	Log      logrus.FieldLogger
}

// Run fetches tags for every artist that needs them and returns how many
// artists were updated. A failed lookup is logged and skipped; storage
// errors and cancellation stop the run.
func (u *TagUpdater) Run(ctx context.Context) (int, error) {
	limiter := u.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(1*time.Second), 1)
	}
	interval := u.Interval
	if interval <= 0 {
		interval = DefaultTagInterval
	}

	artists, err := u.Store.GetArtistsNeedingTagUpdate(interval, u.MinPlays)
	if err != nil {
		return 0, err
	}
	u.Log.Infof("Found %d artists needing tag updates", len(artists))

	updated := 0
	for i, artist := range artists {
		if err := limiter.Wait(ctx); err != nil {
			return updated, err
		}
		u.Log.Debugf("[%d/%d] Fetching tags for artist: %s", i+1, len(artists), artist)

		tags, counts, err := u.Fetcher.ArtistTopTags(ctx, artist)
		if err != nil {
			if ctx.Err() != nil {
				return updated, ctx.Err()
			}
			u.Log.WithError(err).Warnf("Error fetching tags for artist %s", artist)
			continue
		}

		if err := u.Store.SaveArtistTags(artist, tags, counts); err != nil {
			return updated, fmt.Errorf("saving tags for artist %s: %w", artist, err)
		}
		updated++
	}
	return updated, nil
}
