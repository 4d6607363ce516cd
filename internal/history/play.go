// Package history loads Spotify streaming history exports into an immutable
// table of plays.
package history

import "time"

// MinPlayedMs is the skip threshold. Plays at or below it are dropped on load.
const MinPlayedMs = 30000

var WeekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Play is one recorded listen. Calendar fields are derived from EndTime.
type Play struct {
	// ID is the stable identity used to key enrichment overlays.
	ID       int64
	EndTime  time.Time
	Artist   string
	Track    string
	MsPlayed int64
	// TrackID is the Spotify track id, empty for exports that don't carry one.
	TrackID string
}

func (p Play) Duration() time.Duration {
	return time.Duration(p.MsPlayed) * time.Millisecond
}

// Start is the estimated time playback began.
func (p Play) Start() time.Time {
	return p.EndTime.Add(-p.Duration())
}

func (p Play) Minutes() float64 {
	return float64(p.MsPlayed) / 60000
}

func (p Play) Hours() float64 {
	return float64(p.MsPlayed) / 3600000
}

func (p Play) Hour() int {
	return p.EndTime.Hour()
}

// Weekday returns 0 for Monday through 6 for Sunday.
func (p Play) Weekday() int {
	return WeekdayIndex(p.EndTime)
}

func (p Play) WeekdayName() string {
	return p.EndTime.Weekday().String()
}

func (p Play) MonthName() string {
	return p.EndTime.Month().String()
}

func (p Play) Date() time.Time {
	y, m, d := p.EndTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.EndTime.Location())
}

// WeekdayIndex maps t onto a Monday-first week.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
