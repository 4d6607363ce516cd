package contexts

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/ademuri/spotify-history/internal/history"
)

func row(track, artist string, end time.Time, minutes int, l Label) Row {
	return Row{
		Play:    history.Play{Track: track, Artist: artist, EndTime: end, MsPlayed: int64(minutes) * 60000},
		Context: l,
	}
}

func TestSummarize(t *testing.T) {
	monday := time.Date(2024, time.January, 1, 8, 30, 0, 0, time.UTC)
	saturday := time.Date(2024, time.January, 6, 21, 0, 0, 0, time.UTC)
	rows := []Row{
		row("a", "A", monday, 3, Commute),
		row("b", "A", monday, 4, Commute),
		row("c", "B", saturday, 5, Party),
		row("d", "C", saturday, 2, Party),
	}
	st := Summarize(rows)

	if st.Distribution[Commute] != 0.5 || st.Distribution[Party] != 0.5 || st.Distribution[Work] != 0 {
		t.Errorf("distribution = %v", st.Distribution)
	}
	if st.ByTime[Commute] != 7 || st.ByTime[Party] != 7 {
		t.Errorf("by time = %v", st.ByTime)
	}
	if st.ByHour[8][Commute] != 2 || st.ByHour[21][Party] != 2 || len(st.ByHour) != 24 {
		t.Errorf("by hour = %v", st.ByHour)
	}
	if st.ByWeekday["Monday"][Commute] != 2 || st.ByWeekday["Saturday"][Party] != 2 {
		t.Errorf("by weekday = %v", st.ByWeekday)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	st := Summarize(nil)
	for _, l := range Labels {
		if v := st.Distribution[l]; v != 0 || math.IsNaN(v) {
			t.Errorf("distribution[%s] = %v, want 0", l, v)
		}
	}
	if len(st.ByWeekday) != 7 {
		t.Errorf("by weekday has %d days, want 7", len(st.ByWeekday))
	}
}

func TestSuggest(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	rows := []Row{
		row("Zed", "Z", now, 3, Work),
		row("Alpha", "B", now, 3, Work),
		row("Alpha", "A", now, 3, Work),
		row("Zed", "Z", now, 3, Work),
		row("Other", "O", now, 3, Party),
		row("Other", "O", now, 3, Party),
		row("Other", "O", now, 3, Party),
	}

	got := Suggest(rows, Work, 0)
	want := []Suggestion{
		{Track: "Zed", Artist: "Z", Count: 2},
		{Track: "Alpha", Artist: "A", Count: 1},
		{Track: "Alpha", Artist: "B", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest() = %v, want %v", got, want)
	}

	if got := Suggest(rows, Work, 2); len(got) != 2 {
		t.Errorf("Suggest() with limit 2 returned %d", len(got))
	}
	if got := Suggest(rows, Workout, 5); len(got) != 0 {
		t.Errorf("Suggest() for unused context = %v, want empty", got)
	}
}
