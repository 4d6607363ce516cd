package server

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ademuri/spotify-history/internal/history"
	"github.com/ademuri/spotify-history/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// newTestStore holds a Saturday night party and a Tuesday lunchtime session.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("store.New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	saturday := time.Date(2023, time.March, 11, 21, 0, 0, 0, time.UTC)
	var plays []history.Play
	for i, track := range []string{"Dance", "Dance", "Jump", "Dance"} {
		plays = append(plays, history.Play{
			EndTime:  saturday.Add(time.Duration(i*4) * time.Minute),
			Artist:   "Artist",
			Track:    track,
			MsPlayed: 200000,
			TrackID:  strings.ToLower(track),
		})
	}
	plays = append(plays, history.Play{
		EndTime: time.Date(2023, time.March, 14, 12, 30, 0, 0, time.UTC), Artist: "Other", Track: "Focus", MsPlayed: 200000,
	})
	if _, err := db.AddPlays(plays); err != nil {
		t.Fatalf("AddPlays() error: %v", err)
	}
	return db
}

func newServer(db *store.Store) *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(db, log)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newServer(newTestStore(t))
}

func do(t *testing.T, s *Server, method, target, body string) (int, Response) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var resp Response
	if strings.HasPrefix(target, "/api/") {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s %s: decoding %q: %v", method, target, w.Body.String(), err)
		}
	}
	return w.Code, resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	if code, _ := do(t, s, http.MethodGet, "/health", ""); code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", code)
	}
}

func TestSessionStatistics(t *testing.T) {
	s := newTestServer(t)

	code, resp := do(t, s, http.MethodGet, "/api/v1/sessions/statistics", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %+v", code, resp)
	}
	data := resp.Data.(map[string]any)
	if data["total_sessions"] != float64(2) {
		t.Errorf("total_sessions = %v, want 2", data["total_sessions"])
	}

	_, resp = do(t, s, http.MethodGet, "/api/v1/sessions/statistics?gap=1", "")
	if got := resp.Data.(map[string]any)["total_sessions"]; got != float64(5) {
		t.Errorf("total_sessions with gap 1 = %v, want 5", got)
	}

	_, resp = do(t, s, http.MethodGet, "/api/v1/sessions/statistics?from=2023-03-12", "")
	if got := resp.Data.(map[string]any)["total_sessions"]; got != float64(1) {
		t.Errorf("total_sessions from 2023-03-12 = %v, want 1", got)
	}
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t)
	for _, target := range []string{
		"/api/v1/sessions/statistics?gap=soon",
		"/api/v1/sessions/patterns?from=yesterday",
		"/api/v1/contexts/suggest?context=gym",
		"/api/v1/top/artists?limit=-1",
	} {
		if code, _ := do(t, s, http.MethodGet, target, ""); code != http.StatusBadRequest {
			t.Errorf("GET %s = %d, want 400", target, code)
		}
	}
}

func TestMissingEnrichment(t *testing.T) {
	s := newTestServer(t)
	for _, target := range []string{"/api/v1/genres", "/api/v1/moods", "/api/v1/audio/over-time"} {
		code, resp := do(t, s, http.MethodGet, target, "")
		if code != http.StatusConflict {
			t.Errorf("GET %s = %d, want 409", target, code)
		}
		if !strings.Contains(resp.Message, "not available") {
			t.Errorf("GET %s message = %q", target, resp.Message)
		}
	}
}

func TestContexts(t *testing.T) {
	s := newTestServer(t)

	code, resp := do(t, s, http.MethodGet, "/api/v1/contexts/suggest?context=party&limit=1", "")
	if code != http.StatusOK {
		t.Fatalf("suggest status = %d: %+v", code, resp)
	}
	suggestions := resp.Data.([]any)
	if len(suggestions) != 1 || suggestions[0].(map[string]any)["track"] != "Dance" {
		t.Errorf("suggestions = %v", suggestions)
	}

	code, resp = do(t, s, http.MethodPost, "/api/v1/contexts/predict", `{"hour": 21, "weekday": 5}`)
	if code != http.StatusOK {
		t.Fatalf("predict status = %d: %+v", code, resp)
	}
	if got := resp.Data.(map[string]any)["context"]; got != "party" {
		t.Errorf("predicted %v, want party", got)
	}

	code, _ = do(t, s, http.MethodPost, "/api/v1/contexts/predict", `{"hour": 21}`)
	if code != http.StatusBadRequest {
		t.Errorf("predict without weekday = %d, want 400", code)
	}
}

func TestReportAndMetrics(t *testing.T) {
	s := newTestServer(t)
	code, resp := do(t, s, http.MethodGet, "/api/v1/report", "")
	if code != http.StatusOK {
		t.Fatalf("report status = %d: %+v", code, resp)
	}
	meta := resp.Data.(map[string]any)["report_metadata"].(map[string]any)
	if meta["total_plays"] != float64(5) {
		t.Errorf("total_plays = %v, want 5", meta["total_plays"])
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), `spotify_history_api_requests_total{endpoint="report",status="200"} 1`) {
		t.Errorf("metrics missing report request counter:\n%s", w.Body.String())
	}
}

func TestAudioOverTime(t *testing.T) {
	db := newTestStore(t)
	if err := db.SaveAudioFeatures([]history.AudioFeatures{{ID: "dance", Energy: 0.9, Tempo: 128, Valence: 0.8}}); err != nil {
		t.Fatalf("SaveAudioFeatures() error: %v", err)
	}
	s := newServer(db)

	code, resp := do(t, s, http.MethodGet, "/api/v1/audio/over-time", "")
	if code != http.StatusOK {
		t.Fatalf("over-time status = %d: %+v", code, resp)
	}
	data := resp.Data.(map[string]any)
	if data["feature"] != "energy" {
		t.Errorf("default feature = %v, want energy", data["feature"])
	}
	monthly := data["monthly"].(map[string]any)
	if got := monthly["2023-03"].(float64); math.Abs(got-0.9) > 1e-9 {
		t.Errorf("March energy = %v, want 0.9", got)
	}

	code, _ = do(t, s, http.MethodGet, "/api/v1/audio/over-time?feature=loudness2", "")
	if code != http.StatusBadRequest {
		t.Errorf("unknown feature = %d, want 400", code)
	}
}

func TestNewLeavesGinModeAlone(t *testing.T) {
	defer gin.SetMode(gin.Mode())
	gin.SetMode(gin.TestMode)
	newTestServer(t)
	if gin.Mode() != gin.TestMode {
		t.Errorf("gin mode = %q after New, want %q", gin.Mode(), gin.TestMode)
	}
}
