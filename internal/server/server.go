// Package server exposes the listening analyses over HTTP.
package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ademuri/spotify-history/internal/analysis"
	"github.com/ademuri/spotify-history/internal/contexts"
	"github.com/ademuri/spotify-history/internal/history"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// Server answers every request with a fresh Analyzer built from the source,
// so requests never share analysis state.
type Server struct {
	src     analysis.Source
	log     logrus.FieldLogger
	router  *gin.Engine
	metrics *metrics
}

// New builds the router. The gin mode is process-wide and left to the caller.
func New(src analysis.Source, log logrus.FieldLogger) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		src:     src,
		log:     log,
		router:  gin.New(),
		metrics: newMetrics(reg),
	}

	s.setupMiddleware()
	s.setupRoutes(reg)

	return s
}

func (s *Server) setupMiddleware() {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}

	s.router.Use(gin.Recovery(), s.requestLogger(), cors.New(corsConfig))
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"status":  c.Writer.Status(),
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"latency": time.Since(start),
		}).Debug("request")
	}
}

func (s *Server) setupRoutes(reg *prometheus.Registry) {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "spotify-history"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/stats", s.handle("stats", getStats))
		v1.GET("/top/artists", s.handle("top_artists", getTopArtists))
		v1.GET("/top/tracks", s.handle("top_tracks", getTopTracks))
		v1.GET("/genres", s.handle("genres", getGenres))
		v1.GET("/moods", s.handle("moods", getMoods))
		v1.GET("/audio/over-time", s.handle("audio_over_time", getAudioOverTime))

		v1.GET("/sessions/statistics", s.handle("session_statistics", getSessionStatistics))
		v1.GET("/sessions/patterns", s.handle("session_patterns", getSessionPatterns))
		v1.GET("/sessions/content", s.handle("session_content", getSessionContent))

		v1.GET("/contexts/statistics", s.handle("context_statistics", getContextStatistics))
		v1.GET("/contexts/suggest", s.handle("context_suggest", getContextSuggestions))
		v1.POST("/contexts/predict", s.handle("context_predict", postContextPrediction))

		v1.GET("/report", s.handle("report", getReport))
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server on addr.
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// badRequest marks errors caused by the request itself.
type badRequest struct{ error }

type handlerFunc func(c *gin.Context, a *analysis.Analyzer) (any, error)

func (s *Server) handle(endpoint string, fn handlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		defer func() {
			s.metrics.requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
		}()

		timer := prometheus.NewTimer(s.metrics.duration.WithLabelValues(endpoint))
		data, err := s.run(c, fn)
		timer.ObserveDuration()

		if err != nil {
			status = statusFor(err)
			if _, ok := err.(badRequest); ok {
				status = http.StatusBadRequest
			}
			if status == http.StatusInternalServerError {
				s.log.WithError(err).WithField("endpoint", endpoint).Error("analysis failed")
			}
			fail(c, status, err.Error())
			return
		}
		success(c, data)
	}
}

func (s *Server) run(c *gin.Context, fn handlerFunc) (any, error) {
	start, end, err := dateRange(c)
	if err != nil {
		return nil, badRequest{err}
	}
	a, err := analysis.Load(s.src, start, end, s.log)
	if err != nil {
		return nil, err
	}
	if gap := c.Query("gap"); gap != "" {
		minutes, err := strconv.Atoi(gap)
		if err != nil || minutes < 0 {
			return nil, badRequest{fmt.Errorf("invalid gap %q", gap)}
		}
		a.DetectSessions(minutes)
	}
	return fn(c, a)
}

// dateRange reads the inclusive from and to query dates.
func dateRange(c *gin.Context) (start, end time.Time, err error) {
	if from := c.Query("from"); from != "" {
		if start, err = time.Parse(dateLayout, from); err != nil {
			return start, end, fmt.Errorf("invalid from date %q", from)
		}
	}
	if to := c.Query("to"); to != "" {
		if end, err = time.Parse(dateLayout, to); err != nil {
			return start, end, fmt.Errorf("invalid to date %q", to)
		}
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

func queryLimit(c *gin.Context, def int) (int, error) {
	v := c.Query("limit")
	if v == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit < 0 {
		return 0, badRequest{fmt.Errorf("invalid limit %q", v)}
	}
	return limit, nil
}

func getStats(_ *gin.Context, a *analysis.Analyzer) (any, error) {
	return gin.H{"basic": a.BasicStats(), "streaks": a.Streaks()}, nil
}

func getTopArtists(c *gin.Context, a *analysis.Analyzer) (any, error) {
	limit, err := queryLimit(c, 10)
	if err != nil {
		return nil, err
	}
	return a.TopArtists(limit), nil
}

func getTopTracks(c *gin.Context, a *analysis.Analyzer) (any, error) {
	limit, err := queryLimit(c, 10)
	if err != nil {
		return nil, err
	}
	return a.TopTracks(limit), nil
}

func getGenres(c *gin.Context, a *analysis.Analyzer) (any, error) {
	limit, err := queryLimit(c, 10)
	if err != nil {
		return nil, err
	}
	top, err := a.TopGenres(limit)
	if err != nil {
		return nil, err
	}
	diversity, err := a.GenreDiversity()
	if err != nil {
		return nil, err
	}
	return analysis.GenreReport{Top: top, Diversity: diversity}, nil
}

func getMoods(_ *gin.Context, a *analysis.Analyzer) (any, error) {
	return a.MoodAnalysis()
}

func getAudioOverTime(c *gin.Context, a *analysis.Analyzer) (any, error) {
	feature := c.DefaultQuery("feature", history.FeatureEnergy)
	if _, ok := (history.AudioFeatures{}).Value(feature); !ok {
		return nil, badRequest{fmt.Errorf("unknown audio feature %q", feature)}
	}
	monthly, err := a.AudioFeatureOverTime(feature)
	if err != nil {
		return nil, err
	}
	return gin.H{"feature": feature, "monthly": monthly}, nil
}

func getSessionStatistics(_ *gin.Context, a *analysis.Analyzer) (any, error) {
	return a.SessionStatistics(), nil
}

func getSessionPatterns(_ *gin.Context, a *analysis.Analyzer) (any, error) {
	return a.SessionPatterns(), nil
}

func getSessionContent(_ *gin.Context, a *analysis.Analyzer) (any, error) {
	return a.SessionContentAnalysis(), nil
}

func getContextStatistics(_ *gin.Context, a *analysis.Analyzer) (any, error) {
	return a.ContextStatistics(), nil
}

func getContextSuggestions(c *gin.Context, a *analysis.Analyzer) (any, error) {
	label, err := contexts.ParseLabel(c.Query("context"))
	if err != nil {
		return nil, badRequest{err}
	}
	limit, err := queryLimit(c, contexts.DefaultSuggestions)
	if err != nil {
		return nil, err
	}
	return a.SuggestForContext(label, limit), nil
}

func postContextPrediction(c *gin.Context, a *analysis.Analyzer) (any, error) {
	var features map[string]float64
	if err := c.ShouldBindJSON(&features); err != nil {
		return nil, badRequest{fmt.Errorf("invalid feature map: %w", err)}
	}
	label, err := a.PredictContext(features)
	if err != nil {
		return nil, err
	}
	return gin.H{"context": label}, nil
}

func getReport(_ *gin.Context, a *analysis.Analyzer) (any, error) {
	return a.Report()
}
