package analysis

import (
	"github.com/ademuri/spotify-history/internal/session"
	"github.com/sirupsen/logrus"
)

// DetectSessions splits the history with the given gap and remembers the
// result for the other session operations.
func (a *Analyzer) DetectSessions(gapMinutes int) []session.Session {
	a.sessions = session.Detect(a.plays, gapMinutes)
	a.gap = gapMinutes
	a.sessionIDs = session.Membership(a.sessions)
	a.log.WithFields(logrus.Fields{"gap": gapMinutes, "sessions": len(a.sessions)}).Debug("detected sessions")
	return a.sessions
}

func (a *Analyzer) ensureSessions() []session.Session {
	if a.sessionIDs == nil {
		a.DetectSessions(session.DefaultGapMinutes)
	}
	return a.sessions
}

// SessionID returns the session a play belongs to.
func (a *Analyzer) SessionID(playID int64) (int, bool) {
	a.ensureSessions()
	id, ok := a.sessionIDs[playID]
	return id, ok
}

// SessionGap is the threshold of the last detection, or the default.
func (a *Analyzer) SessionGap() int {
	a.ensureSessions()
	return a.gap
}

func (a *Analyzer) SessionStatistics() session.Statistics {
	return session.Summarize(a.ensureSessions())
}

func (a *Analyzer) SessionPatterns() session.Patterns {
	return session.FindPatterns(a.ensureSessions())
}

func (a *Analyzer) SessionContentAnalysis() session.ContentAnalysis {
	return session.AnalyzeContent(a.ensureSessions())
}
