package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// newRequestLogger logs completed requests as structured logrus fields,
// minus the high-frequency polling endpoints, which would otherwise drown
// the log.
func newRequestLogger(log logrus.FieldLogger, ignoredPaths ...string) func(next http.Handler) http.Handler {
	ignored := make(map[string]struct{}, len(ignoredPaths))
	for _, p := range ignoredPaths {
		ignored[p] = struct{}{}
	}

	return middleware.RequestLogger(&selectiveLogFormatter{
		ignoredPaths: ignored,
		log:          log,
	})
}

type selectiveLogFormatter struct {
	ignoredPaths map[string]struct{}
	log          logrus.FieldLogger
}

func (f *selectiveLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	if _, ok := f.ignoredPaths[r.URL.Path]; ok {
		return noopLogEntry{}
	}
	fields := logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"remote": r.RemoteAddr,
	}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		fields["request_id"] = reqID
	}
	return &requestLogEntry{log: f.log.WithFields(fields)}
}

type requestLogEntry struct {
	log logrus.FieldLogger
}

func (e *requestLogEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	e.log.WithFields(logrus.Fields{
		"status":  status,
		"bytes":   bytes,
		"elapsed": elapsed.String(),
	}).Info("request")
}

func (e *requestLogEntry) Panic(v interface{}, stack []byte) {
	e.log.WithField("panic", v).Error(string(stack))
}

type noopLogEntry struct{}

func (noopLogEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
}

func (noopLogEntry) Panic(v interface{}, stack []byte) {}
