package signserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Metrics tracks sign server runtime statistics.
// All counters use atomic operations for lock-free concurrent access.
type Metrics struct {
	startTime time.Time

	Logins            atomic.Int64 // successful logins
	Registrations     atomic.Int64 // accounts created
	FailedAuths       atomic.Int64 // rejected credentials and tokens
	CharactersCreated atomic.Int64 // character slots created
	CharactersDeleted atomic.Int64 // character slots deleted
	RequestErrors     atomic.Int64 // malformed bodies and internal errors
}

// NewMetrics creates a new Metrics instance with the start time set to now.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// MetricsSnapshot is a point-in-time view of all metrics as a
// serializable struct.
type MetricsSnapshot struct {
	Uptime        string `json:"uptime"`
	UptimeSeconds int64  `json:"uptime_seconds"`

	Logins            int64 `json:"logins"`
	Registrations     int64 `json:"registrations"`
	FailedAuths       int64 `json:"failed_auths"`
	CharactersCreated int64 `json:"characters_created"`
	CharactersDeleted int64 `json:"characters_deleted"`
	RequestErrors     int64 `json:"request_errors"`
}

// Snapshot returns a read-consistent snapshot of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	uptime := time.Since(m.startTime)
	return MetricsSnapshot{
		Uptime:            uptime.Truncate(time.Second).String(),
		UptimeSeconds:     int64(uptime.Seconds()),
		Logins:            m.Logins.Load(),
		Registrations:     m.Registrations.Load(),
		FailedAuths:       m.FailedAuths.Load(),
		CharactersCreated: m.CharactersCreated.Load(),
		CharactersDeleted: m.CharactersDeleted.Load(),
		RequestErrors:     m.RequestErrors.Load(),
	}
}

// JSON returns the metrics snapshot as a JSON string.
func (m *Metrics) JSON() string {
	data, err := json.MarshalIndent(m.Snapshot(), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// LogSummary writes a periodic metrics summary to the logger.
func (m *Metrics) LogSummary() {
	s := m.Snapshot()
	slog.Info("metrics",
		"uptime", s.Uptime,
		"logins", s.Logins,
		"registrations", s.Registrations,
		"failed_auths", s.FailedAuths,
		"chars_created", s.CharactersCreated,
		"chars_deleted", s.CharactersDeleted,
		"request_errors", s.RequestErrors,
	)
}

// StartPeriodicLog starts a goroutine that logs metrics every interval.
// It stops when the done channel is closed.
func (m *Metrics) StartPeriodicLog(interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m.LogSummary()
			}
		}
	}()
}

// handleMetrics writes all metrics in Prometheus text exposition format.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	m := s.metrics
	uptime := time.Since(m.startTime).Seconds()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	// Write errors to http.ResponseWriter are non-actionable; suppress errcheck.
	write := func(name, help, mtype string, value int64) {
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		_, _ = fmt.Fprintf(w, "%s %d\n", name, value)
	}

	_, _ = fmt.Fprintf(w, "# HELP mhfsign_uptime_seconds Server uptime in seconds.\n")
	_, _ = fmt.Fprintf(w, "# TYPE mhfsign_uptime_seconds gauge\n")
	_, _ = fmt.Fprintf(w, "mhfsign_uptime_seconds %f\n", uptime)

	write("mhfsign_logins_total", "Successful logins.", "counter",
		m.Logins.Load())
	write("mhfsign_registrations_total", "Accounts created.", "counter",
		m.Registrations.Load())
	write("mhfsign_auth_failed_total", "Rejected credentials and tokens.", "counter",
		m.FailedAuths.Load())
	write("mhfsign_characters_created_total", "Character slots created.", "counter",
		m.CharactersCreated.Load())
	write("mhfsign_characters_deleted_total", "Character slots deleted.", "counter",
		m.CharactersDeleted.Load())
	write("mhfsign_request_errors_total", "Malformed bodies and internal errors.", "counter",
		m.RequestErrors.Load())
}
