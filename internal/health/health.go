package health

import (
	"context"
	"log/slog"
	"time"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status is the probe result.
type Status struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Error     string `json:"error,omitempty"`
}

// Healthy reports whether the probe succeeded.
func (s Status) Healthy() bool {
	return s.Status == StatusOK
}

// Checker probes the service dependencies.
type Checker struct {
	db      Pinger
	version string
	now     func() time.Time
}

// NewChecker creates a checker. db may be nil, in which case the probe
// always reports ok.
func NewChecker(db Pinger, version string) *Checker {
	return &Checker{db: db, version: version, now: time.Now}
}

// Check runs the probe once.
func (c *Checker) Check(ctx context.Context) Status {
	st := Status{
		Status:    StatusOK,
		Timestamp: c.now().UTC().Format(time.RFC3339),
		Version:   c.version,
	}
	if c.db != nil {
		if err := c.db.PingContext(ctx); err != nil {
			st.Status = StatusError
			st.Error = err.Error()
		}
	}
	return st
}

// Monitor polls a checker and logs status transitions.
type Monitor struct {
	checker  *Checker
	interval time.Duration
	logger   *slog.Logger
}

// NewMonitor creates a monitor. A non-positive interval defaults to 30s.
func NewMonitor(checker *Checker, interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{checker: checker, interval: interval, logger: logger}
}

// Run polls until ctx is done. It always returns nil so it can run under an
// errgroup without tearing the group down.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	last := ""
	for {
		st := m.checker.Check(ctx)
		if st.Status != last {
			if st.Healthy() {
				m.logger.Info("health status changed", "status", st.Status)
			} else {
				m.logger.Warn("health status changed", "status", st.Status, "error", st.Error)
			}
			last = st.Status
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
