package api

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// listRequestMetrics records per-request timings for the collection
// endpoints and emits them as one structured log line.
type listRequestMetrics struct {
	logger        *log.Logger
	route         string
	start         time.Time
	authDuration  time.Duration
	fetchDuration time.Duration
	itemsReturned int
	errorStage    string
}

func newListRequestMetrics(logger *log.Logger, route string) *listRequestMetrics {
	return &listRequestMetrics{logger: logger, route: route, start: time.Now()}
}

func (m *listRequestMetrics) ObserveAuth(duration time.Duration) {
	if duration > 0 {
		m.authDuration = duration
	}
}

func (m *listRequestMetrics) ObserveFetch(duration time.Duration) {
	if duration > 0 {
		m.fetchDuration = duration
	}
}

func (m *listRequestMetrics) SetItemsReturned(count int) {
	if count > 0 {
		m.itemsReturned = count
	}
}

func (m *listRequestMetrics) SetErrorStage(stage string) {
	if stage != "" {
		m.errorStage = stage
	}
}

func (m *listRequestMetrics) Log(status int) {
	if m == nil || m.logger == nil {
		return
	}
	fields := log.Fields{
		"route":          m.route,
		"status":         status,
		"total_ms":       durationToMillis(time.Since(m.start)),
		"items_returned": m.itemsReturned,
	}
	if m.authDuration > 0 {
		fields["auth_ms"] = durationToMillis(m.authDuration)
	}
	if m.fetchDuration > 0 {
		fields["fetch_ms"] = durationToMillis(m.fetchDuration)
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
		m.logger.WithFields(fields).Warn("list request failed")
		return
	}
	m.logger.WithFields(fields).Debug("list request served")
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
