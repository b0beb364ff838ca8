package usecase

import (
	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/infrastructure/metrics"
)

// instruments wraps the sync metrics for one entity kind. All methods are
// no-ops when metrics collection is disabled.
type instruments struct {
	kind    string
	metrics *metrics.Metrics
}

func (i instruments) replay(outcome string) {
	if i.metrics != nil {
		i.metrics.ReplayAttempts.WithLabelValues(i.kind, outcome).Inc()
	}
}

func (i instruments) pending(n int) {
	if i.metrics != nil {
		i.metrics.PendingBackups.WithLabelValues(i.kind).Set(float64(n))
	}
}

func (i instruments) fallback() {
	if i.metrics != nil {
		i.metrics.FallbackReads.WithLabelValues(i.kind).Inc()
	}
}

func (i instruments) queued(action domain.BackupAction) {
	if i.metrics != nil {
		i.metrics.OfflineQueued.WithLabelValues(i.kind, string(action)).Inc()
	}
}
