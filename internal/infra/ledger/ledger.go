// Package ledger tracks per-tool view and download counters in a
// client-local collection behind the storage port.
package ledger

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"toolhub/internal/domain"
	"toolhub/internal/infra/storage"
)

// Ledger is a best-effort analytics counter. Mutations are
// whole-collection read-modify-writes; near-simultaneous calls can drop
// an increment, which is acceptable here and nowhere else.
type Ledger struct {
	logger  *zap.Logger
	port    storage.Port
	metrics domain.Metrics
	now     func() time.Time
}

func New(port storage.Port, logger *zap.Logger, metrics domain.Metrics) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = domain.NopMetrics()
	}
	return &Ledger{
		logger:  logger.Named("ledger"),
		port:    port,
		metrics: metrics,
		now:     time.Now,
	}
}

// RecordView increments the view counter and refreshes lastUsed.
func (l *Ledger) RecordView(toolID string) error {
	l.metrics.ObserveUsageEvent("view")
	return l.mutate(toolID, func(stat *domain.UsageStat) {
		stat.Views++
		stat.LastUsed = l.now().UTC()
	})
}

// RecordDownload increments the download counter only.
func (l *Ledger) RecordDownload(toolID string) error {
	l.metrics.ObserveUsageEvent("download")
	return l.mutate(toolID, func(stat *domain.UsageStat) {
		stat.Downloads++
	})
}

// GetAll returns every stat entry, dangling ones included.
func (l *Ledger) GetAll() []domain.UsageStat {
	return l.load()
}

// GetByTool returns the entry for one tool.
func (l *Ledger) GetByTool(toolID string) (domain.UsageStat, bool) {
	for _, stat := range l.load() {
		if stat.ToolID == toolID {
			return stat, true
		}
	}
	return domain.UsageStat{}, false
}

func (l *Ledger) mutate(toolID string, apply func(*domain.UsageStat)) error {
	stats := l.load()
	found := false
	for i := range stats {
		if stats[i].ToolID == toolID {
			apply(&stats[i])
			found = true
			break
		}
	}
	if !found {
		stat := domain.UsageStat{ToolID: toolID, LastUsed: l.now().UTC()}
		apply(&stat)
		stats = append(stats, stat)
	}
	return l.write(stats)
}

func (l *Ledger) load() []domain.UsageStat {
	blob, err := l.port.Read(domain.ToolStatsKey)
	if err != nil {
		l.logger.Warn("tool stats read failed", zap.Error(err))
		return []domain.UsageStat{}
	}
	if len(blob) == 0 {
		return []domain.UsageStat{}
	}
	var stats []domain.UsageStat
	if err := json.Unmarshal(blob, &stats); err != nil {
		l.logger.Warn("tool stats collection corrupt, starting empty", zap.Error(err))
		return []domain.UsageStat{}
	}
	return stats
}

func (l *Ledger) write(stats []domain.UsageStat) error {
	blob, err := json.Marshal(stats)
	if err != nil {
		return domain.E(domain.CodeInternal, "ledger.write", "", err)
	}
	if err := l.port.Write(domain.ToolStatsKey, blob); err != nil {
		return domain.E(domain.CodeInternal, "ledger.write", "", err)
	}
	return nil
}
