package observability

import (
	"chat-relay/domain"
	"sync"
	"sync/atomic"
	"time"
)

// RelayStats is the latest snapshot served by the health endpoint.
type RelayStats struct {
	Connections  int                 `json:"connections"`
	Dispatched   uint64              `json:"dispatched"`
	Rejected     uint64              `json:"rejected"`
	AuditDropped uint64              `json:"audit_dropped"`
	Restarts     int64               `json:"worker_restarts"`
	PID          int32               `json:"pid"`
	State        domain.ProcessState `json:"state"`
	CPUPercent   float64             `json:"cpu_percent"`
	RSSBytes     uint64              `json:"rss_bytes"`
	AllocMemMb   uint64              `json:"alloc_mem_mb"`
	NumGC        uint32              `json:"num_gc"`
	Goroutines   int                 `json:"goroutines"`
	SampledAt    time.Time           `json:"sampled_at"`
}

// MonitoringManager holds the relay counters and the last process sample.
type MonitoringManager struct {
	mu          sync.RWMutex
	latestStats RelayStats

	dispatched atomic.Uint64
	rejected   atomic.Uint64
}

func NewMonitoringManager() *MonitoringManager {
	return &MonitoringManager{}
}

func (mm *MonitoringManager) IncrDispatched() { mm.dispatched.Add(1) }

func (mm *MonitoringManager) IncrRejected() { mm.rejected.Add(1) }

// Update stores a new sample, the counters are filled in here.
func (mm *MonitoringManager) Update(stats RelayStats) {
	stats.Dispatched = mm.dispatched.Load()
	stats.Rejected = mm.rejected.Load()
	mm.mu.Lock()
	mm.latestStats = stats
	mm.mu.Unlock()
}

func (mm *MonitoringManager) GetLatest() RelayStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	stats := mm.latestStats
	stats.Dispatched = mm.dispatched.Load()
	stats.Rejected = mm.rejected.Load()
	return stats
}
