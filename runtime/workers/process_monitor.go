package workers

import (
	"chat-relay/domain"
	"chat-relay/observability"
	"context"
	"log/slog"
	"os"
	goruntime "runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ProcessMonitorWorker samples the relay process and its live connection count.
type ProcessMonitorWorker struct {
	log         *slog.Logger
	monitoring  *observability.MonitoringManager
	connections func() int
	dropped     func() uint64
	restarts    func() int64
	interval    time.Duration
}

func NewProcessMonitorWorker(log *slog.Logger, monitoring *observability.MonitoringManager,
	connections func() int, dropped func() uint64, interval time.Duration) *ProcessMonitorWorker {
	return &ProcessMonitorWorker{
		log:         log,
		monitoring:  monitoring,
		connections: connections,
		dropped:     dropped,
		restarts:    func() int64 { return 0 },
		interval:    interval,
	}
}

// WithRestarts reports the supervisor restart count in every sample.
func (w *ProcessMonitorWorker) WithRestarts(restarts func() int64) *ProcessMonitorWorker {
	w.restarts = restarts
	return w
}

func (w *ProcessMonitorWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sample(p)
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping process monitor")
			return nil
		case <-ticker.C:
			w.sample(p)
		}
	}
}

func (w *ProcessMonitorWorker) sample(p *process.Process) {
	var mem goruntime.MemStats
	goruntime.ReadMemStats(&mem)
	stats := observability.RelayStats{
		Connections:  w.connections(),
		AuditDropped: w.dropped(),
		Restarts:     w.restarts(),
		PID:          p.Pid,
		State:        domain.ProcessUnknown,
		AllocMemMb:   mem.Alloc / 1024 / 1024,
		NumGC:        mem.NumGC,
		Goroutines:   goruntime.NumGoroutine(),
		SampledAt:    time.Now().UTC(),
	}
	if info, err := p.MemoryInfo(); err != nil {
		w.log.Debug("Error while finding process memory", "error", err)
	} else {
		stats.RSSBytes = info.RSS
	}
	if cpu, err := p.CPUPercent(); err != nil {
		w.log.Debug("Error while finding process cpu usage", "error", err)
	} else {
		stats.CPUPercent = cpu
	}
	if status, err := p.Status(); err != nil {
		w.log.Debug("Error while finding process status", "error", err)
	} else {
		stats.State = domain.ParseProcessState(status)
	}
	w.monitoring.Update(stats)
	w.log.Debug("Relay sample", "connections", stats.Connections, "rss", stats.RSSBytes,
		"cpu", stats.CPUPercent, "goroutines", stats.Goroutines)
}
