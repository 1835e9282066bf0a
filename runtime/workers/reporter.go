package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"chat-relay/contract"

	"github.com/shirou/gopsutil/process"
)

// ReporterWorker periodically logs a health line: live sessions plus the
// process CPU and memory footprint. Purely ambient; nothing reads it back.
type ReporterWorker struct {
	log      *slog.Logger
	registry contract.IRegistry
	interval time.Duration
}

func NewReporterWorker(log *slog.Logger, registry contract.IRegistry, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, registry: registry, interval: interval}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.report(proc)
		}
	}
}

func (w *ReporterWorker) report(proc *process.Process) {
	attrs := []any{"sessions", w.registry.Size()}
	if cpu, err := proc.CPUPercent(); err == nil {
		attrs = append(attrs, "cpu_percent", cpu)
	}
	if mem, err := proc.MemoryInfo(); err == nil {
		attrs = append(attrs, "rss_mb", mem.RSS/1024/1024)
	}
	w.log.Info("Relay status", attrs...)
}
