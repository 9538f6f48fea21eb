// Package observability collects process self-stats for the debug inspector.
package observability

import (
	"os"
	"runtime"
	"sync/atomic"

	"github.com/shirou/gopsutil/process"
)

// SelfMonitor reads RSS, CPU and OS status of the current process, combined
// with Go runtime memory stats and the request counters the server feeds it.
type SelfMonitor struct {
	proc *process.Process

	messagesStored uint64
	requestsServed uint64
}

func NewSelfMonitor() (*SelfMonitor, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &SelfMonitor{proc: p}, nil
}

func (m *SelfMonitor) IncrMessagesStored() {
	atomic.AddUint64(&m.messagesStored, 1)
}

func (m *SelfMonitor) IncrRequestsServed() {
	atomic.AddUint64(&m.requestsServed, 1)
}

// Stats builds the snapshot map consumed by the inspect page. Collection
// failures degrade to partial output instead of erroring the page.
func (m *SelfMonitor) Stats() map[string]any {
	stats := map[string]any{
		"pid":             os.Getpid(),
		"goroutines":      runtime.NumGoroutine(),
		"messages_stored": atomic.LoadUint64(&m.messagesStored),
		"requests_served": atomic.LoadUint64(&m.requestsServed),
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	stats["alloc_mb"] = mem.Alloc / 1024 / 1024
	stats["num_gc"] = mem.NumGC

	if info, err := m.proc.MemoryInfo(); err == nil {
		stats["rss_mb"] = info.RSS / 1024 / 1024
	}
	if cpu, err := m.proc.CPUPercent(); err == nil {
		stats["cpu_percent"] = cpu
	}
	if status, err := m.proc.Status(); err == nil {
		stats["status"] = status
	}
	return stats
}
