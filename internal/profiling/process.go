package profiling

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats is a sample of this process's resource use.
type ProcessStats struct {
	CPUPercent float64
	RSSBytes   uint64
	HeapBytes  uint64
	Goroutines int
}

// ProcessSampler reads process statistics at most once per interval and
// serves the cached sample in between, so it can be called every frame.
type ProcessSampler struct {
	mu       sync.Mutex
	interval time.Duration
	proc     *process.Process
	last     time.Time
	stats    ProcessStats
}

// NewProcessSampler creates a sampler for the current process. If the
// platform does not expose process statistics, only the Go runtime fields
// are filled.
func NewProcessSampler(interval time.Duration) *ProcessSampler {
	s := &ProcessSampler{interval: interval}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		s.proc = p
	}
	return s
}

// Sample returns the latest statistics, refreshing them if the interval
// has passed.
func (s *ProcessSampler) Sample() ProcessStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if !s.last.IsZero() && now.Sub(s.last) < s.interval {
		return s.stats
	}
	s.last = now

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.stats.HeapBytes = m.HeapAlloc
	s.stats.Goroutines = runtime.NumGoroutine()

	if s.proc != nil {
		if pct, err := s.proc.Percent(0); err == nil {
			s.stats.CPUPercent = pct
		}
		if mem, err := s.proc.MemoryInfo(); err == nil {
			s.stats.RSSBytes = mem.RSS
		}
	}
	return s.stats
}

// CPUModel returns the model name of the first CPU, or "" if unknown.
func CPUModel() string {
	infos, err := cpu.Info()
	if err != nil || len(infos) == 0 {
		return ""
	}
	return infos[0].ModelName
}
