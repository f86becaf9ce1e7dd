package director

import (
	"sort"
	"sync"
	"time"
)

type callSample struct {
	at time.Time
	ms int64
	ok bool
}

// StatsSnapshot is a point-in-time aggregate of director call latencies and
// outcomes within the rolling window.
type StatsSnapshot struct {
	Count    int     `json:"count"`
	Failures int     `json:"failures"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

// CallStats tracks recent director calls. Samples older than the window are
// discarded on both record and snapshot.
type CallStats struct {
	mu      sync.Mutex
	samples []callSample
	window  time.Duration
}

func NewCallStats(window time.Duration) *CallStats {
	if window <= 0 {
		window = time.Hour
	}
	return &CallStats{
		samples: make([]callSample, 0, 256),
		window:  window,
	}
}

// Record stores one call's latency and whether the model answered usably.
func (s *CallStats) Record(durationMs int64, ok bool) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict(now)
	s.samples = append(s.samples, callSample{at: now, ms: durationMs, ok: ok})
}

func (s *CallStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	latencies := make([]int64, len(s.samples))
	var sum int64
	failures := 0
	for i, sm := range s.samples {
		latencies[i] = sm.ms
		sum += sm.ms
		if !sm.ok {
			failures++
		}
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	return StatsSnapshot{
		Count:    len(latencies),
		Failures: failures,
		MinMs:    latencies[0],
		MaxMs:    latencies[len(latencies)-1],
		AvgMs:    float64(sum) / float64(len(latencies)),
		P50Ms:    percentile(latencies, 50),
		P95Ms:    percentile(latencies, 95),
		P99Ms:    percentile(latencies, 99),
	}
}

// evict drops samples that fell out of the window. Caller holds the lock.
func (s *CallStats) evict(now time.Time) {
	cutoff := now.Add(-s.window)
	kept := s.samples[:0]
	for _, sm := range s.samples {
		if sm.at.Before(cutoff) {
			continue
		}
		kept = append(kept, sm)
	}
	s.samples = kept
}

// percentile linearly interpolates between neighboring ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}
	rank := (float64(len(sorted)-1) * pct) / 100.0
	lo := int(rank)
	hi := lo + 1
	if hi >= len(sorted) {
		return float64(sorted[lo])
	}
	frac := rank - float64(lo)
	return float64(sorted[lo]) + (float64(sorted[hi])-float64(sorted[lo]))*frac
}
