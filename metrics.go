package main

import (
	"sync"
	"time"
)

type metricsCollector struct {
	mu             sync.Mutex
	interval       time.Duration
	samples        int
	rejects        int
	lastReportTime time.Time
}

func newMetricsCollector(interval time.Duration) *metricsCollector {
	return &metricsCollector{
		interval:       interval,
		lastReportTime: time.Now(),
	}
}

func (m *metricsCollector) RecordSamples(count int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.samples += count
	m.emitIfNeeded()
	m.mu.Unlock()
}

func (m *metricsCollector) RecordReject() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.rejects++
	m.emitIfNeeded()
	m.mu.Unlock()
}

func (m *metricsCollector) emitIfNeeded() {
	now := time.Now()
	if now.Sub(m.lastReportTime) < m.interval {
		return
	}
	duration := now.Sub(m.lastReportTime).Seconds()
	throughput := float64(m.samples)
	if duration > 0 {
		throughput = throughput / duration
	}
	GetLogger().Infof("Replay throughput %.0f samples/s, rejected records %d", throughput, m.rejects)
	m.samples = 0
	m.rejects = 0
	m.lastReportTime = now
}

var metrics = newMetricsCollector(5 * time.Second)
