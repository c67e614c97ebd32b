package upstream

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pontualapp/pontual/utils"
)

// Monitor periodically probes the backend health endpoint and keeps an
// online/offline flag for the rest of the application.
type Monitor struct {
	api      CheckAPI
	interval time.Duration
	online   atomic.Bool
}

// NewMonitor creates a connectivity monitor. It starts optimistic: the flag
// reports online until the first probe says otherwise.
func NewMonitor(api CheckAPI, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	m := &Monitor{api: api, interval: interval}
	m.online.Store(true)
	return m
}

// Start probes immediately and then on every tick until ctx is canceled.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		m.probe(ctx)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.probe(ctx)
			}
		}
	}()
}

// Online reports the result of the latest probe.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// ForceCheck runs a probe right now and returns the fresh result.
func (m *Monitor) ForceCheck(ctx context.Context) bool {
	m.probe(ctx)
	return m.Online()
}

func (m *Monitor) probe(ctx context.Context) {
	resp := m.api.HealthCheck(ctx)
	online := resp.Status != "offline"
	if online != m.online.Swap(online) && utils.Sugar != nil {
		utils.Sugar.Infof("upstream connectivity changed: online=%v", online)
	}
}
