package service

import (
	"sync"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

// PositionFeed holds the latest provider status and fix. Producers write
// from their own goroutines; the engine reads once per tick.
type PositionFeed struct {
	mu     sync.RWMutex
	status domain.ProviderStatus
	latest domain.Position
	have   bool
}

func NewPositionFeed() *PositionFeed {
	return &PositionFeed{status: domain.ProviderStopped}
}

func (f *PositionFeed) SetStatus(status domain.ProviderStatus) {
	f.mu.Lock()
	f.status = status
	f.mu.Unlock()
}

func (f *PositionFeed) Status() domain.ProviderStatus {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.status
}

// Update stores pos unless it is older than the current fix.
func (f *PositionFeed) Update(pos domain.Position) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.have && pos.Timestamp.Before(f.latest.Timestamp) {
		return false
	}
	f.latest = pos
	f.have = true
	return true
}

func (f *PositionFeed) Latest() (domain.Position, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.latest, f.have
}
