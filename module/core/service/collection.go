package service

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/nandanugg/stickerwalk/module/core/domain"
	"github.com/nandanugg/stickerwalk/module/core/internal/metrics"
	"github.com/nandanugg/stickerwalk/module/core/internal/repository/kv"
)

// CollectionService is the in-memory, authoritative collected set. Every
// genuine insertion is written through to the store before observers run.
type CollectionService struct {
	store kv.CollectionStore

	mu        sync.RWMutex
	set       domain.CollectedSet
	loaded    bool
	dirty     bool
	version   uint64
	observers []func()
}

func NewCollectionService(store kv.CollectionStore) *CollectionService {
	return &CollectionService{
		store: store,
		set:   domain.NewCollectedSet(),
	}
}

// Load merges the persisted set into memory. It must run before the first
// sample is evaluated. Until a load succeeds nothing is written back, so a
// failed load never overwrites the stored record.
func (s *CollectionService) Load(ctx context.Context) error {
	s.mu.Lock()
	err := s.loadLocked(ctx)
	n := s.set.Len()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	log.WithField("collected", n).Info("collected stickers loaded")
	s.notify()
	return nil
}

func (s *CollectionService) loadLocked(ctx context.Context) error {
	persisted, err := s.store.Load(ctx)
	if err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("load").Inc()
		return fmt.Errorf("%w: load: %w", domain.ErrPersistence, err)
	}
	for area, indices := range persisted {
		for index := range indices {
			s.set.Add(area, index)
		}
	}
	s.loaded = true
	s.version++
	return nil
}

// Register adds (area, index) to the collected set. It is safe to call on
// every sample; only a genuine insertion persists and notifies observers.
func (s *CollectionService) Register(ctx context.Context, area string, index int) (bool, error) {
	s.mu.Lock()
	if !s.set.Add(area, index) {
		s.mu.Unlock()
		return false, nil
	}
	s.version++
	err := s.saveLocked(ctx)
	s.mu.Unlock()

	metrics.CollectionsTotal.Inc()
	log.WithFields(log.Fields{"area": area, "index": index}).Info("sticker collected")
	s.notify()
	return true, err
}

// Flush writes the current set regardless of whether it changed.
func (s *CollectionService) Flush(ctx context.Context) error {
	s.mu.Lock()
	wasLoaded := s.loaded
	err := s.saveLocked(ctx)
	merged := !wasLoaded && s.loaded
	s.mu.Unlock()

	if merged {
		s.notify()
	}
	return err
}

// saveLocked writes the set, first retrying a missing load so the stored
// record is only ever replaced by a superset of itself.
func (s *CollectionService) saveLocked(ctx context.Context) error {
	if !s.loaded {
		if err := s.loadLocked(ctx); err != nil {
			s.dirty = true
			log.WithError(err).Warn("collected set not loaded yet, holding writes")
			return err
		}
	}
	if err := s.store.Save(ctx, s.set); err != nil {
		s.dirty = true
		metrics.PersistenceFailuresTotal.WithLabelValues("save").Inc()
		log.WithError(err).Warn("collected stickers not persisted, will retry on next change")
		return fmt.Errorf("%w: save: %w", domain.ErrPersistence, err)
	}
	s.dirty = false
	return nil
}

func (s *CollectionService) Contains(area string, index int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.Contains(area, index)
}

// CollectedCount counts collected indices of area within [min, max].
func (s *CollectionService) CollectedCount(area string, min, max int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.CountInRange(area, min, max)
}

func (s *CollectionService) Indices(area string) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.Indices(area)
}

func (s *CollectionService) Snapshot() domain.CollectedSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.Clone()
}

// Dirty reports whether the last write failed or was held back and has not
// been retried yet.
func (s *CollectionService) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Version increases on every change of the in-memory set.
func (s *CollectionService) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registers fn to run after every change.
func (s *CollectionService) Subscribe(fn func()) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

func (s *CollectionService) notify() {
	s.mu.RLock()
	observers := make([]func(), len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, fn := range observers {
		fn()
	}
}
