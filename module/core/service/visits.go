package service

import (
	"context"
	"sync"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

type currentAreaSource interface {
	CurrentArea() string
}

type visitPresenter interface {
	VisitConfirmed(ctx context.Context, area string)
}

// VisitService counts areas the user explicitly confirmed during this
// session. Nothing here is persisted.
type VisitService struct {
	total     int
	source    currentAreaSource
	presenter visitPresenter

	mu      sync.RWMutex
	visited []string
}

func NewVisitService(total int, source currentAreaSource, presenter visitPresenter) *VisitService {
	return &VisitService{total: total, source: source, presenter: presenter}
}

// ConfirmVisit records the current area. It returns false when the area was
// already confirmed.
func (s *VisitService) ConfirmVisit(ctx context.Context) (string, bool, error) {
	area := s.source.CurrentArea()
	if area == "" {
		return "", false, domain.ErrNoCurrentArea
	}

	s.mu.Lock()
	for _, v := range s.visited {
		if v == area {
			s.mu.Unlock()
			return area, false, nil
		}
	}
	if len(s.visited) >= s.total {
		s.mu.Unlock()
		return area, false, domain.ErrVisitLimitReached
	}
	s.visited = append(s.visited, area)
	s.mu.Unlock()

	s.presenter.VisitConfirmed(ctx, area)
	return area, true, nil
}

func (s *VisitService) Visited() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.visited))
	copy(out, s.visited)
	return out
}

func (s *VisitService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.visited)
}

func (s *VisitService) Total() int {
	return s.total
}

func (s *VisitService) Reset() {
	s.mu.Lock()
	s.visited = nil
	s.mu.Unlock()
}
