package service

import (
	"sync"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

type collectionReader interface {
	CollectedCount(area string, min, max int) int
	Contains(area string, index int) bool
	Indices(area string) []int
	Version() uint64
	Subscribe(fn func())
}

// ProgressService derives per-area progress from the collected set. Only
// indices in the collectible range count; always-visible stickers never do.
type ProgressService struct {
	collection collectionReader
	areas      []string
	min, max   int

	mu        sync.Mutex
	observers []func()
}

func NewProgressService(collection collectionReader, areas []string, min, max int) *ProgressService {
	p := &ProgressService{
		collection: collection,
		areas:      areas,
		min:        min,
		max:        max,
	}
	collection.Subscribe(p.changed)
	return p
}

func (p *ProgressService) CollectedCount(area string) int {
	return p.collection.CollectedCount(area, p.min, p.max)
}

// Total is the number of collectible stickers per area.
func (p *ProgressService) Total() int {
	return p.max - p.min + 1
}

func (p *ProgressService) IsCollected(area string, index int) bool {
	return p.collection.Contains(area, index)
}

// Area returns the progress row for area, or false if it is not configured.
func (p *ProgressService) Area(area string) (domain.AreaProgress, bool) {
	for _, a := range p.areas {
		if a == area {
			return p.row(area), true
		}
	}
	return domain.AreaProgress{}, false
}

// Progress returns one row per configured area, in configuration order.
func (p *ProgressService) Progress() []domain.AreaProgress {
	out := make([]domain.AreaProgress, 0, len(p.areas))
	for _, area := range p.areas {
		out = append(out, p.row(area))
	}
	return out
}

func (p *ProgressService) row(area string) domain.AreaProgress {
	indices := []int{}
	for _, idx := range p.collection.Indices(area) {
		if idx >= p.min && idx <= p.max {
			indices = append(indices, idx)
		}
	}
	return domain.AreaProgress{
		Area:      area,
		Collected: len(indices),
		Total:     p.Total(),
		Indices:   indices,
	}
}

func (p *ProgressService) Version() uint64 {
	return p.collection.Version()
}

// Subscribe registers fn to run whenever the collected set changes.
func (p *ProgressService) Subscribe(fn func()) {
	p.mu.Lock()
	p.observers = append(p.observers, fn)
	p.mu.Unlock()
}

func (p *ProgressService) changed() {
	p.mu.Lock()
	observers := make([]func(), len(p.observers))
	copy(observers, p.observers)
	p.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}
