package service

import (
	"context"
	"sync"
	"time"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

type memoryStore struct {
	mu     sync.Mutex
	saved  domain.CollectedSet
	loadFn func(ctx context.Context) (domain.CollectedSet, error)
	saveFn func(ctx context.Context, set domain.CollectedSet) error
	saves  int
	loads  int
}

func (m *memoryStore) Load(ctx context.Context) (domain.CollectedSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	if m.saved == nil {
		return domain.NewCollectedSet(), nil
	}
	return m.saved.Clone(), nil
}

func (m *memoryStore) Save(ctx context.Context, set domain.CollectedSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveFn != nil {
		if err := m.saveFn(ctx, set); err != nil {
			return err
		}
	}
	m.saved = set.Clone()
	return nil
}

type presenterCall struct {
	method string
	area   string
	index  int
	image  string
	flag   bool
}

type mockPresenter struct {
	calls       []presenterCall
	camera      bool
	currentArea string
}

func (m *mockPresenter) SetCurrentArea(_ context.Context, area string) {
	m.currentArea = area
	m.calls = append(m.calls, presenterCall{method: "SetCurrentArea", area: area})
}

func (m *mockPresenter) SetCameraAvailable(_ context.Context, available bool) {
	m.camera = available
}

func (m *mockPresenter) Vibrate(_ context.Context) {
	m.calls = append(m.calls, presenterCall{method: "Vibrate"})
}

func (m *mockPresenter) Discovered(_ context.Context, poi *domain.POI, image string) {
	m.calls = append(m.calls, presenterCall{method: "Discovered", area: poi.AreaName, index: poi.StickerIndex, image: image, flag: poi.IsSticker()})
}

func (m *mockPresenter) discoveries() []presenterCall {
	var out []presenterCall
	for _, c := range m.calls {
		if c.method == "Discovered" {
			out = append(out, c)
		}
	}
	return out
}

type notifierCall struct {
	method   string
	msg      string
	image    string
	duration time.Duration
}

type mockNotifier struct {
	calls []notifierCall
}

func (m *mockNotifier) Show(_ context.Context, msg, image string, d time.Duration) {
	m.calls = append(m.calls, notifierCall{method: "Show", msg: msg, image: image, duration: d})
}

func (m *mockNotifier) ScheduleHide(_ context.Context, d time.Duration) {
	m.calls = append(m.calls, notifierCall{method: "ScheduleHide", duration: d})
}

func (m *mockNotifier) count(method string) int {
	n := 0
	for _, c := range m.calls {
		if c.method == method {
			n++
		}
	}
	return n
}

type countingCollector struct {
	inner *CollectionService
	calls int
}

func (c *countingCollector) Register(ctx context.Context, area string, index int) (bool, error) {
	c.calls++
	return c.inner.Register(ctx, area, index)
}
