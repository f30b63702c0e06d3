package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nandanugg/stickerwalk/module/core/domain"
)

type mockProvider struct {
	statuses []domain.ProviderStatus
	calls    int
	pos      domain.Position
	have     bool
}

func (m *mockProvider) Status() domain.ProviderStatus {
	i := m.calls
	if i >= len(m.statuses) {
		i = len(m.statuses) - 1
	}
	m.calls++
	return m.statuses[i]
}

func (m *mockProvider) Latest() (domain.Position, bool) {
	return m.pos, m.have
}

type mockEvaluator struct {
	samples []domain.Position
}

func (m *mockEvaluator) Evaluate(_ context.Context, pos domain.Position) Result {
	m.samples = append(m.samples, pos)
	return Result{}
}

type mockLifecycle struct {
	loadFn  func(ctx context.Context) error
	order   []string
	flushes int
}

func (m *mockLifecycle) Load(ctx context.Context) error {
	m.order = append(m.order, "load")
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return nil
}

func (m *mockLifecycle) Flush(_ context.Context) error {
	m.flushes++
	return nil
}

type mockStatus struct {
	statuses []string
	camera   bool
}

func (m *mockStatus) SetStatus(_ context.Context, msg string) {
	m.statuses = append(m.statuses, msg)
}

func (m *mockStatus) SetCameraAvailable(_ context.Context, available bool) {
	m.camera = available
}

func (m *mockStatus) last() string {
	if len(m.statuses) == 0 {
		return ""
	}
	return m.statuses[len(m.statuses)-1]
}

func newTestEngine(cfg EngineConfig, statuses ...domain.ProviderStatus) (*Engine, *mockProvider, *mockEvaluator, *mockLifecycle, *mockStatus) {
	p := &mockProvider{statuses: statuses, have: true}
	ev := &mockEvaluator{}
	lc := &mockLifecycle{}
	st := &mockStatus{}
	e := NewEngine(cfg, p, ev, lc, st)
	e.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return e, p, ev, lc, st
}

var testEngineConfig = EngineConfig{
	SampleInterval:       10 * time.Millisecond,
	ProviderInitTimeout:  3 * time.Second,
	ProviderPollInterval: time.Second,
}

func TestStart_WaitsForProvider(t *testing.T) {
	e, p, _, lc, st := newTestEngine(testEngineConfig,
		domain.ProviderInitializing, domain.ProviderInitializing, domain.ProviderRunning)

	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.State() != EngineRunning {
		t.Errorf("expected running, got %s", e.State())
	}
	if p.calls != 3 {
		t.Errorf("expected 3 status polls, got %d", p.calls)
	}
	if len(lc.order) != 1 {
		t.Error("expected collection loaded on start")
	}
	if st.last() != StatusTracking {
		t.Errorf("expected tracking status, got %q", st.last())
	}
}

func TestStart_Disabled(t *testing.T) {
	e, _, _, _, st := newTestEngine(testEngineConfig, domain.ProviderDisabled)

	err := e.Start(context.Background())
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if st.last() != StatusLocationDisabled {
		t.Errorf("unexpected status %q", st.last())
	}
	if e.State() != EngineIdle {
		t.Errorf("expected idle, got %s", e.State())
	}
}

func TestStart_Timeout(t *testing.T) {
	e, p, _, _, st := newTestEngine(testEngineConfig, domain.ProviderInitializing)

	err := e.Start(context.Background())
	if !errors.Is(err, domain.ErrProviderTimeout) {
		t.Fatalf("expected ErrProviderTimeout, got %v", err)
	}
	if st.last() != StatusStartTimeout {
		t.Errorf("unexpected status %q", st.last())
	}
	// initial poll plus one per second of the 3s budget
	if p.calls != 4 {
		t.Errorf("expected 4 polls, got %d", p.calls)
	}
}

func TestStart_Failed(t *testing.T) {
	e, _, _, _, st := newTestEngine(testEngineConfig, domain.ProviderInitializing, domain.ProviderFailed)

	if err := e.Start(context.Background()); !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if st.last() != StatusLocationFailed {
		t.Errorf("unexpected status %q", st.last())
	}
}

func TestStart_LoadFailureKeepsPersistedRecord(t *testing.T) {
	persisted := domain.NewCollectedSet()
	persisted.Add("Area1", 3)
	persisted.Add("Area1", 4)
	persisted.Add("Area2", 5)
	store := &memoryStore{
		saved: persisted,
		loadFn: func(_ context.Context) (domain.CollectedSet, error) {
			return nil, errors.New("connection refused")
		},
	}
	coll := NewCollectionService(store)
	e := NewEngine(testEngineConfig, &mockProvider{statuses: []domain.ProviderStatus{domain.ProviderRunning}}, &mockEvaluator{}, coll, &mockStatus{})
	ctx := context.Background()

	if err := e.Start(ctx); err != nil {
		t.Fatalf("a failed load must not stop the engine: %v", err)
	}
	if err := e.OnTerminate(ctx); !errors.Is(err, domain.ErrPersistence) {
		t.Errorf("expected ErrPersistence from the held flush, got %v", err)
	}
	if store.saves != 0 {
		t.Errorf("expected no save before a successful load, got %d", store.saves)
	}
	if !store.saved.Equal(persisted) {
		t.Errorf("persisted record changed: %v", store.saved.Record())
	}
}

func TestStart_TerminatedWhileWaiting(t *testing.T) {
	e, _, _, _, _ := newTestEngine(testEngineConfig, domain.ProviderInitializing)
	e.sleep = func(ctx context.Context, _ time.Duration) error {
		_ = e.OnTerminate(ctx)
		return context.Canceled
	}

	if err := e.Start(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if e.State() != EngineTerminated {
		t.Errorf("expected terminated, got %s", e.State())
	}
}

func TestStart_Twice(t *testing.T) {
	e, _, _, _, _ := newTestEngine(testEngineConfig, domain.ProviderRunning)
	_ = e.Start(context.Background())

	if err := e.Start(context.Background()); !errors.Is(err, ErrEngineState) {
		t.Errorf("expected ErrEngineState, got %v", err)
	}
}

func TestOnTick_SkipsUntilStarted(t *testing.T) {
	e, _, ev, _, _ := newTestEngine(testEngineConfig, domain.ProviderRunning)

	if _, ok := e.OnTick(context.Background(), pos(0, 0)); ok {
		t.Error("expected tick skipped before start")
	}
	if len(ev.samples) != 0 {
		t.Error("evaluator must not run before start")
	}
}

func TestOnTick_ProviderStopped(t *testing.T) {
	e, p, ev, _, st := newTestEngine(testEngineConfig, domain.ProviderRunning)
	_ = e.Start(context.Background())

	p.statuses = []domain.ProviderStatus{domain.ProviderStopped}
	p.calls = 0
	if _, ok := e.OnTick(context.Background(), pos(0, 0)); ok {
		t.Error("expected tick skipped")
	}
	if len(ev.samples) != 0 {
		t.Error("evaluator must not run while the provider is stopped")
	}
	if st.last() != StatusServiceStopped {
		t.Errorf("unexpected status %q", st.last())
	}
}

func TestOnTick_TestAreaMode(t *testing.T) {
	cfg := testEngineConfig
	cfg.TestAreaMode = true
	e, _, ev, _, st := newTestEngine(cfg, domain.ProviderRunning)
	_ = e.Start(context.Background())

	res, ok := e.OnTick(context.Background(), pos(0, 0))
	if ok || !res.CameraAvailable {
		t.Errorf("expected camera without evaluation, got %+v %v", res, ok)
	}
	if len(ev.samples) != 0 || !st.camera || st.last() != StatusTestMode {
		t.Error("unexpected test mode behavior")
	}
}

func TestPauseResumeTerminate(t *testing.T) {
	e, _, ev, lc, _ := newTestEngine(testEngineConfig, domain.ProviderRunning)
	ctx := context.Background()
	_ = e.Start(ctx)

	if _, ok := e.OnTick(ctx, pos(0, 0)); !ok {
		t.Fatal("expected evaluation while running")
	}

	if err := e.OnPause(ctx); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if lc.flushes != 1 {
		t.Errorf("expected flush on pause, got %d", lc.flushes)
	}
	if _, ok := e.OnTick(ctx, pos(0, 0)); ok {
		t.Error("expected ticks ignored while paused")
	}
	if err := e.OnPause(ctx); !errors.Is(err, ErrEngineState) {
		t.Errorf("expected ErrEngineState on double pause, got %v", err)
	}

	if err := e.OnResume(ctx); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if _, ok := e.OnTick(ctx, pos(0, 0)); !ok {
		t.Error("expected evaluation after resume")
	}

	if err := e.OnTerminate(ctx); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	_ = e.OnTerminate(ctx)
	if lc.flushes != 2 {
		t.Errorf("expected one flush per terminate, got %d", lc.flushes)
	}
	if len(ev.samples) != 2 {
		t.Errorf("expected 2 evaluated samples, got %d", len(ev.samples))
	}
}

func TestRun_FlushesOnCancel(t *testing.T) {
	e, _, ev, lc, _ := newTestEngine(testEngineConfig, domain.ProviderRunning)
	_ = e.Start(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if e.State() != EngineTerminated {
		t.Errorf("expected terminated, got %s", e.State())
	}
	if lc.flushes != 1 {
		t.Errorf("expected flush on cancel, got %d", lc.flushes)
	}
	if len(ev.samples) == 0 {
		t.Error("expected at least one sample evaluated")
	}
}
