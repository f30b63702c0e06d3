package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nandanugg/stickerwalk/module/core/domain"
	"github.com/nandanugg/stickerwalk/module/core/internal/metrics"
)

type EngineState string

const (
	EngineIdle       EngineState = "idle"
	EngineStarting   EngineState = "starting"
	EngineRunning    EngineState = "running"
	EnginePaused     EngineState = "paused"
	EngineTerminated EngineState = "terminated"
)

// Status messages shown to the user.
const (
	StatusLocationDisabled = "location disabled"
	StatusStartTimeout     = "timed out starting location service"
	StatusLocationFailed   = "failed to obtain location"
	StatusServiceStopped   = "location service stopped"
	StatusTestMode         = "test mode enabled"
	StatusTracking         = "tracking"
)

var ErrEngineState = errors.New("invalid engine state")

type EngineConfig struct {
	SampleInterval       time.Duration
	ProviderInitTimeout  time.Duration
	ProviderPollInterval time.Duration
	TestAreaMode         bool
}

type provider interface {
	Status() domain.ProviderStatus
	Latest() (domain.Position, bool)
}

type evaluator interface {
	Evaluate(ctx context.Context, pos domain.Position) Result
}

type collectionLifecycle interface {
	Load(ctx context.Context) error
	Flush(ctx context.Context) error
}

type statusPresenter interface {
	SetStatus(ctx context.Context, msg string)
	SetCameraAvailable(ctx context.Context, available bool)
}

// Engine drives the geofence evaluator through an explicit lifecycle:
// Start, OnTick, OnPause, OnResume, OnTerminate. Ticks never overlap.
type Engine struct {
	cfg        EngineConfig
	provider   provider
	evaluator  evaluator
	collection collectionLifecycle
	display    statusPresenter
	sleep      func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	state EngineState
}

func NewEngine(cfg EngineConfig, p provider, ev evaluator, c collectionLifecycle, d statusPresenter) *Engine {
	if cfg.ProviderPollInterval <= 0 {
		cfg.ProviderPollInterval = time.Second
	}
	return &Engine{
		cfg:        cfg,
		provider:   p,
		evaluator:  ev,
		collection: c,
		display:    d,
		sleep:      sleepContext,
		state:      EngineIdle,
	}
}

func (e *Engine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s EngineState) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Start loads the collected set and waits for the provider to run. The
// collected set is loaded before any sample can be evaluated.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.state != EngineIdle {
		e.mu.Unlock()
		return fmt.Errorf("%w: start from %s", ErrEngineState, e.state)
	}
	e.state = EngineStarting
	e.mu.Unlock()

	if err := e.collection.Load(ctx); err != nil {
		log.WithError(err).Error("collected set not loaded, writes held until a load succeeds")
	}

	if err := e.waitForProvider(ctx); err != nil {
		e.mu.Lock()
		if e.state == EngineStarting {
			e.state = EngineIdle
		}
		e.mu.Unlock()
		return err
	}

	e.setState(EngineRunning)
	e.display.SetStatus(ctx, StatusTracking)
	log.Info("engine started")
	return nil
}

func (e *Engine) waitForProvider(ctx context.Context) error {
	status := e.provider.Status()
	if status == domain.ProviderDisabled {
		e.display.SetStatus(ctx, StatusLocationDisabled)
		return domain.ErrProviderUnavailable
	}

	var waited time.Duration
	for status != domain.ProviderRunning && status != domain.ProviderFailed {
		if waited >= e.cfg.ProviderInitTimeout {
			e.display.SetStatus(ctx, StatusStartTimeout)
			return domain.ErrProviderTimeout
		}
		if err := e.sleep(ctx, e.cfg.ProviderPollInterval); err != nil {
			return err
		}
		waited += e.cfg.ProviderPollInterval
		status = e.provider.Status()
	}

	if status == domain.ProviderFailed {
		e.display.SetStatus(ctx, StatusLocationFailed)
		return fmt.Errorf("%w: provider reported failure", domain.ErrProviderUnavailable)
	}
	return nil
}

// OnTick evaluates one sample. It reports false when the sample was skipped.
func (e *Engine) OnTick(ctx context.Context, pos domain.Position) (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != EngineRunning {
		metrics.SamplesSkippedTotal.WithLabelValues(string(e.state)).Inc()
		return Result{}, false
	}
	if e.provider.Status() != domain.ProviderRunning {
		metrics.SamplesSkippedTotal.WithLabelValues("provider").Inc()
		e.display.SetStatus(ctx, StatusServiceStopped)
		return Result{}, false
	}
	if e.cfg.TestAreaMode {
		e.display.SetCameraAvailable(ctx, true)
		e.display.SetStatus(ctx, StatusTestMode)
		return Result{CameraAvailable: true}, false
	}

	e.display.SetStatus(ctx, StatusTracking)
	return e.evaluator.Evaluate(ctx, pos), true
}

// OnPause flushes the collected set and ignores ticks until OnResume.
func (e *Engine) OnPause(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != EngineRunning {
		return fmt.Errorf("%w: pause from %s", ErrEngineState, e.state)
	}
	e.state = EnginePaused
	log.Info("engine paused")
	return e.collection.Flush(ctx)
}

func (e *Engine) OnResume(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != EnginePaused {
		return fmt.Errorf("%w: resume from %s", ErrEngineState, e.state)
	}
	e.state = EngineRunning
	log.Info("engine resumed")
	return nil
}

// OnTerminate flushes the collected set and stops the engine for good.
// Calling it more than once is a no-op.
func (e *Engine) OnTerminate(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == EngineTerminated {
		return nil
	}
	e.state = EngineTerminated
	log.Info("engine terminated")
	return e.collection.Flush(ctx)
}

// Run samples the provider every SampleInterval until ctx is done, then
// terminates the engine.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return e.OnTerminate(context.WithoutCancel(ctx))
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

func (e *Engine) tick(ctx context.Context) {
	pos, ok := e.provider.Latest()
	if !ok && e.provider.Status() == domain.ProviderRunning {
		metrics.SamplesSkippedTotal.WithLabelValues("no_fix").Inc()
		return
	}
	e.OnTick(ctx, pos)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
