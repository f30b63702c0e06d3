package service

import (
	"context"
	"sync"
	"time"
)

type scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

type notificationDisplay interface {
	ShowNotification(ctx context.Context, msg, image string)
	HideNotification(ctx context.Context)
}

// Notifier shows a notification and hides it after a delay. A new
// notification replaces any pending hide.
type Notifier struct {
	display notificationDisplay
	sched   scheduler

	mu      sync.Mutex
	visible bool
	stop    func() bool
	gen     uint64
}

func NewNotifier(display notificationDisplay) *Notifier {
	return &Notifier{display: display, sched: timerScheduler{}}
}

// Show displays msg; a positive d schedules the hide, otherwise the
// notification stays until an ambient hide or Hide.
func (n *Notifier) Show(ctx context.Context, msg, image string, d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.cancelLocked()
	n.display.ShowNotification(ctx, msg, image)
	n.visible = true
	if d > 0 {
		n.scheduleLocked(d)
	}
}

// ScheduleHide hides a visible notification after d unless a hide is
// already pending.
func (n *Notifier) ScheduleHide(_ context.Context, d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.visible || n.stop != nil {
		return
	}
	n.scheduleLocked(d)
}

func (n *Notifier) Hide(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.cancelLocked()
	if !n.visible {
		return
	}
	n.visible = false
	n.display.HideNotification(ctx)
}

func (n *Notifier) Visible() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.visible
}

// Pending reports whether a hide is scheduled.
func (n *Notifier) Pending() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stop != nil
}

func (n *Notifier) scheduleLocked(d time.Duration) {
	n.gen++
	gen := n.gen
	n.stop = n.sched.AfterFunc(d, func() { n.expire(gen) })
}

func (n *Notifier) cancelLocked() {
	n.gen++
	if n.stop != nil {
		n.stop()
		n.stop = nil
	}
}

func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	// a newer show or hide superseded this timer
	if gen != n.gen {
		return
	}
	n.stop = nil
	n.visible = false
	n.display.HideNotification(context.Background())
}
