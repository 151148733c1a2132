package action

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

const (
	unexpectedErrorMsg = "An unexpected error occurred"
	timedOutMsg        = "Action timed out"
)

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithTimeout bounds each action execution. The guard is released on timeout.
func WithTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.timeout = d }
}

// WithPage sets the page reported in event contexts that do not carry one.
func WithPage(page string) ManagerOption {
	return func(m *Manager) { m.page = page }
}

// WithUser sets the user reported in event contexts that do not carry one.
func WithUser(userID string) ManagerOption {
	return func(m *Manager) { m.userID = userID }
}

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// Manager turns an EventConfig activation into a guarded execution with user feedback.
// It owns its Guard: one Manager per view.
type Manager struct {
	exec     *Executor
	notifier Notifier
	guard    *Guard
	tracker  Tracker
	logger   core.Logger

	timeout time.Duration
	page    string
	userID  string
	now     func() time.Time
}

func NewManager(env Environment, tracker Tracker, logger core.Logger, opts ...ManagerOption) *Manager {
	if tracker == nil {
		tracker = nopTracker{}
	}
	m := &Manager{
		exec:     NewExecutor(env),
		notifier: env,
		guard:    NewGuard(),
		tracker:  tracker,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsProcessing reports whether the action identified by id is in flight.
func (m *Manager) IsProcessing(id string) bool {
	return m.guard.IsProcessing(id)
}

// InFlight returns the ids of the actions in flight.
func (m *Manager) InFlight() []string {
	return m.guard.InFlight()
}

// HandleClick dispatches cfg.
// ok is false when an action with the same id was already in flight: nothing was executed nor shown.
// HandleClick never panics; unexpected failures are logged and reported as a failed Result.
func (m *Manager) HandleClick(ctx context.Context, cfg EventConfig, partial Context) (res Result, ok bool) {
	if !m.guard.Begin(cfg.ID) {
		return Result{}, false
	}
	fb := cfg.feedback()

	defer func() {
		defer m.guard.End(cfg.ID)
		if r := recover(); r != nil {
			m.fail(ctx, cfg, panicError(r))
			res, ok = failed(unexpectedErrorMsg), true
		}
	}()

	if fb.Loading != "" {
		m.notifier.Notify(ctx, Toast{Title: fb.Loading, Variant: VariantDefault})
	}

	ec := partial.merge(Context{
		ElementID: cfg.ID,
		Page:      m.page,
		UserID:    m.userID,
		Timestamp: m.now(),
	})
	if err := m.tracker.Track(ctx, newRecord(cfg, ec)); err != nil {
		m.logger.Error(fmt.Sprintf("tracking %s: %v", cfg.ID, err), errors.Wrap(err, "tracking dispatch"), core.User{ID: ec.UserID})
	}

	res, err := m.execute(ctx, cfg)
	if err != nil {
		m.fail(ctx, cfg, err)
		return failed(unexpectedErrorMsg), true
	}

	if res.Success {
		if fb.Success != "" {
			m.notifier.Notify(ctx, Toast{Title: fb.Success, Variant: VariantDefault})
		}
	} else if fb.Error != "" {
		m.notifier.Notify(ctx, Toast{Title: fb.Error, Description: res.Message, Variant: VariantDestructive})
	}
	return res, true
}

// execute runs the executor, converting a panic into an error and enforcing the timeout.
func (m *Manager) execute(ctx context.Context, cfg EventConfig) (Result, error) {
	if m.timeout <= 0 {
		return m.safeExecute(ctx, cfg)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := m.safeExecute(ctx, cfg)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		m.logger.Warn(fmt.Sprintf("action %s (%s) timed out after %v", cfg.ID, cfg.Action, m.timeout))
		return failed(timedOutMsg), nil
	}
}

func (m *Manager) safeExecute(ctx context.Context, cfg EventConfig) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	return m.exec.Execute(ctx, cfg.Action, cfg), nil
}

// fail logs err and shows the config's error feedback with a generic description.
// It runs inside recover paths, so neither the logger nor the notifier may panic out of it.
func (m *Manager) fail(ctx context.Context, cfg EventConfig, err error) {
	func() {
		defer func() { _ = recover() }()
		m.logger.Error(fmt.Sprintf("dispatching %s (%s): %v", cfg.ID, cfg.Action, err), err, core.User{ID: m.userID})
	}()

	if fb := cfg.feedback(); fb.Error != "" {
		func() {
			defer func() { _ = recover() }()
			m.notifier.Notify(ctx, Toast{Title: fb.Error, Description: unexpectedErrorMsg, Variant: VariantDestructive})
		}()
	}
}

func panicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return errors.Wrap(err, "recovered panic")
	}
	return errors.Errorf("recovered panic: %v", r)
}
