package action

import (
	"context"
	"sync"
)

// EnvironmentMock records every side effect in memory.
type EnvironmentMock struct {
	mu        sync.Mutex
	Routes    []string
	Links     []string
	Toasts    []Toast
	Clipboard []string
	Anchors   []Anchor

	// ClipboardErr makes WriteText fail when set.
	ClipboardErr error
	// Block, when set, holds WriteText until it is closed.
	Block chan struct{}
	// Calls counts every port call.
	Calls int
}

var _ Environment = (*EnvironmentMock)(nil)

func NewEnvironmentMock() *EnvironmentMock {
	return &EnvironmentMock{}
}

func (env *EnvironmentMock) Navigate(_ context.Context, path string) {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.Calls++
	env.Routes = append(env.Routes, path)
}

func (env *EnvironmentMock) OpenExternal(_ context.Context, url string) {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.Calls++
	env.Links = append(env.Links, url)
}

func (env *EnvironmentMock) Notify(_ context.Context, toast Toast) {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.Calls++
	env.Toasts = append(env.Toasts, toast)
}

func (env *EnvironmentMock) WriteText(ctx context.Context, text string) error {
	if env.Block != nil {
		select {
		case <-env.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	env.mu.Lock()
	defer env.mu.Unlock()
	env.Calls++
	if env.ClipboardErr != nil {
		return env.ClipboardErr
	}
	env.Clipboard = append(env.Clipboard, text)
	return nil
}

func (env *EnvironmentMock) Download(_ context.Context, a Anchor) {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.Calls++
	env.Anchors = append(env.Anchors, a)
}

// ToastTitles returns the titles of the toasts shown so far, in order.
func (env *EnvironmentMock) ToastTitles() []string {
	env.mu.Lock()
	defer env.mu.Unlock()
	titles := make([]string, 0, len(env.Toasts))
	for _, t := range env.Toasts {
		titles = append(titles, t.Title)
	}
	return titles
}

// Snapshot returns the number of port calls so far.
func (env *EnvironmentMock) Snapshot() int {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.Calls
}

// TrackerMock keeps tracked records in memory.
type TrackerMock struct {
	mu      sync.Mutex
	Records []Record
	Err     error
}

func (tm *TrackerMock) Track(_ context.Context, rec Record) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.Err != nil {
		return tm.Err
	}
	tm.Records = append(tm.Records, rec)
	return nil
}

func (tm *TrackerMock) Len() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.Records)
}
