// Package effects records the side effects of a dispatch so that the client can carry them out.
package effects

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/action"
)

// Effect types
const (
	TypeNavigate  = "navigate"
	TypeOpenURL   = "open-url"
	TypeToast     = "toast"
	TypeClipboard = "clipboard"
	TypeDownload  = "download"
)

// ErrClipboardUnavailable is returned when the requesting client cannot receive clipboard writes.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Effect is one side effect the client must perform, in order.
type Effect struct {
	Type string `json:"type"`

	Path   string         `json:"path,omitempty"`   // navigate
	URL    string         `json:"url,omitempty"`    // open-url
	Target string         `json:"target,omitempty"` // open-url
	Rel    string         `json:"rel,omitempty"`    // open-url
	Toast  *action.Toast  `json:"toast,omitempty"`  // toast
	Text   string         `json:"text,omitempty"`   // clipboard
	Anchor *action.Anchor `json:"anchor,omitempty"` // download
}

// Recorder collects the effects of one request. Effects recorded after Close are dropped.
type Recorder struct {
	mu        sync.Mutex
	effects   []Effect
	closed    bool
	clipboard bool
}

// NewRecorder returns a Recorder; clipboard tells whether the client accepts clipboard writes.
func NewRecorder(clipboard bool) *Recorder {
	return &Recorder{clipboard: clipboard}
}

func (r *Recorder) add(e Effect) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.effects = append(r.effects, e)
	return true
}

// Close stops recording and returns the effects recorded so far.
func (r *Recorder) Close() []Effect {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	effects := make([]Effect, len(r.effects))
	copy(effects, r.effects)
	return effects
}

type ctxKey struct{}

// WithRecorder returns a copy of ctx carrying r.
func WithRecorder(ctx context.Context, r *Recorder) context.Context {
	return context.WithValue(ctx, ctxKey{}, r)
}

// FromContext returns the Recorder carried by ctx, if any.
func FromContext(ctx context.Context) (*Recorder, bool) {
	r, ok := ctx.Value(ctxKey{}).(*Recorder)
	return r, ok
}

// Environment implements action.Environment by recording effects onto the request's Recorder.
// Effects of contexts without a Recorder are dropped.
type Environment struct{}

var _ action.Environment = Environment{}

func record(ctx context.Context, e Effect) bool {
	if r, ok := FromContext(ctx); ok {
		return r.add(e)
	}
	return false
}

func (Environment) Navigate(ctx context.Context, path string) {
	record(ctx, Effect{Type: TypeNavigate, Path: path})
}

func (Environment) OpenExternal(ctx context.Context, url string) {
	record(ctx, Effect{Type: TypeOpenURL, URL: url, Target: "_blank", Rel: "noopener noreferrer"})
}

func (Environment) Notify(ctx context.Context, toast action.Toast) {
	record(ctx, Effect{Type: TypeToast, Toast: &toast})
}

func (Environment) WriteText(ctx context.Context, text string) error {
	r, ok := FromContext(ctx)
	if !ok || !r.clipboard {
		return ErrClipboardUnavailable
	}
	if !r.add(Effect{Type: TypeClipboard, Text: text}) {
		return errors.Wrap(ErrClipboardUnavailable, "request already answered")
	}
	return nil
}

func (Environment) Download(ctx context.Context, a action.Anchor) {
	record(ctx, Effect{Type: TypeDownload, Anchor: &a})
}
