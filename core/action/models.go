package action

import (
	"fmt"
	"time"
)

// Kind classifies the interactive element an action is bound to. It does not affect dispatch.
type Kind string

const (
	KindButton       Kind = "button"
	KindLink         Kind = "link"
	KindCard         Kind = "card"
	KindIcon         Kind = "icon"
	KindMenuItem     Kind = "menu-item"
	KindTab          Kind = "tab"
	KindModalTrigger Kind = "modal-trigger"
	KindCourseEnroll Kind = "course-enroll"
	KindLessonStart  Kind = "lesson-start"
	KindNavigation   Kind = "navigation"
)

// Kinds lists every known Kind.
var Kinds = []Kind{
	KindButton, KindLink, KindCard, KindIcon, KindMenuItem,
	KindTab, KindModalTrigger, KindCourseEnroll, KindLessonStart, KindNavigation,
}

func (k Kind) Valid() bool {
	for _, kind := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Action is what happens when an element is activated.
type Action string

const (
	Navigate        Action = "navigate"
	OpenModal       Action = "open-modal"
	CloseModal      Action = "close-modal"
	SubmitForm      Action = "submit-form"
	ToggleExpand    Action = "toggle-expand"
	EnrollCourse    Action = "enroll-course"
	StartLesson     Action = "start-lesson"
	ShowToast       Action = "show-toast"
	ExternalLink    Action = "external-link"
	Download        Action = "download"
	CopyToClipboard Action = "copy-to-clipboard"
)

// Actions lists every known Action, executable or not.
var Actions = []Action{
	Navigate, OpenModal, CloseModal, SubmitForm, ToggleExpand,
	EnrollCourse, StartLesson, ShowToast, ExternalLink, Download, CopyToClipboard,
}

func (a Action) Valid() bool {
	for _, act := range Actions {
		if a == act {
			return true
		}
	}
	return false
}

// Feedback holds the messages shown at each phase of a dispatch.
type Feedback struct {
	Loading string `json:"loading,omitempty"`
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Accessibility hints projected onto the bound control.
type Accessibility struct {
	AriaLabel   string `json:"ariaLabel,omitempty"`
	Description string `json:"description,omitempty"`
}

// Payload is the open data passed to the executor.
type Payload map[string]interface{}

// String returns the payload value at key if it is a non-empty string.
func (p Payload) String(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	switch v := p[key].(type) {
	case string:
		return v, v != ""
	case fmt.Stringer:
		s := v.String()
		return s, s != ""
	default:
		return "", false
	}
}

// StringOr returns the payload string at key, or def when it is absent.
func (p Payload) StringOr(key, def string) string {
	if s, ok := p.String(key); ok {
		return s
	}
	return def
}

// EventConfig declares one dispatchable UI action.
// ID is the deduplication key: two concurrent dispatches sharing it are one logical action.
type EventConfig struct {
	ID            string         `json:"id" validate:"required,max=200,slug"`
	Kind          Kind           `json:"type" validate:"required,action_kind"`
	Action        Action         `json:"action" validate:"required,action_name"`
	Target        string         `json:"target,omitempty" validate:"max=2048"`
	Payload       Payload        `json:"payload,omitempty"`
	Feedback      *Feedback      `json:"feedback,omitempty"`
	Accessibility *Accessibility `json:"accessibility,omitempty"`
}

func (cfg EventConfig) feedback() Feedback {
	if cfg.Feedback == nil {
		return Feedback{}
	}
	return *cfg.Feedback
}

// Context describes where, when and by whom an action fired.
type Context struct {
	ElementID string    `json:"elementId,omitempty"`
	Page      string    `json:"page,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// merge returns ctx with every zero field filled from def.
func (ctx Context) merge(def Context) Context {
	if ctx.ElementID == "" {
		ctx.ElementID = def.ElementID
	}
	if ctx.Page == "" {
		ctx.Page = def.Page
	}
	if ctx.UserID == "" {
		ctx.UserID = def.UserID
	}
	if ctx.Timestamp.IsZero() {
		ctx.Timestamp = def.Timestamp
	}
	return ctx
}

// Result is the outcome of one executed action.
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func succeeded(msg string, data ...interface{}) Result {
	res := Result{Success: true, Message: msg}
	if len(data) > 0 {
		res.Data = data[0]
	}
	return res
}

func failed(msg string) Result {
	return Result{Message: msg}
}
