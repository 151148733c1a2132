package action

import (
	"context"
	"fmt"
)

const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"

	// DefaultFilename names downloads that do not set payload.filename.
	DefaultFilename = "download"

	copiedToast = "Copié !"
)

type (
	// Toast is a transient notification.
	Toast struct {
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
		Variant     string `json:"variant"`
	}

	// Anchor is the temporary link element a download is triggered through.
	Anchor struct {
		Href     string `json:"href"`
		Download string `json:"download"`
	}

	// Navigator changes the in-app route.
	Navigator interface {
		Navigate(ctx context.Context, path string)
	}

	// LinkOpener opens a url in a new browsing context without opener nor referrer.
	LinkOpener interface {
		OpenExternal(ctx context.Context, url string)
	}

	// Notifier surfaces toasts.
	Notifier interface {
		Notify(ctx context.Context, toast Toast)
	}

	// Clipboard writes to the system clipboard. The platform may reject the write.
	Clipboard interface {
		WriteText(ctx context.Context, text string) error
	}

	// Downloader activates the anchor once, then discards it.
	Downloader interface {
		Download(ctx context.Context, a Anchor)
	}

	// Environment bundles every side effect the executor can perform.
	Environment interface {
		Navigator
		LinkOpener
		Notifier
		Clipboard
		Downloader
	}
)

type handlerFunc func(ctx context.Context, cfg EventConfig) Result

// Executor performs exactly one side effect per executable action.
// Actions without a handler (open-modal, submit-form...) are left to the control's click handler.
type Executor struct {
	env      Environment
	handlers map[Action]handlerFunc
}

func NewExecutor(env Environment) *Executor {
	exec := &Executor{env: env}
	exec.handlers = map[Action]handlerFunc{
		Navigate:        exec.navigate,
		ExternalLink:    exec.openExternal,
		ShowToast:       exec.showToast,
		CopyToClipboard: exec.copyToClipboard,
		Download:        exec.download,
	}
	return exec
}

// Handles reports whether the executor has a handler for a.
func (exec *Executor) Handles(a Action) bool {
	_, ok := exec.handlers[a]
	return ok
}

// Execute runs the handler of action. It never fails with an error: failures are reported in the Result.
func (exec *Executor) Execute(ctx context.Context, action Action, cfg EventConfig) Result {
	handle, ok := exec.handlers[action]
	if !ok {
		return failed(fmt.Sprintf("Unhandled action: %s", action))
	}
	return handle(ctx, cfg)
}

func (exec *Executor) navigate(ctx context.Context, cfg EventConfig) Result {
	if cfg.Target == "" {
		return failed("No navigation target specified")
	}
	exec.env.Navigate(ctx, cfg.Target)
	return succeeded("Navigated to " + cfg.Target)
}

func (exec *Executor) openExternal(ctx context.Context, cfg EventConfig) Result {
	if cfg.Target == "" {
		return failed("No URL specified")
	}
	exec.env.OpenExternal(ctx, cfg.Target)
	return succeeded("External link opened")
}

func (exec *Executor) showToast(ctx context.Context, cfg EventConfig) Result {
	exec.env.Notify(ctx, Toast{
		Title:       cfg.Payload.StringOr("title", ""),
		Description: cfg.Payload.StringOr("description", ""),
		Variant:     cfg.Payload.StringOr("variant", VariantDefault),
	})
	return succeeded("Toast displayed")
}

func (exec *Executor) copyToClipboard(ctx context.Context, cfg EventConfig) Result {
	text, ok := cfg.Payload.String("text")
	if !ok {
		return failed("No text to copy")
	}
	if err := exec.env.WriteText(ctx, text); err != nil {
		return failed("Failed to copy to clipboard")
	}
	exec.env.Notify(ctx, Toast{
		Title:       copiedToast,
		Description: "Le texte a été copié dans le presse-papiers",
		Variant:     VariantDefault,
	})
	return succeeded("Copied to clipboard")
}

func (exec *Executor) download(ctx context.Context, cfg EventConfig) Result {
	if cfg.Target == "" {
		return failed("No download target specified")
	}
	a := Anchor{
		Href:     cfg.Target,
		Download: cfg.Payload.StringOr("filename", DefaultFilename),
	}
	exec.env.Download(ctx, a)
	return succeeded("Download started", a)
}
