package action

import (
	"bytes"
	"context"
	"html/template"
)

// BusyIndicator replaces a control's content while it is busy.
const BusyIndicator = "…"

// Processor is what a Control forwards its activations to.
type Processor interface {
	HandleClick(ctx context.Context, cfg EventConfig, partial Context) (Result, bool)
	IsProcessing(id string) bool
}

// ClickFunc handles an activation before the attached config is dispatched.
// It is the way to implement actions the executor has no handler for.
type ClickFunc func(ctx context.Context) error

// Control binds an EventConfig to an interactive element.
type Control struct {
	Config   *EventConfig
	Label    string
	Loading  bool
	Disabled bool
	OnClick  ClickFunc

	proc Processor
}

func NewControl(proc Processor, cfg *EventConfig, label string) *Control {
	return &Control{Config: cfg, Label: label, proc: proc}
}

// Busy reports whether the control is loading or its action is in flight.
func (c *Control) Busy() bool {
	if c.Loading {
		return true
	}
	return c.Config != nil && c.proc != nil && c.proc.IsProcessing(c.Config.ID)
}

// Activate forwards an activation: OnClick first, then the attached config.
// A busy or disabled control ignores activations, reporting ok false.
// An OnClick error stops the activation before dispatch.
func (c *Control) Activate(ctx context.Context, partial Context) (res Result, ok bool, err error) {
	if c.Disabled || c.Busy() {
		return Result{}, false, nil
	}
	if c.OnClick != nil {
		if err := c.OnClick(ctx); err != nil {
			return Result{}, false, err
		}
	}
	if c.Config == nil || c.proc == nil {
		return Result{}, false, nil
	}
	res, ok = c.proc.HandleClick(ctx, *c.Config, partial)
	return res, ok, nil
}

// View is the rendered state of a Control.
type View struct {
	ID              string `json:"id,omitempty"`
	Kind            Kind   `json:"type,omitempty"`
	Content         string `json:"content"`
	Disabled        bool   `json:"disabled"`
	Busy            bool   `json:"busy"`
	AriaLabel       string `json:"ariaLabel,omitempty"`
	AriaDescription string `json:"ariaDescription,omitempty"`
}

func (c *Control) View() View {
	busy := c.Busy()
	v := View{
		Content:  c.Label,
		Busy:     busy,
		Disabled: c.Disabled || busy,
	}
	if busy {
		v.Content = BusyIndicator
	}
	if c.Config != nil {
		v.ID = c.Config.ID
		v.Kind = c.Config.Kind
		if acc := c.Config.Accessibility; acc != nil {
			v.AriaLabel = acc.AriaLabel
			v.AriaDescription = acc.Description
		}
	}
	return v
}

var controlTmpl = template.Must(template.New("control").Parse(
	`<button type="button"` +
		`{{with .ID}} data-action-id="{{.}}"{{end}}` +
		`{{with .Kind}} data-action-type="{{.}}"{{end}}` +
		`{{with .AriaLabel}} aria-label="{{.}}"{{end}}` +
		`{{with .AriaDescription}} aria-description="{{.}}"{{end}}` +
		`{{if .Busy}} aria-busy="true"{{end}}` +
		`{{if .Disabled}} disabled{{end}}>{{.Content}}</button>`,
))

// HTML renders the control as a button element.
func (c *Control) HTML() (template.HTML, error) {
	var buff bytes.Buffer
	if err := controlTmpl.Execute(&buff, c.View()); err != nil {
		return "", err
	}
	return template.HTML(buff.String()), nil // nolint:gosec // escaped by html/template
}
