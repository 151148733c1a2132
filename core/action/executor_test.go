package action

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutor_Execute(t *testing.T) {
	errDenied := errors.New("permission denied")

	tests := []struct {
		name    string
		cfg     EventConfig
		clipErr error
		want    Result
		check   func(t *testing.T, env *EnvironmentMock)
	}{
		{
			name: "navigate",
			cfg:  NavigateTo("nav", "/courses"),
			want: Result{Success: true, Message: "Navigated to /courses"},
			check: func(t *testing.T, env *EnvironmentMock) {
				assert.Equal(t, []string{"/courses"}, env.Routes)
			},
		},
		{
			name: "navigate: no target",
			cfg:  NewEventConfig("nav", WithAction(Navigate)),
			want: Result{Message: "No navigation target specified"},
			check: func(t *testing.T, env *EnvironmentMock) {
				assert.Empty(t, env.Routes)
			},
		},
		{
			name: "external link",
			cfg:  NewEventConfig("ext", WithAction(ExternalLink), WithTarget("https://masomo.cd")),
			want: Result{Success: true, Message: "External link opened"},
			check: func(t *testing.T, env *EnvironmentMock) {
				assert.Equal(t, []string{"https://masomo.cd"}, env.Links)
			},
		},
		{
			name: "external link: no target",
			cfg:  NewEventConfig("ext", WithAction(ExternalLink)),
			want: Result{Message: "No URL specified"},
			check: func(t *testing.T, env *EnvironmentMock) {
				assert.Empty(t, env.Links)
			},
		},
		{
			name: "toast",
			cfg:  NewEventConfig("toast", WithPayload(Payload{"title": "T", "description": "D", "variant": "destructive"})),
			want: Result{Success: true, Message: "Toast displayed"},
			check: func(t *testing.T, env *EnvironmentMock) {
				assert.Equal(t, []Toast{{Title: "T", Description: "D", Variant: VariantDestructive}}, env.Toasts)
			},
		},
		{
			name: "toast: default variant",
			cfg:  NewEventConfig("toast", WithPayload(Payload{"title": "T"})),
			want: Result{Success: true, Message: "Toast displayed"},
			check: func(t *testing.T, env *EnvironmentMock) {
				assert.Equal(t, []Toast{{Title: "T", Variant: VariantDefault}}, env.Toasts)
			},
		},
		{
			name: "copy",
			cfg:  NewEventConfig("copy", WithAction(CopyToClipboard), WithPayload(Payload{"text": "abc"})),
			want: Result{Success: true, Message: "Copied to clipboard"},
			check: func(t *testing.T, env *EnvironmentMock) {
				assert.Equal(t, []string{"abc"}, env.Clipboard)
				assert.Equal(t, []string{"Copié !"}, env.ToastTitles())
			},
		},
		{
			name:    "copy: rejected",
			cfg:     NewEventConfig("copy", WithAction(CopyToClipboard), WithPayload(Payload{"text": "abc"})),
			clipErr: errDenied,
			want:    Result{Message: "Failed to copy to clipboard"},
			check: func(t *testing.T, env *EnvironmentMock) {
				assert.Empty(t, env.Clipboard)
				assert.Empty(t, env.Toasts)
			},
		},
		{
			name: "copy: no text",
			cfg:  NewEventConfig("copy", WithAction(CopyToClipboard)),
			want: Result{Message: "No text to copy"},
			check: func(t *testing.T, env *EnvironmentMock) {
				assert.Zero(t, env.Calls)
			},
		},
		{
			name: "download: default filename",
			cfg:  NewEventConfig("dl", WithAction(Download), WithTarget("/files/a.pdf")),
			want: Result{Success: true, Message: "Download started", Data: Anchor{Href: "/files/a.pdf", Download: "download"}},
			check: func(t *testing.T, env *EnvironmentMock) {
				assert.Equal(t, []Anchor{{Href: "/files/a.pdf", Download: "download"}}, env.Anchors)
			},
		},
		{
			name: "download: filename",
			cfg:  NewEventConfig("dl", WithAction(Download), WithTarget("/files/a.pdf"), WithPayload(Payload{"filename": "cours.pdf"})),
			want: Result{Success: true, Message: "Download started", Data: Anchor{Href: "/files/a.pdf", Download: "cours.pdf"}},
			check: func(t *testing.T, env *EnvironmentMock) {
				assert.Len(t, env.Anchors, 1)
			},
		},
		{
			name: "download: no target",
			cfg:  NewEventConfig("dl", WithAction(Download)),
			want: Result{Message: "No download target specified"},
			check: func(t *testing.T, env *EnvironmentMock) {
				assert.Empty(t, env.Anchors)
			},
		},
		{
			name: "unhandled action",
			cfg:  NewEventConfig("modal", WithAction(OpenModal), WithTarget("enroll-modal")),
			want: Result{Message: "Unhandled action: open-modal"},
			check: func(t *testing.T, env *EnvironmentMock) {
				assert.Zero(t, env.Calls)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := NewEnvironmentMock()
			env.ClipboardErr = tt.clipErr
			exec := NewExecutor(env)

			got := exec.Execute(context.Background(), tt.cfg.Action, tt.cfg)
			assert.Equal(t, tt.want, got)
			tt.check(t, env)
		})
	}
}

func TestExecutor_Handles(t *testing.T) {
	exec := NewExecutor(NewEnvironmentMock())
	handled := map[Action]bool{
		Navigate: true, ExternalLink: true, ShowToast: true, CopyToClipboard: true, Download: true,
	}
	for _, a := range Actions {
		if got := exec.Handles(a); got != handled[a] {
			t.Errorf("Handles(%q) = %v; want %v", a, got, handled[a])
		}
	}
}
