package effects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core/action"
	"github.com/trezcool/darasa/tests"
)

func TestEnvironment(t *testing.T) {
	rec := NewRecorder(true)
	ctx := WithRecorder(context.Background(), rec)
	env := Environment{}

	env.Navigate(ctx, "/courses")
	env.OpenExternal(ctx, "https://masomo.cd")
	env.Notify(ctx, action.Toast{Title: "Hi", Variant: action.VariantDefault})
	require.NoError(t, env.WriteText(ctx, "abc"))
	env.Download(ctx, action.Anchor{Href: "/files/a.pdf", Download: "download"})

	assert.Equal(t, []Effect{
		{Type: TypeNavigate, Path: "/courses"},
		{Type: TypeOpenURL, URL: "https://masomo.cd", Target: "_blank", Rel: "noopener noreferrer"},
		{Type: TypeToast, Toast: &action.Toast{Title: "Hi", Variant: action.VariantDefault}},
		{Type: TypeClipboard, Text: "abc"},
		{Type: TypeDownload, Anchor: &action.Anchor{Href: "/files/a.pdf", Download: "download"}},
	}, rec.Close())

	// late effects are dropped
	env.Navigate(ctx, "/late")
	assert.Error(t, env.WriteText(ctx, "late"))
	assert.Len(t, rec.Close(), 5)
}

func TestEnvironment_clipboardUnavailable(t *testing.T) {
	env := Environment{}
	assert.Equal(t, ErrClipboardUnavailable, env.WriteText(context.Background(), "abc"))

	rec := NewRecorder(false)
	assert.Equal(t, ErrClipboardUnavailable, env.WriteText(WithRecorder(context.Background(), rec), "abc"))
	assert.Empty(t, rec.Close())
}

func TestEnvironment_withManager(t *testing.T) {
	m := action.NewManager(Environment{}, nil, testutil.NewLoggerMock())

	rec := NewRecorder(false)
	ctx := WithRecorder(context.Background(), rec)
	cfg := action.NewEventConfig("copy",
		action.WithAction(action.CopyToClipboard),
		action.WithPayload(action.Payload{"text": "abc"}),
		action.WithFeedback("", "", "Impossible de copier"),
	)
	res, ok := m.HandleClick(ctx, cfg, action.Context{})
	require.True(t, ok)
	assert.Equal(t, action.Result{Message: "Failed to copy to clipboard"}, res)
	assert.Equal(t, []Effect{{
		Type:  TypeToast,
		Toast: &action.Toast{Title: "Impossible de copier", Description: "Failed to copy to clipboard", Variant: action.VariantDestructive},
	}}, rec.Close())
}
