package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/action"
	"github.com/trezcool/darasa/services/effects"
)

func Test_actionApi_dispatch(t *testing.T) {
	app := setup(t, nil)
	token := getToken(t, app.conf, "student-1")

	navCfg := action.NavigateTo("go-courses", "/courses", action.WithFeedback("Loading...", "Done!", "Oops"))
	copyCfg := action.NewEventConfig("copy-code",
		action.WithAction(action.CopyToClipboard),
		action.WithPayload(action.Payload{"text": "go run ."}),
		action.WithFeedback("", "", "Oops"),
	)
	dlCfg := action.NewEventConfig("dl-syllabus",
		action.WithAction(action.Download),
		action.WithTarget("/files/syllabus.pdf"),
		action.WithPayload(action.Payload{"filename": "syllabus.pdf"}),
	)
	anchor := action.Anchor{Href: "/files/syllabus.pdf", Download: "syllabus.pdf"}
	extCfg := action.NewEventConfig("docs", action.WithAction(action.ExternalLink), action.WithTarget("https://go.dev"))
	modalCfg := action.NewEventConfig("open-settings", action.WithAction(action.OpenModal))

	path := "/v1/views/catalog/dispatch"

	tests := []httpTest{
		{
			name: "Auth required", path: path, body: dispatchBody(t, navCfg, false),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "navigate", path: path, body: dispatchBody(t, navCfg, false), token: token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, DispatchResponse{
				Result: action.Result{Success: true, Message: "Navigated to /courses"},
				Effects: []effects.Effect{
					{Type: effects.TypeToast, Toast: &action.Toast{Title: "Loading...", Variant: action.VariantDefault}},
					{Type: effects.TypeNavigate, Path: "/courses"},
					{Type: effects.TypeToast, Toast: &action.Toast{Title: "Done!", Variant: action.VariantDefault}},
				},
			}),
		},
		{
			name: "copy to clipboard", path: path, body: dispatchBody(t, copyCfg, true), token: token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, DispatchResponse{
				Result: action.Result{Success: true, Message: "Copied to clipboard"},
				Effects: []effects.Effect{
					{Type: effects.TypeClipboard, Text: "go run ."},
					{Type: effects.TypeToast, Toast: &action.Toast{
						Title:       "Copié !",
						Description: "Le texte a été copié dans le presse-papiers",
						Variant:     action.VariantDefault,
					}},
				},
			}),
		},
		{
			name: "copy without clipboard", path: path, body: dispatchBody(t, copyCfg, false), token: token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, DispatchResponse{
				Result: action.Result{Message: "Failed to copy to clipboard"},
				Effects: []effects.Effect{
					{Type: effects.TypeToast, Toast: &action.Toast{
						Title:       "Oops",
						Description: "Failed to copy to clipboard",
						Variant:     action.VariantDestructive,
					}},
				},
			}),
		},
		{
			name: "download", path: path, body: dispatchBody(t, dlCfg, false), token: token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, DispatchResponse{
				Result:  action.Result{Success: true, Message: "Download started", Data: anchor},
				Effects: []effects.Effect{{Type: effects.TypeDownload, Anchor: &anchor}},
			}),
		},
		{
			name: "external link", path: path, body: dispatchBody(t, extCfg, false), token: token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, DispatchResponse{
				Result: action.Result{Success: true, Message: "External link opened"},
				Effects: []effects.Effect{
					{Type: effects.TypeOpenURL, URL: "https://go.dev", Target: "_blank", Rel: "noopener noreferrer"},
				},
			}),
		},
		{
			name: "unhandled action", path: path, body: dispatchBody(t, modalCfg, false), token: token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, DispatchResponse{
				Result:  action.Result{Message: "Unhandled action: open-modal"},
				Effects: []effects.Effect{},
			}),
		},
		{
			name: "invalid config", path: path, token: token,
			body:     dispatchBody(t, action.NewEventConfig("bad id!", action.WithAction("teleport"), action.WithKind("hologram")), false),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"id":     "only alphanumeric characters, dashes, dots, colons and underscores are allowed",
				"type":   "unknown element type",
				"action": "unknown action",
			}),
		},
		{
			name: "id required", path: path, token: token,
			body:     dispatchBody(t, action.NewEventConfig("  "), false),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"id": "this field is required"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, tt.path, tt.token, tt.body)
			app.do(req, rec)
			checkCodeAndData(t, tt, rec)
		})
	}

	// every accepted dispatch was tracked against the token's subject
	records, err := app.records.QueryRecords(context.Background(), action.RecordFilter{UserID: "student-1"})
	require.NoError(t, err)
	assert.Len(t, records, 6)
	for _, r := range records {
		assert.Equal(t, "/courses", r.Context.Page)
		assert.Equal(t, r.Config.ID, r.Context.ElementID)
	}
}

func Test_actionApi_dispatch_inProgress(t *testing.T) {
	env := action.NewEnvironmentMock()
	env.Block = make(chan struct{})
	app := setup(t, env)
	token := getToken(t, app.conf, "student-1")

	cfg := action.NewEventConfig("copy-code",
		action.WithAction(action.CopyToClipboard),
		action.WithPayload(action.Payload{"text": "abc"}),
	)
	path := "/v1/views/lesson-7/dispatch"
	key := action.ViewKey{UserID: "student-1", ViewID: "lesson-7"}

	body := dispatchBody(t, cfg, true)
	done := make(chan int, 1)
	go func() {
		req, rec := newAuthRequest(http.MethodPost, path, token, body)
		app.do(req, rec)
		done <- rec.Code
	}()
	require.Eventually(t, func() bool {
		mgr, ok := app.views.Lookup(key)
		return ok && mgr.IsProcessing(cfg.ID)
	}, time.Second, time.Millisecond)

	// duplicate while pending
	req, rec := newAuthRequest(http.MethodPost, path, token, dispatchBody(t, cfg, true))
	app.do(req, rec)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusConflict,
		wantData: marchallObj(t, httpErr{Error: "action already in progress"}),
	}, rec)

	// the same id on another view is independent
	other := action.NewEventConfig("copy-code", action.WithAction(action.ShowToast), action.WithPayload(action.Payload{"title": "hi"}))
	req, rec = newAuthRequest(http.MethodPost, "/v1/views/lesson-8/dispatch", token, dispatchBody(t, other, true))
	app.do(req, rec)
	assert.Equal(t, http.StatusOK, rec.Code)

	// in flight
	req, rec = newAuthRequest(http.MethodGet, "/v1/views/lesson-7/processing", token)
	app.do(req, rec)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, ProcessingResponse{Processing: []string{"copy-code"}}),
	}, rec)

	close(env.Block)
	select {
	case code := <-done:
		assert.Equal(t, http.StatusOK, code)
	case <-time.After(2 * time.Second):
		t.Fatal("first dispatch never completed")
	}
	assert.Equal(t, []string{"abc"}, env.Clipboard)

	req, rec = newAuthRequest(http.MethodGet, "/v1/views/lesson-7/processing", token)
	app.do(req, rec)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, ProcessingResponse{Processing: []string{}}),
	}, rec)
}

func Test_actionApi_renderControl(t *testing.T) {
	app := setup(t, nil)
	token := getToken(t, app.conf, "student-1")

	enroll := action.EnrollInCourse("42", action.WithAccessibility("Enroll in Go 101", ""))
	path := "/v1/views/catalog/controls"

	tests := []httpTest{
		{
			name: "Auth required", path: path, body: marchallObj(t, ControlRequest{Label: "Enroll"}),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "idle", path: path, token: token,
			body:     marchallObj(t, ControlRequest{Config: &enroll, Label: " Enroll "}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, action.View{
				ID:        "enroll-42",
				Kind:      action.KindCourseEnroll,
				Content:   "Enroll",
				AriaLabel: "Enroll in Go 101",
			}),
		},
		{
			name: "loading", path: path, token: token,
			body:     marchallObj(t, ControlRequest{Config: &enroll, Label: "Enroll", Loading: true}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, action.View{
				ID:        "enroll-42",
				Kind:      action.KindCourseEnroll,
				Content:   action.BusyIndicator,
				Disabled:  true,
				Busy:      true,
				AriaLabel: "Enroll in Go 101",
			}),
		},
		{
			name: "disabled, no config", path: path, token: token,
			body:     marchallObj(t, ControlRequest{Label: "Soon", Disabled: true}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, action.View{Content: "Soon", Disabled: true}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, tt.path, tt.token, tt.body)
			app.do(req, rec)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("html", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, token, marchallObj(t, ControlRequest{Config: &enroll, Label: "<Enroll>"}))
		req.Header.Set(echo.HeaderAccept, echo.MIMETextHTML)
		app.do(req, rec)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t,
			`<button type="button" data-action-id="enroll-42" data-action-type="course-enroll" aria-label="Enroll in Go 101">&lt;Enroll&gt;</button>`,
			rec.Body.String(),
		)
	})
}

func Test_actionApi_release(t *testing.T) {
	app := setup(t, nil)
	token := getToken(t, app.conf, "student-1")

	req, rec := newAuthRequest(http.MethodPost, "/v1/views/catalog/dispatch", token,
		dispatchBody(t, action.NewEventConfig("hello", action.WithPayload(action.Payload{"title": "Hi"})), false))
	app.do(req, rec)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, app.views.Len())

	// another user cannot release it
	req, rec = newAuthRequest(http.MethodDelete, "/v1/views/catalog", getToken(t, app.conf, "student-2"))
	app.do(req, rec)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}, rec)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/views/catalog", token)
	app.do(req, rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, app.views.Len())

	req, rec = newAuthRequest(http.MethodDelete, "/v1/views/catalog", token)
	app.do(req, rec)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_actionApi_queryEvents(t *testing.T) {
	app := setup(t, nil)
	student := getToken(t, app.conf, "student-1")
	admin := getToken(t, app.conf, "admin-1", "admin")

	for _, cfg := range []action.EventConfig{
		action.NavigateTo("go-courses", "/courses"),
		action.NewEventConfig("hello", action.WithPayload(action.Payload{"title": "Hi"})),
	} {
		req, rec := newAuthRequest(http.MethodPost, "/v1/views/catalog/dispatch", student, dispatchBody(t, cfg, false))
		app.do(req, rec)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	t.Run("admin required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/events", student)
		app.do(req, rec)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}, rec)
	})

	t.Run("invalid filter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/events?limit=abc&action=teleport", admin)
		app.do(req, rec)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"limit": "must be a positive number", "action": "unknown action"}),
		}, rec)
	})

	queryIDs := func(t *testing.T, query string) []string {
		req, rec := newAuthRequest(http.MethodGet, "/v1/events"+query, admin)
		app.do(req, rec)
		require.Equal(t, http.StatusOK, rec.Code)

		var records []action.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		ids := make([]string, 0, len(records))
		for _, r := range records {
			assert.Equal(t, "student-1", r.Context.UserID)
			ids = append(ids, r.Config.ID)
		}
		return ids
	}

	t.Run("all", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"go-courses", "hello"}, queryIDs(t, ""))
	})
	t.Run("by action", func(t *testing.T) {
		assert.Equal(t, []string{"go-courses"}, queryIDs(t, "?action=navigate"))
	})
	t.Run("by user", func(t *testing.T) {
		assert.Empty(t, queryIDs(t, "?user_id=nobody"))
	})
	t.Run("since", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"go-courses", "hello"}, queryIDs(t, "?since=2024-01-01T00:00:00Z"))
		assert.Empty(t, queryIDs(t, "?since=2025-01-01T00:00:00Z"))
	})
	t.Run("invalid since", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/events?since=yesterday", admin)
		app.do(req, rec)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"since": "must be an RFC 3339 date"}),
		}, rec)
	})
}

func Test_home(t *testing.T) {
	app := setup(t, nil)

	req, rec := newRequest(http.MethodGet, "/")
	app.do(req, rec)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Darasa API!", rec.Body.String())
}
