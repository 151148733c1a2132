package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/action"
	"github.com/trezcool/darasa/services/effects"
	"github.com/trezcool/darasa/storage/database/inmem"
	"github.com/trezcool/darasa/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	server  *Server
	conf    *core.Config
	views   *action.Registry
	records action.RecordRepository
	logger  *testutil.LoggerMock
}

// setup builds a server whose managers run on env; a nil env records effects onto the response.
func setup(t *testing.T, env action.Environment) *testApp {
	conf := testutil.NewConfig()
	logger := testutil.NewLoggerMock()
	records := inmemdb.NewEventRepository()

	if env == nil {
		env = effects.Environment{}
	}

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	action.InitValidators(validate, translator)

	views := action.NewRegistry(func(key action.ViewKey, page string) *action.Manager {
		return action.NewManager(
			env,
			action.MultiTracker(records, action.LogTracker(logger)),
			logger,
			action.WithTimeout(conf.Dispatch.Timeout),
			action.WithPage(page),
			action.WithUser(key.UserID),
		)
	}, conf.Dispatch.ViewTTL)

	return &testApp{
		server: NewServer(ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Views:      views,
			Records:    records,
			Validate:   validate,
			Translator: translator,
		}),
		conf:    conf,
		views:   views,
		records: records,
		logger:  logger,
	}
}

func (app *testApp) do(req *http.Request, rec *httptest.ResponseRecorder) {
	app.server.ServeHTTP(rec, req)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, conf *core.Config, userID string, roles ...string) string {
	token, err := testutil.NewToken(conf, userID, roles...)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func dispatchBody(t *testing.T, cfg action.EventConfig, clipboard bool) []byte {
	return marchallObj(t, DispatchRequest{
		Config:    cfg,
		Context:   action.Context{Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		Page:      "/courses",
		Clipboard: clipboard,
	})
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
