package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempizhere/pageanalyzer/internal/fetcher"
	"github.com/tempizhere/pageanalyzer/internal/flash"
	"github.com/tempizhere/pageanalyzer/internal/models"
	"github.com/tempizhere/pageanalyzer/internal/render"
	"github.com/tempizhere/pageanalyzer/internal/repository"
	"github.com/tempizhere/pageanalyzer/internal/service"
	"go.uber.org/zap"
)

const samplePage = `<html><head><title>T</title><meta name="description" content="D"></head><body><h1>H</h1></body></html>`

type testEnv struct {
	handler http.Handler
	repo    repository.Repository
	fetcher *service.MockFetcher
}

// newTestEnv собирает приложение на хранилище в памяти и моке загрузчика страниц
func newTestEnv(t *testing.T, db repository.Database) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	renderer, err := render.New()
	require.NoError(t, err)

	repo := repository.NewMemoryRepository()
	f := service.NewMockFetcher(ctrl)
	svc := service.NewService(repo, f, zap.NewNop())
	a := NewApp(svc, db, renderer, flash.NewStore("test-secret"), zap.NewNop())

	return &testEnv{
		handler: NewRouter(a, "10.0.0.0/8"),
		repo:    repo,
		fetcher: f,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func postForm(target, value string) *http.Request {
	form := url.Values{}
	form.Set(FormFieldURL, value)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// followFlash выполняет GET по адресу редиректа с выданной flash-кукой
func (e *testEnv) followFlash(t *testing.T, rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	t.Helper()
	require.Equal(t, http.StatusFound, rec.Code)
	req := httptest.NewRequest(http.MethodGet, rec.Header().Get("Location"), nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return e.do(req)
}

func TestHandleIndex(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `name="url[name]"`)
	assert.Contains(t, rec.Body.String(), `action="/urls"`)
}

func TestHandleCreateURL(t *testing.T) {
	tests := []struct {
		name           string
		value          string
		expectedStatus int
		expectedBody   string
	}{
		{name: "Empty URL", value: "", expectedStatus: http.StatusUnprocessableEntity, expectedBody: service.MsgEmptyURL},
		{name: "Whitespace URL", value: "   ", expectedStatus: http.StatusUnprocessableEntity, expectedBody: service.MsgEmptyURL},
		{name: "Malformed URL", value: "not a url", expectedStatus: http.StatusUnprocessableEntity, expectedBody: service.MsgInvalidURL},
		{
			name:           "Too long URL",
			value:          "https://" + strings.Repeat("a", 250) + ".com",
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   service.MsgURLTooLong,
		},
		{name: "Valid URL", value: "https://Example.com/path?q=1", expectedStatus: http.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)

			rec := env.do(postForm("/urls", tt.value))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			items, err := env.repo.ListURLs(context.Background())
			require.NoError(t, err)

			if tt.expectedStatus == http.StatusUnprocessableEntity {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
				assert.Contains(t, rec.Body.String(), "is-invalid")
				assert.Empty(t, items, "Invalid input must not be stored")
				return
			}

			assert.Equal(t, "/urls/1", rec.Header().Get("Location"))
			require.Len(t, items, 1)
			assert.Equal(t, "https://example.com", items[0].Name)
		})
	}
}

func TestHandleCreateURL_KeepsSubmittedValue(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(postForm("/urls", "bad value"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="bad value"`)
}

func TestHandleCreateURL_Duplicate(t *testing.T) {
	env := newTestEnv(t, nil)

	first := env.do(postForm("/urls", "https://example.com"))
	page := env.followFlash(t, first)
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), MsgURLAdded)
	assert.Contains(t, page.Body.String(), "alert-success")

	second := env.do(postForm("/urls", "https://example.com/other/page"))
	assert.Equal(t, first.Header().Get("Location"), second.Header().Get("Location"))
	page = env.followFlash(t, second)
	assert.Contains(t, page.Body.String(), MsgURLExists)

	stats, err := env.repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.URLs)
}

func TestHandleListURLs(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	first, _, err := env.repo.CreateURL(ctx, "https://example.com")
	require.NoError(t, err)
	_, _, err = env.repo.CreateURL(ctx, "https://golang.org")
	require.NoError(t, err)
	_, err = env.repo.CreateCheck(ctx, models.URLCheck{URLID: first.ID, StatusCode: 503})
	require.NoError(t, err)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/urls", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "https://example.com")
	assert.Contains(t, body, "https://golang.org")
	assert.Contains(t, body, "503")
	assert.Less(t, strings.Index(body, "https://golang.org"), strings.Index(body, "https://example.com"),
		"Newest URL should be listed first")
}

func TestHandleShowURL(t *testing.T) {
	env := newTestEnv(t, nil)
	u, _, err := env.repo.CreateURL(context.Background(), "https://example.com")
	require.NoError(t, err)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{name: "Existing URL", path: urlPath(u.ID), expectedStatus: http.StatusOK, expectedBody: "https://example.com"},
		{name: "Unknown URL", path: "/urls/999", expectedStatus: http.StatusNotFound, expectedBody: MsgNotFound},
		{name: "Non-numeric id", path: "/urls/abc", expectedStatus: http.StatusNotFound, expectedBody: MsgNotFound},
		{name: "Negative id", path: "/urls/-1", expectedStatus: http.StatusNotFound, expectedBody: MsgNotFound},
		{name: "Unknown route", path: "/nowhere", expectedStatus: http.StatusNotFound, expectedBody: MsgNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}

func TestHandleCreateCheck(t *testing.T) {
	tests := []struct {
		name         string
		response     fetcher.Response
		fetchErr     error
		expectedText string
		expectedType string
		expectedRows int
	}{
		{
			name:         "Successful check",
			response:     fetcher.Response{StatusCode: http.StatusOK, Body: []byte(samplePage), Duration: time.Millisecond},
			expectedText: MsgCheckDone,
			expectedType: flash.TypeSuccess,
			expectedRows: 1,
		},
		{
			name:         "Server error is stored",
			response:     fetcher.Response{StatusCode: http.StatusInternalServerError, Body: []byte("oops")},
			expectedText: MsgCheckServerError,
			expectedType: flash.TypeWarning,
			expectedRows: 1,
		},
		{
			name:         "Connection failed",
			fetchErr:     errors.Join(fetcher.ErrConnectionFailed, errors.New("dial tcp: connection refused")),
			expectedText: MsgCheckFailed,
			expectedType: flash.TypeDanger,
			expectedRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			ctx := context.Background()
			u, _, err := env.repo.CreateURL(ctx, "https://example.com")
			require.NoError(t, err)

			env.fetcher.EXPECT().Fetch(gomock.Any(), "https://example.com").Return(tt.response, tt.fetchErr)

			rec := env.do(httptest.NewRequest(http.MethodPost, urlPath(u.ID)+"/checks", nil))
			assert.Equal(t, urlPath(u.ID), rec.Header().Get("Location"))

			page := env.followFlash(t, rec)
			require.Equal(t, http.StatusOK, page.Code)
			assert.Contains(t, page.Body.String(), tt.expectedText)
			assert.Contains(t, page.Body.String(), "alert-"+tt.expectedType)

			checks, err := env.repo.ListChecks(ctx, u.ID)
			require.NoError(t, err)
			assert.Len(t, checks, tt.expectedRows)
		})
	}
}

func TestHandleCreateCheck_StoresMetadata(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	u, _, err := env.repo.CreateURL(ctx, "https://example.com")
	require.NoError(t, err)

	env.fetcher.EXPECT().Fetch(gomock.Any(), "https://example.com").
		Return(fetcher.Response{StatusCode: http.StatusOK, Body: []byte(samplePage)}, nil)

	rec := env.do(httptest.NewRequest(http.MethodPost, urlPath(u.ID)+"/checks", nil))
	require.Equal(t, http.StatusFound, rec.Code)

	checks, err := env.repo.ListChecks(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, checks, 1)
	check := checks[0]
	assert.Equal(t, http.StatusOK, check.StatusCode)
	require.NotNil(t, check.Title)
	require.NotNil(t, check.H1)
	require.NotNil(t, check.Description)
	assert.Equal(t, "T", *check.Title)
	assert.Equal(t, "H", *check.H1)
	assert.Equal(t, "D", *check.Description)

	page := env.do(httptest.NewRequest(http.MethodGet, urlPath(u.ID), nil))
	assert.Contains(t, page.Body.String(), "<td class=\"text-break\">H</td>")
}

func TestHandleCreateCheck_UnknownURL(t *testing.T) {
	env := newTestEnv(t, nil)

	// Загрузчик не должен вызываться
	rec := env.do(httptest.NewRequest(http.MethodPost, "/urls/42/checks", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	stats, err := env.repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Checks)
}

func TestHandleMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(httptest.NewRequest(http.MethodDelete, "/urls", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgMethodNotAllowed)
}

func TestHandlePing(t *testing.T) {
	tests := []struct {
		name           string
		dbSetup        func(*gomock.Controller) repository.Database
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful ping",
			dbSetup: func(ctrl *gomock.Controller) repository.Database {
				mockDB := repository.NewMockDatabase(ctrl)
				mockDB.EXPECT().PingContext(gomock.Any()).Return(nil)
				return mockDB
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "database connection failed",
			dbSetup: func(ctrl *gomock.Controller) repository.Database {
				mockDB := repository.NewMockDatabase(ctrl)
				mockDB.EXPECT().PingContext(gomock.Any()).Return(errors.New("connection failed"))
				return mockDB
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Database connection failed\n",
		},
		{
			name: "no database configured",
			dbSetup: func(ctrl *gomock.Controller) repository.Database {
				return nil
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Database not configured\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			env := newTestEnv(t, tt.dbSetup(ctrl))

			rec := env.do(httptest.NewRequest(http.MethodGet, "/ping", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedBody, rec.Body.String())
		})
	}
}

func TestHandleStats(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	u, _, err := env.repo.CreateURL(ctx, "https://example.com")
	require.NoError(t, err)
	_, err = env.repo.CreateCheck(ctx, models.URLCheck{URLID: u.ID, StatusCode: 200})
	require.NoError(t, err)

	tests := []struct {
		name           string
		realIP         string
		expectedStatus int
	}{
		{name: "Trusted client", realIP: "10.1.2.3", expectedStatus: http.StatusOK},
		{name: "Untrusted client", realIP: "192.168.1.1", expectedStatus: http.StatusForbidden},
		{name: "No X-Real-IP", expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/internal/stats", nil)
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			rec := env.do(req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var stats models.Stats
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
			assert.Equal(t, models.Stats{URLs: 1, Checks: 1}, stats)
		})
	}
}

func TestHandleStats_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockRepository(ctrl)
	repo.EXPECT().Stats(gomock.Any()).Return(models.Stats{}, errors.New("db error"))

	renderer, err := render.New()
	require.NoError(t, err)
	a := NewApp(service.NewService(repo, nil, zap.NewNop()), nil, renderer, flash.NewStore("s"), zap.NewNop())

	rec := httptest.NewRecorder()
	a.HandleStats(rec, httptest.NewRequest(http.MethodGet, "/api/internal/stats", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestHandleListURLs_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockRepository(ctrl)
	repo.EXPECT().ListURLs(gomock.Any()).Return(nil, errors.New("db error"))

	renderer, err := render.New()
	require.NoError(t, err)
	a := NewApp(service.NewService(repo, nil, zap.NewNop()), nil, renderer, flash.NewStore("s"), zap.NewNop())

	rec := httptest.NewRecorder()
	a.HandleListURLs(rec, httptest.NewRequest(http.MethodGet, "/urls", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgInternalError)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(httptest.NewRequest(http.MethodGet, "/", nil))

	rec := env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
