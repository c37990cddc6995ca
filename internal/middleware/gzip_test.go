package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGzipMiddleware(t *testing.T) {
	largeHTML := "<html><body>" + strings.Repeat("<p>строка</p>", 200) + "</body></html>"

	tests := []struct {
		name           string
		acceptEncoding string
		contentType    string
		status         int
		body           string
		expectGzip     bool
	}{
		{
			name:        "Client without gzip",
			contentType: "text/html; charset=utf-8",
			status:      http.StatusOK,
			body:        largeHTML,
		},
		{
			name:           "Large HTML compressed",
			acceptEncoding: "gzip, deflate",
			contentType:    "text/html; charset=utf-8",
			status:         http.StatusOK,
			body:           largeHTML,
			expectGzip:     true,
		},
		{
			name:           "Status kept for compressed 422",
			acceptEncoding: "gzip",
			contentType:    "text/html; charset=utf-8",
			status:         http.StatusUnprocessableEntity,
			body:           largeHTML,
			expectGzip:     true,
		},
		{
			name:           "Small response not compressed",
			acceptEncoding: "gzip",
			contentType:    "application/json",
			status:         http.StatusOK,
			body:           `{"urls":1}`,
		},
		{
			name:           "Unsupported content type",
			acceptEncoding: "gzip",
			contentType:    "image/png",
			status:         http.StatusOK,
			body:           strings.Repeat("x", 2000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := GzipMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))

			if !tt.expectGzip {
				assert.Equal(t, "", rec.Header().Get("Content-Encoding"))
				assert.Equal(t, tt.body, rec.Body.String())
				return
			}

			assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
			gz, err := gzip.NewReader(rec.Body)
			require.NoError(t, err)
			decoded, err := io.ReadAll(gz)
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(decoded))
		})
	}
}

func TestGzipMiddleware_RedirectWithoutBody(t *testing.T) {
	handler := GzipMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/urls/1", http.StatusFound)
	}))

	req := httptest.NewRequest(http.MethodPost, "/urls", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/urls/1", rec.Header().Get("Location"))
	assert.Equal(t, "", rec.Header().Get("Content-Encoding"))
}

func TestGzipResponseWriter_CloseWithoutWrites(t *testing.T) {
	rec := httptest.NewRecorder()
	gw := &gzipResponseWriter{ResponseWriter: rec}

	assert.NoError(t, gw.Close())
	assert.Equal(t, 0, rec.Body.Len())
}
