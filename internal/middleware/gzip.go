package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"
)

// minGzipSize меньше этого размера ответ не сжимается
const minGzipSize = 1400

// GzipMiddleware сжимает HTML и JSON ответы, если клиент поддерживает gzip
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Проверка, поддерживает ли клиент сжатие ответа
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gw := &gzipResponseWriter{ResponseWriter: w}
		defer gw.Close()

		next.ServeHTTP(gw, r)
	})
}

// gzipResponseWriter откладывает отправку заголовков до первой записи тела,
// чтобы успеть выставить Content-Encoding
type gzipResponseWriter struct {
	http.ResponseWriter
	gz      *gzip.Writer
	status  int
	decided bool
}

// WriteHeader запоминает код ответа
func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.status == 0 {
		w.status = statusCode
	}
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.decided {
		w.decided = true
		if compressible(w.Header().Get("Content-Type")) && len(b) >= minGzipSize {
			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Add("Vary", "Accept-Encoding")
			w.Header().Del("Content-Length")
			w.gz = gzip.NewWriter(w.ResponseWriter)
		}
		w.writeHeader()
	}

	if w.gz != nil {
		return w.gz.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// Close отправляет отложенные заголовки и закрывает gzip.Writer
func (w *gzipResponseWriter) Close() error {
	if !w.decided {
		w.decided = true
		if w.status != 0 {
			w.writeHeader()
		}
		return nil
	}
	if w.gz != nil {
		return w.gz.Close()
	}
	return nil
}

func (w *gzipResponseWriter) writeHeader() {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.ResponseWriter.WriteHeader(w.status)
}

func compressible(contentType string) bool {
	return strings.HasPrefix(contentType, "text/html") || strings.HasPrefix(contentType, "application/json")
}
