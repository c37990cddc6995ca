// Package fetcher выполняет одиночный GET-запрос к проверяемому сайту с помощью colly.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// DefaultTimeout ограничивает и установку соединения, и запрос целиком
const DefaultTimeout = 10 * time.Second

// ErrConnectionFailed означает, что HTTP-ответ не был получен
var ErrConnectionFailed = errors.New("connection failed")

// Config управляет поведением коллектора
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Response содержит код ответа и тело страницы
type Response struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Fetcher загружает страницы через colly. Редиректы не выполняются,
// ответ с любым HTTP-кодом считается успешным.
type Fetcher struct {
	cfg       Config
	transport *http.Transport
	logger    *zap.Logger
}

// New создаёт Fetcher. Транспорт общий для всех запросов, коллектор создаётся на каждый запрос.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Fetcher{
		cfg:       cfg,
		transport: newHTTPTransport(cfg.Timeout),
		logger:    logger,
	}
}

// newCollector создаёт коллектор, запросы которого отменяются вместе с ctx
func (f *Fetcher) newCollector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.Async(false),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
	)
	c.WithTransport(f.transport)
	c.SetRequestTimeout(f.cfg.Timeout)
	c.SetRedirectHandler(func(_ *http.Request, _ []*http.Request) error {
		return http.ErrUseLastResponse
	})
	if f.cfg.UserAgent != "" {
		c.UserAgent = f.cfg.UserAgent
	}
	return c
}

// Fetch выполняет GET-запрос. Ошибка транспорта или отмена ctx оборачивает ErrConnectionFailed.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Response, error) {
	var (
		result   Response
		got      bool
		fetchErr error
	)
	start := time.Now()

	collector := f.newCollector(ctx)
	collector.OnResponse(func(r *colly.Response) {
		result = Response{
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
		got = true
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	err := collector.Visit(url)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrConnectionFailed, ctxErr)
	}
	if err == nil {
		err = fetchErr
	}
	if err != nil {
		f.logger.Info("Fetch failed", zap.String("url", url), zap.Error(err))
		return Response{}, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	if !got {
		return Response{}, fmt.Errorf("%w: no response received", ErrConnectionFailed)
	}
	f.logger.Debug("Fetched page",
		zap.String("url", url),
		zap.Int("status", result.StatusCode),
		zap.Int("size", len(result.Body)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func newHTTPTransport(timeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
