// Package service содержит бизнес-логику анализатора: добавление адресов и их проверку.
package service

//go:generate mockgen -source=service.go -destination=mock_fetcher.go -package=service Fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tempizhere/pageanalyzer/internal/extractor"
	"github.com/tempizhere/pageanalyzer/internal/fetcher"
	"github.com/tempizhere/pageanalyzer/internal/metrics"
	"github.com/tempizhere/pageanalyzer/internal/models"
	"github.com/tempizhere/pageanalyzer/internal/repository"
	"go.uber.org/zap"
)

var (
	// ErrURLNotFound возвращается для неизвестного ID адреса
	ErrURLNotFound = errors.New("url not found")
	// ErrConnectionFailed возвращается, если сайт не ответил
	ErrConnectionFailed = fetcher.ErrConnectionFailed
)

// ValidationError содержит ошибки введённых данных по полям формы
type ValidationError struct {
	Fields models.FieldErrors
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, list := range e.Fields {
		msgs = append(msgs, field+": "+strings.Join(list, ", "))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Fetcher загружает страницу по адресу
type Fetcher interface {
	Fetch(ctx context.Context, url string) (fetcher.Response, error)
}

// Service реализует логику работы с адресами и проверками
type Service struct {
	repo    repository.Repository
	fetcher Fetcher
	logger  *zap.Logger
}

// NewService создаёт новый экземпляр Service
func NewService(repo repository.Repository, f Fetcher, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		fetcher: f,
		logger:  logger,
	}
}

// CreateURL нормализует адрес и сохраняет его или возвращает уже существующий.
// При некорректном вводе возвращается *ValidationError.
func (s *Service) CreateURL(ctx context.Context, raw string) (models.URL, bool, error) {
	name, fieldErrs := NormalizeURL(raw)
	if !fieldErrs.Empty() {
		return models.URL{}, false, &ValidationError{Fields: fieldErrs}
	}

	u, created, err := s.repo.CreateURL(ctx, name)
	if err != nil {
		return models.URL{}, false, err
	}
	if created {
		metrics.ObserveURLCreated()
		s.logger.Info("URL added", zap.Int64("id", u.ID), zap.String("name", u.Name))
	}
	return u, created, nil
}

// GetURL возвращает адрес по ID
func (s *Service) GetURL(ctx context.Context, id int64) (models.URL, error) {
	u, err := s.repo.FindURL(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.URL{}, ErrURLNotFound
	}
	if err != nil {
		return models.URL{}, err
	}
	return u, nil
}

// ListURLs возвращает все адреса с последней проверкой
func (s *Service) ListURLs(ctx context.Context) ([]models.URLListItem, error) {
	return s.repo.ListURLs(ctx)
}

// ListChecks возвращает историю проверок адреса
func (s *Service) ListChecks(ctx context.Context, urlID int64) ([]models.URLCheck, error) {
	return s.repo.ListChecks(ctx, urlID)
}

// RunCheck загружает страницу адреса и сохраняет результат проверки.
// Любой HTTP-ответ сохраняется. Если соединиться не удалось, ничего не записывается
// и возвращается ошибка, оборачивающая ErrConnectionFailed.
func (s *Service) RunCheck(ctx context.Context, urlID int64) (models.URLCheck, error) {
	u, err := s.GetURL(ctx, urlID)
	if err != nil {
		return models.URLCheck{}, err
	}

	resp, err := s.fetcher.Fetch(ctx, u.Name)
	if err != nil {
		metrics.ObserveCheck(metrics.OutcomeConnectionFailed, 0)
		s.logger.Warn("Check failed: no response", zap.Int64("url_id", u.ID), zap.String("name", u.Name), zap.Error(err))
		return models.URLCheck{}, fmt.Errorf("check %s: %w", u.Name, err)
	}

	meta := extractor.Extract(resp.Body)
	check, err := s.repo.CreateCheck(ctx, models.URLCheck{
		URLID:       u.ID,
		StatusCode:  resp.StatusCode,
		H1:          meta.H1,
		Title:       meta.Title,
		Description: meta.Description,
	})
	if err != nil {
		return models.URLCheck{}, err
	}

	outcome := metrics.OutcomeSuccess
	if check.ServerError() {
		outcome = metrics.OutcomeServerError
	}
	metrics.ObserveCheck(outcome, resp.Duration)
	s.logger.Info("URL checked",
		zap.Int64("url_id", u.ID),
		zap.Int64("check_id", check.ID),
		zap.Int("status_code", check.StatusCode),
	)
	return check, nil
}

// Stats возвращает количество адресов и проверок
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	return s.repo.Stats(ctx)
}
