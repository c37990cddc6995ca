// Package app содержит HTTP-обработчики анализатора страниц и маршрутизатор.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tempizhere/pageanalyzer/internal/flash"
	"github.com/tempizhere/pageanalyzer/internal/middleware"
	"github.com/tempizhere/pageanalyzer/internal/render"
	"github.com/tempizhere/pageanalyzer/internal/repository"
	"github.com/tempizhere/pageanalyzer/internal/service"
	"go.uber.org/zap"
)

// FormFieldURL имя поля формы с адресом
const FormFieldURL = "url[name]"

// Тексты уведомлений
const (
	MsgURLAdded         = "Страница успешно добавлена"
	MsgURLExists        = "Страница уже существует"
	MsgCheckDone        = "Страница успешно проверена"
	MsgCheckServerError = "Проверка была выполнена успешно, но сервер ответил с ошибкой"
	MsgCheckFailed      = "Произошла ошибка при проверке, не удалось подключиться"
	MsgNotFound         = "Страница не найдена"
	MsgInternalError    = "Внутренняя ошибка сервера"
	MsgMethodNotAllowed = "Метод не поддерживается"
)

// App содержит хендлеры и зависимости
type App struct {
	svc      *service.Service
	db       repository.Database
	renderer *render.Renderer
	flashes  *flash.Store
	logger   *zap.Logger
}

// NewApp создаёт новое приложение. db может быть nil, если приложение работает без PostgreSQL.
func NewApp(svc *service.Service, db repository.Database, renderer *render.Renderer, flashes *flash.Store, logger *zap.Logger) *App {
	return &App{
		svc:      svc,
		db:       db,
		renderer: renderer,
		flashes:  flashes,
		logger:   logger,
	}
}

// HandleIndex обрабатывает GET-запросы на "/"
func (a *App) HandleIndex(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, render.PageIndex, "Анализатор страниц", render.IndexData{})
}

// HandleListURLs обрабатывает GET-запросы на "/urls"
func (a *App) HandleListURLs(w http.ResponseWriter, r *http.Request) {
	items, err := a.svc.ListURLs(r.Context())
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, render.PageURLs, "Сайты", render.URLsData{Items: items})
}

// HandleShowURL обрабатывает GET-запросы на "/urls/{id}"
func (a *App) HandleShowURL(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		a.HandleNotFound(w, r)
		return
	}

	u, err := a.svc.GetURL(r.Context(), id)
	if errors.Is(err, service.ErrURLNotFound) {
		a.HandleNotFound(w, r)
		return
	}
	if err != nil {
		a.internalError(w, r, err)
		return
	}

	checks, err := a.svc.ListChecks(r.Context(), id)
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, render.PageURL, u.Name, render.URLData{URL: u, Checks: checks})
}

// HandleCreateURL обрабатывает POST-запросы на "/urls"
func (a *App) HandleCreateURL(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.renderError(w, r, http.StatusBadRequest, "Некорректные данные формы")
		return
	}
	raw := r.PostForm.Get(FormFieldURL)

	u, created, err := a.svc.CreateURL(r.Context(), raw)
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		a.render(w, r, http.StatusUnprocessableEntity, render.PageIndex, "Анализатор страниц", render.IndexData{
			Value:  raw,
			Errors: validationErr.Fields[service.FieldName],
		})
		return
	}
	if err != nil {
		a.internalError(w, r, err)
		return
	}

	msg := flash.Message{Type: flash.TypeSuccess, Text: MsgURLAdded}
	if !created {
		msg = flash.Message{Type: flash.TypeInfo, Text: MsgURLExists}
	}
	a.redirectWithFlash(w, r, urlPath(u.ID), msg)
}

// HandleCreateCheck обрабатывает POST-запросы на "/urls/{id}/checks"
func (a *App) HandleCreateCheck(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		a.HandleNotFound(w, r)
		return
	}

	check, err := a.svc.RunCheck(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrURLNotFound):
		a.HandleNotFound(w, r)
	case errors.Is(err, service.ErrConnectionFailed):
		a.redirectWithFlash(w, r, urlPath(id), flash.Message{Type: flash.TypeDanger, Text: MsgCheckFailed})
	case err != nil:
		a.internalError(w, r, err)
	case check.ServerError():
		a.redirectWithFlash(w, r, urlPath(id), flash.Message{Type: flash.TypeWarning, Text: MsgCheckServerError})
	default:
		a.redirectWithFlash(w, r, urlPath(id), flash.Message{Type: flash.TypeSuccess, Text: MsgCheckDone})
	}
}

// HandlePing обрабатывает GET-запросы на "/ping"
func (a *App) HandlePing(w http.ResponseWriter, r *http.Request) {
	if a.db == nil {
		http.Error(w, "Database not configured", http.StatusInternalServerError)
		return
	}
	if err := a.db.PingContext(r.Context()); err != nil {
		a.logger.Error("Database ping failed", zap.Error(err))
		http.Error(w, "Database connection failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleStats обрабатывает GET-запросы на "/api/internal/stats"
func (a *App) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.svc.Stats(r.Context())
	if err != nil {
		a.logger.Error("Failed to get stats", zap.Error(err))
		a.writeJSONResponse(w, http.StatusInternalServerError, struct {
			Error string `json:"error"`
		}{Error: "Internal server error"})
		return
	}
	a.writeJSONResponse(w, http.StatusOK, stats)
}

// HandleNotFound отдаёт страницу 404
func (a *App) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	a.renderError(w, r, http.StatusNotFound, MsgNotFound)
}

// HandleMethodNotAllowed отдаёт страницу 405
func (a *App) HandleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	a.renderError(w, r, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}

func (a *App) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data interface{}) {
	page := render.Page{Title: title, Data: data}
	if msg, ok := middleware.GetFlash(r); ok {
		page.Flash = &msg
	}
	if err := a.renderer.Render(w, status, name, page); err != nil {
		a.logger.Error("Failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, MsgInternalError, http.StatusInternalServerError)
	}
}

func (a *App) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	a.render(w, r, status, render.PageError, message, render.ErrorData{Status: status, Message: message})
}

func (a *App) internalError(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.Error("Request failed",
		zap.String("method", r.Method),
		zap.String("uri", r.RequestURI),
		zap.Error(err))
	a.renderError(w, r, http.StatusInternalServerError, MsgInternalError)
}

func (a *App) redirectWithFlash(w http.ResponseWriter, r *http.Request, location string, msg flash.Message) {
	if err := a.flashes.Set(w, msg); err != nil {
		// Редирект важнее уведомления
		a.logger.Warn("Failed to set flash message", zap.Error(err))
	}
	http.Redirect(w, r, location, http.StatusFound)
}

// writeJSONResponse пишет JSON-ответ с проверкой ошибок
func (a *App) writeJSONResponse(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to encode JSON", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		a.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func urlID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func urlPath(id int64) string {
	return fmt.Sprintf("/urls/%d", id)
}
