// Package proto содержит описание gRPC сервиса анализатора страниц и типы его сообщений.
// Сообщения передаются в JSON, поэтому описаны обычными структурами.
package proto

import "github.com/tempizhere/pageanalyzer/internal/models"

// CreateURLRequest запрос на добавление адреса
type CreateURLRequest struct {
	URL string `json:"url"`
}

// CreateURLResponse добавленный или уже существующий адрес
type CreateURLResponse struct {
	URL     models.URL `json:"url"`
	Created bool       `json:"created"`
}

// GetURLRequest запрос адреса по ID
type GetURLRequest struct {
	ID int64 `json:"id"`
}

// GetURLResponse адрес с историей проверок, новые первыми
type GetURLResponse struct {
	URL    models.URL        `json:"url"`
	Checks []models.URLCheck `json:"checks"`
}

// ListURLsRequest запрос списка адресов
type ListURLsRequest struct{}

// ListURLsResponse все адреса с последней проверкой
type ListURLsResponse struct {
	URLs []models.URLListItem `json:"urls"`
}

// RunCheckRequest запрос на проверку адреса
type RunCheckRequest struct {
	ID int64 `json:"id"`
}

// RunCheckResponse сохранённый результат проверки
type RunCheckResponse struct {
	Check models.URLCheck `json:"check"`
}

// GetStatsRequest запрос статистики
type GetStatsRequest struct{}

// GetStatsResponse количество адресов и проверок
type GetStatsResponse struct {
	Stats models.Stats `json:"stats"`
}
