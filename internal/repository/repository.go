// Package repository содержит хранилища адресов и результатов их проверок.
// Поддерживаются PostgreSQL, файл в формате JSON Lines и память процесса.
package repository

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tempizhere/pageanalyzer/internal/models"
)

// ErrNotFound возвращается, если запись с указанным ID отсутствует
var ErrNotFound = errors.New("record not found")

// Repository определяет интерфейс для работы с хранилищем адресов и проверок
type Repository interface {
	// CreateURL сохраняет адрес или возвращает существующий с тем же именем.
	// Второе значение равно true, если запись была создана.
	CreateURL(ctx context.Context, name string) (models.URL, bool, error)
	// FindURL возвращает адрес по ID или ErrNotFound
	FindURL(ctx context.Context, id int64) (models.URL, error)
	// ListURLs возвращает все адреса вместе с последней проверкой, новые первыми
	ListURLs(ctx context.Context) ([]models.URLListItem, error)
	// CreateCheck добавляет результат проверки и возвращает его с ID и временем создания
	CreateCheck(ctx context.Context, check models.URLCheck) (models.URLCheck, error)
	// ListChecks возвращает проверки адреса, новые первыми
	ListChecks(ctx context.Context, urlID int64) ([]models.URLCheck, error)
	// Stats возвращает количество адресов и проверок
	Stats(ctx context.Context) (models.Stats, error)
}

// Database определяет интерфейс для работы с базой данных
type Database interface {
	// PingContext проверяет соединение с базой данных
	PingContext(ctx context.Context) error
	// Close закрывает соединение с базой данных
	Close() error
	// ExecContext выполняет SQL-команду без возврата результатов
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	// QueryContext выполняет SQL-запрос и возвращает результаты
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	// QueryRowContext выполняет SQL-запрос и возвращает одну строку результата
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
