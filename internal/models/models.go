// Package models содержит сущности анализатора страниц.
package models

import "time"

// URL описывает сохранённый адрес в нормализованном виде scheme://host
type URL struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// URLCheck описывает результат одной проверки адреса
type URLCheck struct {
	ID          int64     `json:"id"`
	URLID       int64     `json:"url_id"`
	StatusCode  int       `json:"status_code"`
	H1          *string   `json:"h1,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ServerError сообщает, что сайт ответил кодом вне диапазонов 2xx и 3xx.
// Такая проверка всё равно сохраняется.
func (c URLCheck) ServerError() bool {
	return c.StatusCode < 200 || c.StatusCode >= 400
}

// URLListItem используется на странице списка: адрес и его последняя проверка
type URLListItem struct {
	URL
	LastCheckAt    *time.Time `json:"last_check_at,omitempty"`
	LastStatusCode *int       `json:"last_status_code,omitempty"`
}

// Stats содержит общее количество адресов и проверок
type Stats struct {
	URLs   int `json:"urls"`
	Checks int `json:"checks"`
}

// FieldErrors хранит ошибки валидации формы по имени поля
type FieldErrors map[string][]string

// Add добавляет сообщение об ошибке для поля
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Empty сообщает, что ошибок нет
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// First возвращает первую ошибку поля или пустую строку
func (e FieldErrors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}
