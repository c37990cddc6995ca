package service

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/tempizhere/pageanalyzer/internal/models"
)

// Имя поля формы и сообщения валидации
const (
	FieldName = "name"

	MaxURLLength = 255

	MsgEmptyURL   = "URL must not be empty"
	MsgURLTooLong = "URL must not exceed 255 characters"
	MsgInvalidURL = "Invalid URL"
)

// NormalizeURL проверяет введённый адрес и приводит его к виду scheme://host.
// Ошибки возвращаются как сообщения по полям, а не как error.
func NormalizeURL(raw string) (string, models.FieldErrors) {
	errs := models.FieldErrors{}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs.Add(FieldName, MsgEmptyURL)
		return "", errs
	}
	if utf8.RuneCountInString(raw) > MaxURLLength {
		errs.Add(FieldName, MsgURLTooLong)
	}

	u, err := url.Parse(raw)
	if err != nil || !isHTTPScheme(u.Scheme) || u.Hostname() == "" {
		errs.Add(FieldName, MsgInvalidURL)
	}
	if !errs.Empty() {
		return "", errs
	}

	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), nil
}

func isHTTPScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "http", "https":
		return true
	}
	return false
}
