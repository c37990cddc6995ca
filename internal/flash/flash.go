// Package flash хранит одноразовые уведомления между POST-запросом и редиректом.
// Уведомление передаётся в подписанной JWT-куке и удаляется при первом чтении.
package flash

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Типы уведомлений совпадают с классами alert в шаблонах
const (
	TypeSuccess = "success"
	TypeInfo    = "info"
	TypeWarning = "warning"
	TypeDanger  = "danger"
)

// CookieName имя куки с уведомлением
const CookieName = "flash"

const cookieTTL = 5 * time.Minute

// Message одно уведомление
type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claims struct {
	jwt.RegisteredClaims
	Message
}

// Store подписывает и проверяет куки с уведомлениями
type Store struct {
	secret []byte
	now    func() time.Time
}

// NewStore создаёт хранилище уведомлений
func NewStore(secret string) *Store {
	return &Store{secret: []byte(secret), now: time.Now}
}

// Set записывает уведомление в куку ответа
func (s *Store) Set(w http.ResponseWriter, msg Message) error {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cookieTTL)),
		},
		Message: msg,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("sign flash: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(cookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop читает уведомление из запроса и удаляет куку.
// Второе значение false, если куки нет или подпись неверна.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) (Message, bool, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Message{}, false, nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	msg, err := s.parse(cookie.Value)
	if err != nil {
		return Message{}, false, err
	}
	return msg, true, nil
}

func (s *Store) parse(value string) (Message, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(value, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return Message{}, fmt.Errorf("parse flash: %w", err)
	}
	if !token.Valid {
		return Message{}, errors.New("invalid flash token")
	}
	return c.Message, nil
}

type contextKey struct{}

// WithMessage кладёт уведомление в контекст
func WithMessage(ctx context.Context, msg Message) context.Context {
	return context.WithValue(ctx, contextKey{}, msg)
}

// FromContext достаёт уведомление из контекста
func FromContext(ctx context.Context) (Message, bool) {
	msg, ok := ctx.Value(contextKey{}).(Message)
	return msg, ok
}
