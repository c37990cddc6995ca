package middleware

import (
	"net/http"

	"github.com/tempizhere/pageanalyzer/internal/flash"
	"go.uber.org/zap"
)

// FlashMiddleware достаёт уведомление из куки, удаляет куку и кладёт уведомление в контекст.
// Кука с неверной подписью просто игнорируется.
func FlashMiddleware(store *flash.Store, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Уведомление показывается только на странице после редиректа
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			msg, ok, err := store.Pop(w, r)
			if err != nil {
				logger.Warn("Invalid flash cookie", zap.Error(err))
			}
			if ok {
				r = r.WithContext(flash.WithMessage(r.Context(), msg))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetFlash извлекает уведомление из контекста запроса
func GetFlash(r *http.Request) (flash.Message, bool) {
	return flash.FromContext(r.Context())
}
