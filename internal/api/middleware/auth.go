package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/kkosolapov/SPA-BookingService/internal/api/handlers"
	"github.com/kkosolapov/SPA-BookingService/internal/domain"
)

const (
	headerUserID     = "X-User-ID"
	headerUserRole   = "X-User-Role"
	headerResourceID = "X-Resource-ID"

	msgMissingUserID   = "отсутствует заголовок X-User-ID"
	msgInvalidUserID   = "некорректный заголовок X-User-ID"
	msgInvalidRole     = "некорректный заголовок X-User-Role"
	msgInvalidResource = "некорректный заголовок X-Resource-ID"
)

type contextKey string

const actorKey contextKey = "actor"

// Auth требует аутентифицированного пользователя: заголовок X-User-ID
// обязателен. Роль и ресурс берутся из X-User-Role и X-Resource-ID.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(headerUserID) == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		actor, msg := actorFromHeaders(r)
		if msg != "" {
			handlers.RespondUnauthorized(w, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	})
}

// AuthOptional пропускает запросы без X-User-ID как гостевые
// (actor с UserID = 0 и ролью customer).
func AuthOptional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(headerUserID) == "" {
			guest := domain.Actor{Role: domain.RoleCustomer}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, guest)))
			return
		}

		actor, msg := actorFromHeaders(r)
		if msg != "" {
			handlers.RespondUnauthorized(w, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	})
}

// GetActor извлекает актора из контекста запроса
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

func actorFromHeaders(r *http.Request) (domain.Actor, string) {
	userID, err := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64)
	if err != nil || userID <= 0 {
		return domain.Actor{}, msgInvalidUserID
	}

	role, err := domain.ParseRole(r.Header.Get(headerUserRole))
	if err != nil {
		return domain.Actor{}, msgInvalidRole
	}

	actor := domain.Actor{UserID: userID, Role: role}

	if raw := r.Header.Get(headerResourceID); raw != "" {
		resourceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || resourceID <= 0 {
			return domain.Actor{}, msgInvalidResource
		}
		actor.ResourceID = &resourceID
	}

	return actor, ""
}
