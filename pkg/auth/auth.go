package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"serveza.dev/Serveza/pkg/model"
)

type UserKey struct{}

type userSource interface {
	GetUserByAPIToken(ctx context.Context, token string) (*model.User, error)
}

type Manager struct {
	users  userSource
	logger *zap.Logger
}

func NewAuthManager(users userSource, logger *zap.Logger) *Manager {
	return &Manager{users: users, logger: logger}
}

// CurrentUser returns the authenticated caller stashed by the middleware.
func CurrentUser(ctx context.Context) (*model.User, bool) {
	user, found := ctx.Value(UserKey{}).(*model.User)

	return user, found
}

// Optional resolves the caller from the request credential when one is
// supplied and valid, and lets the request through either way.
func (a *Manager) Optional() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if user := a.resolveUser(request); user != nil {
				ctx := context.WithValue(request.Context(), UserKey{}, user)
				request = request.WithContext(ctx)
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// Required rejects with 403 unless Optional already attached a caller.
func (a *Manager) Required() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if _, found := CurrentUser(request.Context()); !found {
				a.logger.Info("rejecting unauthenticated request", zap.String("path", request.URL.Path))

				writer.Header().Set("Content-Type", "application/json; charset=utf-8")
				writer.WriteHeader(http.StatusForbidden)
				_, _ = writer.Write([]byte(`{"message":"authentication required"}`))

				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

func (a *Manager) resolveUser(request *http.Request) *model.User {
	token := extractToken(request)
	if len(token) == 0 {
		return nil
	}

	user, err := a.users.GetUserByAPIToken(request.Context(), token)
	if err != nil {
		a.logger.Error("error resolving api token", zap.Error(err))

		return nil
	}

	return user
}

const (
	basicPrefix  = "Basic "
	bearerPrefix = "Bearer "
)

// extractToken looks for the credential as an api_token query or form
// parameter first, then in the Authorization header, either bare behind
// Bearer or base64-encoded behind Basic.
func extractToken(request *http.Request) string {
	if token := request.FormValue("api_token"); len(token) > 0 {
		return token
	}

	authorization := request.Header.Get("Authorization")

	if token, found := strings.CutPrefix(authorization, bearerPrefix); found {
		return token
	}

	if encoded, found := strings.CutPrefix(authorization, basicPrefix); found {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return encoded
		}

		return strings.TrimSuffix(string(decoded), ":")
	}

	return ""
}
