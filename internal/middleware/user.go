package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/2beens/liftledger/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// UserIDHeader carries the identifier of the acting user. It is trusted as
// given; authentication happens in front of this service.
const UserIDHeader = "X-User-ID"

type userIDKey struct{}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFrom returns the user id stored by RequireUser, or "".
func UserIDFrom(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey{}).(string)
	return userID
}

type UserMiddlewareHandler struct {
	publicPaths         map[string]bool
	publicPathsPrefixes []string
}

func NewUserMiddlewareHandler() *UserMiddlewareHandler {
	return &UserMiddlewareHandler{
		publicPaths: map[string]bool{
			"/ping":    true,
			"/modes":   true,
			"/version": true,
		},
		publicPathsPrefixes: []string{
			"/modes/",
		},
	}
}

func (h *UserMiddlewareHandler) pathIsPublic(path string) bool {
	if h.publicPaths[path] {
		return true
	}
	for _, prefix := range h.publicPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequireUser rejects requests to non public paths that carry no user id and
// stores the id in the request context otherwise.
func (h *UserMiddlewareHandler) RequireUser() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.user")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.pathIsPublic(r.URL.Path) {
				span.SetStatus(codes.Ok, "public")
				next.ServeHTTP(w, r)
				return
			}

			userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
			if userID == "" {
				log.Tracef("[missing user id] [user middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "missing user id", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-user-id")
				return
			}

			span.SetAttributes(attribute.String("user", userID))
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(WithUserID(ctx, userID)))
		})
	}
}
