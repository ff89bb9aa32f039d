package visitor

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/2beens/mmtreino/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	CookieName   = "mm_user_session"
	CookieMaxAge = 365 * 24 * time.Hour
)

var ErrNoVisitor = errors.New("visitor identity missing")

type ctxKey struct{}

var assetExtensions = map[string]bool{
	".css": true, ".js": true, ".map": true, ".ico": true, ".png": true,
	".jpg": true, ".jpeg": true, ".gif": true, ".svg": true, ".webp": true,
	".woff": true, ".woff2": true, ".ttf": true, ".txt": true, ".xml": true,
}

// IsAsset reports paths of static files, which never need an identity.
func IsAsset(p string) bool {
	if strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/_next/") {
		return true
	}
	return assetExtensions[strings.ToLower(path.Ext(p))]
}

// Identify makes sure every non-asset request carries a visitor identity.
// A request without the cookie, or with a value that is not a canonical
// UUID, gets a fresh token, set on the response and visible in the request
// context right away.
func Identify(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsAsset(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if c, err := r.Cookie(CookieName); err == nil && validID(c.Value) {
				next.ServeHTTP(w, r.WithContext(WithID(r.Context(), c.Value)))
				return
			}

			id := uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(CookieMaxAge.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			log.Tracef("new visitor: %s", id)
			tracing.SpanFromRequestContext(r.Context()).SetAttributes(attribute.Bool("visitor.new", true))

			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}

// validID accepts only the 36 character UUID form the server issues, which
// also keeps the id within the user_sessions key column.
func validID(v string) bool {
	if len(v) != 36 {
		return false
	}
	_, err := uuid.Parse(v)
	return err == nil
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok || id == "" {
		return "", ErrNoVisitor
	}
	return id, nil
}
