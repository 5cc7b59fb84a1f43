package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/services"
	"github.com/go-chi/chi/v5"
)

type contextKey string

const identityContextKey contextKey = "identity"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// IdentityResolver turns a session token into the caller's identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*models.Identity, error)
}

// SessionCookies writes and clears the session cookie.
type SessionCookies struct {
	Secure bool
}

func (c SessionCookies) Set(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c SessionCookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Authenticate resolves the caller once per request and stores it in the
// context. It never rejects: a missing or stale session makes the request a
// guest request, and a stale cookie is cleared.
func Authenticate(resolver IdentityResolver, cookies SessionCookies, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromCookie := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := resolver.ResolveIdentity(r.Context(), token)
			if err != nil {
				if !errors.Is(err, services.ErrInvalidToken) && !errors.Is(err, services.ErrUserNotFound) {
					logger.ErrorContext(r.Context(), "failed to resolve session", slog.Any("error", err))
				}
				if fromCookie {
					cookies.Clear(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionToken prefers the Authorization header over the cookie.
func sessionToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1]), false
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}

// GetIdentityFromContext returns nil for guests.
func GetIdentityFromContext(ctx context.Context) *models.Identity {
	identity, _ := ctx.Value(identityContextKey).(*models.Identity)
	return identity
}

// WithIdentity is used by tests and by code that already resolved the caller.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetIdentityFromContext(r.Context()) == nil {
			writeGuardError(w, r, services.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClubGuard builds per-club guards reading the club id from the named URL
// parameter.
type ClubGuard struct {
	Gate  services.AccessGate
	Param string
}

func (g ClubGuard) RequireLeader(next http.Handler) http.Handler {
	return g.wrap(next, g.Gate.RequireClubLeader)
}

func (g ClubGuard) RequireMember(next http.Handler) http.Handler {
	return g.wrap(next, g.Gate.RequireClubMember)
}

type clubCheck func(ctx context.Context, identity *models.Identity, clubID int) (*models.Club, error)

func (g ClubGuard) wrap(next http.Handler, check clubCheck) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clubID, err := strconv.Atoi(chi.URLParam(r, g.Param))
		if err != nil || clubID <= 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid club ID format")
			return
		}
		if _, err := check(r.Context(), GetIdentityFromContext(r.Context()), clubID); err != nil {
			writeGuardError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
