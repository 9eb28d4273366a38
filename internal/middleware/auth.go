package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/hongminglow/finance-tracker/internal/auth"
	"github.com/hongminglow/finance-tracker/internal/http/respond"
)

// RequireAuth verifies the bearer token and installs the caller's session in the request context.
// A missing token is 401; a token that fails verification is 403.
func RequireAuth(tokens *auth.TokenManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "token not provided")
			return
		}
		session, err := tokens.Parse(raw)
		if err != nil {
			slog.DebugContext(r.Context(), "token rejected", "request_id", RequestID(r.Context()), "error", err)
			respond.Error(w, http.StatusForbidden, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
