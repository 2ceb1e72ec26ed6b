package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"kadry/pkg/requestcontext"
)

// AccessTokenCookie is where browser clients carry the access token; API
// clients use the Authorization header instead. Header wins when both are set.
const AccessTokenCookie = "access_token"

// TokenValidator validates an access token and returns the user it belongs to.
type TokenValidator interface {
	Validate(tokenString, wantType string) (int64, error)
}

// RequireAuth rejects unauthenticated requests and puts the authenticated
// user on the context as the acting user for history attribution.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
					token = cookie.Value
				}
			}
			if token == "" {
				unauthorized(w)
				return
			}

			userID, err := validator.Validate(token, "access")
			if err != nil {
				logger.WarnContext(r.Context(), "rejected token",
					slog.String("request_id", requestcontext.RequestID(r.Context())),
					slog.Any("error", err),
				)
				unauthorized(w)
				return
			}

			ctx := requestcontext.WithActorID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
