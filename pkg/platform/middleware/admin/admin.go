package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	request "aforo/pkg/platform/middleware/request"
)

// Context key for storing the operator identifier.
type contextKeyOperatorID struct{}

// GetOperatorID retrieves the operator identifier from the context.
// Returns empty string if not set or if this is not an operator request.
func GetOperatorID(ctx context.Context) string {
	if operatorID, ok := ctx.Value(contextKeyOperatorID{}).(string); ok {
		return operatorID
	}
	return ""
}

// RequireAdminToken guards the operator management surface with a shared
// token. Requests must carry the token in X-Admin-Token.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			// Constant-time comparison to prevent timing attacks.
			if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", request.GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}

			ctx := r.Context()
			// Capture the operator identifier for audit attribution.
			if operatorID := r.Header.Get("X-Admin-Actor-ID"); operatorID != "" {
				ctx = context.WithValue(ctx, contextKeyOperatorID{}, operatorID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
