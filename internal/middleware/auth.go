package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"regexp"
	"strings"

	"owners-health-api/pkg/apierror"
)

// OperatorIDKey is the key for storing the operator identity in request context.
const OperatorIDKey contextKey = "operator_id"

var operatorIDPattern = regexp.MustCompile(`^[A-Za-z0-9._@-]{1,64}$`)

// APIKey returns a middleware that requires one of keys in X-API-Key or
// an Authorization Bearer header. With no keys configured every request
// passes.
func APIKey(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(keys) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				auth := r.Header.Get("Authorization")
				if strings.HasPrefix(auth, "Bearer ") {
					apiKey = strings.TrimPrefix(auth, "Bearer ")
				}
			}

			if apiKey == "" {
				writeError(w, apierror.Unauthorized("Authentication required. Use X-API-Key header."))
				return
			}
			if !isValidKey(apiKey, keys) {
				writeError(w, apierror.Unauthorized("Invalid API key"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Operator requires the X-Operator-ID header and stores it in the request
// context. Every entity lookup is scoped to this identity.
func Operator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Operator-ID"))
		if id == "" {
			writeError(w, apierror.Unauthorized("X-Operator-ID header is required"))
			return
		}
		if !operatorIDPattern.MatchString(id) {
			writeError(w, apierror.BadRequest("X-Operator-ID is malformed"))
			return
		}

		ctx := WithOperatorID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithOperatorID returns a context carrying the operator identity.
func WithOperatorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, OperatorIDKey, id)
}

// GetOperatorID retrieves the operator identity from context.
func GetOperatorID(ctx context.Context) string {
	if id, ok := ctx.Value(OperatorIDKey).(string); ok {
		return id
	}
	return ""
}

// writeError writes an API error response.
func writeError(w http.ResponseWriter, err *apierror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write(err.ToJSON())
}

// isValidKey checks if the provided key is in the valid keys list.
func isValidKey(key string, validKeys []string) bool {
	for _, valid := range validKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(valid)) == 1 {
			return true
		}
	}
	return false
}
