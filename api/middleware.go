package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/kordano/jobly/pkg/apperr"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

// Identity is the verified claim set attached to a request by AuthMiddleware.
type Identity struct {
	Username string
	IsAdmin  bool
}

// IdentityFrom returns the authenticated identity, if any.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxIdentity).(*Identity)
	return id, ok
}

// package-level logger used by middleware and helpers; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the api package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("request",
			slog.String("request_id", uuid.NewString()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
		)
		next.ServeHTTP(w, r)
	})
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic", slog.Any("err", err))
				writeJSON(w, errorBody{Status: http.StatusInternalServerError, Message: "internal server error"}, http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// maxBodyBytes caps what the auth middleware will buffer from a request body.
const maxBodyBytes = 1 << 20

// AuthMiddleware verifies the identity credential sent in the request body
// under "_token" (query parameter "_token" for bodyless requests) and, when
// valid, attaches the identity to the context. A missing or invalid token is
// not an error here: the request proceeds as anonymous until a guard runs.
func AuthMiddleware(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}

				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}

			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				id := &Identity{}
				if v, found := claims["username"]; found {
					if s, ok := v.(string); ok {
						id.Username = s
					}
				}
				if v, found := claims["is_admin"]; found {
					if b, ok := v.(bool); ok {
						id.IsAdmin = b
					}
				}
				if id.Username != "" {
					r = r.WithContext(context.WithValue(r.Context(), ctxIdentity, id))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken pulls "_token" out of a JSON body, restoring the body for the
// handler, and falls back to the query string.
func extractToken(r *http.Request) string {
	if r.Body != nil && r.Body != http.NoBody {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		r.Body.Close()
		if err == nil {
			r.Body = io.NopCloser(bytes.NewReader(body))
			var probe struct {
				Token string `json:"_token"`
			}
			if json.Unmarshal(body, &probe) == nil && probe.Token != "" {
				return probe.Token
			}
		}
	}

	return r.URL.Query().Get("_token")
}

// requireLoggedIn gates a handler on any authenticated identity.
func requireLoggedIn(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			writeError(w, apperr.Unauthorized("must be logged in"))
			return
		}
		next(w, r)
	}
}

// requireAdmin gates a handler on an admin identity.
func requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok || !id.IsAdmin {
			writeError(w, apperr.Unauthorized("must be an admin"))
			return
		}
		next(w, r)
	}
}

// requireSelfOrAdmin gates a handler on the identity matching the named path
// variable, or an admin identity.
func requireSelfOrAdmin(pathVar string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok || (!id.IsAdmin && id.Username != mux.Vars(r)[pathVar]) {
			writeError(w, apperr.Unauthorized("unauthorized"))
			return
		}
		next(w, r)
	}
}
