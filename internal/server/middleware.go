package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/goevery/messenger/internal/auth"
	"github.com/goevery/messenger/internal/ierr"
	"github.com/goevery/messenger/internal/persistence"
	"go.uber.org/zap"
)

// AuthMiddleware resolves the bearer token to the current user and places it
// on the request context. The user record is re-fetched on every request so
// revoked accounts drop out immediately.
type AuthMiddleware struct {
	logger        *zap.Logger
	authenticator *auth.Authenticator
	users         persistence.UserStore
}

func NewAuthMiddleware(
	logger *zap.Logger,
	authenticator *auth.Authenticator,
	users persistence.UserStore,
) *AuthMiddleware {
	return &AuthMiddleware{
		logger,
		authenticator,
		users,
	}
}

func (m *AuthMiddleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			m.reject(w, "missing bearer token")
			return
		}

		username, err := m.authenticator.Authenticate(token)
		if err != nil {
			m.reject(w, "could not validate credentials")
			return
		}

		user, err := m.users.FindUserByUsername(r.Context(), username)
		if errors.Is(err, persistence.ErrNotFound) {
			m.reject(w, "could not validate credentials")
			return
		}
		if err != nil {
			m.logger.Error("failed to load current user", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		next(w, r.WithContext(auth.WithCurrentUser(r.Context(), user)))
	}
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	coded := ierr.New(ierr.ErrorCodeUnauthenticated, errors.New(message))
	payload, _ := json.Marshal(coded)
	w.Write(payload)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}

	return token, true
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if r.Method == http.MethodOptions {
			return
		}

		next.ServeHTTP(w, r)
	})
}
