package http

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"sharewardrobe-backend/internal/apperror"
	"sharewardrobe-backend/internal/config"
	"sharewardrobe-backend/internal/domain"
	"sharewardrobe-backend/internal/logger"
	"sharewardrobe-backend/internal/security"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type userCtxKey struct{}

// UserFromContext returns the authenticated user set by the auth middleware.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(*domain.User)
	return u, ok
}

func withUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// RequestID propagates X-Request-ID or generates one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), requestID)))
	})
}

// Recovery turns panics into 500 responses.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "Panic recovered", "panic", rec, "stack", string(debug.Stack()))
				writeError(w, r, apperror.Wrap(apperror.KindInternal, nil, "panic"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logging writes one line per request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// UserLookup loads the current state of an authenticated user.
type UserLookup interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

// AuthMiddleware enforces the security level of the matched route. It must
// be installed with Router.Use so the route is known.
type AuthMiddleware struct {
	tokens security.TokenManager
	users  UserLookup
}

func NewAuthMiddleware(tokens security.TokenManager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}
		level := config.GetSecurityLevel(name)
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.authenticate(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if level == config.SecurityAdmin && !user.IsAdmin() {
			writeError(w, r, apperror.Forbidden("Admin access required"))
			return
		}

		logger.DebugContext(r.Context(), "Request authenticated", "route", name, "userID", user.ID)
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*domain.User, error) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, apperror.Unauthorized("Authorization token is not provided")
	}

	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid token: %v", err)
	}

	user, err := m.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.Unauthorized("User no longer exists")
		}
		return nil, err
	}

	switch user.Status {
	case domain.UserStatusDeleted:
		return nil, apperror.Unauthorized("User no longer exists")
	case domain.UserStatusSuspended, domain.UserStatusInactive:
		return nil, apperror.Forbidden("Account is %s", user.Status)
	}
	return user, nil
}

// currentUser is only called behind the auth middleware.
func currentUser(r *http.Request) *domain.User {
	u, _ := UserFromContext(r.Context())
	return u
}
