package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/config"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/security"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, reusing the caller's when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging writes one line per request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.FromContext(r.Context()).Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// Recovery turns a panic into a 500 response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.FromContext(r.Context()).Error("Panic while serving request",
					"panic", rec,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				writeError(w, r, domain.NewServerError("panic", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// UserGetter loads the account behind a token.
type UserGetter interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

// Authenticator checks bearer tokens and role access for routes on the router.
type Authenticator struct {
	tokens security.TokenManager
	users  UserGetter
}

func NewAuthenticator(tokens security.TokenManager, users UserGetter) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Middleware must be installed with mux's Use so the matched route is known.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		policy := routePolicy(r)
		if policy.Level == config.AccessPublic {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			writeError(w, r, domain.NewUnauthorizedError(domain.CodeUnauthenticated, "Access token required"))
			return
		}
		claims, err := a.tokens.ValidateToken(token)
		if err != nil {
			logger.FromContext(r.Context()).Debug("Token rejected", "error", err)
			writeError(w, r, domain.NewUnauthorizedError(domain.CodeUnauthenticated, "Invalid or expired token"))
			return
		}

		user, err := a.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, r, domain.NewUnauthorizedError(domain.CodeUnauthenticated, "User no longer exists"))
				return
			}
			writeError(w, r, domain.NewServerError("load token user", err))
			return
		}
		if !user.IsActive {
			writeError(w, r, domain.NewForbiddenError(domain.CodeUserInactive, "User is deactivated"))
			return
		}

		if !policy.Allows(user.Role) {
			writeError(w, r, domain.NewForbiddenError(domain.CodeForbidden, "Access denied"))
			return
		}

		// The stored role wins over the one signed into the token.
		claims.Role = user.Role
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func routePolicy(r *http.Request) config.RoutePolicy {
	route := mux.CurrentRoute(r)
	if route == nil {
		return config.GetRoutePolicy(r.Method, r.URL.Path)
	}
	template, err := route.GetPathTemplate()
	if err != nil {
		return config.GetRoutePolicy(r.Method, r.URL.Path)
	}
	return config.GetRoutePolicy(r.Method, template)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles a route per client IP with a token bucket.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
}

// NewRateLimiter allows perMinute requests per client with the given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		idle:    30 * time.Minute,
		now:     time.Now,
	}
}

// Run evicts idle clients every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.cleanup(); n > 0 {
				logger.Debug("Rate limiter cleanup", "removed", n)
			}
		}
	}
}

func (rl *RateLimiter) cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for id, c := range rl.clients {
		if rl.now().Sub(c.lastSeen) > rl.idle {
			delete(rl.clients, id)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) allow(client string) bool {
	now := rl.now()
	rl.mu.Lock()
	c, ok := rl.clients[client]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[client] = c
	}
	c.lastSeen = now
	rl.mu.Unlock()
	return c.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientIP(r)
		if !rl.allow(client) {
			logger.FromContext(r.Context()).Warn("Rate limit exceeded", "client", client, "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorEnvelope{Error: errorBody{
				Kind:    domain.KindValidation,
				Code:    domain.CodeRateLimited,
				Message: "Too many attempts, try again later",
			}})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
