package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyEmail  contextKey = "email"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// limiterStore holds one token bucket per client IP.
type limiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

var ipLimiters = &limiterStore{limiters: make(map[string]*rate.Limiter)}

// Fallbacks for zero-valued rate config; a zero rate would otherwise divide
// by zero and a zero burst would reject every request.
const (
	defaultRatePerMin = 100
	defaultRateBurst  = 20
)

func (ls *limiterStore) getLimiter(ip string, perMin, burst uint) *rate.Limiter {
	if perMin == 0 {
		perMin = defaultRatePerMin
	}
	if burst == 0 {
		burst = defaultRateBurst
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	limiter, exists := ls.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), int(burst))
		ls.limiters[ip] = limiter
	}
	return limiter
}

// RateLimit rejects clients that exceed the configured per-IP request rate.
func (s *Service) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		limiter := ipLimiters.getLimiter(ip, s.config.RateLimitPerMin, s.config.RateLimitBurst)
		if !limiter.Allow() {
			s.logger.WithField("ip", ip).Warn("rate limit exceeded")
			s.respondError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
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

// RequireAuth verifies the bearer token (or the session cookie fallback for
// browser clients) and adds the user identity to the request context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, ok := s.bearerToken(r)
		if !ok {
			s.respondError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		token, err := jwt.Parse(
			[]byte(accessToken),
			jwt.WithKey(jwa.HS256(), []byte(s.config.JWTSecret)),
			jwt.WithValidate(true),
		)
		if err != nil {
			s.logger.WithError(err).Debug("failed to parse JWT")
			s.respondError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		userID, ok := token.Subject()
		if !ok || userID == "" {
			s.logger.Error("no user ID in JWT subject claim")
			s.respondError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		var email string
		if err := token.Get("email", &email); err != nil {
			s.logger.WithError(err).Debug("no email claim in JWT")
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, contextKeyUserID, userID)
		if email != "" {
			ctx = context.WithValue(ctx, contextKeyEmail, email)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken prefers the Authorization header and falls back to the
// encrypted session cookie.
func (s *Service) bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token != "" {
			return token, true
		}
	}

	cookie, err := r.Cookie(s.config.CookieName)
	if err != nil {
		return "", false
	}

	var token string
	if err := s.cookie.Decode(s.config.CookieName, cookie.Value, &token); err != nil {
		s.logger.WithError(err).Debug("failed to decrypt session cookie")
		return "", false
	}

	return token, true
}
