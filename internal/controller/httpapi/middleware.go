package httpapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &responseWrapper{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		s.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
		)
	})
}

type responseWrapper struct {
	http.ResponseWriter
	status int
}

func (w *responseWrapper) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// клиент без запросов дольше этого времени забывается
const limiterIdleTTL = 10 * time.Minute

// clientLimiter ограничивает частоту запросов отдельно для каждого IP
type clientLimiter struct {
	mu      sync.Mutex
	clients map[string]*limitedClient
	rps     rate.Limit
	burst   int
	now     func() time.Time
}

type limitedClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newClientLimiter с rps <= 0 не ограничивает запросы
func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		clients: make(map[string]*limitedClient),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, c := range l.clients {
		if now.Sub(c.lastSeen) > limiterIdleTTL {
			delete(l.clients, k)
		}
	}

	c, ok := l.clients[key]
	if !ok {
		c = &limitedClient{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (l *clientLimiter) middleware(next http.Handler) http.Handler {
	if l.rps <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !l.allow(host) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Слишком много запросов, попробуйте позже"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
