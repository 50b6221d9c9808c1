package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/gestaorh/plataforma/internal/api"
)

// Stats registra decisões do limiter para observação externa.
type Stats interface {
	Record(ctx context.Context, key string, allowed bool)
}

// RateLimiter mantém limiters por chave com expiração simples.
type RateLimiter struct {
	limit  rate.Limit
	burst  int
	mu     sync.Mutex
	store  map[string]*limiterEntry
	maxAge time.Duration
	stats  Stats
}

type limiterEntry struct {
	limiter *rate.Limiter
	updated time.Time
}

// NewRateLimiter cria instância compatível com múltiplas chaves.
func NewRateLimiter(reqPerSec float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:  rate.Limit(reqPerSec),
		burst:  burst,
		store:  make(map[string]*limiterEntry),
		maxAge: 10 * time.Minute,
	}
}

// WithStats anexa um coletor de estatísticas de throttling.
func (r *RateLimiter) WithStats(stats Stats) *RateLimiter {
	r.stats = stats
	return r
}

func (r *RateLimiter) get(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.store[key]; ok {
		entry.updated = time.Now()
		return entry.limiter
	}

	lim := rate.NewLimiter(r.limit, r.burst)
	r.store[key] = &limiterEntry{limiter: lim, updated: time.Now()}

	for k, entry := range r.store {
		if time.Since(entry.updated) > r.maxAge {
			delete(r.store, k)
		}
	}

	return lim
}

// IPRateLimit aplica o limiter usando o IP remoto como chave.
func IPRateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := realIPFromRequest(r)
			allowed := limiter.get(key).Allow()

			if limiter.stats != nil {
				limiter.stats.Record(r.Context(), key, allowed)
			}

			if !allowed {
				w.Header().Set("Retry-After", "1")
				api.WriteError(w, http.StatusTooManyRequests, "Limite de requisições excedido", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func realIPFromRequest(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); ip != "" {
		parts := strings.Split(ip, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RedisStats acumula contadores de throttling por chave no Redis.
type RedisStats struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStats cria o coletor com prefixo e TTL de retenção.
func NewRedisStats(client *redis.Client, prefix string, ttl time.Duration) *RedisStats {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisStats{client: client, prefix: prefix, ttl: ttl}
}

// Record incrementa allowed/denied para a chave; falhas são apenas logadas.
func (s *RedisStats) Record(ctx context.Context, key string, allowed bool) {
	field := "allowed"
	if !allowed {
		field = "denied"
	}

	opCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()

	pipe := s.client.Pipeline()
	pipe.HIncrBy(opCtx, s.prefix+key, field, 1)
	if s.ttl > 0 {
		pipe.Expire(opCtx, s.prefix+key, s.ttl)
	}
	if _, err := pipe.Exec(opCtx); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("falha ao registrar estatística de rate limit")
	}
}
