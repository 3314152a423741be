package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"catalogo/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const mensajeRateLimit = "Demasiadas solicitudes. Intente nuevamente en un momento."

// contador counts hits for a key inside a fixed window and reports the total
// so far and when the window closes.
type contador interface {
	incrementar(ctx context.Context, clave string) (int64, time.Time, error)
}

// RateLimiter limits each client IP to limit requests per window.
// Counters live in Redis when rdb is non-nil so every replica shares them,
// otherwise in process memory. limit <= 0 disables the limiter.
func RateLimiter(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	var store contador
	if rdb != nil {
		store = &redisContador{rdb: rdb, window: window}
	} else {
		store = newMemoriaContador(window)
	}
	return rateLimit(store, int64(limit))
}

func rateLimit(store contador, limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, windowEnd, err := store.incrementar(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Fail open: a limiter outage must not take the API down.
			log.Warn().
				Str("request_id", c.GetString(RequestIDKey)).
				Err(err).
				Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if count > limit {
			secs := int(time.Until(windowEnd).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(mensajeRateLimit))
			return
		}
		c.Next()
	}
}

// ── Redis ─────────────────────────────────────────────────────────────────────

type redisContador struct {
	rdb    *redis.Client
	window time.Duration
}

func (r *redisContador) incrementar(ctx context.Context, ip string) (int64, time.Time, error) {
	now := time.Now()
	start := now.Truncate(r.window)
	key := "ratelimit:" + ip + ":" + strconv.FormatInt(start.Unix(), 10)

	var incr *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, r.window)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, err
	}
	return incr.Val(), start.Add(r.window), nil
}

// ── Memory ────────────────────────────────────────────────────────────────────

// rateEntry tracks request counts per IP.
type rateEntry struct {
	count     int64
	windowEnd time.Time
}

// purgeInterval bounds how often expired entries are swept, so IPs that never
// return do not accumulate.
const purgeInterval = 5 * time.Minute

type memoriaContador struct {
	mu        sync.Mutex
	window    time.Duration
	entries   map[string]*rateEntry
	lastPurge time.Time
}

func newMemoriaContador(window time.Duration) *memoriaContador {
	return &memoriaContador{window: window, entries: make(map[string]*rateEntry), lastPurge: time.Now()}
}

func (m *memoriaContador) incrementar(_ context.Context, ip string) (int64, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if now.Sub(m.lastPurge) > purgeInterval {
		m.purge(now)
	}

	entry, ok := m.entries[ip]
	if !ok {
		entry = &rateEntry{}
		m.entries[ip] = entry
	}
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(m.window)
	}
	entry.count++
	return entry.count, entry.windowEnd, nil
}

func (m *memoriaContador) purge(now time.Time) {
	purged := 0
	for ip, entry := range m.entries {
		if now.After(entry.windowEnd) {
			delete(m.entries, ip)
			purged++
		}
	}
	m.lastPurge = now
	if purged > 0 {
		log.Debug().
			Int("entries_purged", purged).
			Int("entries_remaining", len(m.entries)).
			Msg("rate limiter entries purged")
	}
}
