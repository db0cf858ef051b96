package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"

	"aggyweb/internal/domain/form"
	"aggyweb/internal/utils/logger"
)

const tooManyAttempts = "Too many attempts, try again later"

// maxLimiters - предел числа адресов в таблице. При переполнении
// вытесняются отдельные записи, чужие ограничения не сбрасываются.
const maxLimiters = 10000

type entry struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter ограничивает попытки входа и регистрации с одного адреса.
// Ключ - адрес соединения (ctx.RemoteAddr). Заголовкам X-Forwarded-For
// он доверяет только тогда, когда перед сервисом стоит доверенный прокси
// и адрес переписан chi RealIP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	capacity int
	rate     rate.Limit
	burst    int
	now      func() time.Time
	log      *slog.Logger
}

func New(perSecond float64, burst int, log *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*entry),
		capacity: maxLimiters,
		rate:     rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
		log:      log.With(slog.String("component", "ratelimit")),
	}
}

// allow расходует попытку ключа key.
func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	e, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= rl.capacity {
			rl.evict(now)
		}
		e = &entry{lim: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}

// evict убирает ключи с полностью восстановленным запасом: новая запись
// для них ничем не отличается от старой. Если таких нет, уходит ключ,
// который дольше всех не появлялся.
func (rl *RateLimiter) evict(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
	)
	for k, e := range rl.limiters {
		if e.lim.TokensAt(now) >= float64(rl.burst) {
			delete(rl.limiters, k)
			continue
		}
		if oldestKey == "" || e.seen.Before(oldest) {
			oldestKey, oldest = k, e.seen
		}
	}
	if len(rl.limiters) >= rl.capacity && oldestKey != "" {
		delete(rl.limiters, oldestKey)
	}
}

// Middleware возвращает middleware для Huma с сигнатурой func(ctx Context, next func(Context))
func (rl *RateLimiter) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		key := ctx.RemoteAddr()
		if host, _, err := net.SplitHostPort(key); err == nil {
			key = host
		}

		if !rl.allow(key) {
			rl.log.Warn("rate limit exceeded",
				slog.String("key", key),
				slog.String("path", ctx.URL().Path),
			)
			ctx.SetHeader("Content-Type", "application/json")
			ctx.SetHeader("Retry-After", "1")
			ctx.SetStatus(http.StatusTooManyRequests)

			if err := json.NewEncoder(ctx.BodyWriter()).Encode(form.Result{FormError: tooManyAttempts}); err != nil {
				rl.log.Error("json encode", logger.Err(err))
			}
			return
		}

		next(ctx)
	}
}
