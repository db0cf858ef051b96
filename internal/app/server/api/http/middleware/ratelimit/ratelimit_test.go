package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type okOutput struct {
	Body struct {
		OK bool `json:"ok"`
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := New(0.001, 2, slog.Default())
	_, api := humatest.New(t)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/login",
		Middlewares: huma.Middlewares{rl.Middleware()},
	}, func(context.Context, *struct{}) (*okOutput, error) {
		out := &okOutput{}
		out.Body.OK = true
		return out, nil
	})

	assert.Equal(t, http.StatusOK, api.Post("/login").Code)
	assert.Equal(t, http.StatusOK, api.Post("/login").Code)

	resp := api.Post("/login")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Contains(t, resp.Body.String(), tooManyAttempts)
	assert.Equal(t, "1", resp.Header().Get("Retry-After"))
}

func TestRateLimiter_PerKey(t *testing.T) {
	rl := New(0.001, 1, slog.Default())

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"))
}

func TestRateLimiter_ForwardedForIgnored(t *testing.T) {
	rl := New(0.001, 2, slog.Default())
	_, api := humatest.New(t)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/login",
		Middlewares: huma.Middlewares{rl.Middleware()},
	}, func(context.Context, *struct{}) (*okOutput, error) {
		return &okOutput{}, nil
	})

	throttled := 0
	for i := 0; i < 10; i++ {
		resp := api.Post("/login", fmt.Sprintf("X-Forwarded-For: 203.0.113.%d", i+1))
		if resp.Code == http.StatusTooManyRequests {
			throttled++
		}
	}
	assert.Equal(t, 8, throttled)
}

func TestRateLimiter_EvictsSingleKeys(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rl := New(0.001, 1, slog.Default())
	rl.capacity = 3
	rl.now = func() time.Time { return now }

	require.True(t, rl.allow("victim"))
	require.False(t, rl.allow("victim"))

	// адреса атакующего: каждый тратит свою попытку
	for i := 0; i < 50; i++ {
		now = now.Add(time.Second)
		rl.allow(fmt.Sprintf("198.51.100.%d", i))
		assert.LessOrEqual(t, len(rl.limiters), rl.capacity)
	}

	// victim вытеснен как самый старый, но таблица не сбрасывалась целиком
	assert.Len(t, rl.limiters, rl.capacity)
	assert.Contains(t, rl.limiters, "198.51.100.49")
}

func TestRateLimiter_EvictsRefilledFirst(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rl := New(1, 1, slog.Default())
	rl.capacity = 2
	rl.now = func() time.Time { return now }

	require.True(t, rl.allow("idle"))
	now = now.Add(10 * time.Second)
	require.True(t, rl.allow("busy"))

	// idle успел восстановиться и уходит первым, busy остается пустым
	require.True(t, rl.allow("new"))
	assert.NotContains(t, rl.limiters, "idle")
	assert.False(t, rl.allow("busy"))
}
