package health

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestHandler_healthCheck(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		started time.Time
		uptime  int64
	}{
		{name: "fresh start", env: "local", started: time.Now(), uptime: 0},
		{name: "running for a minute", env: "prod", started: time.Now().Add(-time.Minute - time.Second), uptime: 61},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(tt.env, slog.Default(), huma.Middlewares{})
			handler.started = tt.started

			output, err := handler.healthCheck(context.Background(), &Input{})

			require.NoError(t, err)
			assert.Equal(t, "OK", output.Body.Status)
			assert.Equal(t, tt.env, output.Body.Env)
			assert.InDelta(t, tt.uptime, output.Body.Uptime, 1)
		})
	}
}

func TestHandler_healthCheckOp(t *testing.T) {
	handler := NewHandler("dev", slog.Default(), huma.Middlewares{})

	op := handler.healthCheckOp()

	assert.Equal(t, healthPath, op.Path)
	assert.Equal(t, http.MethodGet, op.Method)
	assert.Equal(t, "health-check", op.OperationID)
	assert.NotNil(t, op.Middlewares)
}
