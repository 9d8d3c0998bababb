package telemetry

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/altarsite/gallery/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDuration(t *testing.T) {
	var buf bytes.Buffer
	tel := New(0, logger.NewWithWriter(&buf, "debug", "json"))

	ctx := logger.ContextWithRequestID(context.Background(), "req-9")
	tel.RecordDuration(ctx, "image_query", time.Now().Add(-5*time.Millisecond), "mode", "all")

	out := buf.String()
	assert.Contains(t, out, `"operation":"image_query"`)
	assert.Contains(t, out, `"mode":"all"`)
	assert.Contains(t, out, `"request_id":"req-9"`)
}

func TestRecordDuration_NilTelemetry(t *testing.T) {
	var tel *Telemetry
	assert.NotPanics(t, func() {
		tel.RecordDuration(context.Background(), "noop", time.Now())
	})
}

func TestStart_DisabledWithoutPort(t *testing.T) {
	tel := New(0, logger.Discard())
	require.NoError(t, tel.Start(context.Background()))
	assert.NoError(t, tel.Close())
}
