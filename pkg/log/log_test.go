package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCorrelationID(t *testing.T) {
	ctx, id := WithCorrelationID(context.Background())

	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvRunID, "abc123")
	t.Setenv(EnvCorrelationID, "corr-1")

	ctx := FromEnv(context.Background())
	assert.Equal(t, "abc123", GetRunID(ctx))
	assert.Equal(t, "corr-1", GetCorrelationID(ctx))
}

func TestFromEnv_GeneratesCorrelationID(t *testing.T) {
	t.Setenv(EnvRunID, "")
	t.Setenv(EnvCorrelationID, "")

	ctx := FromEnv(context.Background())
	assert.Empty(t, GetRunID(ctx))
	assert.NotEmpty(t, GetCorrelationID(ctx))
}

func TestForContext_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})

	old := L
	L = &logger{entry: logrus.NewEntry(base)}
	t.Cleanup(func() { L = old })

	ctx := WithRunID(context.Background(), "run-9")
	ctx = context.WithValue(ctx, CorrelationIDKey, "corr-9")

	ForContext(ctx).WithField("etapa", "compilar").Info("iniciando")

	out := buf.String()
	assert.Contains(t, out, "run_id=run-9")
	assert.Contains(t, out, "correlation_id=corr-9")
	assert.Contains(t, out, "etapa=compilar")
	assert.Contains(t, out, "msg=iniciando")
}
