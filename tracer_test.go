package tokengate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestNoopTracer(t *testing.T) {
	tracer := &NoopTracer{}

	ctx, span := tracer.StartSpan(context.Background(), "tokengate.verify")
	assert.NotNil(t, ctx)
	span.SetTag("outcome", "authenticated")
	span.Finish()
}

func TestOpenTelemetryTracer(t *testing.T) {
	tracer := NewOpenTelemetryTracer(noop.NewTracerProvider().Tracer("tokengate"))

	ctx, span := tracer.StartSpan(context.Background(), "tokengate.verify")
	assert.NotNil(t, ctx)
	span.SetTag("outcome", "rejected")
	span.Finish()
}
