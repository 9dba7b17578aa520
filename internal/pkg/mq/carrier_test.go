package mq

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestKafkaHeaderCarrierSetOverwrites(t *testing.T) {
	c := KafkaHeaderCarrier{{Key: "a", Value: []byte("1")}}
	c.Set("a", "2")
	c.Set("b", "3")

	assert.Equal(t, "2", c.Get("a"))
	assert.Equal(t, "3", c.Get("b"))
	assert.Equal(t, "", c.Get("missing"))
	assert.ElementsMatch(t, []string{"a", "b"}, c.Keys())
}

func TestKafkaHeaderCarrierRoundTripsTraceContext(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	prop := propagation.TraceContext{}
	var carrier KafkaHeaderCarrier
	prop.Inject(ctx, &carrier)
	require.NotEmpty(t, HeaderValue([]kafka.Header(carrier), "traceparent"))

	extracted := trace.SpanContextFromContext(prop.Extract(context.Background(), &carrier))
	assert.Equal(t, traceID, extracted.TraceID())
}
