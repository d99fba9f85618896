package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetConsumerID(ctx))
	assert.Empty(t, GetServiceName(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithConsumerID(ctx, "consumer-1")
	ctx = WithServiceName(ctx, "monitor-service")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "consumer-1", GetConsumerID(ctx))
	assert.Equal(t, "monitor-service", GetServiceName(ctx))
}

func TestGetLogFields(t *testing.T) {
	ctx := WithConsumerID(context.Background(), "consumer-1")

	fields := GetLogFields(ctx)

	assert.Equal(t, []interface{}{"consumer_id", "consumer-1"}, fields)
}

func TestGetLogFieldsEmptyContext(t *testing.T) {
	assert.Empty(t, GetLogFields(context.Background()))
}
