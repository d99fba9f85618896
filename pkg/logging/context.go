package logging

import (
	"context"
)

const (
	RequestIDKey   = "request_id"
	ConsumerIDKey  = "consumer_id"
	ServiceNameKey = "service_name"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithConsumerID(ctx context.Context, consumerID string) context.Context {
	return context.WithValue(ctx, ConsumerIDKey, consumerID)
}

func WithServiceName(ctx context.Context, serviceName string) context.Context {
	return context.WithValue(ctx, ServiceNameKey, serviceName)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func GetConsumerID(ctx context.Context) string {
	if consumerID, ok := ctx.Value(ConsumerIDKey).(string); ok {
		return consumerID
	}
	return ""
}

func GetServiceName(ctx context.Context) string {
	if serviceName, ok := ctx.Value(ServiceNameKey).(string); ok {
		return serviceName
	}
	return ""
}

func GetLogFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0, 6)

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	if consumerID := GetConsumerID(ctx); consumerID != "" {
		fields = append(fields, "consumer_id", consumerID)
	}

	if serviceName := GetServiceName(ctx); serviceName != "" {
		fields = append(fields, "service_name", serviceName)
	}

	return fields
}
