package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"topicscope/internal/config"
	"topicscope/internal/constants"
	"topicscope/internal/logger"
	"topicscope/pkg/metrics"
	"topicscope/pkg/retry"
)

// KafkaConsumer is the bus collaborator: it turns Kafka messages into
// Observations. Reconnection and backoff live here, not in the core; once
// the backoff budget is exhausted the session is declared failed.
type KafkaConsumer struct {
	cfg    config.KafkaConfig
	reader *kafka.Reader
	logger logger.Logger
}

func NewKafkaConsumer(cfg config.KafkaConfig, log logger.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		cfg:    cfg,
		logger: log,
	}
}

// Consume fetches messages and hands them to handler one at a time in the
// calling goroutine. The rate estimator's window update is not reorderable
// per key, so there is deliberately no parallelism here.
func (c *KafkaConsumer) Consume(ctx context.Context, handler HandlerFunc) error {
	c.logger.InfowCtx(ctx, "Creating Kafka reader",
		"topics", c.cfg.Topics,
		"brokers", c.cfg.Brokers,
		"group_id", c.cfg.GroupID,
	)

	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.cfg.Brokers,
		GroupID:     c.cfg.GroupID,
		GroupTopics: c.cfg.Topics,
		MinBytes:    constants.KafkaMinBytes,
		MaxBytes:    constants.KafkaMaxBytes,
	})

	for {
		m, err := c.fetchWithRetry(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.InfowCtx(ctx, "Stopped consuming",
					"reason", "context canceled",
				)
				return ctx.Err()
			}
			metrics.BusFetchErrorsTotal.Inc()
			return fmt.Errorf("%w: %v", ErrBusFailed, err)
		}

		obs := Observation{
			Key:        m.Topic,
			Payload:    m.Value,
			ReceivedAt: time.Now().UnixMilli(),
		}

		if err := handler(ctx, obs); err != nil {
			// Per-event faults are absorbed: drop the observation, keep
			// the stream alive.
			c.logger.ErrorwCtx(ctx, "Observation handler failed",
				"topic", m.Topic,
				"error", err,
			)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.ErrorwCtx(ctx, "Failed to commit message",
				"topic", m.Topic,
				"error", err,
			)
		}
	}
}

func (c *KafkaConsumer) fetchWithRetry(ctx context.Context) (kafka.Message, error) {
	policy := retry.DefaultPolicy()

	if c.cfg.Retry.MaxAttempts > 0 {
		policy.MaxAttempts = c.cfg.Retry.MaxAttempts
	}
	if c.cfg.Retry.InitialInterval > 0 {
		policy.InitialInterval = c.cfg.Retry.InitialInterval
	}
	if c.cfg.Retry.MaxInterval > 0 {
		policy.MaxInterval = c.cfg.Retry.MaxInterval
	}
	if c.cfg.Retry.Multiplier > 0 {
		policy.Multiplier = c.cfg.Retry.Multiplier
	}
	if c.cfg.Retry.MaxElapsedTime > 0 {
		policy.MaxElapsedTime = c.cfg.Retry.MaxElapsedTime
	}

	var m kafka.Message
	err := retry.RetryWithCallback(ctx, policy, func() error {
		var fetchErr error
		m, fetchErr = c.reader.FetchMessage(ctx)
		return fetchErr
	}, func(attempt int, err error, nextDelay time.Duration) {
		metrics.RetryAttemptsTotal.WithLabelValues("monitor-service", "fetch").Inc()
		c.logger.WarnwCtx(ctx, "Retrying bus fetch",
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"next_delay", nextDelay,
			"error", err,
		)
	})

	return m, err
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
