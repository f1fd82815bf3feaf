package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// MessageHandler processes one consumed message and reports whether to mark
// it. An unmarked message stays in the group's backlog and is delivered
// again, so handlers should only decline to mark when a retry could succeed.
type MessageHandler interface {
	HandleMessage(ctx context.Context, message []byte) (shouldMark bool, err error)
}

// Consumer wraps a sarama consumer group with pluggable message handling.
type Consumer struct {
	consumer sarama.ConsumerGroup
	handler  MessageHandler
	topic    string
	groupID  string
	ready    chan bool
	log      *zap.Logger
}

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler MessageHandler
	Logger  *zap.Logger
}

// NewConsumer creates a consumer group client for the configured topic.
func NewConsumer(config ConsumerConfig) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	client, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, err
	}

	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Consumer{
		consumer: client,
		handler:  config.Handler,
		topic:    config.Topic,
		groupID:  config.GroupID,
		ready:    make(chan bool),
		log:      log,
	}, nil
}

// Start begins consuming in the background and returns once the group
// session is established. Canceling ctx stops the consume loop.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{
		messageHandler: c.handler,
		ready:          c.ready,
		log:            c.log,
	}

	go func() {
		for {
			if err := c.consumer.Consume(ctx, []string{c.topic}, handler); err != nil {
				if err == context.Canceled {
					c.log.Info("kafka consumer context canceled")
					return
				}
				c.log.Error("kafka consumer session failed", zap.Error(err))
			}

			if ctx.Err() != nil {
				return
			}
			// A rebalance ends the session; a fresh ready channel is needed
			// before the next Setup closes it.
			handler.ready = make(chan bool)
		}
	}()

	<-c.ready
	c.log.Info("kafka consumer started",
		zap.String("group", c.groupID),
		zap.String("topic", c.topic))

	go func() {
		for err := range c.consumer.Errors() {
			c.log.Error("kafka consumer error", zap.Error(err))
		}
	}()

	return nil
}

// Close gracefully shuts down the consumer.
func (c *Consumer) Close() error {
	c.log.Info("closing kafka consumer")
	return c.consumer.Close()
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler.
type consumerGroupHandler struct {
	messageHandler MessageHandler
	ready          chan bool
	log            *zap.Logger
}

// Setup is run at the beginning of a new session, before ConsumeClaim.
func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines
// have exited.
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim drains one partition claim, delegating each message to the
// configured handler.
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			h.log.Debug("received kafka message",
				zap.Int32("partition", message.Partition),
				zap.Int64("offset", message.Offset),
				zap.ByteString("key", message.Key))

			shouldMark, err := h.messageHandler.HandleMessage(session.Context(), message.Value)
			if err != nil {
				h.log.Error("failed to handle kafka message",
					zap.Int64("offset", message.Offset),
					zap.Error(err))
			}

			if shouldMark {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

// TypedMessageHandler decodes JSON messages into T before handling them.
type TypedMessageHandler[T any] struct {
	// Validate checks whether the decoded message should be processed.
	Validate func(msg *T) bool
	// Process handles the message.
	Process func(ctx context.Context, msg *T) error
	// AlwaysMark marks messages that fail to decode or validate, so they
	// are skipped instead of redelivered forever.
	AlwaysMark bool
	// MarkOnError classifies processing failures: returning true marks the
	// message anyway, because redelivering it could not change the outcome.
	// Unset means no processing failure marks the message.
	MarkOnError func(err error) bool
	Logger      *zap.Logger
}

// HandleMessage implements MessageHandler.
func (h *TypedMessageHandler[T]) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	log := h.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var msg T
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Warn("failed to unmarshal kafka message", zap.Error(err))
		return h.AlwaysMark, nil
	}

	if h.Validate != nil && !h.Validate(&msg) {
		return h.AlwaysMark, nil
	}

	if err := h.Process(ctx, &msg); err != nil {
		if h.MarkOnError != nil && h.MarkOnError(err) {
			return true, err
		}
		return false, err
	}

	return true, nil
}
