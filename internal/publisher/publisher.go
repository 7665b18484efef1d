package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_cart/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	DefaultTopic        = "checkout-completed"
	EventTypeCompleted  = "checkout.completed"
	defaultWriteTimeout = 5 * time.Second
)

// MessageWriter is the part of *kafka.Writer the publisher uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CompletedEvent is the payload written for every receipt
type CompletedEvent struct {
	ReceiptID      string                      `json:"receipt_id"`
	CartID         string                      `json:"cart_id"`
	UserID         string                      `json:"user_id"`
	Tier           domain.Tier                 `json:"tier"`
	Subtotal       string                      `json:"subtotal"`
	DiscountAmount string                      `json:"discount_amount"`
	TotalDue       string                      `json:"total_due"`
	Lines          []domain.CheckoutLineResult `json:"lines"`
	Unfulfilled    int                         `json:"unfulfilled"`
	CompletedAt    time.Time                   `json:"completed_at"`
}

// KafkaPublisher writes one message per receipt, keyed by cart id. After three
// consecutive write failures the breaker opens and Publish fails immediately.
type KafkaPublisher struct {
	writer  MessageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
	timeout time.Duration
	logger  *zap.Logger
}

func NewKafkaPublisher(logger *zap.Logger, topic string, brokers ...string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           defaultWriteTimeout,
	}
	return NewPublisher(w, logger)
}

func NewPublisher(w MessageWriter, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &KafkaPublisher{
		writer:  w,
		timeout: defaultWriteTimeout,
		logger:  logger,
	}
	p.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "receipt-publisher",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return p
}

func (p *KafkaPublisher) Publish(ctx context.Context, receipt *domain.Receipt) error {
	payload, err := json.Marshal(newCompletedEvent(receipt))
	if err != nil {
		return fmt.Errorf("marshal receipt event failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(receipt.CartID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeCompleted)},
			{Key: "receipt_id", Value: []byte(receipt.ID)},
		},
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return struct{}{}, p.writer.WriteMessages(writeCtx, msg)
	})
	if err != nil {
		return fmt.Errorf("publish receipt %s: %w", receipt.ID, err)
	}
	return nil
}

// State exposes the breaker state for health reporting
func (p *KafkaPublisher) State() gobreaker.State {
	return p.breaker.State()
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func newCompletedEvent(r *domain.Receipt) CompletedEvent {
	return CompletedEvent{
		ReceiptID:      r.ID,
		CartID:         r.CartID,
		UserID:         r.UserID,
		Tier:           r.Tier,
		Subtotal:       r.Subtotal.StringFixed(2),
		DiscountAmount: r.DiscountAmount.StringFixed(2),
		TotalDue:       r.TotalDue.StringFixed(2),
		Lines:          r.Lines,
		Unfulfilled:    len(r.Unfulfilled()),
		CompletedAt:    r.CreatedAt,
	}
}
