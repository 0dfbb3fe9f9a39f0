package queue

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/namnguyen191/Natours-API/internal/interfaces"
)

type KafkaConsumer struct {
	Reader      *kafka.Reader
	Handler     interfaces.ConsumerHandler
	ServiceName string
}

func NewKafkaConsumer(broker, topic, groupID, username, password string, handler interfaces.ConsumerHandler) *KafkaConsumer {
	config := kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	}

	if username != "" {
		config.Dialer = &kafka.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			TLS:           &tls.Config{},
			SASLMechanism: plain.Mechanism{Username: username, Password: password},
		}
	}

	return &KafkaConsumer{
		Reader:      kafka.NewReader(config),
		Handler:     handler,
		ServiceName: "Mailer",
	}
}

// Listen consumes until ctx is cancelled. The event name travels as the
// message key; the handler dispatches on it.
func (kc *KafkaConsumer) Listen(ctx context.Context) {
	for {
		msg, err := kc.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[%s] read error: %v", kc.ServiceName, err)
			continue
		}

		if err := kc.Handler.HandleMessage(string(msg.Key), msg.Value); err != nil {
			log.Printf("[%s] handler error for %q: %v", kc.ServiceName, string(msg.Key), err)
		}
	}
}

func (kc *KafkaConsumer) Close() error {
	return kc.Reader.Close()
}
