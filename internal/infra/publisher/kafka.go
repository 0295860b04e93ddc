package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/fastprodman/betledger/internal/config"
	"github.com/fastprodman/betledger/pkg/contracts/events"
)

type KafkaPublisher struct {
	w *kafka.Writer
}

func NewKafka(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(splitBrokers(cfg.Brokers)...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}}
}

// New returns a kafka publisher, or a no-op one when no brokers are configured.
func New(cfg config.KafkaConfig) Publisher {
	if len(splitBrokers(cfg.Brokers)) == 0 {
		return NoopPublisher{}
	}

	return NewKafka(cfg)
}

func (p *KafkaPublisher) PublishBet(ctx context.Context, e events.BetEvent) error {
	e.TsUnixMs = time.Now().UnixMilli()

	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal bet event: %w", err)
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.BetID),
		Value: b,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("write bet event: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

func splitBrokers(raw string) []string {
	out := make([]string, 0)
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			out = append(out, b)
		}
	}

	return out
}
