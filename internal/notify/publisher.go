// Package notify implements the queue-driven notification pipeline: the
// publisher places one fan-out event per created post on a Kafka topic, and
// the consumer drains that topic and dispatches one mail per recipient.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/postline/postline/internal/domain"
)

const (
	publishAttempts = 3
	publishBackoff  = 250 * time.Millisecond
)

// Publisher serializes notification events and produces them to the notices
// topic. The underlying client is long-lived and shared across publishes.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// NewPublisher creates a Publisher with its own Kafka client.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer client: %w", err)
	}
	return &Publisher{client: client, topic: topic}, nil
}

// Publish produces one event, retrying transient failures a bounded number
// of times. The error from the final attempt is returned to the caller;
// nothing is swallowed.
func (p *Publisher) Publish(ctx context.Context, ev domain.NotificationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(strconv.FormatInt(ev.ActorID, 10)),
		Value: payload,
	}

	var lastErr error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		if lastErr = p.client.ProduceSync(ctx, record).FirstErr(); lastErr == nil {
			log.Debug().
				Str("event_id", ev.EventID).
				Int64("actor_id", ev.ActorID).
				Int64("subject_id", ev.SubjectID).
				Int("recipients", len(ev.RecipientEmails)).
				Msg("notification event published")
			return nil
		}

		log.Warn().Err(lastErr).
			Str("event_id", ev.EventID).
			Int("attempt", attempt).
			Msg("notification publish attempt failed")

		select {
		case <-time.After(publishBackoff * time.Duration(attempt)):
		case <-ctx.Done():
			return fmt.Errorf("publish notification event: %w", ctx.Err())
		}
	}
	return fmt.Errorf("publish notification event: %w", lastErr)
}

// Close releases the Kafka client.
func (p *Publisher) Close() {
	p.client.Close()
}
