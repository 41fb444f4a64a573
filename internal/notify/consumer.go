package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/postline/postline/internal/domain"
	"github.com/postline/postline/internal/messages"
)

const defaultSendTimeout = 30 * time.Second

// Consumer is a single-threaded loop bound to the notices topic. One record
// is fully dispatched (all recipient sends) before the next is fetched, and
// offsets are committed only after dispatch, so a crash mid-dispatch
// redelivers the record rather than losing it.
type Consumer struct {
	client          *kgo.Client
	deadLetterTopic string
	mailer          Mailer
	sendTimeout     time.Duration
}

// NewConsumer creates a Consumer with the given brokers, group ID, and
// topics.
func NewConsumer(brokers []string, groupID, topic, deadLetterTopic string, mailer Mailer) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.DisableAutoCommit(),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer client: %w", err)
	}
	return &Consumer{
		client:          client,
		deadLetterTopic: deadLetterTopic,
		mailer:          mailer,
		sendTimeout:     defaultSendTimeout,
	}, nil
}

// Start begins polling Kafka and dispatching mail. Blocks until ctx is
// cancelled or the transport fails unrecoverably.
func (c *Consumer) Start(ctx context.Context) {
	log.Info().Msg("notification consumer started")

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			break
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			log.Error().Err(err).Str("topic", topic).Int32("partition", partition).Msg("kafka fetch error")
		})

		fetches.EachRecord(func(r *kgo.Record) {
			c.process(ctx, r)
		})

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			log.Error().Err(err).Msg("kafka commit error")
		}
	}

	c.client.Close()
	log.Info().Msg("notification consumer stopped")
}

// process decodes one record and dispatches it. Recipients that could not
// be reached are forwarded to the dead-letter topic before the record's
// offset is committed.
func (c *Consumer) process(ctx context.Context, r *kgo.Record) {
	var ev domain.NotificationEvent
	if err := json.Unmarshal(r.Value, &ev); err != nil {
		log.Error().Err(err).Str("topic", r.Topic).Msg("undecodable notification event, dead-lettering")
		c.deadLetterRaw(ctx, r.Value)
		return
	}

	log.Debug().
		Str("event_id", ev.EventID).
		Int64("actor_id", ev.ActorID).
		Int64("subject_id", ev.SubjectID).
		Int("recipients", len(ev.RecipientEmails)).
		Msg("processing notification event")

	failed := c.dispatch(ctx, ev)
	if len(failed) > 0 {
		ev.RecipientEmails = failed
		c.deadLetter(ctx, ev)
	}
}

// dispatch sends one mail per recipient, attempting every recipient even
// when earlier sends fail. Returns the recipients whose send failed.
func (c *Consumer) dispatch(ctx context.Context, ev domain.NotificationEvent) []string {
	subject, body := messages.NewPost(ev.ActorID, ev.SubjectID)

	var failed []string
	for _, to := range ev.RecipientEmails {
		sendCtx, cancel := context.WithTimeout(ctx, c.sendTimeout)
		err := c.mailer.Send(sendCtx, to, subject, body)
		cancel()

		if err != nil {
			log.Error().Err(err).Str("event_id", ev.EventID).Str("to", to).Msg("mail dispatch failed")
			failed = append(failed, to)
			continue
		}
		log.Debug().Str("event_id", ev.EventID).Str("to", to).Msg("mail dispatched")
	}
	return failed
}

// deadLetter forwards the undeliverable remainder of an event to the
// dead-letter topic.
func (c *Consumer) deadLetter(ctx context.Context, ev domain.NotificationEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("event_id", ev.EventID).Msg("marshal dead-letter event failed")
		return
	}
	c.deadLetterRaw(ctx, payload)
}

func (c *Consumer) deadLetterRaw(ctx context.Context, payload []byte) {
	record := &kgo.Record{Topic: c.deadLetterTopic, Value: payload}
	if err := c.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		// The offset will still commit; losing the dead letter is the
		// worst case here and must be visible in the logs.
		log.Error().Err(err).Str("topic", c.deadLetterTopic).Msg("dead-letter produce failed, notification lost")
	}
}
