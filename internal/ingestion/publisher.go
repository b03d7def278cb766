package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/Setheum-Labs/Setheum-sub001/internal/event"
	"github.com/Setheum-Labs/Setheum-sub001/internal/observability"
)

// eventStream holds every outbound auction event.
const (
	eventStreamName    = "AUCTION_EVENTS"
	eventSubjectPrefix = "auction.events"
)

// Publisher drains the engine's publish channel to NATS JetStream for
// downstream consumers. Publishing is best effort: the event log in Postgres
// is the source of truth and a consumer that misses a message replays from
// there.
type Publisher struct {
	js      jetstream.JetStream
	input   <-chan *event.Envelope
	metrics *observability.Metrics
	log     zerolog.Logger
}

// wireEnvelope is the published JSON shape.
type wireEnvelope struct {
	Sequence  int64       `json:"sequence"`
	EventType string      `json:"event_type"`
	AuctionID uint64      `json:"auction_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

func NewPublisher(js jetstream.JetStream, input <-chan *event.Envelope, metrics *observability.Metrics, log zerolog.Logger) *Publisher {
	return &Publisher{
		js:      js,
		input:   input,
		metrics: metrics,
		log:     log,
	}
}

// Run publishes until the context ends or the input channel closes.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-p.input:
			if !ok {
				return nil
			}
			if err := p.publish(ctx, env); err != nil {
				if p.metrics != nil {
					p.metrics.PublishErrors.Inc()
				}
				p.log.Warn().Err(err).Int64("sequence", env.Sequence).Msg("outbound publish failed")
			}
		}
	}
}

func (p *Publisher) publish(ctx context.Context, env *event.Envelope) error {
	data, err := json.Marshal(wireEnvelope{
		Sequence:  env.Sequence,
		EventType: env.EventType.String(),
		AuctionID: env.AuctionID,
		Timestamp: env.Timestamp,
		Payload:   env.Payload,
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", eventSubjectPrefix, env.EventType.String())
	_, err = p.js.Publish(ctx, subject, data)
	return err
}

// EnsureStreams creates the auction streams if missing.
func EnsureStreams(ctx context.Context, js jetstream.JetStream) error {
	streams := []jetstream.StreamConfig{
		{
			Name:      eventStreamName,
			Subjects:  []string{eventSubjectPrefix + ".>"},
			Storage:   jetstream.FileStorage,
			Retention: jetstream.LimitsPolicy,
			MaxAge:    72 * time.Hour,
			Replicas:  1,
		},
		{
			Name:      cancelStreamName,
			Subjects:  []string{cancelSubject},
			Storage:   jetstream.FileStorage,
			Retention: jetstream.LimitsPolicy,
			MaxAge:    time.Hour,
			Replicas:  1,
		},
	}
	for _, cfg := range streams {
		if _, err := js.CreateOrUpdateStream(ctx, cfg); err != nil {
			return fmt.Errorf("create stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}
