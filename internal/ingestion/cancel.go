package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
)

// The sweep and the engine may live in different processes, so cancellation
// requests travel over their own JetStream subject.
const (
	cancelStreamName   = "AUCTION_CANCEL"
	cancelSubject      = "auction.cancel.request"
	cancelConsumerName = "settlementd-cancel"
)

// CancelRequest asks the engine to cancel one stale auction.
type CancelRequest struct {
	AuctionID   uint64    `json:"auction_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// CancelSubmitter implements the sweep's Submitter over JetStream.
type CancelSubmitter struct {
	js jetstream.JetStream
}

func NewCancelSubmitter(js jetstream.JetStream) *CancelSubmitter {
	return &CancelSubmitter{js: js}
}

func (s *CancelSubmitter) SubmitCancel(ctx context.Context, id uint64) error {
	data, err := json.Marshal(CancelRequest{AuctionID: id, SubmittedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal cancel request: %w", err)
	}
	if _, err := s.js.Publish(ctx, cancelSubject, data); err != nil {
		return fmt.Errorf("publish cancel request: %w", err)
	}
	return nil
}

// CancelSubscriber feeds cancellation requests into the engine's serialized
// command loop. Messages ack on delivery into the channel: a cancel that
// fails in the engine (already settled, reverse stage) must not redeliver.
type CancelSubscriber struct {
	js       jetstream.JetStream
	requests chan<- CancelRequest
	consumer jetstream.ConsumeContext
	log      zerolog.Logger
}

func NewCancelSubscriber(js jetstream.JetStream, requests chan<- CancelRequest, log zerolog.Logger) *CancelSubscriber {
	return &CancelSubscriber{
		js:       js,
		requests: requests,
		log:      log,
	}
}

func (s *CancelSubscriber) Subscribe(ctx context.Context) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, cancelStreamName, jetstream.ConsumerConfig{
		Durable:       cancelConsumerName,
		FilterSubject: cancelSubject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       30 * time.Second,
		MaxDeliver:    5,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return fmt.Errorf("create cancel consumer: %w", err)
	}

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		var req CancelRequest
		if err := json.Unmarshal(msg.Data(), &req); err != nil {
			s.log.Warn().Err(err).Msg("malformed cancel request, dropping")
			msg.Ack()
			return
		}

		select {
		case s.requests <- req:
			msg.Ack()
		case <-ctx.Done():
			msg.Nak()
		}
	})
	if err != nil {
		return fmt.Errorf("consume cancel requests: %w", err)
	}

	s.consumer = consumeCtx
	s.log.Info().Str("subject", cancelSubject).Msg("subscribed to cancel requests")
	return nil
}

// Stop drains the consumer.
func (s *CancelSubscriber) Stop() {
	if s.consumer != nil {
		s.consumer.Stop()
	}
}
