package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/ports"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeParkingStatus delivers each published parking snapshot. The
// newest snapshot wins; there is no replay of older ones.
func (s *Subscriber) SubscribeParkingStatus(ctx context.Context, handler func(ctx context.Context, facilities []domain.Facility) error) error {
	sub, err := s.js.Subscribe(SubjectParkingStatus, func(msg *nats.Msg) {
		var facilities []domain.Facility
		if err := json.Unmarshal(msg.Data, &facilities); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, facilities); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.DeliverNew(),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

func (s *Subscriber) SubscribeCrowdingAlerts(ctx context.Context, handler func(ctx context.Context, analysis *ports.CrowdingAnalysis) error) error {
	sub, err := s.js.Subscribe(SubjectParkingAlert, func(msg *nats.Msg) {
		var analysis ports.CrowdingAnalysis
		if err := json.Unmarshal(msg.Data, &analysis); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &analysis); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("alert-processor"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
