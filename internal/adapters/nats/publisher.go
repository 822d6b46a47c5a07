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

const (
	SubjectParkingStatus = "margdarshak.parking.status"
	SubjectParkingAlert  = "margdarshak.parking.alert"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
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

	// Ensure streams exist. Status snapshots supersede each other, so
	// only the most recent one per subject is retained; alerts are kept
	// for a day so late subscribers still see them.
	streams := []nats.StreamConfig{
		{
			Name:              "PARKING_STATUS",
			Subjects:          []string{SubjectParkingStatus},
			Retention:         nats.LimitsPolicy,
			MaxMsgsPerSubject: 1,
			MaxAge:            10 * time.Minute,
			Storage:           nats.FileStorage,
		},
		{
			Name:      "PARKING_ALERTS",
			Subjects:  []string{SubjectParkingAlert},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishParkingStatus(ctx context.Context, facilities []domain.Facility) error {
	data, err := json.Marshal(facilities)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectParkingStatus, data)
	return err
}

func (p *Publisher) PublishCrowdingAlert(ctx context.Context, analysis *ports.CrowdingAnalysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectParkingAlert, data)
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
