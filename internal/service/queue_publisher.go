// Package service holds collaborators the HTTP layer calls after the core
// has done its work.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/pwarnimont/filmdb2/internal/backup"
	"github.com/pwarnimont/filmdb2/internal/logging"
	"github.com/pwarnimont/filmdb2/internal/queue"
)

// EventPublisher publishes backup events to RabbitMQ.  A publisher with an
// empty URL is disabled and every call is a no-op.  Errors are logged and
// returned so callers can ignore them without interrupting the request.
type EventPublisher struct {
	url string
	log logging.Logger
}

// NewEventPublisher returns a publisher for the broker at url.
func NewEventPublisher(url string, log logging.Logger) *EventPublisher {
	return &EventPublisher{url: url, log: log}
}

// Enabled reports whether the publisher has a broker to talk to.
func (p *EventPublisher) Enabled() bool { return p != nil && p.url != "" }

// BackupImported builds the event for a committed import.
func BackupImported(principal backup.Principal, s backup.Summary, at time.Time, requestID string) queue.BackupImportedEvent {
	return queue.BackupImportedEvent{
		PrincipalID:      principal.ID,
		Role:             string(principal.Role),
		RequestID:        requestID,
		FilmRollsCreated: s.FilmRollsCreated,
		FilmRollsUpdated: s.FilmRollsUpdated,
		CamerasCreated:   s.CamerasCreated,
		CamerasUpdated:   s.CamerasUpdated,
		PrintsCreated:    s.PrintsCreated,
		PrintsUpdated:    s.PrintsUpdated,
		ImportedAt:       at.UTC().Format(time.RFC3339),
	}
}

// PublishBackupImported publishes ev to the backup.imported queue as a
// persistent JSON message.
func (p *EventPublisher) PublishBackupImported(ctx context.Context, ev queue.BackupImportedEvent) error {
	if !p.Enabled() {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn(ctx, "rabbitmq: dial failed", "err", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn(ctx, "rabbitmq: channel open failed", "err", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.BackupImportedQueue, true, false, false, false, nil); err != nil {
		p.log.Warn(ctx, "rabbitmq: queue declare failed", "err", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.BackupImportedQueue, false, false, pub); err != nil {
		p.log.Warn(ctx, "rabbitmq: publish failed", "err", err)
		return err
	}
	return nil
}
