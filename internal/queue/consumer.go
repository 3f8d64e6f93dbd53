package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/pwarnimont/filmdb2/internal/logging"
)

// AuditFile is the file, relative to the audit directory, that the
// consumer appends to.
const AuditFile = "backup.log"

// StartAuditConsumer connects to RabbitMQ, declares the backup.imported
// queue (durable) and appends one line per event to dir/backup.log.  It
// reconnects with exponential backoff and returns only when ctx is done.
// Messages that cannot be handled are rejected without requeueing.
func StartAuditConsumer(ctx context.Context, url, dir string, log logging.Logger) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn(ctx, "audit consumer: dial failed", "err", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, dir, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn(ctx, "audit consumer: consume loop ended, reconnecting", "err", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, dir string, log logging.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn(ctx, "audit consumer: set QoS failed", "err", err)
	}
	if _, err := ch.QueueDeclare(BackupImportedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(BackupImportedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(dir, d.Body); err != nil {
				log.Error(ctx, "audit consumer: handle message failed", "err", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handleMessage appends the event in body to dir/backup.log.
func handleMessage(dir string, body []byte) error {
	var ev BackupImportedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.PrincipalID == "" {
		return errors.New("event without principal")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, AuditFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Backup imported | principal=%s | role=%s | film_rolls=+%d/~%d | cameras=+%d/~%d | prints=+%d/~%d",
		ev.ImportedAt, ev.PrincipalID, ev.Role,
		ev.FilmRollsCreated, ev.FilmRollsUpdated, ev.CamerasCreated, ev.CamerasUpdated,
		ev.PrintsCreated, ev.PrintsUpdated)
	if ev.RequestID != "" {
		line += " | request_id=" + ev.RequestID
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write audit line: %w", err)
	}
	return nil
}
