// Package worker runs the background reminder scan: transactions whose
// reminder date has arrived are turned into AMQP events for downstream
// notifiers, then marked so they fire once.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"debiti/internal/amqp"
	"debiti/internal/core"
	"debiti/internal/storage"
)

// ReminderPublisher is the slice of the AMQP client the worker needs.
type ReminderPublisher interface {
	PublishReminderDue(ctx context.Context, msg *amqp.ReminderDueMessage) error
}

type ReminderWorker struct {
	storage   *storage.SQLiteRepository
	publisher ReminderPublisher
	batchSize int
	interval  time.Duration
}

func NewReminderWorker(storage *storage.SQLiteRepository, publisher ReminderPublisher, batchSize int, interval time.Duration) *ReminderWorker {
	return &ReminderWorker{
		storage:   storage,
		publisher: publisher,
		batchSize: batchSize,
		interval:  interval,
	}
}

// Run scans on a ticker until ctx is cancelled. The first scan happens
// immediately so restarts do not delay overdue reminders.
func (w *ReminderWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if err := w.scanOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Reminder scan failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Reminder worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.scanOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Reminder scan failed", "error", err)
			}
		}
	}
}

// scanOnce publishes one batch of due reminders. Publish failures leave
// the reminder unmarked so the next scan retries it.
func (w *ReminderWorker) scanOnce(ctx context.Context) error {
	today := core.DateOf(time.Now())

	due, err := w.storage.DueReminders(ctx, today, w.batchSize)
	if err != nil {
		return fmt.Errorf("fetch due reminders: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing due reminders", "count", len(due), "today", today.ISO())

	published := 0
	for _, tx := range due {
		msg := amqp.NewReminderDueMessage(tx.ID, tx.PersonID, tx.Amount, tx.Description, tx.ReminderDate.ISO())
		if err := w.publisher.PublishReminderDue(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish reminder",
				"error", err,
				"transaction_id", tx.ID)
			continue
		}
		if err := w.storage.MarkReminderSent(ctx, tx.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark reminder sent",
				"error", err,
				"transaction_id", tx.ID)
			continue
		}
		published++
	}

	slog.InfoContext(ctx, "Reminder scan completed",
		"due", len(due),
		"published", published)
	return nil
}
