package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/johnmaronga/bookflow/internal/library"
	"github.com/johnmaronga/bookflow/internal/notify"
)

// ReadingReminderTask counts books currently in progress and sends a
// reminder notification when there is at least one. Failures are
// terminal for the run (MaxAttempts 1); the job simply fires again at
// its next scheduled interval.
type ReadingReminderTask struct{}

// Config returns the queue configuration for reminder tasks.
func (t ReadingReminderTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "reading_reminder",
		MaxAttempts: 1,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
		},
	}
}

// ReadingReminderProcessor creates the processor for ReadingReminderTask.
func ReadingReminderProcessor(repo *library.Repository, notifier notify.Notifier) backlite.QueueProcessor[ReadingReminderTask] {
	return func(ctx context.Context, task ReadingReminderTask) error {
		count, err := repo.CountCurrentlyReading()
		if err != nil {
			return fmt.Errorf("count currently reading: %w", err)
		}

		if count == 0 {
			log.Printf("[TASK] Reading reminder: no books in progress, skipping notification")
			return nil
		}

		plural := ""
		if count > 1 {
			plural = "s"
		}
		body := fmt.Sprintf("You have %d book%s in progress. Continue your reading journey!", count, plural)
		if err := notifier.Send("Time to read!", body); err != nil {
			return fmt.Errorf("send reminder notification: %w", err)
		}

		return nil
	}
}

// NewReadingReminderQueue creates a backlite queue for reminder tasks.
func NewReadingReminderQueue(repo *library.Repository, notifier notify.Notifier) backlite.Queue {
	return backlite.NewQueue(ReadingReminderProcessor(repo, notifier))
}
