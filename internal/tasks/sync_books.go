package tasks

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/johnmaronga/bookflow/internal/entities"
	"github.com/johnmaronga/bookflow/internal/library"
)

// SyncBooksTask pulls the trending set from the catalog API and caches
// it locally. A transport failure is retried with backoff by the
// queue; a run that fetches zero books still completes normally.
type SyncBooksTask struct {
	Trigger string `json:"trigger"` // "schedule" or "manual"
}

// Config returns the queue configuration for trending sync tasks.
func (t SyncBooksTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sync_books",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SettingsWriter records the outcome of the latest sync run.
type SettingsWriter interface {
	SetSetting(key, value string) error
}

// SyncBooksProcessor creates the processor for SyncBooksTask.
func SyncBooksProcessor(repo *library.Repository, settings SettingsWriter) backlite.QueueProcessor[SyncBooksTask] {
	return func(ctx context.Context, task SyncBooksTask) error {
		result, err := repo.SyncBooks(ctx)
		if err != nil {
			recordSyncOutcome(settings, "failed", err.Error(), 0)
			return fmt.Errorf("sync books (%s): %w", task.Trigger, err)
		}

		recordSyncOutcome(settings, "success", "", result.BooksSynced)
		log.Printf("[TASK] Trending sync (%s): cached %d books in %v",
			task.Trigger, result.BooksSynced, result.Duration.Round(time.Millisecond))
		return nil
	}
}

func recordSyncOutcome(settings SettingsWriter, status, message string, booksSynced int) {
	if settings == nil {
		return
	}
	// Outcome recording is best effort; the sync result stands either way.
	if err := settings.SetSetting(entities.SettingKeyTrendingSyncLastAt, time.Now().Format(time.RFC3339)); err != nil {
		log.Printf("[TASK] failed to record sync time: %v", err)
		return
	}
	_ = settings.SetSetting(entities.SettingKeyTrendingSyncLastStatus, status)
	_ = settings.SetSetting(entities.SettingKeyTrendingSyncLastMessage, message)
	_ = settings.SetSetting(entities.SettingKeyTrendingSyncBooksSynced, strconv.Itoa(booksSynced))
}

// NewSyncBooksQueue creates a backlite queue for trending sync tasks.
func NewSyncBooksQueue(repo *library.Repository, settings SettingsWriter) backlite.Queue {
	return backlite.NewQueue(SyncBooksProcessor(repo, settings))
}
