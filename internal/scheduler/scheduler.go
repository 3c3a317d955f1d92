// Package scheduler registers the two periodic jobs: the trending
// sync and the reading reminder. Each tick enqueues a task on the
// persistent queue, which owns execution and retry policy. Start is
// idempotent, so a job is never registered twice.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/johnmaronga/bookflow/internal/tasks"
)

// Config controls which jobs run and on what schedule.
type Config struct {
	SyncEnabled      bool
	SyncSchedule     string // cron format, e.g. "0 3 * * *" = daily at 03:00
	ReminderEnabled  bool
	ReminderSchedule string // cron format, e.g. "0 20 * * *" = daily at 20:00
}

// Scheduler manages the periodic sync and reminder jobs.
type Scheduler struct {
	queue *tasks.Client
	cfg   Config

	cron            *cron.Cron
	mu              sync.Mutex
	running         bool
	syncEntryID     cron.EntryID
	reminderEntryID cron.EntryID
}

// New creates a scheduler. Jobs are registered on Start.
func New(queue *tasks.Client, cfg Config) *Scheduler {
	return &Scheduler{
		queue: queue,
		cfg:   cfg,
		cron:  cron.New(),
	}
}

// Start registers the enabled jobs and begins the clock. Calling Start
// while already running is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	// Entries survive Stop, so a restarted scheduler keeps what is
	// already registered instead of adding a duplicate.
	if s.cfg.SyncEnabled && s.syncEntryID == 0 {
		if err := validateSchedule(s.cfg.SyncSchedule); err != nil {
			return fmt.Errorf("invalid sync schedule '%s': %w", s.cfg.SyncSchedule, err)
		}
		entryID, err := s.cron.AddFunc(s.cfg.SyncSchedule, s.enqueueSync)
		if err != nil {
			return fmt.Errorf("failed to schedule sync job: %w", err)
		}
		s.syncEntryID = entryID
		log.Printf("Scheduler: sync job registered with schedule '%s'", s.cfg.SyncSchedule)
	} else if !s.cfg.SyncEnabled {
		log.Printf("Scheduler: sync job disabled")
	}

	if s.cfg.ReminderEnabled && s.reminderEntryID == 0 {
		if err := validateSchedule(s.cfg.ReminderSchedule); err != nil {
			return fmt.Errorf("invalid reminder schedule '%s': %w", s.cfg.ReminderSchedule, err)
		}
		entryID, err := s.cron.AddFunc(s.cfg.ReminderSchedule, s.enqueueReminder)
		if err != nil {
			return fmt.Errorf("failed to schedule reminder job: %w", err)
		}
		s.reminderEntryID = entryID
		log.Printf("Scheduler: reminder job registered with schedule '%s'", s.cfg.ReminderSchedule)
	} else if !s.cfg.ReminderEnabled {
		log.Printf("Scheduler: reminder job disabled")
	}

	s.cron.Start()
	s.running = true

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop cancels both jobs and waits for any in-flight enqueue to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.running = false

	log.Printf("Scheduler: stopped")
}

// CancelSync removes the sync job until re-registered via Start.
func (s *Scheduler) CancelSync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.syncEntryID != 0 {
		s.cron.Remove(s.syncEntryID)
		s.syncEntryID = 0
		log.Printf("Scheduler: sync job cancelled")
	}
}

// CancelReminder removes the reminder job until re-registered.
func (s *Scheduler) CancelReminder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reminderEntryID != 0 {
		s.cron.Remove(s.reminderEntryID)
		s.reminderEntryID = 0
		log.Printf("Scheduler: reminder job cancelled")
	}
}

// CancelAll removes both jobs, e.g. when the user opts out of
// background work or notification permission is revoked.
func (s *Scheduler) CancelAll() {
	s.CancelSync()
	s.CancelReminder()
}

// RunSyncNow enqueues an immediate manual sync.
func (s *Scheduler) RunSyncNow() error {
	_, err := s.queue.Add(tasks.SyncBooksTask{Trigger: "manual"}).Save()
	return err
}

// IsRunning returns whether the scheduler clock is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextSyncTime returns when the sync job will next fire, or nil when
// it is not scheduled.
func (s *Scheduler) NextSyncTime() *time.Time {
	return s.nextRun(s.syncEntryID)
}

// NextReminderTime returns when the reminder job will next fire.
func (s *Scheduler) NextReminderTime() *time.Time {
	return s.nextRun(s.reminderEntryID)
}

func (s *Scheduler) nextRun(id cron.EntryID) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || id == 0 {
		return nil
	}
	entry := s.cron.Entry(id)
	if entry.ID != id {
		return nil
	}
	t := entry.Next
	return &t
}

func (s *Scheduler) enqueueSync() {
	if _, err := s.queue.Add(tasks.SyncBooksTask{Trigger: "schedule"}).Save(); err != nil {
		log.Printf("Scheduler: failed to enqueue sync task: %v", err)
	}
}

func (s *Scheduler) enqueueReminder() {
	if _, err := s.queue.Add(tasks.ReadingReminderTask{}).Save(); err != nil {
		log.Printf("Scheduler: failed to enqueue reminder task: %v", err)
	}
}

func validateSchedule(schedule string) error {
	_, err := cron.ParseStandard(schedule)
	return err
}
