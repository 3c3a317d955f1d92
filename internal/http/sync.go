package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/johnmaronga/bookflow/internal/entities"
	"github.com/johnmaronga/bookflow/internal/scheduler"
)

// SyncController exposes the background job surface: trigger a manual
// sync and inspect the schedule and the last sync outcome.
type SyncController struct {
	scheduler *scheduler.Scheduler
	settings  settingsReader
}

type settingsReader interface {
	GetSetting(key string) (*entities.Setting, error)
}

func NewSyncController(sched *scheduler.Scheduler, settings settingsReader) *SyncController {
	return &SyncController{scheduler: sched, settings: settings}
}

// RunNow enqueues an immediate sync. The task queue runs it
// asynchronously with the same retry policy as a scheduled sync.
func (controller *SyncController) RunNow(c *gin.Context) {
	if err := controller.scheduler.RunSyncNow(); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusAccepted, gin.H{"message": "sync enqueued"})
}

func (controller *SyncController) Status(c *gin.Context) {
	status := gin.H{
		"running": controller.scheduler.IsRunning(),
	}
	if next := controller.scheduler.NextSyncTime(); next != nil {
		status["next_sync"] = next.Format(time.RFC3339)
	}
	if next := controller.scheduler.NextReminderTime(); next != nil {
		status["next_reminder"] = next.Format(time.RFC3339)
	}

	if controller.settings != nil {
		if s, err := controller.settings.GetSetting(entities.SettingKeyTrendingSyncLastAt); err == nil {
			status["last_sync_at"] = s.Value
		}
		if s, err := controller.settings.GetSetting(entities.SettingKeyTrendingSyncLastStatus); err == nil {
			status["last_sync_status"] = s.Value
		}
		if s, err := controller.settings.GetSetting(entities.SettingKeyTrendingSyncLastMessage); err == nil && s.Value != "" {
			status["last_sync_message"] = s.Value
		}
		if s, err := controller.settings.GetSetting(entities.SettingKeyTrendingSyncBooksSynced); err == nil {
			status["last_sync_books"] = s.Value
		}
	}

	c.IndentedJSON(http.StatusOK, status)
}
