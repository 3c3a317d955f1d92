package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/johnmaronga/bookflow/internal/database"
	"github.com/johnmaronga/bookflow/internal/entities"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.db != nil {
		checks["trending_sync"] = h.syncCheck()
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

// syncCheck reports the outcome of the most recent trending sync.
// A failed or missing sync does not make the service unhealthy; the
// catalog may simply be unreachable or the first sync still pending.
func (h *HealthController) syncCheck() string {
	status, err := h.db.GetSetting(entities.SettingKeyTrendingSyncLastStatus)
	if err != nil {
		return "never ran"
	}

	result := status.Value
	if at, err := h.db.GetSetting(entities.SettingKeyTrendingSyncLastAt); err == nil {
		result += " at " + at.Value
	}
	return result
}
