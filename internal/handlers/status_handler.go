package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prospecto/internal/common"
	"github.com/ternarybob/prospecto/internal/services/scheduler"
)

// StatusHandler reports application status.
type StatusHandler struct {
	config    *common.Config
	scheduler *scheduler.Service
	logger    arbor.ILogger
	startedAt time.Time
}

func NewStatusHandler(config *common.Config, sched *scheduler.Service, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		config:    config,
		scheduler: sched,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// GetStatusHandler handles GET /api/status requests
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := map[string]interface{}{
		"version":     common.GetVersion(),
		"environment": h.config.Environment,
		"uptime":      time.Since(h.startedAt).Round(time.Second).String(),
		"providers": map[string]interface{}{
			"gemini": h.config.Gemini.APIKey != "",
			"claude": h.config.Claude.APIKey != "",
		},
	}

	if h.scheduler != nil {
		running, lastRun, lastError := h.scheduler.Status()
		refresh := map[string]interface{}{
			"running": running,
		}
		if !lastRun.IsZero() {
			refresh["last_run"] = lastRun
		}
		if lastError != "" {
			refresh["last_error"] = lastError
		}
		status["refresh"] = refresh
	}

	writeJSON(w, http.StatusOK, status)
}
