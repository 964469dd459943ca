package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/sticker/internal/services/scheduler"
)

// SchedulerHandler handles scheduler-related endpoints
type SchedulerHandler struct {
	schedulerService SchedulerService
}

// NewSchedulerHandler creates a new scheduler handler
func NewSchedulerHandler(schedulerService SchedulerService) *SchedulerHandler {
	return &SchedulerHandler{
		schedulerService: schedulerService,
	}
}

// JobsHandler handles GET /api/scheduler/jobs
func (h *SchedulerHandler) JobsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"running": h.schedulerService.IsRunning(),
		"jobs":    h.schedulerService.Status(),
	})
}

// TriggerHandler handles POST /api/scheduler/jobs/{name}/trigger
func (h *SchedulerHandler) TriggerHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/scheduler/jobs/"), "/trigger")
	if name == "" || strings.Contains(name, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	if err := h.schedulerService.TriggerJob(name); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"message": "Job triggered",
		"job":     name,
	})
}
