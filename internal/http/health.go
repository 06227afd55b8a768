package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      Pinger
	cleanup CleanupStatus
	version string
}

func NewHealthController(db Pinger, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

// WithAuditCleanup adds the audit retention schedule to the report. It does
// not affect the overall status.
func (h *HealthController) WithAuditCleanup(cleanup CleanupStatus) *HealthController {
	h.cleanup = cleanup
	return h
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	switch {
	case h.cleanup == nil:
		checks["audit_cleanup"] = "not configured"
	case !h.cleanup.IsRunning():
		checks["audit_cleanup"] = "stopped"
	default:
		if next := h.cleanup.NextRunTime(); next != nil {
			checks["audit_cleanup"] = "next run " + next.Format(time.RFC3339)
		} else {
			checks["audit_cleanup"] = "scheduled"
		}
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
