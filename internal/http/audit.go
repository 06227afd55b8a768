package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/locallibrary/catalog/internal/audit"
	"github.com/locallibrary/catalog/internal/entities"
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// GetAuditEvents returns the catalog change log as JSON.
// GET /api/audit?page=1&limit=25&type=delete
// GET /api/audit?entity_type=genre&entity_id=<id>
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	if entityType, entityID := c.Query("entity_type"), c.Query("entity_id"); entityType != "" && entityID != "" {
		events, err := ac.auditService.GetEventsForEntity(entityType, entityID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load audit events"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	eventType := c.Query("type")
	offset := (page - 1) * limit

	var (
		events []entities.AuditEvent
		total  int64
		err    error
	)
	if eventType != "" {
		events, total, err = ac.auditService.GetEventsByType(entities.AuditEventType(eventType), limit, offset)
	} else {
		events, total, err = ac.auditService.GetEvents(limit, offset)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load audit events"})
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       events,
		"page":         page,
		"limit":        limit,
		"total_pages":  totalPages,
		"total_events": total,
	})
}
