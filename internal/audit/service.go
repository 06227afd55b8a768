// Package audit records every change made to the catalog.
package audit

import (
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/locallibrary/catalog/internal/database/audit"
	"github.com/locallibrary/catalog/internal/entities"
)

// Service provides high-level audit logging functionality. A nil *Service
// discards events, so callers never need to check whether auditing is on.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	if s == nil {
		return nil
	}
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	if s == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every event queued by LogAsync has been written.
func (s *Service) Wait() {
	if s == nil {
		return
	}
	s.pending.Wait()
}

// LogCreate records that a catalog record was created.
func (s *Service) LogCreate(entityType, entityID, name, ipAddr string) {
	s.logChange(entities.AuditEventCreate, "Created", entityType, entityID, name, ipAddr)
}

// LogUpdate records that a catalog record was updated.
func (s *Service) LogUpdate(entityType, entityID, name, ipAddr string) {
	s.logChange(entities.AuditEventUpdate, "Updated", entityType, entityID, name, ipAddr)
}

// LogDelete records that a catalog record was deleted.
func (s *Service) LogDelete(entityType, entityID, name, ipAddr string) {
	s.logChange(entities.AuditEventDelete, "Deleted", entityType, entityID, name, ipAddr)
}

func (s *Service) logChange(eventType entities.AuditEventType, verb, entityType, entityID, name, ipAddr string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   eventType,
		Action:      entityType + "_" + string(eventType),
		Description: truncate(verb+" "+entityType+": "+name, 500),
		EntityType:  entityType,
		EntityID:    entityID,
		IPAddress:   ipAddr,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogMaintenance records a background housekeeping run.
func (s *Service) LogMaintenance(action, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventMaintenance,
		Action:      action,
		Description: truncate(description, 500),
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(eventType, limit, offset)
}

// GetEventsForEntity retrieves the history of one record.
func (s *Service) GetEventsForEntity(entityType, entityID string) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForEntity(entityType, entityID)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
