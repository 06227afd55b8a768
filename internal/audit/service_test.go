package audit

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	auditRepo "github.com/locallibrary/catalog/internal/database/audit"
	"github.com/locallibrary/catalog/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	repo := auditRepo.NewRepository(db)
	svc := NewService(repo)

	return svc, db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCreate,
		Action:      "genre_create",
		Description: "Created genre: Fantasy",
		Status:      entities.AuditStatusSuccess,
	}

	err := svc.Log(event)
	require.NoError(t, err)

	var saved entities.AuditEvent
	err = db.First(&saved, event.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "genre_create", saved.Action)
}

func TestService_LogChanges(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogCreate("genre", "g-1", "Fantasy", "127.0.0.1")
	svc.LogUpdate("genre", "g-1", "High Fantasy", "127.0.0.1")
	svc.LogDelete("book", "b-1", "The Name of the Wind", "")
	svc.Wait()

	var create entities.AuditEvent
	require.NoError(t, db.Where("action = ?", "genre_create").First(&create).Error)
	assert.Equal(t, entities.AuditEventCreate, create.EventType)
	assert.Equal(t, "genre", create.EntityType)
	assert.Equal(t, "g-1", create.EntityID)
	assert.Equal(t, "Created genre: Fantasy", create.Description)
	assert.Equal(t, "127.0.0.1", create.IPAddress)

	var update entities.AuditEvent
	require.NoError(t, db.Where("action = ?", "genre_update").First(&update).Error)
	assert.Equal(t, "Updated genre: High Fantasy", update.Description)

	var del entities.AuditEvent
	require.NoError(t, db.Where("action = ?", "book_delete").First(&del).Error)
	assert.Equal(t, entities.AuditEventDelete, del.EventType)
	assert.Equal(t, "b-1", del.EntityID)

	history, err := svc.GetEventsForEntity("genre", "g-1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestService_LogMaintenance(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("success", func(t *testing.T) {
		svc.LogMaintenance("audit_cleanup", "Deleted 3 audit events", nil)
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "audit_cleanup").First(&event).Error)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, entities.AuditEventMaintenance, event.EventType)
	})

	t.Run("failure", func(t *testing.T) {
		svc.LogMaintenance("audit_cleanup_failed", "Cleanup failed", errors.New("database is locked"))
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "audit_cleanup_failed").First(&event).Error)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Contains(t, event.ErrorMsg, "database is locked")
	})
}

func TestService_NilIsNoop(t *testing.T) {
	var svc *Service

	assert.NotPanics(t, func() {
		svc.LogCreate("genre", "g-1", "Fantasy", "")
		svc.LogMaintenance("audit_cleanup", "noop", nil)
		svc.Wait()
	})
	assert.NoError(t, svc.Log(&entities.AuditEvent{}))
}

func TestService_GetEvents(t *testing.T) {
	svc, _ := setupTestService(t)

	for i := 0; i < 5; i++ {
		err := svc.Log(&entities.AuditEvent{
			EventType: entities.AuditEventCreate,
			Action:    "test",
			Status:    entities.AuditStatusSuccess,
		})
		require.NoError(t, err)
	}
	require.NoError(t, svc.Log(&entities.AuditEvent{
		EventType: entities.AuditEventDelete,
		Action:    "test",
		Status:    entities.AuditStatusSuccess,
	}))

	events, total, err := svc.GetEvents(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	assert.Len(t, events, 6)

	deletes, total, err := svc.GetEventsByType(entities.AuditEventDelete, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, deletes, 1)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)

	oldEvent := &entities.AuditEvent{
		EventType: entities.AuditEventCreate,
		Action:    "old",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, db.Create(oldEvent).Error)

	newEvent := &entities.AuditEvent{
		EventType: entities.AuditEventDelete,
		Action:    "new",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(newEvent).Error)

	deleted, err := svc.DeleteOldEvents(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []entities.AuditEvent
	db.Find(&remaining)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Action)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a very long string", 10, "this is..."},
		{"", 5, ""},
		{"ééééé", 8, "éé..."},
		{"Gabriel García Márquez", 16, "Gabriel Garc..."},
		{"Gabriel García Márquez", 17, "Gabriel Garcí..."},
	}

	for _, tc := range tests {
		result := truncate(tc.input, tc.maxLen)
		assert.Equal(t, tc.expected, result)
		assert.True(t, utf8.ValidString(result), result)
		assert.LessOrEqual(t, len(result), max(tc.maxLen, len(tc.input)))
	}
}
