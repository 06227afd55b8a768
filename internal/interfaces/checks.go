package interfaces

import (
	"github.com/locallibrary/catalog/internal/audit"
	"github.com/locallibrary/catalog/internal/database"
	"github.com/locallibrary/catalog/internal/database/authors"
	"github.com/locallibrary/catalog/internal/database/books"
	"github.com/locallibrary/catalog/internal/database/genres"
	"github.com/locallibrary/catalog/internal/database/instances"
	"github.com/locallibrary/catalog/internal/http"
	"github.com/locallibrary/catalog/internal/scheduler"
	"github.com/locallibrary/catalog/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.GenreStore = (*genres.Repository)(nil)
var _ http.AuthorStore = (*authors.Repository)(nil)
var _ http.BookStore = (*books.Repository)(nil)
var _ http.InstanceStore = (*instances.Repository)(nil)
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.CleanupEnqueuer = (*tasks.Client)(nil)
var _ http.CleanupStatus = (*scheduler.AuditCleanupScheduler)(nil)
