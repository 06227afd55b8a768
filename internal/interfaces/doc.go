// Package interfaces holds compile-time checks that the concrete catalog
// types satisfy the interfaces their consumers declare.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - GenreStore, AuthorStore, BookStore, InstanceStore: catalog reads and
//     writes used by the controllers (internal/http/stores.go)
//   - Pinger: database liveness for the health endpoint (internal/http/stores.go)
//
// ## Background Work
//
//   - AuditEventCleaner: retention cleanup run by the task queue
//     (internal/tasks/cleanup_audit.go)
//   - CleanupEnqueuer: hands scheduled cleanups to the task queue
//     (internal/scheduler/audit_cleanup.go)
//
// # Adding a New Catalog Entity
//
//  1. Add the entity to internal/entities and register it in database.NewDatabase.
//
//  2. Create a repository sub-package under internal/database/.
//
//  3. Declare the store the controller needs in internal/http/stores.go and
//     add a compile-time check to checks.go:
//
//     var _ http.PublisherStore = (*publishers.Repository)(nil)
//
// To verify all checks pass: go build ./internal/interfaces/...
package interfaces
