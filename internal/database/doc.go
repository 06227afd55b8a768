// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into entity-specific sub-packages:
//
//	database/
//	├── database.go      # Connection lifecycle and migrations
//	├── errors.go        # Sentinel errors shared by repositories
//	├── authors/         # Author CRUD
//	├── genres/          # Genre CRUD with unique names
//	├── books/           # Book CRUD and genre associations
//	├── instances/       # BookInstance CRUD
//	└── audit/           # Catalog change log
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type constructed from the shared
// connection:
//
//	db, err := database.NewDatabase("./locallibrary.db")
//	genresRepo := genres.NewRepository(db.DB)
//	list, err := genresRepo.List(ctx)
//
// Lookups that match nothing return ErrNotFound. Deletes refused because of
// dependent records return ErrInUse; the dependency check and the delete run
// in a single transaction. Writes that point at a missing record return a
// *MissingReferenceError.
//
// # Adding a New Entity
//
//  1. Create a new sub-package: internal/database/<entity>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register the model in NewDatabase's AutoMigrate call
//  5. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
