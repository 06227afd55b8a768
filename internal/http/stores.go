package http

import (
	"context"
	"time"

	"github.com/locallibrary/catalog/internal/entities"
)

// Each controller depends on the narrowest store it needs. The database
// repositories satisfy these interfaces.

type GenreStore interface {
	List(ctx context.Context) ([]entities.Genre, error)
	GetByID(ctx context.Context, id string) (*entities.Genre, error)
	FindByName(ctx context.Context, name string) (*entities.Genre, error)
	Create(ctx context.Context, genre *entities.Genre) error
	Update(ctx context.Context, genre *entities.Genre) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type AuthorStore interface {
	List(ctx context.Context) ([]entities.Author, error)
	GetByID(ctx context.Context, id string) (*entities.Author, error)
	Create(ctx context.Context, author *entities.Author) error
	Update(ctx context.Context, author *entities.Author) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type BookStore interface {
	List(ctx context.Context) ([]entities.Book, error)
	GetByID(ctx context.Context, id string) (*entities.Book, error)
	ListByGenre(ctx context.Context, genreID string) ([]entities.Book, error)
	ListByAuthor(ctx context.Context, authorID string) ([]entities.Book, error)
	Create(ctx context.Context, book *entities.Book) error
	Update(ctx context.Context, book *entities.Book) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type InstanceStore interface {
	List(ctx context.Context) ([]entities.BookInstance, error)
	GetByID(ctx context.Context, id string) (*entities.BookInstance, error)
	ListByBook(ctx context.Context, bookID string) ([]entities.BookInstance, error)
	Create(ctx context.Context, instance *entities.BookInstance) error
	Update(ctx context.Context, instance *entities.BookInstance) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status entities.InstanceStatus) (int64, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CleanupStatus reports the state of the audit retention schedule.
type CleanupStatus interface {
	IsRunning() bool
	NextRunTime() *time.Time
}
