package authors

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locallibrary/catalog/internal/database"
	"github.com/locallibrary/catalog/internal/entities"
)

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"), database.WithLogLevel("silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRepository_CreateListAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	born := time.Date(1920, time.January, 2, 0, 0, 0, 0, time.UTC)
	asimov := &entities.Author{FirstName: "Isaac", FamilyName: "Asimov", DateOfBirth: &born}
	require.NoError(t, repo.Create(ctx, asimov))
	require.NoError(t, repo.Create(ctx, &entities.Author{FirstName: "Ben", FamilyName: "Bova"}))
	require.NoError(t, repo.Create(ctx, &entities.Author{FirstName: "Bob", FamilyName: "Billings"}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Asimov", list[0].FamilyName)
	assert.Equal(t, "Billings", list[1].FamilyName)
	assert.Equal(t, "Bova", list[2].FamilyName)

	stored, err := repo.GetByID(ctx, asimov.ID)
	require.NoError(t, err)
	assert.Equal(t, "1920-01-02", stored.DateOfBirthFormatted())
	assert.Equal(t, "", stored.DateOfDeathFormatted())

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, database.ErrNotFound))
}

func TestRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	author := &entities.Author{FirstName: "Isak", FamilyName: "Asimov"}
	require.NoError(t, repo.Create(ctx, author))
	id := author.ID

	died := time.Date(1992, time.April, 6, 0, 0, 0, 0, time.UTC)
	update := &entities.Author{ID: id, FirstName: "Isaac", FamilyName: "Asimov", DateOfDeath: &died}
	require.NoError(t, repo.Update(ctx, update))

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Isaac", stored.FirstName)
	assert.Equal(t, "1992-04-06", stored.DateOfDeathFormatted())
	assert.False(t, stored.CreatedAt.IsZero())

	err = repo.Update(ctx, &entities.Author{ID: "missing", FirstName: "X", FamilyName: "Y"})
	assert.True(t, errors.Is(err, database.ErrNotFound))
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	author := &entities.Author{FirstName: "Patrick", FamilyName: "Rothfuss"}
	require.NoError(t, repo.Create(ctx, author))
	book := &entities.Book{Title: "The Wise Man's Fear", AuthorID: author.ID, Summary: "s", ISBN: "9788401352836"}
	require.NoError(t, db.DB.Omit("Author").Create(book).Error)

	assert.True(t, errors.Is(repo.Delete(ctx, author.ID), database.ErrInUse))

	require.NoError(t, db.DB.Delete(&entities.Book{}, "id = ?", book.ID).Error)
	require.NoError(t, repo.Delete(ctx, author.ID))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.True(t, errors.Is(repo.Delete(ctx, author.ID), database.ErrNotFound))
}
