package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locallibrary/catalog/internal/config"
	"github.com/locallibrary/catalog/internal/database"
	"github.com/locallibrary/catalog/internal/database/authors"
	"github.com/locallibrary/catalog/internal/database/books"
	"github.com/locallibrary/catalog/internal/database/genres"
	"github.com/locallibrary/catalog/internal/database/instances"
	"github.com/locallibrary/catalog/internal/entities"
)

func TestPopulateParseFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cmd := NewPopulateCommand()
		require.NoError(t, cmd.ParseFlags(nil))
		assert.Equal(t, config.DefaultDatabasePath, cmd.DatabasePath)
		assert.False(t, cmd.Force)
	})

	t.Run("custom", func(t *testing.T) {
		cmd := NewPopulateCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-db", "/tmp/x.db", "-force", "-verbose"}))
		assert.Equal(t, "/tmp/x.db", cmd.DatabasePath)
		assert.True(t, cmd.Force)
		assert.True(t, cmd.Verbose)
	})
}

func newTestPopulator(t *testing.T) (*populator, *database.Database) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "catalog.db"), database.WithLogLevel("silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &populator{
		genres:    genres.NewRepository(db.DB),
		authors:   authors.NewRepository(db.DB),
		books:     books.NewRepository(db.DB),
		instances: instances.NewRepository(db.DB),
	}, db
}

func TestPopulate(t *testing.T) {
	p, _ := newTestPopulator(t)
	ctx := context.Background()

	result, err := p.run(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, PopulateResult{
		Genres:    len(sampleGenres),
		Authors:   len(sampleAuthors),
		Books:     len(sampleBooks),
		Instances: len(sampleInstances),
	}, result)

	available, err := p.instances.CountByStatus(ctx, entities.InstanceStatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, int64(5), available)

	list, err := p.authors.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, "Asimov", list[0].FamilyName)
	assert.Equal(t, "1920-01-02–1992-04-06", list[0].Lifespan())

	fantasy, err := p.genres.FindByName(ctx, "Fantasy")
	require.NoError(t, err)
	fantasyBooks, err := p.books.ListByGenre(ctx, fantasy.ID)
	require.NoError(t, err)
	assert.Len(t, fantasyBooks, 4)
}

func TestPopulateRefusesNonEmptyCatalog(t *testing.T) {
	p, _ := newTestPopulator(t)
	ctx := context.Background()

	_, err := p.run(ctx, false)
	require.NoError(t, err)

	_, err = p.run(ctx, false)
	assert.ErrorContains(t, err, "use -force")
}

func TestPopulateRun(t *testing.T) {
	cmd := &PopulateCommand{DatabasePath: filepath.Join(t.TempDir(), "catalog.db")}
	require.NoError(t, cmd.Run())

	db, err := database.NewDatabase(cmd.DatabasePath, database.WithLogLevel("silent"))
	require.NoError(t, err)
	defer db.Close()

	count, err := books.NewRepository(db.DB).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(len(sampleBooks)), count)
}
