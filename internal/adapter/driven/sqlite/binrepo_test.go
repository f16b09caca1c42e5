package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/binvault/internal/domain/model"
	"github.com/ericfisherdev/binvault/internal/domain/port/driven"
)

func newBin(id, title string, createdAt time.Time) model.Bin {
	return model.Bin{ID: id, Title: title, Content: "content of " + title, CreatedAt: createdAt}
}

func TestBinRepo_ListEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBinRepo(db)

	bins, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, bins)
	assert.Empty(t, bins)
}

func TestBinRepo_AppendAndListPreservesOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBinRepo(db)
	ctx := context.Background()
	base := time.Date(2026, 2, 10, 12, 0, 0, 125_000_000, time.UTC)

	// Insert with out-of-order timestamps; insertion order still wins.
	require.NoError(t, repo.Append(ctx, newBin("300", "third-created", base.Add(2*time.Second))))
	require.NoError(t, repo.Append(ctx, newBin("100", "first-created", base)))

	bins, err := repo.List(ctx)

	require.NoError(t, err)
	require.Len(t, bins, 2)
	assert.Equal(t, "300", bins[0].ID)
	assert.Equal(t, "third-created", bins[0].Title)
	assert.Equal(t, "content of third-created", bins[0].Content)
	assert.True(t, bins[0].CreatedAt.Equal(base.Add(2*time.Second)))
	assert.Equal(t, "100", bins[1].ID)
	assert.True(t, bins[1].CreatedAt.Equal(base))
}

func TestBinRepo_AppendDuplicateIDConflicts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBinRepo(db)
	ctx := context.Background()
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, newBin("1", "original", now)))
	err := repo.Append(ctx, newBin("1", "duplicate", now))

	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrConflict)

	bins, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, bins, 1)
	assert.Equal(t, "original", bins[0].Title)
}

func TestBinRepo_BlankFieldsRejectedBySchema(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBinRepo(db)

	err := repo.Append(context.Background(), model.Bin{ID: "1", Title: " ", Content: "x", CreatedAt: time.Now()})

	require.Error(t, err)
	assert.NotErrorIs(t, err, driven.ErrConflict)
}

func TestNewDB_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binvault.db")

	db, err := NewDB(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db.Writer))
	// Running twice is a no-op.
	require.NoError(t, RunMigrations(db.Writer))

	repo := NewBinRepo(db)
	require.NoError(t, repo.Append(context.Background(), newBin("1", "persisted", time.Now())))

	bins, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, bins, 1)
	assert.Equal(t, path, db.Path())
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2026-02-10T12:00:00.5Z", time.Date(2026, 2, 10, 12, 0, 0, 500_000_000, time.UTC)},
		{"2026-02-10T12:00:00Z", time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)},
		{"2026-02-10 12:00:00", time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := parseTime(tt.input)
		require.NoError(t, err, tt.input)
		assert.True(t, got.Equal(tt.want), tt.input)
	}

	_, err := parseTime("yesterday")
	assert.Error(t, err)
}
