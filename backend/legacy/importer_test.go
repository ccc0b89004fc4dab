package legacy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"skillpractice/backend/store"
	"skillpractice/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersJSON = `{
  "users": [
    {"id": 1, "username": "admin", "email": "admin@example.com", "password": "$2a$10$hash", "role": "admin",
     "createdAt": "2024-01-02T03:04:05Z", "isActive": true, "experience": 120},
    {"id": 2, "username": "kim", "email": "kim@example.com", "password": "$2a$10$hash2",
     "createdAt": "2024-02-01T00:00:00Z", "lastLogin": "2024-03-01T10:00:00Z", "isActive": false}
  ]
}`

const progressJSON = `{
  "userProgress": {
    "1": {
      "click-course": {
        "1": {"completed": true, "score": 90, "completedAt": "2024-01-05T00:00:00Z"},
        "2": {"completed": true, "score": 80}
      }
    },
    "2": {"drag-course": {"1": {"completed": false, "score": 30}, "x": {"completed": true}}},
    "42": {"click-course": {"1": {"completed": true, "score": 100}}},
    "nobody": {"click-course": {"1": {"completed": true}}}
  }
}`

func setup(t *testing.T) (*Importer, *store.UserStore, *store.ProgressStore, string) {
	t.Helper()
	db, err := utils.OpenSQLite(utils.SQLiteDSN(":memory:"), nil)
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))
	t.Cleanup(func() { _ = utils.CloseDB(db) })

	log := utils.NopLogger()
	users := store.NewUserStore(db, log)
	progress := store.NewProgressStore(db, log)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte(usersJSON), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "progress.json"), []byte(progressJSON), 0o600))
	return NewImporter(users, progress, log), users, progress, dir
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	im, users, progress, dir := setup(t)

	report, err := im.Import(ctx, filepath.Join(dir, "users.json"), filepath.Join(dir, "progress.json"))
	require.NoError(t, err)

	assert.Equal(t, Counts{Migrated: 2}, report.Users)
	// user 42 does not exist, "nobody" and challenge "x" are not numeric
	assert.Equal(t, Counts{Migrated: 3, Failed: 3}, report.Progress)

	admin, err := users.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, uint(1), admin.ID)
	assert.Equal(t, 120, admin.Experience)
	assert.True(t, admin.IsAdmin())
	assert.Equal(t, "$2a$10$hash", admin.PasswordHash)

	kim, err := users.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.False(t, kim.IsActive)
	assert.Equal(t, "user", kim.Role)
	require.NotNil(t, kim.LastLogin)

	rows, err := progress.ListCourse(ctx, 1, "click-course")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2024, rows[0].CompletedAt.Year())
	assert.NotNil(t, rows[1].CompletedAt, "completed rows get a completion time")

	dragged, err := progress.Get(ctx, 2, "drag-course", 1)
	require.NoError(t, err)
	assert.False(t, dragged.Completed)
	assert.Nil(t, dragged.CompletedAt)
}

func TestImportSkipsExistingRecords(t *testing.T) {
	ctx := context.Background()
	im, _, progress, dir := setup(t)

	_, err := im.Import(ctx, filepath.Join(dir, "users.json"), filepath.Join(dir, "progress.json"))
	require.NoError(t, err)

	_, err = progress.Upsert(ctx, 1, "click-course", 1, false, 10)
	require.NoError(t, err)

	report, err := im.Import(ctx, filepath.Join(dir, "users.json"), filepath.Join(dir, "progress.json"))
	require.NoError(t, err)
	assert.Equal(t, Counts{Skipped: 2}, report.Users)
	assert.Equal(t, Counts{Skipped: 3, Failed: 3}, report.Progress)

	// existing rows are left alone
	row, err := progress.Get(ctx, 1, "click-course", 1)
	require.NoError(t, err)
	assert.Equal(t, 10, row.Score)
}

func TestImportMissingAndMalformedFiles(t *testing.T) {
	ctx := context.Background()
	im, _, _, dir := setup(t)

	report, err := im.Import(ctx, filepath.Join(dir, "none.json"), "")
	require.NoError(t, err)
	assert.Equal(t, Report{}, *report)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = im.Import(ctx, "", bad)
	assert.Error(t, err)
}
