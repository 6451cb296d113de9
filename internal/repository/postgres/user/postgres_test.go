package user

import (
	"context"
	"testing"

	"household-app-go/internal/db"
	domain "household-app-go/internal/domain/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := db.Open(postgres.New(postgres.Config{Conn: sqlDB}))
	require.NoError(t, err)
	return NewPostgres(gormDB), mock
}

func TestGetByExternalID(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"id", "external_id", "name", "email", "image"}).
		AddRow("u1", "ext-1", "Ann", "ann@example.com", nil)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE external_id = \$1`).WillReturnRows(rows)

	user, err := repo.GetByExternalID(context.Background(), "ext-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Nil(t, user.Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllowEmailIgnoresDuplicates(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`INSERT INTO "allowed_emails" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.AllowEmail(context.Background(), "ann@example.com"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisallowEmailReportsRemoval(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`DELETE FROM "allowed_emails" WHERE email = \$1`).
		WithArgs("ann@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := repo.DisallowEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsEmailAllowed(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "allowed_emails" WHERE email = \$1`).
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	allowed, err := repo.IsEmailAllowed(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
