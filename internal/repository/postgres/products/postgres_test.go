package products

import (
	"context"
	"testing"

	"household-app-go/internal/db"
	domain "household-app-go/internal/domain/products"

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

func TestListByCategory(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"id", "household_id", "icon", "name", "category", "default_unit"}).
		AddRow("p1", "h1", "🍎", "Apple", "fruits", "piece").
		AddRow("p2", "h1", "🍌", "Banana", "fruits", "piece")
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE household_id = \$1 AND category = \$2 ORDER BY name asc`).
		WithArgs("h1", "fruits").
		WillReturnRows(rows)

	category := domain.CategoryFruits
	items, err := repo.List(context.Background(), "h1", &category)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Apple", items[0].Name)
	assert.Equal(t, domain.UnitPiece, items[1].DefaultUnit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetScopedToHousehold(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE household_id = \$1 AND id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), "h2", "p1")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsNameTakenExcludesSelf(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE \(household_id = \$1 AND name = \$2\) AND id <> \$3`).
		WithArgs("h1", "Apple", "p1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	taken, err := repo.IsNameTaken(context.Background(), "h1", "Apple", "p1")
	require.NoError(t, err)
	assert.False(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`DELETE FROM "products" WHERE household_id = \$1 AND id = \$2`).
		WithArgs("h1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "h1", "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
