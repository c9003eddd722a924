package migrations

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"0002_indexes.sql": {Data: []byte("CREATE INDEX idx_b ON bookings (status);")},
		"0001_init.sql":    {Data: []byte("CREATE TABLE users (id SERIAL);")},
		"README.md":        {Data: []byte("ignored")},
	}
}

func TestLoad(t *testing.T) {
	all, err := Load(testFS())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "0001_init", all[0].Version)
	assert.Equal(t, "0002_indexes", all[1].Version)
}

func TestLoad_Embedded(t *testing.T) {
	all, err := Load(FS)
	require.NoError(t, err)
	require.NotEmpty(t, all)
	assert.Equal(t, "0001_init", all[0].Version)
	assert.Contains(t, all[0].SQL, "CREATE TABLE IF NOT EXISTS bookings")
	require.Len(t, all, 2)
	assert.Equal(t, "0002_vehicle_categories", all[1].Version)
	assert.Contains(t, all[1].SQL, "REFERENCES vehicle_categories(id)")
}

func TestUp(t *testing.T) {
	t.Run("Applies only pending versions", func(t *testing.T) {
		db, m, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		m.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).WillReturnResult(sqlmock.NewResult(0, 0))
		m.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_migrations")).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0001_init"))
		m.ExpectBegin()
		m.ExpectExec(regexp.QuoteMeta("CREATE INDEX idx_b")).WillReturnResult(sqlmock.NewResult(0, 0))
		m.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).WithArgs("0002_indexes").WillReturnResult(sqlmock.NewResult(0, 1))
		m.ExpectCommit()

		done, err := Up(context.Background(), db, testFS())
		require.NoError(t, err)
		assert.Equal(t, []string{"0002_indexes"}, done)
		assert.NoError(t, m.ExpectationsWereMet())
	})

	t.Run("Failed migration rolls back", func(t *testing.T) {
		db, m, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		m.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).WillReturnResult(sqlmock.NewResult(0, 0))
		m.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_migrations")).
			WillReturnRows(sqlmock.NewRows([]string{"version"}))
		m.ExpectBegin()
		m.ExpectExec(regexp.QuoteMeta("CREATE TABLE users")).WillReturnError(errors.New("syntax error"))
		m.ExpectRollback()

		done, err := Up(context.Background(), db, testFS())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "0001_init")
		assert.Empty(t, done)
		assert.NoError(t, m.ExpectationsWereMet())
	})

	t.Run("Nothing pending", func(t *testing.T) {
		db, m, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		m.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).WillReturnResult(sqlmock.NewResult(0, 0))
		m.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_migrations")).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0001_init").AddRow("0002_indexes"))

		done, err := Up(context.Background(), db, testFS())
		require.NoError(t, err)
		assert.Empty(t, done)
		assert.NoError(t, m.ExpectationsWereMet())
	})
}
