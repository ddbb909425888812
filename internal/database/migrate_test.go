package database

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/alg/internal/config"
	"github.com/at-ishikawa/alg/internal/learning"
)

func TestMigrate_SQLMock(t *testing.T) {
	migrations := fstest.MapFS{
		"migrations/001_first.sql":  {Data: []byte("CREATE TABLE first (id INT)")},
		"migrations/002_second.sql": {Data: []byte("CREATE TABLE second (id INT)")},
		"migrations/README.md":      {Data: []byte("ignored")},
	}
	createTable := regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []string
		wantErr   bool
	}{
		{
			name: "applies pending migrations in order",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(createTable).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT version FROM schema_migrations").
					WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("001_first"))
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE second (id INT)")).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version) VALUES (?)")).
					WithArgs("002_second").
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			want: []string{"002_second"},
		},
		{
			name: "failed migration rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(createTable).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT version FROM schema_migrations").
					WillReturnRows(sqlmock.NewRows([]string{"version"}))
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE first (id INT)")).WillReturnError(fmt.Errorf("syntax error"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			got, err := migrate(context.Background(), sqlx.NewDb(db, "mysql"), migrations, nil)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMigrate_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := Open(config.DatabaseConfig{Driver: "sqlite3", Path: filepath.Join(t.TempDir(), "alg.db")})
	require.NoError(t, err)
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		t.Skipf("sqlite3 driver not available: %v", err)
	}

	ran, err := Migrate(ctx, db, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_create_word_states", "002_create_word_states_state_index"}, ran)

	ran, err = Migrate(ctx, db, nil)
	require.NoError(t, err)
	assert.Empty(t, ran)

	repo := learning.NewDBStateRepository(db)
	dog := uuid.MustParse("11111111-0000-0000-0000-000000000001")
	sets := learning.NewSets()
	sets.Known[dog] = struct{}{}
	sets.Favorites[dog] = struct{}{}
	require.NoError(t, repo.Save(ctx, sets))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sets, got)
}
