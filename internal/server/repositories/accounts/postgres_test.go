package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var accountCols = []string{"id", "name", "password_hash", "is_admin", "totp_secret", "totp_enabled", "created_at"}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	q := `(?s)^INSERT\s+INTO\s+accounts\s*\(name,\s*password_hash,\s*is_admin\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at$`
	mock.ExpectQuery(q).
		WithArgs("alice", []byte("hash"), true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("a-1", now))

	got, err := repo.Create(context.Background(), &models.Account{Name: "alice", PasswordHash: []byte("hash"), IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, "a-1", got.ID)
	assert.Equal(t, now, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateNameIsConflict(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+accounts`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_name_key"})

	_, err := repo.Create(context.Background(), &models.Account{Name: "alice", PasswordHash: []byte("h")})
	assert.True(t, errors.Is(err, common.ErrorConflict), "got %v", err)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+accounts`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Account{Name: "alice"})
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestLockBootstrapAndCount(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock($1)`)).
		WithArgs(bootstrapLockID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM accounts`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	require.NoError(t, repo.LockBootstrap(context.Background()))
	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByName_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	q := `(?s)^SELECT\s+id,\s*name,\s*password_hash,\s*is_admin,\s*COALESCE\(totp_secret,\s*''\),\s*totp_enabled,\s*created_at\s+FROM\s+accounts\s+WHERE\s+name\s*=\s*\$1$`
	mock.ExpectQuery(q).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow("a-1", "alice", []byte("h"), false, "SECRET", true, now))

	got, err := repo.GetByName(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "a-1", got.ID)
	assert.Equal(t, "SECRET", got.TOTPSecret)
	assert.True(t, got.TOTPEnabled)
}

func TestGetByID_NotFoundVariants(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+accounts\s+WHERE\s+id`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`FROM\s+accounts\s+WHERE\s+id`).WithArgs("not-a-uuid").WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.True(t, errors.Is(err, common.ErrorNotFound))

	_, err = repo.GetByID(context.Background(), "not-a-uuid")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestList_OrderedByName(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM\s+accounts\s+ORDER\s+BY\s+name`).
		WillReturnRows(sqlmock.NewRows(accountCols).
			AddRow("1", "alice", []byte("h"), true, "", false, now).
			AddRow("2", "bob", []byte("h"), false, "", false, now))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Name)
	assert.True(t, got[0].IsAdmin)
}

func TestDelete_RowsAffected(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE\s+FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1`).WithArgs("a-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE\s+FROM\s+accounts`).WithArgs("a-2").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "a-1"))
	assert.True(t, errors.Is(repo.Delete(context.Background(), "a-2"), common.ErrorNotFound))
}

func TestSetTOTP(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)UPDATE\s+accounts\s+SET\s+totp_secret\s*=\s*NULLIF\(\$2,\s*''\),\s*totp_enabled\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1`
	mock.ExpectExec(q).WithArgs("a-1", "SECRET", true).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("a-1", "", false).WillReturnError(errors.New("db err"))

	require.NoError(t, repo.SetTOTP(context.Background(), "a-1", "SECRET", true))

	err := repo.SetTOTP(context.Background(), "a-1", "", false)
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db err`, err.Error())
}
