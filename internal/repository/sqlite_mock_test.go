package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Repository{db: db, now: time.Now}, mock
}

var voteRowColumns = []string{"user_id", "username", "roblox_user", "discord_avatar_url", "roblox_avatar_url", "roblox_id", "selections", "created_at", "updated_at"}

func TestGetVote_CorruptSelections(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows(voteRowColumns).
		AddRow("42", "user", "roblox", nil, nil, nil, "{not json", now, now)
	mock.ExpectQuery("SELECT (.+) FROM votes WHERE user_id").WithArgs("42").WillReturnRows(rows)

	_, err := repo.GetVote(context.Background(), "42")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestCreateVote_UniqueConstraintMapsToDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO votes").
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})

	err := repo.CreateVote(context.Background(), sampleVote("42"))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateVote_OtherErrorPassesThrough(t *testing.T) {
	repo, mock := newMockRepo(t)
	dbErr := errors.New("disk I/O error")

	mock.ExpectExec("INSERT INTO votes").WillReturnError(dbErr)

	err := repo.CreateVote(context.Background(), sampleVote("42"))
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrDuplicate)
}

func TestUpdateSelections_UpdateFailsRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM votes WHERE user_id").WithArgs("42").
		WillReturnRows(sqlmock.NewRows(voteRowColumns).AddRow("42", "u", "r", nil, nil, nil, `{"mejor_dao":"a"}`, now, now))
	mock.ExpectExec("UPDATE votes SET selections").WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	_, err := repo.UpdateSelections(context.Background(), "42", map[string]string{"mejor_dao": "b"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListVotes_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM votes").WillReturnError(errors.New("no such table"))

	_, err := repo.ListVotes(context.Background())
	assert.Error(t, err)
}

func TestListVotes_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows(voteRowColumns).
		AddRow("42", "u", "r", nil, nil, nil, "{}", "not-a-time", "not-a-time")
	mock.ExpectQuery("SELECT (.+) FROM votes").WillReturnRows(rows)

	_, err := repo.ListVotes(context.Background())
	assert.Error(t, err)
}

func TestGetConfig_CorruptDocument(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT data, updated_at FROM award_config").
		WillReturnRows(sqlmock.NewRows([]string{"data", "updated_at"}).AddRow("[]", time.Now()))

	_, err := repo.GetConfig(context.Background())
	assert.Error(t, err)
}

func TestCountVotes_Error(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("boom"))

	_, err := repo.CountVotes(context.Background())
	assert.Error(t, err)
}
