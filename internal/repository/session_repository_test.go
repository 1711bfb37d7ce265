package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"quran-coach/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

func sessionColumns() []string {
	return []string{"id", "user_id", "ts", "duration", "performance_score", "notes", "created_at", "updated_at"}
}

func emptyChildRows(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT \* FROM portion_details`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "portion_type", "reference", "recency_category", "created_at"}))
	mock.ExpectQuery(`SELECT \* FROM mistakes`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "location", "error_category", "error_subcategory", "details", "correction_method", "resolution_status", "severity_level", "created_at", "resolved_at", "last_reviewed_at", "review_count"}))
	mock.ExpectQuery(`SELECT \* FROM test_types`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "category", "description", "success_rate", "created_at"}))
	mock.ExpectQuery(`SELECT \* FROM learning_methods`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "method_type", "details", "effectiveness_rating", "created_at"}))
}

func TestCreateSession_AssignsULID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXSessionRepository(db)

	mock.ExpectExec(`INSERT INTO sessions`).WillReturnResult(sqlmock.NewResult(0, 1))

	session := domain.NewSession("user-1", time.Now(), 30, 80.0, "")
	err := repo.CreateSession(context.Background(), session)

	assert.NoError(t, err)
	assert.Len(t, session.ID, 26, "a ULID must be assigned")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSessionByID_NotFoundIsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXSessionRepository(db)

	mock.ExpectQuery(`SELECT \* FROM sessions WHERE id`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	session, err := repo.GetSessionByID(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSessionByID_LoadsChildren(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXSessionRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM sessions WHERE id`).
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows(sessionColumns()).
			AddRow("sess-1", "user-1", now, 30, 80.0, "notes", now, now))

	mock.ExpectQuery(`SELECT \* FROM portion_details`).
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "portion_type", "reference", "recency_category", "created_at"}).
			AddRow("p-1", "sess-1", "surah", "Al-Mulk", "reviewing", now))
	mock.ExpectQuery(`SELECT \* FROM mistakes`).
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "location", "error_category", "error_subcategory", "details", "correction_method", "resolution_status", "severity_level", "created_at", "resolved_at", "last_reviewed_at", "review_count"}).
			AddRow("m-1", "sess-1", "Ayah 5", "tajweed", "makhraj", "", "", "pending", 3, now, nil, nil, 0))
	mock.ExpectQuery(`SELECT \* FROM test_types`).
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "category", "description", "success_rate", "created_at"}))
	mock.ExpectQuery(`SELECT \* FROM learning_methods`).
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "method_type", "details", "effectiveness_rating", "created_at"}))

	session, err := repo.GetSessionByID(context.Background(), "sess-1")

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "user-1", session.UserID)
	assert.Len(t, session.PortionDetails, 1)
	assert.Equal(t, domain.PortionSurah, session.PortionDetails[0].PortionType)
	require.Len(t, session.Mistakes, 1)
	assert.Equal(t, domain.ResolutionPending, session.Mistakes[0].ResolutionStatus)
	assert.Nil(t, session.Mistakes[0].ResolvedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSessionsInWindow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXSessionRepository(db)

	now := time.Now()
	since := now.AddDate(0, 0, -7)
	mock.ExpectQuery(`SELECT \* FROM sessions WHERE user_id = \$1 AND ts >= \$2`).
		WithArgs("user-1", since, 10).
		WillReturnRows(sqlmock.NewRows(sessionColumns()).
			AddRow("sess-1", "user-1", now, 30, 80.0, "", now, now))
	emptyChildRows(mock)

	sessions, err := repo.GetSessionsInWindow(context.Background(), "user-1", domain.SessionWindow{Limit: 10, Since: since})

	assert.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSession_NoRowsAffected(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXSessionRepository(db)

	mock.ExpectExec(`UPDATE sessions SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	session := domain.NewSession("user-1", time.Now(), 30, 80.0, "")
	session.ID = "sess-gone"
	err := repo.UpdateSession(context.Background(), session)

	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSession(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXSessionRepository(db)

	mock.ExpectExec(`DELETE FROM sessions WHERE id`).
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DeleteSession(context.Background(), "sess-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMistake_PersistsResolutionStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXSessionRepository(db)

	mock.ExpectExec(`INSERT INTO mistakes`).WillReturnResult(sqlmock.NewResult(0, 1))

	mistake := domain.NewMistake("sess-1", "Ayah 5", "tajweed", 4)
	err := repo.AddMistake(context.Background(), mistake)

	assert.NoError(t, err)
	assert.NotEmpty(t, mistake.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMistakesByUser_JoinsSessions(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSQLXSessionRepository(db)

	now := time.Now()
	since := now.AddDate(0, 0, -7)
	mock.ExpectQuery(`SELECT m\.\* FROM mistakes m`).
		WithArgs("user-1", since).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "location", "error_category", "error_subcategory", "details", "correction_method", "resolution_status", "severity_level", "created_at", "resolved_at", "last_reviewed_at", "review_count"}).
			AddRow("m-1", "sess-1", "Ayah 5", "tajweed", "", "", "", "practicing", 3, now, nil, now, 2))

	mistakes, err := repo.GetMistakesByUser(context.Background(), "user-1", since)

	require.NoError(t, err)
	require.Len(t, mistakes, 1)
	assert.Equal(t, domain.ResolutionPracticing, mistakes[0].ResolutionStatus)
	assert.Equal(t, 2, mistakes[0].ReviewCount)
	assert.NotNil(t, mistakes[0].LastReviewedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollbackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	txManager := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM sessions`).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := txManager.WithTransaction(context.Background(), func(ctx context.Context) error {
		_, execErr := GetExecutor(ctx, db).ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, "sess-1")
		return execErr
	})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_CommitOnSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	txManager := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM sessions`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := txManager.WithTransaction(context.Background(), func(ctx context.Context) error {
		_, execErr := GetExecutor(ctx, db).ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, "sess-1")
		return execErr
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
