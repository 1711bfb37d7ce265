package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quran-coach/internal/domain"
	"quran-coach/internal/repository/models"
	"quran-coach/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxSessionRepository implements domain.SessionRepository using sqlx.
// Child records (portions, mistakes, test types, learning methods) are
// removed by the database's ON DELETE CASCADE when a session goes away.
type sqlxSessionRepository struct {
	db *sqlx.DB
}

// NewSQLXSessionRepository creates a new instance of sqlxSessionRepository.
func NewSQLXSessionRepository(db *sqlx.DB) domain.SessionRepository {
	return &sqlxSessionRepository{db: db}
}

func (r *sqlxSessionRepository) CreateSession(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		session.ID = util.NewULID()
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	query := `INSERT INTO sessions (id, user_id, ts, duration, performance_score, notes, created_at, updated_at)
	          VALUES (:id, :user_id, :ts, :duration, :performance_score, :notes, :created_at, :updated_at)`

	_, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainSession(session))
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sqlxSessionRepository) GetSessionByID(ctx context.Context, id string) (*domain.Session, error) {
	exec := GetExecutor(ctx, r.db)

	var model models.Session
	err := exec.GetContext(ctx, &model, `SELECT * FROM sessions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found is not an error at this layer
		}
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	session := toDomainSession(&model)
	if err := r.loadChildren(ctx, exec, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sqlxSessionRepository) GetSessionsByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Session, error) {
	exec := GetExecutor(ctx, r.db)

	var rows []models.Session
	query := `SELECT * FROM sessions WHERE user_id = $1 ORDER BY ts DESC LIMIT $2 OFFSET $3`
	if err := exec.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list sessions for user: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, toDomainSession(&rows[i]))
	}
	return sessions, nil
}

func (r *sqlxSessionRepository) GetSessionsInWindow(ctx context.Context, userID string, window domain.SessionWindow) ([]*domain.Session, error) {
	exec := GetExecutor(ctx, r.db)

	var rows []models.Session
	query := `SELECT * FROM sessions WHERE user_id = $1 AND ts >= $2 ORDER BY ts DESC LIMIT $3`
	if err := exec.SelectContext(ctx, &rows, query, userID, window.Since, window.Limit); err != nil {
		return nil, fmt.Errorf("failed to query session window: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(rows))
	for i := range rows {
		session := toDomainSession(&rows[i])
		if err := r.loadChildren(ctx, exec, session); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (r *sqlxSessionRepository) UpdateSession(ctx context.Context, session *domain.Session) error {
	session.UpdatedAt = time.Now()

	query := `UPDATE sessions SET
	            duration = :duration,
	            performance_score = :performance_score,
	            notes = :notes,
	            updated_at = :updated_at
	          WHERE id = :id`

	result, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainSession(session))
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sqlxSessionRepository) DeleteSession(ctx context.Context, id string) error {
	// Children go with the session via ON DELETE CASCADE.
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sqlxSessionRepository) AddPortionDetail(ctx context.Context, detail *domain.PortionDetail) error {
	if detail.ID == "" {
		detail.ID = util.NewULID()
	}
	detail.CreatedAt = time.Now()

	query := `INSERT INTO portion_details (id, session_id, portion_type, reference, recency_category, created_at)
	          VALUES (:id, :session_id, :portion_type, :reference, :recency_category, :created_at)`

	_, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainPortionDetail(detail))
	if err != nil {
		return fmt.Errorf("failed to add portion detail: %w", err)
	}
	return nil
}

func (r *sqlxSessionRepository) AddMistake(ctx context.Context, mistake *domain.Mistake) error {
	if mistake.ID == "" {
		mistake.ID = util.NewULID()
	}
	mistake.CreatedAt = time.Now()

	query := `INSERT INTO mistakes (id, session_id, location, error_category, error_subcategory, details,
	                                correction_method, resolution_status, severity_level, created_at,
	                                resolved_at, last_reviewed_at, review_count)
	          VALUES (:id, :session_id, :location, :error_category, :error_subcategory, :details,
	                  :correction_method, :resolution_status, :severity_level, :created_at,
	                  :resolved_at, :last_reviewed_at, :review_count)`

	_, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainMistake(mistake))
	if err != nil {
		return fmt.Errorf("failed to add mistake: %w", err)
	}
	return nil
}

func (r *sqlxSessionRepository) AddTestType(ctx context.Context, testType *domain.TestType) error {
	if testType.ID == "" {
		testType.ID = util.NewULID()
	}
	testType.CreatedAt = time.Now()

	query := `INSERT INTO test_types (id, session_id, category, description, success_rate, created_at)
	          VALUES (:id, :session_id, :category, :description, :success_rate, :created_at)`

	_, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainTestType(testType))
	if err != nil {
		return fmt.Errorf("failed to add test type: %w", err)
	}
	return nil
}

func (r *sqlxSessionRepository) AddLearningMethod(ctx context.Context, method *domain.LearningMethod) error {
	if method.ID == "" {
		method.ID = util.NewULID()
	}
	method.CreatedAt = time.Now()

	query := `INSERT INTO learning_methods (id, session_id, method_type, details, effectiveness_rating, created_at)
	          VALUES (:id, :session_id, :method_type, :details, :effectiveness_rating, :created_at)`

	_, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainLearningMethod(method))
	if err != nil {
		return fmt.Errorf("failed to add learning method: %w", err)
	}
	return nil
}

func (r *sqlxSessionRepository) GetMistakeByID(ctx context.Context, id string) (*domain.Mistake, error) {
	var model models.Mistake
	err := GetExecutor(ctx, r.db).GetContext(ctx, &model, `SELECT * FROM mistakes WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mistake by id: %w", err)
	}
	return toDomainMistake(&model), nil
}

func (r *sqlxSessionRepository) UpdateMistake(ctx context.Context, mistake *domain.Mistake) error {
	query := `UPDATE mistakes SET
	            error_category = :error_category,
	            error_subcategory = :error_subcategory,
	            details = :details,
	            correction_method = :correction_method,
	            resolution_status = :resolution_status,
	            severity_level = :severity_level,
	            resolved_at = :resolved_at,
	            last_reviewed_at = :last_reviewed_at,
	            review_count = :review_count
	          WHERE id = :id`

	result, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainMistake(mistake))
	if err != nil {
		return fmt.Errorf("failed to update mistake: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sqlxSessionRepository) GetMistakesByUser(ctx context.Context, userID string, since time.Time) ([]*domain.Mistake, error) {
	var rows []models.Mistake
	query := `SELECT m.* FROM mistakes m
	          JOIN sessions s ON s.id = m.session_id
	          WHERE s.user_id = $1 AND s.ts >= $2
	          ORDER BY m.created_at DESC`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, userID, since); err != nil {
		return nil, fmt.Errorf("failed to list mistakes for user: %w", err)
	}

	mistakes := make([]*domain.Mistake, 0, len(rows))
	for i := range rows {
		mistakes = append(mistakes, toDomainMistake(&rows[i]))
	}
	return mistakes, nil
}

// loadChildren populates all owned child records of one session.
func (r *sqlxSessionRepository) loadChildren(ctx context.Context, exec DBTX, session *domain.Session) error {
	var portions []models.PortionDetail
	if err := exec.SelectContext(ctx, &portions,
		`SELECT * FROM portion_details WHERE session_id = $1 ORDER BY created_at`, session.ID); err != nil {
		return fmt.Errorf("failed to load portion details: %w", err)
	}
	for i := range portions {
		session.PortionDetails = append(session.PortionDetails, toDomainPortionDetail(&portions[i]))
	}

	var mistakes []models.Mistake
	if err := exec.SelectContext(ctx, &mistakes,
		`SELECT * FROM mistakes WHERE session_id = $1 ORDER BY created_at`, session.ID); err != nil {
		return fmt.Errorf("failed to load mistakes: %w", err)
	}
	for i := range mistakes {
		session.Mistakes = append(session.Mistakes, toDomainMistake(&mistakes[i]))
	}

	var testTypes []models.TestType
	if err := exec.SelectContext(ctx, &testTypes,
		`SELECT * FROM test_types WHERE session_id = $1 ORDER BY created_at`, session.ID); err != nil {
		return fmt.Errorf("failed to load test types: %w", err)
	}
	for i := range testTypes {
		session.TestTypes = append(session.TestTypes, toDomainTestType(&testTypes[i]))
	}

	var methods []models.LearningMethod
	if err := exec.SelectContext(ctx, &methods,
		`SELECT * FROM learning_methods WHERE session_id = $1 ORDER BY created_at`, session.ID); err != nil {
		return fmt.Errorf("failed to load learning methods: %w", err)
	}
	for i := range methods {
		session.LearningMethods = append(session.LearningMethods, toDomainLearningMethod(&methods[i]))
	}

	return nil
}
