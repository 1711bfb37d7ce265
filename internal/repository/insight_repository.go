package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quran-coach/internal/domain"
	"quran-coach/internal/repository/models"
	"quran-coach/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxInsightRepository implements domain.InsightRepository using sqlx.
type sqlxInsightRepository struct {
	db *sqlx.DB
}

// NewSQLXInsightRepository creates a new instance of sqlxInsightRepository.
func NewSQLXInsightRepository(db *sqlx.DB) domain.InsightRepository {
	return &sqlxInsightRepository{db: db}
}

func (r *sqlxInsightRepository) CreateInsight(ctx context.Context, insight *domain.Insight) error {
	if insight.ID == "" {
		insight.ID = util.NewULID()
	}

	query := `INSERT INTO insights (id, user_id, generated_at, summary, next_actions, confidence_score, insight_type, expires_at)
	          VALUES (:id, :user_id, :generated_at, :summary, :next_actions, :confidence_score, :insight_type, :expires_at)`

	_, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainInsight(insight))
	if err != nil {
		return fmt.Errorf("failed to create insight: %w", err)
	}
	return nil
}

func (r *sqlxInsightRepository) GetInsightByID(ctx context.Context, id string) (*domain.Insight, error) {
	var model models.Insight
	err := GetExecutor(ctx, r.db).GetContext(ctx, &model, `SELECT * FROM insights WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get insight by id: %w", err)
	}
	return toDomainInsight(&model), nil
}

func (r *sqlxInsightRepository) GetInsightsByUser(ctx context.Context, userID string, insightType domain.InsightType, limit, offset int) ([]*domain.Insight, error) {
	var rows []models.Insight
	var err error

	if insightType != "" {
		query := `SELECT * FROM insights WHERE user_id = $1 AND insight_type = $2
		          ORDER BY generated_at DESC LIMIT $3 OFFSET $4`
		err = GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, userID, string(insightType), limit, offset)
	} else {
		query := `SELECT * FROM insights WHERE user_id = $1
		          ORDER BY generated_at DESC LIMIT $2 OFFSET $3`
		err = GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, userID, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list insights for user: %w", err)
	}

	insights := make([]*domain.Insight, 0, len(rows))
	for i := range rows {
		insights = append(insights, toDomainInsight(&rows[i]))
	}
	return insights, nil
}

func (r *sqlxInsightRepository) UpdateInsight(ctx context.Context, insight *domain.Insight) error {
	query := `UPDATE insights SET
	            summary = :summary,
	            next_actions = :next_actions,
	            confidence_score = :confidence_score,
	            insight_type = :insight_type,
	            expires_at = :expires_at
	          WHERE id = :id`

	result, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainInsight(insight))
	if err != nil {
		return fmt.Errorf("failed to update insight: %w", err)
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

func (r *sqlxInsightRepository) DeleteInsight(ctx context.Context, id string) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM insights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete insight: %w", err)
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
