package queries

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/OldStager01/energy-advisor/internal/history"
	"github.com/OldStager01/energy-advisor/pkg/models"
)

type RecommendationRepository struct {
	db *sql.DB
}

func NewRecommendationRepository(db *sql.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

func (r *RecommendationRepository) Save(ctx context.Context, s *models.RecommendationSummary) error {
	query := `
		INSERT INTO recommendations
			(id, created_at, model_id, appliances, monthly_units, savings_score, saved_units, saved_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.CreatedAt,
		s.ModelID,
		pq.Array(s.Appliances),
		s.MonthlyUnits,
		s.SavingsScore,
		s.SavedUnits,
		s.SavedAmount,
	)
	return err
}

func (r *RecommendationRepository) Recent(ctx context.Context, limit int) ([]*models.RecommendationSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, created_at, model_id, appliances, monthly_units, savings_score, saved_units, saved_amount
		FROM recommendations
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.RecommendationSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

func (r *RecommendationRepository) Get(ctx context.Context, id string) (*models.RecommendationSummary, error) {
	query := `
		SELECT id, created_at, model_id, appliances, monthly_units, savings_score, saved_units, saved_amount
		FROM recommendations
		WHERE id = $1`

	s, err := scanSummary(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, history.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSummary(row scanner) (*models.RecommendationSummary, error) {
	var s models.RecommendationSummary
	err := row.Scan(
		&s.ID,
		&s.CreatedAt,
		&s.ModelID,
		pq.Array(&s.Appliances),
		&s.MonthlyUnits,
		&s.SavingsScore,
		&s.SavedUnits,
		&s.SavedAmount,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
