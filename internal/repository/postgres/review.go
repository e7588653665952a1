package postgres

import (
	"context"
	"fmt"

	"parcelpeer/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	insertReviewQuery = `
INSERT INTO reviews (id, parcel_id, reviewer_id, reviewee_id, rating, comment, review_type)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at`
	recomputeRatingQuery = `
UPDATE users
SET rating = (SELECT ROUND(AVG(rating)::numeric, 2)::double precision FROM reviews WHERE reviewee_id = $1)
WHERE id = $1`
	listReviewsQuery = `
SELECT id, parcel_id, reviewer_id, reviewee_id, rating, comment, review_type, created_at
FROM reviews
WHERE reviewee_id = $1
ORDER BY created_at DESC, id`
)

// CreateReview stores a review and refreshes the reviewee's average rating.
func (p *Postgres) CreateReview(ctx context.Context, r entities.Review) (*entities.Review, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	r.ID = orNewID(r.ID)
	if err := tx.QueryRow(ctx, insertReviewQuery,
		r.ID, r.ParcelID, r.ReviewerID, r.RevieweeID, r.Rating, r.Comment, r.Type,
	).Scan(&r.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, entities.ErrReviewExists
		}
		p.log.Errorw("failed to insert review", "error", err, "parcel_id", r.ParcelID)
		return nil, fmt.Errorf("insert review: %w", err)
	}
	if _, err := tx.Exec(ctx, recomputeRatingQuery, r.RevieweeID); err != nil {
		return nil, fmt.Errorf("recompute rating: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("review created", "parcel_id", r.ParcelID, "reviewee_id", r.RevieweeID, "rating", r.Rating)
	return &r, nil
}

// ListReviews returns reviews received by a user newest first.
func (p *Postgres) ListReviews(ctx context.Context, revieweeID string) ([]entities.Review, error) {
	rows, err := p.db.Query(ctx, listReviewsQuery, revieweeID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]entities.Review, 0)
	for rows.Next() {
		var r entities.Review
		if err := rows.Scan(&r.ID, &r.ParcelID, &r.ReviewerID, &r.RevieweeID, &r.Rating, &r.Comment, &r.Type, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}
