package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"storefront-service/internal/domain"
)

// --- FeedbackStorer Implementation ---

func (s *PostgresStore) CreateFeedback(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error) {
	query := `
		INSERT INTO shop.feedbacks (content, rating, product_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, content, rating, product_id, user_id, created_at, updated_at;
	`
	var created domain.Feedback
	err := s.db.QueryRowContext(ctx, query,
		feedback.Content, feedback.Rating, feedback.ProductID, feedback.UserID,
	).Scan(
		&created.ID, &created.Content, &created.Rating,
		&created.ProductID, &created.UserID, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // Foreign key violation on product_id
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: CreateFeedback failed to scan row: %w", err)
	}

	// Denormalize the author name for the API response.
	nameQuery := `SELECT full_name FROM shop.users WHERE id = $1;`
	if err := s.db.QueryRowContext(ctx, nameQuery, created.UserID).Scan(&created.UserName); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: CreateFeedback failed to resolve user name: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) GetFeedbackByID(ctx context.Context, id int64) (*domain.Feedback, error) {
	query := `
		SELECT f.id, f.content, f.rating, f.product_id, f.user_id, u.full_name, f.created_at, f.updated_at
		FROM shop.feedbacks f
		JOIN shop.users u ON u.id = f.user_id
		WHERE f.id = $1;
	`
	var f domain.Feedback
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID, &f.Content, &f.Rating, &f.ProductID, &f.UserID, &f.UserName, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("store: GetFeedbackByID failed to scan row: %w", err)
	}
	return &f, nil
}

func (s *PostgresStore) ListFeedbacks(ctx context.Context) ([]domain.Feedback, error) {
	query := `
		SELECT f.id, f.content, f.rating, f.product_id, f.user_id, u.full_name, f.created_at, f.updated_at
		FROM shop.feedbacks f
		JOIN shop.users u ON u.id = f.user_id
		ORDER BY f.created_at DESC;
	`
	return s.queryFeedbacks(ctx, query)
}

func (s *PostgresStore) ListFeedbacksByProduct(ctx context.Context, productID int64) ([]domain.Feedback, error) {
	query := `
		SELECT f.id, f.content, f.rating, f.product_id, f.user_id, u.full_name, f.created_at, f.updated_at
		FROM shop.feedbacks f
		JOIN shop.users u ON u.id = f.user_id
		WHERE f.product_id = $1
		ORDER BY f.created_at DESC;
	`
	return s.queryFeedbacks(ctx, query, productID)
}

func (s *PostgresStore) queryFeedbacks(ctx context.Context, query string, args ...interface{}) ([]domain.Feedback, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: failed to query feedbacks: %w", err)
	}
	defer rows.Close()

	feedbacks := make([]domain.Feedback, 0)
	for rows.Next() {
		var f domain.Feedback
		if err := rows.Scan(
			&f.ID, &f.Content, &f.Rating, &f.ProductID, &f.UserID, &f.UserName, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("store: failed to scan feedback row: %w", err)
		}
		feedbacks = append(feedbacks, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: feedback iteration error: %w", err)
	}
	return feedbacks, nil
}

func (s *PostgresStore) UpdateFeedback(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error) {
	query := `
		UPDATE shop.feedbacks
		SET content = $1, rating = $2, product_id = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING id, content, rating, product_id, user_id, created_at, updated_at;
	`
	var updated domain.Feedback
	err := s.db.QueryRowContext(ctx, query,
		feedback.Content, feedback.Rating, feedback.ProductID, feedback.ID,
	).Scan(
		&updated.ID, &updated.Content, &updated.Rating,
		&updated.ProductID, &updated.UserID, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: UpdateFeedback failed to scan row: %w", err)
	}

	nameQuery := `SELECT full_name FROM shop.users WHERE id = $1;`
	if err := s.db.QueryRowContext(ctx, nameQuery, updated.UserID).Scan(&updated.UserName); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: UpdateFeedback failed to resolve user name: %w", err)
	}
	return &updated, nil
}

func (s *PostgresStore) DeleteFeedback(ctx context.Context, id int64) error {
	query := `DELETE FROM shop.feedbacks WHERE id = $1;`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("store: DeleteFeedback failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteFeedback failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}
