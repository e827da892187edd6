package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"storefront-service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_CreateFeedback(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now().Truncate(time.Millisecond)
	feedbackToCreate := &domain.Feedback{
		Content:   "Great product, arrived quickly.",
		Rating:    5,
		ProductID: 7,
		UserID:    3,
	}

	insertQuery := regexp.QuoteMeta(`
		INSERT INTO shop.feedbacks (content, rating, product_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, content, rating, product_id, user_id, created_at, updated_at;
	`)
	insertRows := sqlmock.NewRows([]string{"id", "content", "rating", "product_id", "user_id", "created_at", "updated_at"}).
		AddRow(int64(1), feedbackToCreate.Content, feedbackToCreate.Rating, feedbackToCreate.ProductID, feedbackToCreate.UserID, now, now)

	mock.ExpectQuery(insertQuery).
		WithArgs(feedbackToCreate.Content, feedbackToCreate.Rating, feedbackToCreate.ProductID, feedbackToCreate.UserID).
		WillReturnRows(insertRows)

	nameQuery := regexp.QuoteMeta(`SELECT full_name FROM shop.users WHERE id = $1;`)
	mock.ExpectQuery(nameQuery).
		WithArgs(feedbackToCreate.UserID).
		WillReturnRows(sqlmock.NewRows([]string{"full_name"}).AddRow("Alice Smith"))

	created, err := store.CreateFeedback(context.Background(), feedbackToCreate)

	require.NoError(t, err, "CreateFeedback should not return an error")
	require.NotNil(t, created, "Created feedback should not be nil")
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, feedbackToCreate.Content, created.Content)
	assert.Equal(t, int32(5), created.Rating)
	assert.Equal(t, "Alice Smith", created.UserName, "Author name should be resolved from users table")

	err = mock.ExpectationsWereMet()
	require.NoError(t, err, "SQLmock expectations were not met")
}

func TestPostgresStore_CreateFeedback_ProductMissing(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	feedbackToCreate := &domain.Feedback{
		Content:   "Review for a product that was just deleted",
		Rating:    4,
		ProductID: 999,
		UserID:    3,
	}

	insertQuery := regexp.QuoteMeta(`
		INSERT INTO shop.feedbacks (content, rating, product_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, content, rating, product_id, user_id, created_at, updated_at;
	`)
	dbError := &pq.Error{
		Code:    "23503", // foreign_key_violation
		Message: "insert or update on table \"feedbacks\" violates foreign key constraint",
	}

	mock.ExpectQuery(insertQuery).
		WithArgs(feedbackToCreate.Content, feedbackToCreate.Rating, feedbackToCreate.ProductID, feedbackToCreate.UserID).
		WillReturnError(dbError)

	created, err := store.CreateFeedback(context.Background(), feedbackToCreate)

	require.Error(t, err, "Expected an error for missing product")
	assert.ErrorIs(t, err, ErrProductNotFound, "Error should be ErrProductNotFound")
	assert.Nil(t, created, "Feedback should be nil on error")

	err = mock.ExpectationsWereMet()
	require.NoError(t, err, "SQLmock expectations were not met")
}

func TestPostgresStore_GetFeedbackByID_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`
		SELECT f.id, f.content, f.rating, f.product_id, f.user_id, u.full_name, f.created_at, f.updated_at
		FROM shop.feedbacks f
		JOIN shop.users u ON u.id = f.user_id
		WHERE f.id = $1;
	`)
	mock.ExpectQuery(query).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	feedback, err := store.GetFeedbackByID(context.Background(), 42)

	require.Error(t, err, "Expected an error when feedback is not found")
	assert.ErrorIs(t, err, ErrFeedbackNotFound, "Error should be ErrFeedbackNotFound")
	assert.Nil(t, feedback, "Feedback should be nil when not found")

	err = mock.ExpectationsWereMet()
	require.NoError(t, err, "SQLmock expectations were not met")
}

func TestPostgresStore_ListFeedbacksByProduct(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	productID := int64(7)

	query := regexp.QuoteMeta(`
		SELECT f.id, f.content, f.rating, f.product_id, f.user_id, u.full_name, f.created_at, f.updated_at
		FROM shop.feedbacks f
		JOIN shop.users u ON u.id = f.user_id
		WHERE f.product_id = $1
		ORDER BY f.created_at DESC;
	`)
	rows := sqlmock.NewRows([]string{"id", "content", "rating", "product_id", "user_id", "full_name", "created_at", "updated_at"}).
		AddRow(int64(2), "Newer review", int32(4), productID, int64(5), "Bob Jones", now, now).
		AddRow(int64(1), "Older review", int32(5), productID, int64(3), "Alice Smith", now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery(query).
		WithArgs(productID).
		WillReturnRows(rows)

	feedbacks, err := store.ListFeedbacksByProduct(context.Background(), productID)

	require.NoError(t, err, "ListFeedbacksByProduct should not return an error")
	require.Len(t, feedbacks, 2, "Expected two feedbacks")
	assert.Equal(t, "Newer review", feedbacks[0].Content)
	assert.Equal(t, "Bob Jones", feedbacks[0].UserName)
	assert.Equal(t, "Alice Smith", feedbacks[1].UserName)

	err = mock.ExpectationsWereMet()
	require.NoError(t, err, "SQLmock expectations were not met")
}

func TestPostgresStore_UpdateFeedback_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	feedbackToUpdate := &domain.Feedback{
		ID:        99,
		Content:   "Edited content",
		Rating:    3,
		ProductID: 7,
	}

	query := regexp.QuoteMeta(`
		UPDATE shop.feedbacks
		SET content = $1, rating = $2, product_id = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING id, content, rating, product_id, user_id, created_at, updated_at;
	`)
	mock.ExpectQuery(query).
		WithArgs(feedbackToUpdate.Content, feedbackToUpdate.Rating, feedbackToUpdate.ProductID, feedbackToUpdate.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "rating", "product_id", "user_id", "created_at", "updated_at"}))

	updated, err := store.UpdateFeedback(context.Background(), feedbackToUpdate)

	require.Error(t, err, "Expected an error when updating a missing feedback")
	assert.ErrorIs(t, err, ErrFeedbackNotFound, "Error should be ErrFeedbackNotFound")
	assert.Nil(t, updated, "Feedback should be nil on error")

	err = mock.ExpectationsWereMet()
	require.NoError(t, err, "SQLmock expectations were not met")
}

func TestPostgresStore_DeleteFeedback_Success(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`DELETE FROM shop.feedbacks WHERE id = $1;`)
	mock.ExpectExec(query).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.DeleteFeedback(context.Background(), 1)

	require.NoError(t, err, "DeleteFeedback should not return an error")

	err = mock.ExpectationsWereMet()
	require.NoError(t, err, "SQLmock expectations were not met")
}

func TestPostgresStore_DeleteFeedback_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	query := regexp.QuoteMeta(`DELETE FROM shop.feedbacks WHERE id = $1;`)
	mock.ExpectExec(query).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteFeedback(context.Background(), 99)

	require.Error(t, err, "Expected an error when deleting a missing feedback")
	assert.ErrorIs(t, err, ErrFeedbackNotFound, "Error should be ErrFeedbackNotFound")

	err = mock.ExpectationsWereMet()
	require.NoError(t, err, "SQLmock expectations were not met")
}
