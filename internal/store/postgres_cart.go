package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"storefront-service/internal/domain"
)

// --- CartStorer Implementation ---

func (s *PostgresStore) ListCartItems(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	query := `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
			p.id, p.name, p.description, p.price, p.stock_quantity, p.category_id, p.image_url, p.created_at, p.updated_at
		FROM shop.cart_items ci
		JOIN shop.products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at ASC;
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("store: ListCartItems failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		var p domain.Product
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.StockQuantity, &p.CategoryID, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("store: ListCartItems failed to scan row: %w", err)
		}
		item.Product = &p
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListCartItems iteration error: %w", err)
	}
	return items, nil
}

// AddCartItem upserts on the (user_id, product_id) unique constraint so
// re-adding a product grows the existing row instead of duplicating it.
func (s *PostgresStore) AddCartItem(ctx context.Context, userID, productID int64, quantity int32) (*domain.CartItem, error) {
	query := `
		INSERT INTO shop.cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = shop.cart_items.quantity + EXCLUDED.quantity, updated_at = CURRENT_TIMESTAMP
		RETURNING id, user_id, product_id, quantity, created_at, updated_at;
	`
	var item domain.CartItem
	err := s.db.QueryRowContext(ctx, query, userID, productID, quantity).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // Foreign key violation on product_id
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: AddCartItem failed to scan row: %w", err)
	}
	return &item, nil
}

func (s *PostgresStore) UpdateCartItemQuantity(ctx context.Context, userID, cartItemID int64, quantity int32) (*domain.CartItem, error) {
	query := `
		UPDATE shop.cart_items
		SET quantity = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, product_id, quantity, created_at, updated_at;
	`
	var item domain.CartItem
	err := s.db.QueryRowContext(ctx, query, quantity, cartItemID, userID).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either the row does not exist or it belongs to another user.
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("store: UpdateCartItemQuantity failed to scan row: %w", err)
	}
	return &item, nil
}

func (s *PostgresStore) DeleteCartItem(ctx context.Context, userID, cartItemID int64) error {
	query := `DELETE FROM shop.cart_items WHERE id = $1 AND user_id = $2;`
	result, err := s.db.ExecContext(ctx, query, cartItemID, userID)
	if err != nil {
		return fmt.Errorf("store: DeleteCartItem failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteCartItem failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}
