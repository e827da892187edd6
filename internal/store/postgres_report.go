package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/domain"
)

// --- ReportStorer Implementation ---
//
// These are plain read/aggregate wrappers behind the admin dashboard;
// they hold no business logic beyond grouping and summation.

func (s *PostgresStore) GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM shop.users),
			(SELECT COUNT(*) FROM shop.products),
			(SELECT COUNT(*) FROM shop.orders),
			COALESCE((SELECT SUM(amount) FROM shop.payments WHERE status = 'PAID'), 0);
	`
	var summary DashboardSummary
	err := s.db.QueryRowContext(ctx, query).Scan(
		&summary.TotalUsers, &summary.TotalProducts, &summary.TotalOrders, &summary.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("store: GetDashboardSummary failed to scan row: %w", err)
	}
	return &summary, nil
}

func (s *PostgresStore) GetOrdersByMonth(ctx context.Context) ([]MonthlyOrderStats, error) {
	query := `
		SELECT to_char(order_date, 'MM/YYYY'), COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM shop.orders
		GROUP BY to_char(order_date, 'MM/YYYY')
		ORDER BY MIN(order_date);
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: GetOrdersByMonth failed to query orders: %w", err)
	}
	defer rows.Close()

	stats := make([]MonthlyOrderStats, 0)
	for rows.Next() {
		var m MonthlyOrderStats
		if err := rows.Scan(&m.Month, &m.TotalOrders, &m.TotalAmount); err != nil {
			return nil, fmt.Errorf("store: GetOrdersByMonth failed to scan row: %w", err)
		}
		stats = append(stats, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: GetOrdersByMonth iteration error: %w", err)
	}
	return stats, nil
}

func (s *PostgresStore) CountOrdersSince(ctx context.Context, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM shop.orders WHERE order_date >= $1;`
	var count int
	if err := s.db.QueryRowContext(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("store: CountOrdersSince failed to scan row: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) GetTopProducts(ctx context.Context, limit int) ([]TopProductStats, error) {
	if limit <= 0 {
		return []TopProductStats{}, nil
	}
	query := `
		SELECT od.product_id, p.name, SUM(od.quantity), SUM(od.quantity * od.unit_price)
		FROM shop.order_details od
		JOIN shop.products p ON p.id = od.product_id
		GROUP BY od.product_id, p.name
		ORDER BY SUM(od.quantity) DESC
		LIMIT $1;
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("store: GetTopProducts failed to query order details: %w", err)
	}
	defer rows.Close()

	stats := make([]TopProductStats, 0, limit)
	for rows.Next() {
		var t TopProductStats
		if err := rows.Scan(&t.ProductID, &t.ProductName, &t.QuantitySold, &t.Revenue); err != nil {
			return nil, fmt.Errorf("store: GetTopProducts failed to scan row: %w", err)
		}
		stats = append(stats, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: GetTopProducts iteration error: %w", err)
	}
	return stats, nil
}

func (s *PostgresStore) ListOrderDetails(ctx context.Context, orderID int64) ([]domain.OrderDetail, error) {
	query := `
		SELECT od.id, od.order_id, od.product_id, p.name, od.quantity, od.unit_price
		FROM shop.order_details od
		JOIN shop.products p ON p.id = od.product_id
		WHERE od.order_id = $1
		ORDER BY od.id ASC;
	`
	rows, err := s.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("store: ListOrderDetails failed to query order details: %w", err)
	}
	defer rows.Close()

	details := make([]domain.OrderDetail, 0)
	for rows.Next() {
		var d domain.OrderDetail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.ProductName, &d.Quantity, &d.UnitPrice); err != nil {
			return nil, fmt.Errorf("store: ListOrderDetails failed to scan row: %w", err)
		}
		details = append(details, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListOrderDetails iteration error: %w", err)
	}
	return details, nil
}

func (s *PostgresStore) GetOrderOwner(ctx context.Context, orderID int64) (int64, error) {
	query := `SELECT user_id FROM shop.orders WHERE id = $1;`
	var userID int64
	if err := s.db.QueryRowContext(ctx, query, orderID).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrOrderNotFound
		}
		return 0, fmt.Errorf("store: GetOrderOwner failed to scan row: %w", err)
	}
	return userID, nil
}
