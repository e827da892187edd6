package store

import (
	"context"
	"time"

	"storefront-service/internal/domain"

	"github.com/shopspring/decimal"
)

// ListCategoriesParams holds parameters for listing categories (e.g., for pagination).
type ListCategoriesParams struct {
	Limit  int
	Offset int
}

// CategoryStorer defines the database operations for categories.
type CategoryStorer interface {
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context, params ListCategoriesParams) ([]domain.Category, int, error) // Returns categories and total count for pagination
	// ListAllCategories returns every category without pagination. The
	// importer loads this once per run as its in-memory snapshot.
	ListAllCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// ListProductsParams holds parameters for listing products (for pagination, filtering, sorting).
type ListProductsParams struct {
	Limit       int
	Offset      int
	SearchQuery *string // For searching by name/description
	CategoryID  *int64  // For filtering by category
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	SortBy      string // e.g., "price", "name", "created_at"
	SortOrder   string // "asc" or "desc"
}

// ProductStorer defines the database operations for products.
type ProductStorer interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, int, error) // Returns products and total count
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	GetRecentProducts(ctx context.Context, limit int) ([]domain.Product, error)
	// ListProductNames returns the names of all stored products. The
	// importer loads this once per run to seed its dedup set.
	ListProductNames(ctx context.Context) ([]string, error)
	// BulkInsertProducts inserts all staged products in a single
	// multi-row statement. IDs are not reported back.
	BulkInsertProducts(ctx context.Context, products []*domain.Product) error
}

// FeedbackStorer defines the database operations for product feedback.
type FeedbackStorer interface {
	CreateFeedback(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error)
	GetFeedbackByID(ctx context.Context, id int64) (*domain.Feedback, error)
	ListFeedbacks(ctx context.Context) ([]domain.Feedback, error)
	ListFeedbacksByProduct(ctx context.Context, productID int64) ([]domain.Feedback, error)
	UpdateFeedback(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error)
	DeleteFeedback(ctx context.Context, id int64) error
}

// DashboardSummary mirrors the admin dashboard's headline figures.
type DashboardSummary struct {
	TotalUsers    int             `json:"totalUsers"`
	TotalProducts int             `json:"totalProducts"`
	TotalOrders   int             `json:"totalOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

// MonthlyOrderStats is one bar of the orders-by-month chart.
type MonthlyOrderStats struct {
	Month       string          `json:"month"` // formatted MM/YYYY
	TotalOrders int             `json:"totalOrders"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// TopProductStats is one row of the best-sellers widget.
type TopProductStats struct {
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	QuantitySold int64           `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// ReportStorer defines the read-only aggregation queries behind the
// admin dashboard.
type ReportStorer interface {
	GetDashboardSummary(ctx context.Context) (*DashboardSummary, error)
	GetOrdersByMonth(ctx context.Context) ([]MonthlyOrderStats, error)
	CountOrdersSince(ctx context.Context, since time.Time) (int, error)
	GetTopProducts(ctx context.Context, limit int) ([]TopProductStats, error)
	ListOrderDetails(ctx context.Context, orderID int64) ([]domain.OrderDetail, error)
	GetOrderOwner(ctx context.Context, orderID int64) (int64, error)
}

// CartStorer defines the database operations for shopping carts.
type CartStorer interface {
	ListCartItems(ctx context.Context, userID int64) ([]domain.CartItem, error)
	// AddCartItem inserts a cart row, or increments the quantity if the
	// user already has this product in their cart.
	AddCartItem(ctx context.Context, userID, productID int64, quantity int32) (*domain.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, userID, cartItemID int64, quantity int32) (*domain.CartItem, error)
	DeleteCartItem(ctx context.Context, userID, cartItemID int64) error
}
