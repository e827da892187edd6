package scraper

import (
	"context"
	"errors"
	"testing"

	"storefront-service/internal/domain"
	"storefront-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubFetcher returns a fixed payload or error without any HTTP.
type stubFetcher struct {
	payload []byte
	err     error
}

func (s *stubFetcher) Fetch(ctx context.Context) ([]byte, error) {
	return s.payload, s.err
}

// MockCategoryStorer is a mock implementation of store.CategoryStorer
type MockCategoryStorer struct {
	mock.Mock
}

func (m *MockCategoryStorer) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStorer) GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStorer) ListCategories(ctx context.Context, params store.ListCategoriesParams) ([]domain.Category, int, error) {
	args := m.Called(ctx, params)
	var categories []domain.Category
	if arg0 := args.Get(0); arg0 != nil {
		categories = arg0.([]domain.Category)
	}
	return categories, args.Int(1), args.Error(2)
}

func (m *MockCategoryStorer) ListAllCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	var categories []domain.Category
	if arg0 := args.Get(0); arg0 != nil {
		categories = arg0.([]domain.Category)
	}
	return categories, args.Error(1)
}

func (m *MockCategoryStorer) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryStorer) DeleteCategory(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductStorer is a mock implementation of store.ProductStorer
type MockProductStorer struct {
	mock.Mock
}

func (m *MockProductStorer) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) ListProducts(ctx context.Context, params store.ListProductsParams) ([]domain.Product, int, error) {
	args := m.Called(ctx, params)
	var products []domain.Product
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.Product)
	}
	return products, args.Int(1), args.Error(2)
}

func (m *MockProductStorer) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductStorer) GetRecentProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, limit)
	var products []domain.Product
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.Product)
	}
	return products, args.Error(1)
}

func (m *MockProductStorer) ListProductNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var names []string
	if arg0 := args.Get(0); arg0 != nil {
		names = arg0.([]string)
	}
	return names, args.Error(1)
}

func (m *MockProductStorer) BulkInsertProducts(ctx context.Context, products []*domain.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func TestImporter_Run_AddsNewDropsDuplicates(t *testing.T) {
	feed := &stubFetcher{payload: []byte(`{
		"products": [
			{"title": "Basic Tee", "product_type": "T-Shirts", "body_html": "<p>Soft&nbsp;cotton</p>", "variants": [{"price": "19.99"}]},
			{"title": "Slim Jeans", "product_type": "Jeans", "variants": [{"price": 49.50}]},
			{"title": "Basic Tee", "product_type": "T-Shirts", "variants": [{"price": "19.99"}]}
		]
	}`)}

	mockCats := new(MockCategoryStorer)
	mockProds := new(MockProductStorer)

	mockCats.On("ListAllCategories", mock.Anything).Return([]domain.Category{}, nil).Once()
	mockProds.On("ListProductNames", mock.Anything).Return([]string{}, nil).Once()

	// Each new category label is persisted exactly once; the duplicate
	// record reuses the run snapshot.
	mockCats.On("CreateCategory", mock.Anything, mock.MatchedBy(func(c *domain.Category) bool {
		return c.Name == "T-Shirts"
	})).Return(&domain.Category{ID: 10, Name: "T-Shirts"}, nil).Once()
	mockCats.On("CreateCategory", mock.Anything, mock.MatchedBy(func(c *domain.Category) bool {
		return c.Name == "Jeans"
	})).Return(&domain.Category{ID: 11, Name: "Jeans"}, nil).Once()

	var inserted []*domain.Product
	mockProds.On("BulkInsertProducts", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).([]*domain.Product)
		}).Return(nil).Once()

	importer := NewImporter(feed, mockCats, mockProds, nil)
	added, err := importer.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, added, "the duplicate title must be dropped")

	require.Len(t, inserted, 2)
	assert.Equal(t, "Basic Tee", inserted[0].Name)
	assert.Equal(t, "Slim Jeans", inserted[1].Name)

	require.NotNil(t, inserted[0].CategoryID)
	assert.Equal(t, int64(10), *inserted[0].CategoryID)
	require.NotNil(t, inserted[1].CategoryID)
	assert.Equal(t, int64(11), *inserted[1].CategoryID)

	require.NotNil(t, inserted[0].Description)
	assert.Equal(t, "Soft cotton", *inserted[0].Description)
	assert.Nil(t, inserted[1].Description, "record without markup gets no description")

	for _, p := range inserted {
		assert.GreaterOrEqual(t, p.StockQuantity, int32(minSyntheticStock))
		assert.LessOrEqual(t, p.StockQuantity, int32(maxSyntheticStock))
	}

	mockCats.AssertExpectations(t)
	mockProds.AssertExpectations(t)
}

func TestImporter_Run_SkipsNamesAlreadyStored(t *testing.T) {
	feed := &stubFetcher{payload: []byte(`{
		"products": [
			{"title": "Basic Tee", "product_type": "T-Shirts"},
			{"title": "Canvas Belt", "product_type": "Accessories"}
		]
	}`)}

	mockCats := new(MockCategoryStorer)
	mockProds := new(MockProductStorer)

	mockCats.On("ListAllCategories", mock.Anything).Return([]domain.Category{
		{ID: 1, Name: "T-Shirts"},
		{ID: 2, Name: "Accessories"},
	}, nil).Once()
	mockProds.On("ListProductNames", mock.Anything).Return([]string{"Basic Tee"}, nil).Once()

	var inserted []*domain.Product
	mockProds.On("BulkInsertProducts", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).([]*domain.Product)
		}).Return(nil).Once()

	importer := NewImporter(feed, mockCats, mockProds, nil)
	added, err := importer.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, added)
	require.Len(t, inserted, 1)
	assert.Equal(t, "Canvas Belt", inserted[0].Name)

	// No CreateCategory calls: both labels already exist.
	mockCats.AssertExpectations(t)
	mockProds.AssertExpectations(t)
}

func TestImporter_Run_RerunAddsNothing(t *testing.T) {
	feed := &stubFetcher{payload: []byte(`{
		"products": [{"title": "Basic Tee", "product_type": "T-Shirts"}]
	}`)}

	mockCats := new(MockCategoryStorer)
	mockProds := new(MockProductStorer)

	mockCats.On("ListAllCategories", mock.Anything).Return([]domain.Category{
		{ID: 1, Name: "T-Shirts"},
	}, nil).Once()
	mockProds.On("ListProductNames", mock.Anything).Return([]string{"Basic Tee"}, nil).Once()
	// Everything deduplicated: BulkInsertProducts must not be called.

	importer := NewImporter(feed, mockCats, mockProds, nil)
	added, err := importer.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, added)

	mockCats.AssertExpectations(t)
	mockProds.AssertExpectations(t)
}

func TestImporter_Run_EmptyFeedIsSuccess(t *testing.T) {
	feed := &stubFetcher{payload: []byte(`{"products": []}`)}

	mockCats := new(MockCategoryStorer)
	mockProds := new(MockProductStorer)
	// No store calls at all for an empty feed.

	importer := NewImporter(feed, mockCats, mockProds, nil)
	added, err := importer.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, added)

	mockCats.AssertExpectations(t)
	mockProds.AssertExpectations(t)
}

func TestImporter_Run_FetchFailurePropagates(t *testing.T) {
	feed := &stubFetcher{err: &TransportError{StatusCode: 503}}

	importer := NewImporter(feed, new(MockCategoryStorer), new(MockProductStorer), nil)
	added, err := importer.Run(context.Background())

	require.Error(t, err)
	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
	assert.Zero(t, added)
}

func TestImporter_Run_BadPayloadPropagates(t *testing.T) {
	feed := &stubFetcher{payload: []byte(`{"items": []}`)}

	importer := NewImporter(feed, new(MockCategoryStorer), new(MockProductStorer), nil)
	added, err := importer.Run(context.Background())

	require.Error(t, err)
	var formatErr *FormatError
	assert.True(t, errors.As(err, &formatErr))
	assert.Zero(t, added)
}

func TestImporter_Run_InsertFailurePropagates(t *testing.T) {
	feed := &stubFetcher{payload: []byte(`{
		"products": [{"title": "Basic Tee", "product_type": "T-Shirts"}]
	}`)}

	mockCats := new(MockCategoryStorer)
	mockProds := new(MockProductStorer)

	mockCats.On("ListAllCategories", mock.Anything).Return([]domain.Category{
		{ID: 1, Name: "T-Shirts"},
	}, nil).Once()
	mockProds.On("ListProductNames", mock.Anything).Return([]string{}, nil).Once()

	insertErr := errors.New("store: BulkInsertProducts failed")
	mockProds.On("BulkInsertProducts", mock.Anything, mock.Anything).Return(insertErr).Once()

	importer := NewImporter(feed, mockCats, mockProds, nil)
	added, err := importer.Run(context.Background())

	require.Error(t, err)
	assert.Zero(t, added)

	mockCats.AssertExpectations(t)
	mockProds.AssertExpectations(t)
}

func TestImporter_Run_CategoryCreateFailureAborts(t *testing.T) {
	feed := &stubFetcher{payload: []byte(`{
		"products": [{"title": "Basic Tee", "product_type": "T-Shirts"}]
	}`)}

	mockCats := new(MockCategoryStorer)
	mockProds := new(MockProductStorer)

	mockCats.On("ListAllCategories", mock.Anything).Return([]domain.Category{}, nil).Once()
	mockProds.On("ListProductNames", mock.Anything).Return([]string{}, nil).Once()
	mockCats.On("CreateCategory", mock.Anything, mock.Anything).
		Return(nil, errors.New("store: CreateCategory failed")).Once()

	importer := NewImporter(feed, mockCats, mockProds, nil)
	added, err := importer.Run(context.Background())

	require.Error(t, err)
	assert.Zero(t, added)

	mockCats.AssertExpectations(t)
	mockProds.AssertExpectations(t)
}
