package scraper

import (
	"context"
	"log"
	"math/rand"

	"storefront-service/internal/domain"
	"storefront-service/internal/metrics"
	"storefront-service/internal/store"
)

// Synthetic stock range for imported products. The upstream feed has
// no authoritative stock figure, so each product gets a placeholder
// quantity in [50, 200].
const (
	minSyntheticStock = 50
	maxSyntheticStock = 200
)

// Importer drives one catalog import run: fetch the feed, parse it,
// resolve categories, drop duplicate names, and commit the rest.
//
// A run is single-threaded and processes records strictly in feed
// order; the category and name snapshots are run-local and mutated
// without synchronization. Two overlapping runs are not coordinated
// and can both decide to insert the same name (see DESIGN.md).
type Importer struct {
	feed       FeedFetcher
	categories store.CategoryStorer
	products   store.ProductStorer
	logger     *log.Logger
}

// NewImporter creates an Importer with its collaborators.
func NewImporter(feed FeedFetcher, cs store.CategoryStorer, ps store.ProductStorer, logger *log.Logger) *Importer {
	if logger == nil {
		logger = log.Default()
	}
	return &Importer{
		feed:       feed,
		categories: cs,
		products:   ps,
		logger:     logger,
	}
}

// Run executes one full import and returns the number of products
// added. Categories are persisted immediately as they are first seen,
// because later records need their generated ids; products are staged
// in memory and committed in a single batch at the end. On error the
// staged products are discarded, but categories committed earlier in
// the run survive.
func (imp *Importer) Run(ctx context.Context) (int, error) {
	payload, err := imp.feed.Fetch(ctx)
	if err != nil {
		return 0, err
	}

	records, err := ParseFeed(payload)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		imp.logger.Println("INFO: Import feed contained no products, nothing to do.")
		return 0, nil
	}

	// Run-start snapshots: one query each, mutated in memory below.
	knownCategories, err := imp.categories.ListAllCategories(ctx)
	if err != nil {
		return 0, err
	}
	names, err := imp.products.ListProductNames(ctx)
	if err != nil {
		return 0, err
	}
	knownNames := make(map[string]struct{}, len(names))
	for _, name := range names {
		remember(name, knownNames)
	}

	var staged []*domain.Product
	for _, rec := range records {
		category, err := imp.resolveCategory(ctx, rec.CategoryLabel, &knownCategories)
		if err != nil {
			return 0, err
		}

		description := CleanHTML(rec.BodyHTML)

		if shouldSkip(rec.Title, knownNames) {
			metrics.ImportProductSkipped()
			continue
		}

		categoryID := category.ID
		product := &domain.Product{
			Name:          rec.Title,
			Price:         rec.Price,
			StockQuantity: syntheticStock(),
			CategoryID:    &categoryID,
			ImageURL:      rec.ImageURL,
		}
		if description != "" {
			product.Description = &description
		}

		staged = append(staged, product)
		remember(rec.Title, knownNames)
	}

	if len(staged) > 0 {
		if err := imp.products.BulkInsertProducts(ctx, staged); err != nil {
			return 0, err
		}
	}

	imp.logger.Printf("INFO: Import run finished: %d of %d feed records added.", len(staged), len(records))
	return len(staged), nil
}

// resolveCategory matches the label case-exactly against the run
// snapshot, creating and persisting the category on a miss. The new
// entity is appended to the snapshot so later records reuse it.
func (imp *Importer) resolveCategory(ctx context.Context, label string, known *[]domain.Category) (*domain.Category, error) {
	if c := findCategory(label, *known); c != nil {
		return c, nil
	}

	description := label
	created, err := imp.categories.CreateCategory(ctx, &domain.Category{
		Name:        label,
		Description: &description,
	})
	if err != nil {
		return nil, err
	}
	*known = append(*known, *created)
	return created, nil
}

// findCategory returns the snapshot entry whose name equals label, or nil.
func findCategory(label string, known []domain.Category) *domain.Category {
	for i := range known {
		if known[i].Name == label {
			return &known[i]
		}
	}
	return nil
}

// shouldSkip reports whether a product name is already known, either
// from the database snapshot or from a record staged earlier this run.
func shouldSkip(name string, known map[string]struct{}) bool {
	_, ok := known[name]
	return ok
}

func remember(name string, known map[string]struct{}) {
	known[name] = struct{}{}
}

func syntheticStock() int32 {
	return int32(minSyntheticStock + rand.Intn(maxSyntheticStock-minSyntheticStock+1))
}
