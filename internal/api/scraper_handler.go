package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"storefront-service/internal/metrics"
	"storefront-service/internal/scraper"

	"github.com/go-chi/chi/v5"
)

// CatalogImporter runs one catalog import and reports how many
// products were added.
type CatalogImporter interface {
	Run(ctx context.Context) (int, error)
}

// ScraperHandler exposes the catalog import pipeline over HTTP.
type ScraperHandler struct {
	importer CatalogImporter
}

// NewScraperHandler creates a new ScraperHandler.
func NewScraperHandler(importer CatalogImporter) *ScraperHandler {
	return &ScraperHandler{importer: importer}
}

// ImportResponse is the success payload of a completed import run.
type ImportResponse struct {
	Message    string `json:"message"`
	TotalAdded int    `json:"totalAdded"`
}

// ImportErrorResponse is the failure payload of an aborted import run.
type ImportErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// FetchProducts triggers a full import run synchronously. The caller
// waits for the run to finish; there is no background scheduling and a
// failed run must simply be re-triggered.
func (h *ScraperHandler) FetchProducts(w http.ResponseWriter, r *http.Request) {
	added, err := h.importer.Run(r.Context())
	if err != nil {
		var transportErr *scraper.TransportError
		var formatErr *scraper.FormatError
		switch {
		case errors.As(err, &transportErr):
			log.Printf("ERROR: Import run failed fetching the feed: %v", err)
			metrics.RecordImportRun("transport_error", 0)
			message := "Failed to fetch product feed"
			if transportErr.StatusCode != 0 {
				message = fmt.Sprintf("Failed to fetch product feed (upstream status %d)", transportErr.StatusCode)
			}
			respondWithJSON(w, http.StatusBadGateway, ImportErrorResponse{Message: message, Error: err.Error()})
		case errors.As(err, &formatErr):
			log.Printf("ERROR: Import run failed parsing the feed: %v", err)
			metrics.RecordImportRun("format_error", 0)
			respondWithJSON(w, http.StatusBadRequest, ImportErrorResponse{Message: "Product feed was not in the expected format", Error: err.Error()})
		default:
			log.Printf("ERROR: Import run failed: %v", err)
			metrics.RecordImportRun("failure", 0)
			respondWithJSON(w, http.StatusInternalServerError, ImportErrorResponse{Message: "Scraping failed", Error: err.Error()})
		}
		return
	}

	metrics.RecordImportRun("success", added)
	respondWithJSON(w, http.StatusOK, ImportResponse{
		Message:    "Fetch completed successfully",
		TotalAdded: added,
	})
}

// RegisterRoutes sets up the scraper HTTP routes.
func (h *ScraperHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/scraper/fetch-products", h.FetchProducts)
}
