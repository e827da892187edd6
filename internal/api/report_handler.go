package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/store"

	"github.com/go-chi/chi/v5"
)

// ReportHandler holds dependencies for the admin dashboard handlers.
type ReportHandler struct {
	reportStore store.ReportStorer
	now         func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs store.ReportStorer) *ReportHandler {
	return &ReportHandler{
		reportStore: rs,
		now:         time.Now,
	}
}

func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportStore.GetDashboardSummary(r.Context())
	if err != nil {
		log.Printf("ERROR: GetDashboardSummary store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve dashboard summary")
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

func (h *ReportHandler) GetOrdersByMonth(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportStore.GetOrdersByMonth(r.Context())
	if err != nil {
		log.Printf("ERROR: GetOrdersByMonth store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve monthly orders")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (h *ReportHandler) GetOrdersToday(w http.ResponseWriter, r *http.Request) {
	today := h.now().UTC().Truncate(24 * time.Hour)

	count, err := h.reportStore.CountOrdersSince(r.Context(), today)
	if err != nil {
		log.Printf("ERROR: CountOrdersSince store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to count today's orders")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"date":        today.Format("02/01/2006"),
		"totalOrders": count,
	})
}

func (h *ReportHandler) GetOrdersThisWeek(w http.ResponseWriter, r *http.Request) {
	today := h.now().UTC().Truncate(24 * time.Hour)
	// Weeks start on Monday.
	weekday := int(today.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	startOfWeek := today.AddDate(0, 0, -(weekday - 1))

	count, err := h.reportStore.CountOrdersSince(r.Context(), startOfWeek)
	if err != nil {
		log.Printf("ERROR: CountOrdersSince store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to count this week's orders")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"from":        startOfWeek.Format("02/01/2006"),
		"to":          today.Format("02/01/2006"),
		"totalOrders": count,
	})
}

func (h *ReportHandler) GetTopProducts(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportStore.GetTopProducts(r.Context(), 5)
	if err != nil {
		log.Printf("ERROR: GetTopProducts store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve top products")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// GetOrderDetails returns the line items of one order. Admins may read
// any order; other users only their own.
func (h *ReportHandler) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	idStr := chi.URLParam(r, "orderId")
	orderID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || orderID <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	ownerID, err := h.reportStore.GetOrderOwner(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: GetOrderOwner store operation for ID %d failed: %v", orderID, err)
		if errors.Is(err, store.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrOrderNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to retrieve order")
		}
		return
	}
	if claims.Role != auth.RoleAdmin && ownerID != claims.UserID {
		respondWithError(w, http.StatusForbidden, "You cannot view this order")
		return
	}

	details, err := h.reportStore.ListOrderDetails(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: ListOrderDetails store operation for ID %d failed: %v", orderID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve order details")
		return
	}
	respondWithJSON(w, http.StatusOK, details)
}

// RegisterRoutes sets up the dashboard HTTP routes. The dashboard is
// admin-only; order details are available to any authenticated user
// subject to the ownership check above.
func (h *ReportHandler) RegisterRoutes(r chi.Router, jwtSecret string) {
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(jwtSecret))

		r.Route("/api/v1/dashboard", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleAdmin))
			r.Get("/summary", h.GetSummary)
			r.Get("/orders-by-month", h.GetOrdersByMonth)
			r.Get("/orders-today", h.GetOrdersToday)
			r.Get("/orders-this-week", h.GetOrdersThisWeek)
			r.Get("/top-products", h.GetTopProducts)
		})

		r.Get("/api/v1/orders/{orderId}/details", h.GetOrderDetails)
	})
}
