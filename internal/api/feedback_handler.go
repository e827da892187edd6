package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"storefront-service/internal/auth"
	"storefront-service/internal/domain"
	"storefront-service/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// FeedbackHandler holds dependencies for the feedback HTTP handlers.
type FeedbackHandler struct {
	feedbackStore store.FeedbackStorer
	validate      *validator.Validate
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(fs store.FeedbackStorer) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackStore: fs,
		validate:      validator.New(),
	}
}

// FeedbackCreateInput defines the expected input for creating feedback.
type FeedbackCreateInput struct {
	Content   string `json:"content" validate:"required,max=2000"`
	Rating    int32  `json:"rating" validate:"required,gte=1,lte=5"`
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
}

// FeedbackUpdateInput defines the expected input for updating feedback.
// ProductID is honored only for admins.
type FeedbackUpdateInput struct {
	Content   string `json:"content" validate:"required,max=2000"`
	Rating    int32  `json:"rating" validate:"required,gte=1,lte=5"`
	ProductID *int64 `json:"product_id" validate:"omitempty,gt=0"`
}

func (h *FeedbackHandler) ListFeedbacks(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.feedbackStore.ListFeedbacks(r.Context())
	if err != nil {
		log.Printf("ERROR: ListFeedbacks store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve feedbacks")
		return
	}
	respondWithJSON(w, http.StatusOK, feedbacks)
}

func (h *FeedbackHandler) ListFeedbacksByProduct(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "productId")
	productID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || productID <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	feedbacks, err := h.feedbackStore.ListFeedbacksByProduct(r.Context(), productID)
	if err != nil {
		log.Printf("ERROR: ListFeedbacksByProduct store operation for product %d failed: %v", productID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve feedbacks")
		return
	}
	respondWithJSON(w, http.StatusOK, feedbacks)
}

func (h *FeedbackHandler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	var input FeedbackCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	feedback := &domain.Feedback{
		Content:   input.Content,
		Rating:    input.Rating,
		ProductID: input.ProductID,
		UserID:    claims.UserID,
	}

	created, err := h.feedbackStore.CreateFeedback(r.Context(), feedback)
	if err != nil {
		log.Printf("ERROR: CreateFeedback store operation failed: %v", err)
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusBadRequest, "Invalid product_id: product does not exist.")
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to create feedback")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *FeedbackHandler) UpdateFeedback(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	idStr := chi.URLParam(r, "feedbackId")
	feedbackID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || feedbackID <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid feedback ID format")
		return
	}

	var input FeedbackUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	existing, err := h.feedbackStore.GetFeedbackByID(r.Context(), feedbackID)
	if err != nil {
		log.Printf("ERROR: GetFeedbackByID store operation for ID %d failed: %v", feedbackID, err)
		if errors.Is(err, store.ErrFeedbackNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrFeedbackNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to retrieve feedback")
		}
		return
	}

	// Users may only edit their own feedback; admins may edit any.
	if claims.Role != auth.RoleAdmin && existing.UserID != claims.UserID {
		respondWithError(w, http.StatusForbidden, "You cannot edit this feedback")
		return
	}

	existing.Content = input.Content
	existing.Rating = input.Rating
	if input.ProductID != nil && claims.Role == auth.RoleAdmin {
		existing.ProductID = *input.ProductID
	}

	updated, err := h.feedbackStore.UpdateFeedback(r.Context(), existing)
	if err != nil {
		log.Printf("ERROR: UpdateFeedback store operation for ID %d failed: %v", feedbackID, err)
		if errors.Is(err, store.ErrFeedbackNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrFeedbackNotFound.Error())
		} else if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusBadRequest, "Invalid product_id: product does not exist.")
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to update feedback")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *FeedbackHandler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	idStr := chi.URLParam(r, "feedbackId")
	feedbackID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || feedbackID <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid feedback ID format")
		return
	}

	existing, err := h.feedbackStore.GetFeedbackByID(r.Context(), feedbackID)
	if err != nil {
		log.Printf("ERROR: GetFeedbackByID store operation for ID %d failed: %v", feedbackID, err)
		if errors.Is(err, store.ErrFeedbackNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrFeedbackNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to retrieve feedback")
		}
		return
	}

	// Users may only delete their own feedback; admins may delete any.
	if claims.Role != auth.RoleAdmin && existing.UserID != claims.UserID {
		respondWithError(w, http.StatusForbidden, "You cannot delete this feedback")
		return
	}

	if err := h.feedbackStore.DeleteFeedback(r.Context(), feedbackID); err != nil {
		log.Printf("ERROR: DeleteFeedback store operation for ID %d failed: %v", feedbackID, err)
		if errors.Is(err, store.ErrFeedbackNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrFeedbackNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete feedback")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Feedback deleted successfully"})
}

// RegisterRoutes sets up the feedback HTTP routes. Reads are public;
// writes require a verified bearer token.
func (h *FeedbackHandler) RegisterRoutes(r chi.Router, jwtSecret string) {
	r.Get("/api/v1/feedbacks", h.ListFeedbacks)
	r.Get("/api/v1/products/{productId}/feedbacks", h.ListFeedbacksByProduct)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(jwtSecret))
		r.Post("/api/v1/feedbacks", h.CreateFeedback)
		r.Put("/api/v1/feedbacks/{feedbackId}", h.UpdateFeedback)
		r.Delete("/api/v1/feedbacks/{feedbackId}", h.DeleteFeedback)
	})
}
