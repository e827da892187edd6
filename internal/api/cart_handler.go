package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"storefront-service/internal/auth"
	"storefront-service/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// CartHandler holds dependencies for the shopping cart handlers.
// Every cart operation is scoped to the authenticated user.
type CartHandler struct {
	cartStore store.CartStorer
	validate  *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cs store.CartStorer) *CartHandler {
	return &CartHandler{
		cartStore: cs,
		validate:  validator.New(),
	}
}

// CartAddInput defines the expected input for adding a product to the cart.
type CartAddInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int32 `json:"quantity" validate:"required,gte=1"`
}

// CartQuantityInput defines the expected input for setting an item quantity.
type CartQuantityInput struct {
	Quantity int32 `json:"quantity" validate:"required,gte=1"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	items, err := h.cartStore.ListCartItems(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("ERROR: ListCartItems store operation for user %d failed: %v", claims.UserID, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve cart")
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	var input CartAddInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	item, err := h.cartStore.AddCartItem(r.Context(), claims.UserID, input.ProductID, input.Quantity)
	if err != nil {
		log.Printf("ERROR: AddCartItem store operation for user %d failed: %v", claims.UserID, err)
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusBadRequest, "Invalid product_id: product does not exist.")
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to add product to cart")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}

func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	idStr := chi.URLParam(r, "cartItemId")
	cartItemID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || cartItemID <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid cart item ID format")
		return
	}

	var input CartQuantityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	item, err := h.cartStore.UpdateCartItemQuantity(r.Context(), claims.UserID, cartItemID, input.Quantity)
	if err != nil {
		log.Printf("ERROR: UpdateCartItemQuantity store operation for user %d item %d failed: %v", claims.UserID, cartItemID, err)
		if errors.Is(err, store.ErrCartItemNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrCartItemNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to update cart item")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, item)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	idStr := chi.URLParam(r, "cartItemId")
	cartItemID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || cartItemID <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid cart item ID format")
		return
	}

	if err := h.cartStore.DeleteCartItem(r.Context(), claims.UserID, cartItemID); err != nil {
		log.Printf("ERROR: DeleteCartItem store operation for user %d item %d failed: %v", claims.UserID, cartItemID, err)
		if errors.Is(err, store.ErrCartItemNotFound) {
			respondWithError(w, http.StatusNotFound, store.ErrCartItemNotFound.Error())
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to remove cart item")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Product removed from cart"})
}

// RegisterRoutes sets up the cart HTTP routes; all require a verified
// bearer token.
func (h *CartHandler) RegisterRoutes(r chi.Router, jwtSecret string) {
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(jwtSecret))
		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/items", h.AddItem)
			r.Put("/items/{cartItemId}", h.UpdateItemQuantity)
			r.Delete("/items/{cartItemId}", h.RemoveItem)
		})
	})
}
