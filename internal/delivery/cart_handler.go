package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/priyanshuspawar/Karwaan-Backend/internal/domain"
	"github.com/priyanshuspawar/Karwaan-Backend/internal/usecase"
)

type CartHandler struct {
	useCase usecase.CartUseCase
	log     *logrus.Logger
}

func NewCartHandler(uc usecase.CartUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CartHandler) RegisterRoutes(router gin.IRouter) {
	cart := router.Group("/cart")
	{
		cart.POST("", h.AddItem)
		cart.GET("", h.ListItems)
		cart.DELETE("/:id", h.RemoveItem)
		cart.DELETE("", h.EmptyCart)
	}
}

type addCartItemRequest struct {
	ProductID int              `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Size      domain.PrintSize `json:"size"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind JSON for add cart item (user %d): %v", userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	item, created, err := h.useCase.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity, req.Size)
	if err != nil {
		h.log.Warnf("Handler: Failed to add item to cart for user %d: %v", userID, err)
		respondWithError(c, err)
		return
	}

	if !created {
		SuccessResponse(c, http.StatusOK, "Item is already in cart", item)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Item added to cart", item)
}

func (h *CartHandler) ListItems(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	items, err := h.useCase.ListItems(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorf("Handler: Failed to list cart items for user %d: %v", userID, err)
		respondWithError(c, err)
		return
	}
	if items == nil {
		items = []domain.CartItem{}
	}

	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", items)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil || itemID <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid cart item ID format")
		return
	}

	item, err := h.useCase.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		h.log.Warnf("Handler: Failed to remove cart item %d for user %d: %v", itemID, userID, err)
		respondWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Item removed from cart", gin.H{"removed_item": item})
}

func (h *CartHandler) EmptyCart(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	removed, err := h.useCase.EmptyCart(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorf("Handler: Failed to empty cart for user %d: %v", userID, err)
		respondWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Your cart is now empty", gin.H{"removed_count": removed})
}
