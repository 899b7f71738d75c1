package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/priyanshuspawar/Karwaan-Backend/internal/domain"
	"github.com/priyanshuspawar/Karwaan-Backend/internal/usecase"
)

type OrderHandler struct {
	useCase usecase.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc usecase.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter) {
	orders := router.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.POST("/checkout", h.CheckoutFromCart)
		orders.POST("/verify", h.VerifyOrder)
		orders.POST("/:id/payment", h.RetryPayment)
		orders.GET("/:id", h.GetOrderByID)
		orders.GET("", h.ListOrders)
	}
}

type createOrderRequest struct {
	Products []struct {
		ProductID int              `json:"product_id"`
		Quantity  int              `json:"quantity"`
		Size      domain.PrintSize `json:"size"`
	} `json:"products"`
	ShippingDetails domain.ShippingDetails `json:"shipping_details"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind JSON for create order (user %d): %v", userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Products) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "You have selected no products")
		return
	}

	items := make([]domain.LineItem, len(req.Products))
	for i, p := range req.Products {
		items[i] = domain.LineItem{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			Size:      p.Size,
		}
	}

	h.log.Infof("Handler: Processing checkout of %d items for user %d", len(items), userID)
	result, err := h.useCase.CreateCheckout(c.Request.Context(), userID, items, req.ShippingDetails)
	if err != nil {
		h.respondCheckoutError(c, userID, result, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Order generated", result)
}

type checkoutFromCartRequest struct {
	ShippingDetails domain.ShippingDetails `json:"shipping_details"`
}

func (h *OrderHandler) CheckoutFromCart(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	var req checkoutFromCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind JSON for cart checkout (user %d): %v", userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	h.log.Infof("Handler: Processing cart checkout for user %d", userID)
	result, err := h.useCase.CheckoutFromCart(c.Request.Context(), userID, req.ShippingDetails)
	if err != nil {
		h.respondCheckoutError(c, userID, result, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Order generated", result)
}

func (h *OrderHandler) RetryPayment(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	orderID := c.Param("id")

	h.log.Infof("Handler: Retrying payment for order %s (user %d)", orderID, userID)
	result, err := h.useCase.RetryPayment(c.Request.Context(), userID, orderID)
	if err != nil {
		h.respondCheckoutError(c, userID, result, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Payment transaction ready", result)
}

// respondCheckoutError distinguishes gateway failures, where an order was
// persisted and remains payable, from plain validation failures.
func (h *OrderHandler) respondCheckoutError(c *gin.Context, userID int, result *usecase.CheckoutResult, err error) {
	h.log.Errorf("Handler: Checkout failed for user %d: %v", userID, err)

	if errors.Is(err, domain.ErrGatewayUnavailable) && result != nil && result.Order != nil {
		c.JSON(http.StatusBadGateway, Response{
			Status:     "error",
			StatusCode: http.StatusBadGateway,
			Message:    "Payment gateway is unavailable. Your order was saved; retry the payment.",
			Data:       result,
		})
		return
	}

	respondWithError(c, err)
}

type verifyOrderRequest struct {
	OrderID           string `json:"order_id"`
	GatewayOrderRef   string `json:"razorpay_order_id"`
	GatewayPaymentRef string `json:"razorpay_payment_id"`
	Signature         string `json:"razorpay_signature"`
}

type verifyOrderResult struct {
	IsOk         bool          `json:"isOk"`
	OrderDetails *domain.Order `json:"order_details"`
}

func (h *OrderHandler) VerifyOrder(c *gin.Context) {
	var req verifyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind JSON for order verification: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.OrderID == "" {
		ErrorResponse(c, http.StatusBadRequest, "order_id is required")
		return
	}

	h.log.Infof("Handler: Verifying payment for order %s", req.OrderID)
	order, err := h.useCase.VerifyCheckout(c.Request.Context(), req.OrderID, req.GatewayOrderRef, req.GatewayPaymentRef, req.Signature)
	if err != nil {
		h.log.Warnf("Handler: Verification of order %s not applied: %v", req.OrderID, err)
		respondWithError(c, err)
		return
	}

	result := verifyOrderResult{
		IsOk:         order.Status == domain.StatusComplete,
		OrderDetails: order,
	}
	if result.IsOk {
		SuccessResponse(c, http.StatusOK, "Payment complete", result)
		return
	}
	SuccessResponse(c, http.StatusOK, "Payment has failed", result)
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}
	orderID := c.Param("id")

	order, err := h.useCase.GetPlacedOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.log.Warnf("Handler: Failed to get order %s for user %d: %v", orderID, userID, err)
		respondWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "User identification missing")
		return
	}

	orders, err := h.useCase.ListPlacedOrders(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorf("Handler: Failed to list orders for user %d: %v", userID, err)
		respondWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}
