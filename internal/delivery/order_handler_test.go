package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyanshuspawar/Karwaan-Backend/internal/domain"
	"github.com/priyanshuspawar/Karwaan-Backend/internal/usecase"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// stubOrderUseCase returns canned results per method.
type stubOrderUseCase struct {
	checkoutResult *usecase.CheckoutResult
	checkoutErr    error
	verifyOrder    *domain.Order
	verifyErr      error
	getOrder       *domain.Order
	getErr         error
	listOrders     []domain.Order
	listErr        error
}

func (s *stubOrderUseCase) CreateCheckout(_ context.Context, _ int, _ []domain.LineItem, _ domain.ShippingDetails) (*usecase.CheckoutResult, error) {
	return s.checkoutResult, s.checkoutErr
}

func (s *stubOrderUseCase) CheckoutFromCart(_ context.Context, _ int, _ domain.ShippingDetails) (*usecase.CheckoutResult, error) {
	return s.checkoutResult, s.checkoutErr
}

func (s *stubOrderUseCase) RetryPayment(_ context.Context, _ int, _ string) (*usecase.CheckoutResult, error) {
	return s.checkoutResult, s.checkoutErr
}

func (s *stubOrderUseCase) VerifyCheckout(_ context.Context, _, _, _, _ string) (*domain.Order, error) {
	return s.verifyOrder, s.verifyErr
}

func (s *stubOrderUseCase) GetPlacedOrder(_ context.Context, _ int, _ string) (*domain.Order, error) {
	return s.getOrder, s.getErr
}

func (s *stubOrderUseCase) ListPlacedOrders(_ context.Context, _ int) ([]domain.Order, error) {
	return s.listOrders, s.listErr
}

const testJWTSecret = "unit-test-secret"

func signedToken(t *testing.T, userID int) string {
	t.Helper()
	claims := authClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func newOrderRouter(uc usecase.OrderUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(testJWTSecret, testLogger()))
	NewOrderHandler(uc, testLogger()).RegisterRoutes(router)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var envelope Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return recorder, envelope
}

func TestOrderRoutes_RequireAuth(t *testing.T) {
	router := newOrderRouter(&stubOrderUseCase{})

	recorder, envelope := doRequest(t, router, http.MethodGet, "/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "error", envelope.Status)

	// Garbage token is rejected too.
	recorder, _ = doRequest(t, router, http.MethodGet, "/orders", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCreateOrder_EmptyProducts(t *testing.T) {
	router := newOrderRouter(&stubOrderUseCase{})

	body := map[string]interface{}{"products": []interface{}{}}
	recorder, envelope := doRequest(t, router, http.MethodPost, "/orders", body, signedToken(t, 1))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "error", envelope.Status)
	assert.Equal(t, "You have selected no products", envelope.Message)
}

func TestCreateOrder_Success(t *testing.T) {
	order := &domain.Order{ID: "ord-1", UserID: 1, Status: domain.StatusPending, Amount: 1920}
	router := newOrderRouter(&stubOrderUseCase{
		checkoutResult: &usecase.CheckoutResult{Order: order},
	})

	body := map[string]interface{}{
		"products": []map[string]interface{}{
			{"product_id": 7, "quantity": 2, "size": "8x12"},
		},
		"shipping_details": map[string]string{"city": "Pune"},
	}
	recorder, envelope := doRequest(t, router, http.MethodPost, "/orders", body, signedToken(t, 1))
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, "Order generated", envelope.Message)
	assert.NotNil(t, envelope.Data)
}

func TestCreateOrder_GatewayDownReturnsSavedOrder(t *testing.T) {
	order := &domain.Order{ID: "ord-1", UserID: 1, Status: domain.StatusPending, Amount: 1920}
	router := newOrderRouter(&stubOrderUseCase{
		checkoutResult: &usecase.CheckoutResult{Order: order},
		checkoutErr:    fmt.Errorf("payment initiation failed: %w", domain.ErrGatewayUnavailable),
	})

	body := map[string]interface{}{
		"products": []map[string]interface{}{
			{"product_id": 7, "quantity": 2, "size": "8x12"},
		},
	}
	recorder, envelope := doRequest(t, router, http.MethodPost, "/orders", body, signedToken(t, 1))
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Equal(t, "error", envelope.Status)
	assert.Contains(t, envelope.Message, "retry the payment")
	assert.NotNil(t, envelope.Data, "the saved order must be returned so the client can retry")
}

func TestVerifyOrder_Outcomes(t *testing.T) {
	verifyBody := map[string]string{
		"order_id":            "ord-1",
		"razorpay_order_id":   "plink_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "deadbeef",
	}

	t.Run("payment complete", func(t *testing.T) {
		router := newOrderRouter(&stubOrderUseCase{
			verifyOrder: &domain.Order{ID: "ord-1", Status: domain.StatusComplete},
		})
		recorder, envelope := doRequest(t, router, http.MethodPost, "/orders/verify", verifyBody, signedToken(t, 1))
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "Payment complete", envelope.Message)

		data, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var result struct {
			IsOk bool `json:"isOk"`
		}
		require.NoError(t, json.Unmarshal(data, &result))
		assert.True(t, result.IsOk)
	})

	t.Run("payment failed", func(t *testing.T) {
		router := newOrderRouter(&stubOrderUseCase{
			verifyOrder: &domain.Order{ID: "ord-1", Status: domain.StatusFailed},
		})
		recorder, envelope := doRequest(t, router, http.MethodPost, "/orders/verify", verifyBody, signedToken(t, 1))
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "Payment has failed", envelope.Message)
	})

	t.Run("duplicate verification conflicts", func(t *testing.T) {
		router := newOrderRouter(&stubOrderUseCase{
			verifyErr: fmt.Errorf("%w: order ord-1 is COMPLETE", domain.ErrOrderAlreadyFinal),
		})
		recorder, envelope := doRequest(t, router, http.MethodPost, "/orders/verify", verifyBody, signedToken(t, 1))
		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Equal(t, "error", envelope.Status)
	})

	t.Run("missing order id", func(t *testing.T) {
		router := newOrderRouter(&stubOrderUseCase{})
		body := map[string]string{"razorpay_order_id": "plink_1"}
		recorder, _ := doRequest(t, router, http.MethodPost, "/orders/verify", body, signedToken(t, 1))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestGetOrderByID_Errors(t *testing.T) {
	t.Run("pending order is not visible", func(t *testing.T) {
		router := newOrderRouter(&stubOrderUseCase{
			getErr: fmt.Errorf("%w: order ord-1 is PENDING", domain.ErrOrderNotPlaced),
		})
		recorder, envelope := doRequest(t, router, http.MethodGet, "/orders/ord-1", nil, signedToken(t, 1))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, envelope.Message, "PENDING")
	})

	t.Run("foreign order is forbidden", func(t *testing.T) {
		router := newOrderRouter(&stubOrderUseCase{getErr: domain.ErrForbidden})
		recorder, _ := doRequest(t, router, http.MethodGet, "/orders/ord-1", nil, signedToken(t, 2))
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		router := newOrderRouter(&stubOrderUseCase{getErr: domain.ErrOrderNotFound})
		recorder, _ := doRequest(t, router, http.MethodGet, "/orders/nope", nil, signedToken(t, 1))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestListOrders(t *testing.T) {
	router := newOrderRouter(&stubOrderUseCase{
		listOrders: []domain.Order{{ID: "ord-1", Status: domain.StatusComplete}},
	})
	recorder, envelope := doRequest(t, router, http.MethodGet, "/orders", nil, signedToken(t, 1))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "success", envelope.Status)
	assert.NotNil(t, envelope.Data)
}

func TestRetryPayment_UnknownOrder(t *testing.T) {
	router := newOrderRouter(&stubOrderUseCase{checkoutErr: domain.ErrOrderNotFound})
	recorder, _ := doRequest(t, router, http.MethodPost, "/orders/nope/payment", nil, signedToken(t, 1))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
