package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/priyanshuspawar/Karwaan-Backend/internal/domain"
)

// Transaction is the gateway-side object representing money movement for
// one order. Amounts are in the currency's smallest unit (paise).
type Transaction struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	AmountPaid  int64  `json:"amount_paid"`
	Currency    string `json:"currency"`
	ReferenceID string `json:"reference_id"`
	Status      string `json:"status"`
	ShortURL    string `json:"short_url"`
}

type Gateway interface {
	CreateTransaction(ctx context.Context, amount int64, currency, receipt string) (*Transaction, error)
	FetchTransaction(ctx context.Context, transactionID string) (*Transaction, error)
}

// ToMinorUnits converts a rupee amount to paise for the gateway wire format.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

type razorpayClient struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
	log       *logrus.Logger
}

func NewRazorpayClient(baseURL, keyID, keySecret string, timeout time.Duration, logger *logrus.Logger) Gateway {
	return &razorpayClient{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

type createTransactionRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	ReferenceID string `json:"reference_id"`
}

func (c *razorpayClient) CreateTransaction(ctx context.Context, amount int64, currency, receipt string) (*Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("transaction amount must be positive, got %d", amount)
	}

	url := fmt.Sprintf("%s/v1/payment_links", c.baseURL)
	c.log.Infof("GatewayClient: Creating transaction of %d %s (receipt %s)", amount, currency, receipt)

	body, err := json.Marshal(createTransactionRequest{
		Amount:      amount,
		Currency:    currency,
		ReferenceID: receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		c.log.Errorf("GatewayClient: Failed to create transaction request: %v", err)
		return nil, fmt.Errorf("failed to create gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("GatewayClient: Failed to execute create transaction request: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		c.log.Errorf("GatewayClient: Create transaction failed with status %d", resp.StatusCode)
		return nil, fmt.Errorf("%w: gateway returned status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Errorf("GatewayClient: Create transaction rejected with status %d", resp.StatusCode)
		return nil, fmt.Errorf("gateway rejected transaction creation with status %d", resp.StatusCode)
	}

	var tx Transaction
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		c.log.Errorf("GatewayClient: Failed to decode create transaction response: %v", err)
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	c.log.Infof("GatewayClient: Transaction %s created (status '%s', url %s)", tx.ID, tx.Status, tx.ShortURL)
	return &tx, nil
}

func (c *razorpayClient) FetchTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("transaction ID cannot be empty")
	}

	url := fmt.Sprintf("%s/v1/payment_links/%s", c.baseURL, transactionID)
	c.log.Infof("GatewayClient: Fetching transaction %s", transactionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.Errorf("GatewayClient: Failed to create fetch request for %s: %v", transactionID, err)
		return nil, fmt.Errorf("failed to create gateway request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("GatewayClient: Failed to execute fetch request for %s: %v", transactionID, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.log.Warnf("GatewayClient: Transaction %s not found at gateway", transactionID)
		return nil, fmt.Errorf("transaction %s not found at gateway", transactionID)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Errorf("GatewayClient: Fetch for %s failed with status %d", transactionID, resp.StatusCode)
		return nil, fmt.Errorf("%w: gateway returned status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}

	var tx Transaction
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		c.log.Errorf("GatewayClient: Failed to decode fetch response for %s: %v", transactionID, err)
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	c.log.Infof("GatewayClient: Transaction %s fetched (amount %d, paid %d, status '%s')", tx.ID, tx.Amount, tx.AmountPaid, tx.Status)
	return &tx, nil
}
