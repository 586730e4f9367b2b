package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/laptora/checkout-service/internal/application/ports"
)

// PaymentClient initiates payment sessions with the external
// redirect-based payment provider.
type PaymentClient struct {
	baseURL string
	client  *http.Client
}

func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
	}
}

type paymentSessionRequest struct {
	UserID string         `json:"userId"`
	Items  []orderItemDTO `json:"items"`
	Amount int64          `json:"amount"`
}

type paymentSessionResponse struct {
	OrderURL string `json:"order_url"`
}

func (c *PaymentClient) CreatePaymentSession(ctx context.Context, req ports.PaymentSessionRequest) (string, error) {
	items := make([]orderItemDTO, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, orderItemDTO(item))
	}

	reqBody := paymentSessionRequest{
		UserID: req.UserID,
		Items:  items,
		Amount: req.Amount,
	}

	var respBody paymentSessionResponse
	if err := postJSON(ctx, c.client, c.baseURL+"/payment-sessions", reqBody, &respBody); err != nil {
		return "", err
	}

	return respBody.OrderURL, nil
}
