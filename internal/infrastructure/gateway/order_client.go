package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/laptora/checkout-service/internal/application/ports"
	"github.com/laptora/checkout-service/internal/domain/checkout"
)

// OrderClient talks to the backend order API.
type OrderClient struct {
	baseURL string
	client  *http.Client
}

func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
	}
}

type orderItemDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type shippingAddressDTO struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

type submitOrderRequest struct {
	UserID          string             `json:"userId"`
	Items           []orderItemDTO     `json:"items"`
	ShippingAddress shippingAddressDTO `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
}

type orderDTO struct {
	ID              string             `json:"id"`
	OrderCode       string             `json:"orderCode"`
	Items           []orderItemDTO     `json:"items"`
	ShippingAddress shippingAddressDTO `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	TotalAmount     int64              `json:"totalAmount"`
	IsPaid          bool               `json:"isPaid"`
	Status          string             `json:"status"`
	CreatedAt       time.Time          `json:"createdAt"`
}

type submitOrderResponse struct {
	Order orderDTO `json:"order"`
}

func (c *OrderClient) SubmitOrder(ctx context.Context, submission ports.OrderSubmission) (*checkout.Order, error) {
	items := make([]orderItemDTO, 0, len(submission.Items))
	for _, item := range submission.Items {
		items = append(items, orderItemDTO(item))
	}

	reqBody := submitOrderRequest{
		UserID: submission.UserID,
		Items:  items,
		ShippingAddress: shippingAddressDTO{
			FullName: submission.ShippingAddress.FullName,
			Address:  submission.ShippingAddress.Address,
			Phone:    submission.ShippingAddress.Phone,
		},
		PaymentMethod: string(submission.PaymentMethod),
	}

	var respBody submitOrderResponse
	if err := postJSON(ctx, c.client, c.baseURL+"/orders", reqBody, &respBody); err != nil {
		return nil, err
	}

	return respBody.Order.toDomain(), nil
}

func (d orderDTO) toDomain() *checkout.Order {
	items := make([]checkout.OrderItem, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, checkout.OrderItem(item))
	}

	return &checkout.Order{
		ID:        d.ID,
		OrderCode: d.OrderCode,
		Items:     items,
		ShippingAddress: checkout.ShippingAddress{
			FullName: d.ShippingAddress.FullName,
			Address:  d.ShippingAddress.Address,
			Phone:    d.ShippingAddress.Phone,
		},
		PaymentMethod: checkout.Method(d.PaymentMethod),
		TotalAmount:   d.TotalAmount,
		IsPaid:        d.IsPaid,
		Status:        d.Status,
		CreatedAt:     d.CreatedAt,
	}
}
