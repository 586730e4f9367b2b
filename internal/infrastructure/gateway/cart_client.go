package gateway

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/laptora/checkout-service/internal/domain/checkout"
)

// CartClient reads the user's current cart snapshot from the backend.
type CartClient struct {
	baseURL string
	client  *http.Client
}

func NewCartClient(baseURL string, timeout time.Duration) *CartClient {
	return &CartClient{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
	}
}

type cartItemDTO struct {
	VariantID  string   `json:"variantId"`
	Name       string   `json:"name"`
	Image      string   `json:"image"`
	Price      int64    `json:"price"`
	Quantity   int      `json:"quantity"`
	Attributes []string `json:"attributes"`
}

type cartResponse struct {
	Items []cartItemDTO `json:"items"`
	Total int64         `json:"total"`
}

func (c *CartClient) GetCart(ctx context.Context, userID string) (*checkout.Cart, error) {
	var respBody cartResponse
	endpoint := c.baseURL + "/carts/" + url.PathEscape(userID)
	if err := getJSON(ctx, c.client, endpoint, &respBody); err != nil {
		return nil, err
	}

	items := make([]checkout.CartItem, 0, len(respBody.Items))
	for _, item := range respBody.Items {
		items = append(items, checkout.CartItem{
			VariantID:  item.VariantID,
			Name:       item.Name,
			ImageURL:   item.Image,
			UnitPrice:  item.Price,
			Quantity:   item.Quantity,
			Attributes: item.Attributes,
		})
	}

	cart := &checkout.Cart{
		Items: items,
		Total: respBody.Total,
	}
	cart.Normalize()
	return cart, nil
}
