package checkout

type CartItem struct {
	VariantID  string
	Name       string
	ImageURL   string
	UnitPrice  int64
	Quantity   int
	Attributes []string
}

type Cart struct {
	Items []CartItem
	Total int64
}

func (c *Cart) Empty() bool {
	return c == nil || len(c.Items) == 0
}

func (c *Cart) ComputedTotal() int64 {
	if c == nil {
		return 0
	}

	var total int64
	for _, item := range c.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// Normalize recomputes the total from the line items so a stale total
// reported by the cart backend never reaches order submission.
func (c *Cart) Normalize() {
	if c == nil {
		return
	}
	c.Total = c.ComputedTotal()
}
