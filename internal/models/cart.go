package models

// Cart is the ordered list of merchandise line items pending checkout
type Cart struct {
	Items []CartItem `json:"items"`
}

// CartItem represents a line in the shopping cart
type CartItem struct {
	ID       string `json:"id"` // product id, optionally suffixed with "-<size>"
	Name     string `json:"name"`
	Price    int    `json:"price"` // in cents
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

// LineTotal returns price times quantity
func (i CartItem) LineTotal() int {
	return i.Price * i.Quantity
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Find returns the item with the given id
func (c *Cart) Find(id string) (*CartItem, bool) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i], true
		}
	}
	return nil, false
}

// Product is a merchandise catalog entry
type Product struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Price int      `json:"price"` // in cents
	Image string   `json:"image"`
	Sizes []string `json:"sizes,omitempty"`
}

// HasSize reports whether size is one of the product's variants
func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
