package services

import (
	"fmt"
	"strconv"
	"strings"

	"micasa-storefront/internal/models"
)

// CartTotals is the price breakdown of a merchandise cart
type CartTotals struct {
	Subtotal int
	Shipping int
	Total    int
}

// CartService handles merchandise cart operations
type CartService struct {
	products    ProductSource
	shippingFee int
}

// NewCartService creates a new cart service
func NewCartService(products ProductSource, shippingFee int) *CartService {
	return &CartService{products: products, shippingFee: shippingFee}
}

// NewLine resolves a product into a cart line of quantity 0. Sized products
// get a composite id ("tour-tee-M") and an annotated name.
func (s *CartService) NewLine(productID, size string) (models.CartItem, error) {
	p, err := s.products.Product(productID)
	if err != nil {
		return models.CartItem{}, err
	}

	item := models.CartItem{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image,
	}

	if len(p.Sizes) > 0 {
		size = strings.TrimSpace(size)
		if !p.HasSize(size) {
			return models.CartItem{}, fmt.Errorf("%w: size %q for %s", models.ErrInvalidInput, size, p.ID)
		}
		item.ID = fmt.Sprintf("%s-%s", p.ID, size)
		item.Name = fmt.Sprintf("%s (Size: %s)", p.Name, size)
	}
	return item, nil
}

// Totals prices the cart. Shipping applies once when the cart has lines.
func (s *CartService) Totals(cart *models.Cart) CartTotals {
	t := CartTotals{Subtotal: Subtotal(cart)}
	if !cart.IsEmpty() {
		t.Shipping = s.shippingFee
	}
	t.Total = t.Subtotal + t.Shipping
	return t
}

// AddItem merges qty of item into the cart: an existing line with the same id
// is incremented, otherwise the item is appended.
func AddItem(cart *models.Cart, item models.CartItem, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: %d", models.ErrInvalidQuantity, qty)
	}
	if existing, ok := cart.Find(item.ID); ok {
		existing.Quantity += qty
		return nil
	}
	item.Quantity = qty
	cart.Items = append(cart.Items, item)
	return nil
}

// RemoveItem deletes the line with the given id. Unknown ids are ignored.
// It filters cart.Items in place, so the cart must not share its backing
// array with another slice.
func RemoveItem(cart *models.Cart, id string) {
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
}

// SetQuantity overwrites a line's quantity. Unknown ids are ignored.
func SetQuantity(cart *models.Cart, id string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: %d", models.ErrInvalidQuantity, qty)
	}
	if item, ok := cart.Find(id); ok {
		item.Quantity = qty
	}
	return nil
}

// Subtotal sums price times quantity over all lines
func Subtotal(cart *models.Cart) int {
	if cart == nil {
		return 0
	}
	sum := 0
	for _, item := range cart.Items {
		sum += item.LineTotal()
	}
	return sum
}

// BadgeCount is the number shown on the cart icon
func BadgeCount(cart *models.Cart) int {
	if cart == nil {
		return 0
	}
	n := 0
	for _, item := range cart.Items {
		n += item.Quantity
	}
	return n
}

// ParseQuantity parses a cart quantity field. Anything other than a whole
// number of at least 1 is rejected.
func ParseQuantity(s string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || qty < 1 {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidQuantity, s)
	}
	return qty, nil
}
