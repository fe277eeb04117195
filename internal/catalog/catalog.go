// Package catalog holds the compiled-in event and merchandise tables.
package catalog

import (
	"fmt"
	"sort"
	"time"

	"micasa-storefront/internal/models"
)

// DefaultEventID is shown when no event, or an unknown one, is requested
const DefaultEventID = "la"

// Catalog is a read-only view over events and products
type Catalog struct {
	events         map[string]*models.Event
	products       map[string]*models.Product
	productOrder   []string
	defaultEventID string
}

// New builds a catalog from the given tables. The first product order is preserved
// for listing; events are always iterated by ascending id.
func New(events []models.Event, products []models.Product, defaultEventID string) *Catalog {
	c := &Catalog{
		events:         make(map[string]*models.Event, len(events)),
		products:       make(map[string]*models.Product, len(products)),
		defaultEventID: defaultEventID,
	}
	for i := range events {
		e := events[i]
		c.events[e.ID] = &e
	}
	for i := range products {
		p := products[i]
		if _, dup := c.products[p.ID]; !dup {
			c.productOrder = append(c.productOrder, p.ID)
		}
		c.products[p.ID] = &p
	}
	return c
}

// Default returns the built-in Mi Casa tour catalog
func Default() *Catalog {
	return New(tourEvents, merchandise, DefaultEventID)
}

// DefaultEventID returns the fallback event id
func (c *Catalog) DefaultEventID() string {
	return c.defaultEventID
}

// Lookup returns the event with the given id
func (c *Catalog) Lookup(id string) (*models.Event, bool) {
	e, ok := c.events[id]
	return e, ok
}

// Event resolves id, falling back to the default event when id is empty or unknown.
// It returns ErrEventNotFound only when the default is missing too.
func (c *Catalog) Event(id string) (*models.Event, error) {
	if e, ok := c.events[id]; ok {
		return e, nil
	}
	if e, ok := c.events[c.defaultEventID]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %q", models.ErrEventNotFound, id)
}

// Events returns all events ordered by id
func (c *Catalog) Events() []*models.Event {
	ids := make([]string, 0, len(c.events))
	for id := range c.events {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*models.Event, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.events[id])
	}
	return out
}

// EventOnDay returns the event held on the given day. If several events share
// the day the lowest id wins.
func (c *Catalog) EventOnDay(year int, month time.Month, day int) (*models.Event, bool) {
	for _, e := range c.Events() {
		if e.IsOn(year, month, day) {
			return e, true
		}
	}
	return nil, false
}

// Validate checks that every event date parses and that no two events share a day
func (c *Catalog) Validate() error {
	seen := make(map[string]string)
	for _, e := range c.Events() {
		t, err := models.ParseEventDate(e.Date)
		if err != nil {
			return fmt.Errorf("event %s: %w", e.ID, err)
		}
		key := t.Format("2006-01-02")
		if other, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s and %s on %s", models.ErrDuplicateDate, other, e.ID, key)
		}
		seen[key] = e.ID
	}
	if _, ok := c.events[c.defaultEventID]; !ok {
		return fmt.Errorf("%w: default %q", models.ErrEventNotFound, c.defaultEventID)
	}
	return nil
}

// Product returns the merchandise entry with the given id
func (c *Catalog) Product(id string) (*models.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrProductNotFound, id)
	}
	return p, nil
}

// Products returns merchandise in listing order
func (c *Catalog) Products() []*models.Product {
	out := make([]*models.Product, 0, len(c.productOrder))
	for _, id := range c.productOrder {
		out = append(out, c.products[id])
	}
	return out
}
