package domain

import (
	"encoding/json"
	"sort"
)

// Customization is the set of ingredients/condiments picked for one cart line.
type Customization struct {
	Ingredients []string `json:"ingredients,omitempty"`
	Condiments  []string `json:"condiments,omitempty"`
}

// Key returns a canonical serialization used for line identity. Ingredient
// and condiment order must not split lines, so both lists are sorted first.
func (c *Customization) Key() string {
	if c == nil {
		return ""
	}
	norm := Customization{
		Ingredients: append([]string(nil), c.Ingredients...),
		Condiments:  append([]string(nil), c.Condiments...),
	}
	sort.Strings(norm.Ingredients)
	sort.Strings(norm.Condiments)
	b, _ := json.Marshal(norm)
	return string(b)
}

type CartItem struct {
	Product        Product        `json:"product"`
	Quantity       int            `json:"quantity"`
	Customizations *Customization `json:"customizations,omitempty"`
}

// Subtotal uses the price snapshotted on the line, not a live re-fetch.
func (it CartItem) Subtotal() int { return it.Product.Price * it.Quantity }

// Cart accumulates line items keyed by (product id, customization key).
type Cart struct {
	Items []CartItem `json:"items"`
}

func (c *Cart) find(productID, key string) int {
	for i, it := range c.Items {
		if it.Product.ID == productID && it.Customizations.Key() == key {
			return i
		}
	}
	return -1
}

// Add merges into an existing line with the same product and customization,
// otherwise appends a new line.
func (c *Cart) Add(p Product, qty int, cust *Customization) {
	if qty < 1 {
		qty = 1
	}
	if i := c.find(p.ID, cust.Key()); i >= 0 {
		c.Items[i].Quantity += qty
		return
	}
	c.Items = append(c.Items, CartItem{Product: p, Quantity: qty, Customizations: cust})
}

// SetQuantity sets the quantity on the line identified by product id and
// customization. Zero or below removes the line.
func (c *Cart) SetQuantity(productID string, cust *Customization, qty int) {
	i := c.find(productID, cust.Key())
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return
	}
	c.Items[i].Quantity = qty
}

// Remove deletes the line identified by product id and customization.
func (c *Cart) Remove(productID string, cust *Customization) {
	if i := c.find(productID, cust.Key()); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

func (c *Cart) Clear() { c.Items = nil }

func (c Cart) Empty() bool { return len(c.Items) == 0 }

// TotalAmount is Σ unit price × quantity over the snapshotted lines.
func (c Cart) TotalAmount() int {
	total := 0
	for _, it := range c.Items {
		total += it.Subtotal()
	}
	return total
}

// TotalItems is the sum of quantities across lines.
func (c Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
