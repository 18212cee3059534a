// Package cart implements the cart engine: an insertion-ordered collection
// of line items with value semantics. Every mutation returns a new Cart
// snapshot, so callers can compare before/after values for change
// detection without defensive copying.
package cart

import (
	"github.com/feastkart/kiosk/internal/domain/catalog"
)

// Line is one catalog item plus its quantity within the cart.
// Quantity is always >= 1; a line whose quantity would drop to zero or
// below is removed instead.
type Line struct {
	Item     catalog.Item
	Quantity int
}

// Cart is an insertion-ordered collection of Lines, at most one per item
// ID. The zero value is an empty, usable cart.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() Cart {
	return Cart{}
}

// Add appends a new line with quantity 1, preserving insertion order.
// When a line for item.ID already exists the cart is returned unchanged:
// adding an already-present item is silently ignored, and quantity
// changes go through UpdateQuantity only.
func (c Cart) Add(item catalog.Item) Cart {
	if c.Contains(item.ID) {
		return c
	}

	lines := make([]Line, len(c.lines), len(c.lines)+1)
	copy(lines, c.lines)
	lines = append(lines, Line{Item: item, Quantity: 1})
	return Cart{lines: lines}
}

// Remove drops the line matching itemID. Absent IDs are a no-op, not an
// error.
func (c Cart) Remove(itemID string) Cart {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return c
	}

	lines := make([]Line, 0, len(c.lines)-1)
	lines = append(lines, c.lines[:idx]...)
	lines = append(lines, c.lines[idx+1:]...)
	return Cart{lines: lines}
}

// UpdateQuantity adjusts the quantity of the line matching itemID by
// delta, which may be negative. A resulting quantity <= 0 removes the
// line entirely. Absent IDs are a no-op. There is no upper bound.
func (c Cart) UpdateQuantity(itemID string, delta int) Cart {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return c
	}

	next := c.lines[idx].Quantity + delta
	if next <= 0 {
		return c.Remove(itemID)
	}

	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	lines[idx].Quantity = next
	return Cart{lines: lines}
}

// Clear returns an empty cart.
func (c Cart) Clear() Cart {
	return Cart{}
}

// Contains reports whether a line for itemID exists.
func (c Cart) Contains(itemID string) bool {
	return c.indexOf(itemID) >= 0
}

// Len returns the number of distinct lines.
func (c Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount returns the total quantity across all lines.
func (c Cart) ItemCount() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// Lines returns a copy of the cart's lines in insertion order.
func (c Cart) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c Cart) indexOf(itemID string) int {
	for i, line := range c.lines {
		if line.Item.ID == itemID {
			return i
		}
	}
	return -1
}
