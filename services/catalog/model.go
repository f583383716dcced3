package catalog

import (
	"math"
	"time"
)

// MenuItem is a sellable menu entry. Price is the authoritative price in
// major currency units: billing must always derive from it, never from
// anything a client submits.
type MenuItem struct {
	UID          string
	Name         string
	Description  string
	Price        float64
	Category     string
	ImageURL     string
	IsAvailable  bool
	CreatedAt    time.Time
	LastModified *time.Time
}

func (m MenuItem) PriceInCents() int64 {
	return ToCents(m.Price)
}

// Modifier is an optional add-on to a menu item with its own authoritative
// price delta and availability flag.
type Modifier struct {
	UID          string
	Name         string
	Price        float64
	GroupName    string
	IsAvailable  bool
	CreatedAt    time.Time
	LastModified *time.Time
}

// ToCents converts an amount in major currency units to minor units,
// rounding to the nearest cent.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
