package catalog

import "context"

// Reader is the read-only view of the catalog that the checkout flow
// consumes to re-derive authoritative prices.
//
//go:generate mockgen -source=api.go -package catalog -destination reader_mock.go Reader
type Reader interface {
	GetMenuItemsByIDs(c context.Context, uids []string) ([]MenuItem, error)
	GetModifiersByIDs(c context.Context, uids []string) ([]Modifier, error)
}
