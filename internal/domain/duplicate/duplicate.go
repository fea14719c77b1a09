// Package duplicate answers "have I already bought this book" from the
// locally cached accepted inventory, so the UI can warn before the user
// commits to a purchase.
package duplicate

import (
	"context"
	"time"
)

// Result is the duplicate probe outcome.
type Result struct {
	IsDuplicate       bool       `json:"is_duplicate"`
	PreviouslyAddedAt *time.Time `json:"previously_added_at,omitempty"`
}

// InventoryLookup is a key→record lookup by normalized ISBN. A nil
// timestamp with found=false means the ISBN is not in inventory.
type InventoryLookup interface {
	AcceptedBookAddedAt(ctx context.Context, isbn string) (addedAt time.Time, found bool, err error)
}

// Detector performs duplicate checks. Pure lookup: no mutation, no network.
type Detector struct {
	inventory InventoryLookup
}

// NewDetector builds a detector over the accepted-inventory cache.
func NewDetector(inventory InventoryLookup) *Detector {
	return &Detector{inventory: inventory}
}

// Check reports whether the ISBN is already in accepted inventory.
func (d *Detector) Check(ctx context.Context, isbn string) (Result, error) {
	addedAt, found, err := d.inventory.AcceptedBookAddedAt(ctx, isbn)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{}, nil
	}
	return Result{IsDuplicate: true, PreviouslyAddedAt: &addedAt}, nil
}
