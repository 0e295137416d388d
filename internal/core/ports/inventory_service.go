package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/restaurant/storage-tracker/internal/core/domain"
)

// NewItemInput is the DTO passed from the transport layer to AddItem.
type NewItemInput struct {
	Name           string
	Category       domain.Category
	Quantity       decimal.Decimal
	Unit           domain.Unit
	Location       string
	ExpirationDate string
	AddedBy        string
}

// ItemPatch carries the fields to merge into an item. Nil fields are left as is.
type ItemPatch struct {
	Name           *string
	Category       *domain.Category
	Quantity       *decimal.Decimal
	Unit           *domain.Unit
	Location       *string
	ExpirationDate *string
	AddedBy        *string
}

// NewActivityInput is a caller-composed activity entry.
type NewActivityInput struct {
	Action       domain.Action
	ItemName     string
	Details      string
	EmployeeName string
}

// InventoryStore owns the item collection and the activity log.
// Mutations on an unknown id return domain.ErrItemNotFound and change nothing.
type InventoryStore interface {
	Init(ctx context.Context) error
	Snapshot() domain.Snapshot
	Subscribe(fn func(domain.Snapshot)) (cancel func())

	AddItem(ctx context.Context, in NewItemInput) (domain.StorageItem, error)
	RemoveItem(ctx context.Context, id, employeeName string) error
	UpdateItem(ctx context.Context, id string, patch ItemPatch) (domain.StorageItem, error)
	IncreaseQuantity(ctx context.Context, id string, amount decimal.Decimal, employeeName string) (domain.StorageItem, error)
	DecreaseQuantity(ctx context.Context, id string, amount decimal.Decimal, employeeName string) (domain.StorageItem, error)
	AddActivity(ctx context.Context, in NewActivityInput) domain.ActivityLogEntry
}
