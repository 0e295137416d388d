package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups stock items by storage handling.
type Category string

const (
	CategoryProduce   Category = "produce"
	CategoryMeat      Category = "meat"
	CategoryDairy     Category = "dairy"
	CategoryDryGoods  Category = "dry-goods"
	CategoryFrozen    Category = "frozen"
	CategoryBeverages Category = "beverages"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryProduce,
	CategoryMeat,
	CategoryDairy,
	CategoryDryGoods,
	CategoryFrozen,
	CategoryBeverages,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Unit is the measurement unit a quantity is counted in.
type Unit string

const (
	UnitLbs     Unit = "lbs"
	UnitKg      Unit = "kg"
	UnitPieces  Unit = "pieces"
	UnitGallons Unit = "gallons"
	UnitLiters  Unit = "liters"
	UnitBoxes   Unit = "boxes"
	UnitCases   Unit = "cases"
)

// Units lists every supported unit.
var Units = []Unit{UnitLbs, UnitKg, UnitPieces, UnitGallons, UnitLiters, UnitBoxes, UnitCases}

func init() {
	// Quantities are stored and served as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the calendar-date format used for expiration dates.
const DateLayout = "2006-01-02"

// StorageItem is one stocked item at a storage location.
// Quantity is never negative.
type StorageItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Category       Category        `json:"category"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           Unit            `json:"unit"`
	Location       string          `json:"location"`
	ExpirationDate string          `json:"expirationDate,omitempty"`
	AddedBy        string          `json:"addedBy"`
	AddedAt        time.Time       `json:"addedAt"`
	LastUpdated    time.Time       `json:"lastUpdated"`
}

// Expiration parses ExpirationDate in the given location. ok is false when the
// item has no date or the stored value is not a calendar date.
func (i StorageItem) Expiration(loc *time.Location) (t time.Time, ok bool) {
	if i.ExpirationDate == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, i.ExpirationDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
