package products

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("product not found")
	QueryTimeoutDuration = time.Second * 10
)

// UsageStatus is the four-valued lifecycle tag a user assigns to a product.
// There is no ordering between the values; any status may move to any other.
type UsageStatus string

const (
	StatusNew        UsageStatus = "new"
	StatusInProgress UsageStatus = "in progress"
	StatusFinished   UsageStatus = "finished"
	StatusRepurchase UsageStatus = "want to repurchase"
)

// AllStatuses is in display order, matching the kanban columns.
var AllStatuses = []UsageStatus{StatusNew, StatusInProgress, StatusFinished, StatusRepurchase}

func (s UsageStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusFinished, StatusRepurchase:
		return true
	}
	return false
}

// Categories is the fixed set offered in the product form. Stored values are
// free strings; this list only gates new inserts.
var Categories = []string{
	"Skincare",
	"Makeup",
	"Haircare",
	"Fragrance",
	"Body Care",
	"Supplements",
	"Tools & Accessories",
	"Other",
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Product is a single inventory record. Every read and write is scoped to
// the owning user; a product never changes owners.
type Product struct {
	ID           uuid.UUID  `json:"id"`
	UserID       int64      `json:"user_id"`
	Name         string     `json:"name"`
	Brand        *string    `json:"brand"`
	Price        *float64   `json:"price"`
	Category     *string    `json:"category"`
	PurchaseDate *time.Time `json:"purchase_date"`
	PhotoURL     *string    `json:"photo_url"`
	UsageStatus  *string    `json:"usage_status"`
	Rating       *int16     `json:"rating"`
	CreatedAt    time.Time  `json:"created_at"`
}

// BoardCard is the kanban projection of a product. Products without a stored
// status surface in the "new" column.
type BoardCard struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Brand       *string   `json:"brand"`
	Category    *string   `json:"category"`
	Rating      *int16    `json:"rating"`
	Price       *float64  `json:"price"`
	PhotoURL    *string   `json:"photo_url"`
	UsageStatus string    `json:"usage_status"`
	CreatedAt   time.Time `json:"created_at"`
}

// TasteRow is the slim projection the suggestion engine works from.
type TasteRow struct {
	Name        string   `json:"name"`
	Brand       *string  `json:"brand"`
	Category    *string  `json:"category"`
	Rating      *int16   `json:"rating"`
	Price       *float64 `json:"price"`
	UsageStatus *string  `json:"usage_status"`
}

// FilterOptions holds the distinct values currently in use by the owner's
// products, for populating the filter dropdowns.
type FilterOptions struct {
	Categories    []string `json:"categories"`
	Brands        []string `json:"brands"`
	UsageStatuses []string `json:"usage_statuses"`
}
