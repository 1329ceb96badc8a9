package entities

import (
	"errors"
	"time"
)

type Product struct {
	ID            string
	Name          string
	Description   string
	SKU           string
	Barcode       string
	Category      string
	PurchasePrice float64
	SellingPrice  float64
	StockQuantity int
	MinStockLevel int
	MaxStockLevel int
	ImageURL      string
	IsActive      bool
}

// LowStock reports whether the product dropped to or below its minimum
// stock level.
func (p Product) LowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

// Exchange is a product return traded against an in-stock replacement.
type Exchange struct {
	ID                   string
	UserID               string
	CustomerName         string
	OriginalProductName  string
	OriginalProductValue float64
	ExchangedProductID   string
	ValueDifference      float64
	Reason               string
	Status               string
	CreatedAt            time.Time
}

// BusinessInfo is the single-row store identity printed on invoices.
type BusinessInfo struct {
	ID      int
	Type    string
	Name    string
	Address string
	Phone   string
}

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrSKUTaken          = errors.New("sku already in use")
)
