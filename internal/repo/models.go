package repo

import (
	"database/sql"
	"time"

	"github.com/rndrianasolo/commercepro/internal/entities"
)

type User struct {
	ID        string         `db:"id"`
	Email     string         `db:"email"`
	Password  string         `db:"password_hash"`
	FirstName string         `db:"first_name"`
	LastName  sql.NullString `db:"last_name"`
	Role      string         `db:"role"`
	Phone     sql.NullString `db:"phone"`
	IsActive  bool           `db:"is_active"`
	StoreID   sql.NullString `db:"store_id"`
}

type Driver struct {
	ID           string        `db:"id"`
	UserID       string        `db:"user_id"`
	DriverName   string        `db:"driver_name"`
	CurrentLat   float64       `db:"current_lat"`
	CurrentLng   float64       `db:"current_lng"`
	Status       string        `db:"status"`
	WorkStatus   string        `db:"work_status"`
	BatteryLevel sql.NullInt32 `db:"battery_level"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

type Sale struct {
	ID               string         `db:"id"`
	SaleNumber       string         `db:"sale_number"`
	CustomerName     string         `db:"customer_name"`
	CustomerPhone    sql.NullString `db:"customer_phone"`
	CustomerAddress  sql.NullString `db:"customer_address"`
	TotalAmount      float64        `db:"total_amount"`
	AmountPaid       float64        `db:"amount_paid"`
	PaymentMethod    string         `db:"payment_method"`
	Status           string         `db:"status"`
	DeliveryStatus   string         `db:"delivery_status"`
	AssignedDriverID sql.NullString `db:"assigned_driver_id"`
	CreatedBy        string         `db:"created_by"`
	CreatedAt        time.Time      `db:"created_at"`
}

type SaleItem struct {
	ID          string  `db:"id"`
	SaleID      string  `db:"sale_id"`
	ProductID   string  `db:"product_id"`
	ProductName string  `db:"product_name"`
	Quantity    int     `db:"quantity"`
	UnitPrice   float64 `db:"unit_price"`
	Total       float64 `db:"total"`
}

type Product struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	Description   sql.NullString `db:"description"`
	SKU           string         `db:"sku"`
	Barcode       sql.NullString `db:"barcode"`
	Category      string         `db:"category"`
	PurchasePrice float64        `db:"purchase_price"`
	SellingPrice  float64        `db:"selling_price"`
	StockQuantity int            `db:"stock_quantity"`
	MinStockLevel int            `db:"min_stock_level"`
	MaxStockLevel int            `db:"max_stock_level"`
	ImageURL      sql.NullString `db:"image_url"`
	IsActive      bool           `db:"is_active"`
}

type Exchange struct {
	ID                   string         `db:"id"`
	UserID               string         `db:"user_id"`
	CustomerName         string         `db:"customer_name"`
	OriginalProductName  string         `db:"original_product_name"`
	OriginalProductValue float64        `db:"original_product_value"`
	ExchangedProductID   string         `db:"exchanged_product_id"`
	ValueDifference      float64        `db:"value_difference"`
	Reason               sql.NullString `db:"reason"`
	Status               string         `db:"status"`
	CreatedAt            time.Time      `db:"created_at"`
}

type BusinessInfo struct {
	ID      int            `db:"id"`
	Type    sql.NullString `db:"type"`
	Name    string         `db:"name"`
	Address sql.NullString `db:"address"`
	Phone   sql.NullString `db:"phone"`
}

func UserToEntity(u User) entities.User {
	return entities.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  nullStringToString(u.LastName),
		Role:      entities.Role(u.Role),
		Phone:     nullStringToString(u.Phone),
		IsActive:  u.IsActive,
		StoreID:   nullStringToString(u.StoreID),
	}
}

func DriverToEntity(d Driver) entities.Driver {
	return entities.Driver{
		ID:           d.ID,
		UserID:       d.UserID,
		Name:         d.DriverName,
		Lat:          d.CurrentLat,
		Lng:          d.CurrentLng,
		Duty:         entities.DutyStatus(d.WorkStatus),
		Presence:     entities.PresenceStatus(d.Status),
		BatteryLevel: nullInt32ToInt(d.BatteryLevel),
		UpdatedAt:    d.UpdatedAt,
	}
}

func SaleToEntity(s Sale, items []SaleItem) entities.Sale {
	sale := entities.Sale{
		ID:               s.ID,
		SaleNumber:       s.SaleNumber,
		CustomerName:     s.CustomerName,
		CustomerPhone:    nullStringToString(s.CustomerPhone),
		CustomerAddress:  nullStringToString(s.CustomerAddress),
		TotalAmount:      s.TotalAmount,
		AmountPaid:       s.AmountPaid,
		PaymentMethod:    entities.PaymentMethod(s.PaymentMethod),
		Status:           entities.SaleStatus(s.Status),
		DeliveryStatus:   entities.DeliveryStatus(s.DeliveryStatus),
		AssignedDriverID: nullStringToString(s.AssignedDriverID),
		CreatedBy:        s.CreatedBy,
		CreatedAt:        s.CreatedAt,
	}
	if len(items) > 0 {
		sale.Items = make([]entities.SaleItem, 0, len(items))
		for _, it := range items {
			sale.Items = append(sale.Items, SaleItemToEntity(it))
		}
	}
	return sale
}

func SaleItemToEntity(i SaleItem) entities.SaleItem {
	return entities.SaleItem{
		ID:          i.ID,
		SaleID:      i.SaleID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		Total:       i.Total,
	}
}

func ProductToEntity(p Product) entities.Product {
	return entities.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   nullStringToString(p.Description),
		SKU:           p.SKU,
		Barcode:       nullStringToString(p.Barcode),
		Category:      p.Category,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		MaxStockLevel: p.MaxStockLevel,
		ImageURL:      nullStringToString(p.ImageURL),
		IsActive:      p.IsActive,
	}
}

func ExchangeToEntity(e Exchange) entities.Exchange {
	return entities.Exchange{
		ID:                   e.ID,
		UserID:               e.UserID,
		CustomerName:         e.CustomerName,
		OriginalProductName:  e.OriginalProductName,
		OriginalProductValue: e.OriginalProductValue,
		ExchangedProductID:   e.ExchangedProductID,
		ValueDifference:      e.ValueDifference,
		Reason:               nullStringToString(e.Reason),
		Status:               e.Status,
		CreatedAt:            e.CreatedAt,
	}
}

func BusinessInfoToEntity(b BusinessInfo) entities.BusinessInfo {
	return entities.BusinessInfo{
		ID:      b.ID,
		Type:    nullStringToString(b.Type),
		Name:    b.Name,
		Address: nullStringToString(b.Address),
		Phone:   nullStringToString(b.Phone),
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt32(i int) sql.NullInt32 {
	if i == 0 {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(i), Valid: true}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullInt32ToInt(ni sql.NullInt32) int {
	if ni.Valid {
		return int(ni.Int32)
	}
	return 0
}
