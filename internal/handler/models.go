package handler

import (
	"time"

	"github.com/rndrianasolo/commercepro/internal/entities"
)

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
	IsActive  bool   `json:"is_active"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	Role      string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Driver struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	Duty         string    `json:"work_status"`
	Presence     string    `json:"status"`
	BatteryLevel int       `json:"battery_level"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PositionRequest is a single device GPS sample. A sample with gps_denied
// set carries no usable coordinates.
type PositionRequest struct {
	Lat       float64 `json:"lat" validate:"omitempty,latitude"`
	Lng       float64 `json:"lng" validate:"omitempty,longitude"`
	Accuracy  float64 `json:"accuracy,omitempty" validate:"gte=0"`
	Battery   int     `json:"battery_level,omitempty" validate:"gte=0,lte=100"`
	GPSDenied bool    `json:"gps_denied,omitempty"`
}

type PositionResponse struct {
	Outcome string `json:"outcome"`
}

type DutyRequest struct {
	Duty string `json:"work_status" validate:"required,oneof=active resting"`
}

type SaleItem struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

type Sale struct {
	ID               string     `json:"id"`
	SaleNumber       string     `json:"sale_number"`
	CustomerName     string     `json:"customer_name"`
	CustomerPhone    string     `json:"customer_phone,omitempty"`
	CustomerAddress  string     `json:"customer_address,omitempty"`
	TotalAmount      float64    `json:"total_amount"`
	AmountPaid       float64    `json:"amount_paid"`
	PaymentMethod    string     `json:"payment_method"`
	Status           string     `json:"status"`
	DeliveryStatus   string     `json:"delivery_status"`
	AssignedDriverID string     `json:"assigned_driver_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	Items            []SaleItem `json:"items,omitempty"`
}

type NewSaleRequest struct {
	CustomerName    string           `json:"customer_name,omitempty"`
	CustomerPhone   string           `json:"customer_phone,omitempty"`
	CustomerAddress string           `json:"customer_address,omitempty"`
	PaymentMethod   string           `json:"payment_method,omitempty" validate:"omitempty,oneof=cash card mobile_money"`
	Delivery        bool             `json:"delivery,omitempty"`
	Items           []NewSaleItemReq `json:"items" validate:"required,min=1,dive"`
}

type NewSaleItemReq struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type AssignRequest struct {
	DriverID string `json:"driver_id" validate:"required"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=assigned en_route delivered returned"`
}

type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	SKU           string  `json:"sku"`
	Barcode       string  `json:"barcode,omitempty"`
	Category      string  `json:"category,omitempty"`
	PurchasePrice float64 `json:"purchase_price"`
	SellingPrice  float64 `json:"selling_price"`
	StockQuantity int     `json:"stock_quantity"`
	MinStockLevel int     `json:"min_stock_level"`
	MaxStockLevel int     `json:"max_stock_level"`
	ImageURL      string  `json:"image_url,omitempty"`
	IsActive      bool    `json:"is_active"`
}

type ProductRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description,omitempty"`
	SKU           string  `json:"sku" validate:"required"`
	Barcode       string  `json:"barcode,omitempty"`
	Category      string  `json:"category,omitempty"`
	PurchasePrice float64 `json:"purchase_price" validate:"gte=0"`
	SellingPrice  float64 `json:"selling_price" validate:"gte=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	MinStockLevel int     `json:"min_stock_level" validate:"gte=0"`
	MaxStockLevel int     `json:"max_stock_level" validate:"gte=0"`
	ImageURL      string  `json:"image_url,omitempty"`
}

type Exchange struct {
	ID                   string    `json:"id"`
	CustomerName         string    `json:"customer_name"`
	OriginalProductName  string    `json:"original_product_name"`
	OriginalProductValue float64   `json:"original_product_value"`
	ExchangedProductID   string    `json:"exchanged_product_id"`
	ValueDifference      float64   `json:"value_difference"`
	Reason               string    `json:"reason,omitempty"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
}

type ExchangeRequest struct {
	CustomerName         string  `json:"customer_name" validate:"required"`
	OriginalProductName  string  `json:"original_product_name" validate:"required"`
	OriginalProductValue float64 `json:"original_product_value" validate:"gte=0"`
	ExchangedProductID   string  `json:"exchanged_product_id" validate:"required"`
	Reason               string  `json:"reason,omitempty"`
}

type BusinessInfo struct {
	Type    string `json:"type,omitempty"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type DashboardResponse struct {
	Revenue       float64 `json:"revenue"`
	Orders        int     `json:"orders"`
	StockTotal    int     `json:"stock_total"`
	ActiveDrivers int     `json:"active_drivers"`
}

type TopProduct struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func UserEntityToJSON(u entities.User) User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		Phone:     u.Phone,
		IsActive:  u.IsActive,
	}
}

func DriverEntityToJSON(d entities.Driver) Driver {
	return Driver{
		ID:           d.ID,
		UserID:       d.UserID,
		Name:         d.Name,
		Lat:          d.Lat,
		Lng:          d.Lng,
		Duty:         string(d.Duty),
		Presence:     string(d.Presence),
		BatteryLevel: d.BatteryLevel,
		UpdatedAt:    d.UpdatedAt,
	}
}

func SaleItemEntityToJSON(it entities.SaleItem) SaleItem {
	return SaleItem{
		ID:          it.ID,
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		Total:       it.Total,
	}
}

func SaleEntityToJSON(s entities.Sale) Sale {
	items := make([]SaleItem, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemEntityToJSON(it))
	}

	return Sale{
		ID:               s.ID,
		SaleNumber:       s.SaleNumber,
		CustomerName:     s.CustomerName,
		CustomerPhone:    s.CustomerPhone,
		CustomerAddress:  s.CustomerAddress,
		TotalAmount:      s.TotalAmount,
		AmountPaid:       s.AmountPaid,
		PaymentMethod:    string(s.PaymentMethod),
		Status:           string(s.Status),
		DeliveryStatus:   string(s.DeliveryStatus),
		AssignedDriverID: s.AssignedDriverID,
		CreatedAt:        s.CreatedAt,
		Items:            items,
	}
}

func ProductEntityToJSON(p entities.Product) Product {
	return Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		Barcode:       p.Barcode,
		Category:      p.Category,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		MaxStockLevel: p.MaxStockLevel,
		ImageURL:      p.ImageURL,
		IsActive:      p.IsActive,
	}
}

func ProductRequestToEntity(req ProductRequest) entities.Product {
	return entities.Product{
		Name:          req.Name,
		Description:   req.Description,
		SKU:           req.SKU,
		Barcode:       req.Barcode,
		Category:      req.Category,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		MaxStockLevel: req.MaxStockLevel,
		ImageURL:      req.ImageURL,
	}
}

func ExchangeEntityToJSON(e entities.Exchange) Exchange {
	return Exchange{
		ID:                   e.ID,
		CustomerName:         e.CustomerName,
		OriginalProductName:  e.OriginalProductName,
		OriginalProductValue: e.OriginalProductValue,
		ExchangedProductID:   e.ExchangedProductID,
		ValueDifference:      e.ValueDifference,
		Reason:               e.Reason,
		Status:               e.Status,
		CreatedAt:            e.CreatedAt,
	}
}

func BusinessInfoEntityToJSON(b entities.BusinessInfo) BusinessInfo {
	return BusinessInfo{
		Type:    b.Type,
		Name:    b.Name,
		Address: b.Address,
		Phone:   b.Phone,
	}
}
