package entities

import (
	"bytes"
	"encoding/gob"
	"errors"
	"time"
)

type SaleStatus string

const (
	SaleDraft     SaleStatus = "draft"
	SaleCompleted SaleStatus = "completed"
	SaleCancelled SaleStatus = "cancelled"
	SaleRefunded  SaleStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCard        PaymentMethod = "card"
	PaymentMobileMoney PaymentMethod = "mobile_money"
)

type DeliveryStatus string

const (
	// DeliveryNone marks a walk-in sale with no delivery leg. Such sales are
	// invisible to the delivery components entirely.
	DeliveryNone DeliveryStatus = "none"

	DeliveryPending   DeliveryStatus = "pending"
	DeliveryAssigned  DeliveryStatus = "assigned"
	DeliveryEnRoute   DeliveryStatus = "en_route"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryReturned  DeliveryStatus = "returned"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryNone, DeliveryPending, DeliveryAssigned, DeliveryEnRoute, DeliveryDelivered, DeliveryReturned:
		return true
	}
	return false
}

// Terminal reports whether the status is absorbing: once delivered or
// returned, no further transition is allowed.
func (s DeliveryStatus) Terminal() bool {
	return s == DeliveryDelivered || s == DeliveryReturned
}

// deliveryTransitions is the single guard table for the delivery lifecycle.
// Every mutation of delivery_status goes through CanTransition; the store
// itself does not reject illegal transitions.
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryPending:  {DeliveryAssigned, DeliveryEnRoute, DeliveryDelivered, DeliveryReturned},
	DeliveryAssigned: {DeliveryEnRoute, DeliveryDelivered, DeliveryReturned},
	DeliveryEnRoute:  {DeliveryDelivered, DeliveryReturned},
}

// CanTransition reports whether an explicit driver or dispatcher action may
// move an order from one delivery status to another. Transitions out of
// none and out of terminal states are never allowed.
func CanTransition(from, to DeliveryStatus) bool {
	for _, next := range deliveryTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   float64
	Total       float64
}

// Sale is a point-of-sale transaction. A sale flagged for delivery carries
// its own delivery lifecycle, independent of payment status. The assigned
// driver is a weak reference: deleting a driver never cascades to sales.
type Sale struct {
	ID               string
	SaleNumber       string
	CustomerName     string
	CustomerPhone    string
	CustomerAddress  string
	TotalAmount      float64
	AmountPaid       float64
	PaymentMethod    PaymentMethod
	Status           SaleStatus
	DeliveryStatus   DeliveryStatus
	AssignedDriverID string
	CreatedBy        string
	CreatedAt        time.Time

	Items []SaleItem
}

var (
	ErrSaleNotFound      = errors.New("sale not found")
	ErrInvalidSale       = errors.New("invalid sale data")
	ErrEmptyCart         = errors.New("sale has no items")
	ErrOrderNotPending   = errors.New("order is not pending assignment")
	ErrInvalidTransition = errors.New("illegal delivery status transition")
	ErrNotAssignedDriver = errors.New("order is assigned to another driver")
)

func (s *Sale) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Sale) Unmarshal(data []byte) error {
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(s); err != nil {
		return ErrInvalidSale
	}
	return nil
}

func init() {
	gob.Register(Sale{})
	gob.Register(SaleItem{})
}
