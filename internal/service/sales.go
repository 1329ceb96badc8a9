package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rndrianasolo/commercepro/internal/entities"
	"github.com/rndrianasolo/commercepro/pkg/trm"
	"github.com/rndrianasolo/commercepro/pkg/utils"

	"github.com/google/uuid"
)

type SaleRepo interface {
	SaveSale(ctx context.Context, s entities.Sale) error
	SaveItems(ctx context.Context, saleID string, items []entities.SaleItem) error
	GetSaleByID(ctx context.Context, saleID string) (entities.Sale, error)
}

type StockRepo interface {
	GetProductByID(ctx context.Context, productID string) (entities.Product, error)
	AdjustStock(ctx context.Context, productID string, qty int) error
	SaveExchange(ctx context.Context, e entities.Exchange) error
	ListExchanges(ctx context.Context) ([]entities.Exchange, error)
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Remove(key string)
}

type salesService struct {
	logger    *slog.Logger
	txManager trm.Manager
	sales     SaleRepo
	stock     StockRepo
	cache     Cache
}

func NewSalesService(logger *slog.Logger, txManager trm.Manager, sales SaleRepo, stock StockRepo, cache Cache) *salesService {
	return &salesService{
		logger:    logger.With(slog.String("service", "sales")),
		txManager: txManager,
		sales:     sales,
		stock:     stock,
		cache:     cache,
	}
}

// NewSaleInput carries a checkout from the till. Delivery opt-in is decided
// here, at sale creation: a delivery sale starts its lifecycle at pending,
// a walk-in sale stays at none and never reaches the delivery board.
type NewSaleInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	PaymentMethod   entities.PaymentMethod
	Delivery        bool
	CreatedBy       string
	Items           []NewSaleItem
}

type NewSaleItem struct {
	ProductID string
	Quantity  int
}

// CreateSale rings up a sale in one transaction: the sale row, its items
// priced from the current catalog, and the stock decrements. Any failure
// rolls the whole checkout back.
func (s *salesService) CreateSale(ctx context.Context, input NewSaleInput) (entities.Sale, error) {
	if len(input.Items) == 0 {
		return entities.Sale{}, entities.ErrEmptyCart
	}
	for _, it := range input.Items {
		if it.Quantity <= 0 {
			return entities.Sale{}, entities.ErrInvalidSale
		}
	}

	now := time.Now()
	sale := entities.Sale{
		ID:              uuid.NewString(),
		SaleNumber:      fmt.Sprintf("FAC-%06d", now.UnixMilli()%1000000),
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		CustomerAddress: input.CustomerAddress,
		PaymentMethod:   input.PaymentMethod,
		Status:          entities.SaleCompleted,
		DeliveryStatus:  entities.DeliveryNone,
		CreatedBy:       input.CreatedBy,
		CreatedAt:       now,
	}
	if sale.CustomerName == "" {
		sale.CustomerName = "Walk-in customer"
	}
	if sale.PaymentMethod == "" {
		sale.PaymentMethod = entities.PaymentCash
	}
	if input.Delivery {
		sale.DeliveryStatus = entities.DeliveryPending
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		for _, it := range input.Items {
			product, err := s.stock.GetProductByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			item := entities.SaleItem{
				ID:          uuid.NewString(),
				SaleID:      sale.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    it.Quantity,
				UnitPrice:   product.SellingPrice,
				Total:       product.SellingPrice * float64(it.Quantity),
			}
			sale.Items = append(sale.Items, item)
			sale.TotalAmount += item.Total
		}
		sale.AmountPaid = sale.TotalAmount

		if err := s.sales.SaveSale(ctx, sale); err != nil {
			return err
		}
		if err := s.sales.SaveItems(ctx, sale.ID, sale.Items); err != nil {
			return err
		}
		for _, it := range sale.Items {
			if err := s.stock.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		sale.Items = nil
		sale.TotalAmount = 0
		return entities.Sale{}, err
	}

	s.logger.Info("sale created",
		slog.String("sale_id", sale.ID),
		slog.String("sale_number", sale.SaleNumber),
		slog.Bool("delivery", input.Delivery))
	return sale, nil
}

// GetSaleByID serves the invoice read path through the LRU cache.
func (s *salesService) GetSaleByID(ctx context.Context, saleID string) (entities.Sale, error) {
	if data, ok := s.cache.Get(saleID); ok {
		var sale entities.Sale
		if err := sale.Unmarshal(data); err != nil {
			s.logger.Error("failed to unmarshal cached sale", slog.Any("error", err))
			return entities.Sale{}, err
		}
		return sale, nil
	}

	var sale entities.Sale
	fn := func() error {
		var err error
		sale, err = s.sales.GetSaleByID(ctx, saleID)
		return err
	}
	cfg := utils.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxAttempts:  5,
		Multiplier:   2,
	}
	if err := utils.Retry(cfg, fn, entities.ErrSaleNotFound); err != nil {
		return entities.Sale{}, err
	}

	data, err := sale.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal sale", slog.Any("error", err))
		return entities.Sale{}, err
	}
	s.cache.Set(saleID, data)
	return sale, nil
}

// CreateExchange records a return traded against a replacement product and
// takes the replacement out of stock, atomically.
func (s *salesService) CreateExchange(ctx context.Context, e entities.Exchange) (entities.Exchange, error) {
	replacement, err := s.stock.GetProductByID(ctx, e.ExchangedProductID)
	if err != nil {
		return entities.Exchange{}, err
	}

	e.ID = uuid.NewString()
	e.ValueDifference = replacement.SellingPrice - e.OriginalProductValue
	e.Status = "completed"
	e.CreatedAt = time.Now()

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.stock.SaveExchange(ctx, e); err != nil {
			return err
		}
		return s.stock.AdjustStock(ctx, e.ExchangedProductID, 1)
	})
	if err != nil {
		return entities.Exchange{}, err
	}

	s.logger.Info("exchange recorded", slog.String("exchange_id", e.ID))
	return e, nil
}

func (s *salesService) ListExchanges(ctx context.Context) ([]entities.Exchange, error) {
	return s.stock.ListExchanges(ctx)
}
