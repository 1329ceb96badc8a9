package service

import (
	"context"
	"log/slog"

	"github.com/rndrianasolo/commercepro/internal/entities"

	"github.com/google/uuid"
)

type ProductRepo interface {
	SaveProduct(ctx context.Context, p entities.Product) error
	UpdateProduct(ctx context.Context, p entities.Product) error
	GetProductByID(ctx context.Context, productID string) (entities.Product, error)
	ListActiveProducts(ctx context.Context) ([]entities.Product, error)
	GetBusinessInfo(ctx context.Context) (entities.BusinessInfo, error)
	UpsertBusinessInfo(ctx context.Context, info entities.BusinessInfo) error
}

type inventoryService struct {
	logger *slog.Logger
	repo   ProductRepo
}

func NewInventoryService(logger *slog.Logger, repo ProductRepo) *inventoryService {
	return &inventoryService{
		logger: logger.With(slog.String("service", "inventory")),
		repo:   repo,
	}
}

func (s *inventoryService) CreateProduct(ctx context.Context, p entities.Product) (entities.Product, error) {
	p.ID = uuid.NewString()
	p.IsActive = true
	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return entities.Product{}, err
	}
	s.logger.Info("product created", slog.String("product_id", p.ID), slog.String("sku", p.SKU))
	return p, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, p entities.Product) error {
	return s.repo.UpdateProduct(ctx, p)
}

// DeactivateProduct soft-deletes: the row stays for sale history, the
// product disappears from the catalog.
func (s *inventoryService) DeactivateProduct(ctx context.Context, productID string) error {
	p, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}
	p.IsActive = false
	return s.repo.UpdateProduct(ctx, p)
}

func (s *inventoryService) GetProduct(ctx context.Context, productID string) (entities.Product, error) {
	return s.repo.GetProductByID(ctx, productID)
}

func (s *inventoryService) ListProducts(ctx context.Context) ([]entities.Product, error) {
	return s.repo.ListActiveProducts(ctx)
}

// ListLowStock returns active products at or below their minimum level.
func (s *inventoryService) ListLowStock(ctx context.Context) ([]entities.Product, error) {
	products, err := s.repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]entities.Product, 0)
	for _, p := range products {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

func (s *inventoryService) BusinessInfo(ctx context.Context) (entities.BusinessInfo, error) {
	return s.repo.GetBusinessInfo(ctx)
}

func (s *inventoryService) SaveBusinessInfo(ctx context.Context, info entities.BusinessInfo) error {
	return s.repo.UpsertBusinessInfo(ctx, info)
}
