package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rndrianasolo/commercepro/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var productColumns = []string{
	"id", "name", "description", "sku", "barcode", "category",
	"purchase_price", "selling_price", "stock_quantity",
	"min_stock_level", "max_stock_level", "image_url", "is_active",
}

type productRepo struct {
	postgresRepo
}

func NewProductRepo(db *sqlx.DB) *productRepo {
	return &productRepo{newBase(db)}
}

func (r *productRepo) SaveProduct(ctx context.Context, p entities.Product) error {
	query, args := r.qb.Insert("products").
		Columns(productColumns...).
		Values(
			p.ID, p.Name, nullString(p.Description), p.SKU, nullString(p.Barcode), p.Category,
			p.PurchasePrice, p.SellingPrice, p.StockQuantity,
			p.MinStockLevel, p.MaxStockLevel, nullString(p.ImageURL), p.IsActive,
		).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return entities.ErrSKUTaken
	}
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func (r *productRepo) UpdateProduct(ctx context.Context, p entities.Product) error {
	query, args := r.qb.Update("products").
		Set("name", p.Name).
		Set("description", nullString(p.Description)).
		Set("barcode", nullString(p.Barcode)).
		Set("category", p.Category).
		Set("purchase_price", p.PurchasePrice).
		Set("selling_price", p.SellingPrice).
		Set("stock_quantity", p.StockQuantity).
		Set("min_stock_level", p.MinStockLevel).
		Set("max_stock_level", p.MaxStockLevel).
		Set("image_url", nullString(p.ImageURL)).
		Set("is_active", p.IsActive).
		Where(sq.Eq{"id": p.ID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entities.ErrProductNotFound
	}
	return nil
}

func (r *productRepo) GetProductByID(ctx context.Context, productID string) (entities.Product, error) {
	query, args := r.qb.Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": productID}).
		MustSql()

	var product Product
	err := r.getContext(ctx, &product, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Product{}, entities.ErrProductNotFound
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return ProductToEntity(product), nil
}

func (r *productRepo) ListActiveProducts(ctx context.Context) ([]entities.Product, error) {
	query, args := r.qb.Select(productColumns...).
		From("products").
		Where(sq.Eq{"is_active": true}).
		OrderBy("name").
		MustSql()

	var products []Product
	if err := r.selectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	result := make([]entities.Product, 0, len(products))
	for _, p := range products {
		result = append(result, ProductToEntity(p))
	}
	return result, nil
}

// AdjustStock decrements stock by qty (negative qty restocks). The guard in
// the WHERE clause refuses to drive stock below zero.
func (r *productRepo) AdjustStock(ctx context.Context, productID string, qty int) error {
	query, args := r.qb.Update("products").
		Set("stock_quantity", sq.Expr("stock_quantity - ?", qty)).
		Where(sq.Eq{"id": productID}).
		Where(sq.Expr("stock_quantity >= ?", qty)).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entities.ErrInsufficientStock
	}
	return nil
}

func (r *productRepo) TotalStock(ctx context.Context) (int, error) {
	query, args := r.qb.Select("coalesce(sum(stock_quantity), 0)").
		From("products").
		Where(sq.Eq{"is_active": true}).
		MustSql()

	var total int
	if err := r.getContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to sum stock: %w", err)
	}
	return total, nil
}

func (r *productRepo) SaveExchange(ctx context.Context, e entities.Exchange) error {
	query, args := r.qb.Insert("exchanges").
		Columns("id", "user_id", "customer_name", "original_product_name", "original_product_value",
			"exchanged_product_id", "value_difference", "reason", "status", "created_at").
		Values(e.ID, e.UserID, e.CustomerName, e.OriginalProductName, e.OriginalProductValue,
			e.ExchangedProductID, e.ValueDifference, nullString(e.Reason), e.Status, e.CreatedAt).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save exchange: %w", err)
	}
	return nil
}

func (r *productRepo) ListExchanges(ctx context.Context) ([]entities.Exchange, error) {
	query, args := r.qb.Select("id", "user_id", "customer_name", "original_product_name",
		"original_product_value", "exchanged_product_id", "value_difference", "reason", "status", "created_at").
		From("exchanges").
		OrderBy("created_at DESC").
		MustSql()

	var exchanges []Exchange
	if err := r.selectContext(ctx, &exchanges, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list exchanges: %w", err)
	}

	result := make([]entities.Exchange, 0, len(exchanges))
	for _, e := range exchanges {
		result = append(result, ExchangeToEntity(e))
	}
	return result, nil
}

func (r *productRepo) GetBusinessInfo(ctx context.Context) (entities.BusinessInfo, error) {
	query, args := r.qb.Select("id", "type", "name", "address", "phone").
		From("business_info").
		Where(sq.Eq{"id": 1}).
		MustSql()

	var info BusinessInfo
	err := r.getContext(ctx, &info, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.BusinessInfo{}, nil
	}
	if err != nil {
		return entities.BusinessInfo{}, fmt.Errorf("failed to get business info: %w", err)
	}
	return BusinessInfoToEntity(info), nil
}

func (r *productRepo) UpsertBusinessInfo(ctx context.Context, info entities.BusinessInfo) error {
	query, args := r.qb.Insert("business_info").
		Columns("id", "type", "name", "address", "phone").
		Values(1, nullString(info.Type), info.Name, nullString(info.Address), nullString(info.Phone)).
		Suffix("ON CONFLICT (id) DO UPDATE SET type = EXCLUDED.type, name = EXCLUDED.name, address = EXCLUDED.address, phone = EXCLUDED.phone").
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert business info: %w", err)
	}
	return nil
}
