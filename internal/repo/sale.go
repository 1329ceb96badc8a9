package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rndrianasolo/commercepro/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var saleColumns = []string{
	"id", "sale_number", "customer_name", "customer_phone", "customer_address",
	"total_amount", "amount_paid", "payment_method", "status",
	"delivery_status", "assigned_driver_id", "created_by", "created_at",
}

var saleItemColumns = []string{
	"id", "sale_id", "product_id", "product_name", "quantity", "unit_price", "total",
}

type saleRepo struct {
	postgresRepo
}

func NewSaleRepo(db *sqlx.DB) *saleRepo {
	return &saleRepo{newBase(db)}
}

func (r *saleRepo) SaveSale(ctx context.Context, s entities.Sale) error {
	query, args := r.qb.Insert("sales").
		Columns(saleColumns...).
		Values(
			s.ID, s.SaleNumber, s.CustomerName,
			nullString(s.CustomerPhone), nullString(s.CustomerAddress),
			s.TotalAmount, s.AmountPaid, string(s.PaymentMethod), string(s.Status),
			string(s.DeliveryStatus), nullString(s.AssignedDriverID), s.CreatedBy, s.CreatedAt,
		).
		Suffix("ON CONFLICT (id) DO NOTHING").
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save sale: %w", err)
	}
	return nil
}

func (r *saleRepo) SaveItems(ctx context.Context, saleID string, items []entities.SaleItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.qb.Insert("sale_items").
		Columns(saleItemColumns...).
		Suffix("ON CONFLICT (id) DO NOTHING")

	for _, it := range items {
		q = q.Values(it.ID, saleID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.Total)
	}

	query, args := q.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save sale items: %w", err)
	}
	return nil
}

func (r *saleRepo) GetSaleByID(ctx context.Context, saleID string) (entities.Sale, error) {
	query, args := r.qb.Select(saleColumns...).
		From("sales").
		Where(sq.Eq{"id": saleID}).
		MustSql()

	var sale Sale
	err := r.getContext(ctx, &sale, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Sale{}, entities.ErrSaleNotFound
	}
	if err != nil {
		return entities.Sale{}, fmt.Errorf("failed to get sale: %w", err)
	}

	items, err := r.itemsForSales(ctx, []string{saleID})
	if err != nil {
		return entities.Sale{}, err
	}
	return SaleToEntity(sale, items[saleID]), nil
}

// ListDeliveryOrders returns every sale that opted into delivery tracking.
// Walk-in sales (delivery_status = none) are excluded from the delivery
// components entirely.
func (r *saleRepo) ListDeliveryOrders(ctx context.Context) ([]entities.Sale, error) {
	return r.listSales(ctx, sq.NotEq{"delivery_status": string(entities.DeliveryNone)})
}

// ListOrdersByDriver returns the delivery orders assigned to one driver.
func (r *saleRepo) ListOrdersByDriver(ctx context.Context, driverID string) ([]entities.Sale, error) {
	return r.listSales(ctx, sq.Eq{"assigned_driver_id": driverID})
}

func (r *saleRepo) ListRecentSales(ctx context.Context, count int) ([]entities.Sale, error) {
	query, args := r.qb.Select(saleColumns...).
		From("sales").
		OrderBy("created_at DESC").
		Limit(uint64(count)).
		MustSql()

	return r.collectSales(ctx, query, args)
}

func (r *saleRepo) listSales(ctx context.Context, pred any) ([]entities.Sale, error) {
	query, args := r.qb.Select(saleColumns...).
		From("sales").
		Where(pred).
		OrderBy("created_at DESC").
		MustSql()

	return r.collectSales(ctx, query, args)
}

func (r *saleRepo) collectSales(ctx context.Context, query string, args []any) ([]entities.Sale, error) {
	var sales []Sale
	if err := r.selectContext(ctx, &sales, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select sales: %w", err)
	}
	if len(sales) == 0 {
		return []entities.Sale{}, nil
	}

	ids := make([]string, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
	}
	itemsMap, err := r.itemsForSales(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]entities.Sale, 0, len(sales))
	for _, s := range sales {
		result = append(result, SaleToEntity(s, itemsMap[s.ID]))
	}
	return result, nil
}

func (r *saleRepo) itemsForSales(ctx context.Context, saleIDs []string) (map[string][]SaleItem, error) {
	query, args := r.qb.Select(saleItemColumns...).
		From("sale_items").
		Where(sq.Eq{"sale_id": saleIDs}).
		MustSql()

	var items []SaleItem
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select sale items: %w", err)
	}
	itemsMap := make(map[string][]SaleItem, len(saleIDs))
	for _, it := range items {
		itemsMap[it.SaleID] = append(itemsMap[it.SaleID], it)
	}
	return itemsMap, nil
}

// AssignDriver binds an order to a driver and advances pending → assigned
// in a single combined update. The status guard sits in the WHERE clause:
// when the order is no longer pending the update matches zero rows, neither
// field changes and ErrOrderNotPending is returned. No partial-assignment
// state is ever observable.
func (r *saleRepo) AssignDriver(ctx context.Context, orderID, driverID string) error {
	query, args := r.qb.Update("sales").
		Set("assigned_driver_id", driverID).
		Set("delivery_status", string(entities.DeliveryAssigned)).
		Where(sq.Eq{
			"id":              orderID,
			"delivery_status": string(entities.DeliveryPending),
		}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to assign driver: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entities.ErrOrderNotPending
	}
	return nil
}

// UpdateDeliveryStatus moves an order from one delivery status to another.
// The expected from-status in the WHERE clause keeps the transition atomic
// against a concurrent writer; zero matched rows means the order moved on.
func (r *saleRepo) UpdateDeliveryStatus(ctx context.Context, orderID string, from, to entities.DeliveryStatus) error {
	query, args := r.qb.Update("sales").
		Set("delivery_status", string(to)).
		Where(sq.Eq{
			"id":              orderID,
			"delivery_status": string(from),
		}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update delivery status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entities.ErrInvalidTransition
	}
	return nil
}

func (r *saleRepo) TotalSalesAmount(ctx context.Context) (float64, error) {
	query, args := r.qb.Select("coalesce(sum(total_amount), 0)").
		From("sales").
		MustSql()

	var total float64
	if err := r.getContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to sum sales: %w", err)
	}
	return total, nil
}

func (r *saleRepo) CountSales(ctx context.Context) (int, error) {
	query, args := r.qb.Select("count(*)").From("sales").MustSql()

	var count int
	if err := r.getContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count sales: %w", err)
	}
	return count, nil
}
