package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rndrianasolo/commercepro/internal/entities"
)

type OrderRepo interface {
	GetSaleByID(ctx context.Context, saleID string) (entities.Sale, error)
	ListDeliveryOrders(ctx context.Context) ([]entities.Sale, error)
	ListOrdersByDriver(ctx context.Context, driverID string) ([]entities.Sale, error)
	AssignDriver(ctx context.Context, orderID, driverID string) error
	UpdateDeliveryStatus(ctx context.Context, orderID string, from, to entities.DeliveryStatus) error
}

type DriverDirectory interface {
	GetByID(ctx context.Context, driverID string) (entities.Driver, error)
	GetByUserID(ctx context.Context, userID string) (entities.Driver, error)
	SetPresence(ctx context.Context, driverID string, presence entities.PresenceStatus) error
}

type Invalidator interface {
	Remove(key string)
}

type dispatchService struct {
	logger  *slog.Logger
	orders  OrderRepo
	drivers DriverDirectory
	cache   Invalidator
}

func NewDispatchService(logger *slog.Logger, orders OrderRepo, drivers DriverDirectory, cache Invalidator) *dispatchService {
	return &dispatchService{
		logger:  logger.With(slog.String("service", "dispatch")),
		orders:  orders,
		drivers: drivers,
		cache:   cache,
	}
}

// Assign binds a pending order to a driver and advances it to assigned.
// The driver must exist in the registry; being offline is fine, a
// dispatcher may pre-assign before a shift starts. The write is a single
// combined update, so either both fields change or neither does. Unlike
// position publishes, a failure here is surfaced to the caller.
func (s *dispatchService) Assign(ctx context.Context, orderID, driverID string) error {
	if _, err := s.drivers.GetByID(ctx, driverID); err != nil {
		orderAssignments.WithLabelValues("driver_not_found").Inc()
		return err
	}

	order, err := s.orders.GetSaleByID(ctx, orderID)
	if err != nil {
		orderAssignments.WithLabelValues("order_not_found").Inc()
		return err
	}
	if order.DeliveryStatus != entities.DeliveryPending {
		orderAssignments.WithLabelValues("not_pending").Inc()
		return entities.ErrOrderNotPending
	}

	if err := s.orders.AssignDriver(ctx, orderID, driverID); err != nil {
		if !errors.Is(err, entities.ErrOrderNotPending) {
			s.logger.Error("failed to assign order",
				slog.String("order_id", orderID), slog.Any("error", err))
		}
		orderAssignments.WithLabelValues("failed").Inc()
		return err
	}

	s.cache.Remove(orderID)
	orderAssignments.WithLabelValues("assigned").Inc()

	// Presence is advisory; losing this write never unwinds the assignment.
	if err := s.drivers.SetPresence(ctx, driverID, entities.PresenceBusy); err != nil {
		s.logger.Error("failed to mark driver busy",
			slog.String("driver_id", driverID), slog.Any("error", err))
	}

	s.logger.Info("order assigned",
		slog.String("order_id", orderID), slog.String("driver_id", driverID))
	return nil
}

// AdvanceStatus moves an order through its delivery lifecycle on behalf of
// the acting identity. Dispatcher roles may advance any order; a driver may
// only advance orders assigned to them. Every transition passes the shared
// guard table; delivered and returned are absorbing.
func (s *dispatchService) AdvanceStatus(ctx context.Context, actor entities.User, orderID string, to entities.DeliveryStatus) error {
	if !to.Valid() || to == entities.DeliveryNone {
		return entities.ErrInvalidTransition
	}

	order, err := s.orders.GetSaleByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !actor.Role.Dispatcher() {
		driver, err := s.drivers.GetByUserID(ctx, actor.ID)
		if err != nil {
			return err
		}
		if order.AssignedDriverID != driver.ID {
			return entities.ErrNotAssignedDriver
		}
	}

	if !entities.CanTransition(order.DeliveryStatus, to) {
		return entities.ErrInvalidTransition
	}

	if err := s.orders.UpdateDeliveryStatus(ctx, orderID, order.DeliveryStatus, to); err != nil {
		return fmt.Errorf("failed to advance delivery status: %w", err)
	}

	s.cache.Remove(orderID)
	statusTransitions.WithLabelValues(string(to)).Inc()

	if to.Terminal() && order.AssignedDriverID != "" {
		if err := s.drivers.SetPresence(ctx, order.AssignedDriverID, entities.PresenceAvailable); err != nil {
			s.logger.Error("failed to mark driver available",
				slog.String("driver_id", order.AssignedDriverID), slog.Any("error", err))
		}
	}

	s.logger.Info("delivery status advanced",
		slog.String("order_id", orderID),
		slog.String("from", string(order.DeliveryStatus)),
		slog.String("to", string(to)))
	return nil
}

// ListOrdersForRole returns the delivery board for the acting identity:
// dispatchers see every delivery order, a driver sees only orders assigned
// to their own registry record. Walk-in sales never appear.
func (s *dispatchService) ListOrdersForRole(ctx context.Context, actor entities.User) ([]entities.Sale, error) {
	if actor.Role.Dispatcher() {
		return s.orders.ListDeliveryOrders(ctx)
	}

	driver, err := s.drivers.GetByUserID(ctx, actor.ID)
	if errors.Is(err, entities.ErrDriverNotFound) {
		// A driver identity without a registry record has no board yet.
		return []entities.Sale{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.orders.ListOrdersByDriver(ctx, driver.ID)
}
