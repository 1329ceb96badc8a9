package service_test

import (
	"context"
	"testing"

	"github.com/rndrianasolo/commercepro/internal/entities"
	"github.com/rndrianasolo/commercepro/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	sales map[string]entities.Sale
}

func newFakeOrderRepo(sales ...entities.Sale) *fakeOrderRepo {
	r := &fakeOrderRepo{sales: make(map[string]entities.Sale)}
	for _, s := range sales {
		r.sales[s.ID] = s
	}
	return r
}

func (r *fakeOrderRepo) GetSaleByID(_ context.Context, saleID string) (entities.Sale, error) {
	if s, ok := r.sales[saleID]; ok {
		return s, nil
	}
	return entities.Sale{}, entities.ErrSaleNotFound
}

func (r *fakeOrderRepo) ListDeliveryOrders(_ context.Context) ([]entities.Sale, error) {
	out := make([]entities.Sale, 0)
	for _, s := range r.sales {
		if s.DeliveryStatus != entities.DeliveryNone {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListOrdersByDriver(_ context.Context, driverID string) ([]entities.Sale, error) {
	out := make([]entities.Sale, 0)
	for _, s := range r.sales {
		if s.AssignedDriverID == driverID {
			out = append(out, s)
		}
	}
	return out, nil
}

// AssignDriver mirrors the store's combined update: both fields change only
// while the order is still pending.
func (r *fakeOrderRepo) AssignDriver(_ context.Context, orderID, driverID string) error {
	s, ok := r.sales[orderID]
	if !ok || s.DeliveryStatus != entities.DeliveryPending {
		return entities.ErrOrderNotPending
	}
	s.AssignedDriverID = driverID
	s.DeliveryStatus = entities.DeliveryAssigned
	r.sales[orderID] = s
	return nil
}

func (r *fakeOrderRepo) UpdateDeliveryStatus(_ context.Context, orderID string, from, to entities.DeliveryStatus) error {
	s, ok := r.sales[orderID]
	if !ok || s.DeliveryStatus != from {
		return entities.ErrInvalidTransition
	}
	s.DeliveryStatus = to
	r.sales[orderID] = s
	return nil
}

type fakeInvalidator struct {
	removed []string
}

func (c *fakeInvalidator) Remove(key string) {
	c.removed = append(c.removed, key)
}

func deliveryOrder(id string, status entities.DeliveryStatus, driverID string) entities.Sale {
	return entities.Sale{
		ID:               id,
		SaleNumber:       "FAC-" + id,
		DeliveryStatus:   status,
		AssignedDriverID: driverID,
	}
}

type dispatchAPI interface {
	Assign(ctx context.Context, orderID, driverID string) error
	AdvanceStatus(ctx context.Context, actor entities.User, orderID string, to entities.DeliveryStatus) error
	ListOrdersForRole(ctx context.Context, actor entities.User) ([]entities.Sale, error)
}

func TestDispatchService_Assign(t *testing.T) {
	ctx := context.Background()

	setup := func(sales ...entities.Sale) (*fakeOrderRepo, *fakeDriverRepo, *fakeInvalidator, dispatchAPI) {
		orders := newFakeOrderRepo(sales...)
		drivers := newFakeDriverRepo()
		cache := &fakeInvalidator{}
		svc := service.NewDispatchService(discardLogger(), orders, drivers, cache)
		return orders, drivers, cache, svc
	}

	t.Run("pending order is assigned atomically", func(t *testing.T) {
		orders, drivers, cache, svc := setup(deliveryOrder("o1", entities.DeliveryPending, ""))
		_, err := drivers.EnsureDriver(ctx, "u1", "Hery", 0, 0)
		require.NoError(t, err)

		require.NoError(t, svc.Assign(ctx, "o1", "drv-u1"))

		got := orders.sales["o1"]
		assert.Equal(t, "drv-u1", got.AssignedDriverID)
		assert.Equal(t, entities.DeliveryAssigned, got.DeliveryStatus)
		assert.Contains(t, cache.removed, "o1")
		assert.Equal(t, entities.PresenceBusy, drivers.drivers["u1"].Presence)
	})

	t.Run("offline driver may still be assigned", func(t *testing.T) {
		orders, drivers, _, svc := setup(deliveryOrder("o1", entities.DeliveryPending, ""))
		// The ensured driver starts resting with no position updates at all.
		_, err := drivers.EnsureDriver(ctx, "u1", "Hery", 0, 0)
		require.NoError(t, err)

		require.NoError(t, svc.Assign(ctx, "o1", "drv-u1"))
		assert.Equal(t, entities.DeliveryAssigned, orders.sales["o1"].DeliveryStatus)
	})

	t.Run("non-pending order is rejected unchanged", func(t *testing.T) {
		orders, drivers, cache, svc := setup(deliveryOrder("o1", entities.DeliveryEnRoute, "drv-u2"))
		_, err := drivers.EnsureDriver(ctx, "u1", "Hery", 0, 0)
		require.NoError(t, err)

		err = svc.Assign(ctx, "o1", "drv-u1")
		assert.ErrorIs(t, err, entities.ErrOrderNotPending)

		got := orders.sales["o1"]
		assert.Equal(t, "drv-u2", got.AssignedDriverID)
		assert.Equal(t, entities.DeliveryEnRoute, got.DeliveryStatus)
		assert.Empty(t, cache.removed)
	})

	t.Run("unknown driver is rejected", func(t *testing.T) {
		_, _, _, svc := setup(deliveryOrder("o1", entities.DeliveryPending, ""))

		err := svc.Assign(ctx, "o1", "ghost")
		assert.ErrorIs(t, err, entities.ErrDriverNotFound)
	})

	t.Run("unknown order is rejected", func(t *testing.T) {
		_, drivers, _, svc := setup()
		_, err := drivers.EnsureDriver(ctx, "u1", "Hery", 0, 0)
		require.NoError(t, err)

		err = svc.Assign(ctx, "missing", "drv-u1")
		assert.ErrorIs(t, err, entities.ErrSaleNotFound)
	})
}

func TestDispatchService_AdvanceStatus(t *testing.T) {
	ctx := context.Background()
	dispatcher := entities.User{ID: "boss", Role: entities.RoleCommerce}

	t.Run("dispatcher advances any order", func(t *testing.T) {
		orders := newFakeOrderRepo(deliveryOrder("o1", entities.DeliveryAssigned, "drv-u1"))
		cache := &fakeInvalidator{}
		svc := service.NewDispatchService(discardLogger(), orders, newFakeDriverRepo(), cache)

		require.NoError(t, svc.AdvanceStatus(ctx, dispatcher, "o1", entities.DeliveryEnRoute))
		assert.Equal(t, entities.DeliveryEnRoute, orders.sales["o1"].DeliveryStatus)
		assert.Contains(t, cache.removed, "o1")
	})

	t.Run("driver advances only their own order", func(t *testing.T) {
		orders := newFakeOrderRepo(
			deliveryOrder("mine", entities.DeliveryAssigned, "drv-u1"),
			deliveryOrder("other", entities.DeliveryAssigned, "drv-u2"),
		)
		drivers := newFakeDriverRepo()
		_, err := drivers.EnsureDriver(ctx, "u1", "Hery", 0, 0)
		require.NoError(t, err)
		svc := service.NewDispatchService(discardLogger(), orders, drivers, &fakeInvalidator{})

		actor := entities.User{ID: "u1", Role: entities.RoleDriver}

		require.NoError(t, svc.AdvanceStatus(ctx, actor, "mine", entities.DeliveryEnRoute))

		err = svc.AdvanceStatus(ctx, actor, "other", entities.DeliveryEnRoute)
		assert.ErrorIs(t, err, entities.ErrNotAssignedDriver)
		assert.Equal(t, entities.DeliveryAssigned, orders.sales["other"].DeliveryStatus)
	})

	t.Run("terminal transition frees the driver", func(t *testing.T) {
		orders := newFakeOrderRepo(deliveryOrder("o1", entities.DeliveryEnRoute, "drv-u1"))
		drivers := newFakeDriverRepo()
		_, err := drivers.EnsureDriver(ctx, "u1", "Hery", 0, 0)
		require.NoError(t, err)
		require.NoError(t, drivers.SetPresence(ctx, "drv-u1", entities.PresenceBusy))
		svc := service.NewDispatchService(discardLogger(), orders, drivers, &fakeInvalidator{})

		require.NoError(t, svc.AdvanceStatus(ctx, dispatcher, "o1", entities.DeliveryDelivered))
		assert.Equal(t, entities.PresenceAvailable, drivers.drivers["u1"].Presence)
	})

	t.Run("terminal states are absorbing", func(t *testing.T) {
		orders := newFakeOrderRepo(
			deliveryOrder("done", entities.DeliveryDelivered, "drv-u1"),
			deliveryOrder("back", entities.DeliveryReturned, "drv-u1"),
		)
		svc := service.NewDispatchService(discardLogger(), orders, newFakeDriverRepo(), &fakeInvalidator{})

		for _, id := range []string{"done", "back"} {
			err := svc.AdvanceStatus(ctx, dispatcher, id, entities.DeliveryEnRoute)
			assert.ErrorIs(t, err, entities.ErrInvalidTransition)
		}
	})

	t.Run("target status must be a lifecycle status", func(t *testing.T) {
		orders := newFakeOrderRepo(deliveryOrder("o1", entities.DeliveryAssigned, "drv-u1"))
		svc := service.NewDispatchService(discardLogger(), orders, newFakeDriverRepo(), &fakeInvalidator{})

		assert.ErrorIs(t, svc.AdvanceStatus(ctx, dispatcher, "o1", entities.DeliveryNone), entities.ErrInvalidTransition)
		assert.ErrorIs(t, svc.AdvanceStatus(ctx, dispatcher, "o1", entities.DeliveryStatus("bogus")), entities.ErrInvalidTransition)
	})
}

func TestDispatchService_ListOrdersForRole(t *testing.T) {
	ctx := context.Background()

	orders := newFakeOrderRepo(
		deliveryOrder("walkin", entities.DeliveryNone, ""),
		deliveryOrder("pending", entities.DeliveryPending, ""),
		deliveryOrder("mine", entities.DeliveryAssigned, "drv-u1"),
		deliveryOrder("other", entities.DeliveryAssigned, "drv-u2"),
	)
	drivers := newFakeDriverRepo()
	_, err := drivers.EnsureDriver(ctx, "u1", "Hery", 0, 0)
	require.NoError(t, err)

	svc := service.NewDispatchService(discardLogger(), orders, drivers, &fakeInvalidator{})

	t.Run("dispatcher sees every delivery order", func(t *testing.T) {
		got, err := svc.ListOrdersForRole(ctx, entities.User{ID: "boss", Role: entities.RoleAdmin})
		require.NoError(t, err)

		ids := make([]string, 0, len(got))
		for _, s := range got {
			ids = append(ids, s.ID)
		}
		assert.ElementsMatch(t, []string{"pending", "mine", "other"}, ids)
	})

	t.Run("driver sees only their own orders", func(t *testing.T) {
		got, err := svc.ListOrdersForRole(ctx, entities.User{ID: "u1", Role: entities.RoleDriver})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "mine", got[0].ID)
	})

	t.Run("driver without a registry record has an empty board", func(t *testing.T) {
		got, err := svc.ListOrdersForRole(ctx, entities.User{ID: "ghost", Role: entities.RoleDriver})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
