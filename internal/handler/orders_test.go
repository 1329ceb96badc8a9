package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rndrianasolo/commercepro/internal/auth"
	"github.com/rndrianasolo/commercepro/internal/config"
	"github.com/rndrianasolo/commercepro/internal/entities"
	"github.com/rndrianasolo/commercepro/internal/handler"
	"github.com/rndrianasolo/commercepro/internal/middleware"
)

type fakeDispatchService struct {
	assignErr  error
	advanceErr error
	orders     []entities.Sale

	lastActor entities.User
	lastTo    entities.DeliveryStatus
}

func (s *fakeDispatchService) Assign(_ context.Context, orderID, driverID string) error {
	return s.assignErr
}

func (s *fakeDispatchService) AdvanceStatus(_ context.Context, actor entities.User, orderID string, to entities.DeliveryStatus) error {
	s.lastActor = actor
	s.lastTo = to
	return s.advanceErr
}

func (s *fakeDispatchService) ListOrdersForRole(_ context.Context, actor entities.User) ([]entities.Sale, error) {
	s.lastActor = actor
	return s.orders, nil
}

func newTestRouter(t *testing.T, svc *fakeDispatchService) (chi.Router, *auth.JWTService) {
	t.Helper()

	tokens := auth.NewJWTService(config.JWT{Secret: "0123456789abcdef", TTL: time.Hour})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewOrderHandler(logger, svc)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens))
		h.Init(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(entities.RoleAdmin, entities.RoleCommerce))
			h.InitDispatcher(r)
		})
	})
	return r, tokens
}

func bearer(t *testing.T, tokens *auth.JWTService, userID, role string) string {
	t.Helper()
	token, err := tokens.GenerateToken(userID, userID+"@example.com", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestOrderHandler_Assign(t *testing.T) {
	testCases := []struct {
		name       string
		role       string
		body       string
		assignErr  error
		wantStatus int
	}{
		{
			name:       "dispatcher assigns pending order",
			role:       "commerce",
			body:       `{"driver_id":"drv-1"}`,
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "driver role is forbidden",
			role:       "driver",
			body:       `{"driver_id":"drv-1"}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing driver id fails validation",
			role:       "admin",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-pending order conflicts",
			role:       "admin",
			body:       `{"driver_id":"drv-1"}`,
			assignErr:  entities.ErrOrderNotPending,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknown driver",
			role:       "admin",
			body:       `{"driver_id":"ghost"}`,
			assignErr:  entities.ErrDriverNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeDispatchService{assignErr: tc.assignErr}
			r, tokens := newTestRouter(t, svc)

			req := httptest.NewRequest(http.MethodPost, "/orders/o1/assign", strings.NewReader(tc.body))
			req.Header.Set("Authorization", bearer(t, tokens, "u1", tc.role))
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)
			assert.Equal(t, tc.wantStatus, rr.Code)
		})
	}
}

func TestOrderHandler_AdvanceStatus(t *testing.T) {
	t.Run("driver advances own order", func(t *testing.T) {
		svc := &fakeDispatchService{}
		r, tokens := newTestRouter(t, svc)

		req := httptest.NewRequest(http.MethodPost, "/orders/o1/status", strings.NewReader(`{"status":"en_route"}`))
		req.Header.Set("Authorization", bearer(t, tokens, "u1", "driver"))
		rr := httptest.NewRecorder()

		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "u1", svc.lastActor.ID)
		assert.Equal(t, entities.RoleDriver, svc.lastActor.Role)
		assert.Equal(t, entities.DeliveryEnRoute, svc.lastTo)
	})

	t.Run("foreign order is forbidden", func(t *testing.T) {
		svc := &fakeDispatchService{advanceErr: entities.ErrNotAssignedDriver}
		r, tokens := newTestRouter(t, svc)

		req := httptest.NewRequest(http.MethodPost, "/orders/o1/status", strings.NewReader(`{"status":"en_route"}`))
		req.Header.Set("Authorization", bearer(t, tokens, "u1", "driver"))
		rr := httptest.NewRecorder()

		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("illegal transition conflicts", func(t *testing.T) {
		svc := &fakeDispatchService{advanceErr: entities.ErrInvalidTransition}
		r, tokens := newTestRouter(t, svc)

		req := httptest.NewRequest(http.MethodPost, "/orders/o1/status", strings.NewReader(`{"status":"delivered"}`))
		req.Header.Set("Authorization", bearer(t, tokens, "u1", "commerce"))
		rr := httptest.NewRecorder()

		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("status outside the lifecycle fails validation", func(t *testing.T) {
		svc := &fakeDispatchService{}
		r, tokens := newTestRouter(t, svc)

		req := httptest.NewRequest(http.MethodPost, "/orders/o1/status", strings.NewReader(`{"status":"none"}`))
		req.Header.Set("Authorization", bearer(t, tokens, "u1", "commerce"))
		rr := httptest.NewRecorder()

		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestOrderHandler_ListOrders(t *testing.T) {
	svc := &fakeDispatchService{orders: []entities.Sale{
		{ID: "o1", SaleNumber: "FAC-000001", DeliveryStatus: entities.DeliveryPending},
	}}
	r, tokens := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", bearer(t, tokens, "boss", "admin"))
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"FAC-000001"`)
	assert.Equal(t, entities.RoleAdmin, svc.lastActor.Role)
}

func TestOrderHandler_Unauthenticated(t *testing.T) {
	r, _ := newTestRouter(t, &fakeDispatchService{})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
