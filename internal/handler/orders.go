package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rndrianasolo/commercepro/internal/entities"
	"github.com/rndrianasolo/commercepro/internal/middleware"
	"github.com/rndrianasolo/commercepro/pkg/utils"
)

type DispatchService interface {
	Assign(ctx context.Context, orderID, driverID string) error
	AdvanceStatus(ctx context.Context, actor entities.User, orderID string, to entities.DeliveryStatus) error
	ListOrdersForRole(ctx context.Context, actor entities.User) ([]entities.Sale, error)
}

type OrderHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      DispatchService
}

func NewOrderHandler(logger *slog.Logger, svc DispatchService) *OrderHandler {
	return &OrderHandler{
		logger:   logger.With(slog.String("handler", "orders")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *OrderHandler) Init(r chi.Router) {
	r.Get("/orders", h.ListOrders)
	r.Post("/orders/{order_id}/status", h.AdvanceStatus)
}

// InitDispatcher mounts routes restricted to dispatcher roles.
func (h *OrderHandler) InitDispatcher(r chi.Router) {
	r.Post("/orders/{order_id}/assign", h.Assign)
}

// ListOrders returns the delivery board scoped to the caller's role.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := actorFromContext(ctx)

	orders, err := h.svc.ListOrdersForRole(ctx, actor)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list orders", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]Sale, 0, len(orders))
	for _, o := range orders {
		out = append(out, SaleEntityToJSON(o))
	}
	utils.WriteJSON(w, out, http.StatusOK)
}

func (h *OrderHandler) Assign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	var req AssignRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	err := h.svc.Assign(ctx, orderID, req.DriverID)

	switch {
	case errors.Is(err, entities.ErrSaleNotFound):
		utils.WriteError(w, "order not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrDriverNotFound):
		utils.WriteError(w, "driver not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrOrderNotPending):
		utils.WriteError(w, "order is not pending assignment", http.StatusConflict)
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to assign order",
			slog.Any("error", err), slog.String("order_id", orderID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *OrderHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")
	actor := actorFromContext(ctx)

	var req StatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	err := h.svc.AdvanceStatus(ctx, actor, orderID, entities.DeliveryStatus(req.Status))

	switch {
	case errors.Is(err, entities.ErrSaleNotFound):
		utils.WriteError(w, "order not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrNotAssignedDriver), errors.Is(err, entities.ErrDriverNotFound):
		utils.WriteError(w, "order is not assigned to you", http.StatusForbidden)
	case errors.Is(err, entities.ErrInvalidTransition):
		utils.WriteError(w, "illegal delivery status transition", http.StatusConflict)
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to advance delivery status",
			slog.Any("error", err), slog.String("order_id", orderID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// actorFromContext builds the acting identity from the session claims. The
// role claim alone decides dispatcher scope, so no store read is needed.
func actorFromContext(ctx context.Context) entities.User {
	claims := middleware.ClaimsFromContext(ctx)
	if claims == nil {
		return entities.User{}
	}
	return entities.User{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  entities.Role(claims.Role),
	}
}
