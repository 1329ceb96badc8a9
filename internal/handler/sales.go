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
	"github.com/rndrianasolo/commercepro/internal/service"
	"github.com/rndrianasolo/commercepro/pkg/utils"
)

type SalesService interface {
	CreateSale(ctx context.Context, input service.NewSaleInput) (entities.Sale, error)
	GetSaleByID(ctx context.Context, saleID string) (entities.Sale, error)
	CreateExchange(ctx context.Context, e entities.Exchange) (entities.Exchange, error)
	ListExchanges(ctx context.Context) ([]entities.Exchange, error)
}

type SalesHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      SalesService
}

func NewSalesHandler(logger *slog.Logger, svc SalesService) *SalesHandler {
	return &SalesHandler{
		logger:   logger.With(slog.String("handler", "sales")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *SalesHandler) Init(r chi.Router) {
	r.Post("/sales", h.CreateSale)
	r.Get("/sales/{sale_id}", h.GetSaleByID)
	r.Post("/exchanges", h.CreateExchange)
	r.Get("/exchanges", h.ListExchanges)
}

func (h *SalesHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.ClaimsFromContext(ctx)

	var req NewSaleRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	input := service.NewSaleInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		PaymentMethod:   entities.PaymentMethod(req.PaymentMethod),
		Delivery:        req.Delivery,
		CreatedBy:       claims.UserID,
	}
	for _, it := range req.Items {
		input.Items = append(input.Items, service.NewSaleItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}

	sale, err := h.svc.CreateSale(ctx, input)

	switch {
	case errors.Is(err, entities.ErrEmptyCart), errors.Is(err, entities.ErrInvalidSale):
		utils.WriteError(w, "invalid sale data", http.StatusBadRequest)
	case errors.Is(err, entities.ErrProductNotFound):
		utils.WriteError(w, "product not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrInsufficientStock):
		utils.WriteError(w, "insufficient stock", http.StatusConflict)
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to create sale", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	default:
		utils.WriteJSON(w, SaleEntityToJSON(sale), http.StatusCreated)
	}
}

func (h *SalesHandler) GetSaleByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	saleID := chi.URLParam(r, "sale_id")

	if err := h.validate.Var(saleID, "required,uuid"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	sale, err := h.svc.GetSaleByID(ctx, saleID)

	if errors.Is(err, entities.ErrSaleNotFound) {
		utils.WriteError(w, "sale not found", http.StatusNotFound)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get sale",
			slog.Any("error", err), slog.String("sale_id", saleID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, SaleEntityToJSON(sale), http.StatusOK)
}

func (h *SalesHandler) CreateExchange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.ClaimsFromContext(ctx)

	var req ExchangeRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	exchange, err := h.svc.CreateExchange(ctx, entities.Exchange{
		UserID:               claims.UserID,
		CustomerName:         req.CustomerName,
		OriginalProductName:  req.OriginalProductName,
		OriginalProductValue: req.OriginalProductValue,
		ExchangedProductID:   req.ExchangedProductID,
		Reason:               req.Reason,
	})

	switch {
	case errors.Is(err, entities.ErrProductNotFound):
		utils.WriteError(w, "replacement product not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrInsufficientStock):
		utils.WriteError(w, "replacement product out of stock", http.StatusConflict)
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to create exchange", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	default:
		utils.WriteJSON(w, ExchangeEntityToJSON(exchange), http.StatusCreated)
	}
}

func (h *SalesHandler) ListExchanges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	exchanges, err := h.svc.ListExchanges(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list exchanges", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]Exchange, 0, len(exchanges))
	for _, e := range exchanges {
		out = append(out, ExchangeEntityToJSON(e))
	}
	utils.WriteJSON(w, out, http.StatusOK)
}
