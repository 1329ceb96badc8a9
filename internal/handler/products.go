package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rndrianasolo/commercepro/internal/entities"
	"github.com/rndrianasolo/commercepro/pkg/utils"
)

type InventoryService interface {
	CreateProduct(ctx context.Context, p entities.Product) (entities.Product, error)
	UpdateProduct(ctx context.Context, p entities.Product) error
	DeactivateProduct(ctx context.Context, productID string) error
	GetProduct(ctx context.Context, productID string) (entities.Product, error)
	ListProducts(ctx context.Context) ([]entities.Product, error)
	ListLowStock(ctx context.Context) ([]entities.Product, error)
	BusinessInfo(ctx context.Context) (entities.BusinessInfo, error)
	SaveBusinessInfo(ctx context.Context, info entities.BusinessInfo) error
}

type ProductHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      InventoryService
}

func NewProductHandler(logger *slog.Logger, svc InventoryService) *ProductHandler {
	return &ProductHandler{
		logger:   logger.With(slog.String("handler", "products")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *ProductHandler) Init(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Get("/products/low-stock", h.ListLowStock)
	r.Get("/products/{product_id}", h.GetProduct)
	r.Get("/business-info", h.GetBusinessInfo)
}

// InitDispatcher mounts catalog mutations, restricted to staff roles.
func (h *ProductHandler) InitDispatcher(r chi.Router) {
	r.Post("/products", h.CreateProduct)
	r.Put("/products/{product_id}", h.UpdateProduct)
	r.Delete("/products/{product_id}", h.DeactivateProduct)
	r.Put("/business-info", h.SaveBusinessInfo)
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ProductRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	product, err := h.svc.CreateProduct(ctx, ProductRequestToEntity(req))

	if errors.Is(err, entities.ErrSKUTaken) {
		utils.WriteError(w, "sku already in use", http.StatusConflict)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create product", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ProductEntityToJSON(product), http.StatusCreated)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := chi.URLParam(r, "product_id")

	var req ProductRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	product := ProductRequestToEntity(req)
	product.ID = productID
	product.IsActive = true

	err := h.svc.UpdateProduct(ctx, product)

	if errors.Is(err, entities.ErrProductNotFound) {
		utils.WriteError(w, "product not found", http.StatusNotFound)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update product",
			slog.Any("error", err), slog.String("product_id", productID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) DeactivateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := chi.URLParam(r, "product_id")

	err := h.svc.DeactivateProduct(ctx, productID)

	if errors.Is(err, entities.ErrProductNotFound) {
		utils.WriteError(w, "product not found", http.StatusNotFound)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to deactivate product",
			slog.Any("error", err), slog.String("product_id", productID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := chi.URLParam(r, "product_id")

	product, err := h.svc.GetProduct(ctx, productID)

	if errors.Is(err, entities.ErrProductNotFound) {
		utils.WriteError(w, "product not found", http.StatusNotFound)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get product",
			slog.Any("error", err), slog.String("product_id", productID))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, ProductEntityToJSON(product), http.StatusOK)
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.writeProducts(w, r, h.svc.ListProducts)
}

func (h *ProductHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	h.writeProducts(w, r, h.svc.ListLowStock)
}

func (h *ProductHandler) writeProducts(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]entities.Product, error)) {
	ctx := r.Context()

	products, err := list(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, ProductEntityToJSON(p))
	}
	utils.WriteJSON(w, out, http.StatusOK)
}

func (h *ProductHandler) GetBusinessInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	info, err := h.svc.BusinessInfo(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get business info", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, BusinessInfoEntityToJSON(info), http.StatusOK)
}

func (h *ProductHandler) SaveBusinessInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BusinessInfo
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Var(req.Name, "required"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	err := h.svc.SaveBusinessInfo(ctx, entities.BusinessInfo{
		Type:    req.Type,
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save business info", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
