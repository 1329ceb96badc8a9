package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rndrianasolo/commercepro/internal/entities"
	"github.com/rndrianasolo/commercepro/internal/service"
	"github.com/rndrianasolo/commercepro/pkg/utils"
)

type ReportsService interface {
	Dashboard(ctx context.Context) service.DashboardStats
	RecentSales(ctx context.Context, count int) []entities.Sale
}

type ReportsHandler struct {
	logger *slog.Logger
	svc    ReportsService
}

func NewReportsHandler(logger *slog.Logger, svc ReportsService) *ReportsHandler {
	return &ReportsHandler{
		logger: logger.With(slog.String("handler", "reports")),
		svc:    svc,
	}
}

func (h *ReportsHandler) Init(r chi.Router) {
	r.Get("/reports/dashboard", h.Dashboard)
	r.Get("/reports/recent-sales", h.RecentSales)
	r.Get("/reports/top-products", h.TopProducts)
}

// Dashboard never fails: each aggregate degrades to zero on a read error.
func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats := h.svc.Dashboard(r.Context())
	utils.WriteJSON(w, DashboardResponse{
		Revenue:       stats.Revenue,
		Orders:        stats.Orders,
		StockTotal:    stats.StockTotal,
		ActiveDrivers: stats.ActiveDrivers,
	}, http.StatusOK)
}

func (h *ReportsHandler) RecentSales(w http.ResponseWriter, r *http.Request) {
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))

	sales := h.svc.RecentSales(r.Context(), count)
	out := make([]Sale, 0, len(sales))
	for _, s := range sales {
		out = append(out, SaleEntityToJSON(s))
	}
	utils.WriteJSON(w, out, http.StatusOK)
}

func (h *ReportsHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 5
	}

	sales := h.svc.RecentSales(r.Context(), 100)
	top := service.TopProducts(sales, limit)

	out := make([]TopProduct, 0, len(top))
	for _, t := range top {
		out = append(out, TopProduct{Name: t.Name, Quantity: t.Quantity})
	}
	utils.WriteJSON(w, out, http.StatusOK)
}
