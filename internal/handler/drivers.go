package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rndrianasolo/commercepro/internal/entities"
	"github.com/rndrianasolo/commercepro/internal/middleware"
	"github.com/rndrianasolo/commercepro/internal/service"
	"github.com/rndrianasolo/commercepro/pkg/utils"
)

type TrackingService interface {
	EnsureDriver(ctx context.Context, userID, name string) (entities.Driver, error)
	PublishPosition(ctx context.Context, userID string, sample entities.PositionSample) (service.PublishOutcome, error)
	SetDutyStatus(ctx context.Context, userID string, status entities.DutyStatus) (entities.Driver, error)
	ListDrivers(ctx context.Context) ([]entities.Driver, error)
	GetDriverByUserID(ctx context.Context, userID string) (entities.Driver, error)
}

type DriverHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      TrackingService
}

func NewDriverHandler(logger *slog.Logger, svc TrackingService) *DriverHandler {
	return &DriverHandler{
		logger:   logger.With(slog.String("handler", "drivers")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *DriverHandler) Init(r chi.Router) {
	r.Get("/drivers", h.ListDrivers)
	r.Get("/drivers/me", h.Me)
	r.Post("/drivers/me/position", h.PublishPosition)
	r.Put("/drivers/me/duty", h.SetDuty)
}

func (h *DriverHandler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	drivers, err := h.svc.ListDrivers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list drivers", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	out := make([]Driver, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, DriverEntityToJSON(d))
	}
	utils.WriteJSON(w, out, http.StatusOK)
}

// Me returns the caller's own registry record, creating it on first access
// for a driver-role identity.
func (h *DriverHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.ClaimsFromContext(ctx)

	driver, err := h.svc.GetDriverByUserID(ctx, claims.UserID)
	if errors.Is(err, entities.ErrDriverNotFound) {
		driver, err = h.svc.EnsureDriver(ctx, claims.UserID, "")
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to resolve driver", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, DriverEntityToJSON(driver), http.StatusOK)
}

// PublishPosition accepts a device GPS sample for the caller's own record.
// The response reports the publish outcome but a dropped or failed write is
// still a 200: devices never retry position samples.
func (h *DriverHandler) PublishPosition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.ClaimsFromContext(ctx)

	var req PositionRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	sample := entities.PositionSample{
		Lat:        req.Lat,
		Lng:        req.Lng,
		Accuracy:   req.Accuracy,
		Battery:    req.Battery,
		RecordedAt: time.Now(),
		GPSDenied:  req.GPSDenied,
	}

	outcome, err := h.svc.PublishPosition(ctx, claims.UserID, sample)

	if errors.Is(err, entities.ErrDriverNotFound) {
		utils.WriteError(w, "driver not found", http.StatusNotFound)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to publish position", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, PositionResponse{Outcome: string(outcome)}, http.StatusOK)
}

func (h *DriverHandler) SetDuty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.ClaimsFromContext(ctx)

	var req DutyRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	driver, err := h.svc.SetDutyStatus(ctx, claims.UserID, entities.DutyStatus(req.Duty))

	if errors.Is(err, entities.ErrDriverNotFound) {
		utils.WriteError(w, "driver not found", http.StatusNotFound)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to set duty status", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, DriverEntityToJSON(driver), http.StatusOK)
}
