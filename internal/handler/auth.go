package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rndrianasolo/commercepro/internal/auth"
	"github.com/rndrianasolo/commercepro/internal/entities"
	"github.com/rndrianasolo/commercepro/internal/middleware"
	"github.com/rndrianasolo/commercepro/pkg/utils"
)

type AuthService interface {
	Register(ctx context.Context, email, password, firstName string, role entities.Role) (entities.User, error)
	Login(ctx context.Context, email, password string) (entities.User, string, error)
	Profile(ctx context.Context, claims *auth.Claims) entities.User
}

type AuthHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      AuthService
}

func NewAuthHandler(logger *slog.Logger, svc AuthService) *AuthHandler {
	return &AuthHandler{
		logger:   logger.With(slog.String("handler", "auth")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *AuthHandler) Init(r chi.Router) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
}

// InitProtected mounts routes that require a valid session token.
func (h *AuthHandler) InitProtected(r chi.Router) {
	r.Get("/auth/profile", h.Profile)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	user, err := h.svc.Register(ctx, req.Email, req.Password, req.FirstName, entities.Role(req.Role))

	if errors.Is(err, entities.ErrEmailTaken) {
		utils.WriteError(w, "email already registered", http.StatusConflict)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to register user", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, UserEntityToJSON(user), http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	user, token, err := h.svc.Login(ctx, req.Email, req.Password)

	if errors.Is(err, entities.ErrInvalidCredentials) {
		utils.WriteError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to login", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, LoginResponse{Token: token, User: UserEntityToJSON(user)}, http.StatusOK)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		utils.WriteError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	user := h.svc.Profile(r.Context(), claims)
	utils.WriteJSON(w, UserEntityToJSON(user), http.StatusOK)
}
