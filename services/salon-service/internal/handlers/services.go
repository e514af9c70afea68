package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/palor/libs/auth"
	"github.com/md-rashed-zaman/palor/libs/httpx"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/catalog"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
)

type CatalogService interface {
	Create(ctx context.Context, in catalog.Input) (model.Service, error)
	Update(ctx context.Context, id string, in catalog.Input) (model.Service, error)
	ToggleActive(ctx context.Context, id string) (model.Service, error)
	Get(ctx context.Context, id string) (model.Service, error)
	List(ctx context.Context, activeOnly bool) ([]model.Service, error)
	Delete(ctx context.Context, id string) error
}

type ServiceHandler struct {
	svc    CatalogService
	logger *slog.Logger
}

func NewServiceHandler(svc CatalogService, logger *slog.Logger) *ServiceHandler {
	return &ServiceHandler{svc: svc, logger: logger}
}

type serviceRequest struct {
	Name        string      `json:"name" validate:"required,max=100"`
	Description string      `json:"description" validate:"max=1000"`
	Price       model.Money `json:"price" validate:"gte=0"`
	Duration    int         `json:"duration" validate:"required,gt=0"`
	IsActive    *bool       `json:"isActive"`
}

func (req serviceRequest) input() catalog.Input {
	return catalog.Input{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		IsActive:    req.IsActive,
	}
}

// List returns active services to everyone. Admins may pass active=false to
// include inactive ones.
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	active, err := queryBool(r, "active")
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	activeOnly := true
	if p, ok := auth.PrincipalFrom(r.Context()); ok && p.HasRole(string(model.RoleAdmin)) && active != nil {
		activeOnly = *active
	}
	items, err := h.svc.List(r.Context(), activeOnly)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, items, "Services fetched successfully")
}

func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, s, "Service fetched successfully")
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	s, err := h.svc.Create(r.Context(), req.input())
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, s, "Service created successfully")
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	s, err := h.svc.Update(r.Context(), r.PathValue("id"), req.input())
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, s, "Service updated successfully")
}

func (h *ServiceHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.ToggleActive(r.Context(), r.PathValue("id"))
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	msg := "Service deactivated successfully"
	if s.IsActive {
		msg = "Service activated successfully"
	}
	httpx.Respond(w, http.StatusOK, s, msg)
}

func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, nil, "Service deleted successfully")
}
