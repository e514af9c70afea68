package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/palor/libs/auth"
	"github.com/md-rashed-zaman/palor/libs/httpx"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/apperr"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/appointments"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
)

type AppointmentService interface {
	Create(ctx context.Context, in appointments.CreateInput) (model.Appointment, error)
	Cancel(ctx context.Context, id string, requester auth.Principal, reason string) (appointments.CancelResult, error)
	UpdateStatus(ctx context.Context, id string, to model.AppointmentStatus, changedBy string) (model.Appointment, error)
	Delete(ctx context.Context, id string) error
	ListMine(ctx context.Context, customerID string) ([]model.Appointment, error)
	ListAll(ctx context.Context, filter model.AppointmentFilter) ([]model.Appointment, model.Pagination, error)
	ListByStaff(ctx context.Context, staffID string) ([]model.StaffAppointment, error)
}

type AppointmentHandler struct {
	svc    AppointmentService
	logger *slog.Logger
}

func NewAppointmentHandler(svc AppointmentService, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, logger: logger}
}

type createAppointmentRequest struct {
	ServiceID       string `json:"serviceId" validate:"required"`
	StaffID         string `json:"staffId"`
	AppointmentDate string `json:"appointmentDate" validate:"required"`
	AppointmentTime string `json:"appointmentTime" validate:"required"`
	Notes           string `json:"notes" validate:"max=500"`
}

type cancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

type appointmentList struct {
	Appointments []model.Appointment `json:"appointments"`
	Pagination   model.Pagination    `json:"pagination"`
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	var req createAppointmentRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	appt, err := h.svc.Create(r.Context(), appointments.CreateInput{
		CustomerID: p.UserID,
		ServiceID:  req.ServiceID,
		StaffID:    req.StaffID,
		Date:       req.AppointmentDate,
		Time:       req.AppointmentTime,
		Notes:      req.Notes,
	})
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, appt, "Appointment created successfully")
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	var req cancelAppointmentRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	res, err := h.svc.Cancel(r.Context(), r.PathValue("id"), p, req.Reason)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	msg := "Appointment cancelled successfully"
	if res.AlreadyCancelled {
		msg = "Appointment was already cancelled"
	}
	httpx.Respond(w, http.StatusOK, res.Appointment, msg)
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	var req updateStatusRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	appt, err := h.svc.UpdateStatus(r.Context(), r.PathValue("id"), model.AppointmentStatus(req.Status), p.UserID)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, appt, "Appointment status updated successfully")
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, nil, "Appointment deleted successfully")
}

func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	items, err := h.svc.ListMine(r.Context(), p.UserID)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, items, "Appointments fetched successfully")
}

func (h *AppointmentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	q := r.URL.Query()
	items, pg, err := h.svc.ListAll(r.Context(), model.AppointmentFilter{
		Status: model.AppointmentStatus(strings.ToLower(strings.TrimSpace(q.Get("status")))),
		From:   strings.TrimSpace(q.Get("startDate")),
		To:     strings.TrimSpace(q.Get("endDate")),
		Page:   page,
	})
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, appointmentList{Appointments: items, Pagination: pg}, "Appointments fetched successfully")
}

func (h *AppointmentHandler) ListByStaff(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListByStaff(r.Context(), r.PathValue("staffId"))
	if apperr.Is(err, apperr.KindNotFound) {
		items, err = []model.StaffAppointment{}, nil
	}
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, items, "Staff appointments fetched successfully")
}
