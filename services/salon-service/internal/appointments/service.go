package appointments

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/palor/libs/auth"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/apperr"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/outbox"
)

const (
	maxTextLen    = 500
	adminPageSize = 20
)

// Mutation edits a locked appointment. Returning a nil event leaves the
// stored row untouched.
type Mutation func(appt *model.Appointment) (*outbox.Event, error)

type Store interface {
	Insert(ctx context.Context, appt model.Appointment, evt outbox.Event) error
	Get(ctx context.Context, id string) (model.Appointment, error)
	Mutate(ctx context.Context, id string, fn Mutation) (model.Appointment, error)
	Delete(ctx context.Context, id string, evt outbox.Event) error
	ListByCustomer(ctx context.Context, customerID string) ([]model.Appointment, error)
	List(ctx context.Context, filter model.AppointmentFilter) ([]model.Appointment, int, error)
	ListByStaff(ctx context.Context, staffID string) ([]model.Appointment, error)
	CountActiveAt(ctx context.Context, staffID, date, clock string) (int, error)
}

type Catalog interface {
	Get(ctx context.Context, id string) (model.Service, error)
}

type Directory interface {
	GetUser(ctx context.Context, id string) (model.User, error)
}

type Options struct {
	Now      func() time.Time
	Location *time.Location
}

type Service struct {
	store   Store
	catalog Catalog
	users   Directory
	logger  *slog.Logger
	now     func() time.Time
	loc     *time.Location
}

func NewService(store Store, catalog Catalog, users Directory, logger *slog.Logger, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		store:   store,
		catalog: catalog,
		users:   users,
		logger:  logger,
		now:     opts.Now,
		loc:     opts.Location,
	}
}

type CreateInput struct {
	CustomerID string
	ServiceID  string
	StaffID    string
	Date       string
	Time       string
	Notes      string
}

type bookedPayload struct {
	AppointmentID   string      `json:"appointmentId"`
	CustomerID      string      `json:"customerId"`
	StaffID         string      `json:"staffId,omitempty"`
	ServiceID       string      `json:"serviceId"`
	AppointmentDate string      `json:"appointmentDate"`
	AppointmentTime string      `json:"appointmentTime"`
	Price           model.Money `json:"price"`
	Duration        int         `json:"duration"`
}

type statusPayload struct {
	AppointmentID string                  `json:"appointmentId"`
	CustomerID    string                  `json:"customerId"`
	From          model.AppointmentStatus `json:"from"`
	To            model.AppointmentStatus `json:"to"`
	Reason        string                  `json:"reason,omitempty"`
	ChangedBy     string                  `json:"changedBy,omitempty"`
	ChangedAt     time.Time               `json:"changedAt"`
}

// Create books a pending appointment for a future slot.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.Appointment, error) {
	in.ServiceID = strings.TrimSpace(in.ServiceID)
	in.StaffID = strings.TrimSpace(in.StaffID)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Notes = strings.TrimSpace(in.Notes)

	if in.CustomerID == "" {
		return model.Appointment{}, apperr.Unauthorized("authentication required")
	}
	if in.ServiceID == "" || in.Date == "" || in.Time == "" {
		return model.Appointment{}, apperr.Validation("serviceId, appointmentDate and appointmentTime are required")
	}
	if utf8.RuneCountInString(in.Notes) > maxTextLen {
		return model.Appointment{}, apperr.Validation("notes must be at most %d characters", maxTextLen)
	}
	clock, err := s.checkSlot(in.Date, in.Time)
	if err != nil {
		return model.Appointment{}, err
	}
	in.Time = clock

	svc, err := s.catalog.Get(ctx, in.ServiceID)
	if err != nil {
		return model.Appointment{}, err
	}
	if !svc.IsActive {
		return model.Appointment{}, apperr.Validation("service is not available for booking")
	}
	if in.StaffID != "" {
		if err := s.checkStaff(ctx, in.StaffID); err != nil {
			return model.Appointment{}, err
		}
		s.warnOnOverlap(ctx, in)
	}

	now := s.now().UTC()
	appt := model.Appointment{
		ID:              uuid.NewString(),
		CustomerID:      in.CustomerID,
		StaffID:         in.StaffID,
		ServiceID:       svc.ID,
		AppointmentDate: in.Date,
		AppointmentTime: in.Time,
		Status:          model.StatusPending,
		Price:           svc.Price,
		Duration:        svc.Duration,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	evt, err := outbox.NewEvent("appointment", appt.ID, outbox.EventAppointmentBooked, bookedPayload{
		AppointmentID:   appt.ID,
		CustomerID:      appt.CustomerID,
		StaffID:         appt.StaffID,
		ServiceID:       appt.ServiceID,
		AppointmentDate: appt.AppointmentDate,
		AppointmentTime: appt.AppointmentTime,
		Price:           appt.Price,
		Duration:        appt.Duration,
	})
	if err != nil {
		return model.Appointment{}, err
	}
	if err := s.store.Insert(ctx, appt, evt); err != nil {
		return model.Appointment{}, err
	}
	s.logger.Info("appointment booked", "appointment_id", appt.ID, "service_id", appt.ServiceID, "date", appt.AppointmentDate)
	return appt, nil
}

// checkSlot rejects malformed values and any slot that has already started
// in the salon's time zone. It returns the time in canonical HH:MM form so
// that "9:05" and "09:05" are stored as the same slot.
func (s *Service) checkSlot(date, clock string) (string, error) {
	day, err := time.ParseInLocation(model.DateLayout, date, s.loc)
	if err != nil {
		return "", apperr.Validation("appointmentDate must be YYYY-MM-DD")
	}
	clock, err = model.NormalizeClock(clock)
	if err != nil {
		return "", apperr.Validation("appointmentTime must be HH:MM")
	}
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	if day.Before(today) {
		return "", apperr.Validation("appointment date cannot be in the past")
	}
	start, _ := time.ParseInLocation(model.DateLayout+" "+model.TimeLayout, date+" "+clock, s.loc)
	if start.Before(now) {
		return "", apperr.Validation("appointment time has already passed")
	}
	return clock, nil
}

func (s *Service) checkStaff(ctx context.Context, staffID string) error {
	u, err := s.users.GetUser(ctx, staffID)
	if apperr.Is(err, apperr.KindNotFound) {
		return apperr.Validation("staff member not found")
	}
	if err != nil {
		return err
	}
	if u.Role != model.RoleStaff {
		return apperr.Validation("staffId does not refer to a staff member")
	}
	return nil
}

// warnOnOverlap flags, but does not prevent, a second active booking for the
// same staff member and slot.
func (s *Service) warnOnOverlap(ctx context.Context, in CreateInput) {
	n, err := s.store.CountActiveAt(ctx, in.StaffID, in.Date, in.Time)
	if err != nil {
		s.logger.Warn("double booking check failed", "err", err)
		return
	}
	if n > 0 {
		s.logger.Warn("possible double booking",
			"staff_id", in.StaffID,
			"date", in.Date,
			"time", in.Time,
			"existing", n,
		)
	}
}

type CancelResult struct {
	Appointment      model.Appointment
	AlreadyCancelled bool
}

// Cancel moves a pending or confirmed appointment to cancelled. Only the
// owning customer or an admin may cancel. Cancelling twice is a no-op that
// keeps the first reason.
func (s *Service) Cancel(ctx context.Context, id string, requester auth.Principal, reason string) (CancelResult, error) {
	id = strings.TrimSpace(id)
	reason = strings.TrimSpace(reason)
	if id == "" {
		return CancelResult{}, apperr.Validation("appointment id is required")
	}
	if utf8.RuneCountInString(reason) > maxTextLen {
		return CancelResult{}, apperr.Validation("reason must be at most %d characters", maxTextLen)
	}
	isAdmin := requester.Role == string(model.RoleAdmin)

	var already bool
	appt, err := s.store.Mutate(ctx, id, func(a *model.Appointment) (*outbox.Event, error) {
		if a.CustomerID != requester.UserID && !isAdmin {
			return nil, apperr.Forbidden("not allowed to cancel this appointment")
		}
		if a.Status == model.StatusCancelled {
			already = true
			return nil, nil
		}
		if err := checkTransition(a.Status, model.StatusCancelled); err != nil {
			return nil, err
		}
		now := s.now().UTC()
		from := a.Status
		a.Status = model.StatusCancelled
		a.CancellationReason = reason
		a.CancelledAt = &now
		a.UpdatedAt = now

		evt, err := outbox.NewEvent("appointment", a.ID, outbox.EventAppointmentCancelled, statusPayload{
			AppointmentID: a.ID,
			CustomerID:    a.CustomerID,
			From:          from,
			To:            model.StatusCancelled,
			Reason:        reason,
			ChangedBy:     requester.UserID,
			ChangedAt:     now,
		})
		if err != nil {
			return nil, err
		}
		return &evt, nil
	})
	if err != nil {
		return CancelResult{}, err
	}
	if already {
		s.logger.Info("appointment already cancelled", "appointment_id", id)
	} else {
		s.logger.Info("appointment cancelled", "appointment_id", id, "by", requester.UserID)
	}
	return CancelResult{Appointment: appt, AlreadyCancelled: already}, nil
}

// UpdateStatus applies an admin status change through the transition table.
func (s *Service) UpdateStatus(ctx context.Context, id string, to model.AppointmentStatus, changedBy string) (model.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Appointment{}, apperr.Validation("appointment id is required")
	}
	if !to.Valid() {
		return model.Appointment{}, apperr.Validation("status must be one of pending, confirmed, completed, cancelled")
	}
	return s.store.Mutate(ctx, id, func(a *model.Appointment) (*outbox.Event, error) {
		if err := checkTransition(a.Status, to); err != nil {
			return nil, err
		}
		now := s.now().UTC()
		from := a.Status
		a.Status = to
		a.UpdatedAt = now
		eventType := outbox.EventAppointmentStatusChanged
		if to == model.StatusCancelled {
			a.CancelledAt = &now
			eventType = outbox.EventAppointmentCancelled
		}
		evt, err := outbox.NewEvent("appointment", a.ID, eventType, statusPayload{
			AppointmentID: a.ID,
			CustomerID:    a.CustomerID,
			From:          from,
			To:            to,
			ChangedBy:     changedBy,
			ChangedAt:     now,
		})
		if err != nil {
			return nil, err
		}
		return &evt, nil
	})
}

// Delete hard-deletes an appointment regardless of status.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.Validation("appointment id is required")
	}
	evt, err := outbox.NewEvent("appointment", id, outbox.EventAppointmentDeleted, map[string]any{
		"appointmentId": id,
		"deletedAt":     s.now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id, evt); err != nil {
		return err
	}
	s.logger.Info("appointment deleted", "appointment_id", id)
	return nil
}

func (s *Service) ListMine(ctx context.Context, customerID string) ([]model.Appointment, error) {
	if customerID == "" {
		return nil, apperr.Unauthorized("authentication required")
	}
	return s.store.ListByCustomer(ctx, customerID)
}

func (s *Service) ListAll(ctx context.Context, filter model.AppointmentFilter) ([]model.Appointment, model.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, model.Pagination{}, apperr.Validation("unknown status %q", filter.Status)
	}
	for _, d := range []string{filter.From, filter.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(model.DateLayout, d); err != nil {
			return nil, model.Pagination{}, apperr.Validation("date filters must be YYYY-MM-DD")
		}
	}
	filter.Page = model.NewPage(filter.Page.Number, filter.Page.Size, adminPageSize)
	items, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return items, model.Paginate(filter.Page, total), nil
}

// ListByStaff returns the public calendar of a staff member.
func (s *Service) ListByStaff(ctx context.Context, staffID string) ([]model.StaffAppointment, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return nil, apperr.Validation("staff id is required")
	}
	appts, err := s.store.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	out := make([]model.StaffAppointment, 0, len(appts))
	for _, a := range appts {
		out = append(out, a.StaffView())
	}
	return out, nil
}
