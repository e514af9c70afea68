package model

import (
	"strings"
	"time"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentStatuses lists every status in lifecycle order.
var AppointmentStatuses = []AppointmentStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Active appointments still occupy their slot.
func (s AppointmentStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// NormalizeClock parses a wall-clock time and returns it zero-padded, so a
// one-digit hour such as "9:05" becomes "09:05".
func NormalizeClock(s string) (string, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return t.Format(TimeLayout), nil
}

type Appointment struct {
	ID                 string            `json:"id"`
	CustomerID         string            `json:"customerId"`
	StaffID            string            `json:"staffId,omitempty"`
	ServiceID          string            `json:"serviceId"`
	AppointmentDate    string            `json:"appointmentDate"`
	AppointmentTime    string            `json:"appointmentTime"`
	Status             AppointmentStatus `json:"status"`
	Price              Money             `json:"price"`
	Duration           int               `json:"duration"`
	Notes              string            `json:"notes,omitempty"`
	CancellationReason string            `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time        `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`

	Service  *ServiceSummary `json:"service,omitempty"`
	Customer *UserSummary    `json:"customer,omitempty"`
}

// StaffAppointment is the public view of a staff member's calendar. It
// carries no customer fields.
type StaffAppointment struct {
	ID              string            `json:"id"`
	ServiceID       string            `json:"serviceId"`
	AppointmentDate string            `json:"appointmentDate"`
	AppointmentTime string            `json:"appointmentTime"`
	Duration        int               `json:"duration"`
	Status          AppointmentStatus `json:"status"`
}

func (a Appointment) StaffView() StaffAppointment {
	return StaffAppointment{
		ID:              a.ID,
		ServiceID:       a.ServiceID,
		AppointmentDate: a.AppointmentDate,
		AppointmentTime: a.AppointmentTime,
		Duration:        a.Duration,
		Status:          a.Status,
	}
}

// StartsAt resolves the appointment's date and time in loc.
func (a Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, a.AppointmentDate+" "+a.AppointmentTime, loc)
}

type AppointmentFilter struct {
	Status AppointmentStatus
	From   string
	To     string
	Page   Page
}
