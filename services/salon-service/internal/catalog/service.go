package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/apperr"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 1000
)

type Store interface {
	Insert(ctx context.Context, s model.Service) error
	Get(ctx context.Context, id string) (model.Service, error)
	List(ctx context.Context, activeOnly bool) ([]model.Service, error)
	Update(ctx context.Context, id string, fn func(*model.Service) error) (model.Service, error)
	Delete(ctx context.Context, id string) error
}

// Service manages the salon's menu of bookable services.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

type Input struct {
	Name        string
	Description string
	Price       model.Money
	Duration    int
	IsActive    *bool
}

func (in *Input) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return apperr.Validation("name is required")
	}
	if utf8.RuneCountInString(in.Name) > maxNameLen {
		return apperr.Validation("name must be at most %d characters", maxNameLen)
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLen {
		return apperr.Validation("description must be at most %d characters", maxDescriptionLen)
	}
	if in.Price < 0 {
		return apperr.Validation("price must not be negative")
	}
	if in.Duration <= 0 {
		return apperr.Validation("duration must be a positive number of minutes")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in Input) (model.Service, error) {
	if err := in.normalize(); err != nil {
		return model.Service{}, err
	}
	now := s.now().UTC()
	svc := model.Service{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		IsActive:    in.IsActive == nil || *in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, svc); err != nil {
		return model.Service{}, err
	}
	s.logger.Info("service created", "service_id", svc.ID, "name", svc.Name)
	return svc, nil
}

// Update replaces the editable fields. IsActive is left alone when nil.
func (s *Service) Update(ctx context.Context, id string, in Input) (model.Service, error) {
	if strings.TrimSpace(id) == "" {
		return model.Service{}, apperr.Validation("service id is required")
	}
	if err := in.normalize(); err != nil {
		return model.Service{}, err
	}
	return s.store.Update(ctx, id, func(svc *model.Service) error {
		svc.Name = in.Name
		svc.Description = in.Description
		svc.Price = in.Price
		svc.Duration = in.Duration
		if in.IsActive != nil {
			svc.IsActive = *in.IsActive
		}
		svc.UpdatedAt = s.now().UTC()
		return nil
	})
}

func (s *Service) ToggleActive(ctx context.Context, id string) (model.Service, error) {
	if strings.TrimSpace(id) == "" {
		return model.Service{}, apperr.Validation("service id is required")
	}
	svc, err := s.store.Update(ctx, id, func(svc *model.Service) error {
		svc.IsActive = !svc.IsActive
		svc.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return model.Service{}, err
	}
	s.logger.Info("service toggled", "service_id", id, "active", svc.IsActive)
	return svc, nil
}

func (s *Service) Get(ctx context.Context, id string) (model.Service, error) {
	if strings.TrimSpace(id) == "" {
		return model.Service{}, apperr.Validation("service id is required")
	}
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]model.Service, error) {
	items, err := s.store.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Service{}
	}
	return items, nil
}

// Delete removes a service. Appointments and transactions keep their weak
// reference to it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Validation("service id is required")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("service deleted", "service_id", id)
	return nil
}
