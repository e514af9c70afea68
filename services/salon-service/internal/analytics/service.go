package analytics

import (
	"context"
	"log/slog"
	"time"

	otelx "github.com/md-rashed-zaman/palor/libs/otel"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/apperr"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
	"golang.org/x/sync/errgroup"
)

const tracerName = "palor/analytics"

// Store exposes read-only queries. Grouping happens in this package.
type Store interface {
	RevenueRows(ctx context.Context, r model.DateRange) ([]RevenueRow, error)
	Services(ctx context.Context) ([]model.Service, error)
	StatusCounts(ctx context.Context, r model.DateRange) (map[model.AppointmentStatus]int, error)
	CustomerSignups(ctx context.Context, r model.DateRange) ([]time.Time, error)
	CountUsers(ctx context.Context, role model.Role) (int, error)
	CountServices(ctx context.Context) (int, error)
	// CountAppointments filters on creation time; an empty status counts all.
	CountAppointments(ctx context.Context, r model.DateRange, status model.AppointmentStatus) (int, error)
	CountAppointmentsOn(ctx context.Context, date string) (int, error)
	RevenueTotal(ctx context.Context, r model.DateRange) (model.TransactionTotal, error)
	RecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error)
}

type Service struct {
	store  Store
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
}

type Options struct {
	Now      func() time.Time
	Location *time.Location
}

func NewService(store Store, logger *slog.Logger, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{store: store, logger: logger, loc: opts.Location, now: opts.Now}
}

// Range parses optional startDate/endDate query values in the salon's zone.
func (s *Service) Range(startDate, endDate string) (model.DateRange, error) {
	r, err := model.ParseDateRange(startDate, endDate, s.loc)
	if err != nil {
		return model.DateRange{}, apperr.Wrap(apperr.KindValidation, err, err.Error())
	}
	return r, nil
}

func (s *Service) RevenueByPeriod(ctx context.Context, r model.DateRange, groupBy string) ([]RevenuePoint, error) {
	g, ok := ParseGroupBy(groupBy)
	if !ok {
		return nil, apperr.Validation("groupBy must be one of day, week, month")
	}
	ctx, span := otelx.StartSpan(ctx, tracerName, "analytics.revenue")
	defer span.End()

	rows, err := s.store.RevenueRows(ctx, r)
	if err != nil {
		return nil, err
	}
	return GroupRevenue(rows, g, s.loc), nil
}

func (s *Service) PopularServices(ctx context.Context, limit int) ([]PopularService, error) {
	ctx, span := otelx.StartSpan(ctx, tracerName, "analytics.popular_services")
	defer span.End()

	var (
		rows     []RevenueRow
		services []model.Service
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.store.RevenueRows(gctx, model.DateRange{})
		return err
	})
	g.Go(func() error {
		var err error
		services, err = s.store.Services(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	catalog := make(map[string]model.Service, len(services))
	for _, svc := range services {
		catalog[svc.ID] = svc
	}
	return RankServices(rows, catalog, limit), nil
}

func (s *Service) AppointmentStatusBreakdown(ctx context.Context, r model.DateRange) (StatusBreakdown, error) {
	counts, err := s.store.StatusCounts(ctx, r)
	if err != nil {
		return StatusBreakdown{}, err
	}
	return CountStatuses(counts), nil
}

func (s *Service) CustomerGrowth(ctx context.Context, r model.DateRange) ([]GrowthPoint, error) {
	signups, err := s.store.CustomerSignups(ctx, r)
	if err != nil {
		return nil, err
	}
	return GroupSignups(signups, s.loc), nil
}

type Overview struct {
	TotalUsers            int         `json:"totalUsers"`
	TotalStaff            int         `json:"totalStaff"`
	TotalServices         int         `json:"totalServices"`
	TotalAppointments     int         `json:"totalAppointments"`
	CompletedAppointments int         `json:"completedAppointments"`
	PendingAppointments   int         `json:"pendingAppointments"`
	CancelledAppointments int         `json:"cancelledAppointments"`
	TodayAppointments     int         `json:"todayAppointments"`
	TotalRevenue          model.Money `json:"totalRevenue"`
	TotalTransactions     int         `json:"totalTransactions"`
}

// Overview gathers the dashboard headline numbers. The queries are
// independent and run concurrently.
func (s *Service) Overview(ctx context.Context, r model.DateRange) (Overview, error) {
	ctx, span := otelx.StartSpan(ctx, tracerName, "analytics.overview")
	defer span.End()

	var ov Overview
	today := s.now().In(s.loc).Format(model.DateLayout)

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			*dst = n
			return err
		})
	}
	count(&ov.TotalUsers, func(ctx context.Context) (int, error) { return s.store.CountUsers(ctx, model.RoleCustomer) })
	count(&ov.TotalStaff, func(ctx context.Context) (int, error) { return s.store.CountUsers(ctx, model.RoleStaff) })
	count(&ov.TotalServices, s.store.CountServices)
	count(&ov.TotalAppointments, func(ctx context.Context) (int, error) { return s.store.CountAppointments(ctx, r, "") })
	count(&ov.CompletedAppointments, func(ctx context.Context) (int, error) {
		return s.store.CountAppointments(ctx, r, model.StatusCompleted)
	})
	count(&ov.PendingAppointments, func(ctx context.Context) (int, error) {
		return s.store.CountAppointments(ctx, r, model.StatusPending)
	})
	count(&ov.CancelledAppointments, func(ctx context.Context) (int, error) {
		return s.store.CountAppointments(ctx, r, model.StatusCancelled)
	})
	count(&ov.TodayAppointments, func(ctx context.Context) (int, error) { return s.store.CountAppointmentsOn(ctx, today) })
	g.Go(func() error {
		total, err := s.store.RevenueTotal(gctx, r)
		ov.TotalRevenue = total.TotalAmount
		ov.TotalTransactions = total.TotalTransactions
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return ov, nil
}

func (s *Service) RecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	items, err := s.store.RecentTransactions(ctx, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Transaction{}
	}
	return items, nil
}
