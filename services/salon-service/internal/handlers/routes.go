package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/palor/libs/httpx"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
)

const apiPrefix = "/api/v1"

type Deps struct {
	Appointments AppointmentService
	Transactions TransactionService
	Reviews      ReviewService
	Catalog      CatalogService
	Accounts     AccountService
	Analytics    AnalyticsService

	Verifier httpx.TokenVerifier
	Logger   *slog.Logger
	// Throttle guards unauthenticated writes (login, register, reviews).
	// Nil disables it.
	Throttle httpx.Middleware
}

// Register mounts the REST API on mux.
func Register(mux *http.ServeMux, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appts := NewAppointmentHandler(d.Appointments, logger)
	txns := NewTransactionHandler(d.Transactions, logger)
	revs := NewReviewHandler(d.Reviews, logger)
	svcs := NewServiceHandler(d.Catalog, logger)
	users := NewUserHandler(d.Accounts, logger)
	dash := NewDashboardHandler(d.Analytics, logger)

	signedIn := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h, httpx.RequireAuth(d.Verifier))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h, httpx.RequireAuth(d.Verifier), httpx.RequireRole(string(model.RoleAdmin)))
	}
	optional := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h, httpx.OptionalAuth(d.Verifier))
	}
	throttled := func(h http.Handler) http.Handler {
		if d.Throttle == nil {
			return h
		}
		return d.Throttle(h)
	}
	handle := func(pattern string, h http.Handler) {
		method, path, _ := strings.Cut(pattern, " ")
		mux.Handle(method+" "+apiPrefix+path, h)
	}

	handle("POST /appointments/create", throttled(signedIn(appts.Create)))
	handle("DELETE /appointments/cancel/{id}", signedIn(appts.Cancel))
	handle("DELETE /appointments/delete/{id}", admin(appts.Delete))
	handle("GET /appointments/getMyAppointments", signedIn(appts.ListMine))
	handle("GET /appointments/getAllAppointments", admin(appts.ListAll))
	handle("GET /appointments/staff/{staffId}", http.HandlerFunc(appts.ListByStaff))
	handle("PATCH /appointments/status/{id}", admin(appts.UpdateStatus))

	handle("POST /transactions/create", admin(txns.Create))
	handle("GET /transactions", admin(txns.List))
	handle("GET /transactions/total", admin(txns.Total))
	handle("GET /transactions/{id}", admin(txns.Get))
	handle("PUT /transactions/{id}", admin(txns.Update))
	handle("DELETE /transactions/{id}", admin(txns.Delete))
	handle("GET /transactions/user/{userId}", admin(txns.ListByCustomer))
	handle("GET /transactions/service/{id}", admin(txns.ListByService))
	handle("GET /transactions/payment/{method}", admin(txns.ListByPaymentMethod))

	handle("GET /dashboard/overview", admin(dash.Overview))
	handle("GET /dashboard/revenue-analytics", admin(dash.Revenue))
	handle("GET /dashboard/revenue-analytics/export", admin(dash.ExportRevenue))
	handle("GET /dashboard/popular-services", admin(dash.PopularServices))
	handle("GET /dashboard/appointment-stats", admin(dash.AppointmentStats))
	handle("GET /dashboard/recent-transactions", admin(dash.RecentTransactions))
	handle("GET /dashboard/customer-growth", admin(dash.CustomerGrowth))

	handle("POST /reviews/create", throttled(optional(revs.Create)))
	handle("GET /reviews/public", http.HandlerFunc(revs.ListPublic))
	handle("GET /reviews/stats", http.HandlerFunc(revs.Stats))
	handle("GET /reviews/admin/all", admin(revs.ListAll))
	handle("PATCH /reviews/admin/{id}/status", admin(revs.SetStatus))
	handle("DELETE /reviews/admin/{id}", admin(revs.Delete))

	handle("GET /services", optional(svcs.List))
	handle("GET /services/{id}", http.HandlerFunc(svcs.Get))
	handle("POST /services", admin(svcs.Create))
	handle("PUT /services/{id}", admin(svcs.Update))
	handle("PATCH /services/{id}/toggle", admin(svcs.Toggle))
	handle("DELETE /services/{id}", admin(svcs.Delete))

	handle("POST /users/register", throttled(http.HandlerFunc(users.Register)))
	handle("POST /users/login", throttled(http.HandlerFunc(users.Login)))
	handle("GET /users/me", signedIn(users.Me))
	handle("GET /users/staff", http.HandlerFunc(users.ListStaff))
	handle("POST /users/create", admin(users.Create))
}
