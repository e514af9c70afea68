package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
)

type GroupBy string

const (
	GroupDay   GroupBy = "day"
	GroupWeek  GroupBy = "week"
	GroupMonth GroupBy = "month"
)

func ParseGroupBy(raw string) (GroupBy, bool) {
	switch g := GroupBy(strings.ToLower(strings.TrimSpace(raw))); g {
	case "":
		return GroupDay, true
	case GroupDay, GroupWeek, GroupMonth:
		return g, true
	}
	return "", false
}

// PeriodKey renders t as the bucket label for g: 2006-01-02, 2006-W01 (ISO
// week) or 2006-01.
func PeriodKey(t time.Time, g GroupBy) string {
	switch g {
	case GroupWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GroupMonth:
		return t.Format("2006-01")
	default:
		return t.Format(model.DateLayout)
	}
}

// RevenueRow is one transaction as seen by the aggregations.
type RevenueRow struct {
	ServiceID string
	Amount    model.Money
	At        time.Time
}

type RevenuePoint struct {
	Period           string      `json:"period"`
	TotalRevenue     model.Money `json:"totalRevenue"`
	TransactionCount int         `json:"transactionCount"`
	AverageAmount    model.Money `json:"averageAmount"`
}

// GroupRevenue buckets rows by period in loc and returns the buckets in
// ascending order.
func GroupRevenue(rows []RevenueRow, by GroupBy, loc *time.Location) []RevenuePoint {
	if loc == nil {
		loc = time.UTC
	}
	buckets := map[string]*RevenuePoint{}
	for _, r := range rows {
		key := PeriodKey(r.At.In(loc), by)
		p, ok := buckets[key]
		if !ok {
			p = &RevenuePoint{Period: key}
			buckets[key] = p
		}
		p.TotalRevenue += r.Amount
		p.TransactionCount++
	}
	out := make([]RevenuePoint, 0, len(buckets))
	for _, p := range buckets {
		p.AverageAmount = p.TotalRevenue.DivRound(int64(p.TransactionCount))
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

type PopularService struct {
	ServiceID     string      `json:"serviceId"`
	ServiceName   string      `json:"serviceName"`
	ServicePrice  model.Money `json:"servicePrice"`
	TotalBookings int         `json:"totalBookings"`
	TotalRevenue  model.Money `json:"totalRevenue"`
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// RankServices tallies rows per service and returns the top limit entries by
// booking count, then revenue, then name. Rows for services missing from
// catalog are dropped.
func RankServices(rows []RevenueRow, catalog map[string]model.Service, limit int) []PopularService {
	tallies := map[string]*PopularService{}
	for _, r := range rows {
		svc, ok := catalog[r.ServiceID]
		if !ok {
			continue
		}
		p, ok := tallies[r.ServiceID]
		if !ok {
			p = &PopularService{ServiceID: svc.ID, ServiceName: svc.Name, ServicePrice: svc.Price}
			tallies[r.ServiceID] = p
		}
		p.TotalBookings++
		p.TotalRevenue += r.Amount
	}
	out := make([]PopularService, 0, len(tallies))
	for _, p := range tallies {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TotalBookings != b.TotalBookings {
			return a.TotalBookings > b.TotalBookings
		}
		if a.TotalRevenue != b.TotalRevenue {
			return a.TotalRevenue > b.TotalRevenue
		}
		if a.ServiceName != b.ServiceName {
			return a.ServiceName < b.ServiceName
		}
		return a.ServiceID < b.ServiceID
	})
	if n := clampLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out
}

type StatusCount struct {
	Status model.AppointmentStatus `json:"status"`
	Count  int                     `json:"count"`
}

type StatusBreakdown struct {
	Statuses []StatusCount `json:"statuses"`
	Total    int           `json:"total"`
}

// CountStatuses reports every known status, zeros included. Unknown statuses
// are ignored so the per-status counts always sum to Total.
func CountStatuses(counts map[model.AppointmentStatus]int) StatusBreakdown {
	out := StatusBreakdown{Statuses: make([]StatusCount, 0, len(model.AppointmentStatuses))}
	for _, st := range model.AppointmentStatuses {
		n := counts[st]
		out.Statuses = append(out.Statuses, StatusCount{Status: st, Count: n})
		out.Total += n
	}
	return out
}

type GrowthPoint struct {
	Period       string `json:"period"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	NewCustomers int    `json:"newCustomers"`
}

// GroupSignups counts signups per calendar month in loc, ascending.
func GroupSignups(signups []time.Time, loc *time.Location) []GrowthPoint {
	if loc == nil {
		loc = time.UTC
	}
	buckets := map[string]*GrowthPoint{}
	for _, t := range signups {
		local := t.In(loc)
		key := local.Format("2006-01")
		p, ok := buckets[key]
		if !ok {
			p = &GrowthPoint{Period: key, Year: local.Year(), Month: int(local.Month())}
			buckets[key] = p
		}
		p.NewCustomers++
	}
	out := make([]GrowthPoint, 0, len(buckets))
	for _, p := range buckets {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}
