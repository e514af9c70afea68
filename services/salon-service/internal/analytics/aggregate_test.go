package analytics

import (
	"testing"
	"time"

	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestGroupRevenue_Empty(t *testing.T) {
	assert.Empty(t, GroupRevenue(nil, GroupDay, time.UTC))
	assert.NotNil(t, GroupRevenue(nil, GroupMonth, time.UTC))
}

func TestGroupRevenue_ByDay(t *testing.T) {
	rows := []RevenueRow{
		{Amount: 1000, At: at("2026-03-02T10:00:00Z")},
		{Amount: 2001, At: at("2026-03-01T09:00:00Z")},
		{Amount: 1000, At: at("2026-03-01T18:00:00Z")},
	}
	got := GroupRevenue(rows, GroupDay, time.UTC)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-03-01", got[0].Period)
	assert.Equal(t, model.Money(3001), got[0].TotalRevenue)
	assert.Equal(t, 2, got[0].TransactionCount)
	assert.Equal(t, model.Money(1501), got[0].AverageAmount, "half-up to the cent")
	assert.Equal(t, "2026-03-02", got[1].Period)
}

func TestGroupRevenue_WeekAndMonthKeys(t *testing.T) {
	rows := []RevenueRow{
		{Amount: 500, At: at("2026-01-01T12:00:00Z")},
		{Amount: 500, At: at("2025-12-29T12:00:00Z")},
	}
	weeks := GroupRevenue(rows, GroupWeek, time.UTC)
	require.Len(t, weeks, 1)
	assert.Equal(t, "2026-W01", weeks[0].Period)

	months := GroupRevenue(rows, GroupMonth, time.UTC)
	require.Len(t, months, 2)
	assert.Equal(t, "2025-12", months[0].Period)
	assert.Equal(t, "2026-01", months[1].Period)
}

func TestGroupRevenue_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+6", 6*3600)
	rows := []RevenueRow{{Amount: 100, At: at("2026-03-01T20:00:00Z")}}
	got := GroupRevenue(rows, GroupDay, loc)
	require.Len(t, got, 1)
	assert.Equal(t, "2026-03-02", got[0].Period)
}

func TestParseGroupBy(t *testing.T) {
	g, ok := ParseGroupBy("")
	assert.True(t, ok)
	assert.Equal(t, GroupDay, g)
	g, ok = ParseGroupBy("Month")
	assert.True(t, ok)
	assert.Equal(t, GroupMonth, g)
	_, ok = ParseGroupBy("year")
	assert.False(t, ok)
}

func TestRankServices(t *testing.T) {
	catalog := map[string]model.Service{
		"a": {ID: "a", Name: "Blowout", Price: 3000},
		"b": {ID: "b", Name: "Color", Price: 8000},
		"c": {ID: "c", Name: "Cut", Price: 4500},
	}
	rows := []RevenueRow{
		{ServiceID: "a", Amount: 3000},
		{ServiceID: "b", Amount: 8000},
		{ServiceID: "c", Amount: 4500},
		{ServiceID: "c", Amount: 4500},
		{ServiceID: "gone", Amount: 9999},
		{ServiceID: "gone", Amount: 9999},
		{ServiceID: "gone", Amount: 9999},
	}
	got := RankServices(rows, catalog, 0)
	require.Len(t, got, 3, "deleted services are dropped")
	assert.Equal(t, "c", got[0].ServiceID)
	assert.Equal(t, 2, got[0].TotalBookings)
	assert.Equal(t, "b", got[1].ServiceID, "ties broken by revenue")
	assert.Equal(t, "a", got[2].ServiceID)

	assert.Len(t, RankServices(rows, catalog, 1), 1)
	assert.Empty(t, RankServices(nil, catalog, 5))
}

func TestCountStatuses_SumsToTotal(t *testing.T) {
	got := CountStatuses(map[model.AppointmentStatus]int{
		model.StatusPending:   3,
		model.StatusCompleted: 2,
		"archived":            7,
	})
	require.Len(t, got.Statuses, 4)
	sum := 0
	for _, sc := range got.Statuses {
		sum += sc.Count
	}
	assert.Equal(t, got.Total, sum)
	assert.Equal(t, 5, got.Total)
	assert.Equal(t, StatusCount{Status: model.StatusCancelled, Count: 0}, got.Statuses[3])

	empty := CountStatuses(nil)
	assert.Equal(t, 0, empty.Total)
	assert.Len(t, empty.Statuses, 4)
}

func TestGroupSignups(t *testing.T) {
	got := GroupSignups([]time.Time{
		at("2026-02-10T00:00:00Z"),
		at("2026-01-05T00:00:00Z"),
		at("2026-02-20T00:00:00Z"),
	}, time.UTC)
	require.Len(t, got, 2)
	assert.Equal(t, GrowthPoint{Period: "2026-01", Year: 2026, Month: 1, NewCustomers: 1}, got[0])
	assert.Equal(t, 2, got[1].NewCustomers)
	assert.Empty(t, GroupSignups(nil, time.UTC))
}
