package analytics

import (
	"context"
	"fmt"

	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	revenueSheet = "Revenue"
	XLSXMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportRevenue renders the revenue series as an XLSX workbook.
func (s *Service) ExportRevenue(ctx context.Context, r model.DateRange, groupBy string) ([]byte, error) {
	points, err := s.RevenueByPeriod(ctx, r, groupBy)
	if err != nil {
		return nil, err
	}
	return RevenueWorkbook(points)
}

func RevenueWorkbook(points []RevenuePoint) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", revenueSheet); err != nil {
		return nil, err
	}
	header := []any{"Period", "Total revenue", "Transactions", "Average amount"}
	if err := f.SetSheetRow(revenueSheet, "A1", &header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(revenueSheet, "A1", "D1", bold); err != nil {
		return nil, err
	}

	for i, p := range points {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{p.Period, toUnits(p.TotalRevenue), p.TransactionCount, toUnits(p.AverageAmount)}
		if err := f.SetSheetRow(revenueSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, err
	}
	if n := len(points) + 1; n > 1 {
		for _, col := range []string{"B", "D"} {
			if err := f.SetCellStyle(revenueSheet, col+"2", fmt.Sprintf("%s%d", col, n), money); err != nil {
				return nil, err
			}
		}
	}
	if err := f.SetColWidth(revenueSheet, "A", "D", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toUnits converts cents to a spreadsheet number. Totals are exact in cents
// before this conversion.
func toUnits(m model.Money) float64 {
	return float64(m) / 100
}
