// Package export renders landlord reports as spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/models"
	"github.com/xuri/excelize/v2"
)

const RentRollSheet = "Rent Roll"

var rentRollHeaders = []string{
	"Property", "Unit", "Tenant", "Status", "Start Date", "End Date",
	"Monthly Rent", "Deposit", "Deposit Ref", "Notice (days)", "Tenancy Type", "Renewal",
}

var rentRollWidths = []float64{40, 12, 24, 12, 12, 12, 14, 12, 18, 14, 14, 18}

// RentRoll writes one row per lease followed by a total of active monthly rent.
// Leases are expected to carry Unit.Property and Tenant.
func RentRoll(leases []models.TenancyAgreement) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RentRollSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}

	for i, header := range rentRollHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(RentRollSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(RentRollSheet, col, col, rentRollWidths[i]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(rentRollHeaders), 1)
	if err := f.SetCellStyle(RentRollSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	var activeRent float64
	for i, lease := range leases {
		row := i + 2
		values := []interface{}{
			propertyAddress(lease),
			unitLabel(lease),
			tenantName(lease),
			lease.Status,
			formatDate(lease.StartDate),
			formatDate(lease.EndDate),
			lease.MonthlyRent,
			lease.DepositAmount,
			lease.DepositProtectionRef,
			lease.NoticePeriodDays,
			lease.TenancyType,
			lease.RenewalStatus,
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(RentRollSheet, start, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
		if lease.IsActive() {
			activeRent += lease.MonthlyRent
		}
	}

	totalRow := len(leases) + 3
	labelCell, _ := excelize.CoordinatesToCellName(6, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(7, totalRow)
	if err := f.SetCellValue(RentRollSheet, labelCell, "Active rent"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(RentRollSheet, totalCell, math.Round(activeRent*100)/100); err != nil {
		return nil, err
	}

	if err := f.SetCellStyle(RentRollSheet, "G2", fmt.Sprintf("H%d", totalRow), moneyStyle); err != nil {
		return nil, fmt.Errorf("failed to set money style: %w", err)
	}

	if err := f.SetPanes(RentRollSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func FileName(now time.Time) string {
	return "rent-roll-" + now.Format("2006-01-02") + ".xlsx"
}

func propertyAddress(l models.TenancyAgreement) string {
	if l.Unit == nil || l.Unit.Property == nil {
		return ""
	}
	return l.Unit.Property.FullAddress()
}

func unitLabel(l models.TenancyAgreement) string {
	if l.Unit == nil {
		return ""
	}
	return l.Unit.Label()
}

func tenantName(l models.TenancyAgreement) string {
	if l.Tenant == nil {
		return ""
	}
	return l.Tenant.FullName()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
