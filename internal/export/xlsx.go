// Package export renders crop ledgers as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/ledger"
)

const (
	EventsSheet  = "Events"
	SummarySheet = "Summary"
	dateLayout   = "2006-01-02"
)

var eventHeader = []interface{}{"Date", "Kind", "Title", "Cost", "Revenue", "Quantity", "Unit", "Worker", "Client", "Client ID"}

// WriteLedgerXLSX writes the crop's events and derived totals as an xlsx workbook.
func WriteLedgerXLSX(w io.Writer, cropID string, events []models.Event) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", EventsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeEvents(file, events); err != nil {
		return err
	}

	if _, err := file.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummary(file, cropID, events); err != nil {
		return err
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeEvents(file *excelize.File, events []models.Event) error {
	if err := setRow(file, EventsSheet, 1, eventHeader); err != nil {
		return err
	}
	for i, ev := range events {
		row := []interface{}{ev.Date.Format(dateLayout), string(ev.Kind), ev.Title, "", "", "", "", ev.Worker(), "", ""}
		if cost, ok := ev.Cost(); ok {
			row[3] = cost.InexactFloat64()
		}
		if revenue, ok := ev.Revenue(); ok {
			row[4] = revenue.InexactFloat64()
		}
		if qty, ok := ev.Quantity(); ok {
			row[5] = qty.Amount.InexactFloat64()
			row[6] = qty.Unit
		}
		row[8], row[9] = ev.Counterparty()

		if err := setRow(file, EventsSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(file *excelize.File, cropID string, events []models.Event) error {
	totals := ledger.Aggregate(events)
	recon := ledger.NewReconciliation(events)

	rows := [][]interface{}{
		{"Crop", cropID},
		{"Events", len(events)},
		{"Total cost", num(totals.TotalCost)},
		{"Total revenue", num(totals.TotalRevenue)},
		{"Profit", num(totals.Profit)},
		{"Harvested quantity", num(totals.TotalHarvestQuantity)},
		{"Sold quantity", num(totals.TotalSoldQuantity)},
		{"Pending receivables", num(recon.PendingReceivables())},
		{},
		{"Client ID", "Client", "Sold", "Paid", "Outstanding"},
	}
	for _, bal := range recon.Clients() {
		rows = append(rows, []interface{}{bal.ClientID, bal.Client, num(bal.Sold), num(bal.Paid), num(bal.Outstanding)})
	}
	if un := recon.Unattributed(); !un.Sold.IsZero() || !un.Paid.IsZero() {
		rows = append(rows, []interface{}{"", "Unattributed", num(un.Sold), num(un.Paid), num(un.Outstanding)})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := setRow(file, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(file *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("resolve cell for row %d: %w", rowNum, err)
	}
	if err := file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}

func num(v decimal.Decimal) float64 {
	return v.InexactFloat64()
}
