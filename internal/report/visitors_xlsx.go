package report

import (
	"fmt"
	"io"
	"time"

	"github.com/ikkim/visitor-registration-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const (
	VisitorsSheet    = "Visitors"
	XLSXContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	registeredLayout = "2006-01-02 15:04:05"
)

// VisitorHeaders is the first row of every visitor export.
var VisitorHeaders = []string{
	"ID",
	"Identification Number",
	"Identification Type",
	"First Names",
	"Last Names",
	"Visitor Type",
	"Represented Company",
	"Registered At (UTC)",
}

// WriteVisitorsXLSX writes visitors, one per row after the header, as an xlsx workbook.
func WriteVisitorsXLSX(w io.Writer, visitors []model.Visitor) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), VisitorsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(VisitorHeaders))
	for i, h := range VisitorHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(VisitorsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, v := range visitors {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		company := ""
		if v.RepresentedCompany != nil {
			company = *v.RepresentedCompany
		}

		row := []interface{}{
			v.ID,
			v.IdentificationNumber,
			v.IdentificationType,
			v.FirstNames,
			v.LastNames,
			string(v.VisitorType),
			company,
			v.RegisteredAt.UTC().Format(registeredLayout),
		}
		if err := f.SetSheetRow(VisitorsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(VisitorsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// DefaultFileName names an export taken at t.
func DefaultFileName(t time.Time) string {
	return fmt.Sprintf("visitors-%s.xlsx", t.UTC().Format("20060102-150405"))
}
