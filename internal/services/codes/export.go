// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package codes

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/models"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []string{"Code", "URL", "Created At"}

// Export is a rendered download.
type Export struct {
	Body        *bytes.Buffer
	Filename    string
	ContentType string
}

func exportRows(codes []models.Code) [][]string {
	rows := make([][]string, 0, len(codes))
	for _, c := range Unassigned(codes) {
		rows = append(rows, []string{c.Code, c.Slug(), c.CreatedAt.UTC().Format("1/2/2006")})
	}
	return rows
}

// ExportFilename is nfc-codes-YYYY-MM-DD or review-codes-YYYY-MM-DD.
func ExportFilename(t models.CodeType, day time.Time, format string) string {
	prefix := "nfc"
	if t == models.CodeTypeReview {
		prefix = "review"
	}
	return fmt.Sprintf("%s-codes-%s.%s", prefix, day.Format("2006-01-02"), format)
}

// WriteCSV writes the unassigned codes as CSV.
func WriteCSV(w io.Writer, codes []models.Code) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(exportRows(codes)); err != nil {
		return err
	}
	return cw.Error()
}

// WriteXLSX writes the unassigned codes as a single-sheet workbook.
func WriteXLSX(w io.Writer, codes []models.Code) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Codes"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", bold); err != nil {
		return err
	}
	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 18)
	_ = f.SetColWidth(sheet, "C", "C", 14)

	for i, row := range exportRows(codes) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// Export renders the unassigned codes of type t in format.
func (s *Service) Export(ctx context.Context, t models.CodeType, format string) (*Export, error) {
	codes, err := s.List(ctx, t)
	if err != nil {
		return nil, err
	}

	out := &Export{Body: new(bytes.Buffer)}
	switch format {
	case "", FormatCSV:
		out.ContentType = ContentTypeCSV
		out.Filename = ExportFilename(t, s.now(), FormatCSV)
		err = WriteCSV(out.Body, codes)
	case FormatXLSX:
		out.ContentType = ContentTypeXLSX
		out.Filename = ExportFilename(t, s.now(), FormatXLSX)
		err = WriteXLSX(out.Body, codes)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}
	return out, nil
}
