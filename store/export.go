package store

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX renders the processing history as an XLSX workbook.
func (s *Store) ExportXLSX(ctx context.Context) ([]byte, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Documents"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Processed At", "Filename", "Stored Path", "Summary Source", "Summary", "Extracted Text"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, rec := range recs {
		values := []string{rec.CreatedAt, rec.Filename, rec.StoredPath, rec.SummarySource, rec.Summary, rec.OriginalText}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
