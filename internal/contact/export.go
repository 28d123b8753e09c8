package contact

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Contacts"

var exportHeaders = []string{
	"Name", "Job Title", "Company", "Phone", "Email", "Website",
	"Location", "Source", "Scanned",
}

// ExportXLSX renders all contacts into a spreadsheet, newest scan first
func (s *Service) ExportXLSX() ([]byte, error) {
	contacts, err := s.ListContacts()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("locating header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for row, contact := range contacts {
		values := []any{
			contact.Name,
			contact.JobTitle,
			contact.Company,
			contact.Phone,
			contact.Email,
			contact.Website,
			contact.Location,
			string(contact.Source),
			contact.CreatedAt.Format("2006-01-02"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("locating cell: %w", err)
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("writing contact row: %w", err)
			}
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "G", 24)
	_ = f.SetColWidth(exportSheet, "H", "I", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("rendering workbook: %w", err)
	}
	return buf.Bytes(), nil
}
