package services

import (
	"bytes"
	"fmt"
	"strconv"

	"asha_connect_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const exportDateFormat = "2006-01-02 15:04"

// GenerateDashboardWorkbook builds an Excel workbook with one sheet per
// submission category, newest entries first.
func GenerateDashboardWorkbook(dbConn *gorm.DB) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	writeHeader := func(sheet string, headers []string) {
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	writeRow := func(sheet string, row int, values []interface{}) {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	// --- Contacts ---
	f.SetSheetName("Sheet1", "Contacts")
	writeHeader("Contacts", []string{"ID", "Name", "Email", "Phone", "Message", "Status", "Date"})
	var contacts []models.Contact
	if err := dbConn.Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	for i, c := range contacts {
		writeRow("Contacts", i+2, []interface{}{
			c.ID, c.Name, c.Email, c.Phone, c.Message, c.Status,
			c.CreatedAt.Format(exportDateFormat),
		})
	}

	// --- Help Requests ---
	if _, err := f.NewSheet("Help Requests"); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	writeHeader("Help Requests", []string{"ID", "Name", "Phone", "Emergency", "Help Types", "Status", "Date"})
	var helpRequests []models.HelpRequest
	if err := dbConn.Order("created_at DESC").Find(&helpRequests).Error; err != nil {
		return nil, fmt.Errorf("failed to load help requests: %w", err)
	}
	for i, h := range helpRequests {
		writeRow("Help Requests", i+2, []interface{}{
			h.ID, h.FullName, h.Phone, h.Emergency, h.HelpTypes, h.Status,
			h.CreatedAt.Format(exportDateFormat),
		})
	}

	// --- Applicants ---
	if _, err := f.NewSheet("Applicants"); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	writeHeader("Applicants", []string{"ID", "Name", "Phone", "Email", "State", "Status", "Date"})
	var applicants []models.Applicant
	if err := dbConn.Order("created_at DESC").Find(&applicants).Error; err != nil {
		return nil, fmt.Errorf("failed to load applicants: %w", err)
	}
	for i, a := range applicants {
		writeRow("Applicants", i+2, []interface{}{
			a.ID, a.FullName, a.Phone, a.Email, a.State, a.Status,
			a.CreatedAt.Format(exportDateFormat),
		})
	}

	// --- Donations ---
	if _, err := f.NewSheet("Donations"); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	writeHeader("Donations", []string{"ID", "Name", "Mobile", "Email", "Amount", "Status", "Date"})
	var donations []models.Donation
	if err := dbConn.Order("created_at DESC").Find(&donations).Error; err != nil {
		return nil, fmt.Errorf("failed to load donations: %w", err)
	}
	total := 0.0
	for i, d := range donations {
		writeRow("Donations", i+2, []interface{}{
			d.ID, d.FullName, d.Mobile, d.Email, d.Amount, d.Status,
			d.CreatedAt.Format(exportDateFormat),
		})
		total += d.Amount
	}
	// Total row below the last donation
	totalRow := strconv.Itoa(len(donations) + 3)
	f.SetCellValue("Donations", "D"+totalRow, "Total")
	f.SetCellValue("Donations", "E"+totalRow, total)
	f.SetCellStyle("Donations", "D"+totalRow, "E"+totalRow, headerStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
