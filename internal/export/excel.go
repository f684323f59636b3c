package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hotelmgr/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

var headers = []string{"Booking ID", "Guest", "Phone", "Room", "Type", "Check-in", "Check-out", "Nights", "Bill", "Status", "Created"}

// ExcelExporter writes booking reports as xlsx files into a directory.
type ExcelExporter struct {
	dir    string
	logger *zerolog.Logger
	now    func() time.Time
}

func NewExcelExporter(dir string, logger *zerolog.Logger) *ExcelExporter {
	return &ExcelExporter{dir: dir, logger: logger, now: time.Now}
}

// ExportBookings создает xlsx отчет и возвращает путь к файлу
func (e *ExcelExporter) ExportBookings(ctx context.Context, bookings []*models.Booking) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	e.writeHeaders(f)

	var total float64
	for i, b := range bookings {
		info := b.Info()
		row := i + 2
		values := []interface{}{
			info.ID,
			info.CustomerName,
			info.CustomerPhone,
			info.RoomNumber,
			info.RoomType,
			info.CheckIn,
			info.CheckOut,
			info.Nights,
			info.Bill,
			string(info.Status),
			info.CreatedAt.Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return "", fmt.Errorf("error writing row %d: %w", row, err)
		}
		total += info.Bill
	}

	// Итоговая строка
	totalRow := len(bookings) + 2
	labelCell, _ := excelize.CoordinatesToCellName(len(headers)-3, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(len(headers)-2, totalRow)
	_ = f.SetCellValue(sheetName, labelCell, "Total")
	_ = f.SetCellValue(sheetName, totalCell, total)

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "K", 16)
	_ = f.DeleteSheet("Sheet1")

	// suffix keeps exports made within the same second apart
	fileName := fmt.Sprintf("bookings_%s_%s.xlsx", e.now().Format("20060102_150405"), uuid.NewString()[:8])
	filePath := filepath.Join(e.dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}

func (e *ExcelExporter) writeHeaders(f *excelize.File) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, style)
	}
}
