package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"agenda/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Agendamentos"

// Exporter выгружает книгу записей в xlsx-файл.
type Exporter struct {
	path   string
	logger *zerolog.Logger
}

func NewExporter(path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{path: path, logger: logger}
}

// StatusText — подписи статусов в выгрузке, как их видит администратор.
func StatusText(status models.Status) string {
	switch status {
	case models.StatusPending:
		return "Pendente"
	case models.StatusConfirmed:
		return "Confirmado"
	case models.StatusCompleted:
		return "Realizado"
	case models.StatusCancelled:
		return "Cancelado"
	default:
		return string(status)
	}
}

func serviceName(services []models.Service, id string) string {
	for i := range services {
		if services[i].ID == id {
			return services[i].Name
		}
	}
	// Висячая ссылка после удаления услуги.
	return "N/A"
}

// AppointmentsToExcel создает xlsx со всеми записями.
func (e *Exporter) AppointmentsToExcel(appointments []models.Appointment, services []models.Service) (string, error) {
	// Создаем папку для экспорта, если не существует
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"ID", "Cliente", "Telefone", "Serviço", "Data", "Horário",
		"Status", "Criado em", "Motivo do cancelamento",
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, apt := range appointments {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), apt.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), apt.ClientName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), apt.ClientPhone)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), serviceName(services, apt.ServiceID))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), apt.Date.Format("02/01/2006"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), apt.Time)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), StatusText(apt.Status))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), apt.CreatedAt.Format("02/01/2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), apt.CancellationReason)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "B", 25)
	_ = f.SetColWidth(sheetName, "C", "C", 18)
	_ = f.SetColWidth(sheetName, "D", "D", 25)
	_ = f.SetColWidth(sheetName, "E", "F", 12)
	_ = f.SetColWidth(sheetName, "G", "G", 14)
	_ = f.SetColWidth(sheetName, "H", "H", 18)
	_ = f.SetColWidth(sheetName, "I", "I", 30)

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("agendamentos_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}
