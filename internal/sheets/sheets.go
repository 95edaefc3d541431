package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"agenda/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const appointmentsRange = "Agendamentos"

// ErrRowNotFound — в таблице нет строки с таким ID записи.
var ErrRowNotFound = errors.New("appointment row not found")

// SheetsService зеркалирует книгу записей в Google-таблицу.
// Строки ищутся по колонке A (ID записи) с кэшем индексов строк.
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
	rowCache      map[string]int
	cacheMu       sync.RWMutex
}

func NewSheetsService(credentialsFile, spreadsheetID string) (*SheetsService, error) {
	ctx := context.Background()

	// Читаем файл учетных данных сервисного аккаунта
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	service := &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
		rowCache:      make(map[string]int),
	}

	// Warm up cache in background
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		service.WarmUpCache(ctx)
	}()

	// Periodic cache refresh every 1 hour
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			service.WarmUpCache(ctx)
			cancel()
		}
	}()

	return service, nil
}

// TestConnection проверяет доступ к таблице.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, appointmentsRange+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// GetServiceAccountEmail возвращает email сервисного аккаунта — его
// нужно добавить в таблицу с правом записи.
func (s *SheetsService) GetServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}
	return creds.ClientEmail, nil
}

func serviceName(services []models.Service, id string) string {
	for i := range services {
		if services[i].ID == id {
			return services[i].Name
		}
	}
	return "N/A"
}

func appointmentRowValues(apt *models.Appointment, services []models.Service) []interface{} {
	return []interface{}{
		apt.ID,
		apt.ClientName,
		apt.ClientPhone,
		serviceName(services, apt.ServiceID),
		apt.Date.String(),
		apt.Time,
		string(apt.Status),
		apt.CreatedAt.Format("2006-01-02 15:04:05"),
		time.Now().Format("2006-01-02 15:04:05"),
	}
}

// WarmUpCache populates the row index cache by reading the entire ID column.
func (s *SheetsService) WarmUpCache(ctx context.Context) error {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, appointmentsRange+"!A:A").Context(ctx).Do()
	if err != nil {
		return err
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache = make(map[string]int)

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if id, ok := row[0].(string); ok && id != "" {
			s.rowCache[id] = i + 1
		}
	}
	return nil
}

// AppendAppointment дописывает новую строку в конец листа.
func (s *SheetsService) AppendAppointment(ctx context.Context, apt *models.Appointment, services []models.Service) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{appointmentRowValues(apt, services)},
	}

	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, appointmentsRange+"!A:A", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// UpsertAppointment updates an existing row or appends a new one if not found.
func (s *SheetsService) UpsertAppointment(ctx context.Context, apt *models.Appointment, services []models.Service) error {
	if apt == nil {
		return fmt.Errorf("appointment is nil")
	}

	rowIdx, err := s.FindAppointmentRow(ctx, apt.ID)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return s.AppendAppointment(ctx, apt, services)
		}
		return err
	}

	rangeData := fmt.Sprintf("%s!A%d:I%d", appointmentsRange, rowIdx, rowIdx)
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{appointmentRowValues(apt, services)},
	}

	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, rangeData, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// UpdateAppointmentStatus updates status (and the updated-at column) for a row.
func (s *SheetsService) UpdateAppointmentStatus(ctx context.Context, appointmentID string, status models.Status) error {
	rowIdx, err := s.FindAppointmentRow(ctx, appointmentID)
	if err != nil {
		return err
	}

	now := time.Now().Format("2006-01-02 15:04:05")

	statusRange := fmt.Sprintf("%s!G%d:G%d", appointmentsRange, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, statusRange, &sheets.ValueRange{
		Values: [][]interface{}{{string(status)}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return err
	}

	updatedRange := fmt.Sprintf("%s!I%d:I%d", appointmentsRange, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, updatedRange, &sheets.ValueRange{
		Values: [][]interface{}{{now}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// ReplaceAppointmentsSheet полностью перезаписывает лист текущим
// состоянием книги записей.
func (s *SheetsService) ReplaceAppointmentsSheet(ctx context.Context, appointments []models.Appointment, services []models.Service) error {
	var values [][]interface{}

	headers := []interface{}{"ID", "Cliente", "Telefone", "Serviço", "Data", "Horário", "Status", "Criado em", "Atualizado em"}
	values = append(values, headers)

	for i := range appointments {
		values = append(values, appointmentRowValues(&appointments[i], services))
	}

	rangeData := fmt.Sprintf("%s!A1:I%d", appointmentsRange, len(values))
	valueRange := &sheets.ValueRange{Values: values}

	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, rangeData, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err == nil {
		s.cacheMu.Lock()
		s.rowCache = make(map[string]int)
		for i := range appointments {
			s.rowCache[appointments[i].ID] = i + 2
		}
		s.cacheMu.Unlock()
	}
	return err
}

// FindAppointmentRow locates the 1-based row index for an ID in column A.
func (s *SheetsService) FindAppointmentRow(ctx context.Context, appointmentID string) (int, error) {
	if appointmentID == "" {
		return 0, fmt.Errorf("appointment id is required")
	}

	if row, ok := s.getCachedRow(appointmentID); ok {
		return row, nil
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, appointmentsRange+"!A:A").Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if v, ok := row[0].(string); ok && v == appointmentID {
			rowIdx := i + 1 // Values are zero-based; sheet rows are 1-based
			s.setCachedRow(appointmentID, rowIdx)
			return rowIdx, nil
		}
	}

	return 0, ErrRowNotFound
}

func (s *SheetsService) getCachedRow(id string) (int, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	row, ok := s.rowCache[id]
	return row, ok
}

func (s *SheetsService) setCachedRow(id string, row int) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache[id] = row
}
