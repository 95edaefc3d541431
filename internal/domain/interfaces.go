package domain

import (
	"context"
	"time"

	"agenda/internal/models"
	"agenda/internal/store"
)

// Store — персистентное key-value хранилище снимков данных.
type Store interface {
	LoadSnapshot(ctx context.Context) (*store.Snapshot, error)
	Load(ctx context.Context, key string, dst any) error
	Save(ctx context.Context, key string, value any) error
	SaveAppointments(ctx context.Context, appointments []models.Appointment) error
	SaveServices(ctx context.Context, services []models.Service) error
	SaveTemplate(ctx context.Context, template models.WeekTemplate) error
	SaveProfile(ctx context.Context, profile models.BusinessProfile) error
	CreateSyncTask(ctx context.Context, task *models.SyncTask) error
}

// ClientStateRepository — быстрый слой для троттлинга заявок и кэша
// отчетов по датам. Redis с откатом в память.
type ClientStateRepository interface {
	CheckRateLimit(ctx context.Context, phone string, limit int, window time.Duration) (bool, error)
	GetCachedDates(ctx context.Context, key string) ([]models.Date, bool, error)
	SetCachedDates(ctx context.Context, key string, dates []models.Date, ttl time.Duration) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SyncWorker ставит задачи зеркалирования записей в Sheets.
type SyncWorker interface {
	EnqueueTask(ctx context.Context, taskType string, appointment *models.Appointment) error
}

// SheetsWriter применяет изменения записей к таблице.
type SheetsWriter interface {
	UpsertAppointment(ctx context.Context, appointment *models.Appointment, services []models.Service) error
	UpdateAppointmentStatus(ctx context.Context, appointmentID string, status models.Status) error
	ReplaceAppointmentsSheet(ctx context.Context, appointments []models.Appointment, services []models.Service) error
}
