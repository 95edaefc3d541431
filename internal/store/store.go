// Package store реализует key-value хранилище блобов на SQLite.
// Клиентская витрина и админ-панель читают и пишут одни и те же четыре
// ключа; каждая запись публикует событие изменения, по которому вторая
// сторона перечитывает свой снимок.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"agenda/internal/events"
	"agenda/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type Store struct {
	db     *sql.DB
	bus    *events.EventBus
	logger *zerolog.Logger
}

// Open открывает (или создает) файл хранилища и таблицы.
func Open(path string, bus *events.EventBus, logger *zerolog.Logger) (*Store, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("store initialized")
	return &Store{db: db, bus: bus, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Блобы, ключ — логическое имя коллекции
		`CREATE TABLE IF NOT EXISTS kv_blobs (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL,
            updated_at DATETIME NOT NULL
        )`,
		// Очередь синхронизации с Google Sheets
		`CREATE TABLE IF NOT EXISTS sync_queue (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            task_type TEXT NOT NULL,
            appointment_id TEXT NOT NULL,
            payload TEXT,
            status TEXT NOT NULL DEFAULT 'pending',
            retry_count INTEGER NOT NULL DEFAULT 0,
            last_error TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            processed_at DATETIME,
            next_retry_at DATETIME
        )`,
		`CREATE INDEX IF NOT EXISTS idx_sync_queue_status ON sync_queue(status)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_queue_next_retry ON sync_queue(next_retry_at)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load читает блоб по ключу и декодирует в dst. Отсутствующий ключ и
// битый JSON — не ошибка: dst остаётся нулевым значением ("нет данных").
func (s *Store) Load(ctx context.Context, key string, dst any) error {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_blobs WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load key %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("corrupt blob, falling back to empty")
		return nil
	}
	return nil
}

// Save кодирует value в JSON и перезаписывает блоб (last write wins).
// После записи публикует событие изменения ключа.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal key %q: %w", key, err)
	}

	query := `INSERT INTO kv_blobs (key, value, updated_at) VALUES (?, ?, ?)
              ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, string(raw), time.Now()); err != nil {
		return fmt.Errorf("failed to save key %q: %w", key, err)
	}

	if s.bus != nil {
		if err := s.bus.PublishJSON(events.EventStoreChanged, events.StoreChangedPayload{Key: key}); err != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("publish store change error")
		}
	}
	return nil
}

// Snapshot — полный снимок данных для резолвера. Приложение владеет
// одним снимком и явно перечитывает его, резолвер глобального состояния
// не видит.
type Snapshot struct {
	Template     models.WeekTemplate
	Appointments []models.Appointment
	Services     []models.Service
	Profile      models.BusinessProfile
}

// ServiceByID ищет услугу в снимке; nil, если ссылка битая.
func (s *Snapshot) ServiceByID(id string) *models.Service {
	for i := range s.Services {
		if s.Services[i].ID == id {
			return &s.Services[i]
		}
	}
	return nil
}

// LoadSnapshot перечитывает все четыре коллекции.
func (s *Store) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Template: models.WeekTemplate{}}

	if err := s.Load(ctx, models.KeySchedule, &snap.Template); err != nil {
		return nil, err
	}
	if err := s.Load(ctx, models.KeyAppointments, &snap.Appointments); err != nil {
		return nil, err
	}
	if err := s.Load(ctx, models.KeyServices, &snap.Services); err != nil {
		return nil, err
	}
	if err := s.Load(ctx, models.KeyBusinessInfo, &snap.Profile); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) SaveAppointments(ctx context.Context, appointments []models.Appointment) error {
	return s.Save(ctx, models.KeyAppointments, appointments)
}

func (s *Store) SaveServices(ctx context.Context, services []models.Service) error {
	return s.Save(ctx, models.KeyServices, services)
}

func (s *Store) SaveTemplate(ctx context.Context, template models.WeekTemplate) error {
	return s.Save(ctx, models.KeySchedule, template)
}

func (s *Store) SaveProfile(ctx context.Context, profile models.BusinessProfile) error {
	return s.Save(ctx, models.KeyBusinessInfo, profile)
}
