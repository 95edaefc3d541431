package config

import (
	"os"
	"path/filepath"
	"testing"

	"agenda/internal/models"
)

func TestLoadConfig(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: "agenda"
store:
  path: "data/agenda.db"
api:
  port: 9000
booking:
  country_code: "55"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Store.Path != "data/agenda.db" {
		t.Errorf("expected store path data/agenda.db, got %s", cfg.Store.Path)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("expected api port 9000, got %d", cfg.API.Port)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("AGENDA_STORE_PATH", "env/agenda.db")

	yamlContent := "store:\n  path: \"${AGENDA_STORE_PATH}\"\n"
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Store.Path != "env/agenda.db" {
		t.Errorf("expected env-expanded store path, got %s", cfg.Store.Path)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Store: StoreConfig{Path: "x.db"}}
	cfg.applyDefaults()

	if cfg.API.Port != 8080 {
		t.Errorf("expected default api port 8080, got %d", cfg.API.Port)
	}
	if cfg.API.Auth.HeaderAPIKey != "x-api-key" {
		t.Errorf("expected default api key header, got %s", cfg.API.Auth.HeaderAPIKey)
	}
	if cfg.Booking.MaxAdvanceDays != models.MaxBookingAdvanceDays {
		t.Errorf("expected default max advance days, got %d", cfg.Booking.MaxAdvanceDays)
	}
	if cfg.Booking.CountryCode != models.DefaultCountryCode {
		t.Errorf("expected default country code, got %s", cfg.Booking.CountryCode)
	}
	if cfg.Booking.ReminderTime != "09:00" {
		t.Errorf("expected default reminder time 09:00, got %s", cfg.Booking.ReminderTime)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     Config{Store: StoreConfig{Path: "agenda.db"}},
			wantErr: false,
		},
		{
			name:    "missing store path",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "telegram enabled without token",
			cfg: Config{
				Store:    StoreConfig{Path: "agenda.db"},
				Telegram: TelegramConfig{Enabled: true, AdminChatID: 1},
			},
			wantErr: true,
		},
		{
			name: "telegram enabled without chat id",
			cfg: Config{
				Store:    StoreConfig{Path: "agenda.db"},
				Telegram: TelegramConfig{Enabled: true, BotToken: "token"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateServices(t *testing.T) {
	valid := []models.Service{
		{ID: "svc-1", Name: "Corte", Price: 50, DurationMinutes: 30},
		{ID: "svc-2", Name: "Barba", Price: 30, DurationMinutes: 20},
	}
	if err := ValidateServices(valid); err != nil {
		t.Errorf("expected valid services, got %v", err)
	}

	dup := []models.Service{
		{ID: "svc-1", Name: "Corte", Price: 50, DurationMinutes: 30},
		{ID: "svc-1", Name: "Barba", Price: 30, DurationMinutes: 20},
	}
	if err := ValidateServices(dup); err == nil {
		t.Error("expected duplicate ID error")
	}

	negative := []models.Service{{ID: "svc-1", Name: "Corte", Price: -1, DurationMinutes: 30}}
	if err := ValidateServices(negative); err == nil {
		t.Error("expected negative price error")
	}

	zeroDuration := []models.Service{{ID: "svc-1", Name: "Corte", Price: 10}}
	if err := ValidateServices(zeroDuration); err == nil {
		t.Error("expected non-positive duration error")
	}
}
