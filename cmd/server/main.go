package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"agenda/internal/api"
	"agenda/internal/config"
	"agenda/internal/domain"
	"agenda/internal/events"
	"agenda/internal/export"
	"agenda/internal/logging"
	"agenda/internal/metrics"
	"agenda/internal/models"
	"agenda/internal/notify"
	"agenda/internal/repository"
	"agenda/internal/service"
	"agenda/internal/sheets"
	"agenda/internal/store"
	"agenda/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventBus := events.NewEventBus()

	st, err := store.Open(cfg.Store.Path, eventBus, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка открытия хранилища")
		return err
	}
	defer st.Close()

	if err := seedServices(ctx, st, logger); err != nil {
		return err
	}

	redisClient, clientRepo := initClientRepository(ctx, cfg, logger)
	if redisClient != nil {
		defer repository.Close(redisClient)
	}

	sheetsService := initGoogleSheets(ctx, cfg, logger)

	// Воркер зеркалирования записей в Google Sheets.
	var syncWorker domain.SyncWorker
	if sheetsService != nil {
		retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
		sheetsWorker := worker.NewSheetsWorker(st, sheetsService, redisClient, retryPolicy, log.New(os.Stdout, "[sheets-worker] ", log.LstdFlags))
		go sheetsWorker.Start(ctx)
		syncWorker = sheetsWorker
	}

	// Бизнес-сервисы.
	bookingService := service.NewBookingService(st, clientRepo, eventBus, syncWorker, cfg.Booking.MaxAdvanceDays, logger)
	bookingService.SetRateLimit(cfg.Booking.RateLimitBookings, time.Duration(cfg.Booking.RateLimitWindow)*time.Second)

	deps := api.Deps{
		Bookings: bookingService,
		Catalog:  service.NewCatalogService(st, logger),
		Schedule: service.NewScheduleService(st, logger),
		Profile:  service.NewProfileService(st, logger),
		Stats:    service.NewStatsService(st, logger),
		Exporter: export.NewExporter(cfg.Exports.Path, logger),
		WhatsApp: notify.NewWhatsAppBuilder(cfg.Booking.CountryCode),
	}

	if err := startTelegram(ctx, cfg, st, eventBus, logger); err != nil {
		return err
	}

	if cfg.Backup.Enabled {
		backupService := store.NewBackupService(cfg.Store.Path, cfg.Backup, logger)
		go backupService.Start(ctx)
	}

	startMonitoring(cfg, logger)

	apiServer := api.NewHTTPServer(cfg.API, deps, logger)
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error().Err(err).Msg("API server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("API shutdown error")
	}

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := baseLogger.With().Str("component", "server-main").Logger()

	return cfg, &logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
		return err
	}
	if cfg.Exports.Path != "" {
		if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
			logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
			return err
		}
	}
	return nil
}

// seedServices наполняет пустой каталог из services.yaml. Каталог,
// который уже ведётся через админку, не трогаем.
func seedServices(ctx context.Context, st *store.Store, logger *zerolog.Logger) error {
	servicesPath := os.Getenv("SERVICES_PATH")
	if servicesPath == "" {
		servicesPath = "configs/services.yaml"
	}

	data, err := os.ReadFile(servicesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		logger.Error().Err(err).Msgf("Ошибка чтения %s", servicesPath)
		return err
	}

	var seed struct {
		Services []models.Service `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		logger.Error().Err(err).Msg("Ошибка парсинга services.yaml")
		return err
	}
	if err := config.ValidateServices(seed.Services); err != nil {
		logger.Error().Err(err).Msg("Services validation failed")
		return err
	}

	var existing []models.Service
	if err := st.Load(ctx, models.KeyServices, &existing); err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	logger.Info().Int("count", len(seed.Services)).Msg("Seeding service catalog")
	return st.SaveServices(ctx, seed.Services)
}

func initClientRepository(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, domain.ClientStateRepository) {
	fallback := repository.NewMemoryClientRepository()
	if !cfg.Redis.Enabled || cfg.Redis.Address == "" {
		return nil, fallback
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable")
	}

	primary := repository.NewRedisClientRepository(redisClient)
	return redisClient, repository.NewFailoverClientRepository(primary, fallback, logger)
}

func initGoogleSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *sheets.SheetsService {
	if cfg.Google.GoogleCredentialsFile == "" || cfg.Google.AppointmentsSpreadSheetID == "" {
		logger.Info().Msg("Google Sheets sync disabled")
		return nil
	}

	sheetsSvc, err := sheets.NewSheetsService(cfg.Google.GoogleCredentialsFile, cfg.Google.AppointmentsSpreadSheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize Google Sheets service")
		return nil
	}

	if err := sheetsSvc.TestConnection(ctx); err != nil {
		logger.Error().Err(err).Msg("Google Sheets connection test failed")
		return nil
	}

	logger.Info().Msg("Google Sheets service initialized successfully")
	return sheetsSvc
}

func startTelegram(ctx context.Context, cfg *config.Config, st *store.Store, bus *events.EventBus, logger *zerolog.Logger) error {
	if !cfg.Telegram.Enabled {
		return nil
	}

	botAPI, err := notify.NewTelegramBot(cfg.Telegram)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}

	notifier := notify.NewTelegramNotifier(botAPI, cfg.Telegram.AdminChatID, logger)
	notifier.SubscribeTo(bus)

	reminders := notify.NewReminderService(st, notifier, cfg.Booking.ReminderTime, logger)
	reminders.Start(ctx)

	logger.Info().Msg("Telegram notifications enabled")
	return nil
}

func startMonitoring(cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort)
		logger.Info().Str("addr", addr).Msg("Prometheus metrics listening")
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
}
