package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"agenda/internal/config"
	"agenda/internal/export"
	"agenda/internal/metrics"
	"agenda/internal/notify"
	"agenda/internal/service"

	"github.com/rs/zerolog"
)

// HTTPServer несёт оба интерфейса системы: публичную витрину записи
// и админскую панель за API-ключом.
type HTTPServer struct {
	cfg      config.APIConfig
	bookings *service.BookingService
	catalog  *service.CatalogService
	schedule *service.ScheduleService
	profile  *service.ProfileService
	stats    *service.StatsService
	exporter *export.Exporter
	whatsapp *notify.WhatsAppBuilder
	server   *http.Server
	auth     *HTTPAuth
	logger   *zerolog.Logger
}

type Deps struct {
	Bookings *service.BookingService
	Catalog  *service.CatalogService
	Schedule *service.ScheduleService
	Profile  *service.ProfileService
	Stats    *service.StatsService
	Exporter *export.Exporter
	WhatsApp *notify.WhatsAppBuilder
}

func NewHTTPServer(cfg config.APIConfig, deps Deps, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		bookings: deps.Bookings,
		catalog:  deps.Catalog,
		schedule: deps.Schedule,
		profile:  deps.Profile,
		stats:    deps.Stats,
		exporter: deps.Exporter,
		whatsapp: deps.WhatsApp,
		logger:   logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux := http.NewServeMux()

	// Публичная витрина.
	mux.HandleFunc("/api/v1/services", srv.handleServices)
	mux.HandleFunc("/api/v1/profile", srv.handleProfile)
	mux.HandleFunc("/api/v1/availability", srv.handleAvailability)
	mux.HandleFunc("/api/v1/availability/next", srv.handleNextDates)
	mux.HandleFunc("/api/v1/appointments", srv.handleCreateAppointment)

	// Админка за API-ключом.
	admin := http.NewServeMux()
	admin.HandleFunc("/api/v1/admin/appointments", srv.handleListAppointments)
	admin.HandleFunc("/api/v1/admin/appointments/", srv.handleAppointmentAction)
	admin.HandleFunc("/api/v1/admin/schedule", srv.handleSchedule)
	admin.HandleFunc("/api/v1/admin/schedule/slots", srv.handleRemoveSlot)
	admin.HandleFunc("/api/v1/admin/services", srv.handleAdminServices)
	admin.HandleFunc("/api/v1/admin/services/", srv.handleAdminServiceByID)
	admin.HandleFunc("/api/v1/admin/profile", srv.handleAdminProfile)
	admin.HandleFunc("/api/v1/admin/stats", srv.handleStats)
	admin.HandleFunc("/api/v1/admin/validation", srv.handleValidation)
	admin.HandleFunc("/api/v1/admin/export", srv.handleExport)
	mux.Handle("/api/v1/admin/", srv.auth.Wrap(admin))

	handler := srv.loggingMiddleware(mux)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler отдает корневой обработчик, в тестах сервер не слушает порт.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
