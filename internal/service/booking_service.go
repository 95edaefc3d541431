package service

import (
	"context"
	"fmt"
	"time"

	"agenda/internal/availability"
	"agenda/internal/domain"
	"agenda/internal/events"
	"agenda/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingService ведет жизненный цикл записи: прием заявки, подтверждение,
// отклонение, отметка о выполнении. Все проверки идут через резолвер
// доступности по свежему снимку данных.
type BookingService struct {
	store          domain.Store
	clients        domain.ClientStateRepository
	eventBus       domain.EventPublisher
	sheetsWorker   domain.SyncWorker
	maxBookingDays int
	rateLimit      int
	rateWindow     time.Duration
	logger         *zerolog.Logger
}

func NewBookingService(store domain.Store, clients domain.ClientStateRepository, eventBus domain.EventPublisher, sheetsWorker domain.SyncWorker, maxBookingDays int, logger *zerolog.Logger) *BookingService {
	if maxBookingDays <= 0 {
		maxBookingDays = models.MaxBookingAdvanceDays
	}
	return &BookingService{
		store:          store,
		clients:        clients,
		eventBus:       eventBus,
		sheetsWorker:   sheetsWorker,
		maxBookingDays: maxBookingDays,
		rateLimit:      models.RateLimitBookings,
		rateWindow:     models.RateLimitWindow * time.Second,
		logger:         logger,
	}
}

// SetRateLimit переопределяет лимит заявок из конфигурации.
func (s *BookingService) SetRateLimit(limit int, window time.Duration) {
	if limit > 0 {
		s.rateLimit = limit
	}
	if window > 0 {
		s.rateWindow = window
	}
}

// CreateRequest — заявка клиента на запись.
type CreateRequest struct {
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`
	ServiceID   string `json:"serviceId"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// Create принимает заявку: троттлинг по телефону, валидация через
// резолвер, сохранение со статусом pending, событие и задача на
// синхронизацию.
func (s *BookingService) Create(ctx context.Context, req CreateRequest) (*models.Appointment, error) {
	if s.clients != nil && req.ClientPhone != "" {
		allowed, err := s.clients.CheckRateLimit(ctx, req.ClientPhone, s.rateLimit, s.rateWindow)
		if err != nil {
			// Троттлинг не должен ронять прием заявок.
			s.logger.Error().Err(err).Msg("rate limit check error")
		} else if !allowed {
			return nil, ErrRateLimited
		}
	}

	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	candidate := models.Appointment{
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ServiceID:   req.ServiceID,
		Time:        req.Time,
	}
	if req.Date != "" {
		date, err := models.ParseDate(req.Date)
		if err != nil {
			return nil, availability.ErrMissingFields
		}
		candidate.Date = date
	}

	today := models.Today()
	if err := availability.ValidateBooking(candidate, snap.Template, snap.Appointments, today); err != nil {
		return nil, err
	}

	if candidate.Date.After(today.AddDays(s.maxBookingDays).Time) {
		return nil, ErrDateTooFar
	}

	candidate.ID = uuid.New().String()
	candidate.Status = models.StatusPending
	candidate.CreatedAt = time.Now()

	snap.Appointments = append(snap.Appointments, candidate)
	if err := s.store.SaveAppointments(ctx, snap.Appointments); err != nil {
		return nil, fmt.Errorf("failed to save appointments: %w", err)
	}

	s.publishEvent(events.EventAppointmentCreated, &candidate, "")
	s.enqueueSync(ctx, "upsert", &candidate)

	return &candidate, nil
}

// Confirm переводит pending -> confirmed.
func (s *BookingService) Confirm(ctx context.Context, id string) (*models.Appointment, error) {
	return s.transition(ctx, id, models.StatusConfirmed, "", events.EventAppointmentConfirmed)
}

// Reject переводит pending -> cancelled с указанием причины.
func (s *BookingService) Reject(ctx context.Context, id, reason string) (*models.Appointment, error) {
	return s.transition(ctx, id, models.StatusCancelled, reason, events.EventAppointmentRejected)
}

// Complete переводит confirmed -> completed.
func (s *BookingService) Complete(ctx context.Context, id string) (*models.Appointment, error) {
	return s.transition(ctx, id, models.StatusCompleted, "", events.EventAppointmentCompleted)
}

func (s *BookingService) transition(ctx context.Context, id string, to models.Status, reason, eventType string) (*models.Appointment, error) {
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	idx := -1
	for i := range snap.Appointments {
		if snap.Appointments[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}

	apt := &snap.Appointments[idx]
	if !transitionAllowed(apt.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, apt.Status, to)
	}

	now := time.Now()
	apt.Status = to
	switch to {
	case models.StatusConfirmed:
		apt.ConfirmedAt = &now
	case models.StatusCompleted:
		apt.CompletedAt = &now
	case models.StatusCancelled:
		apt.CancelledAt = &now
		apt.CancellationReason = reason
	case models.StatusPending:
		// Заявки не возвращаются в pending.
	}

	if err := s.store.SaveAppointments(ctx, snap.Appointments); err != nil {
		return nil, fmt.Errorf("failed to save appointments: %w", err)
	}

	s.publishEvent(eventType, apt, reason)
	s.enqueueSync(ctx, "update_status", apt)

	result := *apt
	return &result, nil
}

// transitionAllowed кодирует жизненный цикл записи:
// pending -> confirmed|cancelled, confirmed -> completed,
// cancelled и completed — терминальные.
func transitionAllowed(from, to models.Status) bool {
	switch from {
	case models.StatusPending:
		return to == models.StatusConfirmed || to == models.StatusCancelled
	case models.StatusConfirmed:
		return to == models.StatusCompleted
	case models.StatusCompleted, models.StatusCancelled:
		return false
	default:
		return false
	}
}

// Get возвращает запись по ID.
func (s *BookingService) Get(ctx context.Context, id string) (*models.Appointment, error) {
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	for i := range snap.Appointments {
		if snap.Appointments[i].ID == id {
			apt := snap.Appointments[i]
			return &apt, nil
		}
	}
	return nil, ErrNotFound
}

// List возвращает записи с необязательными фильтрами по статусу и дате.
func (s *BookingService) List(ctx context.Context, status models.Status, date *models.Date) ([]models.Appointment, error) {
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	result := make([]models.Appointment, 0, len(snap.Appointments))
	for _, apt := range snap.Appointments {
		if status != "" && apt.Status != status {
			continue
		}
		if date != nil && !apt.Date.Equal(date.Time) {
			continue
		}
		result = append(result, apt)
	}
	return result, nil
}

// SlotsForDate возвращает свободные слоты на дату.
func (s *BookingService) SlotsForDate(ctx context.Context, date models.Date) ([]models.TimeSlot, error) {
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return availability.SlotsForDate(date, snap.Template, snap.Appointments), nil
}

// NextDates возвращает ближайшие даты со свободными слотами. Отчет
// кэшируется на короткое время, ключ — пара горизонт/лимит.
func (s *BookingService) NextDates(ctx context.Context, horizonDays, limit int) ([]models.Date, error) {
	cacheKey := fmt.Sprintf("%d:%d", horizonDays, limit)
	if s.clients != nil {
		if dates, ok, err := s.clients.GetCachedDates(ctx, cacheKey); err == nil && ok {
			return dates, nil
		}
	}

	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	dates := availability.NextAvailableDates(snap.Template, snap.Appointments, models.Today(), horizonDays, limit)

	if s.clients != nil {
		if err := s.clients.SetCachedDates(ctx, cacheKey, dates, models.NextDatesCacheTTL*time.Second); err != nil {
			s.logger.Error().Err(err).Msg("cache next dates error")
		}
	}
	return dates, nil
}

// ValidationReport — сводка для админской проверки расписания.
type ValidationReport struct {
	NextDates []models.Date               `json:"nextDates"`
	RealDates []models.Date               `json:"realDates"`
	Conflicts []availability.ConflictSlot `json:"conflicts"`
	Capacity  availability.WeekCapacity   `json:"capacity"`
}

// Validation строит отчет: превью ближайших дат, полный отчет по
// реальным датам, занятые слоты шаблона и недельная загрузка.
func (s *BookingService) Validation(ctx context.Context) (*ValidationReport, error) {
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	today := models.Today()
	return &ValidationReport{
		NextDates: availability.NextAvailableDates(snap.Template, snap.Appointments, today, models.NextDatesHorizonDays, models.NextDatesLimit),
		RealDates: availability.NextAvailableDates(snap.Template, snap.Appointments, today, models.RealDatesHorizonDays, models.RealDatesLimit),
		Conflicts: availability.ConflictSlots(snap.Template, snap.Appointments),
		Capacity:  availability.WeeklyCapacity(snap.Template, snap.Appointments),
	}, nil
}

func (s *BookingService) publishEvent(eventType string, apt *models.Appointment, reason string) {
	if s.eventBus == nil {
		return
	}

	payload := events.AppointmentEventPayload{
		AppointmentID: apt.ID,
		ClientName:    apt.ClientName,
		ClientPhone:   apt.ClientPhone,
		ServiceID:     apt.ServiceID,
		Date:          apt.Date,
		Time:          apt.Time,
		Status:        apt.Status,
		Reason:        reason,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("appointment_id", apt.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueSync(ctx context.Context, taskType string, apt *models.Appointment) {
	if s.sheetsWorker == nil {
		return
	}

	if err := s.sheetsWorker.EnqueueTask(ctx, taskType, apt); err != nil {
		s.logger.Error().Err(err).Str("appointment_id", apt.ID).Str("task", taskType).Msg("sheets enqueue error")
	}
}
