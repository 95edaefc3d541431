package notify

import (
	"context"
	"fmt"
	"time"

	"agenda/internal/models"
	"agenda/internal/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// ReminderService pushes a daily digest of tomorrow's confirmed
// appointments into the admin chat.
type ReminderService struct {
	store        *store.Store
	notifier     *TelegramNotifier
	reminderTime string
	logger       *zerolog.Logger
}

func NewReminderService(st *store.Store, notifier *TelegramNotifier, reminderTime string, logger *zerolog.Logger) *ReminderService {
	return &ReminderService{
		store:        st,
		notifier:     notifier,
		reminderTime: reminderTime,
		logger:       logger,
	}
}

// Start schedules the daily reminder loop.
func (r *ReminderService) Start(ctx context.Context) {
	if r == nil || r.notifier == nil || r.notifier.sender == nil {
		return
	}

	go func() {
		// Parse reminder hour from config (default to 9 if invalid)
		hour := models.ReminderHour
		if r.reminderTime != "" {
			var m int
			_, err := fmt.Sscanf(r.reminderTime, "%d:%d", &hour, &m)
			if err != nil {
				r.logger.Error().Err(err).Str("reminder_time", r.reminderTime).Msg("Invalid reminder time format")
				return
			}
		}

		// First wait until the next reminder hour local time, then tick every 24h.
		wait := timeUntilNextHour(hour)
		timer := time.NewTimer(wait)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				r.sendTomorrowReminders(ctx)
				timer.Reset(24 * time.Hour)
			}
		}
	}()
}

func (r *ReminderService) sendTomorrowReminders(ctx context.Context) {
	snap, err := r.store.LoadSnapshot(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("reminder: load snapshot error")
		return
	}

	tomorrow := models.Today().AddDays(1)
	for _, apt := range snap.Appointments {
		if apt.Status != models.StatusConfirmed || !apt.Date.Equal(tomorrow.Time) {
			continue
		}

		msgText := formatReminderMessage(&apt, snap.ServiceByID(apt.ServiceID))
		msg := tgbotapi.NewMessage(r.notifier.chatID, msgText)
		if _, err := r.notifier.sender.Send(msg); err != nil {
			r.logger.Error().Err(err).Str("appointment_id", apt.ID).Msg("reminder: send error")
		}
	}
}

func formatReminderMessage(apt *models.Appointment, service *models.Service) string {
	return fmt.Sprintf("Lembrete: amanhã às %s — %s (%s), serviço: %s",
		apt.Time, apt.ClientName, apt.ClientPhone, serviceName(service))
}

func timeUntilNextHour(hour int) time.Duration {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
