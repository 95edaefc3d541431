package notify

import (
	"io"
	"testing"
	"time"

	"agenda/internal/events"
	"agenda/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func TestTelegramNotifier(t *testing.T) {
	sender := &fakeSender{}
	logger := zerolog.New(io.Discard)
	notifier := NewTelegramNotifier(sender, 42, &logger)

	bus := events.NewEventBus()
	notifier.SubscribeTo(bus)

	payload := events.AppointmentEventPayload{
		AppointmentID: "apt-1",
		ClientName:    "Maria",
		ClientPhone:   "11988887777",
		ServiceID:     "svc-1",
		Date:          models.NewDate(2025, time.June, 2),
		Time:          "09:00",
		Status:        models.StatusPending,
	}

	t.Run("CreatedEvent", func(t *testing.T) {
		err := bus.PublishJSON(events.EventAppointmentCreated, payload)
		require.NoError(t, err)
		require.Len(t, sender.sent, 1)

		msg := sender.sent[0]
		assert.Equal(t, int64(42), msg.ChatID)
		assert.Contains(t, msg.Text, "Novo agendamento")
		assert.Contains(t, msg.Text, "Maria")
		assert.Contains(t, msg.Text, "02/06/2025")
	})

	t.Run("RejectedEventCarriesReason", func(t *testing.T) {
		rejected := payload
		rejected.Status = models.StatusCancelled
		rejected.Reason = "horário indisponível"

		err := bus.PublishJSON(events.EventAppointmentRejected, rejected)
		require.NoError(t, err)
		require.Len(t, sender.sent, 2)

		msg := sender.sent[1]
		assert.Contains(t, msg.Text, "rejeitado")
		assert.Contains(t, msg.Text, "Motivo: horário indisponível")
	})

	t.Run("BadPayload", func(t *testing.T) {
		bus.Publish(&events.Event{
			Type:    events.EventAppointmentConfirmed,
			Payload: []byte("not json"),
		})
		assert.Len(t, sender.sent, 2)
	})
}

func TestTimeUntilNextHour(t *testing.T) {
	wait := timeUntilNextHour(9)
	assert.Greater(t, wait, time.Duration(0))
	assert.LessOrEqual(t, wait, 24*time.Hour)
}
