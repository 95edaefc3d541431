package notify

import (
	"encoding/json"
	"fmt"

	"agenda/internal/config"
	"agenda/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramSender abstracts the bot API for tests.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier mirrors the booking flow into an admin chat.
type TelegramNotifier struct {
	sender TelegramSender
	chatID int64
	logger *zerolog.Logger
}

// NewTelegramBot создает бота для канала администратора.
func NewTelegramBot(cfg config.TelegramConfig) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	api.Debug = cfg.Debug
	return api, nil
}

func NewTelegramNotifier(sender TelegramSender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatID: chatID, logger: logger}
}

// SubscribeTo wires the notifier into the event bus.
func (n *TelegramNotifier) SubscribeTo(bus *events.EventBus) {
	if n == nil || bus == nil {
		return
	}
	bus.Subscribe(events.EventAppointmentCreated, n.handleEvent)
	bus.Subscribe(events.EventAppointmentConfirmed, n.handleEvent)
	bus.Subscribe(events.EventAppointmentRejected, n.handleEvent)
	bus.Subscribe(events.EventAppointmentCompleted, n.handleEvent)
}

func (n *TelegramNotifier) handleEvent(event *events.Event) error {
	var payload events.AppointmentEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Str("event_type", event.Type).Msg("notify: bad event payload")
		return err
	}

	text := formatAdminMessage(event.Type, &payload)
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.sender.Send(msg); err != nil {
		n.logger.Error().Err(err).Str("event_type", event.Type).Msg("notify: telegram send error")
		return err
	}
	return nil
}

func formatAdminMessage(eventType string, p *events.AppointmentEventPayload) string {
	header := ""
	switch eventType {
	case events.EventAppointmentCreated:
		header = "🆕 Novo agendamento (pendente)"
	case events.EventAppointmentConfirmed:
		header = "✅ Agendamento confirmado"
	case events.EventAppointmentRejected:
		header = "❌ Agendamento rejeitado"
	case events.EventAppointmentCompleted:
		header = "🏁 Serviço realizado"
	default:
		header = "ℹ️ Agendamento atualizado"
	}

	text := fmt.Sprintf("%s\n\nCliente: %s\nTelefone: %s\nData: %s às %s",
		header, p.ClientName, p.ClientPhone, displayDate(p.Date), p.Time)
	if p.Reason != "" {
		text += "\nMotivo: " + p.Reason
	}
	return text
}
