package notify

import (
	"fmt"
	"net/url"
	"strings"

	"agenda/internal/models"
)

// displayDate renders a date the way clients expect to read it (dd/mm/yyyy).
func displayDate(d models.Date) string {
	return d.Format("02/01/2006")
}

// NormalizePhone reduces a free-form phone string to the digits-only
// international form used in wa.me links: non-digits are stripped, a
// single leading zero is dropped and the country code is prepended when
// missing.
func NormalizePhone(phone, countryCode string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	digits = strings.TrimPrefix(digits, "0")
	if countryCode != "" && !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}
	return digits
}

// DeepLink builds a https://wa.me/<phone>?text=<message> URL.
func DeepLink(phone, countryCode, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s",
		NormalizePhone(phone, countryCode), url.QueryEscape(message))
}

// WhatsAppBuilder produces the outgoing messages for the booking flow.
// It only builds deep links; nothing is sent from the server.
type WhatsAppBuilder struct {
	countryCode string
}

func NewWhatsAppBuilder(countryCode string) *WhatsAppBuilder {
	return &WhatsAppBuilder{countryCode: countryCode}
}

func serviceName(service *models.Service) string {
	if service == nil {
		return "N/A"
	}
	return service.Name
}

func servicePrice(service *models.Service) string {
	if service == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", service.Price)
}

// NewBookingMessage notifies the business about a fresh pending booking.
func (w *WhatsAppBuilder) NewBookingMessage(apt *models.Appointment, service *models.Service) string {
	return fmt.Sprintf(`🔔 *NOVA RESERVA RECEBIDA!*

*Cliente:* %s
*WhatsApp:* %s
*Serviço:* %s
*Data:* %s
*Horário:* %s
*Valor:* R$ %s

⚠️ *ATENÇÃO:* Esta reserva está aguardando sua confirmação no painel administrativo.

Acesse o painel para confirmar ou rejeitar este agendamento.`,
		apt.ClientName, apt.ClientPhone, serviceName(service),
		displayDate(apt.Date), apt.Time, servicePrice(service))
}

// ConfirmationMessage tells the client their booking was confirmed.
func (w *WhatsAppBuilder) ConfirmationMessage(apt *models.Appointment, service *models.Service) string {
	return fmt.Sprintf(`✅ *AGENDAMENTO CONFIRMADO!*

Olá %s!

Seu agendamento foi *CONFIRMADO*:
*Serviço:* %s
*Data:* %s
*Horário:* %s
*Valor:* R$ %s

Aguardamos você no horário marcado!
Qualquer dúvida, entre em contato conosco.`,
		apt.ClientName, serviceName(service),
		displayDate(apt.Date), apt.Time, servicePrice(service))
}

// RejectionMessage tells the client their booking could not be kept.
func (w *WhatsAppBuilder) RejectionMessage(apt *models.Appointment, service *models.Service, reason string) string {
	return fmt.Sprintf(`❌ *AGENDAMENTO NÃO PODE SER REALIZADO*

Olá %s!

Infelizmente seu agendamento não pode ser realizado:
*Serviço:* %s
*Data:* %s
*Horário:* %s

*Motivo:* %s

Por favor, entre em contato conosco para reagendar em outro horário disponível.`,
		apt.ClientName, serviceName(service),
		displayDate(apt.Date), apt.Time, reason)
}

// CompletionMessage thanks the client after the service was delivered.
func (w *WhatsAppBuilder) CompletionMessage(apt *models.Appointment, service *models.Service) string {
	return fmt.Sprintf(`✅ *SERVIÇO REALIZADO!*

Olá %s!

Seu serviço foi *REALIZADO* com sucesso:
*Serviço:* %s
*Data:* %s
*Horário:* %s
*Valor:* R$ %s

Obrigado por escolher nossos serviços!
Esperamos vê-lo(a) novamente em breve.`,
		apt.ClientName, serviceName(service),
		displayDate(apt.Date), apt.Time, servicePrice(service))
}

// ContactMessage asks the client to confirm the slot is still wanted.
func (w *WhatsAppBuilder) ContactMessage(apt *models.Appointment, service *models.Service) string {
	return fmt.Sprintf(`Olá %s!

Gostaríamos de confirmar seu agendamento:
*Serviço:* %s
*Data:* %s
*Horário:* %s
*Valor:* R$ %s

Este horário está disponível para você?
Por favor, confirme respondendo a esta mensagem.`,
		apt.ClientName, serviceName(service),
		displayDate(apt.Date), apt.Time, servicePrice(service))
}

// ClientLink builds a deep link addressed to the client's phone.
func (w *WhatsAppBuilder) ClientLink(apt *models.Appointment, message string) string {
	return DeepLink(apt.ClientPhone, w.countryCode, message)
}

// BusinessLink builds a deep link addressed to the business phone.
// Returns an empty string when no business phone is configured.
func (w *WhatsAppBuilder) BusinessLink(profile *models.BusinessProfile, message string) string {
	if profile == nil || profile.Phone == "" {
		return ""
	}
	return DeepLink(profile.Phone, w.countryCode, message)
}
