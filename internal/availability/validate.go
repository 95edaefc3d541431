package availability

import "agenda/internal/models"

// RejectReason — код отказа в создании записи. Это ожидаемые,
// исправимые пользователем ситуации: наружу уходят как есть,
// в журнал ошибок не попадают.
type RejectReason string

const (
	RejectMissingFields          RejectReason = "missing_fields"
	RejectPastDate               RejectReason = "past_date"
	RejectSlotNotInTemplate      RejectReason = "slot_not_in_template"
	RejectSlotAlreadyTaken       RejectReason = "slot_already_taken"
	RejectDuplicatePendingClient RejectReason = "duplicate_pending_for_client"
)

// Rejection — типизированный отказ валидации.
type Rejection struct {
	Reason  RejectReason
	Message string
}

func (r *Rejection) Error() string {
	return string(r.Reason) + ": " + r.Message
}

var (
	ErrMissingFields = &Rejection{RejectMissingFields,
		"client name, phone, service, date and time are required"}
	ErrPastDate = &Rejection{RejectPastDate,
		"appointments cannot be booked for past dates"}
	ErrSlotNotInTemplate = &Rejection{RejectSlotNotInTemplate,
		"this time is not offered on that weekday"}
	ErrSlotAlreadyTaken = &Rejection{RejectSlotAlreadyTaken,
		"this slot is already booked or pending confirmation"}
	ErrDuplicatePendingForClient = &Rejection{RejectDuplicatePendingClient,
		"client already has a pending appointment for this date"}
)

// ValidateBooking прогоняет кандидата через проверки в фиксированном
// порядке и возвращает первый отказ. Порядок важен для сообщений
// пользователю, а не для корректности. Сама функция ничего не меняет:
// добавление в список и сохранение — забота вызывающего.
func ValidateBooking(candidate models.Appointment, template models.WeekTemplate, appointments []models.Appointment, today models.Date) error {
	if candidate.ClientName == "" || candidate.ClientPhone == "" ||
		candidate.ServiceID == "" || candidate.Date.IsZero() || candidate.Time == "" {
		return ErrMissingFields
	}

	// Сравнение только по дню, время суток не учитывается.
	if candidate.Date.Before(today.Time) {
		return ErrPastDate
	}

	if !template.HasTime(candidate.Date.WeekdayName(), candidate.Time) {
		return ErrSlotNotInTemplate
	}

	for _, apt := range appointments {
		if apt.Date.Equal(candidate.Date.Time) && apt.Time == candidate.Time && apt.Status.BlocksSlot() {
			return ErrSlotAlreadyTaken
		}
	}

	// Одна неподтвержденная заявка на клиента на дату.
	for _, apt := range appointments {
		if apt.ClientPhone == candidate.ClientPhone &&
			apt.Date.Equal(candidate.Date.Time) &&
			apt.Status == models.StatusPending {
			return ErrDuplicatePendingForClient
		}
	}

	return nil
}
