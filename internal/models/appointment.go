package models

import "time"

// Status — статус записи. Закрытый набор значений, везде разбирается
// исчерпывающим switch.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid сообщает, известен ли статус.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// BlocksSlot — занимает ли запись с этим статусом слот. Пендинг
// резервирует слот до решения администратора.
func (s Status) BlocksSlot() bool {
	switch s {
	case StatusPending, StatusConfirmed:
		return true
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

// Terminal — финальный ли статус (переходы из него запрещены).
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled:
		return true
	case StatusPending, StatusConfirmed:
		return false
	}
	return false
}

// Appointment — запись клиента на услугу. Одна запись занимает ровно
// одну пару (дата, время).
type Appointment struct {
	ID                 string     `json:"id"`
	ClientName         string     `json:"client_name"`
	ClientPhone        string     `json:"client_phone"`
	ServiceID          string     `json:"service_id"`
	Date               Date       `json:"date"`
	Time               string     `json:"time"`
	Status             Status     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
}
