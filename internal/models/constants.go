package models

// Ключи блобов в key-value хранилище. Клиентская и админская части
// работают с одними и теми же четырьмя ключами.
const (
	KeySchedule     = "schedule"
	KeyAppointments = "appointments"
	KeyServices     = "services"
	KeyBusinessInfo = "businessInfo"
)

const (
	// NextDatesHorizonDays горизонт краткого превью ближайших дат
	NextDatesHorizonDays = 14
	// NextDatesLimit сколько дат показывает превью
	NextDatesLimit = 5

	// RealDatesHorizonDays горизонт полного отчета по реальным датам
	RealDatesHorizonDays = 30
	// RealDatesLimit сколько дат попадает в полный отчет
	RealDatesLimit = 10

	// RevenueReportDays период отчета по выручке на услугу
	RevenueReportDays = 30

	// ReminderHour час, в который отправляются напоминания
	ReminderHour = 9

	// MaxBookingAdvanceDays насколько далеко вперёд открыта запись
	MaxBookingAdvanceDays = 60

	// DefaultCountryCode код страны по умолчанию для WhatsApp-ссылок
	DefaultCountryCode = "55"

	// RateLimitBookings количество заявок в окне с одного телефона
	RateLimitBookings = 5

	// RateLimitWindow окно ограничения частоты заявок в секундах
	RateLimitWindow = 60

	// NextDatesCacheTTL время жизни кэша отчета по датам в секундах
	NextDatesCacheTTL = 60

	// WorkerQueueSize размер очереди воркера
	WorkerQueueSize = 1000
)
