// Package availability содержит чистые вычисления доступности: недельный
// шаблон + список записей -> свободные слоты и сводные отчеты. Пакет не
// делает I/O и не держит состояния, каждый вызов считает заново по
// переданному снимку данных.
package availability

import "agenda/internal/models"

// SlotsForDate возвращает свободные слоты на конкретную дату в порядке
// шаблона. Слот занят, если на эту дату и время есть запись со статусом
// pending или confirmed. Пустой шаблон или полностью занятый день дают
// пустой результат, это не ошибка.
func SlotsForDate(date models.Date, template models.WeekTemplate, appointments []models.Appointment) []models.TimeSlot {
	daySlots := template.SlotsFor(date.WeekdayName())
	if len(daySlots) == 0 {
		return nil
	}

	booked := bookedTimes(date, appointments)
	if len(booked) == 0 {
		return append([]models.TimeSlot(nil), daySlots...)
	}

	free := make([]models.TimeSlot, 0, len(daySlots))
	for _, slot := range daySlots {
		if !booked[slot.Time] {
			free = append(free, slot)
		}
	}
	return free
}

// bookedTimes собирает занятые времена на дату.
func bookedTimes(date models.Date, appointments []models.Appointment) map[string]bool {
	var booked map[string]bool
	for _, apt := range appointments {
		if !apt.Date.Equal(date.Time) || !apt.Status.BlocksSlot() {
			continue
		}
		if booked == nil {
			booked = make(map[string]bool)
		}
		booked[apt.Time] = true
	}
	return booked
}

// NextAvailableDates сканирует даты от today+1 до today+horizonDays
// включительно по возрастанию и собирает те, где есть хотя бы один
// свободный слот, но не больше limit. Порядок возрастает, поэтому
// остановка после limit совпадений не меняет результат.
func NextAvailableDates(template models.WeekTemplate, appointments []models.Appointment, today models.Date, horizonDays, limit int) []models.Date {
	var dates []models.Date
	for i := 1; i <= horizonDays; i++ {
		date := today.AddDays(i)
		if len(SlotsForDate(date, template, appointments)) == 0 {
			continue
		}
		dates = append(dates, date)
		if limit > 0 && len(dates) >= limit {
			break
		}
	}
	return dates
}

// WeekCapacity — сводка загрузки недельного шаблона.
type WeekCapacity struct {
	Booked int `json:"booked"`
	Total  int `json:"total"`
}

// Available возвращает остаток слотов; не уходит ниже нуля.
func (c WeekCapacity) Available() int {
	if c.Booked >= c.Total {
		return 0
	}
	return c.Total - c.Booked
}

// WeeklyCapacity считает ёмкость шаблона. Booked учитывает только
// подтвержденные записи: ёмкость отслеживает принятые обязательства,
// pending и completed сюда не входят.
func WeeklyCapacity(template models.WeekTemplate, appointments []models.Appointment) WeekCapacity {
	booked := 0
	for _, apt := range appointments {
		if apt.Status == models.StatusConfirmed {
			booked++
		}
	}
	return WeekCapacity{Booked: booked, Total: template.TotalSlots()}
}

// ConflictSlot — слот шаблона, на который когда-либо была запись.
type ConflictSlot struct {
	Weekday models.Weekday `json:"weekday"`
	Time    string         `json:"time"`
}

// ConflictSlots отмечает слоты шаблона, занятые записью любого статуса
// на какую-либо дату этого дня недели. Это отчет о пересечении шаблона
// с историей записей, а не детектор двойных броней: настоящие конфликты
// отсекает ValidateBooking ещё на входе.
func ConflictSlots(template models.WeekTemplate, appointments []models.Appointment) []ConflictSlot {
	timesByWeekday := make(map[models.Weekday]map[string]bool)
	for _, apt := range appointments {
		day := apt.Date.WeekdayName()
		if timesByWeekday[day] == nil {
			timesByWeekday[day] = make(map[string]bool)
		}
		timesByWeekday[day][apt.Time] = true
	}

	var conflicts []ConflictSlot
	for _, day := range models.AllWeekdays() {
		bookedTimes := timesByWeekday[day]
		if bookedTimes == nil {
			continue
		}
		for _, slot := range template.SlotsFor(day) {
			if bookedTimes[slot.Time] {
				conflicts = append(conflicts, ConflictSlot{Weekday: day, Time: slot.Time})
			}
		}
	}
	return conflicts
}
