package models

// Weekday — ключ дня недели в шаблоне расписания.
type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

// weekdayByIndex повторяет нумерацию time.Weekday: 0=Sunday..6=Saturday.
var weekdayByIndex = [7]Weekday{
	Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday,
}

// AllWeekdays — фиксированный порядок обхода недели в отчетах.
func AllWeekdays() [7]Weekday {
	return weekdayByIndex
}

// Valid проверяет, что строка — один из семи дней.
func (w Weekday) Valid() bool {
	switch w {
	case Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday:
		return true
	default:
		return false
	}
}

// TimeSlot — один слот шаблона: время "HH:MM" и длительность в минутах.
type TimeSlot struct {
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration"`
}

// WeekTemplate — недельный шаблон расписания. Повторяется каждую неделю,
// к конкретным датам не привязан. Внутри дня времена слотов уникальны,
// список упорядочен по времени.
type WeekTemplate map[Weekday][]TimeSlot

// SlotsFor возвращает слоты дня. Отсутствующий день — пустой список.
func (t WeekTemplate) SlotsFor(day Weekday) []TimeSlot {
	if t == nil {
		return nil
	}
	return t[day]
}

// TotalSlots — суммарное количество слотов за неделю.
func (t WeekTemplate) TotalSlots() int {
	total := 0
	for _, slots := range t {
		total += len(slots)
	}
	return total
}

// HasTime проверяет, есть ли в дне слот с данным временем.
func (t WeekTemplate) HasTime(day Weekday, timeStr string) bool {
	for _, slot := range t.SlotsFor(day) {
		if slot.Time == timeStr {
			return true
		}
	}
	return false
}
