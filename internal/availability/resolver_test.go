package availability

import (
	"testing"
	"time"

	"agenda/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-06-02 — понедельник.
var monday = models.NewDate(2025, time.June, 2)

func mondayTemplate() models.WeekTemplate {
	return models.WeekTemplate{
		models.Monday: {
			{Time: "09:00", DurationMinutes: 30},
			{Time: "09:30", DurationMinutes: 30},
		},
	}
}

func apt(date models.Date, timeStr string, status models.Status) models.Appointment {
	return models.Appointment{
		ID:          "apt-1",
		ClientName:  "Ana",
		ClientPhone: "11999990000",
		ServiceID:   "svc-1",
		Date:        date,
		Time:        timeStr,
		Status:      status,
		CreatedAt:   time.Now(),
	}
}

func TestSlotsForDateEmptyBookings(t *testing.T) {
	template := mondayTemplate()

	slots := SlotsForDate(monday, template, nil)

	require.Len(t, slots, 2)
	assert.Equal(t, template[models.Monday], slots)
}

func TestSlotsForDatePendingBlocksSlot(t *testing.T) {
	slots := SlotsForDate(monday, mondayTemplate(), []models.Appointment{
		apt(monday, "09:00", models.StatusPending),
	})

	require.Len(t, slots, 1)
	assert.Equal(t, "09:30", slots[0].Time)
	assert.Equal(t, 30, slots[0].DurationMinutes)
}

func TestSlotsForDateConfirmedBlocksSlot(t *testing.T) {
	slots := SlotsForDate(monday, mondayTemplate(), []models.Appointment{
		apt(monday, "09:30", models.StatusConfirmed),
	})

	require.Len(t, slots, 1)
	assert.Equal(t, "09:00", slots[0].Time)
}

func TestSlotsForDateTerminalStatusesDoNotBlock(t *testing.T) {
	for _, status := range []models.Status{models.StatusCompleted, models.StatusCancelled} {
		slots := SlotsForDate(monday, mondayTemplate(), []models.Appointment{
			apt(monday, "09:00", status),
		})
		assert.Len(t, slots, 2, "status %s must not block the slot", status)
	}
}

func TestSlotsForDateOtherDateDoesNotBlock(t *testing.T) {
	nextMonday := monday.AddDays(7)

	slots := SlotsForDate(monday, mondayTemplate(), []models.Appointment{
		apt(nextMonday, "09:00", models.StatusConfirmed),
	})

	assert.Len(t, slots, 2)
}

func TestSlotsForDateWeekdayWithoutTemplate(t *testing.T) {
	tuesday := monday.AddDays(1)

	slots := SlotsForDate(tuesday, mondayTemplate(), nil)

	assert.Empty(t, slots)
}

func TestNextAvailableDates(t *testing.T) {
	template := mondayTemplate()
	// Стартуем с воскресенья, чтобы первый же понедельник попал в горизонт.
	sunday := models.NewDate(2025, time.June, 1)

	dates := NextAvailableDates(template, nil, sunday, models.NextDatesHorizonDays, models.NextDatesLimit)

	require.Len(t, dates, 2) // два понедельника за 14 дней
	assert.Equal(t, "2025-06-02", dates[0].String())
	assert.Equal(t, "2025-06-09", dates[1].String())
}

func TestNextAvailableDatesSkipsFullyBooked(t *testing.T) {
	template := models.WeekTemplate{
		models.Monday: {{Time: "09:00", DurationMinutes: 30}},
	}
	sunday := models.NewDate(2025, time.June, 1)

	dates := NextAvailableDates(template, []models.Appointment{
		apt(monday, "09:00", models.StatusPending),
	}, sunday, 14, 5)

	require.Len(t, dates, 1)
	assert.Equal(t, "2025-06-09", dates[0].String())
}

func TestNextAvailableDatesRespectsLimit(t *testing.T) {
	template := models.WeekTemplate{}
	for _, day := range models.AllWeekdays() {
		template[day] = []models.TimeSlot{{Time: "10:00", DurationMinutes: 60}}
	}
	sunday := models.NewDate(2025, time.June, 1)

	dates := NextAvailableDates(template, nil, sunday, models.RealDatesHorizonDays, models.RealDatesLimit)

	require.Len(t, dates, models.RealDatesLimit)
	assert.Equal(t, "2025-06-02", dates[0].String())
}

func TestWeeklyCapacityCountsConfirmedOnly(t *testing.T) {
	template := mondayTemplate()
	appointments := []models.Appointment{
		apt(monday, "09:00", models.StatusConfirmed),
		apt(monday, "09:30", models.StatusPending),
		apt(monday.AddDays(7), "09:00", models.StatusCompleted),
		apt(monday.AddDays(7), "09:30", models.StatusCancelled),
	}

	capacity := WeeklyCapacity(template, appointments)

	assert.Equal(t, 1, capacity.Booked)
	assert.Equal(t, 2, capacity.Total)
	assert.Equal(t, 1, capacity.Available())
}

func TestWeeklyCapacityAvailableNotNegative(t *testing.T) {
	capacity := WeekCapacity{Booked: 5, Total: 2}
	assert.Equal(t, 0, capacity.Available())
}

func TestConflictSlotsAnyStatusCounts(t *testing.T) {
	template := mondayTemplate()
	appointments := []models.Appointment{
		apt(monday, "09:00", models.StatusCancelled),
		apt(monday.AddDays(7), "09:30", models.StatusCompleted),
	}

	conflicts := ConflictSlots(template, appointments)

	require.Len(t, conflicts, 2)
	assert.Equal(t, ConflictSlot{Weekday: models.Monday, Time: "09:00"}, conflicts[0])
	assert.Equal(t, ConflictSlot{Weekday: models.Monday, Time: "09:30"}, conflicts[1])
}

func TestConflictSlotsIgnoresTimesOutsideTemplate(t *testing.T) {
	conflicts := ConflictSlots(mondayTemplate(), []models.Appointment{
		apt(monday, "15:00", models.StatusConfirmed),
	})

	assert.Empty(t, conflicts)
}
