package service

import (
	"context"
	"io"
	"testing"

	"agenda/internal/events"
	"agenda/internal/models"
	"agenda/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	logger := zerolog.New(io.Discard)
	bus := events.NewEventBus()
	st, err := store.Open(":memory:", bus, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := NewStatsService(st, &logger)
	ctx := context.Background()
	today := models.Today()

	require.NoError(t, st.SaveServices(ctx, []models.Service{
		{ID: "svc-1", Name: "Corte", Price: 50, DurationMinutes: 30},
		{ID: "svc-2", Name: "Barba", Price: 30, DurationMinutes: 15},
	}))
	require.NoError(t, st.SaveTemplate(ctx, models.WeekTemplate{
		models.Monday: {{Time: "09:00", DurationMinutes: 30}, {Time: "09:30", DurationMinutes: 30}},
	}))
	require.NoError(t, st.SaveAppointments(ctx, []models.Appointment{
		{ID: "a1", ClientPhone: "111", ServiceID: "svc-1", Date: today, Time: "09:00", Status: models.StatusCompleted},
		{ID: "a2", ClientPhone: "111", ServiceID: "svc-2", Date: today, Time: "09:30", Status: models.StatusCompleted},
		{ID: "a3", ClientPhone: "222", ServiceID: "svc-1", Date: today, Time: "10:00", Status: models.StatusPending},
		{ID: "a4", ClientPhone: "333", ServiceID: "svc-1", Date: today.AddDays(30), Time: "09:00", Status: models.StatusConfirmed},
	}))

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, d.TodayAppointments)
	assert.Equal(t, 2, d.TotalServices)
	assert.Equal(t, 2, d.ActiveSlots)
	assert.Equal(t, 4, d.TotalAppointments)
	assert.Equal(t, 1, d.PendingAppointments)
	assert.Equal(t, 1, d.ConfirmedAppointments)
	assert.Equal(t, 2, d.CompletedAppointments)

	// Клиенты считаются по уникальному телефону и только по
	// выполненным записям.
	assert.Equal(t, 1, d.UniqueClientsServed)

	// Выручка только по выполненным: 50 + 30.
	assert.Equal(t, 80.0, d.TodayRevenue)
	assert.GreaterOrEqual(t, d.WeekAppointments, 3)

	require.Len(t, d.RevenueByService, 2)
	assert.Equal(t, "svc-1", d.RevenueByService[0].ServiceID)
	assert.Equal(t, 50.0, d.RevenueByService[0].Total)
	assert.Equal(t, 30.0, d.RevenueByService[1].Total)
}
