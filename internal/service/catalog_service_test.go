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

func setupCatalog(t *testing.T) (*CatalogService, *store.Store) {
	logger := zerolog.New(io.Discard)
	bus := events.NewEventBus()
	st, err := store.Open(":memory:", bus, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewCatalogService(st, &logger), st
}

func TestCatalogAddListUpdate(t *testing.T) {
	svc, _ := setupCatalog(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, models.Service{Name: "Corte", Price: 50, DurationMinutes: 30})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.False(t, added.CreatedAt.IsZero())

	services, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, services, 1)

	updated, err := svc.Update(ctx, added.ID, models.Service{Name: "Corte e barba", Price: 80, DurationMinutes: 45})
	require.NoError(t, err)
	assert.Equal(t, added.ID, updated.ID)
	assert.Equal(t, 80.0, updated.Price)
	assert.Equal(t, added.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestCatalogValidation(t *testing.T) {
	svc, _ := setupCatalog(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, models.Service{Price: 50, DurationMinutes: 30})
	assert.Error(t, err)

	_, err = svc.Add(ctx, models.Service{Name: "Corte", Price: -1, DurationMinutes: 30})
	assert.Error(t, err)

	_, err = svc.Add(ctx, models.Service{Name: "Corte", Price: 50})
	assert.Error(t, err)

	_, err = svc.Update(ctx, "missing", models.Service{Name: "Corte", Price: 50, DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

// Удаление услуги не трогает записи с ее ID.
func TestCatalogDeleteNoCascade(t *testing.T) {
	svc, st := setupCatalog(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, models.Service{Name: "Corte", Price: 50, DurationMinutes: 30})
	require.NoError(t, err)

	apts := []models.Appointment{{
		ID:        "apt-1",
		ServiceID: added.ID,
		Status:    models.StatusPending,
	}}
	require.NoError(t, st.SaveAppointments(ctx, apts))

	require.NoError(t, svc.Delete(ctx, added.ID))

	services, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, services)

	var kept []models.Appointment
	require.NoError(t, st.Load(ctx, models.KeyAppointments, &kept))
	require.Len(t, kept, 1)
	assert.Equal(t, added.ID, kept[0].ServiceID)

	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrServiceNotFound)
}
