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

func TestProfileService(t *testing.T) {
	logger := zerolog.New(io.Discard)
	bus := events.NewEventBus()
	st, err := store.Open(":memory:", bus, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := NewProfileService(st, &logger)
	ctx := context.Background()

	t.Run("EmptyByDefault", func(t *testing.T) {
		profile, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Empty(t, profile.Name)
	})

	t.Run("SaveAndGet", func(t *testing.T) {
		err := svc.Save(ctx, models.BusinessProfile{
			Name:    "Salão da Maria",
			Phone:   "(11) 3333-4444",
			Address: "Rua A, 123",
		})
		require.NoError(t, err)

		profile, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Salão da Maria", profile.Name)
		assert.Equal(t, "(11) 3333-4444", profile.Phone)
	})

	t.Run("NameRequired", func(t *testing.T) {
		err := svc.Save(ctx, models.BusinessProfile{Phone: "123"})
		assert.Error(t, err)
	})
}
