package export

import (
	"io"
	"testing"
	"time"

	"agenda/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAppointmentsToExcel(t *testing.T) {
	logger := zerolog.New(io.Discard)
	exporter := NewExporter(t.TempDir(), &logger)

	services := []models.Service{{ID: "svc-1", Name: "Corte", Price: 50, DurationMinutes: 30}}
	appointments := []models.Appointment{
		{
			ID:          "apt-1",
			ClientName:  "Maria",
			ClientPhone: "11988887777",
			ServiceID:   "svc-1",
			Date:        models.NewDate(2025, time.June, 2),
			Time:        "09:00",
			Status:      models.StatusConfirmed,
			CreatedAt:   time.Date(2025, time.May, 30, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:                 "apt-2",
			ClientName:         "João",
			ClientPhone:        "11900001111",
			ServiceID:          "svc-gone",
			Date:               models.NewDate(2025, time.June, 3),
			Time:               "10:00",
			Status:             models.StatusCancelled,
			CreatedAt:          time.Date(2025, time.May, 30, 11, 0, 0, 0, time.UTC),
			CancellationReason: "horário indisponível",
		},
	}

	path, err := exporter.AppointmentsToExcel(appointments, services)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Cliente", rows[0][1])
	assert.Equal(t, "Maria", rows[1][1])
	assert.Equal(t, "Corte", rows[1][3])
	assert.Equal(t, "02/06/2025", rows[1][4])
	assert.Equal(t, "Confirmado", rows[1][6])

	// Услуга удалена из каталога: в выгрузке остается "N/A".
	assert.Equal(t, "N/A", rows[2][3])
	assert.Equal(t, "Cancelado", rows[2][6])
	assert.Equal(t, "horário indisponível", rows[2][8])
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Pendente", StatusText(models.StatusPending))
	assert.Equal(t, "Realizado", StatusText(models.StatusCompleted))
	assert.Equal(t, "weird", StatusText(models.Status("weird")))
}
