package sheets

import (
	"testing"
	"time"

	"agenda/internal/models"
)

func TestAppointmentRowValues(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	apt := &models.Appointment{
		ID:          "apt-1",
		ClientName:  "Maria",
		ClientPhone: "11988887777",
		ServiceID:   "svc-1",
		Date:        models.NewDate(2025, time.June, 2),
		Time:        "09:00",
		Status:      models.StatusConfirmed,
		CreatedAt:   createdAt,
	}
	services := []models.Service{{ID: "svc-1", Name: "Corte"}}

	values := appointmentRowValues(apt, services)

	if len(values) != 9 {
		t.Fatalf("Expected 9 values, got %d", len(values))
	}
	if values[0] != "apt-1" {
		t.Errorf("Expected apt-1, got %v", values[0])
	}
	if values[3] != "Corte" {
		t.Errorf("Expected Corte, got %v", values[3])
	}
	if values[4] != "2025-06-02" {
		t.Errorf("Expected 2025-06-02, got %v", values[4])
	}
	if values[6] != "confirmed" {
		t.Errorf("Expected confirmed, got %v", values[6])
	}
}

func TestAppointmentRowValuesDanglingService(t *testing.T) {
	apt := &models.Appointment{ID: "apt-2", ServiceID: "gone", Date: models.NewDate(2025, time.June, 3)}

	values := appointmentRowValues(apt, nil)

	if values[3] != "N/A" {
		t.Errorf("Expected N/A for dangling service, got %v", values[3])
	}
}

func TestCacheOperations(t *testing.T) {
	s := &SheetsService{rowCache: make(map[string]int)}

	if _, ok := s.getCachedRow("apt-1"); ok {
		t.Error("Expected cache miss for unknown id")
	}

	s.setCachedRow("apt-1", 5)
	row, ok := s.getCachedRow("apt-1")
	if !ok || row != 5 {
		t.Errorf("Expected row 5, got %d (ok=%v)", row, ok)
	}
}
