package service

import (
	"context"
	"fmt"

	"agenda/internal/availability"
	"agenda/internal/domain"
	"agenda/internal/models"

	"github.com/rs/zerolog"
)

// Dashboard — цифры админской панели. Все значения производные:
// считаются по снимку через резолвер, ничего не хранится отдельно.
type Dashboard struct {
	TodayAppointments     int     `json:"todayAppointments"`
	WeekAppointments      int     `json:"weekAppointments"`
	TotalServices         int     `json:"totalServices"`
	ActiveSlots           int     `json:"activeSlots"`
	PendingAppointments   int     `json:"pendingAppointments"`
	ConfirmedAppointments int     `json:"confirmedAppointments"`
	CompletedAppointments int     `json:"completedAppointments"`
	TotalAppointments     int     `json:"totalAppointments"`
	UniqueClientsServed   int     `json:"uniqueClientsServed"`
	TodayRevenue          float64 `json:"todayRevenue"`
	WeekRevenue           float64 `json:"weekRevenue"`

	RevenueByService []availability.ServiceRevenue `json:"revenueByService"`
}

// StatsService строит сводку панели.
type StatsService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewStatsService(store domain.Store, logger *zerolog.Logger) *StatsService {
	return &StatsService{store: store, logger: logger}
}

// Dashboard собирает счетчики за сегодня и текущую неделю
// (воскресенье–суббота) плюс отчет по выручке за последний период.
func (s *StatsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	today := models.Today()
	weekStart := today.AddDays(-int(today.Weekday()))
	weekEnd := weekStart.AddDays(6)

	d := &Dashboard{
		TotalServices:     len(snap.Services),
		ActiveSlots:       snap.Template.TotalSlots(),
		TotalAppointments: len(snap.Appointments),
		TodayRevenue:      availability.DailyRevenue(today, snap.Appointments, snap.Services),
		WeekRevenue:       availability.RangeRevenue(weekStart, weekEnd, snap.Appointments, snap.Services),
		RevenueByService: availability.RevenueByService(
			today.AddDays(-models.RevenueReportDays), today, snap.Appointments, snap.Services),
	}

	served := make(map[string]bool)
	for _, apt := range snap.Appointments {
		if apt.Date.Equal(today.Time) {
			d.TodayAppointments++
		}
		if !apt.Date.Before(weekStart.Time) && !apt.Date.After(weekEnd.Time) {
			d.WeekAppointments++
		}

		switch apt.Status {
		case models.StatusPending:
			d.PendingAppointments++
		case models.StatusConfirmed:
			d.ConfirmedAppointments++
		case models.StatusCompleted:
			d.CompletedAppointments++
			served[apt.ClientPhone] = true
		case models.StatusCancelled:
		}
	}
	d.UniqueClientsServed = len(served)

	return d, nil
}
