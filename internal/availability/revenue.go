package availability

import "agenda/internal/models"

// Выручка считается только по записям со статусом completed. Запись,
// ссылающаяся на удаленную услугу, даёт ноль.

func priceIndex(services []models.Service) map[string]float64 {
	prices := make(map[string]float64, len(services))
	for _, svc := range services {
		prices[svc.ID] = svc.Price
	}
	return prices
}

// DailyRevenue — выручка за один день.
func DailyRevenue(date models.Date, appointments []models.Appointment, services []models.Service) float64 {
	prices := priceIndex(services)
	total := 0.0
	for _, apt := range appointments {
		if apt.Status == models.StatusCompleted && apt.Date.Equal(date.Time) {
			total += prices[apt.ServiceID]
		}
	}
	return total
}

// RangeRevenue — выручка за период [from, to] включительно.
func RangeRevenue(from, to models.Date, appointments []models.Appointment, services []models.Service) float64 {
	prices := priceIndex(services)
	total := 0.0
	for _, apt := range appointments {
		if apt.Status != models.StatusCompleted {
			continue
		}
		if apt.Date.Before(from.Time) || apt.Date.After(to.Time) {
			continue
		}
		total += prices[apt.ServiceID]
	}
	return total
}

// ServiceRevenue — выручка одной услуги за период.
type ServiceRevenue struct {
	ServiceID   string  `json:"service_id"`
	ServiceName string  `json:"service_name"`
	Total       float64 `json:"total"`
}

// RevenueByService группирует выручку за период по услугам в порядке
// каталога. Записи на удаленные услуги в отчет не попадают.
func RevenueByService(from, to models.Date, appointments []models.Appointment, services []models.Service) []ServiceRevenue {
	prices := priceIndex(services)
	totals := make(map[string]float64)
	counted := make(map[string]bool)
	for _, apt := range appointments {
		if apt.Status != models.StatusCompleted {
			continue
		}
		if apt.Date.Before(from.Time) || apt.Date.After(to.Time) {
			continue
		}
		totals[apt.ServiceID] += prices[apt.ServiceID]
		counted[apt.ServiceID] = true
	}

	var report []ServiceRevenue
	for _, svc := range services {
		if !counted[svc.ID] {
			continue
		}
		report = append(report, ServiceRevenue{ServiceID: svc.ID, ServiceName: svc.Name, Total: totals[svc.ID]})
	}
	return report
}
