package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agenda/internal/domain"
	"agenda/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CatalogService управляет каталогом услуг. Удаление услуги не трогает
// записи: висячие ссылки остаются и показываются как "N/A".
type CatalogService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewCatalogService(store domain.Store, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := s.store.Load(ctx, models.KeyServices, &services); err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}
	return services, nil
}

func validateService(svc *models.Service) error {
	if svc.Name == "" {
		return errors.New("service name is required")
	}
	if svc.Price < 0 {
		return errors.New("service price cannot be negative")
	}
	if svc.DurationMinutes <= 0 {
		return errors.New("service duration must be positive")
	}
	return nil
}

// Add создает услугу с новым непрозрачным ID.
func (s *CatalogService) Add(ctx context.Context, svc models.Service) (*models.Service, error) {
	if err := validateService(&svc); err != nil {
		return nil, err
	}

	services, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	svc.ID = uuid.New().String()
	svc.CreatedAt = time.Now()
	services = append(services, svc)

	if err := s.store.SaveServices(ctx, services); err != nil {
		return nil, fmt.Errorf("failed to save services: %w", err)
	}
	return &svc, nil
}

// Update заменяет поля услуги, ID и время создания неизменны.
func (s *CatalogService) Update(ctx context.Context, id string, svc models.Service) (*models.Service, error) {
	if err := validateService(&svc); err != nil {
		return nil, err
	}

	services, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range services {
		if services[i].ID != id {
			continue
		}
		svc.ID = id
		svc.CreatedAt = services[i].CreatedAt
		services[i] = svc

		if err := s.store.SaveServices(ctx, services); err != nil {
			return nil, fmt.Errorf("failed to save services: %w", err)
		}
		return &services[i], nil
	}
	return nil, ErrServiceNotFound
}

// Delete убирает услугу из каталога без каскада по записям.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	services, err := s.List(ctx)
	if err != nil {
		return err
	}

	kept := services[:0]
	found := false
	for _, svc := range services {
		if svc.ID == id {
			found = true
			continue
		}
		kept = append(kept, svc)
	}
	if !found {
		return ErrServiceNotFound
	}

	if err := s.store.SaveServices(ctx, kept); err != nil {
		return fmt.Errorf("failed to save services: %w", err)
	}
	return nil
}
