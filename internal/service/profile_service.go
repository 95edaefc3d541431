package service

import (
	"context"
	"errors"
	"fmt"

	"agenda/internal/domain"
	"agenda/internal/models"

	"github.com/rs/zerolog"
)

// ProfileService хранит карточку бизнеса: название, телефон для
// WhatsApp-ссылок, адрес и описание.
type ProfileService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewProfileService(store domain.Store, logger *zerolog.Logger) *ProfileService {
	return &ProfileService{store: store, logger: logger}
}

func (s *ProfileService) Get(ctx context.Context) (*models.BusinessProfile, error) {
	var profile models.BusinessProfile
	if err := s.store.Load(ctx, models.KeyBusinessInfo, &profile); err != nil {
		return nil, fmt.Errorf("failed to load business profile: %w", err)
	}
	return &profile, nil
}

func (s *ProfileService) Save(ctx context.Context, profile models.BusinessProfile) error {
	if profile.Name == "" {
		return errors.New("business name is required")
	}
	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to save business profile: %w", err)
	}
	return nil
}
