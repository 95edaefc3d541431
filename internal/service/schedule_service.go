package service

import (
	"context"
	"errors"
	"fmt"

	"agenda/internal/domain"
	"agenda/internal/models"

	"github.com/rs/zerolog"
)

// GenerateMode выбирает, что делать с уже существующими слотами дня.
type GenerateMode string

const (
	// ModeAdd дописывает слоты, пропуская совпадающие времена.
	ModeAdd GenerateMode = "add"
	// ModeReplace сначала очищает выбранные дни.
	ModeReplace GenerateMode = "replace"
)

// ScheduleService редактирует недельный шаблон расписания.
type ScheduleService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewScheduleService(store domain.Store, logger *zerolog.Logger) *ScheduleService {
	return &ScheduleService{store: store, logger: logger}
}

func (s *ScheduleService) Template(ctx context.Context) (models.WeekTemplate, error) {
	template := models.WeekTemplate{}
	if err := s.store.Load(ctx, models.KeySchedule, &template); err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	return template, nil
}

// GenerateRequest описывает серию слотов: от start до end с шагом
// в длительность, для каждого из выбранных дней недели.
type GenerateRequest struct {
	Weekdays        []models.Weekday `json:"weekdays"`
	StartTime       string           `json:"startTime"`
	EndTime         string           `json:"endTime"`
	DurationMinutes int              `json:"duration"`
	Mode            GenerateMode     `json:"mode"`
}

// GenerateSlots наполняет шаблон серией слотов. Дубликаты времени в
// пределах дня молча пропускаются, порядок добавления сохраняется.
func (s *ScheduleService) GenerateSlots(ctx context.Context, req GenerateRequest) (models.WeekTemplate, error) {
	if len(req.Weekdays) == 0 {
		return nil, errors.New("at least one weekday is required")
	}
	for _, day := range req.Weekdays {
		if !day.Valid() {
			return nil, fmt.Errorf("unknown weekday: %s", day)
		}
	}
	if req.DurationMinutes <= 0 {
		return nil, errors.New("slot duration must be positive")
	}

	start, err := parseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, errors.New("start time must be before end time")
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeAdd
	}

	template, err := s.Template(ctx)
	if err != nil {
		return nil, err
	}

	if mode == ModeReplace {
		for _, day := range req.Weekdays {
			template[day] = nil
		}
	}

	for _, day := range req.Weekdays {
		for cur := start; cur < end; cur += req.DurationMinutes {
			timeStr := formatClock(cur)
			if template.HasTime(day, timeStr) {
				continue
			}
			template[day] = append(template[day], models.TimeSlot{
				Time:            timeStr,
				DurationMinutes: req.DurationMinutes,
			})
		}
	}

	if err := s.store.SaveTemplate(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}
	return template, nil
}

// RemoveSlot убирает время из дня шаблона.
func (s *ScheduleService) RemoveSlot(ctx context.Context, day models.Weekday, timeStr string) (models.WeekTemplate, error) {
	template, err := s.Template(ctx)
	if err != nil {
		return nil, err
	}

	slots := template[day]
	kept := slots[:0]
	found := false
	for _, slot := range slots {
		if slot.Time == timeStr {
			found = true
			continue
		}
		kept = append(kept, slot)
	}
	if !found {
		return nil, ErrSlotNotFound
	}
	template[day] = kept

	if err := s.store.SaveTemplate(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}
	return template, nil
}

// parseClock разбирает "HH:MM" в минуты от полуночи.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
