package service

import (
	"context"
	"errors"
	"fmt"

	"calendarApp/internal/logger"
	"calendarApp/internal/models/event"
	rep "calendarApp/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

func (s *EventService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *EventService) ListEvents(ctx context.Context, r *event.Range) ([]*event.Event, error) {
	if r != nil && r.To.Before(r.From) {
		return nil, NewValidationError([]string{"endDate must not be before startDate"})
	}

	events, err := s.repo.List(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("получение событий: %w", err)
	}
	return events, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Событие не найдено", zap.String("target_id", id.String()))
			return nil, NewNotFound(ResourceEvent, id.String())
		}
		return nil, fmt.Errorf("получение события: %w", err)
	}
	return found, nil
}

func (s *EventService) CreateEvent(ctx context.Context, newEvent *event.Event) (*event.Event, error) {
	newEvent.Normalize()
	if problems := newEvent.Validate(); len(problems) > 0 {
		logger.Info("Service: Событие не прошло валидацию", zap.Strings("problems", problems))
		return nil, NewValidationError(problems)
	}

	newEvent.ID = uuid.New()
	if err := s.repo.Create(ctx, newEvent); err != nil {
		return nil, fmt.Errorf("создание события: %w", err)
	}

	logger.Info("Service: Событие создано", zap.String("event_id", newEvent.ID.String()))
	return newEvent, nil
}

// UpdateEvent применяет опции и заново валидирует всё событие
func (s *EventService) UpdateEvent(ctx context.Context, id uuid.UUID, options ...event.Option) (*event.Event, error) {
	found, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	found.Apply(options...)
	found.Normalize()
	if problems := found.Validate(); len(problems) > 0 {
		logger.Info("Service: Обновление события не прошло валидацию",
			zap.String("event_id", id.String()),
			zap.Strings("problems", problems))
		return nil, NewValidationError(problems)
	}

	if err := s.repo.Update(ctx, found); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound(ResourceEvent, id.String())
		}
		return nil, fmt.Errorf("обновление события: %w", err)
	}
	return found, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Событие не найдено", zap.String("target_id", id.String()))
			return NewNotFound(ResourceEvent, id.String())
		}
		return fmt.Errorf("удаление события: %w", err)
	}
	return nil
}
