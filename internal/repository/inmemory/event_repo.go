package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"calendarApp/internal/logger"
	"calendarApp/internal/models/event"
	repo "calendarApp/internal/repository"

	"github.com/google/uuid"
)

type EventStorage struct {
	storage map[uuid.UUID]event.Event
	mtx     *sync.RWMutex
}

func NewEventStorage() *EventStorage {
	return &EventStorage{
		storage: make(map[uuid.UUID]event.Event),
		mtx:     &sync.RWMutex{},
	}
}

func (s *EventStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: хранилище событий в памяти доступно")
	return nil
}

func (s *EventStorage) Create(ctx context.Context, eventToCreate *event.Event) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	eventToCreate.CreatedAt = time.Now()
	eventToCreate.UpdatedAt = nil
	s.storage[eventToCreate.ID] = *eventToCreate
	return nil
}

func (s *EventStorage) Update(ctx context.Context, eventToUpdate *event.Event) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.storage[eventToUpdate.ID]
	if !ok {
		return repo.ErrNotFound
	}

	now := time.Now()
	eventToUpdate.CreatedAt = stored.CreatedAt
	eventToUpdate.UpdatedAt = &now
	s.storage[eventToUpdate.ID] = *eventToUpdate
	return nil
}

func (s *EventStorage) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stored, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &stored, nil
}

func (s *EventStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	return nil
}

// List события по возрастанию startTime; r == nil - все события
func (s *EventStorage) List(ctx context.Context, r *event.Range) ([]*event.Event, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	events := make([]*event.Event, 0, len(s.storage))
	for _, stored := range s.storage {
		if r != nil && !r.Contains(stored.Date) {
			continue
		}
		copied := stored
		events = append(events, &copied)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		}
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events, nil
}
