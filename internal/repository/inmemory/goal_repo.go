package inmemory

import (
	"context"
	"sync"
	"time"

	"calendarApp/internal/models/goal"
	repo "calendarApp/internal/repository"

	"github.com/google/uuid"
)

type GoalStorage struct {
	storage map[uuid.UUID]goal.Goal
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewGoalStorage() *GoalStorage {
	return &GoalStorage{
		storage: make(map[uuid.UUID]goal.Goal),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *GoalStorage) Create(ctx context.Context, goalToCreate *goal.Goal) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	goalToCreate.CreatedAt = time.Now()
	goalToCreate.UpdatedAt = nil
	s.storage[goalToCreate.ID] = *goalToCreate
	s.ids = append(s.ids, goalToCreate.ID)
	return nil
}

func (s *GoalStorage) Update(ctx context.Context, goalToUpdate *goal.Goal) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.storage[goalToUpdate.ID]
	if !ok {
		return repo.ErrNotFound
	}

	now := time.Now()
	goalToUpdate.CreatedAt = stored.CreatedAt
	goalToUpdate.UpdatedAt = &now
	s.storage[goalToUpdate.ID] = *goalToUpdate
	return nil
}

func (s *GoalStorage) GetByID(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stored, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &stored, nil
}

func (s *GoalStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	s.ids = removeID(s.ids, id)
	return nil
}

// List от новых к старым
func (s *GoalStorage) List(ctx context.Context) ([]*goal.Goal, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	goals := make([]*goal.Goal, 0, len(s.ids))
	for i := len(s.ids) - 1; i >= 0; i-- {
		stored := s.storage[s.ids[i]]
		goals = append(goals, &stored)
	}
	return goals, nil
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
