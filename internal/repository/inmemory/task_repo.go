package inmemory

import (
	"context"
	"sync"
	"time"

	"calendarApp/internal/models/task"
	repo "calendarApp/internal/repository"

	"github.com/google/uuid"
)

type TaskStorage struct {
	storage map[uuid.UUID]task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToCreate.CreatedAt = time.Now()
	taskToCreate.UpdatedAt = nil
	s.storage[taskToCreate.ID] = *taskToCreate
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.storage[taskToUpdate.ID]
	if !ok {
		return repo.ErrNotFound
	}

	now := time.Now()
	taskToUpdate.CreatedAt = stored.CreatedAt
	taskToUpdate.UpdatedAt = &now
	s.storage[taskToUpdate.ID] = *taskToUpdate
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stored, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &stored, nil
}

func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	s.ids = removeID(s.ids, id)
	return nil
}

// DeleteByGoal удаляет все задачи цели и возвращает их количество
func (s *TaskStorage) DeleteByGoal(ctx context.Context, goalID uuid.UUID) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	kept := make([]uuid.UUID, 0, len(s.ids))
	removed := 0
	for _, id := range s.ids {
		if s.storage[id].GoalID == goalID {
			delete(s.storage, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.ids = kept
	return removed, nil
}

// List от новых к старым
func (s *TaskStorage) List(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tasks := []*task.Task{}
	for i := len(s.ids) - 1; i >= 0; i-- {
		stored := s.storage[s.ids[i]]
		if !filter.Match(&stored) {
			continue
		}
		tasks = append(tasks, &stored)
	}
	return tasks, nil
}
