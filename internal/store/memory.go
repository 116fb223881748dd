package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskflow/internal/model"
)

// MemoryStore keeps tasks and categories in process memory. It backs the
// local development mode and the test suite. Identity is an in-store counter,
// matching the store-owns-ids contract of the SQLite implementation.
type MemoryStore struct {
	mu             sync.Mutex
	tasks          map[uint]model.Task
	categories     map[uint]model.Category
	nextTaskID     uint
	nextCategoryID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:      make(map[uint]model.Task),
		categories: make(map[uint]model.Category),
	}
}

// Tasks returns the TaskStore view of the shared data.
func (m *MemoryStore) Tasks() TaskStore {
	return &memoryTaskStore{m}
}

// Categories returns the CategoryStore view of the shared data.
func (m *MemoryStore) Categories() CategoryStore {
	return &memoryCategoryStore{m}
}

type memoryTaskStore struct {
	m *MemoryStore
}

func (s *memoryTaskStore) GetAll(ctx context.Context) ([]model.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	tasks := make([]model.Task, 0, len(s.m.tasks))
	for _, t := range s.m.tasks {
		tasks = append(tasks, t)
	}
	// Newest first, like the SQLite store.
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
	return tasks, nil
}

func (s *memoryTaskStore) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	task, ok := s.m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &task, nil
}

func (s *memoryTaskStore) Create(ctx context.Context, draft TaskDraft) (*model.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	task := taskFromDraft(draft)
	s.m.nextTaskID++
	now := time.Now()
	task.ID = s.m.nextTaskID
	task.CreatedAt = now
	task.UpdatedAt = now
	s.m.tasks[task.ID] = task
	return &task, nil
}

func (s *memoryTaskStore) Update(ctx context.Context, id uint, patch TaskPatch) (*model.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	task, ok := s.m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	applyTaskPatch(&task, patch, time.Now())
	s.m.tasks[id] = task
	return &task, nil
}

func (s *memoryTaskStore) Delete(ctx context.Context, id uint) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.tasks[id]; !ok {
		return false, nil
	}
	delete(s.m.tasks, id)
	return true, nil
}

func (s *memoryTaskStore) BulkUpdate(ctx context.Context, ids []uint, patch TaskPatch) ([]model.Task, error) {
	updated := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		task, err := s.Update(ctx, id, patch)
		if err != nil {
			return updated, err
		}
		updated = append(updated, *task)
	}
	return updated, nil
}

func (s *memoryTaskStore) BulkDelete(ctx context.Context, ids []uint) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	deleted := false
	for _, id := range ids {
		if _, ok := s.m.tasks[id]; ok {
			delete(s.m.tasks, id)
			deleted = true
		}
	}
	return deleted, nil
}

func (s *memoryTaskStore) ListRecurring(ctx context.Context) ([]model.Task, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	for _, t := range all {
		if t.IsRecurring {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (s *memoryTaskStore) ListInstances(ctx context.Context, parentID uint) ([]model.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var tasks []model.Task
	for _, t := range s.m.tasks {
		if t.ParentTaskID != nil && *t.ParentTaskID == parentID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.RecurrenceDate == nil && b.RecurrenceDate == nil:
			return a.ID < b.ID
		case a.RecurrenceDate == nil:
			return false
		case b.RecurrenceDate == nil:
			return true
		case !a.RecurrenceDate.Equal(*b.RecurrenceDate):
			return a.RecurrenceDate.Before(*b.RecurrenceDate)
		default:
			return a.ID < b.ID
		}
	})
	return tasks, nil
}

type memoryCategoryStore struct {
	m *MemoryStore
}

func (s *memoryCategoryStore) GetAll(ctx context.Context) ([]model.Category, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	counts := make(map[uint]int)
	for _, t := range s.m.tasks {
		if t.CategoryID != nil {
			counts[*t.CategoryID]++
		}
	}
	categories := make([]model.Category, 0, len(s.m.categories))
	for _, c := range s.m.categories {
		c.TaskCount = counts[c.ID]
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if !categories[i].CreatedAt.Equal(categories[j].CreatedAt) {
			return categories[i].CreatedAt.Before(categories[j].CreatedAt)
		}
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}

func (s *memoryCategoryStore) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	category, ok := s.m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	for _, t := range s.m.tasks {
		if t.CategoryID != nil && *t.CategoryID == id {
			category.TaskCount++
		}
	}
	return &category, nil
}

func (s *memoryCategoryStore) Create(ctx context.Context, draft CategoryDraft) (*model.Category, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.nextCategoryID++
	now := time.Now()
	category := model.Category{
		ID:        s.m.nextCategoryID,
		Name:      draft.Name,
		Color:     draft.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if category.Color == "" {
		category.Color = model.DefaultCategoryColor
	}
	s.m.categories[category.ID] = category
	return &category, nil
}

func (s *memoryCategoryStore) Update(ctx context.Context, id uint, patch CategoryPatch) (*model.Category, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	category, ok := s.m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Name != nil {
		category.Name = *patch.Name
	}
	if patch.Color != nil {
		category.Color = *patch.Color
	}
	category.UpdatedAt = time.Now()
	s.m.categories[id] = category
	return &category, nil
}

func (s *memoryCategoryStore) Delete(ctx context.Context, id uint) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.categories[id]; !ok {
		return false, nil
	}
	delete(s.m.categories, id)
	return true, nil
}
