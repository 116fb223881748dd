package service

import (
	"context"
	"strings"

	"taskflow/internal/model"
	"taskflow/internal/store"
)

// CategoryService provides validation on top of the category store.
type CategoryService struct {
	categories store.CategoryStore
}

func NewCategoryService(categories store.CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categories.GetAll(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, name, color string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errValidation("category name is required")
	}
	return s.categories.Create(ctx, store.CategoryDraft{Name: name, Color: color})
}

func (s *CategoryService) Update(ctx context.Context, id uint, patch store.CategoryPatch) (*model.Category, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, errValidation("category name cannot be empty")
	}
	return s.categories.Update(ctx, id, patch)
}

func (s *CategoryService) Delete(ctx context.Context, id uint) (bool, error) {
	return s.categories.Delete(ctx, id)
}
