package store

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskflow/internal/model"
)

// Open opens a SQLite database and runs migrations.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "taskflow.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		stdlog.New(os.Stdout, "", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&model.Category{}, &model.Task{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return db, nil
}

// ensureDirForSQLite creates the parent dir for a SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

// GormTaskStore implements TaskStore on top of a GORM connection.
type GormTaskStore struct {
	db *gorm.DB
}

func NewGormTaskStore(db *gorm.DB) *GormTaskStore {
	return &GormTaskStore{db: db}
}

func (s *GormTaskStore) GetAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *GormTaskStore) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := s.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

func (s *GormTaskStore) Create(ctx context.Context, draft TaskDraft) (*model.Task, error) {
	task := taskFromDraft(draft)
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

func (s *GormTaskStore) Update(ctx context.Context, id uint, patch TaskPatch) (*model.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyTaskPatch(task, patch, time.Now())
	if err := s.db.WithContext(ctx).Save(task).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *GormTaskStore) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&model.Task{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete task: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// BulkUpdate patches each task in order and stops at the first failure,
// leaving earlier updates in place.
func (s *GormTaskStore) BulkUpdate(ctx context.Context, ids []uint, patch TaskPatch) ([]model.Task, error) {
	updated := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		task, err := s.Update(ctx, id, patch)
		if err != nil {
			return updated, fmt.Errorf("bulk update task %d: %w", id, err)
		}
		updated = append(updated, *task)
	}
	return updated, nil
}

func (s *GormTaskStore) BulkDelete(ctx context.Context, ids []uint) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}
	res := s.db.WithContext(ctx).Delete(&model.Task{}, ids)
	if res.Error != nil {
		return false, fmt.Errorf("bulk delete tasks: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormTaskStore) ListRecurring(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := s.db.WithContext(ctx).Where("is_recurring = ?", true).
		Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list recurring tasks: %w", err)
	}
	return tasks, nil
}

func (s *GormTaskStore) ListInstances(ctx context.Context, parentID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := s.db.WithContext(ctx).Where("parent_task_id = ?", parentID).
		Order("recurrence_date ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list recurrence instances: %w", err)
	}
	return tasks, nil
}

// GormCategoryStore implements CategoryStore on top of a GORM connection.
type GormCategoryStore struct {
	db *gorm.DB
}

func NewGormCategoryStore(db *gorm.DB) *GormCategoryStore {
	return &GormCategoryStore{db: db}
}

func (s *GormCategoryStore) GetAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	db := s.db.WithContext(ctx)
	if err := db.Order("created_at ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	var counts []struct {
		CategoryID uint
		N          int
	}
	if err := db.Model(&model.Task{}).
		Select("category_id, count(*) as n").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count tasks per category: %w", err)
	}

	byID := make(map[uint]int, len(counts))
	for _, c := range counts {
		byID[c.CategoryID] = c.N
	}
	for i := range categories {
		categories[i].TaskCount = byID[categories[i].ID]
	}
	return categories, nil
}

func (s *GormCategoryStore) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Task{}).
		Where("category_id = ?", id).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("count category tasks: %w", err)
	}
	category.TaskCount = int(n)
	return &category, nil
}

func (s *GormCategoryStore) Create(ctx context.Context, draft CategoryDraft) (*model.Category, error) {
	category := model.Category{
		Name:  draft.Name,
		Color: draft.Color,
	}
	if category.Color == "" {
		category.Color = model.DefaultCategoryColor
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

func (s *GormCategoryStore) Update(ctx context.Context, id uint, patch CategoryPatch) (*model.Category, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		category.Name = *patch.Name
	}
	if patch.Color != nil {
		category.Color = *patch.Color
	}
	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *GormCategoryStore) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&model.Category{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete category: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
