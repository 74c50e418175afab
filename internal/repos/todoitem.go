package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type TodoItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.TodoItem) ([]*types.TodoItem, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.TodoItem, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, includeDone bool, limit int) ([]*types.TodoItem, error)
	HashExists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentHash string) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, item *types.TodoItem) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) error
}

type todoItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTodoItemRepo(db *gorm.DB, baseLog *logger.Logger) TodoItemRepo {
	return &todoItemRepo{db: db, log: baseLog.With("repo", "TodoItemRepo")}
}

func (tr *todoItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.TodoItem) ([]*types.TodoItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if len(items) == 0 {
		return []*types.TodoItem{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (tr *todoItemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.TodoItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.TodoItem
	if len(itemIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", itemIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *todoItemRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, includeDone bool, limit int) ([]*types.TodoItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID)
	if !includeDone {
		q = q.Where("done = ?", false)
	}
	var results []*types.TodoItem
	if err := q.Order("created_at DESC").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *todoItemRepo) HashExists(ctx context.Context, tx *gorm.DB, userID uuid.UUID, contentHash string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if contentHash == "" {
		return false, nil
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.TodoItem{}).
		Where("user_id = ? AND content_hash = ?", userID, contentHash).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (tr *todoItemRepo) Update(ctx context.Context, tx *gorm.DB, item *types.TodoItem) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if item == nil || item.ID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(item).Error
}

func (tr *todoItemRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if len(itemIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", itemIDs).
		Delete(&types.TodoItem{}).Error
}
