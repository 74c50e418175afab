package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type ConceptCardRepo interface {
	Create(ctx context.Context, tx *gorm.DB, cards []*types.ConceptCard) ([]*types.ConceptCard, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, cardIDs []uuid.UUID) ([]*types.ConceptCard, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, category string, limit int) ([]*types.ConceptCard, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, cardIDs []uuid.UUID) error
}

type conceptCardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptCardRepo(db *gorm.DB, baseLog *logger.Logger) ConceptCardRepo {
	return &conceptCardRepo{db: db, log: baseLog.With("repo", "ConceptCardRepo")}
}

func (cr *conceptCardRepo) Create(ctx context.Context, tx *gorm.DB, cards []*types.ConceptCard) ([]*types.ConceptCard, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(cards) == 0 {
		return []*types.ConceptCard{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (cr *conceptCardRepo) GetByIDs(ctx context.Context, tx *gorm.DB, cardIDs []uuid.UUID) ([]*types.ConceptCard, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.ConceptCard
	if len(cardIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", cardIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *conceptCardRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, category string, limit int) ([]*types.ConceptCard, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var results []*types.ConceptCard
	if err := q.Order("created_at DESC").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *conceptCardRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, cardIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(cardIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", cardIDs).
		Delete(&types.ConceptCard{}).Error
}
