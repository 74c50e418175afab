package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type ChatMessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, messages []*types.ChatMessage) ([]*types.ChatMessage, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, messageIDs []uuid.UUID) ([]*types.ChatMessage, error)
	// ListBySession returns up to limit messages in ascending seq order.
	// When beforeSeq is non-nil only messages with seq < beforeSeq are
	// returned, which gives the frontend cursor paging backwards in time.
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, limit int, beforeSeq *int64) ([]*types.ChatMessage, error)
	GetByIdempotencyKey(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, key string) (*types.ChatMessage, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (mr *chatMessageRepo) Create(ctx context.Context, tx *gorm.DB, messages []*types.ChatMessage) ([]*types.ChatMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(messages) == 0 {
		return []*types.ChatMessage{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (mr *chatMessageRepo) GetByIDs(ctx context.Context, tx *gorm.DB, messageIDs []uuid.UUID) ([]*types.ChatMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.ChatMessage
	if len(messageIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", messageIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *chatMessageRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, limit int, beforeSeq *int64) ([]*types.ChatMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var results []*types.ChatMessage
	q := transaction.WithContext(ctx).
		Model(&types.ChatMessage{}).
		Where("session_id = ?", sessionID)
	if beforeSeq != nil {
		q = q.Where("seq < ?", *beforeSeq)
	}
	if err := q.Order("seq DESC").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

func (mr *chatMessageRepo) GetByIdempotencyKey(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, key string) (*types.ChatMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if key == "" {
		return nil, nil
	}
	var results []*types.ChatMessage
	if err := transaction.WithContext(ctx).
		Where("session_id = ? AND metadata->>'idempotency_key' = ?", sessionID, key).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}
