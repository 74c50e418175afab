package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type ChatSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sessions []*types.ChatSession) ([]*types.ChatSession, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.ChatSession, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.ChatSession, error)
	Update(ctx context.Context, tx *gorm.DB, session *types.ChatSession) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error
	// NextSeq increments and returns the session's message sequence counter.
	// Runs as a single UPDATE ... RETURNING so concurrent senders cannot
	// allocate the same seq.
	NextSeq(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error)
}

type chatSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatSessionRepo(db *gorm.DB, baseLog *logger.Logger) ChatSessionRepo {
	return &chatSessionRepo{db: db, log: baseLog.With("repo", "ChatSessionRepo")}
}

func (sr *chatSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.ChatSession) ([]*types.ChatSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(sessions) == 0 {
		return []*types.ChatSession{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (sr *chatSessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.ChatSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.ChatSession
	if len(sessionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", sessionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *chatSessionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.ChatSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var results []*types.ChatSession
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_message_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *chatSessionRepo) Update(ctx context.Context, tx *gorm.DB, session *types.ChatSession) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if session == nil || session.ID == uuid.Nil {
		return nil
	}
	// next_seq is owned by NextSeq; saving a possibly stale in-memory value
	// here would rewind the counter.
	return transaction.WithContext(ctx).Omit("next_seq", "created_at").Save(session).Error
}

func (sr *chatSessionRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(sessionIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", sessionIDs).
		Delete(&types.ChatSession{}).Error
}

func (sr *chatSessionRepo) NextSeq(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var seq int64
	if err := transaction.WithContext(ctx).
		Raw(`UPDATE chat_session SET next_seq = next_seq + 1 WHERE id = ? RETURNING next_seq`, sessionID).
		Scan(&seq).Error; err != nil {
		return 0, err
	}
	return seq, nil
}
