package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/sse"
	"github.com/studyloop/studyloop-backend/internal/study"
	"github.com/studyloop/studyloop-backend/internal/types"
)

const cardTitleMaxLen = 80

type CardService interface {
	// GenerateFromExchange turns a question/answer pair into a stored concept
	// card categorized for the four-bucket library UI.
	GenerateFromExchange(ctx context.Context, userID, sessionID uuid.UUID, question, query, content string) (*types.ConceptCard, error)
	ListCards(ctx context.Context, userID uuid.UUID, category string, limit int) ([]*types.ConceptCard, error)
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*types.ConceptCard, error)
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
}

type cardService struct {
	db       *gorm.DB
	log      *logger.Logger
	cardRepo repos.ConceptCardRepo
	hub      *sse.SSEHub
}

func NewCardService(db *gorm.DB, baseLog *logger.Logger, cardRepo repos.ConceptCardRepo, hub *sse.SSEHub) CardService {
	return &cardService{
		db:       db,
		log:      baseLog.With("service", "CardService"),
		cardRepo: cardRepo,
		hub:      hub,
	}
}

func (cs *cardService) GenerateFromExchange(ctx context.Context, userID, sessionID uuid.UUID, question, query, content string) (*types.ConceptCard, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("card content required")
	}

	title := strings.TrimSpace(question)
	if title == "" {
		title = strings.TrimSpace(query)
	}
	title = clipTitle(title)
	if title == "" {
		title = "Study Note"
	}

	category := study.DetermineCategory(title, query, content)

	sid := sessionID
	card := &types.ConceptCard{
		ID:        uuid.New(),
		UserID:    userID,
		SessionID: &sid,
		Title:     title,
		Content:   content,
		Category:  string(category),
	}
	created, err := cs.cardRepo.Create(ctx, nil, []*types.ConceptCard{card})
	if err != nil {
		return nil, fmt.Errorf("failed to create concept card: %w", err)
	}

	cs.hub.Broadcast(sse.SSEMessage{
		Channel: sse.UserChannel(userID),
		Event:   sse.SSEEventCardCreated,
		Data:    created[0],
	})
	cs.log.Info("Concept card created", "card_id", created[0].ID, "category", category)
	return created[0], nil
}

func (cs *cardService) ListCards(ctx context.Context, userID uuid.UUID, category string, limit int) ([]*types.ConceptCard, error) {
	return cs.cardRepo.ListByUser(ctx, nil, userID, category, limit)
}

func (cs *cardService) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*types.ConceptCard, error) {
	cards, err := cs.cardRepo.GetByIDs(ctx, nil, []uuid.UUID{cardID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch card: %w", err)
	}
	if len(cards) == 0 || cards[0] == nil || cards[0].UserID != userID {
		return nil, fmt.Errorf("card not found")
	}
	return cards[0], nil
}

func (cs *cardService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if _, err := cs.GetCard(ctx, userID, cardID); err != nil {
		return err
	}
	return cs.cardRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{cardID})
}

func clipTitle(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= cardTitleMaxLen {
		return s
	}
	clipped := s[:cardTitleMaxLen]
	if idx := strings.LastIndex(clipped, " "); idx > cardTitleMaxLen/2 {
		clipped = clipped[:idx]
	}
	return clipped + "..."
}
