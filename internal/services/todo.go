package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/sse"
	"github.com/studyloop/studyloop-backend/internal/types"
)

const maxExtractedTodos = 5

type TodoService interface {
	CreateTodo(ctx context.Context, userID uuid.UUID, content string) (*types.TodoItem, error)
	ListTodos(ctx context.Context, userID uuid.UUID, includeDone bool, limit int) ([]*types.TodoItem, error)
	SetDone(ctx context.Context, userID, todoID uuid.UUID, done bool) (*types.TodoItem, error)
	DeleteTodo(ctx context.Context, userID, todoID uuid.UUID) error
	// ExtractFromResponse lifts "Step N:" lines out of an assistant answer
	// into pending study tasks, deduped per user by content hash.
	ExtractFromResponse(ctx context.Context, userID, sessionID uuid.UUID, response string) ([]*types.TodoItem, error)
}

type todoService struct {
	db       *gorm.DB
	log      *logger.Logger
	todoRepo repos.TodoItemRepo
	hub      *sse.SSEHub
}

func NewTodoService(db *gorm.DB, baseLog *logger.Logger, todoRepo repos.TodoItemRepo, hub *sse.SSEHub) TodoService {
	return &todoService{
		db:       db,
		log:      baseLog.With("service", "TodoService"),
		todoRepo: todoRepo,
		hub:      hub,
	}
}

func (ts *todoService) CreateTodo(ctx context.Context, userID uuid.UUID, content string) (*types.TodoItem, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("todo content required")
	}
	item := &types.TodoItem{
		ID:          uuid.New(),
		UserID:      userID,
		Content:     content,
		ContentHash: hashTodoContent(content),
		Source:      types.TodoSourceUser,
	}
	created, err := ts.todoRepo.Create(ctx, nil, []*types.TodoItem{item})
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return created[0], nil
}

func (ts *todoService) ListTodos(ctx context.Context, userID uuid.UUID, includeDone bool, limit int) ([]*types.TodoItem, error) {
	return ts.todoRepo.ListByUser(ctx, nil, userID, includeDone, limit)
}

func (ts *todoService) SetDone(ctx context.Context, userID, todoID uuid.UUID, done bool) (*types.TodoItem, error) {
	item, err := ts.ownedTodo(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}
	item.Done = done
	item.UpdatedAt = time.Now().UTC()
	if err := ts.todoRepo.Update(ctx, nil, item); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return item, nil
}

func (ts *todoService) DeleteTodo(ctx context.Context, userID, todoID uuid.UUID) error {
	if _, err := ts.ownedTodo(ctx, userID, todoID); err != nil {
		return err
	}
	return ts.todoRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{todoID})
}

func (ts *todoService) ExtractFromResponse(ctx context.Context, userID, sessionID uuid.UUID, response string) ([]*types.TodoItem, error) {
	steps := extractStepLines(response)
	if len(steps) == 0 {
		return nil, nil
	}

	sid := sessionID
	var created []*types.TodoItem
	for _, step := range steps {
		hash := hashTodoContent(step)
		exists, err := ts.todoRepo.HashExists(ctx, nil, userID, hash)
		if err != nil {
			return created, fmt.Errorf("failed to check todo dedupe: %w", err)
		}
		if exists {
			continue
		}
		item := &types.TodoItem{
			ID:          uuid.New(),
			UserID:      userID,
			SessionID:   &sid,
			Content:     step,
			ContentHash: hash,
			Source:      types.TodoSourceAssistant,
		}
		out, err := ts.todoRepo.Create(ctx, nil, []*types.TodoItem{item})
		if err != nil {
			return created, fmt.Errorf("failed to create extracted todo: %w", err)
		}
		created = append(created, out[0])
		ts.hub.Broadcast(sse.SSEMessage{
			Channel: sse.UserChannel(userID),
			Event:   sse.SSEEventTodoCreated,
			Data:    out[0],
		})
	}
	if len(created) > 0 {
		ts.log.Info("Extracted study tasks from response", "count", len(created))
	}
	return created, nil
}

func (ts *todoService) ownedTodo(ctx context.Context, userID, todoID uuid.UUID) (*types.TodoItem, error) {
	items, err := ts.todoRepo.GetByIDs(ctx, nil, []uuid.UUID{todoID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch todo: %w", err)
	}
	if len(items) == 0 || items[0] == nil || items[0].UserID != userID {
		return nil, fmt.Errorf("todo not found")
	}
	return items[0], nil
}

// extractStepLines returns the text after "Step N:" for each numbered step
// line, in document order, capped at maxExtractedTodos.
func extractStepLines(response string) []string {
	var steps []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Step ") {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		body := strings.TrimSpace(line[idx+1:])
		if body == "" {
			continue
		}
		steps = append(steps, body)
		if len(steps) >= maxExtractedTodos {
			break
		}
	}
	return steps
}

func hashTodoContent(content string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(content), " "))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
