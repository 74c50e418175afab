package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/clients/redis"
	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/sse"
	"github.com/studyloop/studyloop-backend/internal/study"
	"github.com/studyloop/studyloop-backend/internal/types"
)

const (
	maxMessageLen       = 8000
	maxHistoryMessages  = 20
	responseCacheTTL    = 1 * time.Hour
	idempotencyClaimTTL = 2 * time.Minute
	sessionTitleMaxLen  = 60
)

const studyTemplateSystemPrompt = `You are a study assistant. Answer the student's question using EXACTLY this markdown layout:

*<restated question>*

## **<Subject>** | *<Topic>*

### Brief Answer
<one or two sentences>

### **Question:**
<the question>

### **Solution:**
Step 1: ...
Step 2: ...

### **💡 Tricks & Tips:**
- <tip>

Do not add sections, do not omit sections, do not rename headings.`

const conversationalSystemPrompt = `You are a friendly study assistant. Reply conversationally and briefly. Do not use the structured answer template.`

const failedAssistantMessage = "Sorry, I could not generate an answer right now. Please try sending your question again."

type SendMessageInput struct {
	SessionID      uuid.UUID
	Content        string
	IdempotencyKey string
}

type SendMessageResult struct {
	UserMessage      *types.ChatMessage `json:"user_message"`
	AssistantMessage *types.ChatMessage `json:"assistant_message"`
	Duplicate        bool               `json:"duplicate"`
}

type ChatService interface {
	CreateSession(ctx context.Context, userID uuid.UUID, title string) (*types.ChatSession, error)
	ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]*types.ChatSession, error)
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*types.ChatSession, error)
	DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error
	ListMessages(ctx context.Context, userID, sessionID uuid.UUID, limit int, beforeSeq *int64) ([]*types.ChatMessage, error)
	SendMessage(ctx context.Context, userID uuid.UUID, input SendMessageInput) (*SendMessageResult, error)
}

type chatService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.ChatSessionRepo
	messageRepo repos.ChatMessageRepo
	ai          AIClient
	cache       redis.Cache
	hub         *sse.SSEHub
	cardService CardService
	todoService TodoService
}

func NewChatService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sessionRepo repos.ChatSessionRepo,
	messageRepo repos.ChatMessageRepo,
	ai AIClient,
	cache redis.Cache,
	hub *sse.SSEHub,
	cardService CardService,
	todoService TodoService,
) ChatService {
	return &chatService{
		db:          db,
		log:         baseLog.With("service", "ChatService"),
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		ai:          ai,
		cache:       cache,
		hub:         hub,
		cardService: cardService,
		todoService: todoService,
	}
}

func (cs *chatService) CreateSession(ctx context.Context, userID uuid.UUID, title string) (*types.ChatSession, error) {
	title = strings.TrimSpace(title)
	untitled := title == ""
	if untitled {
		title = "New Study Session"
	}
	if len(title) > sessionTitleMaxLen {
		title = title[:sessionTitleMaxLen]
	}
	session := &types.ChatSession{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         title,
		Status:        "active",
		LastMessageAt: time.Now().UTC(),
	}
	if untitled {
		session.Metadata = mustJSON(map[string]any{"untitled": true})
	}
	created, err := cs.sessionRepo.Create(ctx, nil, []*types.ChatSession{session})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return created[0], nil
}

func (cs *chatService) ListSessions(ctx context.Context, userID uuid.UUID, limit int) ([]*types.ChatSession, error) {
	return cs.sessionRepo.ListByUser(ctx, nil, userID, limit)
}

func (cs *chatService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*types.ChatSession, error) {
	return cs.ownedSession(ctx, userID, sessionID)
}

func (cs *chatService) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	if _, err := cs.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := cs.sessionRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{sessionID}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	cs.hub.Broadcast(sse.SSEMessage{
		Channel: sse.UserChannel(userID),
		Event:   sse.SSEEventSessionDeleted,
		Data:    map[string]string{"session_id": sessionID.String()},
	})
	return nil
}

func (cs *chatService) ListMessages(ctx context.Context, userID, sessionID uuid.UUID, limit int, beforeSeq *int64) ([]*types.ChatMessage, error) {
	if _, err := cs.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return cs.messageRepo.ListBySession(ctx, nil, sessionID, limit, beforeSeq)
}

func (cs *chatService) SendMessage(ctx context.Context, userID uuid.UUID, input SendMessageInput) (*SendMessageResult, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, fmt.Errorf("message content required")
	}
	if len(content) > maxMessageLen {
		return nil, fmt.Errorf("message exceeds %d characters", maxMessageLen)
	}

	session, err := cs.ownedSession(ctx, userID, input.SessionID)
	if err != nil {
		return nil, err
	}

	if input.IdempotencyKey != "" {
		if existing, dupErr := cs.messageRepo.GetByIdempotencyKey(ctx, nil, session.ID, input.IdempotencyKey); dupErr == nil && existing != nil {
			assistant, aErr := cs.assistantReplyFor(ctx, session.ID, existing)
			if aErr != nil {
				return nil, aErr
			}
			return &SendMessageResult{UserMessage: existing, AssistantMessage: assistant, Duplicate: true}, nil
		}
		claimKey := session.ID.String() + ":" + input.IdempotencyKey
		if !cs.cache.ClaimIdempotencyKey(ctx, claimKey, idempotencyClaimTTL) {
			return nil, fmt.Errorf("duplicate send in progress")
		}
	}

	history, err := cs.messageRepo.ListBySession(ctx, nil, session.ID, maxHistoryMessages, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	educational := study.IsEducationalQuery(content)
	var subjectTopic study.SubjectTopic
	var question string
	if educational {
		subjectTopic = study.DetectSubjectAndTopic(content)
		question = study.ExtractQuestion(content)
	}

	userMsg, err := cs.persistMessage(ctx, session, userID, types.ChatRoleUser, content, func(m *types.ChatMessage) {
		m.Educational = educational
		m.Subject = subjectTopic.Subject
		m.Topic = subjectTopic.Topic
		if input.IdempotencyKey != "" {
			m.Metadata = mustJSON(map[string]any{"idempotency_key": input.IdempotencyKey})
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	aiMessages := cs.buildPrompt(educational, subjectTopic, question, history, content)

	responseText, usedModel, cacheHit := cs.completeWithCache(ctx, aiMessages)
	aiFailed := false
	if responseText == "" {
		completion, aiErr := cs.ai.Chat(ctx, aiMessages, nil)
		if aiErr != nil {
			// The user message is already persisted; a hard error here would
			// strand the exchange. Persist an apologetic reply instead so the
			// conversation stays consistent and the client can resend.
			cs.log.Error("Assistant completion failed on every model", "session_id", session.ID, "error", aiErr)
			responseText = failedAssistantMessage
			aiFailed = true
		} else {
			responseText = completion.Content
			usedModel = completion.Model
			cs.cache.SetResponse(ctx, promptCacheKey(aiMessages), responseText, responseCacheTTL)
		}
	}

	repaired := false
	if educational && !aiFailed && !study.IsTemplateCompliant(responseText) {
		responseText = study.RepairResponse(subjectTopic.Subject, subjectTopic.Topic, question, responseText)
		repaired = true
	}

	assistantMsg, err := cs.persistMessage(ctx, session, userID, types.ChatRoleAssistant, responseText, func(m *types.ChatMessage) {
		m.Educational = educational
		m.Subject = subjectTopic.Subject
		m.Topic = subjectTopic.Topic
		m.Repaired = repaired
		meta := map[string]any{"reply_to": userMsg.ID.String()}
		if usedModel != "" {
			meta["model"] = usedModel
		}
		if cacheHit {
			meta["cache_hit"] = true
		}
		if aiFailed {
			meta["failed"] = true
		}
		m.Metadata = mustJSON(meta)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}

	cs.touchSession(ctx, session, content)

	cs.hub.Broadcast(sse.SSEMessage{
		Channel: sse.UserChannel(userID),
		Event:   sse.SSEEventAssistantMessage,
		Data:    assistantMsg,
	})

	if educational && !aiFailed {
		cs.fanOut(ctx, userID, session.ID, userMsg, assistantMsg, question)
	}

	cs.log.Info("Message exchange completed",
		"session_id", session.ID,
		"educational", educational,
		"repaired", repaired,
		"cache_hit", cacheHit,
	)
	return &SendMessageResult{UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

func (cs *chatService) ownedSession(ctx context.Context, userID, sessionID uuid.UUID) (*types.ChatSession, error) {
	sessions, err := cs.sessionRepo.GetByIDs(ctx, nil, []uuid.UUID{sessionID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	if len(sessions) == 0 || sessions[0] == nil {
		return nil, fmt.Errorf("session not found")
	}
	session := sessions[0]
	if session.UserID != userID {
		return nil, fmt.Errorf("session not found")
	}
	return session, nil
}

func (cs *chatService) persistMessage(ctx context.Context, session *types.ChatSession, userID uuid.UUID, role, content string, decorate func(*types.ChatMessage)) (*types.ChatMessage, error) {
	var out *types.ChatMessage
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, seqErr := cs.sessionRepo.NextSeq(ctx, tx, session.ID)
		if seqErr != nil {
			return seqErr
		}
		msg := &types.ChatMessage{
			ID:        uuid.New(),
			SessionID: session.ID,
			UserID:    userID,
			Role:      role,
			Content:   content,
			Seq:       seq,
			CreatedAt: time.Now().UTC(),
		}
		if decorate != nil {
			decorate(msg)
		}
		created, cErr := cs.messageRepo.Create(ctx, tx, []*types.ChatMessage{msg})
		if cErr != nil {
			return cErr
		}
		out = created[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *chatService) buildPrompt(educational bool, st study.SubjectTopic, question string, history []*types.ChatMessage, content string) []AIMessage {
	system := conversationalSystemPrompt
	if educational {
		system = studyTemplateSystemPrompt +
			fmt.Sprintf("\n\nSubject: %s\nTopic: %s\nQuestion: %s", st.Subject, st.Topic, question)
	}

	messages := make([]AIMessage, 0, len(history)+2)
	messages = append(messages, AIMessage{Role: "system", Content: system})
	for _, h := range history {
		messages = append(messages, AIMessage{Role: h.Role, Content: h.Content})
	}
	messages = append(messages, AIMessage{Role: types.ChatRoleUser, Content: content})
	return messages
}

func (cs *chatService) completeWithCache(ctx context.Context, messages []AIMessage) (text, model string, hit bool) {
	cached, ok := cs.cache.GetResponse(ctx, promptCacheKey(messages))
	if !ok {
		return "", "", false
	}
	return cached, "", true
}

func (cs *chatService) touchSession(ctx context.Context, session *types.ChatSession, firstContent string) {
	session.LastMessageAt = time.Now().UTC()
	if sessionUntitled(session) {
		title := strings.TrimSpace(firstContent)
		if len(title) > sessionTitleMaxLen {
			title = title[:sessionTitleMaxLen]
		}
		if title != "" {
			session.Title = title
			session.Metadata = mustJSON(map[string]any{"untitled": false})
		}
	}
	if err := cs.sessionRepo.Update(ctx, nil, session); err != nil {
		cs.log.Warn("Failed to update session activity", "session_id", session.ID, "error", err)
	}
}

// sessionUntitled reports whether the session still carries its placeholder
// title. Tracked as a metadata flag so a user naming their session exactly
// "New Study Session" keeps that name.
func sessionUntitled(session *types.ChatSession) bool {
	if len(session.Metadata) == 0 {
		return false
	}
	var meta struct {
		Untitled bool `json:"untitled"`
	}
	if err := json.Unmarshal(session.Metadata, &meta); err != nil {
		return false
	}
	return meta.Untitled
}

// fanOut derives a concept card and study-plan todos from the exchange. Both
// are best-effort; a failure is logged and never surfaces to the sender.
func (cs *chatService) fanOut(ctx context.Context, userID, sessionID uuid.UUID, userMsg, assistantMsg *types.ChatMessage, question string) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, cardErr := cs.cardService.GenerateFromExchange(gctx, userID, sessionID, question, userMsg.Content, assistantMsg.Content)
		return cardErr
	})
	g.Go(func() error {
		_, todoErr := cs.todoService.ExtractFromResponse(gctx, userID, sessionID, assistantMsg.Content)
		return todoErr
	})
	if err := g.Wait(); err != nil {
		cs.log.Warn("Post-exchange generation failed", "session_id", sessionID, "error", err)
	}
}

func (cs *chatService) assistantReplyFor(ctx context.Context, sessionID uuid.UUID, userMsg *types.ChatMessage) (*types.ChatMessage, error) {
	after := userMsg.Seq
	msgs, err := cs.messageRepo.ListBySession(ctx, nil, sessionID, maxHistoryMessages, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	for _, m := range msgs {
		if m.Role == types.ChatRoleAssistant && m.Seq > after {
			return m, nil
		}
	}
	return nil, nil
}

func promptCacheKey(messages []AIMessage) string {
	h := sha256.New()
	for _, m := range messages {
		h.Write([]byte(m.Role))
		h.Write([]byte{0})
		h.Write([]byte(m.Content))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func mustJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(raw)
}
