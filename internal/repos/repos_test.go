package repos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

var repoTestDDL = []string{
	`CREATE TABLE "user" (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		name TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at DATETIME
	)`,
	`CREATE TABLE chat_session (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		metadata TEXT,
		next_seq INTEGER NOT NULL DEFAULT 0,
		last_message_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at DATETIME
	)`,
	`CREATE TABLE chat_message (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		seq INTEGER NOT NULL,
		subject TEXT,
		topic TEXT,
		educational INTEGER NOT NULL DEFAULT 0,
		repaired INTEGER NOT NULL DEFAULT 0,
		metadata TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE concept_card (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		session_id TEXT,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		category TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at DATETIME
	)`,
	`CREATE TABLE todo_item (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		session_id TEXT,
		content TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		done INTEGER NOT NULL DEFAULT 0,
		source TEXT NOT NULL DEFAULT 'user',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at DATETIME
	)`,
}

func newRepoTestDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	for _, stmt := range repoTestDDL {
		if err := gdb.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return gdb, log
}

func seedSession(t *testing.T, repo ChatSessionRepo, userID uuid.UUID) *types.ChatSession {
	t.Helper()
	created, err := repo.Create(context.Background(), nil, []*types.ChatSession{{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         "seeded",
		Status:        "active",
		LastMessageAt: time.Now().UTC(),
	}})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return created[0]
}

func TestChatSessionNextSeq(t *testing.T) {
	gdb, log := newRepoTestDB(t)
	repo := NewChatSessionRepo(gdb, log)
	ctx := context.Background()
	session := seedSession(t, repo, uuid.New())

	for want := int64(1); want <= 5; want++ {
		seq, err := repo.NextSeq(ctx, nil, session.ID)
		if err != nil {
			t.Fatalf("NextSeq: %v", err)
		}
		if seq != want {
			t.Fatalf("got seq %d, want %d", seq, want)
		}
	}
}

func TestChatSessionSoftDeleteHidesFromList(t *testing.T) {
	gdb, log := newRepoTestDB(t)
	repo := NewChatSessionRepo(gdb, log)
	ctx := context.Background()
	userID := uuid.New()
	session := seedSession(t, repo, userID)

	if err := repo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{session.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	sessions, err := repo.ListByUser(ctx, nil, userID, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("soft deleted session should not list, got %d", len(sessions))
	}
	fetched, err := repo.GetByIDs(ctx, nil, []uuid.UUID{session.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(fetched) != 0 {
		t.Errorf("soft deleted session should not fetch, got %d", len(fetched))
	}
}

func TestChatMessagePaging(t *testing.T) {
	gdb, log := newRepoTestDB(t)
	sessionRepo := NewChatSessionRepo(gdb, log)
	messageRepo := NewChatMessageRepo(gdb, log)
	ctx := context.Background()
	userID := uuid.New()
	session := seedSession(t, sessionRepo, userID)

	for i := 1; i <= 10; i++ {
		seq, err := sessionRepo.NextSeq(ctx, nil, session.ID)
		if err != nil {
			t.Fatalf("NextSeq: %v", err)
		}
		if _, err := messageRepo.Create(ctx, nil, []*types.ChatMessage{{
			ID:        uuid.New(),
			SessionID: session.ID,
			UserID:    userID,
			Role:      types.ChatRoleUser,
			Content:   fmt.Sprintf("message %d", i),
			Seq:       seq,
		}}); err != nil {
			t.Fatalf("Create message: %v", err)
		}
	}

	latest, err := messageRepo.ListBySession(ctx, nil, session.ID, 3, nil)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(latest) != 3 {
		t.Fatalf("got %d messages, want 3", len(latest))
	}
	if latest[0].Seq != 8 || latest[2].Seq != 10 {
		t.Errorf("latest page should be seqs 8..10 ascending, got %d..%d", latest[0].Seq, latest[2].Seq)
	}

	cursor := latest[0].Seq
	prev, err := messageRepo.ListBySession(ctx, nil, session.ID, 3, &cursor)
	if err != nil {
		t.Fatalf("ListBySession with cursor: %v", err)
	}
	if len(prev) != 3 {
		t.Fatalf("got %d messages, want 3", len(prev))
	}
	if prev[0].Seq != 5 || prev[2].Seq != 7 {
		t.Errorf("previous page should be seqs 5..7 ascending, got %d..%d", prev[0].Seq, prev[2].Seq)
	}
}

func TestConceptCardCategoryFilter(t *testing.T) {
	gdb, log := newRepoTestDB(t)
	repo := NewConceptCardRepo(gdb, log)
	ctx := context.Background()
	userID := uuid.New()

	for _, category := range []string{"Physics", "Physics", "Chemistry"} {
		if _, err := repo.Create(ctx, nil, []*types.ConceptCard{{
			ID:       uuid.New(),
			UserID:   userID,
			Title:    category + " card",
			Content:  "content",
			Category: category,
		}}); err != nil {
			t.Fatalf("Create card: %v", err)
		}
	}

	physics, err := repo.ListByUser(ctx, nil, userID, "Physics", 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(physics) != 2 {
		t.Errorf("got %d physics cards, want 2", len(physics))
	}
	all, err := repo.ListByUser(ctx, nil, userID, "", 0)
	if err != nil {
		t.Fatalf("ListByUser all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d cards, want 3", len(all))
	}
}

func TestTodoHashExists(t *testing.T) {
	gdb, log := newRepoTestDB(t)
	repo := NewTodoItemRepo(gdb, log)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := repo.Create(ctx, nil, []*types.TodoItem{{
		ID:          uuid.New(),
		UserID:      userID,
		Content:     "solve practice problems",
		ContentHash: "hash-1",
	}}); err != nil {
		t.Fatalf("Create todo: %v", err)
	}

	exists, err := repo.HashExists(ctx, nil, userID, "hash-1")
	if err != nil {
		t.Fatalf("HashExists: %v", err)
	}
	if !exists {
		t.Errorf("stored hash should exist")
	}
	exists, err = repo.HashExists(ctx, nil, userID, "hash-2")
	if err != nil {
		t.Fatalf("HashExists: %v", err)
	}
	if exists {
		t.Errorf("unknown hash should not exist")
	}
	exists, err = repo.HashExists(ctx, nil, uuid.New(), "hash-1")
	if err != nil {
		t.Fatalf("HashExists: %v", err)
	}
	if exists {
		t.Errorf("hash scope is per user")
	}
}

func TestUserEmailExists(t *testing.T) {
	gdb, log := newRepoTestDB(t)
	repo := NewUserRepo(gdb, log)
	ctx := context.Background()

	if _, err := repo.Create(ctx, nil, []*types.User{{
		ID:       uuid.New(),
		Email:    "someone@example.com",
		Password: "hashed",
	}}); err != nil {
		t.Fatalf("Create user: %v", err)
	}

	exists, err := repo.EmailExists(ctx, nil, "someone@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Errorf("stored email should exist")
	}
	exists, err = repo.EmailExists(ctx, nil, "nobody@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if exists {
		t.Errorf("unknown email should not exist")
	}
}
