package sse

import (
	"testing"

	"github.com/google/uuid"

	"github.com/studyloop/studyloop-backend/internal/logger"
)

func newTestHub(t *testing.T) *SSEHub {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return NewSSEHub(log)
}

func TestBroadcastReachesSubscriber(t *testing.T) {
	hub := newTestHub(t)
	userID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, UserChannel(userID))

	hub.Broadcast(SSEMessage{
		Channel: UserChannel(userID),
		Event:   SSEEventAssistantMessage,
		Data:    "payload",
	})

	select {
	case msg := <-client.Outbound:
		if msg.Event != SSEEventAssistantMessage {
			t.Errorf("got event %q, want AssistantMessage", msg.Event)
		}
	default:
		t.Fatalf("subscriber should have received the broadcast")
	}
}

func TestBroadcastSkipsOtherChannels(t *testing.T) {
	hub := newTestHub(t)
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, UserChannel(client.UserID))

	hub.Broadcast(SSEMessage{
		Channel: UserChannel(uuid.New()),
		Event:   SSEEventTodoCreated,
	})

	select {
	case <-client.Outbound:
		t.Fatalf("broadcast on another channel should not reach this client")
	default:
	}
}

func TestCloseClientTearsDownSubscription(t *testing.T) {
	hub := newTestHub(t)
	userID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, UserChannel(userID))

	hub.CloseClient(client)

	select {
	case <-client.done:
	default:
		t.Errorf("done channel should be closed")
	}
	if _, open := <-client.Outbound; open {
		t.Errorf("outbound channel should be closed")
	}

	// A broadcast after teardown must not reach or panic on the closed client.
	hub.Broadcast(SSEMessage{
		Channel: UserChannel(userID),
		Event:   SSEEventCardCreated,
	})

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if len(hub.subscriptions) != 0 {
		t.Errorf("closed client should be unsubscribed from every channel")
	}
}
