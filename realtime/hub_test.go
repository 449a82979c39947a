package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func insertEvent(t *testing.T, id int) []byte {
	t.Helper()
	msg, err := json.Marshal(Message{
		Type:    EventCoachSubmissionInserted,
		Payload: map[string]interface{}{"id": id, "name": "Coach"},
		RoomID:  RoomCoachSubmissions,
	})
	require.NoError(t, err)
	return msg
}

func TestShouldSend(t *testing.T) {
	client := &Client{SeenIDs: map[int]struct{}{1: {}, 2: {}}}

	t.Run("insert for a snapshot record is suppressed", func(t *testing.T) {
		require.False(t, client.ShouldSend(insertEvent(t, 1)))
		require.False(t, client.ShouldSend(insertEvent(t, 2)))
	})

	t.Run("insert for a new record passes", func(t *testing.T) {
		require.True(t, client.ShouldSend(insertEvent(t, 3)))
	})

	t.Run("non-insert events always pass", func(t *testing.T) {
		msg, err := json.Marshal(Message{Type: EventSnapshot, Payload: nil})
		require.NoError(t, err)
		require.True(t, client.ShouldSend(msg))
	})

	t.Run("client without snapshot passes everything", func(t *testing.T) {
		fresh := &Client{}
		require.True(t, fresh.ShouldSend(insertEvent(t, 1)))
	})

	t.Run("unparseable payload passes rather than drops", func(t *testing.T) {
		require.True(t, client.ShouldSend([]byte("not json")))
	})
}

func TestBroadcastToRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		Hub:  hub,
		Send: make(chan []byte, 8),
		Room: RoomCoachSubmissions,
	}
	hub.Register <- client
	// Даём Run обработать регистрацию до первой рассылки.
	time.Sleep(50 * time.Millisecond)

	hub.BroadcastToRoom(RoomCoachSubmissions, Message{
		Type:    EventCoachSubmissionInserted,
		Payload: map[string]interface{}{"id": 5},
		RoomID:  RoomCoachSubmissions,
	})

	select {
	case raw := <-client.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		require.Equal(t, EventCoachSubmissionInserted, msg.Type)
	default:
		t.Fatal("expected a broadcast message in the client queue")
	}

	// Сообщение в чужую комнату не доставляется.
	hub.BroadcastToRoom("other_room", Message{Type: EventSnapshot})
	require.Empty(t, client.Send)
}
