package inventoryapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeanfly/flightdesk/domain"
)

func TestStream_SubscribesAndReceivesNotifications(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		// The client announces its topics first.
		var sub subscribeFrame
		require.NoError(t, conn.ReadJSON(&sub))
		assert.Equal(t, "subscribe", sub.Action)
		assert.Equal(t, TopicNotifications, sub.Topic)

		payload, _ := json.Marshal(domain.Notification{ID: "n1", Message: "stock low"})
		require.NoError(t, conn.WriteJSON(StreamMessage{Topic: TopicNotifications, Payload: payload}))

		// Keep the connection open until the client goes away.
		conn.ReadMessage()
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	stream := NewStream(wsURL, nil)
	defer stream.Close()

	received := make(chan domain.Notification, 1)
	stream.SubscribeNotifications(func(n domain.Notification) {
		received <- n
	})
	require.NoError(t, stream.Connect(context.Background()))

	select {
	case n := <-received:
		assert.Equal(t, "n1", n.ID)
		assert.Equal(t, "stock low", n.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("notification never arrived")
	}
}

func TestStream_IgnoresUnknownTopics(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var sub subscribeFrame
		require.NoError(t, conn.ReadJSON(&sub))

		require.NoError(t, conn.WriteJSON(StreamMessage{Topic: "/topic/other", Payload: json.RawMessage(`{}`)}))
		payload, _ := json.Marshal(domain.Notification{ID: "n2"})
		require.NoError(t, conn.WriteJSON(StreamMessage{Topic: TopicNotifications, Payload: payload}))
		conn.ReadMessage()
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	stream := NewStream(wsURL, nil)
	defer stream.Close()

	received := make(chan domain.Notification, 2)
	stream.SubscribeNotifications(func(n domain.Notification) { received <- n })
	require.NoError(t, stream.Connect(context.Background()))

	select {
	case n := <-received:
		assert.Equal(t, "n2", n.ID, "unknown topics are skipped, not fatal")
	case <-time.After(2 * time.Second):
		t.Fatal("notification never arrived")
	}
}

func TestStream_ConnectFailsFast(t *testing.T) {
	stream := NewStream("ws://127.0.0.1:1/ws", nil)
	defer stream.Close()
	assert.Error(t, stream.Connect(context.Background()))
}
