package inventoryapi

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/andeanfly/flightdesk/domain"
	"github.com/andeanfly/flightdesk/log"
)

// Topics the inventory broker publishes on.
const (
	TopicNotifications = "/topic/notifications"
	TopicActivity      = "/topic/activity"
)

// reconnectDelay matches the broker's advertised client backoff.
const reconnectDelay = 5 * time.Second

// StreamMessage is one frame on the push channel.
type StreamMessage struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

type subscribeFrame struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// Stream is the live push channel for inventory notifications. The
// client only subscribes to named topics and renders what arrives; the
// broker's internals are out of scope.
type Stream struct {
	url    string
	logger log.Logger

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[string][]func(json.RawMessage)

	closeOnce sync.Once
	done      chan struct{}
}

// NewStream creates a stream client for the given websocket URL.
func NewStream(url string, logger log.Logger) *Stream {
	if logger == nil {
		logger = log.Nop()
	}
	return &Stream{
		url:      url,
		logger:   logger,
		handlers: make(map[string][]func(json.RawMessage)),
		done:     make(chan struct{}),
	}
}

// Subscribe registers a handler for a topic. Call before Connect;
// subscriptions are replayed to the broker on every (re)connect.
func (s *Stream) Subscribe(topic string, handler func(json.RawMessage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[topic] = append(s.handlers[topic], handler)
}

// SubscribeNotifications registers a typed handler on the notifications
// topic.
func (s *Stream) SubscribeNotifications(handler func(domain.Notification)) {
	s.Subscribe(TopicNotifications, func(payload json.RawMessage) {
		var n domain.Notification
		if err := json.Unmarshal(payload, &n); err != nil {
			s.logger.Warn(context.Background(), "dropping undecodable notification", map[string]interface{}{"error": err.Error()})
			return
		}
		handler(n)
	})
}

// Connect dials the broker and starts the read loop. It keeps
// reconnecting with a fixed delay until Close or context cancellation.
func (s *Stream) Connect(ctx context.Context) error {
	conn, err := s.dial(ctx)
	if err != nil {
		return err
	}
	go s.readLoop(ctx, conn)
	return nil
}

func (s *Stream) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.conn = conn
	topics := make([]string, 0, len(s.handlers))
	for topic := range s.handlers {
		topics = append(topics, topic)
	}
	s.mu.Unlock()

	for _, topic := range topics {
		if err := conn.WriteJSON(subscribeFrame{Action: "subscribe", Topic: topic}); err != nil {
			conn.Close()
			return nil, err
		}
	}
	s.logger.Info(ctx, "notification stream connected", map[string]interface{}{"url": s.url})
	return conn, nil
}

func (s *Stream) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			conn.Close()
			select {
			case <-s.done:
				return
			case <-ctx.Done():
				return
			case <-time.After(reconnectDelay):
			}
			next, dialErr := s.dial(ctx)
			if dialErr != nil {
				s.logger.Warn(ctx, "stream reconnect failed", map[string]interface{}{"error": dialErr.Error()})
				continue
			}
			conn = next
			continue
		}
		s.dispatch(msg)
	}
}

func (s *Stream) dispatch(msg StreamMessage) {
	s.mu.Lock()
	handlers := append([]func(json.RawMessage){}, s.handlers[msg.Topic]...)
	s.mu.Unlock()
	for _, h := range handlers {
		h(msg.Payload)
	}
}

// Close tears the stream down.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		if s.conn != nil {
			s.conn.Close()
		}
		s.mu.Unlock()
	})
}
