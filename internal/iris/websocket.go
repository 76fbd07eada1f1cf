package iris

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type MessageCallback func(message *Message)

// WebSocket subscribes to the gateway's message stream and feeds inbound
// messages to a single callback. Reconnects with a fixed delay up to
// maxReconnectAttempts.
type WebSocket struct {
	wsURL                string
	conn                 *websocket.Conn
	state                WebSocketState
	stateMu              sync.RWMutex
	onMessage            MessageCallback
	reconnectAttempts    int
	maxReconnectAttempts int
	reconnectDelay       time.Duration
	logger               *zap.Logger
	stopCh               chan struct{}
	stopOnce             sync.Once
	listenerWg           sync.WaitGroup
}

func NewWebSocket(wsURL string, maxReconnectAttempts int, reconnectDelay time.Duration, logger *zap.Logger) *WebSocket {
	return &WebSocket{
		wsURL:                wsURL,
		state:                WSStateDisconnected,
		maxReconnectAttempts: maxReconnectAttempts,
		reconnectDelay:       reconnectDelay,
		logger:               logger,
		stopCh:               make(chan struct{}),
	}
}

// OnMessage sets the inbound message callback. Must be called before Connect.
func (ws *WebSocket) OnMessage(callback MessageCallback) {
	ws.onMessage = callback
}

func (ws *WebSocket) Connect(ctx context.Context) error {
	ws.stateMu.Lock()
	if ws.state == WSStateConnected || ws.state == WSStateConnecting {
		ws.stateMu.Unlock()
		ws.logger.Warn("WebSocket already connected or connecting")
		return nil
	}
	ws.stateMu.Unlock()

	ws.setState(WSStateConnecting)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, ws.wsURL, nil)
	if err != nil {
		ws.logger.Error("Failed to connect WebSocket", zap.Error(err))
		ws.setState(WSStateFailed)
		ws.scheduleReconnect(ctx)
		return err
	}

	ws.conn = conn
	ws.setState(WSStateConnected)
	ws.reconnectAttempts = 0

	ws.logger.Info("WebSocket connected", zap.String("url", ws.wsURL))

	ws.listenerWg.Add(1)
	go ws.listen(ctx)

	return nil
}

func (ws *WebSocket) listen(ctx context.Context) {
	defer ws.listenerWg.Done()
	defer ws.logger.Info("WebSocket listener stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ws.stopCh:
			return
		default:
			if ws.conn == nil {
				return
			}

			_, msgBytes, err := ws.conn.ReadMessage()
			if err != nil {
				ws.logger.Error("WebSocket read error", zap.Error(err))
				ws.setState(WSStateDisconnected)
				ws.scheduleReconnect(ctx)
				return
			}

			ws.handleMessage(msgBytes)
		}
	}
}

func (ws *WebSocket) handleMessage(msgBytes []byte) {
	var message Message
	if err := json.Unmarshal(msgBytes, &message); err != nil {
		ws.logger.Warn("Failed to decode gateway message", zap.Error(err))
		return
	}

	if ws.onMessage != nil {
		ws.onMessage(&message)
	}
}

func (ws *WebSocket) scheduleReconnect(ctx context.Context) {
	select {
	case <-ws.stopCh:
		return
	default:
	}

	if ws.maxReconnectAttempts > 0 && ws.reconnectAttempts >= ws.maxReconnectAttempts {
		ws.logger.Error("WebSocket reconnect attempts exhausted",
			zap.Int("attempts", ws.reconnectAttempts))
		ws.setState(WSStateFailed)
		return
	}

	ws.reconnectAttempts++
	ws.setState(WSStateReconnecting)

	ws.logger.Info("Scheduling WebSocket reconnect",
		zap.Int("attempt", ws.reconnectAttempts),
		zap.Duration("delay", ws.reconnectDelay),
	)

	go func() {
		select {
		case <-ctx.Done():
			return
		case <-ws.stopCh:
			return
		case <-time.After(ws.reconnectDelay):
		}

		ws.stateMu.Lock()
		ws.state = WSStateDisconnected
		ws.stateMu.Unlock()

		if err := ws.Connect(ctx); err != nil {
			ws.logger.Warn("WebSocket reconnect failed", zap.Error(err))
		}
	}()
}

func (ws *WebSocket) Disconnect() {
	ws.stopOnce.Do(func() {
		close(ws.stopCh)
		if ws.conn != nil {
			_ = ws.conn.Close()
		}
		ws.listenerWg.Wait()
		ws.setState(WSStateDisconnected)
		ws.logger.Info("WebSocket disconnected")
	})
}

func (ws *WebSocket) State() WebSocketState {
	ws.stateMu.RLock()
	defer ws.stateMu.RUnlock()
	return ws.state
}

func (ws *WebSocket) setState(state WebSocketState) {
	ws.stateMu.Lock()
	ws.state = state
	ws.stateMu.Unlock()
}
