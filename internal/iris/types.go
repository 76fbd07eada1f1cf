package iris

// Message is an inbound chat message pushed over the gateway's WebSocket.
type Message struct {
	Msg    string  `json:"msg"`
	Room   string  `json:"room"`
	Sender *string `json:"sender,omitempty"`
}

// SenderName returns the sender or "" when the gateway omitted it.
func (m *Message) SenderName() string {
	if m.Sender == nil {
		return ""
	}
	return *m.Sender
}

// ReplyRequest posts a text reply into a room.
type ReplyRequest struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Data string `json:"data"`
}

type WebSocketState string

const (
	WSStateConnecting   WebSocketState = "CONNECTING"
	WSStateConnected    WebSocketState = "CONNECTED"
	WSStateDisconnected WebSocketState = "DISCONNECTED"
	WSStateReconnecting WebSocketState = "RECONNECTING"
	WSStateFailed       WebSocketState = "FAILED"
)

func (s WebSocketState) String() string {
	return string(s)
}
