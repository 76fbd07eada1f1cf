package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/kapu/poketeam-kakao-bot-go/internal/adapter"
	"github.com/kapu/poketeam-kakao-bot-go/internal/command"
	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"github.com/kapu/poketeam-kakao-bot-go/internal/iris"
	"github.com/kapu/poketeam-kakao-bot-go/internal/pager"
	"go.uber.org/zap"
)

type Dependencies struct {
	Logger     *zap.Logger
	WS         *iris.WebSocket
	Adapter    *adapter.MessageAdapter
	Dispatcher command.Dispatcher
	Sessions   *pager.Manager
	Rooms      []string
	AdminUsers []string
}

// Bot is the event loop: it reads gateway messages, feeds navigation input to
// browse sessions, and dispatches parsed commands. Each command runs to
// completion on its own goroutine; the only place commands overlap in shared
// state is the roster cache, whose upsert is idempotent.
type Bot struct {
	deps   *Dependencies
	rooms  map[string]struct{}
	admins map[string]struct{}
}

func NewBot(deps *Dependencies) (*Bot, error) {
	if deps == nil || deps.WS == nil || deps.Adapter == nil || deps.Dispatcher == nil || deps.Sessions == nil {
		return nil, fmt.Errorf("bot dependencies not configured")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	rooms := make(map[string]struct{}, len(deps.Rooms))
	for _, room := range deps.Rooms {
		rooms[room] = struct{}{}
	}

	admins := make(map[string]struct{}, len(deps.AdminUsers))
	for _, admin := range deps.AdminUsers {
		admins[admin] = struct{}{}
	}

	return &Bot{deps: deps, rooms: rooms, admins: admins}, nil
}

// Start connects to the gateway and blocks until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.deps.WS.OnMessage(func(message *iris.Message) {
		b.handleMessage(ctx, message)
	})

	if err := b.deps.WS.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to gateway: %w", err)
	}

	b.deps.Logger.Info("Bot online",
		zap.Int("rooms", len(b.rooms)),
		zap.Int("admins", len(b.admins)),
	)

	<-ctx.Done()
	b.deps.WS.Disconnect()
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, message *iris.Message) {
	if message == nil || message.Msg == "" {
		return
	}
	if len(b.rooms) > 0 {
		if _, allowed := b.rooms[message.Room]; !allowed {
			return
		}
	}

	sender := message.SenderName()
	text := strings.TrimSpace(message.Msg)

	// Navigation replies belong to the sender's browse session, not to the
	// command surface.
	if b.deps.Sessions.HandleInput(message.Room, sender, text) {
		return
	}

	parsed := b.deps.Adapter.ParseMessage(message)
	if parsed.Type == domain.CommandUnknown {
		return
	}

	_, isAdmin := b.admins[sender]
	cmdCtx := domain.NewCommandContext(message.Room, sender, message.Msg, isAdmin)

	b.deps.Logger.Debug("Dispatching command",
		zap.String("command", parsed.Type.String()),
		zap.String("room", message.Room),
		zap.String("sender", sender),
	)

	b.deps.Dispatcher.Publish(ctx, cmdCtx, command.CommandEvent{
		Type:   parsed.Type,
		Params: parsed.Params,
	})
}
