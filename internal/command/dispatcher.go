package command

import (
	"context"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

// CommandEvent is one command occurrence ready for execution.
type CommandEvent struct {
	Type   domain.CommandType
	Params map[string]any
}

type Dispatcher interface {
	Publish(ctx context.Context, cmdCtx *domain.CommandContext, events ...CommandEvent) int
}

// asyncDispatcher runs each command event on its own goroutine. Commands that
// resolve many uncached pastes can take a while; running them off the gateway
// loop keeps other commands and browse sessions responsive.
type asyncDispatcher struct {
	registry *Registry
	logger   *zap.Logger
}

// NewAsyncDispatcher creates a dispatcher that executes command events
// concurrently with each other.
func NewAsyncDispatcher(registry *Registry, logger *zap.Logger) Dispatcher {
	return &asyncDispatcher{registry: registry, logger: logger}
}

// Publish launches the valid events and returns how many were started.
func (d *asyncDispatcher) Publish(ctx context.Context, cmdCtx *domain.CommandContext, events ...CommandEvent) int {
	if d == nil || d.registry == nil {
		return 0
	}

	started := 0
	for _, event := range events {
		if event.Type == domain.CommandUnknown {
			continue
		}

		params := cloneParams(event.Params)
		key := event.Type.String()

		go func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("Command handler panicked",
						zap.String("command", key),
						zap.Any("panic", r),
					)
				}
			}()

			if err := d.registry.Execute(ctx, cmdCtx, key, params); err != nil {
				d.logger.Error("Command execution failed",
					zap.String("command", key),
					zap.String("room", cmdCtx.Room),
					zap.Error(err),
				)
			}
		}()
		started++
	}
	return started
}

func cloneParams(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	clone := make(map[string]any, len(src))
	for k, v := range src {
		clone[k] = v
	}
	return clone
}
