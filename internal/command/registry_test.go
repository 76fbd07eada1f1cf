package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

type recordingCommand struct {
	name string

	mu       sync.Mutex
	executed int
	done     chan struct{}
	panics   bool
}

func newRecordingCommand(name string) *recordingCommand {
	return &recordingCommand{name: name, done: make(chan struct{}, 8)}
}

func (c *recordingCommand) Name() string        { return c.name }
func (c *recordingCommand) Description() string { return "test command" }

func (c *recordingCommand) Execute(_ context.Context, _ *domain.CommandContext, _ map[string]any) error {
	c.mu.Lock()
	c.executed++
	c.mu.Unlock()
	c.done <- struct{}{}
	if c.panics {
		panic("boom")
	}
	return nil
}

func (c *recordingCommand) executions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.executed
}

func (c *recordingCommand) waitForExecution(t *testing.T) {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("command was never executed")
	}
}

func TestRegistryExecutesByLowercaseKey(t *testing.T) {
	registry := NewRegistry()
	cmd := newRecordingCommand("team")
	registry.Register(cmd)

	if registry.Count() != 1 {
		t.Fatalf("Count = %d, want 1", registry.Count())
	}
	if err := registry.Execute(context.Background(), userCtx("room", "alice"), "TEAM", nil); err != nil {
		t.Fatal(err)
	}
	if cmd.executions() != 1 {
		t.Fatalf("executions = %d, want 1", cmd.executions())
	}
}

func TestRegistryUnknownCommand(t *testing.T) {
	registry := NewRegistry()

	err := registry.Execute(context.Background(), userCtx("room", "alice"), "nope", nil)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err = %v, want ErrUnknownCommand", err)
	}
}

func TestDispatcherSkipsUnknownEvents(t *testing.T) {
	registry := NewRegistry()
	cmd := newRecordingCommand(domain.CommandHelp.String())
	registry.Register(cmd)
	dispatcher := NewAsyncDispatcher(registry, zap.NewNop())

	started := dispatcher.Publish(context.Background(), userCtx("room", "alice"),
		CommandEvent{Type: domain.CommandUnknown},
		CommandEvent{Type: domain.CommandHelp},
	)
	if started != 1 {
		t.Fatalf("started = %d, want 1", started)
	}
	cmd.waitForExecution(t)
}

func TestDispatcherRecoversFromPanics(t *testing.T) {
	registry := NewRegistry()
	cmd := newRecordingCommand(domain.CommandHelp.String())
	cmd.panics = true
	registry.Register(cmd)
	dispatcher := NewAsyncDispatcher(registry, zap.NewNop())

	dispatcher.Publish(context.Background(), userCtx("room", "alice"), CommandEvent{Type: domain.CommandHelp})
	cmd.waitForExecution(t)

	// The dispatcher survives; a later publish still runs.
	dispatcher.Publish(context.Background(), userCtx("room", "alice"), CommandEvent{Type: domain.CommandHelp})
	cmd.waitForExecution(t)
	if cmd.executions() != 2 {
		t.Fatalf("executions = %d, want 2", cmd.executions())
	}
}
