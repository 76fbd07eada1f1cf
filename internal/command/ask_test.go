package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"github.com/kapu/poketeam-kakao-bot-go/internal/service"
	"go.uber.org/zap"
)

type scriptedProvider struct {
	name string
	text string
	err  error
}

func (p *scriptedProvider) Name() string { return p.name }

func (p *scriptedProvider) GenerateJSON(_ context.Context, _ string) (string, error) {
	return p.text, p.err
}

func TestAskWithoutProvidersReportsUnconfigured(t *testing.T) {
	env := newTestEnv(t)
	cmd := NewAskCommand(env.deps)

	err := cmd.Execute(context.Background(), userCtx("room", "alice"), map[string]any{
		"question": "any rain teams for gen9?",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.sink.lastError(), "not configured") {
		t.Fatalf("error = %q", env.sink.lastError())
	}
}

func TestAskDelegatesToTeamQuery(t *testing.T) {
	env := newTestEnv(t)
	env.deps.NLU = service.NewNLUEngine([]service.JSONProvider{
		&scriptedProvider{name: "scripted", text: `{"generation": "gen9ou", "filter": "rain", "confidence": 0.9}`},
	}, zap.NewNop())

	var gotType domain.CommandType
	var gotParams map[string]any
	env.deps.ExecuteCommand = func(_ context.Context, _ *domain.CommandContext, cmdType domain.CommandType, params map[string]any) error {
		gotType = cmdType
		gotParams = params
		return nil
	}
	cmd := NewAskCommand(env.deps)

	err := cmd.Execute(context.Background(), userCtx("room", "alice"), map[string]any{
		"question": "any rain teams for gen9 ou?",
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotType != domain.CommandTeam {
		t.Fatalf("delegated to %s, want team", gotType)
	}
	if gotParams["generation"] != "gen9ou" {
		t.Fatalf("params = %v", gotParams)
	}
	filter, ok := gotParams["filter"].([]string)
	if !ok || len(filter) != 1 || filter[0] != "rain" {
		t.Fatalf("filter = %v", gotParams["filter"])
	}
}

func TestAskFallsThroughFailingProviders(t *testing.T) {
	env := newTestEnv(t)
	env.deps.NLU = service.NewNLUEngine([]service.JSONProvider{
		&scriptedProvider{name: "down", err: errors.New("quota exceeded")},
		&scriptedProvider{name: "fenced", text: "```json\n{\"generation\": \"gen7\", \"filter\": \"\", \"confidence\": 0.7}\n```"},
	}, zap.NewNop())

	delegated := false
	env.deps.ExecuteCommand = func(_ context.Context, _ *domain.CommandContext, _ domain.CommandType, params map[string]any) error {
		delegated = true
		if params["generation"] != "gen7" {
			t.Errorf("params = %v", params)
		}
		if _, ok := params["filter"]; ok {
			t.Error("empty filter forwarded as a filter param")
		}
		return nil
	}
	cmd := NewAskCommand(env.deps)

	err := cmd.Execute(context.Background(), userCtx("room", "alice"), map[string]any{
		"question": "show me everything from gen7",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !delegated {
		t.Fatal("ask did not delegate after provider fallback")
	}
}

func TestAskRejectsUnparseableIntent(t *testing.T) {
	env := newTestEnv(t)
	env.deps.NLU = service.NewNLUEngine([]service.JSONProvider{
		&scriptedProvider{name: "bad", text: "no json here"},
	}, zap.NewNop())
	cmd := NewAskCommand(env.deps)

	err := cmd.Execute(context.Background(), userCtx("room", "alice"), map[string]any{
		"question": "???",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.sink.lastError(), "understand") {
		t.Fatalf("error = %q", env.sink.lastError())
	}
}
