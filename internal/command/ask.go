package command

import (
	"context"
	"strings"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

type AskCommand struct {
	deps *Dependencies
}

func NewAskCommand(deps *Dependencies) *AskCommand {
	return &AskCommand{deps: deps}
}

func (c *AskCommand) Name() string {
	return domain.CommandAsk.String()
}

func (c *AskCommand) Description() string {
	return "Ask for teams in plain language"
}

func (c *AskCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if !c.deps.NLU.Available() {
		return c.deps.SendError(cmdCtx.Room, "Natural-language questions are not configured on this bot.")
	}

	question, _ := params["question"].(string)
	if strings.TrimSpace(question) == "" {
		return c.deps.SendError(cmdCtx.Room, "Usage: ask <question>")
	}

	intent, err := c.deps.NLU.ParseQuery(ctx, question)
	if err != nil {
		c.deps.Logger.Warn("Failed to parse question",
			zap.String("question", question),
			zap.Error(err),
		)
		return c.deps.SendError(cmdCtx.Room, "Sorry, I couldn't understand that question.")
	}

	queryParams := map[string]any{
		"generation": intent.Generation,
	}
	if filter := strings.Fields(intent.Filter); len(filter) > 0 {
		queryParams["filter"] = filter
	}

	c.deps.Logger.Info("Question resolved to team query",
		zap.String("generation", intent.Generation),
		zap.String("filter", intent.Filter),
		zap.Float64("confidence", intent.Confidence),
	)

	return c.deps.ExecuteCommand(ctx, cmdCtx, domain.CommandTeam, queryParams)
}
