package command

import (
	"context"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

type StyleCommand struct {
	deps *Dependencies
}

func NewStyleCommand(deps *Dependencies) *StyleCommand {
	return &StyleCommand{deps: deps}
}

func (c *StyleCommand) Name() string {
	return domain.CommandStyle.String()
}

func (c *StyleCommand) Description() string {
	return "Set a team's style label"
}

func (c *StyleCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	url, _ := params["url"].(string)
	style, _ := params["style"].(string)
	if url == "" || style == "" {
		return c.deps.SendError(cmdCtx.Room, "Usage: style <url> <style>")
	}

	found, err := c.deps.Teams.UpdateStyle(ctx, url, style)
	if err != nil {
		c.deps.Logger.Error("Failed to update style",
			zap.String("url", url),
			zap.Error(err),
		)
		return c.deps.SendError(cmdCtx.Room, "Could not update the style, try again later.")
	}
	if !found {
		return c.deps.SendError(cmdCtx.Room, "No team in the library uses that link.")
	}

	return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatStyleUpdated(url, style))
}
