package command

import (
	"context"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

type DeleteTeamCommand struct {
	deps *Dependencies
}

func NewDeleteTeamCommand(deps *Dependencies) *DeleteTeamCommand {
	return &DeleteTeamCommand{deps: deps}
}

func (c *DeleteTeamCommand) Name() string {
	return domain.CommandDeleteTeam.String()
}

func (c *DeleteTeamCommand) Description() string {
	return "Remove a team from the library"
}

func (c *DeleteTeamCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if !cmdCtx.IsAdmin {
		return c.deps.SendError(cmdCtx.Room, "Only administrators can delete teams.")
	}

	url, _ := params["url"].(string)
	if url == "" {
		return c.deps.SendError(cmdCtx.Room, "Usage: deleteteam <url>")
	}

	found, err := c.deps.Teams.DeleteTeam(ctx, url)
	if err != nil {
		c.deps.Logger.Error("Failed to delete team",
			zap.String("url", url),
			zap.Error(err),
		)
		return c.deps.SendError(cmdCtx.Room, "Could not delete the team, try again later.")
	}
	if !found {
		return c.deps.SendError(cmdCtx.Room, "No team in the library uses that link.")
	}

	return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatTeamDeleted(url))
}
