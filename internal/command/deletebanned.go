package command

import (
	"context"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

type DeleteBannedCommand struct {
	deps *Dependencies
}

func NewDeleteBannedCommand(deps *Dependencies) *DeleteBannedCommand {
	return &DeleteBannedCommand{deps: deps}
}

func (c *DeleteBannedCommand) Name() string {
	return domain.CommandDeleteBanned.String()
}

func (c *DeleteBannedCommand) Description() string {
	return "Purge teams containing a banned Pokémon"
}

func (c *DeleteBannedCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if !cmdCtx.IsAdmin {
		return c.deps.SendError(cmdCtx.Room, "Only administrators can purge banned Pokémon.")
	}

	generation, _ := params["generation"].(string)
	member, _ := params["member"].(string)
	if generation == "" || member == "" {
		return c.deps.SendError(cmdCtx.Room, "Usage: deletebanned <generation> <pokemon>")
	}

	count, err := c.deps.Teams.DeleteBanned(ctx, generation, member)
	if err != nil {
		c.deps.Logger.Error("Failed to purge banned teams",
			zap.String("generation", generation),
			zap.String("member", member),
			zap.Error(err),
		)
		return c.deps.SendError(cmdCtx.Room, "Could not purge teams, try again later.")
	}

	return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatBannedPurged(generation, member, count))
}
