package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

type AddTeamCommand struct {
	deps *Dependencies
}

func NewAddTeamCommand(deps *Dependencies) *AddTeamCommand {
	return &AddTeamCommand{deps: deps}
}

func (c *AddTeamCommand) Name() string {
	return domain.CommandAddTeam.String()
}

func (c *AddTeamCommand) Description() string {
	return "Add a team to the library"
}

func (c *AddTeamCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps.AddTeamAdminOnly && !cmdCtx.IsAdmin {
		return c.deps.SendError(cmdCtx.Room, "Only administrators can add teams.")
	}

	generation, _ := params["generation"].(string)
	url, _ := params["url"].(string)
	if generation == "" || url == "" {
		return c.deps.SendError(cmdCtx.Room, "Usage: addteam <generation> [style] <url>")
	}

	if !strings.HasPrefix(url, c.deps.PasteHostPrefix) {
		return c.deps.SendError(cmdCtx.Room,
			fmt.Sprintf("The link must start with %s", c.deps.PasteHostPrefix))
	}

	team := domain.Team{
		Generation: generation,
		URL:        url,
	}
	if style, ok := params["style"].(string); ok && style != "" {
		team.Style = &style
	}

	duplicate, err := c.deps.Teams.AddTeam(ctx, team)
	if err != nil {
		c.deps.Logger.Error("Failed to add team",
			zap.String("url", url),
			zap.Error(err),
		)
		return c.deps.SendError(cmdCtx.Room, "Could not save the team, try again later.")
	}

	return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatTeamAdded(team, duplicate))
}
