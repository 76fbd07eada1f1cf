package command

import (
	"context"

	"github.com/kapu/poketeam-kakao-bot-go/internal/adapter"
	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"github.com/kapu/poketeam-kakao-bot-go/internal/pager"
	"go.uber.org/zap"
)

type TeamCommand struct {
	deps *Dependencies
}

func NewTeamCommand(deps *Dependencies) *TeamCommand {
	return &TeamCommand{deps: deps}
}

func (c *TeamCommand) Name() string {
	return domain.CommandTeam.String()
}

func (c *TeamCommand) Description() string {
	return "Browse teams by generation, style or Pokémon"
}

func (c *TeamCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	generation, _ := params["generation"].(string)
	if generation == "" {
		return c.deps.SendError(cmdCtx.Room, "Usage: team <generation> [style or pokemon]")
	}

	filter := filterTerms(params["filter"])

	teams, err := c.deps.Teams.Query(ctx, generation, filter)
	if err != nil {
		c.deps.Logger.Error("Team query failed",
			zap.String("generation", generation),
			zap.Strings("filter", filter),
			zap.Error(err),
		)
		return c.deps.SendError(cmdCtx.Room, "Could not search the library, try again later.")
	}

	if len(teams) == 0 {
		return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatNoTeams(generation, len(filter) > 0))
	}

	pageSize := c.deps.PageSize
	if pageSize <= 0 {
		pageSize = pager.DefaultPageSize
	}
	pages := pager.Paginate(teams, pageSize)

	render := func(pageIndex int, closed bool) {
		withNav := !closed && len(pages) > 1
		message := c.deps.Formatter.FormatTeamPage(
			c.buildEntries(ctx, pages, pageIndex, pageSize),
			pageIndex+1,
			len(pages),
			withNav,
		)
		if err := c.deps.SendMessage(cmdCtx.Room, message); err != nil {
			c.deps.Logger.Error("Failed to render team page",
				zap.String("room", cmdCtx.Room),
				zap.Int("page", pageIndex+1),
				zap.Error(err),
			)
		}
	}

	render(0, len(pages) == 1)

	// A single page needs no navigation, so no session is created.
	if len(pages) > 1 {
		session := pager.NewSession(
			cmdCtx.Room,
			cmdCtx.Sender,
			len(pages),
			c.deps.PagerTimeout,
			render,
			c.deps.Logger,
		)
		c.deps.Sessions.Start(ctx, session)
	}

	return nil
}

// buildEntries resolves the rosters for one page of teams. Resolution is
// cache-backed, so after the first render of a page this is cheap.
func (c *TeamCommand) buildEntries(ctx context.Context, pages [][]domain.Team, pageIndex, pageSize int) []adapter.PageEntry {
	page := pages[pageIndex]
	entries := make([]adapter.PageEntry, 0, len(page))
	for i, team := range page {
		entries = append(entries, adapter.PageEntry{
			Number: pageIndex*pageSize + i + 1,
			Team:   team,
			Roster: c.deps.Rosters.Resolve(ctx, team.URL),
		})
	}
	return entries
}

func filterTerms(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}
