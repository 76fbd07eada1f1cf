package adapter

import (
	"fmt"
	"strings"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"github.com/kapu/poketeam-kakao-bot-go/internal/util"
)

const maxStyleDisplayRunes = 40

// PageEntry pairs a team record with its resolved roster for rendering.
type PageEntry struct {
	Number int // 1-based position in the full result set
	Team   domain.Team
	Roster domain.Roster
}

// ResponseFormatter formats bot responses
type ResponseFormatter struct {
	prefix string
}

// NewResponseFormatter creates a new ResponseFormatter
func NewResponseFormatter(prefix string) *ResponseFormatter {
	if strings.TrimSpace(prefix) == "" {
		prefix = "!"
	}
	return &ResponseFormatter{prefix: prefix}
}

// FormatTeamPage renders one page of query results. withNav appends the
// navigation footer; the final render of a closed browse session omits it.
func (f *ResponseFormatter) FormatTeamPage(entries []PageEntry, pageNum, pageCount int, withNav bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏆 Teams found (Page %d/%d)\n", pageNum, pageCount))

	for _, entry := range entries {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Team %d\n", entry.Number))
		sb.WriteString(fmt.Sprintf("  Style: %s\n", util.TruncateString(entry.Team.StyleOrDefault("unknown"), maxStyleDisplayRunes)))

		if entry.Roster.Complete() {
			sb.WriteString(fmt.Sprintf("  Pokémon: %s\n", strings.Join(entry.Roster.Names(), ", ")))
		} else {
			sb.WriteString("  Pokémon: unavailable (fetch failed or names not recognized)\n")
		}

		sb.WriteString(fmt.Sprintf("  Link: %s\n", entry.Team.URL))
	}

	if withNav {
		sb.WriteString("\n⬅️ prev | next ➡️ (reply to turn pages)")
	}

	return sb.String()
}

// FormatNoTeams is the reply for a query with an empty result set.
func (f *ResponseFormatter) FormatNoTeams(generation string, filtered bool) string {
	if filtered {
		return "😿 No teams matched those filters."
	}
	return fmt.Sprintf("😿 No teams found for generation %s.", generation)
}

func (f *ResponseFormatter) FormatTeamAdded(team domain.Team, duplicate bool) string {
	var sb strings.Builder
	sb.WriteString("✅ Team added\n")
	sb.WriteString(fmt.Sprintf("  Generation: %s\n", team.Generation))
	sb.WriteString(fmt.Sprintf("  Style: %s\n", team.StyleOrDefault("unknown")))
	sb.WriteString(fmt.Sprintf("  Link: %s", team.URL))
	if duplicate {
		sb.WriteString("\n⚠️ This link was already in the library; a duplicate record was added.")
	}
	return sb.String()
}

func (f *ResponseFormatter) FormatStyleUpdated(url, style string) string {
	return fmt.Sprintf("✅ Style updated to \"%s\" for %s", style, url)
}

func (f *ResponseFormatter) FormatTeamDeleted(url string) string {
	return fmt.Sprintf("🗑️ Team deleted: %s", url)
}

func (f *ResponseFormatter) FormatBannedPurged(generation, member string, count int) string {
	if count == 0 {
		return fmt.Sprintf("No %s teams contained %s.", generation, member)
	}
	return fmt.Sprintf("🗑️ Removed %d %s team(s) containing %s.", count, generation, member)
}

// FormatHelp formats the command list
func (f *ResponseFormatter) FormatHelp() string {
	p := f.prefix
	var sb strings.Builder
	sb.WriteString("📖 Team library commands\n\n")
	sb.WriteString(fmt.Sprintf("%saddteam <generation> [style] <url> - add a team (paste link)\n", p))
	sb.WriteString(fmt.Sprintf("%sstyle <url> <style...> - set a team's style label\n", p))
	sb.WriteString(fmt.Sprintf("%sdeleteteam <url> - remove a team (admin)\n", p))
	sb.WriteString(fmt.Sprintf("%sdeletebanned <generation> <pokemon> - purge teams with a banned Pokémon (admin)\n", p))
	sb.WriteString(fmt.Sprintf("%steam <generation> [style or pokemon] - browse matching teams\n", p))
	sb.WriteString(fmt.Sprintf("%sask <question> - ask for teams in plain language\n", p))
	sb.WriteString(fmt.Sprintf("%shelp - this message", p))
	return sb.String()
}

// FormatError decorates a user-facing error message.
func (f *ResponseFormatter) FormatError(message string) string {
	return "❌ " + message
}
