package adapter

import (
	"regexp"
	"strings"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"github.com/kapu/poketeam-kakao-bot-go/internal/iris"
)

var controlCharsPattern = regexp.MustCompile(`[\x00-\x1F\x7F]`)

// MessageAdapter converts chat messages to bot commands
type MessageAdapter struct {
	prefix string
}

// NewMessageAdapter creates a new MessageAdapter
func NewMessageAdapter(prefix string) *MessageAdapter {
	return &MessageAdapter{prefix: prefix}
}

// ParsedCommand represents a parsed command
type ParsedCommand struct {
	Type       domain.CommandType
	Params     map[string]any
	RawMessage string
}

// ParseMessage parses a chat message into a command
func (ma *MessageAdapter) ParseMessage(message *iris.Message) *ParsedCommand {
	if message == nil || message.Msg == "" {
		return ma.createUnknownCommand("")
	}

	text := strings.TrimSpace(message.Msg)

	if !strings.HasPrefix(text, ma.prefix) {
		return ma.createUnknownCommand(text)
	}

	commandText := strings.TrimSpace(text[len(ma.prefix):])

	parts := strings.Fields(commandText)
	if len(parts) == 0 {
		return ma.createUnknownCommand(text)
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch {
	case command == "addteam" || command == "add":
		return &ParsedCommand{
			Type:       domain.CommandAddTeam,
			Params:     parseAddTeamArgs(args),
			RawMessage: text,
		}

	case command == "style" || command == "setstyle":
		params := make(map[string]any)
		if len(args) >= 1 {
			params["url"] = args[0]
		}
		if len(args) >= 2 {
			params["style"] = strings.Join(args[1:], " ")
		}
		return &ParsedCommand{
			Type:       domain.CommandStyle,
			Params:     params,
			RawMessage: text,
		}

	case command == "deleteteam" || command == "delteam":
		params := make(map[string]any)
		if len(args) >= 1 {
			params["url"] = args[0]
		}
		return &ParsedCommand{
			Type:       domain.CommandDeleteTeam,
			Params:     params,
			RawMessage: text,
		}

	case command == "deletebanned" || command == "ban":
		params := make(map[string]any)
		if len(args) >= 1 {
			params["generation"] = args[0]
		}
		if len(args) >= 2 {
			params["member"] = strings.Join(args[1:], " ")
		}
		return &ParsedCommand{
			Type:       domain.CommandDeleteBanned,
			Params:     params,
			RawMessage: text,
		}

	case command == "team" || command == "teams":
		params := make(map[string]any)
		if len(args) >= 1 {
			params["generation"] = args[0]
		}
		if len(args) >= 2 {
			params["filter"] = args[1:]
		}
		return &ParsedCommand{
			Type:       domain.CommandTeam,
			Params:     params,
			RawMessage: text,
		}

	case command == "ask":
		question := sanitizeQuestion(strings.Join(args, " "))
		if question == "" {
			return ma.createUnknownCommand(text)
		}
		return &ParsedCommand{
			Type:       domain.CommandAsk,
			Params:     map[string]any{"question": question},
			RawMessage: text,
		}

	case command == "help" || command == "commands":
		return &ParsedCommand{
			Type:       domain.CommandHelp,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	}

	return ma.createUnknownCommand(text)
}

// parseAddTeamArgs reads "generation [style...] url". Style is optional, so
// with two arguments the second is the URL; with more, everything between
// generation and the trailing URL joins into the style label.
func parseAddTeamArgs(args []string) map[string]any {
	params := make(map[string]any)

	if len(args) >= 1 {
		params["generation"] = args[0]
	}
	if len(args) == 2 {
		params["url"] = args[1]
	}
	if len(args) >= 3 {
		params["style"] = strings.Join(args[1:len(args)-1], " ")
		params["url"] = args[len(args)-1]
	}
	return params
}

func sanitizeQuestion(q string) string {
	q = controlCharsPattern.ReplaceAllString(q, "")
	return strings.TrimSpace(q)
}

func (ma *MessageAdapter) createUnknownCommand(text string) *ParsedCommand {
	return &ParsedCommand{
		Type:       domain.CommandUnknown,
		Params:     make(map[string]any),
		RawMessage: text,
	}
}
