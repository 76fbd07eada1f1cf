package domain

type CommandType string

const (
	CommandAddTeam      CommandType = "addteam"
	CommandStyle        CommandType = "style"
	CommandDeleteTeam   CommandType = "deleteteam"
	CommandDeleteBanned CommandType = "deletebanned"
	CommandTeam         CommandType = "team"
	CommandAsk          CommandType = "ask"
	CommandHelp         CommandType = "help"
	CommandUnknown      CommandType = "unknown"
)

func (c CommandType) String() string {
	return string(c)
}

func (c CommandType) IsValid() bool {
	switch c {
	case CommandAddTeam, CommandStyle, CommandDeleteTeam, CommandDeleteBanned,
		CommandTeam, CommandAsk, CommandHelp, CommandUnknown:
		return true
	default:
		return false
	}
}

// AdminOnly reports whether the command always requires an administrator
// sender. Add-team authorization is configurable and checked by its handler.
func (c CommandType) AdminOnly() bool {
	switch c {
	case CommandDeleteTeam, CommandDeleteBanned:
		return true
	default:
		return false
	}
}
