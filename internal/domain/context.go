package domain

import "time"

type CommandContext struct {
	Room      string
	Sender    string
	IsAdmin   bool
	Message   string
	Timestamp time.Time
}

func NewCommandContext(room, sender, message string, isAdmin bool) *CommandContext {
	return &CommandContext{
		Room:      room,
		Sender:    sender,
		IsAdmin:   isAdmin,
		Message:   message,
		Timestamp: time.Now(),
	}
}
