package models

import "strings"

// CommandType enumerates the ledger commands accepted over chat.
type CommandType string

const (
	CommandCost    CommandType = "cost"
	CommandHarvest CommandType = "harvest"
	CommandSale    CommandType = "sale"
	CommandPaid    CommandType = "paid"
	CommandSummary CommandType = "summary"
	CommandOwed    CommandType = "owed"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed worker instruction extracted from message text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
func ParseCommand(message string) Command {
	normalized := strings.TrimSpace(strings.ToLower(message))
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return cmd
	}

	switch head := CommandType(strings.TrimPrefix(tokens[0], "/")); head {
	case CommandCost, CommandHarvest, CommandSale, CommandPaid, CommandSummary, CommandOwed:
		cmd.Type = head
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}
	return cmd
}
