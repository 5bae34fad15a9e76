package command

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind identifies a palette command.
type Kind int

const (
	KindAssign Kind = iota + 1
	KindLabel
	KindDue
	KindRename
	KindRenumber
	KindRefresh
	KindQuit
)

// DateLayout is the due date format accepted by the palette.
const DateLayout = "2006-01-02"

// Command is a parsed palette command.
type Command struct {
	Kind Kind
	// Args holds user ids for assign and label names for label.
	Args []string
	// Due is nil when the due date should be cleared.
	Due *time.Time
	// Text is the new title for rename.
	Text string
}

// ErrEmpty is returned for blank input.
var ErrEmpty = errors.New("empty command")

// Parse turns palette input into a Command.
func Parse(input string) (Command, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Command{}, ErrEmpty
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "assign":
		if len(args) == 0 {
			return Command{}, fmt.Errorf("assign needs at least one user")
		}
		return Command{Kind: KindAssign, Args: args}, nil

	case "label":
		if len(args) == 0 {
			return Command{}, fmt.Errorf("label needs at least one name")
		}
		return Command{Kind: KindLabel, Args: args}, nil

	case "due":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: due YYYY-MM-DD | due none")
		}
		if strings.EqualFold(args[0], "none") {
			return Command{Kind: KindDue}, nil
		}
		d, err := time.Parse(DateLayout, args[0])
		if err != nil {
			return Command{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", args[0])
		}
		return Command{Kind: KindDue, Due: &d}, nil

	case "rename":
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), fields[0]))
		if text == "" {
			return Command{}, fmt.Errorf("rename needs a title")
		}
		return Command{Kind: KindRename, Text: text}, nil

	case "renumber":
		return Command{Kind: KindRenumber}, nil

	case "refresh", "reload":
		return Command{Kind: KindRefresh}, nil

	case "quit", "q":
		return Command{Kind: KindQuit}, nil

	default:
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
}
