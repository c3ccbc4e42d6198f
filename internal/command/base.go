package command

import (
	"flag"
	"io"
)

// Command is one vdw-guard subcommand. The dispatcher parses flags into
// the FlagSet a command sets up, then hands it the leftover arguments.
type Command interface {
	Name() string

	// Description is the one-line summary shown by `vdw-guard help`.
	Description() string

	// Usage is the synopsis line, e.g. "drafts <list|clean|purge> [flags]".
	Usage() string

	// SetupFlags registers the command's flags before parsing.
	SetupFlags(fs *flag.FlagSet)

	// Execute runs the command. args holds positional arguments, after
	// flag parsing. Output goes to stdout/stderr so tests can capture it.
	Execute(args []string, stdout, stderr io.Writer) error
}

// BaseCommand carries the static metadata so concrete commands only
// implement Execute (and SetupFlags when they take flags).
type BaseCommand struct {
	name        string
	description string
	usage       string
}

func NewBaseCommand(name, description, usage string) *BaseCommand {
	return &BaseCommand{
		name:        name,
		description: description,
		usage:       usage,
	}
}

func (c *BaseCommand) Name() string { return c.name }

func (c *BaseCommand) Description() string { return c.description }

func (c *BaseCommand) Usage() string { return c.usage }

// SetupFlags registers nothing; flagless commands inherit it.
func (c *BaseCommand) SetupFlags(fs *flag.FlagSet) {}
