package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hbnb/internal/console"
)

func (a *app) newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Run the interactive console (the default)",
		Long:  "Read commands from standard input until quit or end of input.\nThe (hbnb) prompt is shown only when standard input is a terminal.",
		Args:  cobra.NoArgs,
		RunE:  a.runConsole,
	}
}

func (a *app) runConsole(cmd *cobra.Command, args []string) error {
	var opts []console.Option
	if isTerminal(cmd.InOrStdin()) {
		opts = append(opts, console.WithPrompt(console.Prompt))
	}
	c, err := a.newConsole(cmd, opts...)
	if err != nil {
		return err
	}
	err = c.Run(cmd.Context(), cmd.InOrStdin())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// recordCmds wraps each console command as a subcommand taking the same
// arguments.
func (a *app) recordCmds() []*cobra.Command {
	specs := []struct {
		use   string
		short string
		run   func(*console.Console, []string) error
	}{
		{"create <Kind> [<key>=<value> ...]", "Create a record and print its id", (*console.Console).Create},
		{"show <Kind> <id>", "Print a record", (*console.Console).Show},
		{"destroy <Kind> <id>", "Delete a record", (*console.Console).Destroy},
		{"all [<Kind>]", "Print every record, or every record of one kind", (*console.Console).All},
		{"count <Kind>", "Print the number of records of a kind", (*console.Console).Count},
		{"update <Kind> <id> (<attribute> <value> | <json-object>)", "Set attributes on a record", (*console.Console).Update},
	}

	cmds := make([]*cobra.Command, 0, len(specs))
	for _, spec := range specs {
		run := spec.run
		cmds = append(cmds, &cobra.Command{
			Use:   spec.use,
			Short: spec.short,
			Args:  cobra.ArbitraryArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.newConsole(cmd)
				if err != nil {
					return err
				}
				if err := run(c, args); err != nil {
					return reported{err: err}
				}
				return nil
			},
		})
	}
	return cmds
}

func (a *app) newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the record kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, kind := range a.reg.Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), kind)
			}
			return nil
		},
	}
}
