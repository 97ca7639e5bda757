// Package console implements the hbnb command dispatcher: a line-oriented
// interpreter that creates, shows, updates and destroys records in a
// types.Store.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Prompt is printed before each line in interactive sessions.
const Prompt = "(hbnb) "

// Console dispatches commands against one store. It is not safe for
// concurrent use.
type Console struct {
	store  types.Store
	reg    *types.Registry
	out    io.Writer
	log    zerolog.Logger
	prompt string
}

// Option configures a Console.
type Option func(*Console)

// WithLogger sets the logger for rejected commands and unreadable records.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Console) { c.log = log }
}

// WithPrompt sets the prompt Run prints before each line. The default is
// no prompt.
func WithPrompt(prompt string) Option {
	return func(c *Console) { c.prompt = prompt }
}

// New returns a Console writing to out. store must already be reloaded.
func New(store types.Store, reg *types.Registry, out io.Writer, opts ...Option) *Console {
	c := &Console{
		store: store,
		reg:   reg,
		out:   out,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// command is one dispatcher entry.
type command struct {
	run  func(c *Console, args []string) error
	help string
}

var commands = map[string]command{
	"create": {(*Console).Create,
		"Create a record, save it and print its id.\n" +
			"Usage: create <Kind> [<key>=<value> ...]"},
	"show": {(*Console).Show,
		"Print a record.\nUsage: show <Kind> <id>"},
	"destroy": {(*Console).Destroy,
		"Delete a record and save.\nUsage: destroy <Kind> <id>"},
	"all": {(*Console).All,
		"Print every record, or every record of one kind.\nUsage: all [<Kind>]"},
	"count": {(*Console).Count,
		"Print the number of records of a kind.\nUsage: count <Kind>"},
	"update": {(*Console).Update,
		"Set an attribute, or several from a JSON object, and save.\n" +
			"Usage: update <Kind> <id> <attribute> <value>\n" +
			"       update <Kind> <id> {\"<attribute>\": <value>, ...}"},
}

var builtinHelp = map[string]string{
	"quit": "Quit command to exit the program",
	"EOF":  "Exit the program at end of input",
	"help": "List commands, or show help for one.\nUsage: help [<command>]",
}

// Exec runs one command line. quit is true for quit and EOF. Command
// failures have already been printed when err is returned.
func (c *Console) Exec(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if rewritten, ok := rewriteDot(line); ok {
		line = rewritten
	}
	args := Split(line)
	verb, rest := args[0], args[1:]

	switch verb {
	case "quit", "EOF":
		return true, nil
	case "help":
		c.Help(rest)
		return false, nil
	}
	cmd, ok := commands[verb]
	if !ok {
		fmt.Fprintf(c.out, "*** Unknown syntax: %s\n", line)
		return false, fmt.Errorf("%w: %s", ErrUnknownSyntax, line)
	}
	if err := cmd.run(c, rest); err != nil {
		c.log.Debug().Err(err).Str("command", verb).Msg("command failed")
		return false, err
	}
	return false, nil
}

// Run reads commands from in until quit, end of input or cancellation of
// ctx, which is checked between lines. Lines may be of any length.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	r := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, c.prompt)
		line, err := r.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			if c.prompt != "" {
				fmt.Fprintln(c.out)
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if quit, _ := c.Exec(line); quit {
			return nil
		}
	}
}

// Help prints the command list, or the help text of args[0].
func (c *Console) Help(args []string) {
	if len(args) == 0 {
		names := append(lo.Keys(commands), "EOF", "help", "quit")
		slices.Sort(names)
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "Documented commands (type help <topic>):")
		fmt.Fprintln(c.out, "========================================")
		fmt.Fprintln(c.out, strings.Join(names, "  "))
		fmt.Fprintln(c.out)
		return
	}
	if cmd, ok := commands[args[0]]; ok {
		fmt.Fprintln(c.out, cmd.help)
		return
	}
	if text, ok := builtinHelp[args[0]]; ok {
		fmt.Fprintln(c.out, text)
		return
	}
	fmt.Fprintf(c.out, "*** No help on %s\n", args[0])
}

// Create builds a record of kind args[0], applies key=value parameters,
// saves and prints the new id. Parameters that do not parse or cannot be
// assigned are skipped.
func (c *Console) Create(args []string) error {
	kind, err := c.kindArg(args)
	if err != nil {
		return c.fail(err)
	}
	r, err := c.reg.New(kind)
	if err != nil {
		return c.fail(ErrClassUnknown)
	}
	for _, param := range args[1:] {
		key, raw, found := strings.Cut(param, "=")
		if !found || key == "" {
			c.log.Debug().Str("param", param).Msg("skipping malformed parameter")
			continue
		}
		value, ok := paramValue(raw)
		if !ok {
			c.log.Debug().Str("param", param).Msg("skipping unparseable value")
			continue
		}
		if err := r.Set(key, value); err != nil {
			c.log.Debug().Err(err).Str("param", param).Msg("skipping parameter")
		}
	}
	c.store.New(r)
	if err := c.save(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, r.ID())
	return nil
}

// Show prints the record named by args[0] and args[1].
func (c *Console) Show(args []string) error {
	r, err := c.find(args)
	if err != nil {
		return c.fail(err)
	}
	fmt.Fprintln(c.out, r)
	return nil
}

// Destroy removes the record named by args[0] and args[1] and saves.
func (c *Console) Destroy(args []string) error {
	kind, id, err := c.target(args)
	if err != nil {
		return c.fail(err)
	}
	if !c.store.All().Remove(kind, id) {
		return c.fail(ErrNoInstance)
	}
	return c.save()
}

// All prints every record, one per line in key order, or only those of
// kind args[0]. Entries that cannot be rehydrated are logged and skipped.
func (c *Console) All(args []string) error {
	kind := ""
	if len(args) > 0 {
		kind = bare(args[0])
		if !c.reg.Has(kind) {
			return c.fail(ErrClassUnknown)
		}
	}
	records, err := c.store.All().List(c.reg, kind)
	if err != nil {
		c.log.Warn().Err(err).Msg("skipped unreadable records")
	}
	for _, r := range records {
		fmt.Fprintln(c.out, r)
	}
	return nil
}

// Count prints the number of records of kind args[0].
func (c *Console) Count(args []string) error {
	kind, err := c.kindArg(args)
	if err != nil {
		return c.fail(err)
	}
	fmt.Fprintln(c.out, c.store.All().Count(kind))
	return nil
}

// Update sets one attribute, or every key of a JSON object, on the record
// named by args[0] and args[1], touches it and saves. Nothing is stored
// unless every assignment succeeds.
func (c *Console) Update(args []string) error {
	kind, id, err := c.target(args)
	if err != nil {
		return c.fail(err)
	}

	var assign types.Fields
	switch {
	case len(args) > 2 && strings.HasPrefix(args[2], "{"):
		assign, err = parseObject(strings.Join(args[2:], " "))
		if err != nil {
			c.log.Debug().Err(err).Msg("rejecting update object")
			return c.fail(ErrInvalidValue)
		}
	case len(args) < 3:
		return c.fail(ErrAttrMissing)
	case len(args) < 4:
		return c.fail(ErrValueMissing)
	default:
		assign = types.Fields{bare(args[2]): Coerce(args[3])}
	}

	r, err := c.store.All().Find(c.reg, kind, id)
	if err != nil {
		return c.fail(err)
	}
	keys := lo.Keys(assign)
	slices.Sort(keys)
	for _, key := range keys {
		if err := r.Set(key, assign[key]); err != nil {
			return c.fail(err)
		}
	}
	r.Touch()
	c.store.New(r)
	return c.save()
}

// kindArg returns the kind named by args[0].
func (c *Console) kindArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrClassMissing
	}
	kind := bare(args[0])
	if !c.reg.Has(kind) {
		return "", ErrClassUnknown
	}
	return kind, nil
}

// target returns the kind and id named by args[0] and args[1].
func (c *Console) target(args []string) (kind, id string, err error) {
	kind, err = c.kindArg(args)
	if err != nil {
		return "", "", err
	}
	if len(args) < 2 {
		return "", "", ErrIDMissing
	}
	return kind, bare(args[1]), nil
}

func (c *Console) find(args []string) (types.Record, error) {
	kind, id, err := c.target(args)
	if err != nil {
		return nil, err
	}
	return c.store.All().Find(c.reg, kind, id)
}

func (c *Console) save() error {
	if err := c.store.Save(); err != nil {
		fmt.Fprintf(c.out, "** save failed: %v **\n", err)
		c.log.Error().Stack().Err(err).Msg("save failed")
		return err
	}
	return nil
}

// fail prints err in the dispatcher's message form and returns it.
func (c *Console) fail(err error) error {
	fmt.Fprintf(c.out, "** %s **\n", message(err))
	return err
}

// message maps core errors onto dispatcher messages.
func message(err error) string {
	switch {
	case errors.Is(err, types.ErrUnknownKind):
		return ErrClassUnknown.Error()
	case errors.Is(err, types.ErrNotFound):
		return ErrNoInstance.Error()
	case errors.Is(err, types.ErrReadOnlyField):
		return ErrReadOnly.Error()
	case errors.Is(err, types.ErrInvalidData), errors.Is(err, types.ErrInvalidName):
		return ErrInvalidValue.Error()
	}
	return err.Error()
}

// parseObject decodes a JSON object of attribute assignments.
func parseObject(text string) (types.Fields, error) {
	var out types.Fields
	if err := sonic.UnmarshalString(text, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.New("not an object")
	}
	return out, nil
}
