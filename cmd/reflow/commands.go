package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/bethropolis/reflow/internal/app"
	"github.com/bethropolis/reflow/internal/command"
	"github.com/bethropolis/reflow/internal/config"
	"github.com/bethropolis/reflow/internal/prompt"
	"github.com/bethropolis/reflow/internal/statusbar"
)

// errReported marks errors the status line has already printed.
type errReported struct{ err error }

func (e errReported) Error() string { return e.err.Error() }
func (e errReported) Unwrap() error { return e.err }

func reported(err error) bool {
	var r errReported
	return errors.As(err, &r)
}

// Target selects the file and the cursor or line range to work on.
type Target struct {
	File   string `arg:"" help:"C source or header file" type:"path"`
	Line   int    `short:"l" help:"Cursor line, 1-based" default:"1"`
	Col    int    `short:"c" help:"Cursor column, 1-based" default:"1"`
	Select string `short:"s" help:"Select whole lines FIRST:LAST, 1-based"`
	Write  bool   `short:"w" help:"Write the result back to the file instead of stdout"`

	stdout io.Writer // result; os.Stdout when nil
	status io.Writer // status lines; stderr when nil
}

func (t *Target) options() (app.Options, error) {
	opts := app.Options{
		FilePath: t.File,
		Line:     t.Line,
		Col:      t.Col,
		Write:    t.Write,
		Stdout:   t.stdout,
		Status:   statusbar.Config{Out: os.Stderr},
	}
	if t.status != nil {
		opts.Status = statusbar.Config{Out: t.status, Err: t.status}
	}
	if t.Select != "" {
		r, err := parseRange(t.Select)
		if err != nil {
			return opts, err
		}
		opts.Selection = r
	}
	return opts, nil
}

// parseRange reads "FIRST:LAST" or a single line number.
func parseRange(s string) (*app.LineRange, error) {
	first, last, found := strings.Cut(s, ":")
	if !found {
		last = first
	}
	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return nil, fmt.Errorf("invalid --select %q: %w", s, err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(last))
	if err != nil {
		return nil, fmt.Errorf("invalid --select %q: %w", s, err)
	}
	return &app.LineRange{First: a, Last: b}, nil
}

// run loads the configuration and executes one dispatcher command.
func run(c *Context, t *Target, extra func(*config.Overrides), name string, args ...string) error {
	cfg, closeLog, err := setup(c, extra)
	if err != nil {
		return err
	}
	defer closeLog()
	return execute(cfg, t, nil, name, args...)
}

// execute runs name against the target with prompter p.
func execute(cfg *config.Config, t *Target, p prompt.Prompter, name string, args ...string) error {
	opts, err := t.options()
	if err != nil {
		return err
	}

	a, err := app.New(cfg, p, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.Run(ctx, name, args...); err != nil {
		return errReported{err}
	}
	return nil
}

// IndentCmd dispatches on the file's content type.
type IndentCmd struct {
	Target
	SpaceBeforeParen *bool `help:"Put a space between a function name and '('"`
}

func (cmd *IndentCmd) Run(ctx *Context) error {
	return run(ctx, &cmd.Target, cmd.override, command.CmdIndent)
}

func (cmd *IndentCmd) override(o *config.Overrides) { o.SpaceBeforeParen = cmd.SpaceBeforeParen }

// BreakCmd breaks the call on the cursor line regardless of language.
type BreakCmd struct {
	Target
	SpaceBeforeParen *bool `help:"Put a space between a function name and '('"`
}

func (cmd *BreakCmd) Run(ctx *Context) error {
	return run(ctx, &cmd.Target, cmd.override, command.CmdBreakFunction)
}

func (cmd *BreakCmd) override(o *config.Overrides) { o.SpaceBeforeParen = cmd.SpaceBeforeParen }

// AlignCmd aligns declarations regardless of language.
type AlignCmd struct {
	Target
}

func (cmd *AlignCmd) Run(ctx *Context) error {
	return run(ctx, &cmd.Target, nil, command.CmdAlignDeclarations)
}

// AddPropCmd runs the interactive GObject property generator.
type AddPropCmd struct {
	Target
	Name   string   `short:"n" help:"Property name; prompted when empty"`
	Type   string   `short:"t" help:"Property type; prompted when empty"`
	Flags  string   `help:"Default GParamFlags offered at the flags prompt"`
	Answer []string `short:"a" help:"Answer the next prompt with this text instead of asking (repeatable)"`
}

func (cmd *AddPropCmd) Run(ctx *Context) error {
	var args []string
	if cmd.Name != "" {
		args = append(args, cmd.Name)
		if cmd.Type != "" {
			args = append(args, cmd.Type)
		}
	} else if cmd.Type != "" {
		return errors.New("--type needs --name")
	}

	cfg, closeLog, err := setup(ctx, func(o *config.Overrides) {
		if cmd.Flags != "" {
			o.DefaultFlags = &cmd.Flags
		}
	})
	if err != nil {
		return err
	}
	defer closeLog()

	if len(cmd.Answer) > 0 {
		return execute(cfg, &cmd.Target, prompt.NewScripted(cmd.Answer...), command.CmdAddProperty, args...)
	}

	term, err := prompt.NewTerminal()
	if err != nil {
		return fmt.Errorf("terminal initialization failed: %w", err)
	}
	term.SetTheme(cfg.PromptTheme())

	// Output printed while the screen is up would be lost.
	var out, status bytes.Buffer
	cmd.stdout, cmd.status = &out, &status
	defer func() {
		term.Close()
		_, _ = io.Copy(os.Stdout, &out)
		_, _ = io.Copy(os.Stderr, &status)
	}()
	return execute(cfg, &cmd.Target, term, command.CmdAddProperty, args...)
}

// CommandsCmd lists the dispatcher's commands.
type CommandsCmd struct{}

func (cmd *CommandsCmd) Run() error {
	d := command.NewDispatcher(nil, nil, nil, command.Options{})
	for _, name := range d.Names() {
		fmt.Println(name)
	}
	return nil
}
