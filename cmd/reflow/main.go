// cmd/reflow/main.go
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/bethropolis/reflow/internal/config"
	"github.com/bethropolis/reflow/internal/logger"
	"github.com/fatih/color"
)

// Context carries the global flags to every command.
type Context struct {
	Config    string
	LogLevel  string
	LogFile   *string
	Clipboard *bool
}

// overrides turns the global flags into config overrides.
func (c *Context) overrides() *config.Overrides {
	o := &config.Overrides{
		LogFilePath:     c.LogFile,
		SystemClipboard: c.Clipboard,
	}
	if c.LogLevel != "" {
		o.LogLevel = &c.LogLevel
	}
	return o
}

// CLI represents the command-line interface
var CLI struct {
	Config    string  `help:"Path to TOML configuration file (default ~/.config/reflow/config.toml)" type:"path"`
	LogLevel  string  `name:"loglevel" help:"Log level (debug, info, warn, error)"`
	LogFile   *string `name:"logfile" help:"Path to write log file (use '-' for stderr)"`
	Clipboard *bool   `help:"Also copy the result to the system clipboard"`

	Indent   IndentCmd   `cmd:"" help:"Reformat according to the file's language"`
	Break    BreakCmd    `cmd:"" help:"Break the function call on a line into one argument per line"`
	Align    AlignCmd    `cmd:"" help:"Align the columns of function declarations"`
	AddProp  AddPropCmd  `cmd:"" name:"add-prop" help:"Add a GObject property to a class implementation"`
	Commands CommandsCmd `cmd:"" help:"List the editing commands"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(config.AppName),
		kong.Description("Reformat C sources and headers."),
		kong.UsageOnError(),
	)

	appCtx := &Context{
		Config:    CLI.Config,
		LogLevel:  CLI.LogLevel,
		LogFile:   CLI.LogFile,
		Clipboard: CLI.Clipboard,
	}

	if err := ctx.Run(appCtx); err != nil {
		if !reported(err) {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// setup loads the configuration and starts the logger. The returned
// function closes the log file.
func setup(c *Context, extra func(*config.Overrides)) (*config.Config, func(), error) {
	o := c.overrides()
	if extra != nil {
		extra(o)
	}
	cfg, err := config.Load(c.Config, o)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	out, closeLog, err := logger.Open(cfg.Logger.LogFilePath)
	if err != nil {
		return nil, nil, err
	}
	logger.Init(cfg.Logger, out)

	if cfg.Path != "" {
		logger.Debugf("Loaded configuration from %s", cfg.Path)
	}
	if len(cfg.Undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", cfg.Path, cfg.Undecoded)
	}
	return cfg, func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log: %v\n", err)
		}
	}, nil
}
