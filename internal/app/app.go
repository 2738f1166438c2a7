// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bethropolis/reflow/internal/buffer"
	"github.com/bethropolis/reflow/internal/clipboard"
	"github.com/bethropolis/reflow/internal/command"
	"github.com/bethropolis/reflow/internal/config"
	"github.com/bethropolis/reflow/internal/editor"
	"github.com/bethropolis/reflow/internal/event"
	"github.com/bethropolis/reflow/internal/logger"
	"github.com/bethropolis/reflow/internal/prompt"
	"github.com/bethropolis/reflow/internal/statusbar"
	"github.com/bethropolis/reflow/internal/syntax/lang"
	"github.com/bethropolis/reflow/internal/types"
)

// LineRange is an inclusive, 1-based range of lines.
type LineRange struct {
	First, Last int
}

// Options describe one run: the file, where the cursor or selection
// starts, and where the result goes.
type Options struct {
	FilePath string

	// Line and Col place the cursor, 1-based. Zero means the first line
	// or column.
	Line, Col int
	// Selection, when set, selects whole lines and takes precedence over
	// the cursor.
	Selection *LineRange

	// Write saves the result back to FilePath instead of printing it.
	Write  bool
	Stdout io.Writer
	Status statusbar.Config
}

// App encapsulates the components for a single reformatting run.
type App struct {
	cfg        *config.Config
	opts       Options
	buf        *buffer.SliceBuffer
	view       *editor.View
	events     *event.Manager
	statusBar  *statusbar.StatusBar
	dispatcher *command.Dispatcher
	clipboard  *clipboard.Manager
}

// New loads the file and wires the editing stack. A nil prompter cancels
// any prompt.
func New(cfg *config.Config, prompter prompt.Prompter, opts Options) (*App, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if prompter == nil {
		prompter = prompt.NewScripted()
	}

	eventManager := event.NewManager()
	statusBar := statusbar.New(opts.Status)

	a := &App{
		cfg:       cfg,
		opts:      opts,
		events:    eventManager,
		statusBar: statusBar,
		clipboard: clipboard.NewManager(cfg.Format.SystemClipboard),
	}

	eventManager.Subscribe(event.TypeCursorMoved, a.handleCursorMovedForStatus)
	eventManager.Subscribe(event.TypeBufferModified, a.handleBufferChangedForStatus)
	eventManager.Subscribe(event.TypeBufferSaved, a.handleBufferChangedForStatus)
	eventManager.Subscribe(event.TypeBufferLoaded, a.handleBufferChangedForStatus)
	eventManager.Subscribe(event.TypeCommandFinished, a.handleCommandFinished)

	a.buf = buffer.NewSliceBuffer()
	a.buf.SetEventManager(eventManager)
	if err := a.buf.Load(opts.FilePath); err != nil {
		return nil, err
	}

	language := lang.Builtin().ForFile(opts.FilePath)
	if language == nil {
		logger.Debugf("App: no language for '%s'", opts.FilePath)
	} else {
		logger.Debugf("App: '%s' is %s", opts.FilePath, language.ID)
	}

	view, err := editor.NewView(a.buf, language, eventManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create view: %w", err)
	}
	a.view = view

	a.dispatcher = command.NewDispatcher(prompter, statusBar, eventManager, command.Options{
		SpaceBeforeParen: cfg.Format.SpaceBeforeParen,
		DefaultFlags:     cfg.GObject.DefaultFlags,
	})
	return a, nil
}

// Close releases the view.
func (a *App) Close() {
	a.view.Close()
}

// Commands lists the available command names.
func (a *App) Commands() []string { return a.dispatcher.Names() }

// StatusText returns the file and cursor summary line.
func (a *App) StatusText() string { return a.statusBar.Text() }

// Clipboard returns the clipboard holding the last result.
func (a *App) Clipboard() *clipboard.Manager { return a.clipboard }

// Run places the cursor or selection, executes the named command and
// emits the result. The outcome message is flushed to the status writers
// either way.
func (a *App) Run(ctx context.Context, name string, args ...string) error {
	if err := a.place(); err != nil {
		a.statusBar.SetError(err)
		a.flush()
		return err
	}

	err := a.dispatcher.Run(ctx, a.view, name, args...)
	if err == nil {
		err = a.emit()
		a.statusBar.SetError(err)
	}
	a.flush()
	return err
}

// place applies the cursor and selection options.
func (a *App) place() error {
	if r := a.opts.Selection; r != nil {
		if r.First < 1 || r.Last < r.First {
			return types.Failf(types.ErrInvalidArgument, "Invalid line range %d:%d", r.First, r.Last)
		}
		start := a.buf.OffsetOf(types.Position{Line: r.First - 1})
		end := a.buf.OffsetOf(types.Position{Line: r.Last})
		a.view.SelectRange(start, end)
		return nil
	}

	pos := types.Position{}
	if a.opts.Line > 0 {
		pos.Line = a.opts.Line - 1
	}
	if a.opts.Col > 0 {
		pos.Col = a.opts.Col - 1
	}
	a.view.PlaceCursor(a.buf.OffsetOf(pos))
	return nil
}

// emit writes the buffer back or prints it, then copies it.
func (a *App) emit() error {
	if a.opts.Write {
		if !a.buf.IsModified() {
			logger.Debugf("App: '%s' unchanged, not writing", a.buf.FilePath())
		} else if err := a.buf.Save(""); err != nil {
			return err
		}
	} else if _, err := a.opts.Stdout.Write(a.buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return a.clipboard.Copy(a.buf.Text())
}

func (a *App) flush() {
	if err := a.statusBar.Flush(); err != nil {
		logger.Warnf("App: failed to print status: %v", err)
	}
}
