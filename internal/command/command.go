// Package command maps named actions to the formatting engines.
package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/reflow/internal/editor"
	"github.com/bethropolis/reflow/internal/event"
	"github.com/bethropolis/reflow/internal/logger"
	"github.com/bethropolis/reflow/internal/prompt"
	"github.com/bethropolis/reflow/internal/syntax/lang"
	"github.com/bethropolis/reflow/internal/types"
)

// Func is an action bound to the active view. args is the free-form
// argument string split on whitespace.
type Func func(ctx context.Context, v *editor.View, args []string) error

// Handler reformats the view for one content type.
type Handler func(ctx context.Context, v *editor.View) error

// Status receives the outcome of each command.
type Status interface {
	SetTemporaryMessage(format string, args ...interface{})
	SetError(err error)
}

// Options tune the built-in commands.
type Options struct {
	SpaceBeforeParen bool
	DefaultFlags     string
}

// Built-in command names.
const (
	CmdIndent            = "indent"
	CmdBreakFunction     = "break-function"
	CmdAlignDeclarations = "align-declarations"
	CmdAddProperty       = "gobj.add-prop"
)

// Dispatcher resolves command names and, for indent, content types.
type Dispatcher struct {
	mu       sync.RWMutex
	commands map[string]Func
	handlers map[lang.ContentType]Handler

	prompter prompt.Prompter
	status   Status
	events   *event.Manager
	opts     Options
}

// NewDispatcher creates a dispatcher with the built-in commands. events
// and status may be nil.
func NewDispatcher(p prompt.Prompter, status Status, events *event.Manager, opts Options) *Dispatcher {
	d := &Dispatcher{
		commands: make(map[string]Func),
		prompter: p,
		status:   status,
		events:   events,
		opts:     opts,
	}

	// The indent table is fixed for the dispatcher's lifetime.
	d.handlers = map[lang.ContentType]Handler{
		lang.ContentC:       d.breakFunction,
		lang.ContentCPP:     d.breakFunction,
		lang.ContentCHeader: d.alignDeclarations,
	}

	d.mustRegister(CmdIndent, d.indent)
	d.mustRegister(CmdBreakFunction, func(ctx context.Context, v *editor.View, _ []string) error {
		return d.breakFunction(ctx, v)
	})
	d.mustRegister(CmdAlignDeclarations, func(ctx context.Context, v *editor.View, _ []string) error {
		return d.alignDeclarations(ctx, v)
	})
	d.mustRegister(CmdAddProperty, d.addProperty)
	return d
}

func (d *Dispatcher) mustRegister(name string, fn Func) {
	if err := d.Register(name, fn); err != nil {
		panic(err)
	}
}

// Register adds a named command.
func (d *Dispatcher) Register(name string, fn Func) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if name == "" {
		return fmt.Errorf("command registration failed: name cannot be empty")
	}
	if _, exists := d.commands[name]; exists {
		return fmt.Errorf("command registration failed: '%s' already registered", name)
	}
	d.commands[name] = fn
	logger.DebugTagf("command", "registered '%s'", name)
	return nil
}

// Names returns the registered command names, sorted.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs "name [args...]" against v, reports the outcome to the
// status sink and announces it on the event bus.
func (d *Dispatcher) Execute(ctx context.Context, v *editor.View, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	return d.Run(ctx, v, parts[0], parts[1:]...)
}

// Run executes the named command with args.
func (d *Dispatcher) Run(ctx context.Context, v *editor.View, name string, args ...string) error {
	d.mu.RLock()
	fn, exists := d.commands[name]
	d.mu.RUnlock()

	var err error
	if !exists {
		err = types.Failf(types.ErrInvalidArgument, "Unknown command: %s", name)
	} else {
		logger.Debugf("Dispatcher: executing '%s' with args %v", name, args)
		err = fn(ctx, v, args)
	}

	if err != nil {
		logger.Warnf("Dispatcher: '%s' failed: %v", name, err)
		if d.status != nil {
			d.status.SetError(err)
		}
	}
	if d.events != nil {
		d.events.Dispatch(event.TypeCommandFinished, event.CommandFinishedData{Name: name, Err: err})
	}
	return err
}

// indent picks the reformatting rule for the view's content type.
func (d *Dispatcher) indent(ctx context.Context, v *editor.View, _ []string) error {
	handler, ok := d.handlers[v.ContentType()]
	if !ok {
		return types.Failf(types.ErrUnsupportedContent, "Indentation rules not available for this language")
	}
	return handler(ctx, v)
}

func (d *Dispatcher) report(format string, args ...interface{}) {
	if d.status != nil {
		d.status.SetTemporaryMessage(format, args...)
	}
}
