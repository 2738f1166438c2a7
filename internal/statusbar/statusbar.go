// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bethropolis/reflow/internal/types"
	"github.com/fatih/color"
)

// Level classifies a status message.
type Level int

const (
	LevelNone Level = iota
	LevelInfo
	LevelError
)

// Config defines where and how status lines are printed.
type Config struct {
	Out   io.Writer    // info messages
	Err   io.Writer    // error messages
	Info  *color.Color // style for info messages
	Error *color.Color // style for error messages
}

// DefaultConfig prints info in cyan to stdout and errors in red to stderr.
func DefaultConfig() Config {
	return Config{
		Out:   os.Stdout,
		Err:   os.Stderr,
		Info:  color.New(color.FgCyan),
		Error: color.New(color.FgRed),
	}
}

// StatusBar holds the file/cursor summary and the latest command message.
type StatusBar struct {
	config Config
	mu     sync.RWMutex

	filePath   string
	cursorPos  types.Position
	isModified bool

	message string
	level   Level
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	def := DefaultConfig()
	if config.Out == nil {
		config.Out = def.Out
	}
	if config.Err == nil {
		config.Err = def.Err
	}
	if config.Info == nil {
		config.Info = def.Info
	}
	if config.Error == nil {
		config.Error = def.Error
	}
	return &StatusBar{config: config}
}

// SetFileInfo updates the file path shown in the status line.
func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
}

// SetCursorInfo updates the cursor position shown.
func (sb *StatusBar) SetCursorInfo(pos types.Position) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.cursorPos = pos
}

// SetTemporaryMessage sets an informational message until the next Flush.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.message = fmt.Sprintf(format, args...)
	sb.level = LevelInfo
}

// SetError reports a failed command. A nil error is ignored.
func (sb *StatusBar) SetError(err error) {
	if err == nil {
		return
	}
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.message = err.Error()
	sb.level = LevelError
}

// ResetTemporaryMessage clears any pending message.
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.message = ""
	sb.level = LevelNone
}

// Message returns the pending message and its level.
func (sb *StatusBar) Message() (string, Level) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.message, sb.level
}

// Text builds the summary line: path, modified flag and cursor position.
func (sb *StatusBar) Text() string {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	fPath := sb.filePath
	if fPath == "" {
		fPath = "[No Name]"
	}
	modifiedIndicator := ""
	if sb.isModified {
		modifiedIndicator = " [Modified]"
	}
	return fmt.Sprintf("%s%s -- Line: %d, Col: %d",
		fPath, modifiedIndicator, sb.cursorPos.Line+1, sb.cursorPos.Col+1)
}

// Flush prints the pending message, errors in the error style to the
// error writer, and clears it.
func (sb *StatusBar) Flush() error {
	sb.mu.Lock()
	msg, level := sb.message, sb.level
	sb.message, sb.level = "", LevelNone
	sb.mu.Unlock()

	var err error
	switch level {
	case LevelInfo:
		_, err = sb.config.Info.Fprintln(sb.config.Out, msg)
	case LevelError:
		_, err = sb.config.Error.Fprintln(sb.config.Err, msg)
	}
	return err
}
