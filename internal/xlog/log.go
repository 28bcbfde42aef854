// Package xlog is a small leveled logger for processes that embed the vm
// package: the engine itself never imports this, logging is strictly a
// host/CLI concern. Output is colourised when stderr is a terminal and
// plain otherwise, the same split this codebase's lineage makes for its own
// node logs.
package xlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Level identifies a log record's severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "?????"
	}
}

var levelColor = map[Level]*color.Color{
	LevelDebug: color.New(color.FgCyan),
	LevelInfo:  color.New(color.FgGreen),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed, color.Bold),
}

// Logger writes leveled, key/value-annotated records to an output stream.
// The zero value is not usable; build one with New.
type Logger struct {
	out     io.Writer
	color   bool
	minimum Level
}

// New builds a Logger writing to w. useColor forces colour output on or
// off regardless of whether w looks like a terminal; pass nil to have New
// decide for itself: colour is on only when w is an *os.File that isatty
// reports as a terminal.
func New(w io.Writer, minimum Level, useColor *bool) *Logger {
	enable := false
	if useColor != nil {
		enable = *useColor
	} else if f, ok := w.(*os.File); ok {
		enable = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if _, isFile := w.(*os.File); enable && isFile {
		w = colorable.NewColorable(asFile(w))
	}
	return &Logger{out: w, color: enable, minimum: minimum}
}

// Default builds a Logger writing to stderr at LevelInfo, auto-detecting
// colour support.
func Default() *Logger {
	return New(os.Stderr, LevelInfo, nil)
}

func asFile(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return os.Stderr
}

func (lg *Logger) Debug(msg string, kv ...any) { lg.log(LevelDebug, msg, kv) }
func (lg *Logger) Info(msg string, kv ...any)   { lg.log(LevelInfo, msg, kv) }
func (lg *Logger) Warn(msg string, kv ...any)   { lg.log(LevelWarn, msg, kv) }

// Error logs at LevelError and tags the record with the caller's file:line,
// captured via go-stack, since a fatal diagnostic is the one record worth
// pointing at its origin without every call site passing one in.
func (lg *Logger) Error(msg string, kv ...any) {
	call := stack.Caller(1)
	lg.log(LevelError, msg, append(kv, "at", fmt.Sprintf("%+v", call)))
}

func (lg *Logger) log(level Level, msg string, kv []any) {
	if level < lg.minimum {
		return
	}

	var b strings.Builder
	ts := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	levelText := level.String()

	if lg.color {
		c := levelColor[level]
		fmt.Fprintf(&b, "%s %s %s", ts, c.Sprint(levelText), msg)
	} else {
		fmt.Fprintf(&b, "%s %-5s %s", ts, levelText, msg)
	}

	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	b.WriteByte('\n')

	io.WriteString(lg.out, b.String())
}
