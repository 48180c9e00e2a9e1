// Package log implements the leveled, single-writer logger used by the
// command-line front end. All output is funneled through one goroutine so
// that concurrent merge/reader diagnostics never interleave mid-line.
package log

import (
	"fmt"
	"os"
)

// output carries one rendered line plus the level it was logged at, so
// tests can assert on both independently of formatting.
type output struct {
	level Level
	text  string
}

var outputCh = make(chan output, 10000)
var doneCh = make(chan struct{})
var currentLevel = LevelInfo
var jsonOutput bool

// Level is the logger's verbosity threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LevelFromString maps a CLI flag value to a Level, defaulting to Info.
func LevelFromString(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warning":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Init starts the logger's output goroutine. Must be called once before
// any of Debug/Info/Warning/Error are used.
func Init(level string, json bool) {
	currentLevel = LevelFromString(level)
	jsonOutput = json
	outputCh = make(chan output, 10000)
	doneCh = make(chan struct{})
	go drain()
}

func drain() {
	defer close(doneCh)
	impl := func(s string) { fmt.Fprintln(os.Stdout, s) }
	for o := range outputCh {
		impl(o.text)
	}
}

func emit(level Level, msg Message) {
	if level < currentLevel {
		return
	}
	var text string
	if jsonOutput {
		text = msg.JSON()
	} else {
		text = fmt.Sprintf("%-7s %s", level, msg.String())
	}
	outputCh <- output{level: level, text: text}
}

func Debug(msg Message)   { emit(LevelDebug, msg) }
func Info(msg Message)    { emit(LevelInfo, msg) }
func Warning(msg Message) { emit(LevelWarning, msg) }
func Error(msg Message)   { emit(LevelError, msg) }

// Close drains the remaining buffered output and stops the writer
// goroutine. Safe to call once per Init.
func Close() {
	close(outputCh)
	<-doneCh
}
