package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/crytic/abisync/logging/colors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// GlobalLogger describes a Logger that is disabled by default and is configured by the CLI once the project
// configuration has been read. Each package should create its own sub-logger from it.
var GlobalLogger = NewLogger(zerolog.Disabled)

// Logger describes a custom logging object that can log events to any number of io.Writer channels, in either
// structured or unstructured format, with optional coloring for unstructured output.
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// fields holds the key-value pairs added through NewSubLogger, in insertion order (key, value, key, value...).
	fields []string

	// structuredLogger outputs JSON logs to structuredWriters.
	structuredLogger zerolog.Logger

	// structuredWriters describes the writers which receive structured (JSON) output.
	structuredWriters []io.Writer

	// unstructuredLogger outputs human-readable logs without ANSI coloring to unstructuredWriters.
	unstructuredLogger zerolog.Logger

	// unstructuredWriters describes the writers which receive unstructured, non-colorized output.
	unstructuredWriters []io.Writer

	// unstructuredColorLogger outputs human-readable, colorized logs to unstructuredColorWriters.
	unstructuredColorLogger zerolog.Logger

	// unstructuredColorWriters describes the writers which receive unstructured, colorized output.
	unstructuredColorWriters []io.Writer
}

// LogFormat describes what format to log in
type LogFormat string

const (
	// STRUCTURED describes that logging should be done in structured JSON format
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED describes that logging should be done in an unstructured format
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo describes a key-value mapping that can be used to log structured data
type StructuredLogInfo map[string]any

// NewLogger creates a new Logger with the given log level and no writers. Writers are attached with AddWriter.
func NewLogger(level zerolog.Level) *Logger {
	l := &Logger{
		level:                    level,
		fields:                   make([]string, 0),
		structuredWriters:        make([]io.Writer, 0),
		unstructuredWriters:      make([]io.Writer, 0),
		unstructuredColorWriters: make([]io.Writer, 0),
	}
	l.rebuild()
	return l
}

// NewSubLogger creates a new Logger which shares this logger's writers and carries an additional key-value pair
// on every event. Each package is expected to create one so that logs can be filtered by service.
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	sub := &Logger{
		level:                    l.level,
		fields:                   append(slices.Clone(l.fields), key, value),
		structuredWriters:        slices.Clone(l.structuredWriters),
		unstructuredWriters:      slices.Clone(l.unstructuredWriters),
		unstructuredColorWriters: slices.Clone(l.unstructuredColorWriters),
	}
	sub.rebuild()
	return sub
}

// AddWriter adds a writer to the channels where log output will be sent. colored only applies to UNSTRUCTURED
// output. Adding a writer which is already registered for the same format is a no-op.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat, colored bool) {
	writers := l.writersFor(format, colored)
	if slices.Contains(*writers, writer) {
		return
	}
	*writers = append(*writers, writer)
	l.rebuild()
}

// RemoveWriter removes a writer previously registered with AddWriter using the same format and coloring. If the
// writer is not registered, this is a no-op.
func (l *Logger) RemoveWriter(writer io.Writer, format LogFormat, colored bool) {
	writers := l.writersFor(format, colored)
	index := slices.Index(*writers, writer)
	if index == -1 {
		return
	}
	*writers = slices.Delete(*writers, index, index+1)
	l.rebuild()
}

// Level will get the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.rebuild()
}

// Trace is a wrapper function that will log a trace event
func (l *Logger) Trace(args ...any) {
	l.emit(zerolog.TraceLevel, args...)
}

// Debug is a wrapper function that will log a debug event
func (l *Logger) Debug(args ...any) {
	l.emit(zerolog.DebugLevel, args...)
}

// Info is a wrapper function that will log an info event
func (l *Logger) Info(args ...any) {
	l.emit(zerolog.InfoLevel, args...)
}

// Warn is a wrapper function that will log a warning event
func (l *Logger) Warn(args ...any) {
	l.emit(zerolog.WarnLevel, args...)
}

// Error is a wrapper function that will log an error event
func (l *Logger) Error(args ...any) {
	l.emit(zerolog.ErrorLevel, args...)
}

// Panic is a wrapper function that will log a panic event and then panic.
func (l *Logger) Panic(args ...any) {
	l.emit(zerolog.PanicLevel, args...)
}

// writersFor returns a pointer to the writer list which manages the given format and coloring.
func (l *Logger) writersFor(format LogFormat, colored bool) *[]io.Writer {
	if format == STRUCTURED {
		return &l.structuredWriters
	}
	if colored {
		return &l.unstructuredColorWriters
	}
	return &l.unstructuredWriters
}

// rebuild recreates the underlying zerolog loggers from the current writers, level and fields.
func (l *Logger) rebuild() {
	l.structuredLogger = l.newZerologLogger(l.structuredWriters, func(w io.Writer) io.Writer {
		return w
	}, true)
	l.unstructuredLogger = l.newZerologLogger(l.unstructuredWriters, func(w io.Writer) io.Writer {
		return setupDefaultFormatting(zerolog.ConsoleWriter{Out: w, NoColor: true}, l.level)
	}, false)
	l.unstructuredColorLogger = l.newZerologLogger(l.unstructuredColorWriters, func(w io.Writer) io.Writer {
		return &colorSwitchingWriter{
			colored: setupDefaultFormatting(zerolog.ConsoleWriter{Out: w}, l.level),
			plain:   setupDefaultFormatting(zerolog.ConsoleWriter{Out: w, NoColor: true}, l.level),
		}
	}, false)
}

// colorSwitchingWriter formats console output with or without ANSI codes depending on whether colors are enabled at
// the time of the write, so colors.DisableColor also applies to writers added before it was called.
type colorSwitchingWriter struct {
	colored zerolog.ConsoleWriter
	plain   zerolog.ConsoleWriter
}

// Write implements io.Writer.
func (w *colorSwitchingWriter) Write(p []byte) (int, error) {
	if colors.Enabled() {
		return w.colored.Write(p)
	}
	return w.plain.Write(p)
}

// newZerologLogger creates a zerolog.Logger over the given writers, each wrapped by wrap. A logger with no writers
// is disabled so that callers never need to nil-check.
func (l *Logger) newZerologLogger(writers []io.Writer, wrap func(io.Writer) io.Writer, timestamp bool) zerolog.Logger {
	if len(writers) == 0 {
		return zerolog.New(io.Discard).Level(zerolog.Disabled)
	}

	wrapped := make([]io.Writer, len(writers))
	for i, w := range writers {
		wrapped[i] = wrap(w)
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(wrapped...)).Level(l.level).With()
	if timestamp {
		ctx = ctx.Timestamp()
	}
	for i := 0; i+1 < len(l.fields); i += 2 {
		ctx = ctx.Str(l.fields[i], l.fields[i+1])
	}
	return ctx.Logger()
}

// emit builds the messages from args and sends them to every underlying logger at the given level.
func (l *Logger) emit(level zerolog.Level, args ...any) {
	coloredMsg, plainMsg, err, info := buildMsgs(args...)
	withStack := level == zerolog.PanicLevel || l.level <= zerolog.DebugLevel

	events := []struct {
		event *zerolog.Event
		msg   string
	}{
		{l.structuredLogger.WithLevel(level), plainMsg},
		{l.unstructuredLogger.WithLevel(level), plainMsg},
		{l.unstructuredColorLogger.WithLevel(level), coloredMsg},
	}
	for _, e := range events {
		if e.event == nil {
			continue
		}
		if err != nil {
			e.event = e.event.Err(err)
			if withStack {
				e.event = e.event.Stack()
			}
		}
		if info != nil {
			e.event = e.event.Any("info", info)
		}
		e.event.Msg(e.msg)
	}

	// WithLevel does not panic on its own, so mirror zerolog's Panic() behaviour here.
	if level == zerolog.PanicLevel {
		panic(plainMsg)
	}
}

// buildMsgs takes a variadic list of arguments of any type and returns a colorized message for colored console
// output, a plain message for every other channel and, optionally, an error and a StructuredLogInfo object.
// A colors.ColorFunc argument switches the color applied to subsequent arguments.
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	if len(args) == 0 {
		return "", "", nil, nil
	}

	colorCtx := colors.Reset
	colored := make([]string, 0, len(args))
	plain := make([]string, 0, len(args))
	var info StructuredLogInfo
	var err error

	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			colorCtx = t
		case StructuredLogInfo:
			// Only one structured log info is kept per message
			info = t
		case error:
			// Only one error is kept per message
			err = t
		default:
			colored = append(colored, colorCtx(t))
			plain = append(plain, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(colored, ""), strings.Join(plain, ""), err, info
}

// setupDefaultFormatting updates a console writer's formatting to the abisync console standard: no timestamp,
// a glyph or short tag per level, and no service field unless debugging.
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	writer.FormatTimestamp = func(i any) string {
		return ""
	}

	writer.FormatLevel = func(i any) string {
		levelStr, ok := i.(string)
		if !ok {
			return ""
		}
		parsed, err := zerolog.ParseLevel(levelStr)
		if err != nil {
			return levelStr
		}

		switch parsed {
		case zerolog.TraceLevel:
			return colors.CyanBold(zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return colors.BlueBold(zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return colors.GreenBold(colors.LEFT_ARROW)
		case zerolog.WarnLevel:
			return colors.YellowBold(zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			return colors.RedBold(zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			return colors.RedBold(zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			return colors.RedBold(zerolog.LevelPanicValue)
		default:
			return levelStr
		}
	}

	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{SERVICE_KEY, RUN_ID_KEY}
	}

	return writer
}
