package termsnap

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Protocol command bytes.
const (
	CommandFeed   = 'd'
	CommandPrint  = 'p'
	CommandCursor = 'c'
)

// DefaultMaxFeed is the feed limit the termsnap command applies unless told otherwise.
// A Loop has no limit until WithMaxFeed sets one.
const DefaultMaxFeed = 64 << 20

// State is the command loop state.
type State int

const (
	StateAwaitingCommand State = iota
	StateFeeding
	StatePrinting
	StateCursorQuery
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAwaitingCommand:
		return "awaiting-command"
	case StateFeeding:
		return "feeding"
	case StatePrinting:
		return "printing"
	case StateCursorQuery:
		return "cursor-query"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Loop reads framed commands from an input stream, drives an Engine and writes one
// JSON line per print or cursor command.
//
// Protocol, one command per line:
//
//	d\n<N>\n<N raw bytes>   feed N bytes to the engine
//	p\n                     write a snapshot line
//	c\n                     write a cursor state line
//
// Every failure is terminal: the framing has no way to resynchronize.
type Loop struct {
	engine  Engine
	in      *bufio.Reader
	out     *bufio.Writer
	enc     *json.Encoder
	codec   Codec
	maxFeed int64
	logger  *slog.Logger
	state   State
}

// LoopOption configures a Loop during construction.
type LoopOption func(*Loop)

// WithLogger sets the logger for command tracing. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithColorPolicy sets how off-cube RGB colors are resolved. Defaults to PolicyExact.
func WithColorPolicy(p ColorPolicy) LoopOption {
	return func(l *Loop) {
		l.codec.Policy = p
	}
}

// WithMaxFeed limits the byte count a feed command may announce.
// Values <= 0 remove the limit.
func WithMaxFeed(n int64) LoopOption {
	return func(l *Loop) {
		l.maxFeed = n
	}
}

// NewLoop creates a loop reading commands from in and writing responses to out.
func NewLoop(engine Engine, in io.Reader, out io.Writer, opts ...LoopOption) *Loop {
	l := &Loop{
		engine: engine,
		in:     bufio.NewReader(in),
		out:    bufio.NewWriter(out),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:  StateAwaitingCommand,
	}
	l.enc = json.NewEncoder(l.out)
	l.enc.SetEscapeHTML(false)

	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current loop state.
func (l *Loop) State() State {
	return l.state
}

// Run processes commands until the input ends. It returns nil when the input ends
// between commands and the first error otherwise.
func (l *Loop) Run() error {
	defer func() { l.state = StateClosed }()

	for {
		l.state = StateAwaitingCommand
		line, err := l.readLine()
		if errors.Is(err, io.EOF) {
			l.logger.Debug("input closed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}

		if err := l.dispatch(line); err != nil {
			l.logger.Debug("command failed", "state", l.state, "error", err)
			return err
		}
	}
}

func (l *Loop) dispatch(line string) error {
	cmd := strings.TrimSpace(line)
	if cmd == "" {
		return &ProtocolError{Err: ErrEmptyCommand}
	}

	switch cmd[0] {
	case CommandFeed:
		l.state = StateFeeding
		return l.feed()
	case CommandPrint:
		l.state = StatePrinting
		return l.print()
	case CommandCursor:
		l.state = StateCursorQuery
		return l.cursor()
	default:
		return &ProtocolError{Command: cmd, Err: ErrUnknownCommand}
	}
}

func (l *Loop) feed() error {
	line, err := l.readLine()
	if errors.Is(err, io.EOF) {
		return &ProtocolError{Command: "d", Err: ErrTruncated}
	}
	if err != nil {
		return fmt.Errorf("read count: %w", err)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil || n < 0 {
		return &ProtocolError{Command: "d", Err: fmt.Errorf("%w: %q", ErrBadCount, line)}
	}
	if l.maxFeed > 0 && n > l.maxFeed {
		return &ProtocolError{Command: "d", Err: fmt.Errorf("%w: %d > %d", ErrFeedTooLarge, n, l.maxFeed)}
	}

	// The buffer grows with the data read; the count alone never sizes an allocation.
	var payload bytes.Buffer
	if _, err := io.CopyN(&payload, l.in, n); err != nil {
		if errors.Is(err, io.EOF) {
			return &ProtocolError{Command: "d", Err: ErrTruncated}
		}
		return fmt.Errorf("read payload: %w", err)
	}
	data := payload.Bytes()

	l.logger.Debug("feed", "bytes", n)
	if err := l.engine.Feed(data); err != nil {
		return fmt.Errorf("feed: %w", err)
	}
	return nil
}

func (l *Loop) print() error {
	snap, err := Capture(l.engine, l.codec)
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	l.logger.Debug("print", "rows", len(snap))
	return l.write(snap)
}

func (l *Loop) cursor() error {
	state := ReadCursor(l.engine)
	l.logger.Debug("cursor", "x", state.X, "y", state.Y, "visible", state.Visible)
	return l.write(state)
}

// write encodes v as one JSON line and flushes it.
func (l *Loop) write(v any) error {
	if err := l.enc.Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if err := l.out.Flush(); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// readLine returns the next line without its terminator. A final line without a
// newline is returned as is; io.EOF is only returned when nothing was read.
func (l *Loop) readLine() (string, error) {
	line, err := l.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSuffix(line, "\r"), nil
		}
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
