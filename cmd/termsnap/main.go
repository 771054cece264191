// termsnap keeps a virtual terminal screen in memory and answers snapshot queries
// over stdin/stdout.
//
// Commands are read one per line from stdin:
//
//	d\n<N>\n<N bytes>   feed bytes to the screen
//	p\n                 print the screen as a JSON array of rows of [text, attributes] runs
//	c\n                 print the cursor as {"x":..,"y":..,"visible":..}
//
// Exit status is 0 when stdin ends between commands, 2 on a malformed command,
// 3 when the screen cannot be created and 1 otherwise.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/danielgatis/go-termsnap"
	"github.com/danielgatis/go-termsnap/screen"
)

var version = "dev"

const (
	exitProtocol = 2
	exitSetup    = 3
)

// exitError carries a specific exit status out of run.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		cols, rows  int
		policyName  string
		trueColor   bool
		maxFeed     int64
		recordPath  string
		logLevel    string
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("termsnap", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.IntVar(&cols, "cols", screen.DefaultCols, "screen width in columns")
	flagSet.IntVar(&rows, "rows", screen.DefaultRows, "screen height in rows")
	flagSet.StringVar(&policyName, "color-policy", termsnap.PolicyExact.String(), "RGB colors off the palette: exact (fail) or nearest (snap)")
	flagSet.BoolVar(&trueColor, "truecolor", false, "keep 24-bit colors as received instead of snapping them to the 256-color palette")
	flagSet.Int64Var(&maxFeed, "max-feed", termsnap.DefaultMaxFeed, "largest byte count a feed command may announce, 0 for no limit")
	flagSet.StringVar(&recordPath, "record", "", "append every fed byte to this file")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level on stderr: debug, info, warn or error")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet, stderr)
		return nil
	}
	if showVersion {
		fmt.Fprintf(stdout, "termsnap %s\n", version)
		return nil
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	logger := newLogger(stderr, level)
	if isTerminal(stdin) {
		logger.Warn("reading commands from a terminal; expected a pipe")
	}

	policy, err := termsnap.ParseColorPolicy(policyName)
	if err != nil {
		return err
	}

	opts := []screen.Option{screen.WithTrueColor(trueColor)}
	if recordPath != "" {
		file, err := os.OpenFile(recordPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open record file: %w", err)
		}
		defer file.Close()
		opts = append(opts, screen.WithRecording(file))
	}

	scr, err := screen.Open(cols, rows, opts...)
	if err != nil {
		return &exitError{code: exitSetup, err: err}
	}
	defer scr.Close()

	logger.Debug("screen opened", "cols", cols, "rows", rows, "policy", policy, "truecolor", trueColor)

	loop := termsnap.NewLoop(scr, stdin, stdout,
		termsnap.WithLogger(logger),
		termsnap.WithColorPolicy(policy),
		termsnap.WithMaxFeed(maxFeed),
	)
	if err := loop.Run(); err != nil {
		var protoErr *termsnap.ProtocolError
		if errors.As(err, &protoErr) {
			return &exitError{code: exitProtocol, err: err}
		}
		return err
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `termsnap keeps a virtual terminal screen and prints snapshots of it.

Commands are read from stdin, one per line:
  d      followed by a byte count line and that many raw bytes to feed
  p      print the screen as one line of JSON
  c      print the cursor position and visibility as one line of JSON

Feed counts above --max-feed (64 MiB by default) stop the session with a
protocol error. Pass --max-feed 0 to accept any count.

Usage:
  termsnap [flags]

Flags:
%s`, strings.TrimRight(flagSet.FlagUsages(), "\n")+"\n")
}
