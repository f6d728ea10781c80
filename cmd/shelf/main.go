package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/five82/shelf/internal/app"
)

const usage = `Usage: shelf [global flags] [command] [command flags]

Commands:
  tui       browse the catalog, loans and notifications (default)
  login     sign in and store the token
  logout    forget the stored token
  whoami    show the signed-in user and token lifetime
  upload    upload a file and print its URL

Global flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet("shelf", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "config file (default ~/.config/shelf/config.toml)")
	prefsPath := global.String("prefs", "", "preferences file (default ~/.config/shelf/prefs.toml)")
	language := global.String("language", "", "message language: en or zh-Hans")
	logLevel := global.String("log-level", "", "log level: debug, info, warn or error")
	global.Usage = func() {
		fmt.Fprint(stderr, usage)
		global.PrintDefaults()
	}

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	name, rest := "tui", global.Args()
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "shelf: unknown command %q\n", name)
		global.Usage()
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Language:   *language,
		LogLevel:   *logLevel,
	}
	streams := cmdIO{stdin: stdin, stdout: stdout, stderr: stderr}
	if err := cmd(ctx, opts, rest, streams); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "shelf: %v\n", err)
		return 1
	}
	return 0
}
