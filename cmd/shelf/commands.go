package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/AlecAivazis/survey/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/pflag"

	"github.com/five82/shelf/internal/app"
)

type cmdIO struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command func(ctx context.Context, opts app.Options, args []string, streams cmdIO) error

var commands = map[string]command{
	"tui":    runTUI,
	"login":  runLogin,
	"logout": runLogout,
	"whoami": runWhoAmI,
	"upload": runUpload,
}

func newFlagSet(name string, streams cmdIO) *pflag.FlagSet {
	fs := pflag.NewFlagSet("shelf "+name, pflag.ContinueOnError)
	fs.SetOutput(streams.stderr)
	return fs
}

// withEnv opens the environment, runs fn and localizes the error it returns.
func withEnv(opts app.Options, fn func(env *app.Env) error) error {
	env, err := app.Open(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	if err := fn(env); err != nil {
		return errors.New(env.Localizer.ErrorText(err))
	}
	return nil
}

func runTUI(ctx context.Context, opts app.Options, args []string, streams cmdIO) error {
	fs := newFlagSet("tui", streams)
	poll := fs.Int("poll", 0, "refresh interval in seconds (default 5)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.PollEvery = *poll
	return app.Run(ctx, opts)
}

func runLogin(ctx context.Context, opts app.Options, args []string, streams cmdIO) error {
	fs := newFlagSet("login", streams)
	username := fs.StringP("username", "u", "", "account name (prompted when empty)")
	passwordStdin := fs.Bool("password-stdin", false, "read the password from stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	creds := struct {
		Username string
		Password string
	}{Username: strings.TrimSpace(*username)}

	if *passwordStdin {
		if creds.Username == "" {
			return errors.New("--password-stdin requires --username")
		}
		line, err := bufio.NewReader(streams.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		creds.Password = strings.TrimRight(line, "\r\n")
	} else {
		var questions []*survey.Question
		if creds.Username == "" {
			questions = append(questions, &survey.Question{
				Name:     "username",
				Prompt:   &survey.Input{Message: "Username:"},
				Validate: survey.Required,
			})
		}
		questions = append(questions, &survey.Question{
			Name:     "password",
			Prompt:   &survey.Password{Message: "Password:"},
			Validate: survey.Required,
		})
		if err := survey.Ask(questions, &creds); err != nil {
			return err
		}
	}

	return withEnv(opts, func(env *app.Env) error {
		user, err := env.Login(ctx, creds.Username, creds.Password)
		if err != nil {
			return err
		}
		fmt.Fprintf(streams.stdout, "Signed in as %s\n", user.DisplayName())
		return nil
	})
}

func runLogout(_ context.Context, opts app.Options, args []string, streams cmdIO) error {
	fs := newFlagSet("logout", streams)
	if err := fs.Parse(args); err != nil {
		return err
	}
	return withEnv(opts, func(env *app.Env) error {
		if err := env.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(streams.stdout, "Signed out")
		return nil
	})
}

func runWhoAmI(ctx context.Context, opts app.Options, args []string, streams cmdIO) error {
	fs := newFlagSet("whoami", streams)
	offline := fs.Bool("offline", false, "show the stored user without contacting the server")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withEnv(opts, func(env *app.Env) error {
		if *offline {
			user, err := env.StoredUser()
			if err != nil {
				return err
			}
			fmt.Fprintf(streams.stdout, "%s (%s, stored)\n", user.DisplayName(), user.Username)
			printSession(streams.stdout, env)
			return nil
		}

		id, err := env.WhoAmI(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(streams.stdout, "%s (%s)\n", id.User.DisplayName(), id.User.Username)
		if id.User.Role != "" {
			fmt.Fprintf(streams.stdout, "role: %s\n", strings.ToLower(id.User.Role))
		}
		printSession(streams.stdout, env)
		return nil
	})
}

func printSession(w io.Writer, env *app.Env) {
	info := env.Session()
	if !info.HasExpiry() {
		return
	}
	now := time.Now()
	if info.Expired(now) {
		fmt.Fprintf(w, "token expired %s\n", info.ExpiresAt.Local().Format(time.DateTime))
		return
	}
	fmt.Fprintf(w, "token expires %s (in %s)\n",
		info.ExpiresAt.Local().Format(time.DateTime),
		info.Remaining(now).Round(time.Minute))
}

func runUpload(ctx context.Context, opts app.Options, args []string, streams cmdIO) error {
	fs := newFlagSet("upload", streams)
	name := fs.String("name", "", "file name sent to the server (default: base name of the path)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("upload needs exactly one file path")
	}

	path := fs.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	if stat.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	kind, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("detect file type: %w", err)
	}

	filename := *name
	if filename == "" {
		filename = filepath.Base(path)
	}

	return withEnv(opts, func(env *app.Env) error {
		fmt.Fprintf(streams.stderr, "uploading %s (%s, %s)\n", filename, kind.String(), bytefmt.ByteSize(uint64(stat.Size())))
		res, err := env.Upload(ctx, filename, f)
		if err != nil {
			return err
		}
		fmt.Fprintln(streams.stdout, res.URL)
		return nil
	})
}
