// Package familyhub parses familyhub command flags and runs its subcommands.
package familyhub

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	entrypoint "github.com/louisbranch/familyhub/internal/platform/cmd"
	"github.com/louisbranch/familyhub/internal/platform/config"
)

// Config holds familyhub command configuration.
type Config struct {
	BaseURL       string `env:"FAMILYHUB_API_BASE_URL"   envDefault:"http://localhost:8080"`
	ProbeURL      string `env:"FAMILYHUB_PROBE_URL"      envDefault:"https://clients3.google.com/generate_204"`
	TokenDB       string `env:"FAMILYHUB_TOKEN_DB"`
	StorageSecret string `env:"FAMILYHUB_STORAGE_SECRET"`
	PushToken     string `env:"FAMILYHUB_PUSH_TOKEN"`
	Locale        string `env:"FAMILYHUB_LOCALE"         envDefault:"en-US"`

	// Command is the subcommand name and Args its positional arguments.
	Command string
	Args    []string
}

// ParseConfig parses environment and flags into a Config. The first
// positional argument names the subcommand.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "familyhub API base URL")
	fs.StringVar(&cfg.ProbeURL, "probe-url", cfg.ProbeURL, "connectivity probe URL (empty disables)")
	fs.StringVar(&cfg.TokenDB, "token-db", cfg.TokenDB, "secure token store path")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "alert language")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.TokenDB) == "" {
		cfg.TokenDB = config.DefaultDataPath("session.db")
	}

	rest := fs.Args()
	if len(rest) > 0 {
		cfg.Command = rest[0]
		cfg.Args = rest[1:]
	}
	return cfg, nil
}

// Run executes the configured subcommand.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, errOut io.Writer) error {
	if in == nil {
		in = strings.NewReader("")
	}
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if strings.TrimSpace(cfg.Command) == "" {
		printUsage(out)
		return errors.New("command is required")
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceClient, func(ctx context.Context) error {
		a, err := newApp(ctx, cfg, in, out, errOut)
		if err != nil {
			return err
		}
		defer a.close()
		return a.dispatch(ctx, cfg.Command, cfg.Args)
	})
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "usage: familyhub [flags] <command> [args]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "commands:")
	fmt.Fprintln(out, "  login EMAIL PASSWORD")
	fmt.Fprintln(out, "  logout")
	fmt.Fprintln(out, "  whoami")
	fmt.Fprintln(out, "  register NAME EMAIL PASSWORD")
	fmt.Fprintln(out, "  families [create NAME | invite FAMILY_ID EMAIL]")
	fmt.Fprintln(out, "  activities FAMILY_ID [add TITLE [PRIORITY] | status ACTIVITY_ID STATUS]")
	fmt.Fprintln(out, "  chat ROOM_ID")
}
