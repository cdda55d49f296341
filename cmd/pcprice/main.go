// Command pcprice queries the PC price-comparison API from the terminal.
//
//	pcprice [--base-url URL] [--log-level LEVEL] [--table] <command> [flags] [args]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Adda-Baaj/pcprice/internal/config"
	"github.com/Adda-Baaj/pcprice/internal/logger"
	"github.com/Adda-Baaj/pcprice/pkg/pcprice"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "pcprice failed: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

// env is what every command runs against.
type env struct {
	client *pcprice.Client
	out    io.Writer
	table  bool
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := pflag.NewFlagSet("pcprice", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(io.Discard)
	global.String("base-url", pcprice.DefaultBaseURL, "API base URL (env API_BASE_URL)")
	global.String("log-level", "info", "log level: debug, info, warn, error (env LOG_LEVEL)")
	table := global.Bool("table", false, "print product lists as a table instead of JSON")

	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage(global))
	}
	rest := global.Args()
	if len(rest) == 0 {
		return fmt.Errorf("no command given\n%s", usage(global))
	}

	name := rest[0]
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q\n%s", name, usage(global))
	}

	cfg, err := config.LoadWithFlags(global)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	client, err := pcprice.New(cfg.APIBaseURL, pcprice.WithLogger(log))
	if err != nil {
		return err
	}

	e := &env{client: client, out: out, table: *table}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	exec := cmd.setup(fs)
	if err := fs.Parse(rest[1:]); err != nil {
		return fmt.Errorf("%s: %w\nusage: pcprice %s %s\n%s", name, err, name, cmd.usage, fs.FlagUsages())
	}

	if err := exec(ctx, e, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			return fmt.Errorf("usage: pcprice %s %s", name, cmd.usage)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func usage(global *pflag.FlagSet) string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("usage: pcprice [flags] <command> [command flags] [args]\n\ncommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-15s %s\n", name, commands[name].summary)
	}
	b.WriteString("\nflags:\n")
	b.WriteString(global.FlagUsages())
	return b.String()
}
