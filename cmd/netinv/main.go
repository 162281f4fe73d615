package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/viert/netinv/cli"
	"github.com/viert/netinv/config"
	"github.com/viert/netinv/log"
	"github.com/viert/netinv/output"
	"github.com/viert/netinv/plugin"
	"github.com/viert/netinv/store"
	colors "github.com/viert/netinv/term"
)

var (
	cfgFilename = pflag.String("config", path.Join(os.Getenv("HOME"), ".netinv.conf"), "tool configuration file")
	list        = pflag.Bool("list", false, "output all hosts info")
	host        = pflag.String("host", "", "output variables of a single host")
	graph       = pflag.Bool("graph", false, "output the inventory graph, an optional group name may follow the source")
	hosts       = pflag.String("hosts", "", "resolve a host expression to a list of hosts")
	shell       = pflag.Bool("shell", false, "start an interactive inventory shell")
	asYAML      = pflag.BoolP("yaml", "y", false, "use YAML instead of JSON")
	askPass     = pflag.BoolP("ask-pass", "k", false, "ask for the API password")
	showVersion = pflag.BoolP("version", "V", false, "print version and exit")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] SOURCE [GROUP]\n\n", path.Base(os.Args[0]))
	pflag.PrintDefaults()
}

func main() {
	pflag.Usage = usage
	pflag.Parse()

	if *showVersion {
		fmt.Println(cli.Version())
		return
	}
	if err := run(); err != nil {
		colors.Errorf("%s\n", err)
		os.Exit(1)
	}
}

func run() error {
	if pflag.NArg() < 1 {
		usage()
		return errors.New("inventory source is not given")
	}
	source := pflag.Arg(0)

	actions := 0
	for _, on := range []bool{*list, *host != "", *graph, *hosts != "", *shell} {
		if on {
			actions++
		}
	}
	if actions != 1 {
		return errors.New("exactly one of --list, --host, --graph, --hosts or --shell is required")
	}

	cfg, err := config.Read(*cfgFilename)
	if err != nil {
		return fmt.Errorf("Error reading config: %w", err)
	}
	if err := log.Initialize(cfg.LogFile, cfg.LogLevel); err != nil {
		colors.Errorf("Error initializing logger: %s\n", err)
	}
	defer log.Close()

	if err := cfg.ExportEnvironment(); err != nil {
		return err
	}

	p, err := plugin.ForFile(source)
	if err != nil {
		return err
	}
	if *askPass {
		po, ok := p.(plugin.PasswordOverrider)
		if !ok {
			return fmt.Errorf("%s doesn't take a password", p.Name())
		}
		password, err := readPassword()
		if err != nil {
			return err
		}
		po.OverridePassword(password)
	}

	load := func(ctx context.Context, inv *store.Inventory) error {
		return p.Parse(ctx, source, inv)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inv := store.New()
	inv.SetNaturalSort(cfg.NaturalSort)
	if err := load(ctx, inv); err != nil {
		return err
	}
	stop()

	format := output.Format(cfg.Output)
	if *asYAML {
		format = output.YAML
	}
	r := output.New(inv, format)

	switch {
	case *list:
		return r.List(os.Stdout)
	case *host != "":
		return r.Host(os.Stdout, *host)
	case *graph:
		return r.Graph(os.Stdout, pflag.Arg(1))
	case *hosts != "":
		hostlist, err := inv.HostList([]rune(*hosts))
		if err != nil {
			return err
		}
		for _, h := range hostlist {
			fmt.Println(h)
		}
		return nil
	}

	if *asYAML {
		cfg.Output = config.OutputYAML
	}
	tool, err := cli.New(cfg, source, inv, load)
	if err != nil {
		return err
	}
	defer tool.Finalize()
	tool.CmdLoop()
	return nil
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "API password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}
