package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/chzyer/readline"

	"github.com/viert/netinv/config"
	"github.com/viert/netinv/output"
	"github.com/viert/netinv/store"
	"github.com/viert/netinv/term"
)

type cmdHandler func(string, string, ...string)

// Loader populates an empty inventory from the inventory source
type Loader func(ctx context.Context, inv *store.Inventory) error

// Cli is the interactive inventory shell
type Cli struct {
	rl      *readline.Instance
	stopped bool

	handlers  map[string]cmdHandler
	completer *completer
	inv       *store.Inventory
	load      Loader
	source    string
	format    output.Format
	out       io.Writer

	naturalSort bool
	debug       bool
	logLevel    string
}

var (
	whitespace = regexp.MustCompile(`\s+`)
)

// New creates a new instance of CLI working on an already loaded inventory
func New(cfg *config.Config, source string, inv *store.Inventory, load Loader) (*Cli, error) {
	var err error

	cli := newCli(source, inv, load, os.Stdout)
	cli.format = output.Format(cfg.Output)
	cli.logLevel = cfg.LogLevel
	cli.naturalSort = cfg.NaturalSort
	cli.inv.SetNaturalSort(cli.naturalSort)

	cfg.Readline.AutoComplete = cli.completer
	cli.rl, err = readline.NewEx(cfg.Readline)
	if err != nil {
		return nil, err
	}
	return cli, nil
}

func newCli(source string, inv *store.Inventory, load Loader, out io.Writer) *Cli {
	cli := new(Cli)
	cli.source = source
	cli.inv = inv
	cli.load = load
	cli.out = out
	cli.format = output.JSON
	cli.naturalSort = true
	cli.logLevel = "warning"
	cli.setupCmdHandlers()
	return cli
}

func (c *Cli) setPrompt() {
	pr := term.Cyan(fmt.Sprintf("[%d hosts/%d groups]", len(c.inv.Hosts()), len(c.inv.Groups())))
	pr += " " + term.Colored("netinv", term.CLightBlue, true)
	if c.debug {
		pr += term.Colored("(debug)", term.CRed, false)
	}
	pr += "> "
	c.rl.SetPrompt(pr)
}

// Finalize closes resources at netinv's exit. Must be called explicitly
func (c *Cli) Finalize() {
	if c.rl != nil {
		c.rl.Close()
	}
}

// OneCmd is the main method which literally runs one command
// according to line given in arguments
func (c *Cli) OneCmd(line string) {
	var args []string
	var argsLine string

	line = strings.Trim(line, " \n\t")
	if strings.HasPrefix(line, "#") {
		return
	}

	cmdRunes, rest := split([]rune(line))
	cmd := string(cmdRunes)

	if cmd == "" {
		return
	}

	if rest == nil {
		args = make([]string, 0)
		argsLine = ""
	} else {
		argsLine = string(rest)
		args = whitespace.Split(argsLine, -1)
	}

	if handler, ok := c.handlers[cmd]; ok {
		handler(cmd, argsLine, args...)
	} else {
		term.Errorf("Unknown command: %s\n", cmd)
	}
}

// CmdLoop reads commands and runs OneCmd
func (c *Cli) CmdLoop() {
	for !c.stopped {
		c.setPrompt()

		line, err := c.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			c.stopped = true
			continue
		}
		c.OneCmd(line)
	}
}

func doOnOff(propName string, propRef *bool, args []string) bool {
	if len(args) < 1 {
		value := "off"
		if *propRef {
			value = "on"
		}
		term.Warnf("%s is %s\n", propName, value)
		return false
	}
	prev := *propRef
	switch args[0] {
	case "on":
		*propRef = true
	case "off":
		*propRef = false
	default:
		term.Errorf("Invalid %s value. Please use either \"on\" or \"off\"\n", propName)
		return false
	}
	return prev != *propRef
}

func (c *Cli) renderer() *output.Renderer {
	return output.New(c.inv, c.format)
}
