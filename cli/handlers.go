package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/viert/netinv/log"
	"github.com/viert/netinv/output"
	"github.com/viert/netinv/store"
	"github.com/viert/netinv/term"
)

func (c *Cli) setupCmdHandlers() {
	c.handlers = make(map[string]cmdHandler)
	c.handlers["exit"] = c.doExit
	c.handlers["list"] = c.doList
	c.handlers["host"] = c.doHost
	c.handlers["graph"] = c.doGraph
	c.handlers["hostlist"] = c.doHostlist
	c.handlers["groups"] = c.doGroups
	c.handlers["reload"] = c.doReload
	c.handlers["output"] = c.doOutput
	c.handlers["natural_sort"] = c.doNaturalSort
	c.handlers["debug"] = c.doDebug
	c.handlers["help"] = c.doHelp

	commands := make([]string, len(c.handlers))
	i := 0
	for cmd := range c.handlers {
		commands[i] = cmd
		i++
	}
	c.completer = newCompleter(c.inv, commands)
}

func (c *Cli) doExit(name string, argsLine string, args ...string) {
	c.stopped = true
}

func (c *Cli) doList(name string, argsLine string, args ...string) {
	if err := c.renderer().List(c.out); err != nil {
		term.Errorf("%s\n", err)
	}
}

func (c *Cli) doHost(name string, argsLine string, args ...string) {
	if len(args) < 1 {
		term.Errorf("Usage: host <hostname>\n")
		return
	}
	if err := c.renderer().Host(c.out, args[0]); err != nil {
		term.Errorf("%s\n", err)
	}
}

func (c *Cli) doGraph(name string, argsLine string, args ...string) {
	group := ""
	if len(args) > 0 {
		group = args[0]
	}
	if err := c.renderer().Graph(c.out, group); err != nil {
		term.Errorf("%s\n", err)
	}
}

func (c *Cli) doHostlist(name string, argsLine string, args ...string) {
	if len(args) < 1 {
		term.Errorf("Usage: hostlist <host_expression>\n")
		return
	}

	hosts, err := c.inv.HostList([]rune(args[0]))
	if err != nil {
		term.Errorf("%s\n", err)
		return
	}

	if len(hosts) == 0 {
		term.Errorf("Empty hostlist\n")
		return
	}

	maxHostnameLen := 0
	for _, host := range hosts {
		if len(host) > maxHostnameLen {
			maxHostnameLen = len(host)
		}
	}

	title := fmt.Sprintf(" Hostlist %s    ", args[0])
	hrlen := len(title)
	if hrlen < maxHostnameLen+2 {
		hrlen = maxHostnameLen + 2
	}

	hr := term.HR(hrlen)

	fmt.Fprintln(c.out, term.Green(hr))
	fmt.Fprintln(c.out, term.Green(title))
	fmt.Fprintln(c.out, term.Green(hr))
	for _, host := range hosts {
		fmt.Fprintln(c.out, host)
	}
	term.Successf("Total: %d hosts\n", len(hosts))
}

func (c *Cli) doGroups(name string, argsLine string, args ...string) {
	groups := c.inv.Groups()
	if len(groups) == 0 {
		term.Warnf("No groups\n")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(c.out, "%s %d hosts", term.Blue(g.Name), len(c.inv.GroupAllHosts(g)))
		if len(g.Children) > 0 {
			fmt.Fprintf(c.out, ", %d children", len(g.Children))
		}
		fmt.Fprintln(c.out)
	}
}

func (c *Cli) doReload(name string, argsLine string, args ...string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT)
	defer signal.Stop(sigs)
	go func() {
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
	}()

	fresh := store.New()
	fresh.SetNaturalSort(c.naturalSort)
	if err := c.load(ctx, fresh); err != nil {
		term.Errorf("Error reloading %s: %s\n", c.source, err)
		return
	}
	// the old inventory is kept on failure
	*c.inv = *fresh
	term.Successf("%s reloaded: %d hosts, %d groups\n", c.source, len(c.inv.Hosts()), len(c.inv.Groups()))
}

func (c *Cli) doOutput(name string, argsLine string, args ...string) {
	if len(args) < 1 {
		term.Warnf("output is %s\n", c.format)
		return
	}
	switch f := output.Format(args[0]); f {
	case output.JSON, output.YAML:
		c.format = f
	default:
		term.Errorf("Invalid output format \"%s\". Please use either \"json\" or \"yaml\"\n", args[0])
	}
}

func (c *Cli) doNaturalSort(name string, argsLine string, args ...string) {
	if doOnOff("natural_sort", &c.naturalSort, args) {
		c.inv.SetNaturalSort(c.naturalSort)
	}
}

func (c *Cli) doDebug(name string, argsLine string, args ...string) {
	if !doOnOff("debug", &c.debug, args) {
		return
	}
	level := c.logLevel
	if c.debug {
		level = "debug"
	}
	if err := log.SetLevel(level); err != nil {
		term.Errorf("Error setting log level: %s\n", err)
	}
}
