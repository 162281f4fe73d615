package cli

import (
	"fmt"
	"strings"

	"github.com/viert/netinv/term"
)

type helpItem struct {
	help    string
	usage   string
	isTopic bool
}

var (
	helpStrings = map[string]*helpItem{
		"config": &helpItem{
			isTopic: true,
			help: `Configuration file is located in ~/.netinv.conf unless --config option is given.

The first time netinv starts it creates a default configuration file with all the settings set
to default values:

[main]
log_file =
log_level = warning
history_file = ~/.netinv_history
output = json
natural_sort = true

[environ]

An empty log_file sends log messages to stderr. Every entry of the [environ] section is exported
into the environment before the inventory source is read unless the variable is already set,
which makes it a convenient place for CC_* and DNAC_* settings.`,
		},

		"sources": &helpItem{
			isTopic: true,
			help: `An inventory source is a YAML document. Its file name must end with dnac_inventory.yml
(or .yaml) for the DNA Center plugin and dyn_inventory.yml (or .yaml) for the mock plugin.

Example:
    plugin: rtlocal.custom_collection.dnac_inventory
    dnac_host: dnac.example.com
    dnac_username: admin
    compose:
      ansible_host: managementIpAddress
    groups:
      routers: family == "Routers"
    keyed_groups:
      - key: platformId
        prefix: platform
        parent_group: platforms

Compose and group conditions are CEL expressions evaluated against host variables.`,
		},

		"expressions": &helpItem{
			help: `Some commands in netinv use host expressions with a certain syntax to represent a list of hosts.
Every expression is a comma-separated list of tokens, where token may be
    - a single host or a host pattern (hosts unknown to the inventory are skipped),
    - a single group,
    - a regular expression matched against all hosts,
and every item may be completely excluded from the list.

Some self-explanatory examples:
    host1,host2                         - simple host list containing 2 hosts
    sw{1..4}.lab                        - sw1.lab, sw2.lab, sw3.lab and sw4.lab
    %ATL                                - all hosts from group ATL and its subgroups
    %ATL,host1                          - all hosts from ATL, plus host1
    %ATL,-host2                         - all hosts from ATL, excluding(!) host2
    %platforms/^R/                      - hosts of group platforms matching regexp ^R
    ~^SATL                              - all hosts matching regexp ^SATL

You may combine any number of tokens keeping in mind that they are resolved left to right, so exclusions
almost always should be on the righthand side. For example, "-host1,host1" will end up with host1 in list
despite being excluded previously.`,
			isTopic: true,
		},

		"debug": &helpItem{
			usage: "[<on/off>]",
			help:  `Switches debug logging on or off. If no value is given, prints the current value.`,
		},

		"exit": &helpItem{
			usage: "",
			help:  "Exits the netinv program. You can also use Ctrl-D to quit netinv.",
		},

		"graph": &helpItem{
			usage: "[<group>]",
			help:  `Prints the tree of groups and hosts starting with the given group or with "all".`,
		},

		"groups": &helpItem{
			usage: "",
			help:  `Lists all groups with the number of hosts they contain including their subgroups.`,
		},

		"help": &helpItem{
			usage: "[<command>]",
			help:  "Shows help on various commands and topics",
		},

		"host": &helpItem{
			usage: "<hostname>",
			help:  `Prints variables of the host in the current output format.`,
		},

		"hostlist": &helpItem{
			usage: "<host_expression>",
			help: `Resolves the host expression and prints the resulting hostlist. To learn more about
expressions type "help expressions".`,
		},

		"list": &helpItem{
			usage: "",
			help: `Prints the whole inventory in the current output format the same way
"netinv --list" does.`,
		},

		"natural_sort": &helpItem{
			usage: "[<on/off>]",
			help: `Sets natural sorting of hosts within one host expression token on or off.
If no value is given, prints the current value.`,
		},

		"output": &helpItem{
			usage: "[<json/yaml>]",
			help:  `Sets the output format of list and host commands. If no value is given, prints the current value.`,
		},

		"reload": &helpItem{
			usage: "",
			help: `Reads the inventory source again and rebuilds the inventory. If reading fails
the current inventory is kept.`,
		},
	}
)

func (c *Cli) doHelp(name string, argsLine string, args ...string) {
	if len(args) < 1 {
		generalHelp()
		return
	}

	if hs, found := helpStrings[args[0]]; found {
		if hs.isTopic {
			fmt.Printf("\nTopic: %s\n\n", term.Colored(args[0], term.CWhite, true))
		} else {
			fmt.Printf("\nCommand: %s %s\n\n", term.Colored(args[0], term.CWhite, true), hs.usage)
		}
		tokens := strings.Split(hs.help, "\n")
		for _, token := range tokens {
			fmt.Printf("    %s\n", token)
		}
		fmt.Println()
	} else {
		term.Errorf("There's no help on topic \"%s\"\n", args[0])
	}
}

func generalHelp() {
	fmt.Println(`
List of commands:
    debug                                  switches debug logging on/off
    exit                                   exits the netinv
    graph                                  prints the tree of groups and hosts
    groups                                 lists groups
    help                                   shows help on various commands and topics
    host                                   prints variables of a host
    hostlist                               resolves a host expression to a list of hosts
    list                                   prints the whole inventory
    natural_sort                           controls natural sorting in host expressions
    output                                 sets the output format
    reload                                 reads the inventory source again

Help topics:
    config                                 tool configuration file
    expressions                            host expression syntax
    sources                                inventory source documents`)
	fmt.Println()
}
