package cli

import (
	"sort"
	"strings"

	"github.com/viert/netinv/store"
)

type completeFunc func([]rune) ([][]rune, int)

type completer struct {
	cmds     []string
	handlers map[string]completeFunc
	inv      *store.Inventory
}

func newCompleter(inv *store.Inventory, commands []string) *completer {
	x := &completer{commands, make(map[string]completeFunc), inv}
	x.handlers["hostlist"] = x.completeExpression
	x.handlers["host"] = x.completeHost
	x.handlers["graph"] = x.completeGroup
	x.handlers["output"] = staticCompleter([]string{"json", "yaml"})
	x.handlers["natural_sort"] = onOffCompleter()
	x.handlers["debug"] = onOffCompleter()

	helpTopics := append(commands, "expressions", "config", "sources")
	x.handlers["help"] = staticCompleter(helpTopics)
	return x
}

func split(line []rune) ([]rune, []rune) {
	strline := string(line)
	tokens := whitespace.Split(strline, 2)
	if len(tokens) < 2 {
		return []rune(tokens[0]), nil
	}
	return []rune(tokens[0]), []rune(tokens[1])
}

func runes(src []string) (dst [][]rune) {
	dst = make([][]rune, len(src))
	for i := 0; i < len(src); i++ {
		dst[i] = []rune(src[i])
	}
	return
}

func runeLastIndex(line []rune, sym rune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i] == sym {
			return i
		}
	}
	return -1
}

func staticCompleter(options []string) completeFunc {
	sort.Strings(options)
	return func(line []rune) ([][]rune, int) {
		ll := len(line)
		sr := make([]string, 0)
		for _, option := range options {
			if strings.HasPrefix(option, string(line)) {
				sr = append(sr, option[ll:])
			}
		}
		return runes(sr), ll
	}
}

func onOffCompleter() completeFunc {
	return staticCompleter([]string{"on", "off"})
}

func (x *completer) complete(line []rune) ([][]rune, int) {
	cmd, args := split(line)
	if args == nil {
		return x.completeCommand(cmd)
	}

	if handler, found := x.handlers[string(cmd)]; found {
		return handler(args)
	}

	return [][]rune{}, 0
}

func (x *completer) completeCommand(line []rune) ([][]rune, int) {
	sr := make([]string, 0)
	for _, cmd := range x.cmds {
		if strings.HasPrefix(cmd, string(line)) {
			sr = append(sr, cmd[len(line):]+" ")
		}
	}
	sort.Strings(sr)
	return runes(sr), len(line)
}

func (x *completer) completeExpression(line []rune) ([][]rune, int) {
	// only the last token of a complex expression is completed
	ci := runeLastIndex(line, ',')
	if ci >= 0 {
		return x.completeExpression(line[ci+1:])
	}

	if len(line) > 0 && line[0] == '-' {
		return x.completeExpression(line[1:])
	}

	if len(line) > 0 && line[0] == '%' {
		return x.completeGroup(line[1:])
	}

	return x.completeHost(line)
}

func (x *completer) completeGroup(line []rune) ([][]rune, int) {
	groups := x.inv.CompleteGroup(string(line))
	return runes(groups), len(line)
}

func (x *completer) completeHost(line []rune) ([][]rune, int) {
	hosts := x.inv.CompleteHost(string(line))
	return runes(hosts), len(line)
}

func (x *completer) Do(line []rune, pos int) ([][]rune, int) {
	postfix := line[pos:]
	result, length := x.complete(line[:pos])
	if len(postfix) > 0 {
		for i := 0; i < len(result); i++ {
			result[i] = append(result[i], postfix...)
		}
	}
	return result, length
}
