package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/viert/netinv/store"
)

// Graph writes the group tree starting at the named group, "all" or
// an empty name meaning the whole inventory
func (r *Renderer) Graph(w io.Writer, group string) error {
	var lines []string
	switch {
	case group == "" || group == allGroup:
		lines = append(lines, "@"+allGroup+":")
		lines = append(lines, graphLine(1, "@"+ungroupedGroup+":"))
		for _, h := range sortedHosts(r.ungrouped()) {
			lines = append(lines, graphLine(2, h.Name))
		}
		for _, g := range sortedGroups(r.rootGroups()) {
			lines = append(lines, graphGroup(g, 1)...)
		}
	case group == ungroupedGroup:
		lines = append(lines, "@"+ungroupedGroup+":")
		for _, h := range sortedHosts(r.ungrouped()) {
			lines = append(lines, graphLine(1, h.Name))
		}
	default:
		g, found := r.inv.Group(group)
		if !found {
			return fmt.Errorf("unknown group %s", group)
		}
		lines = graphGroup(g, 0)
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func graphLine(depth int, name string) string {
	if depth == 0 {
		return name
	}
	return strings.Repeat("  |", depth-1) + "  |--" + name
}

func graphGroup(g *store.Group, depth int) []string {
	lines := []string{graphLine(depth, "@"+g.Name+":")}
	for _, child := range sortedGroups(childGroups(g)) {
		lines = append(lines, graphGroup(child, depth+1)...)
	}
	for _, h := range sortedHosts(g.Hosts) {
		lines = append(lines, graphLine(depth+1, h.Name))
	}
	return lines
}

func sortedGroups(groups []*store.Group) []*store.Group {
	res := make([]*store.Group, len(groups))
	copy(res, groups)
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

func sortedHosts(hosts []*store.Host) []*store.Host {
	res := make([]*store.Host, len(hosts))
	copy(res, hosts)
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}
