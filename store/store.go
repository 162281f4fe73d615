package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/facette/natsort"
	"github.com/viert/sekwence"
)

var (
	// ErrUnknownHost is returned when a host is referenced before it's added
	ErrUnknownHost = errors.New("unknown host")
	// ErrGroupCycle is returned when a child link would make a group its own ancestor
	ErrGroupCycle = errors.New("group cycle")
)

// Inventory holds hosts, their variables and groups of one run.
// It's not safe for concurrent use.
type Inventory struct {
	groups *groupstore
	hosts  *hoststore

	naturalSort bool
}

// New creates an empty inventory
func New() *Inventory {
	inv := new(Inventory)
	inv.reinit()
	inv.naturalSort = true
	return inv
}

func (inv *Inventory) reinit() {
	inv.groups = new(groupstore)
	inv.groups.name = make(map[string]*Group)
	inv.groups.order = make([]*Group, 0)
	inv.hosts = new(hoststore)
	inv.hosts.name = make(map[string]*Host)
	inv.hosts.order = make([]*Host, 0)
}

// Reset drops all hosts and groups
func (inv *Inventory) Reset() {
	inv.reinit()
}

// AddHost registers a host. Adding an existing host is a no-op
func (inv *Inventory) AddHost(name string) {
	if _, found := inv.hosts.name[name]; found {
		return
	}
	host := &Host{
		Name:   name,
		Vars:   make(map[string]interface{}),
		Groups: make([]*Group, 0),
	}
	inv.hosts.name[name] = host
	inv.hosts.order = append(inv.hosts.order, host)
}

// Host returns a host by name
func (inv *Inventory) Host(name string) (*Host, bool) {
	host, found := inv.hosts.name[name]
	return host, found
}

// Hosts returns all hosts in the order they were added
func (inv *Inventory) Hosts() []*Host {
	return inv.hosts.order
}

// SetVariable sets a host variable overwriting the previous value
func (inv *Inventory) SetVariable(host string, key string, value interface{}) error {
	h, found := inv.hosts.name[host]
	if !found {
		return fmt.Errorf("setting %s: %w %s", key, ErrUnknownHost, host)
	}
	h.Vars[key] = value
	return nil
}

// AddGroup creates a group unless it already exists
func (inv *Inventory) AddGroup(name string) *Group {
	if group, found := inv.groups.name[name]; found {
		return group
	}
	group := &Group{
		Name:     name,
		Hosts:    make([]*Host, 0),
		Children: make([]*Group, 0),
		Parents:  make([]*Group, 0),
	}
	inv.groups.name[name] = group
	inv.groups.order = append(inv.groups.order, group)
	return group
}

// Group returns a group by name
func (inv *Inventory) Group(name string) (*Group, bool) {
	group, found := inv.groups.name[name]
	return group, found
}

// Groups returns all groups in the order they were created
func (inv *Inventory) Groups() []*Group {
	return inv.groups.order
}

// AddHostToGroup creates the group if needed and adds a registered host to it
func (inv *Inventory) AddHostToGroup(group string, host string) error {
	h, found := inv.hosts.name[host]
	if !found {
		return fmt.Errorf("adding to group %s: %w %s", group, ErrUnknownHost, host)
	}
	g := inv.AddGroup(group)
	if g.hasHost(h) {
		return nil
	}
	g.Hosts = append(g.Hosts, h)
	h.Groups = append(h.Groups, g)
	return nil
}

// AddChildGroup creates both groups if needed and makes child a subgroup of parent
func (inv *Inventory) AddChildGroup(parent string, child string) error {
	if parent == child {
		return fmt.Errorf("%w: %s can't be a child of itself", ErrGroupCycle, parent)
	}
	p := inv.AddGroup(parent)
	c := inv.AddGroup(child)
	if p.hasChild(c) {
		return nil
	}
	for _, descendant := range inv.groupAllChildren(c) {
		if descendant == p {
			return fmt.Errorf("%w: %s is a descendant of %s", ErrGroupCycle, parent, child)
		}
	}
	p.Children = append(p.Children, c)
	c.Parents = append(c.Parents, p)
	return nil
}

// TopGroups returns groups having no parents
func (inv *Inventory) TopGroups() []*Group {
	res := make([]*Group, 0)
	for _, group := range inv.groups.order {
		if len(group.Parents) == 0 {
			res = append(res, group)
		}
	}
	return res
}

// Ungrouped returns hosts not belonging to any group
func (inv *Inventory) Ungrouped() []*Host {
	res := make([]*Host, 0)
	for _, host := range inv.hosts.order {
		if len(host.Groups) == 0 {
			res = append(res, host)
		}
	}
	return res
}

// CompleteHost returns all postfixes of hostnames starting with a given prefix
func (inv *Inventory) CompleteHost(prefix string) []string {
	res := make([]string, 0)
	for hostname := range inv.hosts.name {
		if prefix == "" || strings.HasPrefix(hostname, prefix) {
			res = append(res, hostname[len(prefix):])
		}
	}
	sort.Strings(res)
	return res
}

// CompleteGroup returns all postfixes of group names starting with a given prefix
func (inv *Inventory) CompleteGroup(prefix string) []string {
	res := make([]string, 0)
	for name := range inv.groups.name {
		if prefix == "" || strings.HasPrefix(name, prefix) {
			res = append(res, name[len(prefix):])
		}
	}
	sort.Strings(res)
	return res
}

func (inv *Inventory) groupAllChildren(g *Group) []*Group {
	children := make([]*Group, len(g.Children))
	copy(children, g.Children)

	for _, child := range g.Children {
		children = append(children, inv.groupAllChildren(child)...)
	}
	return children
}

// GroupAllHosts returns hosts of the group and all its subgroups, each host once
func (inv *Inventory) GroupAllHosts(g *Group) []*Host {
	allGroups := inv.groupAllChildren(g)
	allGroups = append([]*Group{g}, allGroups...)
	seen := make(map[*Host]bool)
	hosts := make([]*Host, 0)
	for _, group := range allGroups {
		for _, host := range group.Hosts {
			if !seen[host] {
				seen[host] = true
				hosts = append(hosts, host)
			}
		}
	}
	return hosts
}

// SetNaturalSort enables/disables using of natural sorting
// within one expression token (i.e. group)
func (inv *Inventory) SetNaturalSort(value bool) {
	inv.naturalSort = value
}

func (inv *Inventory) tokenHosts(tok *token) []string {
	res := make([]string, 0)
	switch tok.Type {
	case tTypeHostRegexp:
		for _, host := range inv.hosts.order {
			if tok.RegexpFilter.MatchString(host.Name) {
				res = append(res, host.Name)
			}
		}
	case tTypeHost:
		hosts, err := sekwence.ExpandPattern(tok.Value)
		if err != nil {
			hosts = []string{tok.Value}
		}
		// only hosts known to the inventory
		for _, host := range hosts {
			if _, found := inv.hosts.name[host]; found {
				res = append(res, host)
			}
		}
	case tTypeGroup:
		group, found := inv.groups.name[tok.Value]
		if !found {
			break
		}
		for _, host := range inv.GroupAllHosts(group) {
			if tok.RegexpFilter != nil && !tok.RegexpFilter.MatchString(host.Name) {
				continue
			}
			res = append(res, host.Name)
		}
	}
	return res
}

// HostList returns a list of hostnames according to a given
// expression. Exclusion tokens remove hosts collected by
// the tokens preceding them.
func (inv *Inventory) HostList(expr []rune) ([]string, error) {
	tokens, err := parseExpression(expr)
	if err != nil {
		return nil, err
	}

	results := make([]string, 0)
	added := make(map[string]bool)

	for _, tok := range tokens {
		hosts := inv.tokenHosts(tok)

		if tok.Exclude {
			excluded := make(map[string]bool)
			for _, host := range hosts {
				excluded[host] = true
			}
			kept := make([]string, 0, len(results))
			for _, host := range results {
				if excluded[host] {
					delete(added, host)
					continue
				}
				kept = append(kept, host)
			}
			results = kept
			continue
		}

		// sorting within one expression token only
		// the order of tokens themselves should be respected
		if inv.naturalSort {
			natsort.Sort(hosts)
		} else {
			sort.Strings(hosts)
		}

		for _, host := range hosts {
			if !added[host] {
				added[host] = true
				results = append(results, host)
			}
		}
	}
	return results, nil
}
