package store

// Host represents an inventory host
type Host struct {
	Name   string
	Vars   map[string]interface{}
	Groups []*Group
}

// Group represents a named group of hosts and other groups
type Group struct {
	Name     string
	Hosts    []*Host
	Children []*Group
	Parents  []*Group
}

type hoststore struct {
	name  map[string]*Host
	order []*Host
}

type groupstore struct {
	name  map[string]*Group
	order []*Group
}

func (g *Group) hasHost(h *Host) bool {
	for _, member := range g.Hosts {
		if member == h {
			return true
		}
	}
	return false
}

func (g *Group) hasChild(c *Group) bool {
	for _, child := range g.Children {
		if child == c {
			return true
		}
	}
	return false
}
